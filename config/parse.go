package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

func ParseConfig[T any](configString []byte, filename string, target *T) error {
	// parse the config
	file, diags := hclsyntax.ParseConfig(configString, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return hclDiagsToError("failed to parse config", diags)
	}
	// create empty eval context
	evalCtx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: make(map[string]function.Function),
	}
	// decode the body into the target struct
	moreDiags := gohcl.DecodeBody(file.Body, evalCtx, target)
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		return hclDiagsToError("failed to parse config", diags)
	}
	return nil
}

// hclDiagsToError converts hcl diags into a single error
func hclDiagsToError(prefix string, diags hcl.Diagnostics) error {
	if !diags.HasErrors() {
		return nil
	}
	var details []string
	for _, diag := range diags.Errs() {
		details = append(details, diag.Error())
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(details, "; "))
}
