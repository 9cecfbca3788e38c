package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

const (
	// DefaultInputLocation is the object storage root the raw datasets are read from
	DefaultInputLocation = "s3://udacity-dend/"
	// DefaultOutputLocation is the object storage root the warehouse tables are written to
	DefaultOutputLocation = "s3://sparkify-lakehouse/"
)

// Config is the top level lakehouse configuration, loaded from an HCL config file.
// Credentials are explicit config values handed to the object store constructors -
// the process environment is never mutated.
type Config struct {
	// required to allow partial decoding
	Remain hcl.Body `hcl:",remain" json:"-"`

	// object storage roots - default to the compiled-in locations
	InputLocation  *string `hcl:"input_location"`
	OutputLocation *string `hcl:"output_location"`

	Connections []Connection `hcl:"connection,block"`
}

// Connection holds the credentials for one object storage provider
type Connection struct {
	Type string `hcl:"type,label"`

	// aws
	AccessKey        *string `hcl:"access_key"`
	SecretKey        *string `hcl:"secret_key"`
	SessionToken     *string `hcl:"session_token"`
	Region           *string `hcl:"region"`
	EndpointUrl      *string `hcl:"endpoint_url"`
	S3ForcePathStyle *bool   `hcl:"s3_force_path_style"`

	// gcp
	Credentials *string `hcl:"credentials"`
	Project     *string `hcl:"project"`
}

// NewConfig returns a config populated with the default locations
func NewConfig() *Config {
	return &Config{}
}

func (c *Config) Validate() error {
	for _, conn := range c.Connections {
		if err := conn.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Input() string {
	if c.InputLocation != nil && *c.InputLocation != "" {
		return *c.InputLocation
	}
	return DefaultInputLocation
}

func (c *Config) Output() string {
	if c.OutputLocation != nil && *c.OutputLocation != "" {
		return *c.OutputLocation
	}
	return DefaultOutputLocation
}

// ConnectionFor returns the connection block for the given provider type, if any
func (c *Config) ConnectionFor(connectionType string) *Connection {
	for i := range c.Connections {
		if c.Connections[i].Type == connectionType {
			return &c.Connections[i]
		}
	}
	return nil
}

func (c *Connection) Validate() error {
	switch c.Type {
	case "aws":
		if c.AccessKey != nil && c.SecretKey == nil {
			return fmt.Errorf("access_key set without secret_key")
		}
		if c.AccessKey == nil && c.SecretKey != nil {
			return fmt.Errorf("secret_key set without access_key")
		}
	case "gcp":
		// credentials file is optional - application default credentials are used if unset
	default:
		return fmt.Errorf("unsupported connection type %s", c.Type)
	}
	return nil
}

func (c *Connection) Identifier() string {
	return c.Type
}
