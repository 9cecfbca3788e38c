package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Row is a single tabular row: column name to value.
// Values decoded from NDJSON are string, bool, json.Number, nil or nested
// json values; derived columns may add int, int64, int32 or float64 values.
type Row map[string]any

// ColumnError is returned when an operation references a column a row does
// not carry - a schema mismatch which aborts the whole evaluation
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found in row", e.Column)
}

// Value returns the raw value of a column; a missing column is a schema error
func (r Row) Value(column string) (any, error) {
	v, ok := r[column]
	if !ok {
		return nil, &ColumnError{Column: column}
	}
	return v, nil
}

// Has reports whether the column is present (possibly with a null value)
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// IsNull reports whether the column holds a null value
func (r Row) IsNull(column string) bool {
	v, ok := r[column]
	return ok && v == nil
}

// String returns the column as a string
func (r Row) String(column string) (string, error) {
	v, err := r.Value(column)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

// StringOrNull returns the column as a string pointer, nil for null values
func (r Row) StringOrNull(column string) (*string, error) {
	v, err := r.Value(column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s, err := r.String(column)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Int64 returns the column as an int64
func (r Row) Int64(column string) (int64, error) {
	v, err := r.Value(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case json.Number:
		return t.Int64()
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("column %q: cannot convert %T to int64", column, v)
	}
}

// Int returns the column as an int
func (r Row) Int(column string) (int, error) {
	i, err := r.Int64(column)
	return int(i), err
}

// Float returns the column as a float64
func (r Row) Float(column string) (float64, error) {
	v, err := r.Value(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("column %q: cannot convert %T to float64", column, v)
	}
}

// FloatOrNull returns the column as a float pointer, nil for null values
func (r Row) FloatOrNull(column string) (*float64, error) {
	v, err := r.Value(column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	f, err := r.Float(column)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	clone := make(Row, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// key returns a canonical encoding of the row over all its columns, used for
// full-row deduplication
func (r Row) key() string {
	columns := make([]string, 0, len(r))
	for c := range r {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	var sb strings.Builder
	for _, c := range columns {
		sb.WriteString(c)
		sb.WriteByte('=')
		sb.WriteString(canonicalValue(r[c]))
		sb.WriteByte('\x1f')
	}
	return sb.String()
}

// canonicalValue encodes a value so that equal values (under the engine's
// exact equality semantics) encode identically. Numeric values are
// canonicalised through float64 - equality is exact, with no tolerance.
func canonicalValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return "n:" + t.String()
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	case float64:
		return "n:" + strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int32:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int64:
		return "n:" + strconv.FormatFloat(float64(t), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
