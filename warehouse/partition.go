package warehouse

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// hiveDefaultPartition is the directory value used for null partition values
const hiveDefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// columnIndex maps a partition column name to its struct field index for a
// row type. Columns resolve by parquet tag name, falling back to the
// snake_case field name.
func columnIndex(rowType reflect.Type, columns []string) (map[string]int, error) {
	byName := make(map[string]int, rowType.NumField())
	for i := 0; i < rowType.NumField(); i++ {
		field := rowType.Field(i)
		name := field.Name
		if tag, ok := field.Tag.Lookup("parquet"); ok && tag != "" {
			name, _, _ = strings.Cut(tag, ",")
		} else {
			name = strcase.ToSnake(name)
		}
		byName[name] = i
	}

	index := make(map[string]int, len(columns))
	for _, c := range columns {
		i, ok := byName[c]
		if !ok {
			return nil, fmt.Errorf("partition column %s not found on %s", c, rowType.Name())
		}
		index[c] = i
	}
	return index, nil
}

// partitionPath builds the hive-style partition directory for a row, e.g.
// "year=2018/artist_id=AR5KOSW1187FB35FF4"
func partitionPath(row reflect.Value, columns []string, index map[string]int) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, c+"="+partitionValue(row.Field(index[c])))
	}
	return strings.Join(parts, "/")
}

func partitionValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return hiveDefaultPartition
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return hiveDefaultPartition
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
