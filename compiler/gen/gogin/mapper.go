package gogin

import (
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// TypeMapper maps logical column types to Go syntax. The mapped types line
// up with what pgx scans from Postgres.
type TypeMapper struct{}

var goTypes = map[schema.ColType]string{
	schema.TypeInt:       "int32",
	schema.TypeBigInt:    "int64",
	schema.TypeDecimal:   "decimal.Decimal",
	schema.TypeFloat:     "float64",
	schema.TypeBool:      "bool",
	schema.TypeString:    "string",
	schema.TypeText:      "string",
	schema.TypeDate:      "time.Time",
	schema.TypeTime:      "time.Time",
	schema.TypeTimestamp: "time.Time",
	schema.TypeUUID:      "uuid.UUID",
	schema.TypeJSON:      "json.RawMessage",
	schema.TypeBytes:     "[]byte",
	schema.TypeEnum:      "string",
}

var goImports = map[schema.ColType]string{
	schema.TypeDecimal:   "github.com/shopspring/decimal",
	schema.TypeDate:      "time",
	schema.TypeTime:      "time",
	schema.TypeTimestamp: "time",
	schema.TypeUUID:      "github.com/google/uuid",
	schema.TypeJSON:      "encoding/json",
}

// MapColumnType returns the Go type of the column. Unrecognized logical
// types pass their source spelling through unchanged.
func (TypeMapper) MapColumnType(c *schema.Column) string {
	if t, ok := goTypes[c.Type]; ok {
		return t
	}
	return gen.PassThrough(c)
}

// RequiredImports returns the import paths the column's type needs.
func (TypeMapper) RequiredImports(c *schema.Column) []string {
	if imp, ok := goImports[c.Type]; ok {
		return []string{imp}
	}
	return nil
}

// DefaultValue returns the Go literal for the column's default, or empty
// when the column has none or the default is a database expression.
func (TypeMapper) DefaultValue(c *schema.Column) string {
	if !c.HasDefault() {
		return ""
	}
	d := strings.TrimSpace(c.Default)
	switch {
	case c.Type == schema.TypeBool:
		return strings.ToLower(d)
	case c.Type.Numeric():
		return d
	case c.Type.Textual() && !strings.Contains(d, "("):
		return `"` + strings.Trim(d, "'") + `"`
	}
	return ""
}

// PrimaryKeyType returns the Go type of generated primary keys.
func (TypeMapper) PrimaryKeyType() string { return "int64" }

// ListType wraps an element type in a slice.
func (TypeMapper) ListType(element string) string { return "[]" + element }

// NullableType wraps a type in a pointer.
func (TypeMapper) NullableType(typ string) string {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "[]") {
		return typ
	}
	return "*" + typ
}
