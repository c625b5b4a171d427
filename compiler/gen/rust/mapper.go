package rust

import (
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// TypeMapper maps logical column types to Rust syntax. The mapped types
// line up with what sqlx decodes from Postgres.
type TypeMapper struct{}

var rustTypes = map[schema.ColType]string{
	schema.TypeInt:       "i32",
	schema.TypeBigInt:    "i64",
	schema.TypeDecimal:   "Decimal",
	schema.TypeFloat:     "f64",
	schema.TypeBool:      "bool",
	schema.TypeString:    "String",
	schema.TypeText:      "String",
	schema.TypeDate:      "NaiveDate",
	schema.TypeTime:      "NaiveTime",
	schema.TypeTimestamp: "DateTime<Utc>",
	schema.TypeUUID:      "Uuid",
	schema.TypeJSON:      "serde_json::Value",
	schema.TypeBytes:     "Vec<u8>",
	schema.TypeEnum:      "String",
}

var rustImports = map[schema.ColType]string{
	schema.TypeDecimal:   "use rust_decimal::Decimal;",
	schema.TypeDate:      "use chrono::NaiveDate;",
	schema.TypeTime:      "use chrono::NaiveTime;",
	schema.TypeTimestamp: "use chrono::{DateTime, Utc};",
	schema.TypeUUID:      "use uuid::Uuid;",
}

// MapColumnType returns the Rust type of the column. Unrecognized logical
// types pass their source spelling through unchanged.
func (TypeMapper) MapColumnType(c *schema.Column) string {
	if t, ok := rustTypes[c.Type]; ok {
		return t
	}
	return gen.PassThrough(c)
}

// RequiredImports returns the use declarations the column's type needs.
func (TypeMapper) RequiredImports(c *schema.Column) []string {
	if imp, ok := rustImports[c.Type]; ok {
		return []string{imp}
	}
	return nil
}

// DefaultValue returns the Rust literal for the column's default, or empty
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
		return `"` + strings.Trim(d, "'") + `".to_string()`
	}
	return ""
}

// PrimaryKeyType returns the Rust type of generated primary keys.
func (TypeMapper) PrimaryKeyType() string { return "i64" }

// ListType wraps an element type in a Vec.
func (TypeMapper) ListType(element string) string { return "Vec<" + element + ">" }

// NullableType wraps a type in Option.
func (TypeMapper) NullableType(typ string) string {
	if strings.HasPrefix(typ, "Option<") {
		return typ
	}
	return "Option<" + typ + ">"
}
