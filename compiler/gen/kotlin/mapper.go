package kotlin

import (
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// TypeMapper maps logical column types to Kotlin syntax.
type TypeMapper struct{}

var kotlinTypes = map[schema.ColType]string{
	schema.TypeInt:       "Int",
	schema.TypeBigInt:    "Long",
	schema.TypeDecimal:   "BigDecimal",
	schema.TypeFloat:     "Double",
	schema.TypeBool:      "Boolean",
	schema.TypeString:    "String",
	schema.TypeText:      "String",
	schema.TypeDate:      "LocalDate",
	schema.TypeTime:      "LocalTime",
	schema.TypeTimestamp: "Instant",
	schema.TypeUUID:      "UUID",
	schema.TypeJSON:      "String",
	schema.TypeBytes:     "ByteArray",
	schema.TypeEnum:      "String",
}

var kotlinImports = map[schema.ColType]string{
	schema.TypeDecimal:   "import java.math.BigDecimal",
	schema.TypeDate:      "import java.time.LocalDate",
	schema.TypeTime:      "import java.time.LocalTime",
	schema.TypeTimestamp: "import java.time.Instant",
	schema.TypeUUID:      "import java.util.UUID",
}

// MapColumnType returns the Kotlin type of the column. Unrecognized logical
// types pass their source spelling through unchanged.
func (TypeMapper) MapColumnType(c *schema.Column) string {
	if t, ok := kotlinTypes[c.Type]; ok {
		return t
	}
	return gen.PassThrough(c)
}

// RequiredImports returns the import statements the column's type needs.
func (TypeMapper) RequiredImports(c *schema.Column) []string {
	if imp, ok := kotlinImports[c.Type]; ok {
		return []string{imp}
	}
	return nil
}

// DefaultValue returns the Kotlin literal for the column's default, or
// empty when the column has none or the default is a database expression.
func (m TypeMapper) DefaultValue(c *schema.Column) string {
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
	// now(), gen_random_uuid() and friends stay database-side.
	return ""
}

// PrimaryKeyType returns the Kotlin type of generated primary keys.
func (TypeMapper) PrimaryKeyType() string { return "Long" }

// ListType wraps an element type in a mutable collection.
func (TypeMapper) ListType(element string) string { return "MutableList<" + element + ">" }

// NullableType marks a Kotlin type nullable.
func (TypeMapper) NullableType(typ string) string {
	if strings.HasSuffix(typ, "?") {
		return typ
	}
	return typ + "?"
}

// zeroValue returns the non-null initializer used in entity constructors.
func (m TypeMapper) zeroValue(c *schema.Column) string {
	if d := m.DefaultValue(c); d != "" {
		return d
	}
	switch c.Type {
	case schema.TypeInt:
		return "0"
	case schema.TypeBigInt:
		return "0L"
	case schema.TypeDecimal:
		return "BigDecimal.ZERO"
	case schema.TypeFloat:
		return "0.0"
	case schema.TypeBool:
		return "false"
	case schema.TypeDate:
		return "LocalDate.now()"
	case schema.TypeTime:
		return "LocalTime.now()"
	case schema.TypeTimestamp:
		return "Instant.now()"
	case schema.TypeUUID:
		return "UUID.randomUUID()"
	case schema.TypeBytes:
		return "ByteArray(0)"
	default:
		return `""`
	}
}
