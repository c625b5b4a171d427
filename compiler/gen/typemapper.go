package gen

import "github.com/apiforge/forge/schema"

// TypeMapper maps logical column types to one target language's syntax.
// Implementations are total over the closed set of logical types; a logical
// type the mapper does not recognize passes its raw spelling through
// unchanged rather than failing.
type TypeMapper interface {
	// MapColumnType returns the target-language type of the column.
	MapColumnType(c *schema.Column) string

	// RequiredImports returns the import statements the column's mapped
	// type needs, empty for builtin types.
	RequiredImports(c *schema.Column) []string

	// DefaultValue returns the target-language literal for the column's
	// default value, or empty when the column has none.
	DefaultValue(c *schema.Column) string

	// PrimaryKeyType returns the target-language type of primary keys.
	PrimaryKeyType() string

	// ListType wraps an element type in the target's list/collection type.
	ListType(element string) string

	// NullableType wraps a type in the target's nullability marker.
	NullableType(typ string) string
}

// PassThrough resolves the permissive fallback spelling for a column whose
// logical type a mapper does not recognize: the raw source spelling when
// present, otherwise the logical type name itself.
func PassThrough(c *schema.Column) string {
	if c.RawType != "" {
		return c.RawType
	}
	return c.Type.String()
}
