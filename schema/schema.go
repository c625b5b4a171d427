// Package schema defines the immutable in-memory representation of a parsed
// SQL schema: tables, columns, foreign keys and functions, together with the
// derived predicates and names the generators rely on. A Schema is built once
// per generation request and never mutated afterwards.
package schema

import "strings"

type (
	// Schema holds all tables and functions of one parsed database schema.
	Schema struct {
		// Name of the schema/database.
		Name string
		// Tables in their source order. The order is significant: it drives
		// the per-table generation order and migration version numbering.
		Tables []*Table
		// Functions declared in the schema.
		Functions []*Function

		tables map[string]*Table
	}

	// Table is one table of the schema.
	Table struct {
		// Name is the snake_case source identifier.
		Name string
		// Columns in their source order. The order is preserved verbatim
		// in generated constructors and builders.
		Columns []*Column
		// ForeignKeys residing in this table, in source order.
		ForeignKeys []*ForeignKey
	}

	// Column is one column of a table.
	Column struct {
		// Name is the snake_case source identifier.
		Name string
		// Type is the logical column type.
		Type ColType
		// RawType keeps the source type spelling. It is the pass-through
		// mapping for logical types no mapper recognizes.
		RawType string
		// Nullable indicates the column accepts NULL.
		Nullable bool
		// Default holds the default value expression, or empty for none.
		Default string
		// PrimaryKey indicates this column is (part of) the primary key.
		PrimaryKey bool
		// Unique indicates a unique constraint on the column.
		Unique bool
		// Length of character types, 0 when unbounded or not applicable.
		Length int
	}

	// ForeignKey is a foreign-key constraint owned by a table.
	ForeignKey struct {
		// Column is the constrained column in the owning table.
		Column string
		// RefTable is the referenced table name.
		RefTable string
		// RefColumn is the referenced column name.
		RefColumn string
	}

	// Function is a schema-level SQL function or procedure.
	Function struct {
		Name    string
		Returns string
		Args    []string
	}
)

// New constructs a Schema from the given tables and indexes them by name.
func New(name string, tables []*Table, fns ...*Function) *Schema {
	s := &Schema{Name: name, Tables: tables, Functions: fns, tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// Table returns the table with the given name, or nil if it does not exist.
func (s *Schema) Table(name string) *Table { return s.tables[name] }

// EntityTables returns all tables that map to generated domain objects,
// in schema order.
func (s *Schema) EntityTables() []*Table {
	tables := make([]*Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		if t.IsEntityTable() {
			tables = append(tables, t)
		}
	}
	return tables
}

// JunctionTables returns all junction tables of the schema, in schema order.
func (s *Schema) JunctionTables() []*Table {
	var tables []*Table
	for _, t := range s.Tables {
		if t.IsJunctionTable() {
			tables = append(tables, t)
		}
	}
	return tables
}

// systemTables are bookkeeping tables owned by migration tooling. They are
// neither entity nor junction tables.
var systemTables = map[string]struct{}{
	"flyway_schema_history": {},
	"schema_migrations":     {},
	"migrations":            {},
	"_sqlx_migrations":      {},
}

// auditColumns do not count as business columns for junction detection.
var auditColumns = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
	"deleted_at": {},
}

// IsAuditColumn reports if the column name is one of the audit bookkeeping
// columns (id, created_at, updated_at, deleted_at).
func IsAuditColumn(name string) bool {
	_, ok := auditColumns[name]
	return ok
}

// IsJunctionTable reports if the table realizes a many-to-many association:
// exactly two foreign keys and no business columns besides the key columns
// and audit bookkeeping.
func (t *Table) IsJunctionTable() bool {
	if len(t.ForeignKeys) != 2 {
		return false
	}
	fkCols := map[string]struct{}{
		t.ForeignKeys[0].Column: {},
		t.ForeignKeys[1].Column: {},
	}
	for _, c := range t.Columns {
		if _, ok := fkCols[c.Name]; ok {
			continue
		}
		if _, ok := auditColumns[c.Name]; ok {
			continue
		}
		return false
	}
	return true
}

// IsEntityTable reports if the table maps to a generated domain object.
// Junction tables and migration bookkeeping tables are excluded.
func (t *Table) IsEntityTable() bool {
	if _, ok := systemTables[t.Name]; ok {
		return false
	}
	return !t.IsJunctionTable()
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ForeignKey returns the foreign key constraining the given column, or nil.
func (t *Table) ForeignKey(column string) *ForeignKey {
	for _, fk := range t.ForeignKeys {
		if fk.Column == column {
			return fk
		}
	}
	return nil
}

// PrimaryKey returns the primary-key column, or nil when none is declared.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// EntityName returns the PascalCase singular name of the generated domain
// object. E.g. "user_roles" becomes "UserRole".
func (t *Table) EntityName() string { return Pascal(Singular(t.Name)) }

// ModuleName returns the lower-case module/package segment derived from the
// table name. Unique per table because table names are unique.
func (t *Table) ModuleName() string {
	return strings.ReplaceAll(Singular(t.Name), "_", "")
}

// VarName returns the camelCase variable name for one row of this table.
func (t *Table) VarName() string { return Camel(Singular(t.Name)) }

// IsForeignKey reports if the column is constrained by a foreign key of
// its table.
func (t *Table) IsForeignKey(c *Column) bool { return t.ForeignKey(c.Name) != nil }

// DataColumns returns the columns that are not foreign-key columns and not
// the primary key. These become plain fields on the generated entity.
func (t *Table) DataColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.PrimaryKey || t.IsForeignKey(c) {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// FieldName returns the camelCase field name of the column.
func (c *Column) FieldName() string { return Camel(c.Name) }

// HasDefault reports if the column declares a default value.
func (c *Column) HasDefault() bool { return c.Default != "" }

// FieldName returns the camelCase association field name derived from the
// constrained column: "owner_id" becomes "owner", "role_id" becomes "role".
func (fk *ForeignKey) FieldName() string {
	name := strings.TrimSuffix(fk.Column, "_id")
	if name == fk.Column {
		name = strings.TrimSuffix(fk.Column, "_"+fk.RefColumn)
	}
	return Camel(name)
}
