package rust

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenModel generates the sqlx row struct for one table. Unlike the JPA
// target, associations stay scalar: many-to-one keeps the raw foreign-key
// column and the collection sides live in the repository as queries.
func (t *Target) GenModel(ctx *gen.Context) gen.File {
	var (
		table   = ctx.Table
		c       = ctx.Config
		entity  = table.EntityName()
		imports = newUseSet("use serde::Serialize;", "use sqlx::FromRow;")
		fields  []string
	)
	if pk := table.PrimaryKey(); pk != nil {
		imports.addAll(t.mapper.RequiredImports(pk))
		fields = append(fields, fmt.Sprintf("    pub %s: %s,", pk.Name, t.mapper.MapColumnType(pk)))
	}
	for _, col := range dataColumns(c, table) {
		imports.addAll(t.mapper.RequiredImports(col))
		typ := t.mapper.MapColumnType(col)
		if col.Nullable {
			typ = t.mapper.NullableType(typ)
		}
		fields = append(fields, fmt.Sprintf("    pub %s: %s,", col.Name, typ))
	}
	for _, fk := range table.ForeignKeys {
		col := table.Column(fk.Column)
		if col == nil {
			continue
		}
		imports.addAll(t.mapper.RequiredImports(col))
		typ := t.mapper.MapColumnType(col)
		if col.Nullable {
			typ = t.mapper.NullableType(typ)
		}
		fields = append(fields, fmt.Sprintf("    pub %s: %s,", col.Name, typ))
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		imports.add("use chrono::{DateTime, Utc};")
		fields = append(fields,
			"    pub created_at: DateTime<Utc>,",
			"    pub updated_at: DateTime<Utc>,")
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		imports.add("use chrono::{DateTime, Utc};")
		fields = append(fields, "    pub deleted_at: Option<DateTime<Utc>>,")
	}

	var b strings.Builder
	imports.write(&b)
	fmt.Fprintf(&b, "#[derive(Debug, Clone, Serialize, FromRow)]\npub struct %s {\n%s\n}\n",
		entity, strings.Join(fields, "\n"))
	return gen.File{
		Path:    modulePath(table) + "/model.rs",
		Content: b.String(),
	}
}

// GenDTO generates the create/update payload structs for one table.
func (t *Target) GenDTO(ctx *gen.Context) gen.File {
	var (
		table   = ctx.Table
		c       = ctx.Config
		entity  = table.EntityName()
		imports = newUseSet("use serde::Deserialize;")
		create  []string
		update  []string
	)
	appendField := func(name, typ string, nullable bool) {
		createTyp := typ
		if nullable {
			createTyp = t.mapper.NullableType(typ)
		}
		create = append(create, fmt.Sprintf("    pub %s: %s,", name, createTyp))
		update = append(update, fmt.Sprintf("    pub %s: %s,", name, t.mapper.NullableType(typ)))
	}
	for _, col := range dataColumns(c, table) {
		imports.addAll(t.mapper.RequiredImports(col))
		appendField(col.Name, t.mapper.MapColumnType(col), col.Nullable)
	}
	for _, fk := range table.ForeignKeys {
		col := table.Column(fk.Column)
		if col == nil {
			continue
		}
		imports.addAll(t.mapper.RequiredImports(col))
		appendField(col.Name, t.mapper.MapColumnType(col), col.Nullable)
	}

	var b strings.Builder
	imports.write(&b)
	fmt.Fprintf(&b, "#[derive(Debug, Deserialize)]\npub struct Create%s {\n%s\n}\n\n", entity, strings.Join(create, "\n"))
	fmt.Fprintf(&b, "#[derive(Debug, Deserialize)]\npub struct Update%s {\n%s\n}\n", entity, strings.Join(update, "\n"))
	return gen.File{
		Path:    modulePath(table) + "/dto.rs",
		Content: b.String(),
	}
}

// GenMapper generates the update-application helper for one table: the
// function folding an update payload into a loaded row.
func (t *Target) GenMapper(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
	)
	var b strings.Builder
	fmt.Fprintf(&b, "use crate::%s::dto::Update%s;\n", module, entity)
	fmt.Fprintf(&b, "use crate::%s::model::%s;\n\n", module, entity)
	fmt.Fprintf(&b, "pub fn apply_update(row: &mut %s, update: Update%s) {\n", entity, entity)
	assign := func(col *schema.Column) {
		if col.Nullable {
			fmt.Fprintf(&b, "    if update.%s.is_some() {\n        row.%s = update.%s;\n    }\n", col.Name, col.Name, col.Name)
			return
		}
		fmt.Fprintf(&b, "    if let Some(v) = update.%s {\n        row.%s = v;\n    }\n", col.Name, col.Name)
	}
	for _, col := range dataColumns(c, table) {
		assign(col)
	}
	for _, fk := range table.ForeignKeys {
		if col := table.Column(fk.Column); col != nil {
			assign(col)
		}
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		b.WriteString("    row.updated_at = chrono::Utc::now();\n")
	}
	b.WriteString("}\n")
	return gen.File{
		Path:    modulePath(table) + "/mapper.rs",
		Content: b.String(),
	}
}

// useSet deduplicates and sorts use declarations.
type useSet map[string]struct{}

func newUseSet(lines ...string) useSet {
	s := make(useSet)
	for _, l := range lines {
		s.add(l)
	}
	return s
}

func (s useSet) add(line string) { s[line] = struct{}{} }

func (s useSet) addAll(lines []string) {
	for _, l := range lines {
		s.add(l)
	}
}

func (s useSet) write(b *strings.Builder) {
	lines := make([]string, 0, len(s))
	for l := range s {
		lines = append(lines, l)
	}
	sort.Strings(lines)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}
}
