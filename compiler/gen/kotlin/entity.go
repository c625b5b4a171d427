package kotlin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenModel generates the JPA entity class for one table. Association fields
// are derived from the precomputed relationship slices: many-to-one from the
// table's own foreign keys, one-to-many collections from the inverse lookup
// (junction sources excluded upstream), and many-to-many sets from the
// junction resolution.
func (t *Target) GenModel(ctx *gen.Context) gen.File {
	var (
		table   = ctx.Table
		c       = ctx.Config
		entity  = table.EntityName()
		imports = newImportSet("jakarta.persistence.*")
		fields  []string
	)
	if pk := table.PrimaryKey(); pk != nil {
		typ := t.mapper.MapColumnType(pk)
		imports.addAll(t.mapper.RequiredImports(pk))
		strategy := "GenerationType.IDENTITY"
		if pk.Type == schema.TypeUUID {
			strategy = "GenerationType.UUID"
		}
		fields = append(fields, fmt.Sprintf(
			"    @Id\n    @GeneratedValue(strategy = %s)\n    var %s: %s? = null,",
			strategy, pk.FieldName(), typ))
	}
	for _, col := range dataColumns(c, table) {
		imports.addAll(t.mapper.RequiredImports(col))
		fields = append(fields, columnField(t.mapper, col))
	}
	if c.FeatureEnabled(gen.FeatureManyToOne.Name) {
		for _, rel := range ctx.Relationships {
			target := ctx.Schema.Table(rel.TargetTable)
			if target == nil {
				continue
			}
			imports.add(entityImport(c, target))
			fields = append(fields, fmt.Sprintf(
				"    @ManyToOne(fetch = FetchType.LAZY)\n    @JoinColumn(name = %q)\n    var %s: %s? = null,",
				rel.ForeignKey.Column, rel.FieldName(), target.EntityName()))
		}
	}
	if c.FeatureEnabled(gen.FeatureOneToMany.Name) {
		for _, rel := range ctx.Inverse {
			target := ctx.Schema.Table(rel.TargetTable)
			if target == nil {
				continue
			}
			imports.add(entityImport(c, target))
			fields = append(fields, fmt.Sprintf(
				"    @OneToMany(mappedBy = %q)\n    var %s: MutableList<%s> = mutableListOf(),",
				rel.ForeignKey.FieldName(), rel.FieldName(), target.EntityName()))
		}
	}
	if c.FeatureEnabled(gen.FeatureManyToMany.Name) {
		for _, rel := range ctx.ManyToMany {
			imports.add(entityImport(c, rel.TargetTable))
			fields = append(fields, fmt.Sprintf(
				"    @ManyToMany\n    @JoinTable(\n        name = %q,\n        joinColumns = [JoinColumn(name = %q)],\n        inverseJoinColumns = [JoinColumn(name = %q)],\n    )\n    var %s: MutableSet<%s> = mutableSetOf(),",
				rel.JunctionTable, rel.SourceColumn, rel.TargetColumn,
				rel.FieldName(), rel.TargetTable.EntityName()))
		}
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		imports.add("import java.time.Instant")
		fields = append(fields,
			"    @Column(name = \"created_at\", nullable = false, updatable = false)\n    var createdAt: Instant = Instant.now(),",
			"    @Column(name = \"updated_at\", nullable = false)\n    var updatedAt: Instant = Instant.now(),")
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		imports.add("import java.time.Instant")
		fields = append(fields,
			"    @Column(name = \"deleted_at\")\n    var deletedAt: Instant? = null,")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.domain.entity\n\n", c.BasePackage, table.ModuleName())
	imports.write(&b, c, table)
	fmt.Fprintf(&b, "@Entity\n@Table(name = %q)\nclass %s(\n", table.Name, entity)
	b.WriteString(strings.Join(fields, "\n\n"))
	b.WriteString("\n)\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/domain/entity/%s.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}

func columnField(m TypeMapper, col *schema.Column) string {
	typ := m.MapColumnType(col)
	if col.Nullable {
		return fmt.Sprintf("    @Column(name = %q)\n    var %s: %s = null,",
			col.Name, col.FieldName(), m.NullableType(typ))
	}
	return fmt.Sprintf("    @Column(name = %q, nullable = false)\n    var %s: %s = %s,",
		col.Name, col.FieldName(), typ, m.zeroValue(col))
}

func entityImport(c *gen.Config, t *schema.Table) string {
	return fmt.Sprintf("import %s.%s.domain.entity.%s", c.BasePackage, t.ModuleName(), t.EntityName())
}

// importSet deduplicates and sorts import lines, dropping self-imports.
type importSet map[string]struct{}

func newImportSet(pkgs ...string) importSet {
	s := make(importSet)
	for _, p := range pkgs {
		s.add("import " + p)
	}
	return s
}

func (s importSet) add(line string) { s[line] = struct{}{} }

func (s importSet) addAll(lines []string) {
	for _, l := range lines {
		s.add(l)
	}
}

func (s importSet) write(b *strings.Builder, c *gen.Config, self *schema.Table) {
	selfImport := ""
	if self != nil {
		selfImport = entityImport(c, self)
	}
	lines := make([]string, 0, len(s))
	for l := range s {
		if l == selfImport {
			continue
		}
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
