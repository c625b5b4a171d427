package kotlin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
)

// GenDTO generates the request/response data classes for one table. The
// response exposes the primary key and association identifiers; requests
// carry the writable columns plus the foreign-key identifiers of the
// table's many-to-one associations.
func (t *Target) GenDTO(ctx *gen.Context) gen.File {
	var (
		table   = ctx.Table
		c       = ctx.Config
		entity  = table.EntityName()
		imports = newImportSet()
	)
	pkType := t.mapper.PrimaryKeyType()
	if pk := table.PrimaryKey(); pk != nil {
		pkType = t.mapper.MapColumnType(pk)
		imports.addAll(t.mapper.RequiredImports(pk))
	}

	var resp, req []string
	resp = append(resp, fmt.Sprintf("    val id: %s,", pkType))
	for _, col := range dataColumns(c, table) {
		imports.addAll(t.mapper.RequiredImports(col))
		typ := t.mapper.MapColumnType(col)
		if col.Nullable {
			typ = t.mapper.NullableType(typ)
		}
		resp = append(resp, fmt.Sprintf("    val %s: %s,", col.FieldName(), typ))
		req = append(req, fmt.Sprintf("    val %s: %s,", col.FieldName(), typ))
	}
	if c.FeatureEnabled(gen.FeatureManyToOne.Name) {
		for _, rel := range ctx.Relationships {
			field := rel.FieldName() + "Id"
			resp = append(resp, fmt.Sprintf("    val %s: %s,", field, t.mapper.NullableType(pkType)))
			req = append(req, fmt.Sprintf("    val %s: %s,", field, t.mapper.NullableType(pkType)))
		}
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		imports.add("import java.time.Instant")
		resp = append(resp, "    val createdAt: Instant,", "    val updatedAt: Instant,")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.domain.dto\n\n", c.BasePackage, table.ModuleName())
	imports.write(&b, c, nil)
	fmt.Fprintf(&b, "data class %sResponse(\n%s\n)\n\n", entity, strings.Join(resp, "\n"))
	fmt.Fprintf(&b, "data class %sRequest(\n%s\n)\n", entity, strings.Join(req, "\n"))
	return gen.File{
		Path:    fmt.Sprintf("%s/domain/dto/%sDto.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}

// GenMapper generates the entity↔DTO mapper object for one table.
func (t *Target) GenMapper(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		module = table.ModuleName()
	)
	var toResp, toEntity []string
	toResp = append(toResp, "        id = entity.id!!,")
	for _, col := range dataColumns(c, table) {
		f := col.FieldName()
		toResp = append(toResp, fmt.Sprintf("        %s = entity.%s,", f, f))
		toEntity = append(toEntity, fmt.Sprintf("        %s = request.%s,", f, f))
	}
	if c.FeatureEnabled(gen.FeatureManyToOne.Name) {
		for _, rel := range ctx.Relationships {
			toResp = append(toResp, fmt.Sprintf("        %sId = entity.%s?.id,", rel.FieldName(), rel.FieldName()))
		}
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		toResp = append(toResp,
			"        createdAt = entity.createdAt,",
			"        updatedAt = entity.updatedAt,")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s.%s.domain.mapper\n\n", c.BasePackage, module)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sRequest\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.domain.dto.%sResponse\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "import %s.%s.domain.entity.%s\n\n", c.BasePackage, module, entity)
	fmt.Fprintf(&b, "object %sMapper {\n\n", entity)
	fmt.Fprintf(&b, "    fun toResponse(entity: %s): %sResponse = %sResponse(\n%s\n    )\n\n",
		entity, entity, entity, strings.Join(toResp, "\n"))
	fmt.Fprintf(&b, "    fun toEntity(request: %sRequest): %s = %s(\n%s\n    )\n",
		entity, entity, entity, strings.Join(toEntity, "\n"))
	b.WriteString("}\n")
	return gen.File{
		Path:    fmt.Sprintf("%s/domain/mapper/%sMapper.kt", modulePath(c, table), entity),
		Content: b.String(),
	}
}
