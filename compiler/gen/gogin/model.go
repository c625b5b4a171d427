package gogin

import (
	"bytes"

	"github.com/dave/jennifer/jen"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenModel generates the pgx row struct for one table. Associations stay
// scalar: many-to-one keeps the raw foreign-key column and the collection
// sides live in the repository as queries.
func (t *Target) GenModel(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
	)
	f := jen.NewFilePathName(importPath(c, table), table.ModuleName())

	var fields []jen.Code
	if pk := table.PrimaryKey(); pk != nil {
		fields = append(fields, structField(pk, false))
	}
	for _, col := range dataColumns(c, table) {
		fields = append(fields, structField(col, col.Nullable))
	}
	for _, fk := range table.ForeignKeys {
		if col := table.Column(fk.Column); col != nil {
			fields = append(fields, structField(col, col.Nullable))
		}
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		fields = append(fields,
			jen.Id("CreatedAt").Qual("time", "Time").Tag(tags("created_at")),
			jen.Id("UpdatedAt").Qual("time", "Time").Tag(tags("updated_at")),
		)
	}
	if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
		fields = append(fields,
			jen.Id("DeletedAt").Op("*").Qual("time", "Time").Tag(tags("deleted_at")))
	}

	f.Commentf("%s is one row of the %s table.", entity, table.Name)
	f.Type().Id(entity).Struct(fields...)
	return renderFile(modulePath(table)+"/model.go", f)
}

// GenDTO generates the request and response payload structs for one table.
func (t *Target) GenDTO(ctx *gen.Context) gen.File {
	var (
		table = ctx.Table
		c     = ctx.Config
	)
	f := jen.NewFilePathName(importPath(c, table), table.ModuleName())

	var create, update, resp []jen.Code
	if pk := table.PrimaryKey(); pk != nil {
		resp = append(resp, jen.Id(schema.Pascal(pk.Name)).Add(colType(pk, false)).Tag(jsonTag(pk.Name)))
	}
	for _, col := range writableColumns(c, table) {
		name := schema.Pascal(col.Name)
		create = append(create, jen.Id(name).Add(colType(col, col.Nullable)).Tag(bindingTag(col)))
		update = append(update, jen.Id(name).Add(colType(col, true)).Tag(jsonTag(col.Name)))
		resp = append(resp, jen.Id(name).Add(colType(col, col.Nullable)).Tag(jsonTag(col.Name)))
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		resp = append(resp,
			jen.Id("CreatedAt").Qual("time", "Time").Tag(jsonTag("created_at")),
			jen.Id("UpdatedAt").Qual("time", "Time").Tag(jsonTag("updated_at")),
		)
	}

	f.Commentf("CreateRequest is the payload accepted when creating a %s.", table.VarName())
	f.Type().Id("CreateRequest").Struct(create...)
	f.Line()
	f.Comment("UpdateRequest carries a partial update; nil fields are left unchanged.")
	f.Type().Id("UpdateRequest").Struct(update...)
	f.Line()
	f.Commentf("Response is the wire shape of one %s.", table.VarName())
	f.Type().Id("Response").Struct(resp...)
	return renderFile(modulePath(table)+"/dto.go", f)
}

// GenMapper generates the model/DTO conversion helpers for one table.
func (t *Target) GenMapper(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
	)
	f := jen.NewFilePathName(importPath(c, table), table.ModuleName())

	var respFields []jen.Code
	if pk := table.PrimaryKey(); pk != nil {
		n := schema.Pascal(pk.Name)
		respFields = append(respFields, jen.Id(n).Op(":").Id("m").Dot(n))
	}
	for _, col := range writableColumns(c, table) {
		n := schema.Pascal(col.Name)
		respFields = append(respFields, jen.Id(n).Op(":").Id("m").Dot(n))
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		respFields = append(respFields,
			jen.Id("CreatedAt").Op(":").Id("m").Dot("CreatedAt"),
			jen.Id("UpdatedAt").Op(":").Id("m").Dot("UpdatedAt"),
		)
	}
	f.Commentf("ToResponse converts a %s row into its wire shape.", table.VarName())
	f.Func().Id("ToResponse").Params(jen.Id("m").Op("*").Id(entity)).Id("Response").Block(
		jen.Return(jen.Id("Response").Values(respFields...)),
	)
	f.Line()

	var body []jen.Code
	for _, col := range writableColumns(c, table) {
		n := schema.Pascal(col.Name)
		if col.Nullable {
			body = append(body, jen.If(jen.Id("req").Dot(n).Op("!=").Nil()).Block(
				jen.Id("m").Dot(n).Op("=").Id("req").Dot(n),
			))
			continue
		}
		body = append(body, jen.If(jen.Id("req").Dot(n).Op("!=").Nil()).Block(
			jen.Id("m").Dot(n).Op("=").Op("*").Id("req").Dot(n),
		))
	}
	if c.FeatureEnabled(gen.FeatureAuditing.Name) {
		body = append(body, jen.Id("m").Dot("UpdatedAt").Op("=").Qual("time", "Now").Call())
	}
	f.Comment("ApplyUpdate folds a partial update into a loaded row.")
	f.Func().Id("ApplyUpdate").Params(
		jen.Id("m").Op("*").Id(entity),
		jen.Id("req").Op("*").Id("UpdateRequest"),
	).Block(body...)
	return renderFile(modulePath(table)+"/mapper.go", f)
}

// structField renders one model struct field with db and json tags.
func structField(col *schema.Column, nullable bool) jen.Code {
	return jen.Id(schema.Pascal(col.Name)).Add(colType(col, nullable)).Tag(tags(col.Name))
}

// colType renders the Go type of a column, pointer-wrapped when nullable.
// Slice-backed types never get a pointer; nil already marks absence.
func colType(col *schema.Column, nullable bool) *jen.Statement {
	base := func() *jen.Statement {
		switch col.Type {
		case schema.TypeInt:
			return jen.Int32()
		case schema.TypeBigInt:
			return jen.Int64()
		case schema.TypeDecimal:
			return jen.Qual("github.com/shopspring/decimal", "Decimal")
		case schema.TypeFloat:
			return jen.Float64()
		case schema.TypeBool:
			return jen.Bool()
		case schema.TypeDate, schema.TypeTime, schema.TypeTimestamp:
			return jen.Qual("time", "Time")
		case schema.TypeUUID:
			return jen.Qual("github.com/google/uuid", "UUID")
		case schema.TypeJSON:
			return jen.Qual("encoding/json", "RawMessage")
		case schema.TypeBytes:
			return jen.Index().Byte()
		default:
			return jen.String()
		}
	}()
	if nullable && col.Type != schema.TypeJSON && col.Type != schema.TypeBytes {
		return jen.Op("*").Add(base)
	}
	return base
}

func tags(column string) map[string]string {
	return map[string]string{"db": column, "json": column}
}

func jsonTag(column string) map[string]string {
	return map[string]string{"json": column}
}

// bindingTag marks required create fields for Gin's validator.
func bindingTag(col *schema.Column) map[string]string {
	m := map[string]string{"json": col.Name}
	if !col.Nullable && !col.HasDefault() {
		m["binding"] = "required"
	}
	return m
}

// renderFile renders a jennifer file and normalizes it through the imports
// processor.
func renderFile(path string, f *jen.File) gen.File {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		// Render fails only on malformed statements; surface the error in
		// the artifact rather than dropping the file.
		return gen.File{Path: path, Content: "// render error: " + err.Error() + "\n"}
	}
	return gen.File{Path: path, Content: format(path, buf.String())}
}
