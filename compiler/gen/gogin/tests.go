package gogin

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenUnitTest generates the mapper test for one table: a partial update
// folds into the row, an empty update leaves it untouched.
func (t *Target) GenUnitTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		entity = table.EntityName()
		module = table.ModuleName()
		pk     = table.PrimaryKey()
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", module)
	b.WriteString("import (\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/assert\"\n)\n\n")

	fmt.Fprintf(&b, "func TestToResponse(t *testing.T) {\n")
	fmt.Fprintf(&b, "\tm := &%s{}\n", entity)
	b.WriteString("\tresp := ToResponse(m)\n")
	if pk != nil {
		field := schema.Pascal(pk.Name)
		fmt.Fprintf(&b, "\tassert.Equal(t, m.%s, resp.%s)\n", field, field)
	} else {
		b.WriteString("\t_ = resp\n")
	}
	b.WriteString("}\n\n")

	target := firstRequiredString(writableColumns(ctx.Config, table))
	b.WriteString("func TestApplyUpdate(t *testing.T) {\n")
	if target != nil {
		field := schema.Pascal(target.Name)
		fmt.Fprintf(&b, "\tm := &%s{%s: \"before\"}\n", entity, field)
		fmt.Fprintf(&b, "\tvalue := \"after\"\n")
		fmt.Fprintf(&b, "\tApplyUpdate(m, &UpdateRequest{%s: &value})\n", field)
		fmt.Fprintf(&b, "\tassert.Equal(t, \"after\", m.%s)\n\n", field)
		fmt.Fprintf(&b, "\tApplyUpdate(m, &UpdateRequest{})\n")
		fmt.Fprintf(&b, "\tassert.Equal(t, \"after\", m.%s)\n", field)
	} else {
		fmt.Fprintf(&b, "\tm := &%s{}\n", entity)
		b.WriteString("\tApplyUpdate(m, &UpdateRequest{})\n")
		fmt.Fprintf(&b, "\tassert.Equal(t, &%s{}, m)\n", entity)
	}
	b.WriteString("}\n")

	path := fmt.Sprintf("%s/mapper_test.go", modulePath(table))
	return gen.File{Path: path, Content: format(path, b.String())}
}

// GenIntegrationTest generates the external API test for one table; it
// expects a running instance and is skipped in short mode.
func (t *Target) GenIntegrationTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		module = table.ModuleName()
		route  = strings.ReplaceAll(table.Name, "_", "-")
	)
	var b strings.Builder
	fmt.Fprintf(&b, "package %s_test\n\n", module)
	b.WriteString("import (\n\t\"net/http\"\n\t\"os\"\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/require\"\n)\n\n")
	fmt.Fprintf(&b, "func TestList%s(t *testing.T) {\n", schema.Pascal(table.Name))
	b.WriteString("\tif testing.Short() {\n\t\tt.Skip(\"needs a running server; see docker-compose.yml\")\n\t}\n")
	b.WriteString("\tbase := os.Getenv(\"API_BASE_URL\")\n\tif base == \"\" {\n\t\tbase = \"http://localhost:8080\"\n\t}\n")
	fmt.Fprintf(&b, "\tresp, err := http.Get(base + \"/api/%s\")\n", route)
	b.WriteString("\trequire.NoError(t, err)\n\tdefer resp.Body.Close()\n\trequire.Equal(t, http.StatusOK, resp.StatusCode)\n}\n")

	path := fmt.Sprintf("%s/api_test.go", modulePath(table))
	return gen.File{Path: path, Content: format(path, b.String())}
}

func firstRequiredString(cols []*schema.Column) *schema.Column {
	for _, col := range cols {
		if !col.Nullable && (col.Type == schema.TypeString || col.Type == schema.TypeText) {
			return col
		}
	}
	return nil
}
