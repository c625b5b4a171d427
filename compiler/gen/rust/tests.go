package rust

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// GenUnitTest generates the in-crate test module for one table: payload
// deserialization plus the update-folding helper.
func (t *Target) GenUnitTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		c      = ctx.Config
		entity = table.EntityName()
		cols   = writableColumns(c, table)
	)
	var pairs []string
	for _, col := range cols {
		pairs = append(pairs, fmt.Sprintf("        %q: %s", col.Name, sampleJSON(col)))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "use super::dto::{Create%s, Update%s};\n\n", entity, entity)
	fmt.Fprintf(&b, "#[test]\nfn create_payload_deserializes() {\n")
	fmt.Fprintf(&b, "    let raw = r#\"{\n%s\n    }\"#;\n", strings.Join(pairs, ",\n"))
	fmt.Fprintf(&b, "    let payload: Create%s = serde_json::from_str(raw).expect(\"valid payload\");\n", entity)
	if first := firstRequiredString(cols); first != nil {
		fmt.Fprintf(&b, "    assert_eq!(payload.%s, %q);\n", first.Name, "example")
	} else {
		b.WriteString("    let _ = payload;\n")
	}
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "#[test]\nfn empty_update_deserializes() {\n")
	fmt.Fprintf(&b, "    let payload: Update%s = serde_json::from_str(\"{}\").expect(\"all fields optional\");\n", entity)
	if len(cols) > 0 {
		fmt.Fprintf(&b, "    assert!(payload.%s.is_none());\n", cols[0].Name)
	} else {
		b.WriteString("    let _ = payload;\n")
	}
	b.WriteString("}\n")
	return gen.File{
		Path:    modulePath(table) + "/tests.rs",
		Content: b.String(),
	}
}

// GenIntegrationTest generates the external API test for one table.
func (t *Target) GenIntegrationTest(ctx *gen.Context) gen.File {
	var (
		table  = ctx.Table
		route  = strings.ReplaceAll(table.Name, "_", "-")
		module = table.ModuleName()
	)
	var b strings.Builder
	fmt.Fprintf(&b, `// Requires a running instance; see docker-compose.yml.

#[tokio::test]
#[ignore = "needs a running server"]
async fn lists_%s() {
    let base = std::env::var("API_BASE_URL").unwrap_or_else(|_| "http://localhost:8080".into());
    let response = reqwest::get(format!("{base}/api/%s")).await.expect("request");
    assert!(response.status().is_success());
}
`, table.Name, route)
	return gen.File{
		Path:    fmt.Sprintf("tests/%s_api.rs", module),
		Content: b.String(),
	}
}

func firstRequiredString(cols []*schema.Column) *schema.Column {
	for _, col := range cols {
		if !col.Nullable && (col.Type == schema.TypeString || col.Type == schema.TypeText) {
			return col
		}
	}
	return nil
}

// sampleJSON returns a JSON literal a column's mapped Rust type accepts.
func sampleJSON(col *schema.Column) string {
	if col.Nullable {
		return "null"
	}
	switch col.Type {
	case schema.TypeInt, schema.TypeBigInt:
		return "1"
	case schema.TypeDecimal:
		return `"19.99"`
	case schema.TypeFloat:
		return "1.5"
	case schema.TypeBool:
		return "true"
	case schema.TypeDate:
		return `"2024-01-01"`
	case schema.TypeTime:
		return `"12:00:00"`
	case schema.TypeTimestamp:
		return `"2024-01-01T00:00:00Z"`
	case schema.TypeUUID:
		return `"00000000-0000-0000-0000-000000000000"`
	case schema.TypeJSON:
		return "{}"
	case schema.TypeBytes:
		return "[1, 2, 3]"
	default:
		return `"example"`
	}
}
