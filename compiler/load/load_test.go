package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

const schemaDoc = `
name: blog
tables:
  - name: users
    columns:
      - {name: id, type: bigint, primary_key: true}
      - {name: email, type: varchar, length: 255, unique: true}
  - name: posts
    columns:
      - {name: id, type: bigint, primary_key: true}
      - {name: title, type: varchar, length: 200}
      - {name: published, type: boolean, default: "false"}
      - {name: user_id, type: bigint}
    foreign_keys:
      - {column: user_id, references: users}
functions:
  - {name: refresh_counters, returns: void}
`

func TestSchema(t *testing.T) {
	s, err := Schema([]byte(schemaDoc))
	require.NoError(t, err)
	assert.Equal(t, "blog", s.Name)
	require.Len(t, s.Tables, 2)

	users := s.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, schema.TypeBigInt, users.Column("id").Type)
	assert.True(t, users.Column("id").PrimaryKey)
	assert.Equal(t, schema.TypeString, users.Column("email").Type)
	assert.Equal(t, 255, users.Column("email").Length)

	posts := s.Table("posts")
	require.NotNil(t, posts)
	assert.Equal(t, "false", posts.Column("published").Default)
	fk := posts.ForeignKey("user_id")
	require.NotNil(t, fk)
	assert.Equal(t, "users", fk.RefTable)
	// ref_column defaults to id when omitted.
	assert.Equal(t, "id", fk.RefColumn)

	require.Len(t, s.Functions, 1)
	assert.Equal(t, "refresh_counters", s.Functions[0].Name)
}

func TestSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty table name",
			doc:  "tables:\n  - columns: [{name: id, type: int}]",
			want: "table name cannot be empty",
		},
		{
			name: "redeclared table",
			doc: `tables:
  - {name: users, columns: [{name: id, type: int}]}
  - {name: users, columns: [{name: id, type: int}]}`,
			want: "table redeclared",
		},
		{
			name: "redeclared column",
			doc: `tables:
  - name: users
    columns:
      - {name: id, type: int}
      - {name: id, type: int}`,
			want: "column redeclared",
		},
		{
			name: "foreign key on unknown column",
			doc: `tables:
  - name: posts
    columns: [{name: id, type: int}]
    foreign_keys: [{column: user_id, references: users}]`,
			want: "unknown column",
		},
		{
			name: "foreign key to unknown table",
			doc: `tables:
  - name: posts
    columns:
      - {name: id, type: int}
      - {name: user_id, type: int}
    foreign_keys: [{column: user_id, references: users}]`,
			want: "unknown table",
		},
		{
			name: "not yaml",
			doc:  "tables: [unclosed",
			want: "decode schema document",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Schema([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig(t *testing.T) {
	doc := []byte(`
project_name: blog-api
base_package: com.acme.blog
target: kotlin-spring
features: [crud, docker, auth/jwt]
feature_params:
  seed.rows: 10
`)
	c, target, err := Config(doc)
	require.NoError(t, err)
	assert.Equal(t, "kotlin-spring", target)
	assert.Equal(t, "blog-api", c.ProjectName)
	assert.Equal(t, "com.acme.blog", c.BasePackage)
	assert.True(t, c.FeatureEnabled(gen.FeatureJWTAuth.Name))
	assert.False(t, c.FeatureEnabled(gen.FeaturePagination.Name))
	assert.Equal(t, 10, c.ParamInt("seed.rows", 5))
}

func TestConfigUnknownFeature(t *testing.T) {
	_, _, err := Config([]byte("features: [nonsense]"))
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestFileLoaders(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaDoc), 0o644))

	s, err := SchemaFile(schemaPath)
	require.NoError(t, err)
	assert.Equal(t, "blog", s.Name)

	_, err = SchemaFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schema file")

	_, _, err = ConfigFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
