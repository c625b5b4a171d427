package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

func testSchema() *schema.Schema {
	users := &schema.Table{
		Name: "users",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "email", Type: schema.TypeString, Length: 255},
			{Name: "active", Type: schema.TypeBool},
			{Name: "created_at", Type: schema.TypeTimestamp, Default: "now()"},
		},
	}
	posts := &schema.Table{
		Name: "posts",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "title", Type: schema.TypeString, Length: 200},
			{Name: "user_id", Type: schema.TypeBigInt},
		},
		ForeignKeys: []*schema.ForeignKey{
			{Column: "user_id", RefTable: "users", RefColumn: "id"},
		},
	}
	userRoles := &schema.Table{
		Name: "user_roles",
		Columns: []*schema.Column{
			{Name: "user_id", Type: schema.TypeBigInt},
			{Name: "role_id", Type: schema.TypeBigInt},
		},
		ForeignKeys: []*schema.ForeignKey{
			{Column: "user_id", RefTable: "users", RefColumn: "id"},
			{Column: "role_id", RefTable: "roles", RefColumn: "id"},
		},
	}
	roles := &schema.Table{
		Name: "roles",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "name", Type: schema.TypeString},
		},
	}
	return schema.New("blog", []*schema.Table{users, posts, userRoles, roles})
}

func TestSQLDeterministic(t *testing.T) {
	s := testSchema()
	c := gen.MustNewConfig(gen.WithProjectName("blog-api"))
	assert.Equal(t, SQL(s, c), SQL(s, c))
}

func TestSQLDiffersByProject(t *testing.T) {
	s := testSchema()
	a := SQL(s, gen.MustNewConfig(gen.WithProjectName("blog-api")))
	b := SQL(s, gen.MustNewConfig(gen.WithProjectName("shop-api")))
	assert.NotEqual(t, a, b)
}

func TestSQLShape(t *testing.T) {
	s := testSchema()
	c := gen.MustNewConfig(gen.WithProjectName("blog-api"))
	script := SQL(s, c)

	t.Run("default row count per entity table", func(t *testing.T) {
		assert.Equal(t, DefaultRows, strings.Count(script, "INSERT INTO users "))
		assert.Equal(t, DefaultRows, strings.Count(script, "INSERT INTO posts "))
	})
	t.Run("junction tables are skipped", func(t *testing.T) {
		assert.NotContains(t, script, "INSERT INTO user_roles")
	})
	t.Run("defaulted columns are omitted", func(t *testing.T) {
		assert.NotContains(t, script, "created_at")
	})
	t.Run("foreign keys point at row ordinals", func(t *testing.T) {
		assert.Contains(t, script, "INSERT INTO posts (id, title, user_id) VALUES (1, ")
		require.Contains(t, script, ", 1);")
	})
}

func TestSQLRowsParam(t *testing.T) {
	s := testSchema()
	c := gen.MustNewConfig(
		gen.WithProjectName("blog-api"),
		gen.WithFeatureParam("seed.rows", 2),
	)
	script := SQL(s, c)
	assert.Equal(t, 2, strings.Count(script, "INSERT INTO users "))
}
