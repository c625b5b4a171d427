package rust

import (
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
			{Name: "email", Type: schema.TypeString, Unique: true},
		},
	}
	roles := &schema.Table{
		Name: "roles",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "name", Type: schema.TypeString, Unique: true},
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
	posts := &schema.Table{
		Name: "posts",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "title", Type: schema.TypeString},
			{Name: "user_id", Type: schema.TypeBigInt},
		},
		ForeignKeys: []*schema.ForeignKey{
			{Column: "user_id", RefTable: "users", RefColumn: "id"},
		},
	}
	return schema.New("blog", []*schema.Table{users, roles, userRoles, posts})
}

func testContext(t *testing.T, s *schema.Schema, table string, opts ...gen.Option) *gen.Context {
	t.Helper()
	c, err := gen.NewConfig(append([]gen.Option{gen.WithProjectName("blog-api")}, opts...)...)
	require.NoError(t, err)
	tb := s.Table(table)
	require.NotNil(t, tb)
	rels := gen.RelationshipsByTable(s)
	return &gen.Context{
		Schema:        s,
		Config:        c,
		Table:         tb,
		Relationships: rels.For(table),
		Inverse:       gen.InverseRelationshipsFor(tb, s, rels),
		ManyToMany:    gen.ManyToManyRelationsFor(tb, s),
	}
}

func TestValidate(t *testing.T) {
	target := New()
	t.Run("missing project name", func(t *testing.T) {
		errs := target.Validate(gen.MustNewConfig())
		assert.Contains(t, errs, "Project name is required")
	})
	t.Run("invalid crate name", func(t *testing.T) {
		errs := target.Validate(gen.MustNewConfig(gen.WithProjectName("1blog!")))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "valid crate name")
	})
	t.Run("dashes map to underscores", func(t *testing.T) {
		assert.Empty(t, target.Validate(gen.MustNewConfig(gen.WithProjectName("blog-api"))))
	})
}

func TestGenModel(t *testing.T) {
	target := New()
	s := testSchema()
	f := target.GenModel(testContext(t, s, "posts"))
	assert.Equal(t, "src/post/model.rs", f.Path)
	assert.Contains(t, f.Content, "#[derive(Debug, Clone, Serialize, FromRow)]")
	assert.Contains(t, f.Content, "pub struct Post {")
	assert.Contains(t, f.Content, "pub user_id: i64,")
}

func TestGenRepository(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("insert returns the row", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "posts"))
		assert.Equal(t, "src/post/repository.rs", f.Path)
		assert.Contains(t, f.Content, "INSERT INTO posts (title, user_id) VALUES ($1, $2) RETURNING *")
	})
	t.Run("one to many query on the parent", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "users"))
		assert.Contains(t, f.Content, "pub async fn posts_of(")
		assert.Contains(t, f.Content, "SELECT * FROM posts WHERE user_id = $1")
	})
	t.Run("many to many joins through the junction", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "users"))
		assert.Contains(t, f.Content, "pub async fn roles_of(")
		assert.Contains(t, f.Content, "JOIN user_roles j ON j.role_id = t.id WHERE j.user_id = $1")
	})
	t.Run("soft delete flips to an update", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "posts",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureSoftDelete)))
		assert.Contains(t, f.Content, "UPDATE posts SET deleted_at = now() WHERE id = $1")
	})
	t.Run("soft delete hides deleted rows from lookups", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "posts",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureSoftDelete)))
		assert.Contains(t, f.Content, "SELECT * FROM posts WHERE deleted_at IS NULL ORDER BY id")
		assert.Contains(t, f.Content, "SELECT * FROM posts WHERE id = $1 AND deleted_at IS NULL")
	})
}

func TestGenController(t *testing.T) {
	target := New()
	s := testSchema()
	f := target.GenController(testContext(t, s, "user_roles"))
	// user_roles is a junction table; callers should never reach here, but
	// the path derivation still holds for any table handed in.
	assert.Equal(t, "src/userrole/handler.rs", f.Path)

	f = target.GenController(testContext(t, s, "users"))
	assert.Contains(t, f.Content, `.route("/api/users", get(list).post(create))`)
	assert.Contains(t, f.Content, "pub fn router() -> Router<AppState>")
}

func TestGenControllerBatch(t *testing.T) {
	target := New()
	s := testSchema()
	plain := target.GenController(testContext(t, s, "users"))
	assert.NotContains(t, plain.Content, "/batch")

	batched := target.GenController(testContext(t, s, "users",
		gen.WithFeatures(gen.FeatureCRUD, gen.FeatureBatchOperations)))
	assert.Contains(t, batched.Content, `.route("/api/users/batch", post(create_batch))`)
	assert.Contains(t, batched.Content, "Json(payloads): Json<Vec<CreateUser>>")
	assert.Contains(t, batched.Content, "use axum::routing::{get, post};")

	svc := target.GenService(testContext(t, s, "users",
		gen.WithFeatures(gen.FeatureCRUD, gen.FeatureBatchOperations)))
	assert.Contains(t, svc.Content, "pub async fn create_batch(pool: &PgPool, payloads: Vec<CreateUser>)")
}

func TestGenFeaturePacks(t *testing.T) {
	target := New()
	s := testSchema()
	packFor := func(path string, opts ...gen.Option) string {
		base := []gen.Option{gen.WithProjectName("blog-api")}
		for _, f := range target.GenFeaturePacks(s, gen.MustNewConfig(append(base, opts...)...)) {
			if f.Path == path {
				return f.Content
			}
		}
		t.Fatalf("%s not generated", path)
		return ""
	}
	t.Run("jwt expiration param sets the default", func(t *testing.T) {
		plain := packFor("src/auth.rs", gen.WithFeatures(gen.FeatureCRUD, gen.FeatureJWTAuth))
		assert.Contains(t, plain, ".unwrap_or(3600)")
		tuned := packFor("src/auth.rs",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureJWTAuth),
			gen.WithFeatureParam("auth/jwt.expiration-minutes", 5))
		assert.Contains(t, tuned, ".unwrap_or(300)")
	})
	t.Run("ratelimit params set the governor", func(t *testing.T) {
		content := packFor("src/ratelimit.rs",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureRateLimiting),
			gen.WithFeatureParam("ratelimit.per-second", 10),
			gen.WithFeatureParam("ratelimit.burst", 20))
		assert.Contains(t, content, ".per_second(10)")
		assert.Contains(t, content, ".burst_size(20)")
	})
}

func TestGenMigration(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("numbered sqlx migration", func(t *testing.T) {
		f := target.GenMigration(testContext(t, s, "posts"), 4)
		assert.Equal(t, "migrations/0004_create_posts.sql", f.Path)
		assert.Contains(t, f.Content, "CREATE TABLE posts (")
	})
	t.Run("junction rides with the later table", func(t *testing.T) {
		roles := target.GenMigration(testContext(t, s, "roles"), 3)
		assert.Contains(t, roles.Content, "CREATE TABLE user_roles (")
		assert.Contains(t, roles.Content, "PRIMARY KEY (user_id, role_id)")
		users := target.GenMigration(testContext(t, s, "users"), 2)
		assert.NotContains(t, users.Content, "user_roles")
	})
}

func TestGenProject(t *testing.T) {
	target := New()
	s := testSchema()
	c := gen.MustNewConfig(gen.WithProjectName("blog-api"))
	files := target.GenProject(s, c)
	byPath := map[string]string{}
	for _, f := range files {
		byPath[f.Path] = f.Content
	}
	require.Contains(t, byPath, "Cargo.toml")
	assert.Contains(t, byPath["Cargo.toml"], `name = "blog_api"`)
	assert.Contains(t, byPath["Cargo.toml"], `axum = "0.8"`)
	require.Contains(t, byPath, "src/main.rs")
	assert.Contains(t, byPath["src/main.rs"], "mod post;")
	assert.Contains(t, byPath["src/main.rs"], ".merge(post::handler::router())")
	assert.NotContains(t, byPath["src/main.rs"], "mod userrole;")
	require.Contains(t, byPath, "migrations/0001_baseline.sql")
}
