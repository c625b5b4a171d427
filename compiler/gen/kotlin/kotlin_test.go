package kotlin

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
			{Name: "email", Type: schema.TypeString, Unique: true},
			{Name: "full_name", Type: schema.TypeString, Nullable: true},
			{Name: "created_at", Type: schema.TypeTimestamp, Default: "now()"},
			{Name: "updated_at", Type: schema.TypeTimestamp, Default: "now()"},
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
			{Name: "body", Type: schema.TypeText, Nullable: true},
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
	base := []gen.Option{
		gen.WithProjectName("blog-api"),
		gen.WithBasePackage("com.example.blog"),
	}
	c, err := gen.NewConfig(append(base, opts...)...)
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
	t.Run("missing base package", func(t *testing.T) {
		c := gen.MustNewConfig(gen.WithProjectName("blog-api"))
		errs := target.Validate(c)
		assert.Contains(t, errs, "Base package is required for Kotlin/Spring Boot projects")
	})
	t.Run("password reset without mail", func(t *testing.T) {
		c := gen.MustNewConfig(
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
			gen.WithFeatures(gen.FeatureCRUD, gen.FeaturePasswordReset),
		)
		errs := target.Validate(c)
		assert.Contains(t, errs, "Password reset requires the mail feature")
	})
	t.Run("complete config", func(t *testing.T) {
		c := gen.MustNewConfig(
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
		)
		assert.Empty(t, target.Validate(c))
	})
}

func TestGenModel(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("many to one", func(t *testing.T) {
		f := target.GenModel(testContext(t, s, "posts"))
		assert.Equal(t, "src/main/kotlin/com/example/blog/post/domain/entity/Post.kt", f.Path)
		assert.Contains(t, f.Content, "@Entity")
		assert.Contains(t, f.Content, `@Table(name = "posts")`)
		assert.Contains(t, f.Content, "@ManyToOne(fetch = FetchType.LAZY)")
		assert.Contains(t, f.Content, `@JoinColumn(name = "user_id")`)
		assert.Contains(t, f.Content, "var user: User? = null")
	})
	t.Run("one to many", func(t *testing.T) {
		f := target.GenModel(testContext(t, s, "users"))
		assert.Contains(t, f.Content, `@OneToMany(mappedBy = "user")`)
		assert.Contains(t, f.Content, "var posts: MutableList<Post>")
	})
	t.Run("many to many", func(t *testing.T) {
		f := target.GenModel(testContext(t, s, "users"))
		assert.Contains(t, f.Content, `name = "user_roles"`)
		assert.Contains(t, f.Content, "var roles: MutableSet<Role>")
	})
	t.Run("audit columns folded into auditing fields", func(t *testing.T) {
		f := target.GenModel(testContext(t, s, "users",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureAuditing)))
		assert.Equal(t, 1, strings.Count(f.Content, "var createdAt"))
	})
}

func TestGenDTO(t *testing.T) {
	target := New()
	s := testSchema()
	f := target.GenDTO(testContext(t, s, "posts"))
	assert.Equal(t, "src/main/kotlin/com/example/blog/post/domain/dto/PostDto.kt", f.Path)
	assert.Contains(t, f.Content, "data class PostResponse(")
	assert.Contains(t, f.Content, "data class PostRequest(")
	assert.Contains(t, f.Content, "val userId: Long?")
}

func TestGenRepository(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("plain", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "users"))
		assert.Equal(t, "src/main/kotlin/com/example/blog/user/repository/UserRepository.kt", f.Path)
		assert.Contains(t, f.Content, "interface UserRepository : JpaRepository<User, Long>")
	})
	t.Run("filtering adds specification executor", func(t *testing.T) {
		f := target.GenRepository(testContext(t, s, "users",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureFiltering)))
		assert.Contains(t, f.Content, "JpaSpecificationExecutor<User>")
	})
}

func TestGenService(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("lookup throws not found", func(t *testing.T) {
		f := target.GenService(testContext(t, s, "posts"))
		assert.Equal(t, "src/main/kotlin/com/example/blog/post/service/PostService.kt", f.Path)
		assert.Contains(t, f.Content, `.orElseThrow { NotFoundException("Post", id) }`)
		assert.NotContains(t, f.Content, "deletedAt")
	})
	t.Run("soft delete hides deleted rows from lookups", func(t *testing.T) {
		f := target.GenService(testContext(t, s, "posts",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureSoftDelete)))
		assert.Contains(t, f.Content, ".filter { it.deletedAt == null }")
	})
}

func TestGenController(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("routes use dashed table names", func(t *testing.T) {
		f := target.GenController(testContext(t, s, "users"))
		assert.Contains(t, f.Content, `@RequestMapping("/api/users")`)
	})
	t.Run("batch endpoint is gated", func(t *testing.T) {
		plain := target.GenController(testContext(t, s, "users"))
		assert.NotContains(t, plain.Content, "/batch")
		batched := target.GenController(testContext(t, s, "users",
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureBatchOperations)))
		assert.Contains(t, batched.Content, `@PostMapping("/batch")`)
	})
}

func TestGenMigration(t *testing.T) {
	target := New()
	s := testSchema()
	f := target.GenMigration(testContext(t, s, "posts"), 2)
	assert.Equal(t, "src/main/resources/db/migration/V2__create_posts.sql", f.Path)
	assert.Contains(t, f.Content, "CREATE TABLE posts (")
	assert.Contains(t, f.Content, "id BIGSERIAL PRIMARY KEY")
	assert.Contains(t, f.Content, "CONSTRAINT fk_posts_user_id FOREIGN KEY (user_id) REFERENCES users (id)")
}

func TestGenUnitTest(t *testing.T) {
	target := New()
	s := testSchema()
	f := target.GenUnitTest(testContext(t, s, "posts"))
	assert.Equal(t, "src/test/kotlin/com/example/blog/post/service/PostServiceTest.kt", f.Path)
	assert.Contains(t, f.Content, "private val repository = mockk<PostRepository>()")
	assert.Contains(t, f.Content, "fun `findById throws when the id is unknown`() {")
	assert.Contains(t, f.Content, "fun `delete throws when the id is unknown`() {")
	assert.Contains(t, f.Content, "assertThrows<NotFoundException> { service.delete(id) }")
}

func TestGenProject(t *testing.T) {
	target := New()
	s := testSchema()
	c := gen.MustNewConfig(
		gen.WithProjectName("blog-api"),
		gen.WithBasePackage("com.example.blog"),
	)
	files := target.GenProject(s, c)
	byPath := map[string]string{}
	for _, f := range files {
		byPath[f.Path] = f.Content
	}
	require.Contains(t, byPath, "build.gradle.kts")
	assert.Contains(t, byPath["build.gradle.kts"], "spring-boot-starter-web")
	assert.Contains(t, byPath["build.gradle.kts"], "spring-boot-starter-data-jpa")
	require.Contains(t, byPath, "src/main/kotlin/com/example/blog/BlogApiApplication.kt")
	assert.Contains(t, byPath["src/main/kotlin/com/example/blog/BlogApiApplication.kt"], "class BlogApiApplication")
	require.Contains(t, byPath, "src/main/resources/application.yml")
	assert.Contains(t, byPath["src/main/resources/application.yml"], "jdbc:postgresql://localhost:5432/blog_api")
}

func TestGenProjectFeatureParams(t *testing.T) {
	target := New()
	s := testSchema()
	appYAML := func(opts ...gen.Option) string {
		base := []gen.Option{
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
		}
		for _, f := range target.GenProject(s, gen.MustNewConfig(append(base, opts...)...)) {
			if f.Path == "src/main/resources/application.yml" {
				return f.Content
			}
		}
		t.Fatal("application.yml not generated")
		return ""
	}
	t.Run("jwt expiration param sets the default", func(t *testing.T) {
		plain := appYAML(gen.WithFeatures(gen.FeatureCRUD, gen.FeatureJWTAuth))
		assert.Contains(t, plain, "expiration-seconds: ${JWT_EXPIRATION:3600}")
		tuned := appYAML(
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureJWTAuth),
			gen.WithFeatureParam("auth/jwt.expiration-minutes", 5),
		)
		assert.Contains(t, tuned, "expiration-seconds: ${JWT_EXPIRATION:300}")
	})
	t.Run("upload size param sets the multipart limit", func(t *testing.T) {
		yml := appYAML(
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureFileUpload),
			gen.WithFeatureParam("upload.max-size", "25MB"),
		)
		assert.Contains(t, yml, "max-file-size: ${MAX_UPLOAD_SIZE:25MB}")
	})
	t.Run("oauth providers param drives the registrations", func(t *testing.T) {
		yml := appYAML(
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureOAuth2),
			gen.WithFeatureParam("auth/oauth2.providers", []string{"github", "google"}),
		)
		assert.Contains(t, yml, "github:\n            client-id: ${GITHUB_CLIENT_ID:}")
		assert.Contains(t, yml, "google:\n            client-id: ${GOOGLE_CLIENT_ID:}")
	})
}

func TestGenFeaturePacks(t *testing.T) {
	target := New()
	s := testSchema()
	t.Run("defaults produce no packs", func(t *testing.T) {
		c := gen.MustNewConfig(
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
		)
		assert.Empty(t, target.GenFeaturePacks(s, c))
	})
	t.Run("jwt emits the security trio", func(t *testing.T) {
		c := gen.MustNewConfig(
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureJWTAuth),
		)
		files := target.GenFeaturePacks(s, c)
		var paths []string
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		assert.Contains(t, paths, "src/main/kotlin/com/example/blog/security/SecurityConfig.kt")
		assert.Contains(t, paths, "src/main/kotlin/com/example/blog/security/JwtService.kt")
		assert.Contains(t, paths, "src/main/kotlin/com/example/blog/security/JwtAuthFilter.kt")
	})
	t.Run("seed data lands under resources", func(t *testing.T) {
		c := gen.MustNewConfig(
			gen.WithProjectName("blog-api"),
			gen.WithBasePackage("com.example.blog"),
			gen.WithFeatures(gen.FeatureCRUD, gen.FeatureSeedData),
		)
		files := target.GenFeaturePacks(s, c)
		require.Len(t, files, 1)
		assert.Equal(t, "src/main/resources/db/seed/seed.sql", files[0].Path)
		assert.Contains(t, files[0].Content, "INSERT INTO users")
	})
}
