package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogSchema() *Schema {
	users := &Table{
		Name: "users",
		Columns: []*Column{
			{Name: "id", Type: TypeBigInt, PrimaryKey: true},
			{Name: "email", Type: TypeString, Unique: true},
			{Name: "created_at", Type: TypeTimestamp},
		},
	}
	roles := &Table{
		Name: "roles",
		Columns: []*Column{
			{Name: "id", Type: TypeBigInt, PrimaryKey: true},
			{Name: "name", Type: TypeString},
		},
	}
	userRoles := &Table{
		Name: "user_roles",
		Columns: []*Column{
			{Name: "user_id", Type: TypeBigInt},
			{Name: "role_id", Type: TypeBigInt},
			{Name: "created_at", Type: TypeTimestamp},
		},
		ForeignKeys: []*ForeignKey{
			{Column: "user_id", RefTable: "users", RefColumn: "id"},
			{Column: "role_id", RefTable: "roles", RefColumn: "id"},
		},
	}
	posts := &Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "id", Type: TypeBigInt, PrimaryKey: true},
			{Name: "title", Type: TypeString, Length: 200},
			{Name: "body", Type: TypeText, Nullable: true},
			{Name: "user_id", Type: TypeBigInt},
		},
		ForeignKeys: []*ForeignKey{
			{Column: "user_id", RefTable: "users", RefColumn: "id"},
		},
	}
	history := &Table{
		Name: "flyway_schema_history",
		Columns: []*Column{
			{Name: "installed_rank", Type: TypeInt, PrimaryKey: true},
		},
	}
	return New("blog", []*Table{users, roles, userRoles, posts, history})
}

func TestJunctionDetection(t *testing.T) {
	s := blogSchema()
	t.Run("two foreign keys and bookkeeping only", func(t *testing.T) {
		assert.True(t, s.Table("user_roles").IsJunctionTable())
	})
	t.Run("business column disqualifies", func(t *testing.T) {
		tb := &Table{
			Name: "order_items",
			Columns: []*Column{
				{Name: "order_id", Type: TypeBigInt},
				{Name: "product_id", Type: TypeBigInt},
				{Name: "quantity", Type: TypeInt},
			},
			ForeignKeys: []*ForeignKey{
				{Column: "order_id", RefTable: "orders"},
				{Column: "product_id", RefTable: "products"},
			},
		}
		assert.False(t, tb.IsJunctionTable())
		assert.True(t, tb.IsEntityTable())
	})
	t.Run("one foreign key is never a junction", func(t *testing.T) {
		assert.False(t, s.Table("posts").IsJunctionTable())
	})
}

func TestEntityTables(t *testing.T) {
	s := blogSchema()
	var names []string
	for _, tb := range s.EntityTables() {
		names = append(names, tb.Name)
	}
	// Junction and migration bookkeeping tables are excluded, order kept.
	assert.Equal(t, []string{"users", "roles", "posts"}, names)
	require.Len(t, s.JunctionTables(), 1)
	assert.Equal(t, "user_roles", s.JunctionTables()[0].Name)
}

func TestTableLookups(t *testing.T) {
	s := blogSchema()
	posts := s.Table("posts")
	require.NotNil(t, posts)
	assert.Nil(t, s.Table("missing"))

	assert.Equal(t, "title", posts.Column("title").Name)
	assert.Nil(t, posts.Column("missing"))
	require.NotNil(t, posts.ForeignKey("user_id"))
	assert.Equal(t, "users", posts.ForeignKey("user_id").RefTable)
	require.NotNil(t, posts.PrimaryKey())
	assert.Equal(t, "id", posts.PrimaryKey().Name)
}

func TestDataColumns(t *testing.T) {
	posts := blogSchema().Table("posts")
	var names []string
	for _, c := range posts.DataColumns() {
		names = append(names, c.Name)
	}
	// Primary key and foreign-key columns are not plain data fields.
	assert.Equal(t, []string{"title", "body"}, names)
}

func TestDerivedNames(t *testing.T) {
	cases := []struct {
		table   string
		entity  string
		module  string
		varName string
	}{
		{"users", "User", "user", "user"},
		{"user_roles", "UserRole", "userrole", "userRole"},
		{"categories", "Category", "category", "category"},
		{"people", "Person", "person", "person"},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			tb := &Table{Name: tc.table}
			assert.Equal(t, tc.entity, tb.EntityName())
			assert.Equal(t, tc.module, tb.ModuleName())
			assert.Equal(t, tc.varName, tb.VarName())
		})
	}
}

func TestForeignKeyFieldName(t *testing.T) {
	assert.Equal(t, "owner", (&ForeignKey{Column: "owner_id", RefColumn: "id"}).FieldName())
	assert.Equal(t, "parentCategory", (&ForeignKey{Column: "parent_category_id", RefColumn: "id"}).FieldName())
	// A column not ending in _id falls back to stripping the ref column.
	assert.Equal(t, "author", (&ForeignKey{Column: "author_uuid", RefColumn: "uuid"}).FieldName())
}

func TestNaming(t *testing.T) {
	t.Run("pascal keeps acronyms", func(t *testing.T) {
		assert.Equal(t, "UserID", Pascal("user_id"))
		assert.Equal(t, "APIKey", Pascal("api_key"))
		assert.Equal(t, "OrderItem", Pascal("order_item"))
	})
	t.Run("snake", func(t *testing.T) {
		assert.Equal(t, "user_role", Snake("UserRole"))
		assert.Equal(t, "http_request", Snake("HTTPRequest"))
	})
	t.Run("camel", func(t *testing.T) {
		assert.Equal(t, "createdAt", Camel("created_at"))
		assert.Equal(t, "user", Camel("user"))
	})
	t.Run("singular and plural", func(t *testing.T) {
		assert.Equal(t, "person", Singular("people"))
		assert.Equal(t, "status", Singular("statuses"))
		assert.Equal(t, "categories", Plural("category"))
	})
}

func TestIsAuditColumn(t *testing.T) {
	assert.True(t, IsAuditColumn("created_at"))
	assert.True(t, IsAuditColumn("deleted_at"))
	assert.False(t, IsAuditColumn("title"))
}

func TestParseColType(t *testing.T) {
	cases := map[string]ColType{
		"int":              TypeInt,
		"integer":          TypeInt,
		"serial":           TypeInt,
		"bigserial":        TypeBigInt,
		"numeric":          TypeDecimal,
		"double precision": TypeFloat,
		"VARCHAR":          TypeString,
		"timestamptz":      TypeTimestamp,
		"jsonb":            TypeJSON,
		"bytea":            TypeBytes,
		"geography":        TypeOther,
	}
	for spelling, want := range cases {
		assert.Equal(t, want, ParseColType(spelling), spelling)
	}
}

func TestColTypePredicates(t *testing.T) {
	assert.True(t, TypeDecimal.Numeric())
	assert.False(t, TypeString.Numeric())
	assert.True(t, TypeDate.Temporal())
	assert.True(t, TypeText.Textual())
	assert.False(t, TypeInvalid.Valid())
	assert.Equal(t, "invalid", ColType(99).String())
}
