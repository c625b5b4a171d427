package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiforge/forge/schema"
)

func blogSchema() *schema.Schema {
	users := &schema.Table{
		Name: "users",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "email", Type: schema.TypeString},
		},
	}
	roles := &schema.Table{
		Name: "roles",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt, PrimaryKey: true},
			{Name: "name", Type: schema.TypeString},
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

func TestRelationshipsByTable(t *testing.T) {
	s := blogSchema()
	m := RelationshipsByTable(s)

	t.Run("one relationship per foreign key", func(t *testing.T) {
		assert.Len(t, m.For("user_roles"), 2)
		assert.Len(t, m.For("posts"), 1)
		assert.Empty(t, m.For("users"))
		assert.Empty(t, m.For("missing"))
	})
	t.Run("kind and direction", func(t *testing.T) {
		rel := m.For("posts")[0]
		assert.Equal(t, M2O, rel.Kind)
		assert.Equal(t, "posts", rel.SourceTable)
		assert.Equal(t, "users", rel.TargetTable)
		require.NotNil(t, rel.ForeignKey)
		assert.Equal(t, "user_id", rel.ForeignKey.Column)
	})
	t.Run("deterministic across recomputation", func(t *testing.T) {
		assert.Equal(t, m.All(s), RelationshipsByTable(s).All(s))
	})
}

func TestInverseRelationships(t *testing.T) {
	s := blogSchema()
	m := RelationshipsByTable(s)
	inverse := InverseRelationshipsFor(s.Table("users"), s, m)

	// posts→users inverts to a users→posts collection; the user_roles
	// foreign key does not, junction rows are not a row type of their own.
	require.Len(t, inverse, 1)
	assert.Equal(t, O2M, inverse[0].Kind)
	assert.Equal(t, "users", inverse[0].SourceTable)
	assert.Equal(t, "posts", inverse[0].TargetTable)
	assert.Equal(t, "posts", inverse[0].FieldName())
}

func TestManyToManyRelations(t *testing.T) {
	s := blogSchema()
	t.Run("symmetric across both sides", func(t *testing.T) {
		fromUsers := ManyToManyRelationsFor(s.Table("users"), s)
		require.Len(t, fromUsers, 1)
		assert.Equal(t, "user_roles", fromUsers[0].JunctionTable)
		assert.Equal(t, "user_id", fromUsers[0].SourceColumn)
		assert.Equal(t, "role_id", fromUsers[0].TargetColumn)
		assert.Equal(t, "roles", fromUsers[0].TargetTable.Name)
		assert.Equal(t, "roles", fromUsers[0].FieldName())

		fromRoles := ManyToManyRelationsFor(s.Table("roles"), s)
		require.Len(t, fromRoles, 1)
		assert.Equal(t, "user_id", fromRoles[0].TargetColumn)
		assert.Equal(t, "users", fromRoles[0].TargetTable.Name)
	})
	t.Run("uninvolved table has none", func(t *testing.T) {
		assert.Empty(t, ManyToManyRelationsFor(s.Table("posts"), s))
	})
	t.Run("self-referential junction is skipped", func(t *testing.T) {
		follows := &schema.Table{
			Name: "user_follows",
			Columns: []*schema.Column{
				{Name: "follower_id", Type: schema.TypeBigInt},
				{Name: "followed_id", Type: schema.TypeBigInt},
			},
			ForeignKeys: []*schema.ForeignKey{
				{Column: "follower_id", RefTable: "users", RefColumn: "id"},
				{Column: "followed_id", RefTable: "users", RefColumn: "id"},
			},
		}
		s2 := blogSchema()
		s2 = schema.New("blog", append(s2.Tables, follows))
		for _, rel := range ManyToManyRelationsFor(s2.Table("users"), s2) {
			assert.NotEqual(t, "user_follows", rel.JunctionTable)
			assert.NotEqual(t, "users", rel.TargetTable.Name)
		}
	})
	t.Run("two junctions over the same pair both surface", func(t *testing.T) {
		favorites := &schema.Table{
			Name: "user_favorite_roles",
			Columns: []*schema.Column{
				{Name: "user_id", Type: schema.TypeBigInt},
				{Name: "role_id", Type: schema.TypeBigInt},
			},
			ForeignKeys: []*schema.ForeignKey{
				{Column: "user_id", RefTable: "users", RefColumn: "id"},
				{Column: "role_id", RefTable: "roles", RefColumn: "id"},
			},
		}
		s2 := blogSchema()
		s2 = schema.New("blog", append(s2.Tables, favorites))
		rels := ManyToManyRelationsFor(s2.Table("users"), s2)
		require.Len(t, rels, 2)
		assert.NotEqual(t, rels[0].JunctionTable, rels[1].JunctionTable)
	})
}

func TestJunctionTablesReadyAt(t *testing.T) {
	s := blogSchema()
	t.Run("rides with the later referenced table", func(t *testing.T) {
		// users is declared before roles, so user_roles becomes creatable
		// only once roles exists.
		assert.Empty(t, JunctionTablesReadyAt(s.Table("users"), s))
		ready := JunctionTablesReadyAt(s.Table("roles"), s)
		require.Len(t, ready, 1)
		assert.Equal(t, "user_roles", ready[0].Name)
	})
	t.Run("no junction ever rides twice", func(t *testing.T) {
		total := 0
		for _, tb := range s.EntityTables() {
			total += len(JunctionTablesReadyAt(tb, s))
		}
		assert.Equal(t, 1, total)
	})
}

func TestRelationshipFieldName(t *testing.T) {
	rel := Relationship{
		Kind:       M2O,
		ForeignKey: &schema.ForeignKey{Column: "owner_id", RefColumn: "id"},
	}
	assert.Equal(t, "owner", rel.FieldName())
}

func TestRelString(t *testing.T) {
	assert.Equal(t, "M2O", M2O.String())
	assert.Equal(t, "O2M", O2M.String())
	assert.Equal(t, "M2M", M2M.String())
	assert.Equal(t, "Unknown", Unk.String())
}
