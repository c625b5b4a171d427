package gen

import "github.com/apiforge/forge/schema"

// Rel is the relation kind of a directed table association.
type Rel int

// Relation kinds.
const (
	Unk Rel = iota // Unknown.
	M2O            // Many to one (foreign-key owning side).
	O2M            // One to many (inverse perspective of M2O).
	M2M            // Many to many (realized by a junction table).
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case M2O:
		s = "M2O"
	case O2M:
		s = "O2M"
	case M2M:
		s = "M2M"
	}
	return s
}

type (
	// Relationship is a directed association between two tables derived
	// from a foreign key. For every foreign key on table A referencing
	// table B there is exactly one M2O relationship A→B; its O2M inverse
	// B→A is materialized lazily by InverseRelationshipsFor, never stored.
	Relationship struct {
		// SourceTable is the owning table's name.
		SourceTable string
		// TargetTable is the referenced table's name.
		TargetTable string
		// Kind is M2O for stored relationships, O2M for inverse lookups.
		Kind Rel
		// ForeignKey is the constraint the relationship derives from.
		ForeignKey *schema.ForeignKey
	}

	// ManyToManyRelation is a many-to-many association surfaced through a
	// two-foreign-key junction table. Computing it from either side yields
	// the mirror image with swapped source/target columns.
	ManyToManyRelation struct {
		// JunctionTable is the name of the junction table.
		JunctionTable string
		// SourceColumn is the junction column referencing this side.
		SourceColumn string
		// TargetColumn is the junction column referencing the other side.
		TargetColumn string
		// TargetTable is the table on the other side of the association.
		TargetTable *schema.Table
	}

	// RelationshipMap indexes the schema's M2O relationships by their
	// owning table name. Built once per generation run.
	RelationshipMap map[string][]Relationship
)

// RelationshipsByTable computes, for every foreign key in every table of the
// schema, one M2O relationship keyed by the owning table's name. Runs in
// O(total foreign keys); tables with no foreign keys have no entry.
func RelationshipsByTable(s *schema.Schema) RelationshipMap {
	m := make(RelationshipMap)
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			m[t.Name] = append(m[t.Name], Relationship{
				SourceTable: t.Name,
				TargetTable: fk.RefTable,
				Kind:        M2O,
				ForeignKey:  fk,
			})
		}
	}
	return m
}

// For returns the relationships owned by the given table.
// Missing tables yield an empty list, never an error.
func (m RelationshipMap) For(table string) []Relationship { return m[table] }

// All returns every relationship of the map in schema-independent order of
// the given schema's tables, keeping the output deterministic.
func (m RelationshipMap) All(s *schema.Schema) []Relationship {
	var all []Relationship
	for _, t := range s.Tables {
		all = append(all, m[t.Name]...)
	}
	return all
}

// InverseRelationshipsFor returns the O2M inverses of every relationship
// targeting the given table. Relationships originating from junction tables
// are excluded: a junction-owned foreign key is surfaced only through
// ManyToManyRelationsFor, so the same association is never represented
// both as a many-to-many and as a spurious one-to-many onto the junction
// row type.
func InverseRelationshipsFor(table *schema.Table, s *schema.Schema, m RelationshipMap) []Relationship {
	var inverse []Relationship
	for _, rel := range m.All(s) {
		if rel.TargetTable != table.Name {
			continue
		}
		if src := s.Table(rel.SourceTable); src != nil && src.IsJunctionTable() {
			continue
		}
		inverse = append(inverse, Relationship{
			SourceTable: rel.TargetTable,
			TargetTable: rel.SourceTable,
			Kind:        O2M,
			ForeignKey:  rel.ForeignKey,
		})
	}
	return inverse
}

// ManyToManyRelationsFor resolves the many-to-many associations of the given
// table: for every junction table with exactly two foreign keys, one of which
// references the table, it emits one relation towards the other side.
// Junction tables with a different foreign-key count are skipped, and
// distinct junction tables connecting the same pair of tables each emit
// their own relation (they realize genuinely distinct associations).
// Junctions whose two foreign keys reference the same table are skipped:
// a many-to-many association connects two distinct tables, and a
// self-referential link table has no unambiguous owning side.
func ManyToManyRelationsFor(table *schema.Table, s *schema.Schema) []ManyToManyRelation {
	var rels []ManyToManyRelation
	for _, junction := range s.Tables {
		if !junction.IsJunctionTable() || len(junction.ForeignKeys) != 2 {
			continue
		}
		if junction.ForeignKeys[0].RefTable == junction.ForeignKeys[1].RefTable {
			continue
		}
		var thisFK, otherFK *schema.ForeignKey
		switch {
		case junction.ForeignKeys[0].RefTable == table.Name:
			thisFK, otherFK = junction.ForeignKeys[0], junction.ForeignKeys[1]
		case junction.ForeignKeys[1].RefTable == table.Name:
			thisFK, otherFK = junction.ForeignKeys[1], junction.ForeignKeys[0]
		default:
			continue
		}
		target := s.Table(otherFK.RefTable)
		if target == nil {
			continue
		}
		rels = append(rels, ManyToManyRelation{
			JunctionTable: junction.Name,
			SourceColumn:  thisFK.Column,
			TargetColumn:  otherFK.Column,
			TargetTable:   target,
		})
	}
	return rels
}

// JunctionTablesReadyAt returns the junction tables whose referenced tables
// all exist once the given table's migration has run, with the given table
// being the last of them in schema order. Migration generators append the
// junction DDL to that table's migration so foreign keys always resolve.
func JunctionTablesReadyAt(table *schema.Table, s *schema.Schema) []*schema.Table {
	order := make(map[string]int, len(s.Tables))
	for i, t := range s.Tables {
		order[t.Name] = i
	}
	var ready []*schema.Table
	for _, junction := range s.Tables {
		if !junction.IsJunctionTable() {
			continue
		}
		last, ok := -1, true
		for _, fk := range junction.ForeignKeys {
			pos, exists := order[fk.RefTable]
			if !exists {
				ok = false
				break
			}
			if pos > last {
				last = pos
			}
		}
		if ok && last == order[table.Name] {
			ready = append(ready, junction)
		}
	}
	return ready
}

// FieldName returns the association field name of the relationship in the
// generated entity: the foreign-key derived name for M2O, the pluralized
// source entity name for O2M collections.
func (r Relationship) FieldName() string {
	if r.Kind == O2M {
		return schema.Camel(schema.Plural(schema.Singular(r.TargetTable)))
	}
	return r.ForeignKey.FieldName()
}

// FieldName returns the collection field name of the association,
// pluralized from the target table.
func (r ManyToManyRelation) FieldName() string {
	return schema.Camel(schema.Plural(schema.Singular(r.TargetTable.Name)))
}
