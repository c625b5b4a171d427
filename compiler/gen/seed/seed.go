// Package seed emits deterministic sample data for generated projects: one
// INSERT block per entity table, driven by column name and type heuristics.
// The faker is seeded from the project name so identical inputs always
// produce identical seed files.
package seed

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// DefaultRows is the number of sample rows emitted per entity table.
const DefaultRows = 5

// SQL renders the seed script for every entity table of the schema, in
// schema order. Junction tables are skipped: their rows only make sense
// relative to generated entity rows, and fabricating consistent pairs is
// the running application's job.
func SQL(s *schema.Schema, c *gen.Config) string {
	rows := c.ParamInt("seed.rows", DefaultRows)
	faker := gofakeit.New(int64(seedFor(c.ProjectName)))
	var b strings.Builder
	b.WriteString("-- Seed data generated for ")
	b.WriteString(c.ProjectName)
	b.WriteString("\n")
	for _, t := range s.EntityTables() {
		b.WriteString("\n-- ")
		b.WriteString(t.Name)
		b.WriteString("\n")
		for i := 1; i <= rows; i++ {
			writeInsert(&b, faker, s, t, i)
		}
	}
	return b.String()
}

func seedFor(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func writeInsert(b *strings.Builder, faker *gofakeit.Faker, s *schema.Schema, t *schema.Table, row int) {
	var cols, vals []string
	for _, c := range t.Columns {
		if c.HasDefault() && !c.PrimaryKey {
			continue
		}
		cols = append(cols, c.Name)
		vals = append(vals, value(faker, t, c, row))
	}
	fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES (%s);\n",
		t.Name, strings.Join(cols, ", "), strings.Join(vals, ", "))
}

// value picks a plausible literal for the column. Foreign-key columns point
// at the same row ordinal of the referenced table, which exists because
// every entity table receives the same row count.
func value(faker *gofakeit.Faker, t *schema.Table, c *schema.Column, row int) string {
	if t.ForeignKey(c.Name) != nil || c.PrimaryKey {
		if c.Type == schema.TypeUUID {
			return quote(deterministicUUID(faker))
		}
		return fmt.Sprintf("%d", row)
	}
	switch {
	case strings.Contains(c.Name, "email"):
		return quote(faker.Email())
	case strings.Contains(c.Name, "phone"):
		return quote(faker.Phone())
	case strings.Contains(c.Name, "name"):
		return quote(faker.Name())
	case strings.Contains(c.Name, "address"):
		return quote(faker.Street())
	case strings.Contains(c.Name, "url"):
		return quote(faker.URL())
	}
	switch c.Type {
	case schema.TypeInt, schema.TypeBigInt:
		return fmt.Sprintf("%d", faker.Number(1, 1000))
	case schema.TypeDecimal, schema.TypeFloat:
		return fmt.Sprintf("%.2f", faker.Price(0.99, 999.99))
	case schema.TypeBool:
		if faker.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case schema.TypeDate:
		return quote("2024-01-0" + fmt.Sprint(1+row%9))
	case schema.TypeTime:
		return quote(fmt.Sprintf("%02d:00:00", row%24))
	case schema.TypeTimestamp:
		return quote(fmt.Sprintf("2024-01-0%d 12:00:00", 1+row%9))
	case schema.TypeUUID:
		return quote(deterministicUUID(faker))
	case schema.TypeJSON:
		return quote("{}")
	case schema.TypeText:
		return quote(faker.Sentence(8))
	default:
		word := faker.Word()
		if c.Length > 0 && len(word) > c.Length {
			word = word[:c.Length]
		}
		return quote(word)
	}
}

// deterministicUUID draws from the seeded faker, keeping the whole script
// reproducible.
func deterministicUUID(faker *gofakeit.Faker) string {
	return faker.UUID()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
