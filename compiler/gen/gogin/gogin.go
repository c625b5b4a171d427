// Package gogin implements the Go/Gin target: a capability-set
// implementation of the generation core that emits a Go module with
// pgx-backed repositories, services and Gin handlers per entity table.
// Typed artifacts (models, DTOs, mappers) are built with jennifer and
// normalized through the imports processor; SQL-heavy artifacts are
// rendered as templates.
package gogin

import (
	"path"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// Target is the Go/Gin backend.
type Target struct {
	mapper TypeMapper
}

// New creates the Go/Gin target.
func New() *Target { return &Target{} }

// Name returns the target identifier.
func (t *Target) Name() string { return "go-gin" }

// TypeMapper returns the Go column type mapper.
func (t *Target) TypeMapper() gen.TypeMapper { return t.mapper }

// SupportedFeatures returns the subset of the canonical registry this
// target honors.
func (t *Target) SupportedFeatures() []gen.Feature {
	return []gen.Feature{
		gen.FeatureCRUD,
		gen.FeatureAuditing,
		gen.FeatureSoftDelete,
		gen.FeaturePagination,
		gen.FeatureDocker,
		gen.FeatureManyToOne,
		gen.FeatureOneToMany,
		gen.FeatureManyToMany,
		gen.FeatureJWTAuth,
		gen.FeatureRateLimiting,
		gen.FeatureMigrations,
		gen.FeatureUnitTests,
		gen.FeatureBatchOperations,
		gen.FeatureSeedData,
	}
}

// Validate performs the thin pre-generation check. The base package is the
// generated module's import path.
func (t *Target) Validate(c *gen.Config) []string {
	var errs []string
	if c.ProjectName == "" {
		errs = append(errs, "Project name is required")
	}
	if c.BasePackage == "" {
		errs = append(errs, "Base package is required for Go projects")
	} else if strings.Contains(c.BasePackage, " ") {
		errs = append(errs, "Base package must be a valid Go module path")
	}
	return errs
}

// modulePath returns the per-table package directory: internal/{module}.
func modulePath(t *schema.Table) string {
	return path.Join("internal", t.ModuleName())
}

// importPath returns the generated module's import path for a table's
// package.
func importPath(c *gen.Config, t *schema.Table) string {
	return c.BasePackage + "/internal/" + t.ModuleName()
}

// dataColumns returns the table's plain data columns, minus the audit
// columns owned by the auditing and softdelete features.
func dataColumns(c *gen.Config, t *schema.Table) []*schema.Column {
	cols := t.DataColumns()
	out := make([]*schema.Column, 0, len(cols))
	for _, col := range cols {
		switch col.Name {
		case "created_at", "updated_at":
			if c.FeatureEnabled(gen.FeatureAuditing.Name) {
				continue
			}
		case "deleted_at":
			if c.FeatureEnabled(gen.FeatureSoftDelete.Name) {
				continue
			}
		}
		out = append(out, col)
	}
	return out
}

// writableColumns are the columns the create payload carries: data columns
// plus foreign-key columns, in source order within each group.
func writableColumns(c *gen.Config, t *schema.Table) []*schema.Column {
	cols := dataColumns(c, t)
	for _, fk := range t.ForeignKeys {
		if col := t.Column(fk.Column); col != nil {
			cols = append(cols, col)
		}
	}
	return cols
}

// pkType resolves the Go primary-key type of the table.
func (t *Target) pkType(table *schema.Table) string {
	if pk := table.PrimaryKey(); pk != nil {
		return t.mapper.MapColumnType(pk)
	}
	return t.mapper.PrimaryKeyType()
}

// format runs the generated source through the imports processor. The raw
// rendering is kept when processing fails so a formatting hiccup never
// drops a file from the result.
func format(filename, src string) string {
	out, err := imports.Process(filename, []byte(src), nil)
	if err != nil {
		return src
	}
	return string(out)
}
