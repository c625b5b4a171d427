// Package rust implements the Rust/Axum target: a capability-set
// implementation of the generation core that emits a Cargo workspace-free
// binary crate with sqlx models, DTOs, repositories, services and axum
// handlers per entity table, plus sqlx migrations and the optional feature
// packs. The Rust target honors a smaller feature surface than the Spring
// one; requests for the rest are reported as ignored, not rejected.
package rust

import (
	"fmt"
	"strings"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

// Target is the Rust/Axum backend.
type Target struct {
	mapper TypeMapper
}

// New creates the Rust/Axum target.
func New() *Target { return &Target{} }

// Name returns the target identifier.
func (t *Target) Name() string { return "rust-axum" }

// TypeMapper returns the Rust column type mapper.
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
		gen.FeatureOpenAPI,
		gen.FeatureBatchOperations,
		gen.FeatureSeedData,
	}
}

// Validate performs the thin pre-generation check. Rust has no base
// package; the project name doubles as the crate name and must be one.
func (t *Target) Validate(c *gen.Config) []string {
	var errs []string
	if c.ProjectName == "" {
		errs = append(errs, "Project name is required")
	} else if !validCrateName(crateName(c)) {
		errs = append(errs, fmt.Sprintf("Project name %q does not map to a valid crate name", c.ProjectName))
	}
	return errs
}

// crateName derives the Cargo crate name from the project name.
func crateName(c *gen.Config) string {
	return strings.ReplaceAll(strings.ToLower(c.ProjectName), "-", "_")
}

func validCrateName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// modulePath returns the per-table source directory: src/{module}.
func modulePath(t *schema.Table) string {
	return "src/" + t.ModuleName()
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

// pkType resolves the Rust primary-key type of the table.
func (t *Target) pkType(table *schema.Table) string {
	if pk := table.PrimaryKey(); pk != nil {
		return t.mapper.MapColumnType(pk)
	}
	return t.mapper.PrimaryKeyType()
}
