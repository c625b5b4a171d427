package gen

import "github.com/apiforge/forge/schema"

// File is one generated artifact: a relative, forward-slash separated path
// and its UTF-8 text content. Sub-generators return File values instead of
// writing into a shared accumulator, which keeps them pure and makes the
// orchestrator the single merge point.
type File struct {
	Path    string
	Content string
}

// Context carries everything a per-table sub-generator needs: the table,
// its resolved relationships and the request-wide schema and config. The
// relationship slices are computed once per run by the orchestrator and
// shared across all sub-generator calls for the table.
type Context struct {
	Schema *schema.Schema
	Config *Config
	Table  *schema.Table

	// Relationships are the table's outgoing M2O relationships.
	Relationships []Relationship
	// Inverse are the O2M relationships targeting the table, junction
	// sources excluded. Consumed by the model generator only.
	Inverse []Relationship
	// ManyToMany are the table's junction-realized associations.
	ManyToMany []ManyToManyRelation
}

// =============================================================================
// Per-artifact capability interfaces. A target implements the mandatory set
// below (Target); the optional capabilities are detected by type assertion
// when the orchestrator is constructed.
// =============================================================================

// ModelGenerator generates the domain model/entity file for one table.
type ModelGenerator interface {
	GenModel(ctx *Context) File
}

// DTOGenerator generates the request/response DTO file for one table.
type DTOGenerator interface {
	GenDTO(ctx *Context) File
}

// MapperGenerator generates the entity↔DTO mapper file for one table.
type MapperGenerator interface {
	GenMapper(ctx *Context) File
}

// RepositoryGenerator generates the persistence layer file for one table.
// Only invoked when the config enables a database feature.
type RepositoryGenerator interface {
	GenRepository(ctx *Context) File
}

// ServiceGenerator generates the service layer file for one table.
type ServiceGenerator interface {
	GenService(ctx *Context) File
}

// ControllerGenerator generates the controller/handler file for one table.
type ControllerGenerator interface {
	GenController(ctx *Context) File
}

// ProjectGenerator generates the schema-independent root files of the
// project: build manifest, environment template, ignore file, readme and
// task file. Container files are emitted separately, gated by the docker
// feature.
type ProjectGenerator interface {
	GenProject(s *schema.Schema, c *Config) []File
	GenDocker(s *schema.Schema, c *Config) []File
}

// TestGenerator is an optional capability emitting per-table tests.
type TestGenerator interface {
	GenUnitTest(ctx *Context) File
	GenIntegrationTest(ctx *Context) File
}

// MigrationGenerator is an optional capability emitting one versioned
// migration per entity table. The version counter is orchestrator-local.
type MigrationGenerator interface {
	GenMigration(ctx *Context, version int) File
}

// FeaturePackGenerator is an optional capability emitting schema-wide
// cross-cutting files (mail, password reset, social login, file storage,
// developer-experience scaffolding), gated solely by feature flags and
// their parameters.
type FeaturePackGenerator interface {
	GenFeaturePacks(s *schema.Schema, c *Config) []File
}

// Target is the capability set one language/framework backend must provide.
// Optional capabilities (tests, migrations, feature packs) are detected at
// orchestrator construction.
type Target interface {
	// Name returns the target identifier (e.g. "kotlin-spring", "rust-axum").
	Name() string

	// SupportedFeatures returns the subset of the canonical feature
	// registry this target can honor.
	SupportedFeatures() []Feature

	// TypeMapper returns the target's column type mapper.
	TypeMapper() TypeMapper

	// Validate performs the thin pre-generation config check, returning
	// human-readable errors. An empty list means generation may start.
	Validate(c *Config) []string

	ModelGenerator
	DTOGenerator
	MapperGenerator
	RepositoryGenerator
	ServiceGenerator
	ControllerGenerator
	ProjectGenerator
}
