package gen

// FeatureStage describes the maturity stage of a generator feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change shape.
	Experimental

	// Alpha features are functional but their generated surface may still
	// receive breaking changes.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features have been generating production projects for a while.
	Stable
)

// A Feature is a named, optional capability that gates whether certain
// files and fields are generated. The set of features is closed; each
// target declares its supported subset at registration.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

var (
	// FeatureCRUD generates the persistence layer: repositories and the
	// database wiring of services. It is the database feature; repository
	// generation is skipped without it.
	FeatureCRUD = Feature{
		Name:        "crud",
		Stage:       Stable,
		Default:     true,
		Description: "Generates repositories, services and REST controllers for every entity table",
	}

	// FeatureAuditing adds created/updated audit fields to entities.
	FeatureAuditing = Feature{
		Name:        "auditing",
		Stage:       Stable,
		Description: "Adds createdAt/updatedAt audit columns and their population to every entity",
	}

	// FeatureSoftDelete replaces hard deletes with a deleted marker.
	FeatureSoftDelete = Feature{
		Name:        "softdelete",
		Stage:       Beta,
		Description: "Replaces hard deletes with a deletedAt marker and filters deleted rows from queries",
	}

	// FeatureFiltering generates per-field query filtering on list endpoints.
	FeatureFiltering = Feature{
		Name:        "filtering",
		Stage:       Beta,
		Description: "Generates per-field filter parameters on collection endpoints",
	}

	// FeaturePagination generates paged list endpoints.
	FeaturePagination = Feature{
		Name:        "pagination",
		Stage:       Stable,
		Default:     true,
		Description: "Generates page/size parameters and paged responses on collection endpoints",
	}

	// FeatureDocker emits Dockerfile and compose files.
	FeatureDocker = Feature{
		Name:        "docker",
		Stage:       Stable,
		Description: "Emits a Dockerfile and docker-compose file for the generated project",
	}

	// FeatureManyToOne generates many-to-one association fields.
	FeatureManyToOne = Feature{
		Name:        "rel/m2o",
		Stage:       Stable,
		Default:     true,
		Description: "Generates many-to-one association fields from foreign keys",
	}

	// FeatureOneToMany generates one-to-many collection fields.
	FeatureOneToMany = Feature{
		Name:        "rel/o2m",
		Stage:       Stable,
		Default:     true,
		Description: "Generates inverse one-to-many collection fields",
	}

	// FeatureManyToMany generates many-to-many collections via junction tables.
	FeatureManyToMany = Feature{
		Name:        "rel/m2m",
		Stage:       Stable,
		Default:     true,
		Description: "Generates many-to-many collections for two-foreign-key junction tables",
	}

	// FeatureJWTAuth generates token-based authentication.
	FeatureJWTAuth = Feature{
		Name:        "auth/jwt",
		Stage:       Stable,
		Description: "Generates JWT authentication: token issuing, verification middleware and login endpoints",
	}

	// FeatureOAuth2 generates OAuth2 resource-server configuration.
	FeatureOAuth2 = Feature{
		Name:        "auth/oauth2",
		Stage:       Beta,
		Description: "Generates OAuth2 resource-server security configuration",
	}

	// FeatureSocialLogin generates social OAuth provider login.
	FeatureSocialLogin = Feature{
		Name:        "auth/social",
		Stage:       Alpha,
		Description: "Generates social-login endpoints for the configured OAuth providers",
	}

	// FeatureRateLimiting generates request rate-limiting middleware.
	FeatureRateLimiting = Feature{
		Name:        "ratelimit",
		Stage:       Beta,
		Description: "Generates per-client request rate-limiting middleware",
	}

	// FeatureMigrations emits versioned SQL migration files per entity table.
	FeatureMigrations = Feature{
		Name:        "migrations",
		Stage:       Stable,
		Default:     true,
		Description: "Emits versioned SQL migrations, one per entity table, after a reserved baseline",
	}

	// FeatureUnitTests emits per-entity unit tests.
	FeatureUnitTests = Feature{
		Name:        "tests/unit",
		Stage:       Stable,
		Description: "Emits service-level unit tests per entity",
	}

	// FeatureIntegrationTests emits per-entity integration tests.
	FeatureIntegrationTests = Feature{
		Name:        "tests/integration",
		Stage:       Beta,
		Description: "Emits controller-level integration tests per entity",
	}

	// FeatureMailService generates an outbound mail service.
	FeatureMailService = Feature{
		Name:        "mail",
		Stage:       Beta,
		Description: "Generates an SMTP mail service with templated messages",
	}

	// FeaturePasswordReset generates the password-reset flow.
	FeaturePasswordReset = Feature{
		Name:        "mail/passwordreset",
		Stage:       Beta,
		Description: "Generates password-reset token issuing and the reset endpoints (requires mail)",
	}

	// FeatureFileUpload generates file upload endpoints.
	FeatureFileUpload = Feature{
		Name:        "upload",
		Stage:       Beta,
		Description: "Generates multipart file-upload endpoints backed by the configured storage",
	}

	// FeatureS3Storage backs file storage with S3-compatible object storage.
	FeatureS3Storage = Feature{
		Name:        "storage/s3",
		Stage:       Beta,
		Description: "Backs the file-storage service with an S3-compatible bucket",
	}

	// FeatureAzureStorage backs file storage with Azure Blob Storage.
	FeatureAzureStorage = Feature{
		Name:        "storage/azure",
		Stage:       Alpha,
		Description: "Backs the file-storage service with an Azure Blob container",
	}

	// FeatureHATEOAS adds hypermedia links to responses.
	FeatureHATEOAS = Feature{
		Name:        "hateoas",
		Stage:       Alpha,
		Description: "Adds hypermedia self/collection links to generated responses",
	}

	// FeatureETagCaching adds ETag handling to single-resource endpoints.
	FeatureETagCaching = Feature{
		Name:        "cache/etag",
		Stage:       Beta,
		Description: "Adds ETag computation and If-None-Match handling to single-resource endpoints",
	}

	// FeatureCaching adds a server-side response cache.
	FeatureCaching = Feature{
		Name:        "cache",
		Stage:       Alpha,
		Description: "Adds a server-side cache in front of read endpoints",
	}

	// FeatureOpenAPI emits an OpenAPI document for the generated API.
	FeatureOpenAPI = Feature{
		Name:        "openapi",
		Stage:       Stable,
		Description: "Emits an OpenAPI description of the generated endpoints",
	}

	// FeatureBatchOperations generates bulk create/delete endpoints.
	FeatureBatchOperations = Feature{
		Name:        "batch",
		Stage:       Alpha,
		Description: "Generates bulk create and bulk delete endpoints per entity",
	}

	// FeatureSeedData emits deterministic sample data per entity table.
	FeatureSeedData = Feature{
		Name:        "seed",
		Stage:       Beta,
		Description: "Emits a deterministic seed.sql with sample rows for every entity table",
	}

	// FeatureDevTools emits developer-experience scaffolding: editor
	// settings, task files and lint configuration.
	FeatureDevTools = Feature{
		Name:        "devtools",
		Stage:       Stable,
		Description: "Emits developer-experience scaffolding (task file, lint config, editor settings)",
	}

	// AllFeatures holds the closed list of feature flags.
	AllFeatures = []Feature{
		FeatureCRUD,
		FeatureAuditing,
		FeatureSoftDelete,
		FeatureFiltering,
		FeaturePagination,
		FeatureDocker,
		FeatureManyToOne,
		FeatureOneToMany,
		FeatureManyToMany,
		FeatureJWTAuth,
		FeatureOAuth2,
		FeatureSocialLogin,
		FeatureRateLimiting,
		FeatureMigrations,
		FeatureUnitTests,
		FeatureIntegrationTests,
		FeatureMailService,
		FeaturePasswordReset,
		FeatureFileUpload,
		FeatureS3Storage,
		FeatureAzureStorage,
		FeatureHATEOAS,
		FeatureETagCaching,
		FeatureCaching,
		FeatureOpenAPI,
		FeatureBatchOperations,
		FeatureSeedData,
		FeatureDevTools,
	}
)

// FeatureByName returns the canonical feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// DefaultFeatures returns the features enabled when a config names none.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// FeatureSet is a membership-only view over enabled features.
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set from the given features.
func NewFeatureSet(features []Feature) FeatureSet {
	s := make(FeatureSet, len(features))
	for _, f := range features {
		s[f.Name] = struct{}{}
	}
	return s
}

// Enabled reports if the named feature is in the set.
func (s FeatureSet) Enabled(name string) bool {
	_, ok := s[name]
	return ok
}

// validateSupported checks the canonical registry against a target's
// declared subset once at registration: a target must not declare support
// for a feature the registry does not know.
func validateSupported(target string, supported []Feature) error {
	for _, f := range supported {
		if _, ok := FeatureByName(f.Name); !ok {
			return NewConfigError("SupportedFeatures", f.Name, "target "+target+" declares an unknown feature")
		}
	}
	return nil
}
