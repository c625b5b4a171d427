package gen

import (
	"sort"

	"github.com/apiforge/forge/schema"
)

// migrationBaseline is the reserved version of the baseline migration.
// Per-table migrations start at baseline+1.
const migrationBaseline = 1

// FileMap maps relative file paths to their UTF-8 content.
type FileMap map[string]string

// Paths returns the sorted paths of the map.
func (m FileMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// add merges a file into the map and reports whether an existing entry was
// replaced. Last write wins; the orchestrator records the collision in its
// result instead of failing.
func (m FileMap) add(f File) bool {
	_, collided := m[f.Path]
	m[f.Path] = f.Content
	return collided
}

// Result is the outcome of one generation run.
type Result struct {
	// Files is the complete generated project, path → content.
	Files FileMap
	// Collisions lists paths that were written more than once. Last write
	// wins; a non-empty list points at a path-derivation defect in the
	// target's sub-generators.
	Collisions []string
	// IgnoredFeatures lists enabled features the target does not support.
	// They are skipped, not rejected.
	IgnoredFeatures []string
}

// Orchestrator composes a target's sub-generators into a complete project
// file map for one (Schema, Config) pair. Construct one per request; it
// holds no shared state across runs besides the target itself.
type Orchestrator struct {
	target    Target
	supported FeatureSet

	// Optional capabilities detected at construction.
	testGen      TestGenerator
	migrationGen MigrationGenerator
	packGen      FeaturePackGenerator
}

// NewOrchestrator creates an orchestrator for the given target and detects
// its optional capabilities. It fails if the target declares support for a
// feature the canonical registry does not know.
func NewOrchestrator(t Target) (*Orchestrator, error) {
	if t == nil {
		return nil, NewConfigError("Target", nil, "no target set")
	}
	if err := validateSupported(t.Name(), t.SupportedFeatures()); err != nil {
		return nil, err
	}
	o := &Orchestrator{target: t, supported: NewFeatureSet(t.SupportedFeatures())}
	if tg, ok := t.(TestGenerator); ok {
		o.testGen = tg
	}
	if mg, ok := t.(MigrationGenerator); ok {
		o.migrationGen = mg
	}
	if pg, ok := t.(FeaturePackGenerator); ok {
		o.packGen = pg
	}
	return o, nil
}

// Target returns the orchestrated target.
func (o *Orchestrator) Target() Target { return o.target }

// Validate runs the pre-generation validation pass: the target's own thin
// config check. An empty list means Generate may be invoked.
func (o *Orchestrator) Validate(c *Config) []string {
	return o.target.Validate(c)
}

// IgnoredFeatures returns the enabled features the target does not support,
// in registry order. They are surfaced on the Result rather than silently
// dropped, but do not fail the run.
func (o *Orchestrator) IgnoredFeatures(c *Config) []string {
	var ignored []string
	for _, f := range AllFeatures {
		if c.FeatureEnabled(f.Name) && !o.supported.Enabled(f.Name) {
			ignored = append(ignored, f.Name)
		}
	}
	return ignored
}

// featureActive reports if the feature is both enabled by the config and
// supported by the target. Enabled-but-unsupported features are the ones
// surfaced as ignored; they must not produce artifacts.
func (o *Orchestrator) featureActive(c *Config, f Feature) bool {
	return c.FeatureEnabled(f.Name) && o.supported.Enabled(f.Name)
}

// Generate produces the complete file map for the schema and config.
//
// The relationship map is computed exactly once, before any per-table
// generation, and threaded through every sub-generator call: recomputing
// per call would waste work and leave room for drift between artifacts.
// The method performs no I/O; writing or zipping the result is the
// packaging collaborator's job. Sub-generators are treated as infallible;
// a panic aborts the run with no partial result.
func (o *Orchestrator) Generate(s *schema.Schema, c *Config) (*Result, error) {
	if errs := o.Validate(c); len(errs) > 0 {
		return nil, NewValidationError(o.target.Name(), errs)
	}

	res := &Result{
		Files:           make(FileMap),
		IgnoredFeatures: o.IgnoredFeatures(c),
	}
	merge := func(files ...File) {
		for _, f := range files {
			if res.Files.add(f) {
				res.Collisions = append(res.Collisions, f.Path)
			}
		}
	}

	// Root project files are unconditional; container files are gated.
	merge(o.target.GenProject(s, c)...)
	if o.featureActive(c, FeatureDocker) {
		merge(o.target.GenDocker(s, c)...)
	}

	relationships := RelationshipsByTable(s)
	version := migrationBaseline

	for _, t := range s.Tables {
		if !t.IsEntityTable() {
			continue
		}
		ctx := &Context{
			Schema:        s,
			Config:        c,
			Table:         t,
			Relationships: relationships.For(t.Name),
			Inverse:       InverseRelationshipsFor(t, s, relationships),
			ManyToMany:    ManyToManyRelationsFor(t, s),
		}
		merge(o.target.GenModel(ctx))
		merge(o.target.GenDTO(ctx))
		merge(o.target.GenMapper(ctx))
		if c.DatabaseEnabled() {
			merge(o.target.GenRepository(ctx))
		}
		merge(o.target.GenService(ctx))
		merge(o.target.GenController(ctx))
		if o.testGen != nil {
			if o.featureActive(c, FeatureUnitTests) {
				merge(o.testGen.GenUnitTest(ctx))
			}
			if o.featureActive(c, FeatureIntegrationTests) {
				merge(o.testGen.GenIntegrationTest(ctx))
			}
		}
		// One version per table, regardless of how many statements the
		// table's migration contains.
		if o.migrationGen != nil && o.featureActive(c, FeatureMigrations) {
			version++
			merge(o.migrationGen.GenMigration(ctx, version))
		}
	}

	if o.packGen != nil {
		merge(o.packGen.GenFeaturePacks(s, c)...)
	}
	return res, nil
}
