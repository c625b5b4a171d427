package gen

// Config is the project configuration of one generation request. It is
// constructed once from user input and read-only during generation.
type Config struct {
	// ProjectName is the human-facing project name, used for artifact
	// names, readme headers and build manifests.
	ProjectName string

	// BasePackage is the root package/module/crate identifier of the
	// generated project (e.g. "com.acme.shop" for Kotlin, a module path
	// for Go, a crate name for Rust).
	BasePackage string

	// Features holds the enabled feature flags. Insertion order is
	// irrelevant; only membership is tested.
	Features []Feature

	// FeatureParams holds arbitrary per-feature parameters keyed by
	// "<feature-name>.<param>" (e.g. "auth/jwt.expiration-minutes").
	FeatureParams map[string]any

	features FeatureSet
}

// featureSet lazily builds the membership view of the enabled features.
func (c *Config) featureSet() FeatureSet {
	if c.features == nil {
		fs := c.Features
		if len(fs) == 0 {
			fs = DefaultFeatures()
		}
		c.features = NewFeatureSet(fs)
	}
	return c.features
}

// FeatureEnabled reports if the named feature is enabled in this config.
func (c *Config) FeatureEnabled(name string) bool {
	return c.featureSet().Enabled(name)
}

// DatabaseEnabled reports if a database-backed persistence layer is part
// of this generation run. Without it no repository files are emitted.
func (c *Config) DatabaseEnabled() bool {
	return c.FeatureEnabled(FeatureCRUD.Name)
}

// Param returns the raw per-feature parameter for the given key, or the
// fallback when absent.
func (c *Config) Param(key string, fallback any) any {
	if v, ok := c.FeatureParams[key]; ok {
		return v
	}
	return fallback
}

// ParamString returns a string-typed parameter with a fallback.
func (c *Config) ParamString(key, fallback string) string {
	if v, ok := c.FeatureParams[key].(string); ok {
		return v
	}
	return fallback
}

// ParamInt returns an int-typed parameter with a fallback. Values decoded
// from YAML/JSON may arrive as int or float64.
func (c *Config) ParamInt(key string, fallback int) int {
	switch v := c.FeatureParams[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// ParamStrings returns a string-slice parameter with a fallback. Slices
// decoded from YAML/JSON arrive as []any.
func (c *Config) ParamStrings(key string, fallback []string) []string {
	switch v := c.FeatureParams[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return fallback
			}
			out = append(out, s)
		}
		return out
	}
	return fallback
}
