package gen

import "errors"

// Option configures a generation Config.
type Option func(*Config) error

// WithProjectName sets the project name.
func WithProjectName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("ProjectName", nil, "project name cannot be empty")
		}
		c.ProjectName = name
		return nil
	}
}

// WithBasePackage sets the base package/module/crate identifier of the
// generated project.
func WithBasePackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("BasePackage", nil, "base package cannot be empty")
		}
		c.BasePackage = pkg
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		c.features = nil
		return nil
	}
}

// WithFeatureNames enables features by their canonical names.
// Unknown names fail.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			c.Features = append(c.Features, f)
		}
		c.features = nil
		return nil
	}
}

// WithFeatureParam sets one per-feature parameter, keyed by
// "<feature-name>.<param>".
func WithFeatureParam(key string, value any) Option {
	return func(c *Config) error {
		if key == "" {
			return NewConfigError("FeatureParams", nil, "parameter key cannot be empty")
		}
		if c.FeatureParams == nil {
			c.FeatureParams = make(map[string]any)
		}
		c.FeatureParams[key] = value
		return nil
	}
}

// Apply applies options to the config. It returns the first error
// encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
