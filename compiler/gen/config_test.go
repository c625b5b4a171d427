package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("options apply in order", func(t *testing.T) {
		c, err := NewConfig(
			WithProjectName("shop"),
			WithBasePackage("com.acme.shop"),
			WithFeatures(FeatureCRUD, FeatureDocker),
			WithFeatureParam("seed.rows", 10),
		)
		require.NoError(t, err)
		assert.Equal(t, "shop", c.ProjectName)
		assert.Equal(t, "com.acme.shop", c.BasePackage)
		assert.True(t, c.FeatureEnabled("crud"))
		assert.True(t, c.FeatureEnabled("docker"))
		assert.False(t, c.FeatureEnabled("auth/jwt"))
		assert.Equal(t, 10, c.ParamInt("seed.rows", 5))
	})
	t.Run("empty values fail", func(t *testing.T) {
		_, err := NewConfig(WithProjectName(""))
		assert.True(t, IsConfigError(err))
		_, err = NewConfig(WithBasePackage(""))
		assert.True(t, IsConfigError(err))
		_, err = NewConfig(WithFeatureParam("", 1))
		assert.True(t, IsConfigError(err))
	})
	t.Run("unknown feature name fails", func(t *testing.T) {
		_, err := NewConfig(WithFeatureNames("crud", "nonsense"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
	})
	t.Run("feature names resolve against the registry", func(t *testing.T) {
		c, err := NewConfig(WithFeatureNames("crud", "rel/m2m"))
		require.NoError(t, err)
		assert.True(t, c.FeatureEnabled("rel/m2m"))
	})
}

func TestDefaultFeatureSet(t *testing.T) {
	c := MustNewConfig(WithProjectName("shop"))
	for _, name := range []string{"crud", "pagination", "rel/m2o", "rel/o2m", "rel/m2m", "migrations"} {
		assert.True(t, c.FeatureEnabled(name), name)
	}
	assert.False(t, c.FeatureEnabled("docker"))
	assert.True(t, c.DatabaseEnabled())
}

func TestExplicitFeaturesReplaceDefaults(t *testing.T) {
	c := MustNewConfig(WithProjectName("shop"), WithFeatures(FeatureDocker))
	assert.True(t, c.FeatureEnabled("docker"))
	assert.False(t, c.FeatureEnabled("crud"))
	assert.False(t, c.DatabaseEnabled())
}

func TestParams(t *testing.T) {
	c := MustNewConfig(
		WithFeatureParam("auth/jwt.expiration-minutes", float64(30)),
		WithFeatureParam("mail.host", "smtp.local"),
		WithFeatureParam("seed.tables", []any{"users", "roles"}),
	)
	// YAML decoding hands numbers over as float64.
	assert.Equal(t, 30, c.ParamInt("auth/jwt.expiration-minutes", 60))
	assert.Equal(t, 60, c.ParamInt("missing", 60))
	assert.Equal(t, "smtp.local", c.ParamString("mail.host", ""))
	assert.Equal(t, "fallback", c.ParamString("missing", "fallback"))
	assert.Equal(t, []string{"users", "roles"}, c.ParamStrings("seed.tables", nil))
	assert.Nil(t, c.ParamStrings("missing", nil))
	assert.Equal(t, "smtp.local", c.Param("mail.host", nil))
}

func TestApplyAllCollectsErrors(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithProjectName(""), WithBasePackage(""), WithProjectName("ok"))
	require.Error(t, err)
	assert.Equal(t, "ok", c.ProjectName)
}

func TestFeatureByName(t *testing.T) {
	f, ok := FeatureByName("auth/jwt")
	require.True(t, ok)
	assert.Equal(t, FeatureJWTAuth, f)
	_, ok = FeatureByName("nonsense")
	assert.False(t, ok)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("schema error wraps its cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewSchemaError("users", "email", "bad column", cause)
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "table users")
		assert.Contains(t, err.Error(), "column email")
		assert.True(t, IsSchemaError(err))
	})
	t.Run("validation error joins its messages", func(t *testing.T) {
		err := NewValidationError("kotlin-spring", []string{"a", "b"})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "kotlin-spring")
		assert.Contains(t, err.Error(), "a; b")
	})
	t.Run("generation error carries phase and file", func(t *testing.T) {
		err := NewGenerationError("rust-axum", "entity", "src/user/model.rs", "render failed", nil)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Contains(t, err.Error(), "phase entity")
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsConfigError(err))
	})
}
