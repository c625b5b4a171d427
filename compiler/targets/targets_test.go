package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiforge/forge/compiler/gen"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"go-gin", "kotlin-spring", "rust-axum"}, Names())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		target, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, target.Name())
		// Every registered target must construct an orchestrator cleanly.
		_, err = gen.NewOrchestrator(target)
		require.NoError(t, err)
	}
	_, err := Lookup("cobol-cics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "cobol-cics"`)
}
