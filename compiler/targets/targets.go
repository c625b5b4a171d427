// Package targets binds the registered backend names to their
// implementations. It exists above the individual backends so the
// generation core never depends on any of them.
package targets

import (
	"fmt"
	"sort"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/gen/gogin"
	"github.com/apiforge/forge/compiler/gen/kotlin"
	"github.com/apiforge/forge/compiler/gen/rust"
)

// New returns a fresh instance of every registered target.
func New() []gen.Target {
	return []gen.Target{
		kotlin.New(),
		rust.New(),
		gogin.New(),
	}
}

// Names returns the registered target names, sorted.
func Names() []string {
	all := New()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name()
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a target by name.
func Lookup(name string) (gen.Target, error) {
	for _, t := range New() {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown target %q (registered: %v)", name, Names())
}
