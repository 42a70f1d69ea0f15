package tin

import "github.com/go-logr/logr"

// Option configures a Mesh at construction (spec §4.10; directly modeled
// on mesh.Option's functional-options shape from mesh/options.go).
type Option func(*config)

type config struct {
	nominalSpacing          float64
	logger                  logr.Logger
	restoreRecursionBudget  int
}

func defaultConfig() config {
	return config{
		nominalSpacing:         1.0,
		logger:                 logr.Discard(),
		restoreRecursionBudget: 32,
	}
}

// WithNominalSpacing sets the expected distance between neighboring input
// points, from which the mesh derives its geometric tolerances (spec §3
// "Thresholds").
func WithNominalSpacing(spacing float64) Option {
	return func(c *config) { c.nominalSpacing = spacing }
}

// WithLogger installs a diagnostic sink (spec §7 "Diagnostics are emitted
// via a pluggable logging sink, never printed to stdout"). Threaded down
// into refine.Runner; constraint/delaunay currently have nothing to log.
func WithLogger(l logr.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRestoreConformityBudget overrides Restore-Conformity's recursion
// depth limit (spec default 32, §7 category 2 "Restore-Conformity hit
// recursion depth 32").
func WithRestoreConformityBudget(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.restoreRecursionBudget = n
		}
	}
}
