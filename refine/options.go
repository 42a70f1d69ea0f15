// Package refine implements Ruppert's Delaunay refinement algorithm (spec
// §4.8, C8): it inserts Steiner points at circumcenters/off-centers of
// triangles that violate a minimum-angle bound (leaving alone triangles
// whose area is below a minimum-area floor), and splits encroached
// constrained segments instead, until the mesh is quality conforming or a
// termination budget is hit.
package refine

import (
	"math"

	"github.com/go-logr/logr"
)

// InterpolationStrategy selects how a Steiner point's elevation is
// computed (spec §4.8 "elevation via interpolation strategy").
type InterpolationStrategy uint8

const (
	// InterpTriangularFacet treats the containing triangle as a planar
	// facet and barycentrically interpolates z (the default).
	InterpTriangularFacet InterpolationStrategy = iota
	// InterpNearestVertex copies the z of the closest triangle corner;
	// Options.Interpolator is not consulted.
	InterpNearestVertex
	// InterpCustom defers entirely to Options.Interpolator.
	InterpCustom
)

// Interpolator computes the elevation of a Steiner point from its planar
// coordinates; used only when Interpolation is InterpCustom. When it
// reports !ok, the triangular-facet value is used instead.
type Interpolator interface {
	Interpolate(x, y float64) (z float64, ok bool)
}

// Option configures a Runner (spec §4.8 "Ruppert refinement options").
type Option func(*Options)

// Options holds the full Ruppert configuration surface named in spec §4.8.
type Options struct {
	MinAngleDegrees      float64
	MinTriangleArea      float64
	MaxIterations        int
	MaxInsertedVertices  int
	Interpolation        InterpolationStrategy
	Interpolator         Interpolator
	EnforceSqrt2Guard    bool
	MaxTriangleAttempts  int
	Logger               logr.Logger
}

// WithMinAngle sets the minimum interior angle, in degrees, that every
// non-ghost triangle must satisfy once refinement converges. The classic
// Ruppert bound of 20.7 degrees is the conservative default.
func WithMinAngle(degrees float64) Option {
	return func(o *Options) { o.MinAngleDegrees = degrees }
}

// WithMinTriangleArea sets an absolute area floor below which a triangle
// is never split for being "too small", overriding the sentinel default
// derived from the mesh's bounding box.
func WithMinTriangleArea(area float64) Option {
	return func(o *Options) { o.MinTriangleArea = area }
}

// WithMaxIterations bounds the number of Steiner-point insertion rounds.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithMaxInsertedVertices bounds the total number of Steiner points the
// refiner may add, overriding the default of 50x the initial vertex count.
func WithMaxInsertedVertices(n int) Option {
	return func(o *Options) { o.MaxInsertedVertices = n }
}

// WithInterpolation selects the elevation strategy for Steiner points.
func WithInterpolation(s InterpolationStrategy, interp Interpolator) Option {
	return func(o *Options) {
		o.Interpolation = s
		o.Interpolator = interp
	}
}

// WithSqrt2Guard toggles the off-center construction's distance cap
// (Üngör's off-center rule); disabling it falls back to plain circumcenter
// insertion, which converges less reliably on thin sliver triangles.
func WithSqrt2Guard(enabled bool) Option {
	return func(o *Options) { o.EnforceSqrt2Guard = enabled }
}

// WithMaxTriangleAttempts bounds how many times the refiner will retry the
// same bad triangle before abandoning it, avoiding an infinite
// loop around a seditious small-angle input corner.
func WithMaxTriangleAttempts(n int) Option {
	return func(o *Options) { o.MaxTriangleAttempts = n }
}

// WithLogger attaches a structured logger for refinement diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{
		MinAngleDegrees:     20.7,
		MaxIterations:       0,
		MaxInsertedVertices: 0,
		Interpolation:       InterpTriangularFacet,
		EnforceSqrt2Guard:   true,
		MaxTriangleAttempts: 50,
		Logger:              logr.Discard(),
	}
}

func (o Options) minAngleRadians() float64 {
	return o.MinAngleDegrees * math.Pi / 180
}
