package delaunay

import "errors"

var (
	// ErrEmptyMesh is returned by operations that require a bootstrapped
	// mesh (at least one real, non-ghost triangle) to have already been
	// built.
	ErrEmptyMesh = errors.New("delaunay: mesh is not bootstrapped")

	// ErrAllCollinear is returned when every buffered pre-triangulation
	// vertex is collinear, so bootstrap cannot yet construct an initial
	// triangle.
	ErrAllCollinear = errors.New("delaunay: all buffered vertices are collinear")

	// ErrLocateFailed is returned when the stochastic walk cannot settle
	// on a triangle within its step budget -- a topology-corruption
	// signal, not an expected runtime outcome.
	ErrLocateFailed = errors.New("delaunay: point location did not converge")

	// ErrCircularWalk is returned when the stochastic walk revisits an
	// edge it has already crossed, which can only happen if the mesh's
	// neighbor links are corrupted.
	ErrCircularWalk = errors.New("delaunay: circular walk detected during point location")
)
