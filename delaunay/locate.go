package delaunay

import (
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
)

// Location describes where a point landed relative to a located face.
type Location struct {
	Edge    quadedge.EdgeID
	OnEdge  bool
	IsGhost bool
}

// locate performs the stochastic Lawson's walk (spec §4.5) starting from
// seed, returning the face (or ghost face) containing p.
func (t *Triangulation) locate(p predicates.Point, seed quadedge.EdgeID) (Location, error) {
	cur := seed
	maxSteps := 64
	if n := int(t.Pool.Allocated()); n*2 > maxSteps {
		maxSteps = n * 2
	}
	visited := make(map[quadedge.EdgeID]bool, maxSteps)

	for step := 0; step < maxSteps; step++ {
		if t.Pool.IsGhostTriangle(cur) {
			return Location{Edge: cur, IsGhost: true}, nil
		}
		visited[cur] = true

		e0 := cur
		e1 := t.Pool.F(e0)
		e2 := t.Pool.F(e1)
		edges := [3]quadedge.EdgeID{e0, e1, e2}

		var outside []int
		onEdgeIdx := -1
		for i, e := range edges {
			origin := t.pos(t.Pool.Origin(e))
			dest := t.pos(t.Pool.Origin(t.Pool.F(e)))
			sign := predicates.Orient(origin, dest, p)
			switch {
			case sign < 0:
				outside = append(outside, i)
			case sign == 0:
				onEdgeIdx = i
			}
		}

		if len(outside) == 0 {
			if onEdgeIdx >= 0 {
				return Location{Edge: edges[onEdgeIdx], OnEdge: true}, nil
			}
			return Location{Edge: cur}, nil
		}

		// Stochastic tie-break among candidate wrong-side edges to avoid
		// livelock on degenerate configurations (spec §4.5).
		choice := outside[0]
		if len(outside) > 1 {
			choice = outside[t.rng.Intn(len(outside))]
		}
		next := t.Pool.Dual(edges[choice])
		if visited[next] {
			return Location{}, ErrCircularWalk
		}
		cur = next
	}
	return Location{}, ErrLocateFailed
}
