package refine

import (
	"container/heap"

	"github.com/iceisfun/tinmesh/quadedge"
)

// badTriangleItem is one entry in the priority queue, keyed by badness
// ratio and deduplicated by triangle representative edge index (spec §4.8
// "bad_triangle_queue").
type badTriangleItem struct {
	rep     quadedge.EdgeID
	badness float64
	index   int
}

// badnessQueue is a max-heap ordered by badness ratio (spec: "priority
// ordering is by badness ratio, not by area"), grounded on
// katalvlaran-lvlath's container/heap-based nodePQ pattern (dijkstra.go).
type badnessQueue []*badTriangleItem

func (q badnessQueue) Len() int { return len(q) }

func (q badnessQueue) Less(i, j int) bool { return q[i].badness > q[j].badness }

func (q badnessQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *badnessQueue) Push(x interface{}) {
	it := x.(*badTriangleItem)
	it.index = len(*q)
	*q = append(*q, it)
}

func (q *badnessQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*q = old[:n-1]
	return it
}

// triangleQueue wraps badnessQueue with the representative-edge dedup
// rule: pushing a triangle already present updates its priority in place
// instead of adding a second entry.
type triangleQueue struct {
	heap badnessQueue
	byRep map[quadedge.EdgeID]*badTriangleItem
}

func newTriangleQueue() *triangleQueue {
	return &triangleQueue{byRep: make(map[quadedge.EdgeID]*badTriangleItem)}
}

func (q *triangleQueue) Len() int { return len(q.heap) }

// Push enqueues rep at badness, or re-prioritizes it if already present.
func (q *triangleQueue) Push(rep quadedge.EdgeID, badness float64) {
	if it, ok := q.byRep[rep]; ok {
		it.badness = badness
		heap.Fix(&q.heap, it.index)
		return
	}
	it := &badTriangleItem{rep: rep, badness: badness}
	heap.Push(&q.heap, it)
	q.byRep[rep] = it
}

// Pop removes and returns the highest-badness representative edge.
func (q *triangleQueue) Pop() (quadedge.EdgeID, float64, bool) {
	if q.Len() == 0 {
		return quadedge.NilEdge, 0, false
	}
	it := heap.Pop(&q.heap).(*badTriangleItem)
	delete(q.byRep, it.rep)
	return it.rep, it.badness, true
}

// Remove drops rep from the queue if present, without returning it.
func (q *triangleQueue) Remove(rep quadedge.EdgeID) {
	it, ok := q.byRep[rep]
	if !ok {
		return
	}
	heap.Remove(&q.heap, it.index)
	delete(q.byRep, rep)
}
