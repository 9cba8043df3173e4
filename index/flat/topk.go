package flat

import (
	"container/heap"
	"sort"
)

type candidate struct {
	id   int64
	dist float32
}

// worse orders candidates by distance, then identifier, so ties resolve to
// the lower identifier regardless of scan order.
func worse(a, b candidate) bool {
	if a.dist != b.dist {
		return a.dist > b.dist
	}
	return a.id > b.id
}

// candidates is a max-heap: the root is the worst kept candidate.
type candidates []candidate

func (h candidates) Len() int            { return len(h) }
func (h candidates) Less(i, j int) bool  { return worse(h[i], h[j]) }
func (h candidates) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidates) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidates) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type topK struct {
	k int
	h candidates
}

func newTopK(k int) *topK { return &topK{k: k, h: make(candidates, 0, k)} }

func (t *topK) offer(id int64, dist float32) {
	c := candidate{id: id, dist: dist}
	if len(t.h) < t.k {
		heap.Push(&t.h, c)
		return
	}
	if worse(t.h[0], c) {
		t.h[0] = c
		heap.Fix(&t.h, 0)
	}
}

// drain writes the kept candidates best-first into ids/dists and resets t.
// Slots beyond the kept count are left untouched.
func (t *topK) drain(ids []int64, dists []float32) {
	sort.Slice(t.h, func(a, b int) bool { return worse(t.h[b], t.h[a]) })
	for n, c := range t.h {
		ids[n] = c.id
		dists[n] = c.dist
	}
	t.h = t.h[:0]
}
