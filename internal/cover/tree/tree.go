package tree

// This implementation is adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sort"
	"sync"
)

const defaultBase = 1.3

// Tree is a cover tree answering exact kNN queries under a metric distance.
// Inserts must finish, followed by Prepare, before searches run concurrently.
type Tree struct {
	root         *Node
	base         float32
	distanceFunc DistanceFunc
	size         int64
	prepared     bool
	mu           sync.RWMutex
}

// NewTree constructs a cover tree with the provided base. A nil distance
// defaults to EuclideanDistance.
func NewTree(base float32, distance DistanceFunc) *Tree {
	if base <= 1 {
		base = defaultBase
	}
	if distance == nil {
		distance = EuclideanDistance
	}
	return &Tree{base: base, distanceFunc: distance}
}

// Len returns the number of inserted points.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(t.size)
}

// Insert adds a vector and returns its identifier (the insertion ordinal).
func (t *Tree) Insert(vector []float32) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point := &Point{ID: t.size, Vector: vector}
	t.size++
	t.prepared = false
	if t.root == nil {
		node := NewNode(point, 0, t.base)
		t.root = &node
		return point.ID
	}
	t.insert(t.root, point, t.root.level)
	return point.ID
}

func (t *Tree) insert(node *Node, point *Point, level int32) {
	for {
		baseLevel := float32(math.Pow(float64(t.base), float64(level)))
		distance := t.distanceFunc(point, node.point)
		if distance < baseLevel {
			inserted := false
			for i := range node.children {
				child := &node.children[i]
				if t.distanceFunc(point, child.point) < baseLevel {
					node = child
					level--
					inserted = true
					break
				}
			}
			if !inserted {
				node.children = append(node.children, NewNode(point, level-1, t.base))
				return
			}
		} else {
			level++
			if level > node.level {
				newRoot := NewNode(point, level, t.base)
				newRoot.children = append(newRoot.children, *t.root)
				t.root = &newRoot
				return
			}
		}
	}
}

// Prepare computes the subtree radii used for pruning. Searches call it
// lazily; calling it after the last insert keeps searches lock-free of writes.
func (t *Tree) Prepare() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prepare()
}

func (t *Tree) prepare() {
	if t.prepared || t.root == nil {
		return
	}
	t.computeRadius(t.root)
	t.prepared = true
}

// computeRadius bounds the distance from n to any descendant.
func (t *Tree) computeRadius(n *Node) float32 {
	maxR := float32(0)
	for i := range n.children {
		child := &n.children[i]
		d := t.distanceFunc(n.point, child.point) + t.computeRadius(child)
		if d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	return maxR
}

// KNearestNeighbors runs a depth-first kNN search and returns neighbours
// ordered by ascending distance, then identifier.
func (t *Tree) KNearestNeighbors(vector []float32, k int) []Neighbor {
	t.mu.RLock()
	if !t.prepared {
		t.mu.RUnlock()
		t.Prepare()
		t.mu.RLock()
	}
	defer t.mu.RUnlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	point := &Point{ID: -1, Vector: vector}
	h := &Neighbors{}
	t.kNearestNeighbors(t.root, point, k, h)
	result := make([]Neighbor, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Neighbor)
	}
	return result
}

func (t *Tree) kNearestNeighbors(node *Node, point *Point, k int, h *Neighbors) {
	candidate := Neighbor{Point: node.point, Distance: t.distanceFunc(point, node.point)}
	if h.Len() < k {
		heap.Push(h, candidate)
	} else if further((*h)[0], candidate) {
		(*h)[0] = candidate
		heap.Fix(h, 0)
	}
	if len(node.children) == 0 {
		return
	}
	type childDist struct {
		child *Node
		dist  float32
	}
	cds := make([]childDist, 0, len(node.children))
	for i := range node.children {
		child := &node.children[i]
		cds = append(cds, childDist{child: child, dist: t.distanceFunc(point, child.point)})
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].dist < cds[j].dist })
	for _, cd := range cds {
		// Strict comparison keeps subtrees that may hold a tie with a lower id.
		if h.Len() == k && cd.dist-cd.child.radius > (*h)[0].Distance {
			continue
		}
		t.kNearestNeighbors(cd.child, point, k, h)
	}
}
