// Package routing implements the shortest-path search shared by the
// congestion mapper (C5, weighted by length) and the query router (C9,
// weighted by itime). Reuses the teacher's concrete min-heap design
// (pkg/routing/dijkstra.go) to avoid the interface-boxing overhead of
// container/heap, generalized from uint32 to float64 distances since
// itime is a continuous cost, not an integer edge weight.
package routing

import "math"

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist float64
}

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
type MinHeap struct {
	items []PQItem
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
