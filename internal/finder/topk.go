package finder

import "container/heap"

// candidate is a file name that scored above the threshold
type candidate struct {
	score int // similarity × scoreScale
	path  string
}

// less orders candidates by score, then path, so equal scores still have a
// total order inside the heap.
func (c candidate) less(o candidate) bool {
	if c.score != o.score {
		return c.score < o.score
	}
	return c.path < o.path
}

type minHeap []candidate

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].less(h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// topK keeps the k best candidates seen so far in O(k) memory
type topK struct {
	k int
	h minHeap
}

func newTopK(k int) *topK {
	return &topK{k: k, h: make(minHeap, 0, k+1)}
}

// offer inserts c and evicts the lowest entry once more than k are held
func (t *topK) offer(c candidate) {
	if t.k <= 0 {
		return
	}
	heap.Push(&t.h, c)
	if t.h.Len() > t.k {
		heap.Pop(&t.h)
	}
}

func (t *topK) len() int { return t.h.Len() }

// drain empties the container and returns paths best first
func (t *topK) drain() []string {
	out := make([]string, t.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.h).(candidate).path
	}
	return out
}
