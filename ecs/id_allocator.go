package ecs

import "container/heap"

// idHeap is a min-heap of released ids.
type idHeap []EntityID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(EntityID))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	id := old[n-1]
	*h = old[:n-1]
	return id
}

// IDAllocator issues entity ids. Acquire always returns the smallest id that
// is not currently allocated, which keeps ids low and dense over the lifetime
// of a world.
type IDAllocator struct {
	free idHeap
	next EntityID
}

// NewIDAllocator creates an allocator whose first id is 0.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		free: make(idHeap, 0, 64),
	}
}

// Acquire returns the smallest free id.
func (a *IDAllocator) Acquire() EntityID {
	if len(a.free) > 0 {
		return heap.Pop(&a.free).(EntityID)
	}
	id := a.next
	a.next++
	return id
}

// Release makes id available for reuse. Callers must only release ids they
// acquired, and only once.
func (a *IDAllocator) Release(id EntityID) {
	heap.Push(&a.free, id)
}

// Len returns the number of ids currently allocated.
func (a *IDAllocator) Len() int {
	return int(a.next) - len(a.free)
}
