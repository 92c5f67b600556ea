package frontier

import (
	"errors"
	"sync"
)

var errInvalidCapacity = errors.New("frontier capacity must be greater than 0")

// Item is a pending crawl target and the depth it was discovered at.
type Item struct {
	URL   string
	Depth int
}

// Frontier is a capacity-bounded FIFO queue of crawl items.
// Enqueue never blocks: items offered while the queue is full are dropped.
type Frontier struct {
	mu       sync.Mutex
	capacity int
	items    []Item
	head     int
}

// New creates an empty Frontier holding at most capacity items.
func New(capacity int) (*Frontier, error) {
	if capacity <= 0 {
		return nil, errInvalidCapacity
	}

	return &Frontier{
		capacity: capacity,
		items:    make([]Item, 0, capacity),
	}, nil
}

// Enqueue appends item and reports whether it was accepted.
func (f *Frontier) Enqueue(item Item) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sizeLocked() >= f.capacity {
		return false
	}

	if f.head > 0 && len(f.items) == cap(f.items) {
		f.compactLocked()
	}

	f.items = append(f.items, item)

	return true
}

// Dequeue removes and returns the oldest item.
// The boolean is false when the frontier is empty.
func (f *Frontier) Dequeue() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sizeLocked() == 0 {
		return Item{}, false
	}

	item := f.items[f.head]
	f.items[f.head] = Item{}
	f.head++

	if f.head == len(f.items) {
		f.items = f.items[:0]
		f.head = 0
	}

	return item, true
}

// IsEmpty reports whether no items are pending.
func (f *Frontier) IsEmpty() bool {
	return f.Size() == 0
}

// Size returns the number of pending items.
func (f *Frontier) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sizeLocked()
}

// Capacity returns the fixed maximum size.
func (f *Frontier) Capacity() int {
	return f.capacity
}

func (f *Frontier) sizeLocked() int {
	return len(f.items) - f.head
}

func (f *Frontier) compactLocked() {
	n := copy(f.items, f.items[f.head:])
	for i := n; i < len(f.items); i++ {
		f.items[i] = Item{}
	}

	f.items = f.items[:n]
	f.head = 0
}
