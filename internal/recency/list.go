// Package recency maintains the most- to least-recently-used ordering of
// live cache keys.
//
// The list is a sentinel-headed doubly linked list laid out as an arena of
// slots addressed by stable integer handles. Links are slot indices, never
// pointers, so removing an element invalidates a handle instead of leaving
// a dangling reference, and freed slots are recycled through a free list.
//
// The list performs no locking of its own. All structural mutations must be
// serialized by the caller behind a single exclusive section.
package recency

// Handle addresses a slot in the arena. A Handle stays valid from the
// PushFront that produced it until the Remove (or RemoveTail) that frees
// the slot. The zero Handle is never returned for an element.
type Handle int32

// None is the zero Handle. It doubles as the sentinel slot index.
const None Handle = 0

type slot[K comparable] struct {
	key        K
	prev, next Handle
}

// List orders keys from most recently used (front) to least recently used
// (back). The zero value is not usable; construct with New.
type List[K comparable] struct {
	slots []slot[K]
	free  []Handle
	size  int
}

// New returns an empty list. The arena pre-allocates room for sizeHint
// elements plus the sentinel.
func New[K comparable](sizeHint int) *List[K] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	l := &List[K]{slots: make([]slot[K], 1, sizeHint+1)}
	// Sentinel links to itself; slot 0 is never handed out.
	l.slots[0].prev = None
	l.slots[0].next = None
	return l
}

// Len returns the number of elements in the list.
func (l *List[K]) Len() int {
	return l.size
}

// PushFront inserts key at the front (most recently used position) and
// returns the handle of the new element.
func (l *List[K]) PushFront(key K) Handle {
	h := l.alloc(key)
	l.link(h, None, l.slots[None].next)
	l.size++
	return h
}

// MoveToFront relocates the element at h to the front. h must be live.
func (l *List[K]) MoveToFront(h Handle) {
	if l.slots[None].next == h {
		return
	}
	l.unlink(h)
	l.link(h, None, l.slots[None].next)
}

// Remove unlinks the element at h, frees its slot, and returns its key.
// h must be live.
func (l *List[K]) Remove(h Handle) K {
	key := l.slots[h].key
	l.unlink(h)
	l.release(h)
	l.size--
	return key
}

// Tail returns the handle of the least recently used element without
// removing it.
func (l *List[K]) Tail() (Handle, bool) {
	t := l.slots[None].prev
	if t == None {
		return None, false
	}
	return t, true
}

// RemoveTail evicts the least recently used element and returns its key.
func (l *List[K]) RemoveTail() (K, bool) {
	t, ok := l.Tail()
	if !ok {
		var zero K
		return zero, false
	}
	return l.Remove(t), true
}

// Key returns the key stored at h. h must be live.
func (l *List[K]) Key(h Handle) K {
	return l.slots[h].key
}

// Keys returns the keys in most- to least-recently-used order.
func (l *List[K]) Keys() []K {
	keys := make([]K, 0, l.size)
	for h := l.slots[None].next; h != None; h = l.slots[h].next {
		keys = append(keys, l.slots[h].key)
	}
	return keys
}

// Reset drops every element. Outstanding handles become invalid.
func (l *List[K]) Reset() {
	l.slots = l.slots[:1]
	l.slots[None].prev = None
	l.slots[None].next = None
	l.free = l.free[:0]
	l.size = 0
}

func (l *List[K]) alloc(key K) Handle {
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		l.slots[h] = slot[K]{key: key}
		return h
	}
	l.slots = append(l.slots, slot[K]{key: key})
	return Handle(len(l.slots) - 1)
}

func (l *List[K]) release(h Handle) {
	var zero K
	l.slots[h] = slot[K]{key: zero}
	l.free = append(l.free, h)
}

// link splices h between prev and next.
func (l *List[K]) link(h, prev, next Handle) {
	l.slots[h].prev = prev
	l.slots[h].next = next
	l.slots[prev].next = h
	l.slots[next].prev = h
}

func (l *List[K]) unlink(h Handle) {
	prev, next := l.slots[h].prev, l.slots[h].next
	l.slots[prev].next = next
	l.slots[next].prev = prev
}
