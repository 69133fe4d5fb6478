package markdown

import "sort"

// registryEntry is one (name, item, priority) triple held by a Registry.
// seq records registration order so that equal-priority entries can be
// ordered most-recently-registered-first (LIFO tie-break).
type registryEntry[T any] struct {
	name     string
	item     T
	priority float64
	seq      int
}

// Registry is an ordered collection of named, prioritized items. It backs
// every pluggable stage of the pipeline: preprocessors, block processors,
// tree processors, inline patterns, and postprocessors all live in a
// Registry of their respective interface type.
//
// Iteration, indexing, and name lookup all yield items in priority order,
// highest first; entries that share a priority are ordered by most-recent
// registration first. Sorting is lazy: Register and Deregister only mark
// the Registry dirty, and the next read re-sorts if needed.
type Registry[T any] struct {
	entries []registryEntry[T]
	byName  map[string]int // name -> index into entries, valid only when !dirty
	dirty   bool
	nextSeq int
}

// NewRegistry returns an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]int)}
}

// Register adds item under name at the given priority. Re-registering an
// existing name replaces its item and priority, and counts as a fresh
// registration for LIFO tie-breaking purposes.
func (r *Registry[T]) Register(item T, name string, priority float64) {
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.entries = append(r.entries, registryEntry[T]{
		name:     name,
		item:     item,
		priority: priority,
		seq:      r.nextSeq,
	})
	r.nextSeq++
	r.dirty = true
}

// Deregister removes the entry registered under name. If strict is true and
// no such entry exists, it returns a *NotFoundError.
func (r *Registry[T]) Deregister(name string, strict bool) error {
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.dirty = true
			return nil
		}
	}
	if strict {
		return &NotFoundError{Name: name}
	}
	return nil
}

// sortIfDirty performs the stable priority sort described on Registry, then
// rebuilds the name index. It is a no-op when the registry is already clean.
func (r *Registry[T]) sortIfDirty() {
	if !r.dirty {
		return
	}
	sort.SliceStable(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		return a.seq > b.seq
	})
	r.byName = make(map[string]int, len(r.entries))
	for i, e := range r.entries {
		r.byName[e.name] = i
	}
	r.dirty = false
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	r.sortIfDirty()
	return len(r.entries)
}

// At returns the item at the given priority-sorted index (0 = highest
// priority). It panics if index is out of range, mirroring slice indexing.
func (r *Registry[T]) At(index int) T {
	r.sortIfDirty()
	return r.entries[index].item
}

// Contains reports whether name is registered.
func (r *Registry[T]) Contains(name string) bool {
	r.sortIfDirty()
	_, ok := r.byName[name]
	return ok
}

// Get returns the item registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.sortIfDirty()
	i, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, false
	}
	return r.entries[i].item, true
}

// IndexForName returns the priority-sorted position of name, or a
// *NotFoundError if name is not registered.
func (r *Registry[T]) IndexForName(name string) (int, error) {
	r.sortIfDirty()
	i, ok := r.byName[name]
	if !ok {
		return 0, &NotFoundError{Name: name}
	}
	return i, nil
}

// Items returns the registered items in priority order. The pipeline driver
// calls this once at the start of each stage so that a processor which
// mutates the registry mid-stage (e.g. an extension registering a new
// processor during its own run) cannot perturb the current pass.
func (r *Registry[T]) Items() []T {
	r.sortIfDirty()
	items := make([]T, len(r.entries))
	for i, e := range r.entries {
		items[i] = e.item
	}
	return items
}

// Slice returns a new Registry holding the entries in [from, to) of the
// current priority order, preserving their relative order and priorities.
func (r *Registry[T]) Slice(from, to int) *Registry[T] {
	r.sortIfDirty()
	out := NewRegistry[T]()
	slice := r.entries[from:to]
	// Assign descending seq numbers so that re-sorting the new Registry
	// reproduces the same relative (priority desc, most-recent-first) order
	// the slice was read in, rather than reversing same-priority ties.
	for i, e := range slice {
		out.entries = append(out.entries, registryEntry[T]{
			name:     e.name,
			item:     e.item,
			priority: e.priority,
			seq:      len(slice) - i,
		})
	}
	out.nextSeq = len(slice) + 1
	out.dirty = true
	return out
}
