package domain

import (
	"iter"
	"sync"
)

// Collection is the ordered set of elements shown to the user. Insertion
// order drives row order. Every mutation re-runs the duplicate pass under
// the same lock, so readers never observe a half-updated state. Rows never
// leave the lock: every read hands out a detached copy, and copies keep
// the row identity used by IndexOf and Remove.
type Collection struct {
	mu       sync.RWMutex
	elements []*Element
	nextID   uint64
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends an element and re-runs duplicate detection. The collection
// takes ownership of e; the returned copy is its state after the pass.
func (c *Collection) Add(e *Element) *Element {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	e.id = c.nextID
	c.elements = append(c.elements, e)
	c.markDuplicates()
	return e.Clone()
}

// Remove removes the row of e, or of a copy of it, and re-runs duplicate
// detection, which may promote a later element with the same name.
func (c *Collection) Remove(e *Element) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(e)
	if idx < 0 {
		return ErrElementNotFound
	}
	c.removeAt(idx)
	return nil
}

// RemoveAt removes the element at row.
func (c *Collection) RemoveAt(row int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if row < 0 || row >= len(c.elements) {
		return ErrRowOutOfRange
	}
	c.removeAt(row)
	return nil
}

func (c *Collection) removeAt(idx int) {
	c.elements = append(c.elements[:idx], c.elements[idx+1:]...)
	c.markDuplicates()
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = nil
}

// Len returns the number of rows.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.elements)
}

// Get returns a copy of the element at row, or nil when out of range.
func (c *Collection) Get(row int) *Element {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if row < 0 || row >= len(c.elements) {
		return nil
	}
	return c.elements[row].Clone()
}

// IndexOf returns the row of e or of any copy of it, or -1.
func (c *Collection) IndexOf(e *Element) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(e)
}

func (c *Collection) indexOf(e *Element) int {
	if e == nil || e.id == 0 {
		return -1
	}
	for i, el := range c.elements {
		if el.id == e.id {
			return i
		}
	}
	return -1
}

// All iterates over copies of the elements in insertion order. Each call
// walks a fresh snapshot taken when iteration starts.
func (c *Collection) All() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for _, e := range c.Snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

// Snapshot returns detached copies of every element.
func (c *Collection) Snapshot() []*Element {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Element, 0, len(c.elements))
	for _, e := range c.elements {
		out = append(out, e.Clone())
	}
	return out
}

// Enabled returns detached copies of the enabled elements, the input of a
// conversion batch.
func (c *Collection) Enabled() []*Element {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Element
	for _, e := range c.elements {
		if e.enabled {
			out = append(out, e.Clone())
		}
	}
	return out
}

// SetEnabled toggles conversion for a row. Duplicates cannot be edited.
func (c *Collection) SetEnabled(row int, enabled bool) error {
	return c.edit(row, func(e *Element) { e.SetEnabled(enabled) })
}

// SetGamma toggles the color conversion step for a row.
func (c *Collection) SetGamma(row int, gamma bool) error {
	return c.edit(row, func(e *Element) { e.SetGamma(gamma) })
}

// SetOutputName renames the output of a row.
func (c *Collection) SetOutputName(row int, name string) error {
	return c.edit(row, func(e *Element) { e.SetOutputName(name) })
}

func (c *Collection) edit(row int, fn func(*Element)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if row < 0 || row >= len(c.elements) {
		return ErrRowOutOfRange
	}
	e := c.elements[row]
	if e.duplicated {
		return ErrDuplicateElement
	}
	fn(e)
	return nil
}

// markDuplicates keeps the first element of every name and marks the rest
// as duplicated. It depends only on membership and order. Caller holds mu.
func (c *Collection) markDuplicates() {
	seen := make(map[string]bool, len(c.elements))
	for _, e := range c.elements {
		if seen[e.name] {
			e.markDuplicate(true)
			continue
		}
		seen[e.name] = true
		e.markDuplicate(false)
	}
}
