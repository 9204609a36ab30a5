package domain

import (
	"fmt"
	"iter"
	"slices"
)

// DuplicatePolicy decides what Add does when the name is already taken.
type DuplicatePolicy string

// Duplicate policies.
const (
	// DuplicateSuffix keeps both sounds; the newcomer becomes "name-2", "name-3", ...
	DuplicateSuffix DuplicatePolicy = "suffix"
	// DuplicateReplace overwrites the payload and keeps the existing position.
	DuplicateReplace DuplicatePolicy = "replace"
	// DuplicateReject refuses the sound.
	DuplicateReject DuplicatePolicy = "reject"
)

// Collection is an ordered mapping from sound name to payload.
// The zero value is not usable; call NewCollection.
type Collection struct {
	order    []string
	payloads map[string]Payload
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{payloads: make(map[string]Payload)}
}

// Len returns the number of sounds.
func (c *Collection) Len() int {
	return len(c.order)
}

// Has reports whether name is present.
func (c *Collection) Has(name string) bool {
	_, ok := c.payloads[name]
	return ok
}

// Payload returns the payload stored under name.
func (c *Collection) Payload(name string) (Payload, bool) {
	p, ok := c.payloads[name]
	return p, ok
}

// Index returns the zero-based slot of name.
func (c *Collection) Index(name string) (int, bool) {
	i := slices.Index(c.order, name)
	return i, i >= 0
}

// At returns the name in slot i, or "" when i is out of range.
func (c *Collection) At(i int) string {
	if i < 0 || i >= len(c.order) {
		return ""
	}
	return c.order[i]
}

// Names yields sound names in slot order. Each call starts a fresh pass.
func (c *Collection) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range c.order {
			if !yield(name) {
				return
			}
		}
	}
}

// Add inserts a sound at the end, resolving name clashes with policy.
// It returns the name the sound was stored under.
func (c *Collection) Add(name string, p Payload, policy DuplicatePolicy) (string, error) {
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "sound name must not be empty"}
	}
	if !c.Has(name) {
		c.order = append(c.order, name)
		c.payloads[name] = p
		return name, nil
	}

	switch policy {
	case DuplicateReplace:
		c.payloads[name] = p
		return name, nil
	case DuplicateReject:
		return "", &ValidationError{Field: "name", Message: fmt.Sprintf("a sound named %q already exists", name)}
	default:
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s-%d", name, n)
			if !c.Has(candidate) {
				c.order = append(c.order, candidate)
				c.payloads[candidate] = p
				return candidate, nil
			}
		}
	}
}

// Remove deletes name. It reports whether the sound existed.
func (c *Collection) Remove(name string) bool {
	i, ok := c.Index(name)
	if !ok {
		return false
	}
	c.order = slices.Delete(c.order, i, i+1)
	delete(c.payloads, name)
	return true
}

// Partition returns the partition slot i belongs to under the current order.
func (c *Collection) Partition(i int) Partition {
	return PartitionOf(i)
}

// Swap exchanges the sounds in slots i and j.
func (c *Collection) Swap(i, j int) {
	c.order[i], c.order[j] = c.order[j], c.order[i]
}

// Sounds returns the collection as an ordered slice.
func (c *Collection) Sounds() []Sound {
	out := make([]Sound, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Sound{Name: name, Payload: c.payloads[name]})
	}
	return out
}

// Clone returns a copy that shares payload bytes but not structure.
func (c *Collection) Clone() *Collection {
	cp := &Collection{
		order:    slices.Clone(c.order),
		payloads: make(map[string]Payload, len(c.payloads)),
	}
	for k, v := range c.payloads {
		cp.payloads[k] = v
	}
	return cp
}
