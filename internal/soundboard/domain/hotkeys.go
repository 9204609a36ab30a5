package domain

import (
	"iter"
	"maps"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Validation messages shown to the user.
const (
	msgSingleChar      = "please enter a single letter or digit"
	msgSingleCharOrNil = "please enter a single letter or digit, or leave the field empty to remove the hotkey"
)

// PlaceholderLabel is shown for custom sounds without a hotkey.
const PlaceholderLabel = "[?]"

// Hotkeys maps sound names to a single upper-case character.
type Hotkeys map[string]string

// NormalizeHotkey validates input as a single user-perceived character and
// upper-cases it.
func NormalizeHotkey(input string) (string, error) {
	if uniseg.GraphemeClusterCount(input) != 1 {
		return "", &ValidationError{Field: "hotkey", Message: msgSingleChar}
	}
	return strings.ToUpper(input), nil
}

// Get returns the explicit hotkey of name.
func (h Hotkeys) Get(name string) (string, bool) {
	k, ok := h[name]
	return k, ok
}

// Label renders the display label for name sitting in slot.
func (h Hotkeys) Label(name string, slot int) string {
	if k, ok := h[name]; ok && k != "" {
		return "[" + k + "]"
	}
	if slot >= 0 && slot < BaseSlots {
		return "[" + strconv.Itoa(slot+1) + "]"
	}
	return PlaceholderLabel
}

// Assign sets the hotkey of name. The registry is unchanged on error.
func (h Hotkeys) Assign(name, input string) error {
	k, err := NormalizeHotkey(input)
	if err != nil {
		return err
	}
	h[name] = k
	return nil
}

// Clear removes the hotkey of name.
func (h Hotkeys) Clear(name string) {
	delete(h, name)
}

// Edit applies the answer to an edit prompt. A nil input means the prompt was
// cancelled, "" clears the hotkey, and a single character reassigns it.
// It reports whether the registry changed.
func (h Hotkeys) Edit(name string, input *string) (bool, error) {
	if input == nil {
		return false, nil
	}
	if *input == "" {
		_, had := h[name]
		delete(h, name)
		return had, nil
	}
	if _, err := NormalizeHotkey(*input); err != nil {
		return false, &ValidationError{Field: "hotkey", Message: msgSingleCharOrNil}
	}
	prev := h[name]
	if err := h.Assign(name, *input); err != nil {
		return false, err
	}
	return prev != h[name], nil
}

// Reconcile drops empty entries and entries of sounds not in order. Base
// defaults are never stored: Label and State.Dispatch derive them from the
// slot, so they follow every change of order.
func (h Hotkeys) Reconcile(order iter.Seq[string]) {
	h.Prune(order)
	for name, k := range h {
		if k == "" {
			delete(h, name)
		}
	}
}

// Match finds the first sound, in order, whose hotkey equals key after
// upper-casing.
func (h Hotkeys) Match(key string, order iter.Seq[string]) (string, bool) {
	want := strings.ToUpper(key)
	for name := range order {
		if k, ok := h[name]; ok && k == want {
			return name, true
		}
	}
	return "", false
}

// Prune drops entries whose sound is not in order.
func (h Hotkeys) Prune(order iter.Seq[string]) {
	keep := make(map[string]struct{})
	for name := range order {
		keep[name] = struct{}{}
	}
	for name := range h {
		if _, ok := keep[name]; !ok {
			delete(h, name)
		}
	}
}

// Clone returns an independent copy.
func (h Hotkeys) Clone() Hotkeys {
	if h == nil {
		return Hotkeys{}
	}
	return maps.Clone(h)
}

// set stores k when has is true and deletes the entry otherwise.
func (h Hotkeys) set(name, k string, has bool) {
	if has {
		h[name] = k
		return
	}
	delete(h, name)
}
