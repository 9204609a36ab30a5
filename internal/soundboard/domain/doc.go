// Package domain implements the soundboard's core model.
//
// It holds the ordered sound Collection, the Hotkey registry and the reorder
// engine that keeps the two consistent after a drag-and-drop swap. The package
// knows nothing about storage, audio output or rendering.
//
// # Partitions
//
// The first BaseSlots sounds (by Collection order) form the base partition and
// default to the digit hotkeys 1-9. Every later sound is in the custom
// partition and has no default.
//
// # Reconciliation
//
// The registry holds explicit hotkeys only. A base sound without one is
// labelled with its 1-based slot digit at render time, and that digit plays it,
// so defaults move with the order after a reorder, delete or upload. Reorder,
// State.Delete and State.AddBatch reconcile the registry to drop entries that
// no longer name a sound.
package domain
