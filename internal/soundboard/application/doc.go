// Package application hosts Board, the one soundboard service per process.
//
// Board owns the in-memory state and talks to persistence and playback through
// the ports in ports.go. Every mutation is applied to a clone of the state,
// saved, and only then swapped in, so a failed save leaves memory as it was.
// A mutex serialises Board calls that arrive from concurrent tea.Cmds or
// the store watcher.
package application
