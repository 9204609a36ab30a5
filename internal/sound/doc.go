// Package sound plays sound payloads, one at a time.
//
// Player holds the Idle/Playing state machine. The actual audio comes from a
// Backend: ExecBackend hands a temp file to an OS-native player command, and
// NullBackend plays silence for muted sessions and tests.
package sound
