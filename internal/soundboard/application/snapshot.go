package application

import "github.com/zjrosen/soundpad/internal/soundboard/domain"

// Snapshot is an immutable view of the board for rendering.
type Snapshot struct {
	Entries []Entry
	// Playing is the sound currently playing, "" when idle.
	Playing string
}

// Entry is one rendered sound button.
type Entry struct {
	Name      string
	Slot      int
	Partition domain.Partition
	Label     string
	Hotkey    string
	Size      int
	MIME      string
	Playing   bool
}

// Base returns the entries in the base partition.
func (s Snapshot) Base() []Entry {
	return s.partition(domain.PartitionBase)
}

// Custom returns the entries in the custom partition.
func (s Snapshot) Custom() []Entry {
	return s.partition(domain.PartitionCustom)
}

func (s Snapshot) partition(p domain.Partition) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Partition == p {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry named name.
func (s Snapshot) Find(name string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of sounds.
func (s Snapshot) Len() int {
	return len(s.Entries)
}
