package domain

// Record is the persisted snapshot of the whole soundboard.
type Record struct {
	Sounds  []Sound
	Hotkeys map[string]string
}

// Entry is one rendered slot.
type Entry struct {
	Name      string
	Slot      int
	Partition Partition
	Label     string
	Hotkey    string // explicit hotkey, "" when none
}

// State is the soundboard: the ordered collection plus its hotkey registry.
type State struct {
	Sounds  *Collection
	Hotkeys Hotkeys
}

// NewState returns an empty soundboard.
func NewState() *State {
	return &State{Sounds: NewCollection(), Hotkeys: Hotkeys{}}
}

// FromRecord rebuilds a State from a persisted record. Sounds with an empty or
// repeated name and hotkeys of unknown sounds are dropped.
func FromRecord(r Record) *State {
	s := NewState()
	for _, snd := range r.Sounds {
		if snd.Name == "" || s.Sounds.Has(snd.Name) {
			continue
		}
		_, _ = s.Sounds.Add(snd.Name, snd.Payload, DuplicateReject)
	}
	for name, k := range r.Hotkeys {
		if k != "" && s.Sounds.Has(name) {
			s.Hotkeys[name] = k
		}
	}
	return s
}

// Record returns the persistable snapshot.
func (s *State) Record() Record {
	return Record{
		Sounds:  s.Sounds.Sounds(),
		Hotkeys: s.Hotkeys.Clone(),
	}
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	return &State{Sounds: s.Sounds.Clone(), Hotkeys: s.Hotkeys.Clone()}
}

// Delete removes a sound and its hotkey, then reconciles.
func (s *State) Delete(name string) bool {
	if !s.Sounds.Remove(name) {
		return false
	}
	s.Hotkeys.Clear(name)
	s.Hotkeys.Reconcile(s.Sounds.Names())
	return true
}

// AddBatch appends sounds in order and reconciles. On error the State may be
// partially modified; callers apply batches to a Clone.
func (s *State) AddBatch(sounds []Sound, policy DuplicatePolicy) ([]string, error) {
	names := make([]string, 0, len(sounds))
	for _, snd := range sounds {
		name, err := s.Sounds.Add(snd.Name, snd.Payload, policy)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	s.Hotkeys.Reconcile(s.Sounds.Names())
	return names, nil
}

// Entries renders every slot in order.
func (s *State) Entries() []Entry {
	out := make([]Entry, 0, s.Sounds.Len())
	slot := 0
	for name := range s.Sounds.Names() {
		k, _ := s.Hotkeys.Get(name)
		out = append(out, Entry{
			Name:      name,
			Slot:      slot,
			Partition: PartitionOf(slot),
			Label:     s.Hotkeys.Label(name, slot),
			Hotkey:    k,
		})
		slot++
	}
	return out
}

// Dispatch resolves a key press to a sound name. Digits 1-9 select the Nth
// sound positionally, whatever the hotkeys say; any other key is matched
// against the registry.
func (s *State) Dispatch(key string) (string, bool) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		name := s.Sounds.At(int(key[0] - '1'))
		return name, name != ""
	}
	return s.Hotkeys.Match(key, s.Sounds.Names())
}
