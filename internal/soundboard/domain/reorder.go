package domain

// Reorder swaps source and target in the collection and exchanges their
// hotkeys, then reconciles the registry. It reports whether anything changed;
// dropping a sound onto itself or naming an unknown sound is a no-op.
//
// Hotkeys follow slots:
//   - both sounds end up in the same partition: their entries are exchanged.
//   - they end up in different partitions: the sound now in base takes over the
//     entry of the sound it displaced, and the sound now in custom loses its
//     entry.
func Reorder(s *State, source, target string) bool {
	if source == target {
		return false
	}
	si, ok := s.Sounds.Index(source)
	if !ok {
		return false
	}
	ti, ok := s.Sounds.Index(target)
	if !ok {
		return false
	}

	srcKey, srcHas := s.Hotkeys.Get(source)
	tgtKey, tgtHas := s.Hotkeys.Get(target)

	s.Sounds.Swap(si, ti)

	// source now sits at ti, target at si.
	srcPart, tgtPart := PartitionOf(ti), PartitionOf(si)
	switch {
	case srcPart == tgtPart:
		s.Hotkeys.set(source, tgtKey, tgtHas)
		s.Hotkeys.set(target, srcKey, srcHas)
	case srcPart == PartitionBase:
		s.Hotkeys.set(source, tgtKey, tgtHas)
		s.Hotkeys.Clear(target)
	default:
		s.Hotkeys.set(target, srcKey, srcHas)
		s.Hotkeys.Clear(source)
	}

	s.Hotkeys.Reconcile(s.Sounds.Names())
	return true
}
