package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func labels(s *State) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Label)
	}
	return out
}

func TestEntries_NineBaseSoundsWithoutHotkeys(t *testing.T) {
	s := newBoard(t, 9, nil)

	require.Equal(t, []string{"[1]", "[2]", "[3]", "[4]", "[5]", "[6]", "[7]", "[8]", "[9]"}, labels(s))
	for _, e := range s.Entries() {
		require.Equal(t, PartitionBase, e.Partition)
		require.Empty(t, e.Hotkey)
	}
}

func TestEntries_DefaultFollowsOrder(t *testing.T) {
	s := newBoard(t, 3, nil)
	s.Sounds.Swap(0, 2)

	entries := s.Entries()
	require.Equal(t, "s2", entries[0].Name)
	require.Equal(t, "[1]", entries[0].Label)
	require.Equal(t, "s0", entries[2].Name)
	require.Equal(t, "[3]", entries[2].Label)
}

func TestEntries_CustomPlaceholder(t *testing.T) {
	s := newBoard(t, 11, map[string]string{"s10": "K"})

	entries := s.Entries()
	require.Equal(t, PartitionCustom, entries[9].Partition)
	require.Equal(t, PlaceholderLabel, entries[9].Label)
	require.Equal(t, "[K]", entries[10].Label)
}

func TestAddBatch_AppendsAndReconciles(t *testing.T) {
	s := newBoard(t, 1, nil)

	names, err := s.AddBatch([]Sound{
		{Name: "boom", Payload: payload("b")},
		{Name: "click", Payload: payload("c")},
		{Name: "tada", Payload: payload("t")},
	}, DuplicateSuffix)

	require.NoError(t, err)
	require.Equal(t, []string{"boom", "click", "tada"}, names)
	require.Equal(t, []string{"s0", "boom", "click", "tada"}, order(s))
	require.Equal(t, []string{"[1]", "[2]", "[3]", "[4]"}, labels(s))
	require.Empty(t, s.Hotkeys, "slot digits are derived, not stored")
}

func TestAddBatch_RejectStopsBatch(t *testing.T) {
	s := newBoard(t, 1, nil)
	work := s.Clone()

	_, err := work.AddBatch([]Sound{{Name: "boom"}, {Name: "s0"}}, DuplicateReject)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"s0"}, order(s), "original untouched")
}

func TestDelete_RemovesHotkey(t *testing.T) {
	s := newBoard(t, 3, map[string]string{"s1": "Q"})

	require.True(t, s.Delete("s1"))
	require.False(t, s.Delete("s1"))

	require.Equal(t, []string{"s0", "s2"}, order(s))
	_, ok := s.Hotkeys["s1"]
	require.False(t, ok)
}

func TestDelete_PromotesCustomSoundIntoBase(t *testing.T) {
	s := newBoard(t, 10, nil)

	require.True(t, s.Delete("s0"))

	entries := s.Entries()
	require.Equal(t, "s9", entries[8].Name)
	require.Equal(t, PartitionBase, entries[8].Partition)
	require.Equal(t, "[9]", entries[8].Label, "former custom sound takes its new slot digit")
}

func TestDelete_FirstSoundShiftsDigitLabels(t *testing.T) {
	s := newBoard(t, 10, nil)

	require.True(t, s.Delete("s0"))

	require.Equal(t, []string{"[1]", "[2]", "[3]", "[4]", "[5]", "[6]", "[7]", "[8]", "[9]"}, labels(s))
	requireDigitsMatchLabels(t, s)
}

func TestDelete_KeepsExplicitHotkeys(t *testing.T) {
	s := newBoard(t, 4, map[string]string{"s2": "Q", "s3": "7"})

	require.True(t, s.Delete("s0"))

	require.Equal(t, Hotkeys{"s2": "Q", "s3": "7"}, s.Hotkeys)
	require.Equal(t, []string{"[1]", "[Q]", "[7]"}, labels(s))
}

type helperT interface {
	require.TestingT
	Helper()
}

// requireDigitsMatchLabels checks that every base sound without an explicit
// hotkey is labelled with its slot digit and is the sound that digit plays.
func requireDigitsMatchLabels(t helperT, s *State) {
	t.Helper()
	for _, e := range s.Entries() {
		if e.Partition != PartitionBase || e.Hotkey != "" {
			continue
		}
		want := fmt.Sprintf("[%d]", e.Slot+1)
		require.Equal(t, want, e.Label, "label of %s", e.Name)
		got, ok := s.Dispatch(fmt.Sprint(e.Slot + 1))
		require.True(t, ok)
		require.Equal(t, e.Name, got, "digit %d", e.Slot+1)
	}
}

// TestState_Property_DefaultLabelsFollowSlots runs random uploads, deletes,
// reorders and hotkey edits and checks that default digit labels always agree
// with the slot and with positional digit dispatch.
func TestState_Property_DefaultLabelsFollowSlots(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewState()
		next := 0
		pick := func(label string) string {
			if s.Sounds.Len() == 0 {
				return "ghost"
			}
			return s.Sounds.At(rapid.IntRange(0, s.Sounds.Len()-1).Draw(t, label))
		}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := range steps {
			switch rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("op-%d", i)) {
			case 0:
				n := rapid.IntRange(1, 5).Draw(t, "batch")
				batch := make([]Sound, n)
				for j := range batch {
					batch[j] = Sound{Name: fmt.Sprintf("n%d", next), Payload: payload("x")}
					next++
				}
				if _, err := s.AddBatch(batch, DuplicateSuffix); err != nil {
					t.Fatalf("add: %v", err)
				}
			case 1:
				s.Delete(pick("delete"))
			case 2:
				Reorder(s, pick("source"), pick("target"))
			case 3:
				if s.Sounds.Len() == 0 {
					continue
				}
				key := rapid.SampledFrom([]string{"a", "q", ""}).Draw(t, "key")
				_, _ = s.Hotkeys.Edit(pick("edit"), &key)
			}
		}

		requireDigitsMatchLabels(t, s)
		for name, k := range s.Hotkeys {
			if k == "" || !s.Sounds.Has(name) {
				t.Fatalf("stale entry %q: %q", name, k)
			}
		}
	})
}

func TestDispatch(t *testing.T) {
	s := newBoard(t, 2, map[string]string{"s0": "Q", "s1": "1"})

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"1", "s0", true},
		{"2", "s1", true},
		{"3", "", false},
		{"q", "s0", true},
		{"Q", "s0", true},
		{"w", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := s.Dispatch(tt.key)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := newBoard(t, 12, map[string]string{"s3": "X", "s11": "Y"})

	restored := FromRecord(s.Record())

	require.Equal(t, order(s), order(restored))
	require.Equal(t, s.Hotkeys, restored.Hotkeys)
	for i := range 12 {
		name := fmt.Sprintf("s%d", i)
		want, _ := s.Sounds.Payload(name)
		got, _ := restored.Sounds.Payload(name)
		require.Equal(t, want, got)
	}
}

func TestFromRecord_DropsInvalidEntries(t *testing.T) {
	r := Record{
		Sounds: []Sound{
			{Name: "a", Payload: payload("1")},
			{Name: "", Payload: payload("2")},
			{Name: "a", Payload: payload("3")},
		},
		Hotkeys: map[string]string{"a": "Q", "ghost": "Z", "b": ""},
	}

	s := FromRecord(r)

	require.Equal(t, []string{"a"}, order(s))
	require.Equal(t, Hotkeys{"a": "Q"}, s.Hotkeys)
	p, _ := s.Sounds.Payload("a")
	require.Equal(t, "1", string(p.Data))
}
