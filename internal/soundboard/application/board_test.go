package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

type harness struct {
	board  *Board
	store  *memStore
	player *fakePlayer
	fs     afero.Fs
	spans  *tracetest.SpanRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:  &memStore{},
		player: &fakePlayer{},
		fs:     afero.NewMemMapFs(),
		spans:  tracetest.NewSpanRecorder(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	h.board = NewBoard(h.store, h.player, Options{FS: h.fs, Tracer: tp.Tracer("test"), MaxBytes: 1 << 10})
	return h
}

// files writes each name into the in-memory filesystem and returns the paths.
func (h *harness) files(t *testing.T, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := "/sounds/" + n
		require.NoError(t, afero.WriteFile(h.fs, p, []byte("data:"+n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

// seed uploads n sounds named s0..s(n-1) and resets the save counter.
func (h *harness) seed(t *testing.T, n int) {
	t.Helper()
	names := make([]string, n)
	for i := range n {
		names[i] = fmt.Sprintf("s%d.wav", i)
	}
	_, err := h.board.Upload(context.Background(), h.files(t, names...))
	require.NoError(t, err)
	h.store.saves = 0
}

func names(s Snapshot) []string {
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestUpload_AppendsInOrderWithOneSave(t *testing.T) {
	h := newHarness(t)

	got, err := h.board.Upload(context.Background(), h.files(t, "boom.mp3", "click.wav", "tada.ogg"))

	require.NoError(t, err)
	require.Equal(t, []string{"boom", "click", "tada"}, got)
	require.Equal(t, []string{"boom", "click", "tada"}, names(h.board.Snapshot()))
	require.Equal(t, 1, h.store.saveCount())

	snap := h.board.Snapshot()
	require.Equal(t, "audio/mpeg", snap.Entries[0].MIME)
	require.Equal(t, "audio/wav", snap.Entries[1].MIME)
	require.Equal(t, "audio/ogg", snap.Entries[2].MIME)
	require.Equal(t, "[3]", snap.Entries[2].Label)
}

func TestUpload_FailedReadAppliesNothing(t *testing.T) {
	h := newHarness(t)
	paths := append(h.files(t, "boom.mp3"), "/sounds/missing.wav")

	_, err := h.board.Upload(context.Background(), paths)

	require.Error(t, err)
	require.Zero(t, h.board.Snapshot().Len())
	require.Zero(t, h.store.saveCount())
}

func TestUpload_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness) []string
	}{
		{"hidden file has an empty name", func(t *testing.T, h *harness) []string {
			return h.files(t, "boom.mp3", ".hidden")
		}},
		{"file over the size limit", func(t *testing.T, h *harness) []string {
			require.NoError(t, afero.WriteFile(h.fs, "/big.wav", make([]byte, 2<<10), 0o644))
			return []string{"/big.wav"}
		}},
		{"directory", func(t *testing.T, h *harness) []string {
			require.NoError(t, h.fs.MkdirAll("/dir.wav", 0o755))
			return []string{"/dir.wav"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.board.Upload(context.Background(), tt.setup(t, h))

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Zero(t, h.board.Snapshot().Len())
			require.Zero(t, h.store.saveCount())
		})
	}
}

func TestUpload_DuplicatePolicies(t *testing.T) {
	t.Run("suffix", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.board.Upload(context.Background(), h.files(t, "boom.mp3"))
		require.NoError(t, err)

		got, err := h.board.Upload(context.Background(), h.files(t, "boom.wav"))
		require.NoError(t, err)
		require.Equal(t, []string{"boom-2"}, got)
	})

	t.Run("reject", func(t *testing.T) {
		h := newHarness(t)
		h.board.opts.Duplicates = domain.DuplicateReject
		_, err := h.board.Upload(context.Background(), h.files(t, "boom.mp3"))
		require.NoError(t, err)

		_, err = h.board.Upload(context.Background(), h.files(t, "tada.ogg", "boom.wav"))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, []string{"boom"}, names(h.board.Snapshot()))
	})

	t.Run("replace", func(t *testing.T) {
		h := newHarness(t)
		h.board.opts.Duplicates = domain.DuplicateReplace
		_, err := h.board.Upload(context.Background(), h.files(t, "boom.mp3", "tada.ogg"))
		require.NoError(t, err)

		_, err = h.board.Upload(context.Background(), h.files(t, "boom.wav"))
		require.NoError(t, err)
		snap := h.board.Snapshot()
		require.Equal(t, []string{"boom", "tada"}, names(snap))
		require.Equal(t, "audio/wav", snap.Entries[0].MIME)
	})
}

func TestUpload_Empty(t *testing.T) {
	h := newHarness(t)

	got, err := h.board.Upload(context.Background(), nil)

	require.NoError(t, err)
	require.Nil(t, got)
	require.Zero(t, h.store.saveCount())
}

func TestDelete_RemovesSoundAndHotkeyWithOneSave(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 3)
	ctx := context.Background()
	require.NoError(t, h.board.Assign(ctx, "s1", "q"))
	h.store.saves = 0

	require.NoError(t, h.board.Delete(ctx, "s1"))

	require.Equal(t, []string{"s0", "s2"}, names(h.board.Snapshot()))
	_, ok := h.board.Hotkeys()["s1"]
	require.False(t, ok)
	require.Equal(t, 1, h.store.saveCount())
}

// requireDigitLabelsPlay checks that base labels [1]..[n] are unique and that
// pressing digit n plays the sound labelled [n].
func requireDigitLabelsPlay(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()
	seen := map[string]string{}
	for _, e := range h.board.Snapshot().Base() {
		prev, dup := seen[e.Label]
		require.False(t, dup, "label %s on both %s and %s", e.Label, prev, e.Name)
		seen[e.Label] = e.Name
	}
	for n := 1; n <= len(seen); n++ {
		label := fmt.Sprintf("[%d]", n)
		want, ok := seen[label]
		require.True(t, ok, "no sound labelled %s", label)
		got, err := h.board.Dispatch(ctx, fmt.Sprint(n))
		require.NoError(t, err)
		require.Equal(t, want, got, "digit %d", n)
		h.board.Stop()
	}
}

func TestDelete_FirstOfTenKeepsDigitLabelsPositional(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 10)

	require.NoError(t, h.board.Delete(context.Background(), "s0"))

	snap := h.board.Snapshot()
	require.Len(t, snap.Base(), 9)
	require.Empty(t, snap.Custom())
	require.Equal(t, "s9", snap.Base()[8].Name)
	require.Empty(t, h.board.Hotkeys())
	requireDigitLabelsPlay(t, h)
}

func TestDelete_MiddleSoundKeepsExplicitHotkeys(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 5)
	ctx := context.Background()
	require.NoError(t, h.board.Assign(ctx, "s4", "z"))

	require.NoError(t, h.board.Delete(ctx, "s1"))

	require.Equal(t, map[string]string{"s4": "Z"}, h.board.Hotkeys())
	labels := make([]string, 0, 4)
	for _, e := range h.board.Snapshot().Entries {
		labels = append(labels, e.Label)
	}
	require.Equal(t, []string{"[1]", "[2]", "[3]", "[Z]"}, labels)
}

func TestDelete_StopsPlayingSound(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)
	ctx := context.Background()
	_, err := h.board.Toggle(ctx, "s0")
	require.NoError(t, err)

	require.NoError(t, h.board.Delete(ctx, "s0"))

	require.Equal(t, sound.Idle, h.player.State())
}

func TestDelete_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.board.Delete(context.Background(), "ghost")

	var nf *domain.SoundNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Zero(t, h.store.saveCount())
}

func TestFailedSaveLeavesMemoryUntouched(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 3)
	ctx := context.Background()
	before := h.board.Snapshot()
	h.store.saveErr = errDiskFull

	_, err := h.board.Reorder(ctx, "s0", "s2")
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)

	require.Error(t, h.board.Delete(ctx, "s1"))
	require.Error(t, h.board.Assign(ctx, "s1", "z"))
	_, err = h.board.Upload(ctx, h.files(t, "new.wav"))
	require.Error(t, err)

	require.Equal(t, before, h.board.Snapshot())

	var failed int
	for _, s := range h.spans.Ended() {
		if s.Status().Code == codes.Error {
			failed++
		}
	}
	require.Equal(t, 4, failed)
}

func TestAssign(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 10)
	ctx := context.Background()

	require.NoError(t, h.board.Assign(ctx, "s9", "k"))
	e, _ := h.board.Snapshot().Find("s9")
	require.Equal(t, "[K]", e.Label)
	require.Equal(t, 1, h.store.saveCount())

	require.NoError(t, h.board.Assign(ctx, "s9", "K"), "same key again")
	require.Equal(t, 1, h.store.saveCount(), "no change, no save")

	err := h.board.Assign(ctx, "s9", "ab")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "please enter a single letter or digit", verr.Message)
	e, _ = h.board.Snapshot().Find("s9")
	require.Equal(t, "[K]", e.Label)

	var nf *domain.SoundNotFoundError
	require.ErrorAs(t, h.board.Assign(ctx, "ghost", "g"), &nf)
}

func TestClearHotkey(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 10)
	ctx := context.Background()
	require.NoError(t, h.board.Assign(ctx, "s9", "k"))
	require.NoError(t, h.board.Assign(ctx, "s2", "x"))

	require.NoError(t, h.board.ClearHotkey(ctx, "s9"))
	require.NoError(t, h.board.ClearHotkey(ctx, "s2"))

	snap := h.board.Snapshot()
	e, _ := snap.Find("s9")
	require.Equal(t, domain.PlaceholderLabel, e.Label)
	e, _ = snap.Find("s2")
	require.Equal(t, "[3]", e.Label, "base sound falls back to its slot digit")
}

func TestEditHotkey(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 10)
	ctx := context.Background()
	ptr := func(s string) *string { return &s }

	changed, err := h.board.EditHotkey(ctx, "s9", nil)
	require.NoError(t, err)
	require.False(t, changed)
	require.Zero(t, h.store.saveCount())

	changed, err = h.board.EditHotkey(ctx, "s9", ptr("m"))
	require.NoError(t, err)
	require.True(t, changed)

	_, err = h.board.EditHotkey(ctx, "s9", ptr("mm"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Message, "leave the field empty")

	changed, err = h.board.EditHotkey(ctx, "s9", ptr(""))
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 2, h.store.saveCount())
}

func TestApplyHotkeys(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 11)
	ctx := context.Background()

	changed, err := h.board.ApplyHotkeys(ctx, map[string]string{"s9": "a", "s10": "b", "s0": ""})
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, h.store.saveCount())

	hk := h.board.Hotkeys()
	require.Equal(t, "A", hk["s9"])
	require.Equal(t, "B", hk["s10"])
	_, ok := hk["s0"]
	require.False(t, ok)
	e, _ := h.board.Snapshot().Find("s0")
	require.Equal(t, "[1]", e.Label, "cleared base sound falls back to its slot digit")

	_, err = h.board.ApplyHotkeys(ctx, map[string]string{"s9": "z", "s10": "too long"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "A", h.board.Hotkeys()["s9"], "sheet is all or nothing")

	_, err = h.board.ApplyHotkeys(ctx, map[string]string{"ghost": "g"})
	var nf *domain.SoundNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestReorder(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 3)
	ctx := context.Background()

	changed, err := h.board.Reorder(ctx, "s0", "s2")
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, []string{"s2", "s1", "s0"}, names(h.board.Snapshot()))
	require.Equal(t, 1, h.store.saveCount())
	requireDigitLabelsPlay(t, h)

	for _, tc := range [][2]string{{"s1", "s1"}, {"s1", "ghost"}} {
		changed, err := h.board.Reorder(ctx, tc[0], tc[1])
		require.NoError(t, err)
		require.False(t, changed)
	}
	require.Equal(t, 1, h.store.saveCount(), "no-op reorders do not persist")
}

func TestReorder_BaseIntoCustomBackfillsDefaults(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 10)

	_, err := h.board.Reorder(context.Background(), "s0", "s9")
	require.NoError(t, err)

	snap := h.board.Snapshot()
	require.Equal(t, "s9", snap.Base()[0].Name)
	require.Equal(t, "[1]", snap.Base()[0].Label)
	require.Equal(t, []string{"s0"}, names(Snapshot{Entries: snap.Custom()}))
	require.Equal(t, domain.PlaceholderLabel, snap.Custom()[0].Label)
	requireDigitLabelsPlay(t, h)
}

func TestToggleAndStop(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)
	ctx := context.Background()

	st, err := h.board.Toggle(ctx, "s0")
	require.NoError(t, err)
	require.Equal(t, sound.Playing("s0"), st)

	snap := h.board.Snapshot()
	require.Equal(t, "s0", snap.Playing)
	require.True(t, snap.Entries[0].Playing)
	require.False(t, snap.Entries[1].Playing)

	h.board.Stop()
	require.Empty(t, h.board.Snapshot().Playing)

	_, err = h.board.Toggle(ctx, "ghost")
	var nf *domain.SoundNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDispatch(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)
	ctx := context.Background()
	require.NoError(t, h.board.Assign(ctx, "s1", "q"))

	name, err := h.board.Dispatch(ctx, "3")
	require.NoError(t, err)
	require.Empty(t, name, "digit past the last sound is a no-op")
	require.Empty(t, h.player.toggles)

	name, err = h.board.Dispatch(ctx, "q")
	require.NoError(t, err)
	require.Equal(t, "s1", name)

	name, err = h.board.Dispatch(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "s0", name)

	name, err = h.board.Dispatch(ctx, "ctrl+a")
	require.NoError(t, err)
	require.Empty(t, name)

	require.Equal(t, []string{"s1", "s0"}, h.player.toggles)
}

func TestLoad(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 3)
	ctx := context.Background()
	require.NoError(t, h.board.Assign(ctx, "s2", "z"))

	fresh := NewBoard(h.store, &fakePlayer{}, Options{})
	require.NoError(t, fresh.Load(ctx))

	require.Equal(t, h.board.Snapshot(), fresh.Snapshot())
}

func TestLoad_EmptyStore(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.board.Load(context.Background()))
	require.Zero(t, h.board.Snapshot().Len())
}

func TestLoad_Error(t *testing.T) {
	h := newHarness(t)
	h.store.loadErr = errDiskFull

	err := h.board.Load(context.Background())

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	require.ErrorIs(t, err, errDiskFull)
}

func TestReload(t *testing.T) {
	h := newHarness(t)
	h.seed(t, 2)
	ctx := context.Background()

	changed, err := h.board.Reload(ctx)
	require.NoError(t, err)
	require.False(t, changed, "own writes are not a change")

	_, err = h.board.Toggle(ctx, "s1")
	require.NoError(t, err)

	// Another process deletes s1.
	other := NewBoard(h.store, &fakePlayer{}, Options{})
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.Delete(ctx, "s1"))

	changed, err = h.board.Reload(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, []string{"s0"}, names(h.board.Snapshot()))
	require.Equal(t, sound.Idle, h.player.State(), "removed sound stops playing")
}
