package application

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

const tracerName = "github.com/zjrosen/soundpad/internal/soundboard/application"

// Options configures a Board.
type Options struct {
	Duplicates domain.DuplicatePolicy
	// MaxBytes caps the size of each uploaded file.
	MaxBytes int64
	// FS is where uploads are read from. Defaults to the OS filesystem.
	FS     afero.Fs
	Tracer trace.Tracer
}

// Board is the soundboard service.
type Board struct {
	store  RecordStore
	player Player
	opts   Options
	tracer trace.Tracer

	mu    sync.Mutex
	state *domain.State
}

// NewBoard returns an empty board. Call Load to read the stored record.
func NewBoard(store RecordStore, player Player, opts Options) *Board {
	if opts.Duplicates == "" {
		opts.Duplicates = domain.DuplicateSuffix
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Board{
		store:  store,
		player: player,
		opts:   opts,
		tracer: tracer,
		state:  domain.NewState(),
	}
}

// Load replaces the in-memory board with the stored record. A store with no
// record yields an empty board.
func (b *Board) Load(ctx context.Context) (err error) {
	ctx, span := b.tracer.Start(ctx, "board.load")
	defer func() { endSpan(span, err) }()

	rec, ok, err := b.store.Load(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !ok {
		b.state = domain.NewState()
		return nil
	}
	b.state = domain.FromRecord(rec)
	span.SetAttributes(attribute.Int("board.sounds", b.state.Sounds.Len()))
	log.Info(log.CatDB, "Loaded soundboard", "sounds", b.state.Sounds.Len())
	return nil
}

// Reload re-reads the store and reports whether the board changed. It backs
// auto refresh when another process writes the store.
func (b *Board) Reload(ctx context.Context) (changed bool, err error) {
	ctx, span := b.tracer.Start(ctx, "board.reload")
	defer func() { endSpan(span, err) }()

	rec, ok, err := b.store.Load(ctx)
	if err != nil {
		return false, err
	}
	next := domain.NewState()
	if ok {
		next = domain.FromRecord(rec)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if reflect.DeepEqual(normalize(b.state.Record()), normalize(next.Record())) {
		return false, nil
	}
	if playing := b.player.State(); playing.Playing && !next.Sounds.Has(playing.Name) {
		b.player.Stop()
	}
	b.state = next
	log.Debug(log.CatDB, "Reloaded soundboard", "sounds", next.Sounds.Len())
	return true, nil
}

// normalize makes records comparable regardless of nil versus empty.
func normalize(r domain.Record) domain.Record {
	if len(r.Sounds) == 0 {
		r.Sounds = nil
	}
	if len(r.Hotkeys) == 0 {
		r.Hotkeys = nil
	}
	return r
}

// Snapshot returns the current board for rendering.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() Snapshot {
	playing := b.player.State()
	snap := Snapshot{}
	if playing.Playing {
		snap.Playing = playing.Name
	}
	for _, e := range b.state.Entries() {
		p, _ := b.state.Sounds.Payload(e.Name)
		snap.Entries = append(snap.Entries, Entry{
			Name:      e.Name,
			Slot:      e.Slot,
			Partition: e.Partition,
			Label:     e.Label,
			Hotkey:    e.Hotkey,
			Size:      len(p.Data),
			MIME:      p.MIME,
			Playing:   playing.Playing && playing.Name == e.Name,
		})
	}
	return snap
}

// Hotkeys returns a copy of the explicit hotkeys.
func (b *Board) Hotkeys() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Hotkeys.Clone()
}

// mutate applies fn to a clone of the state, saves it, and swaps it in.
// Nothing is saved when fn reports no change or fails.
func (b *Board) mutate(ctx context.Context, op string, fn func(*domain.State) (bool, error), attrs ...attribute.KeyValue) (changed bool, err error) {
	ctx, span := b.tracer.Start(ctx, "board."+op, trace.WithAttributes(attrs...))
	defer func() {
		span.SetAttributes(attribute.Bool("board.changed", changed))
		endSpan(span, err)
	}()

	b.mu.Lock()
	defer b.mu.Unlock()

	work := b.state.Clone()
	changed, err = fn(work)
	if err != nil || !changed {
		return false, err
	}
	if err := b.store.Save(ctx, work.Record()); err != nil {
		log.ErrorErr(log.CatDB, "Failed to persist "+op, err)
		return false, err
	}
	b.state = work
	return true, nil
}

// Upload reads paths concurrently and appends them as one batch with a single
// save. If any file fails, nothing is applied. It returns the stored names.
func (b *Board) Upload(ctx context.Context, paths []string) (names []string, err error) {
	if len(paths) == 0 {
		return nil, nil
	}
	batch := uuid.NewString()
	log.Info(log.CatUpload, "Upload started", "batch", batch, "files", len(paths))

	sounds, err := readBatch(ctx, b.opts.FS, paths, b.opts.MaxBytes)
	if err != nil {
		log.Warn(log.CatUpload, "Upload aborted", "batch", batch, "error", err)
		return nil, err
	}

	_, err = b.mutate(ctx, "upload", func(s *domain.State) (bool, error) {
		var err error
		names, err = s.AddBatch(sounds, b.opts.Duplicates)
		return err == nil, err
	}, attribute.String("upload.batch", batch), attribute.Int("upload.files", len(paths)))
	if err != nil {
		return nil, err
	}
	log.Info(log.CatUpload, "Upload finished", "batch", batch, "names", names)
	return names, nil
}

// Delete removes a sound and its hotkey, stopping it if it is playing.
func (b *Board) Delete(ctx context.Context, name string) error {
	_, err := b.mutate(ctx, "delete", func(s *domain.State) (bool, error) {
		if !s.Delete(name) {
			return false, &domain.SoundNotFoundError{Name: name}
		}
		return true, nil
	}, attribute.String("sound.name", name))
	if err != nil {
		return err
	}
	if st := b.player.State(); st.Playing && st.Name == name {
		b.player.Stop()
	}
	return nil
}

// Assign sets the hotkey of name.
func (b *Board) Assign(ctx context.Context, name, input string) error {
	_, err := b.mutate(ctx, "assign", func(s *domain.State) (bool, error) {
		if !s.Sounds.Has(name) {
			return false, &domain.SoundNotFoundError{Name: name}
		}
		prev, had := s.Hotkeys.Get(name)
		if err := s.Hotkeys.Assign(name, input); err != nil {
			return false, err
		}
		k, _ := s.Hotkeys.Get(name)
		return !had || prev != k, nil
	}, attribute.String("sound.name", name))
	return err
}

// ClearHotkey removes the explicit hotkey of name. Base sounds fall back to
// their slot digit label.
func (b *Board) ClearHotkey(ctx context.Context, name string) error {
	_, err := b.mutate(ctx, "clear_hotkey", func(s *domain.State) (bool, error) {
		if !s.Sounds.Has(name) {
			return false, &domain.SoundNotFoundError{Name: name}
		}
		_, had := s.Hotkeys.Get(name)
		s.Hotkeys.Clear(name)
		return had, nil
	}, attribute.String("sound.name", name))
	return err
}

// EditHotkey applies the answer to a hotkey prompt. nil means the prompt was
// cancelled.
func (b *Board) EditHotkey(ctx context.Context, name string, input *string) (bool, error) {
	return b.mutate(ctx, "edit_hotkey", func(s *domain.State) (bool, error) {
		if !s.Sounds.Has(name) {
			return false, &domain.SoundNotFoundError{Name: name}
		}
		return s.Hotkeys.Edit(name, input)
	}, attribute.String("sound.name", name))
}

// ApplyHotkeys applies a whole hotkey sheet at once: every named sound gets
// the given key, "" clears it. Sounds not in sheet are untouched. Any invalid
// entry rejects the whole sheet.
func (b *Board) ApplyHotkeys(ctx context.Context, sheet map[string]string) (bool, error) {
	return b.mutate(ctx, "apply_hotkeys", func(s *domain.State) (bool, error) {
		changed := false
		for name := range s.Sounds.Names() {
			input, ok := sheet[name]
			if !ok {
				continue
			}
			c, err := s.Hotkeys.Edit(name, &input)
			if err != nil {
				return false, &domain.ValidationError{Field: "hotkey", Message: name + ": " + err.Error()}
			}
			changed = changed || c
		}
		for name := range sheet {
			if !s.Sounds.Has(name) {
				return false, &domain.SoundNotFoundError{Name: name}
			}
		}
		if changed {
			s.Hotkeys.Reconcile(s.Sounds.Names())
		}
		return changed, nil
	}, attribute.Int("hotkeys.entries", len(sheet)))
}

// Reorder swaps source and target and moves their hotkeys. Dropping a sound
// on itself or naming an unknown sound changes nothing and saves nothing.
func (b *Board) Reorder(ctx context.Context, source, target string) (bool, error) {
	return b.mutate(ctx, "reorder", func(s *domain.State) (bool, error) {
		return domain.Reorder(s, source, target), nil
	}, attribute.String("reorder.source", source), attribute.String("reorder.target", target))
}

// Toggle plays name, or stops it if it is already playing.
func (b *Board) Toggle(ctx context.Context, name string) (sound.State, error) {
	b.mu.Lock()
	p, ok := b.state.Sounds.Payload(name)
	b.mu.Unlock()
	if !ok {
		return b.player.State(), &domain.SoundNotFoundError{Name: name}
	}
	return b.player.Toggle(ctx, name, p)
}

// Stop halts playback.
func (b *Board) Stop() {
	b.player.Stop()
}

// Dispatch handles a single key press. Digits 1-9 pick a sound by position,
// any other character is looked up as a hotkey. A key that matches nothing
// is not an error. It returns the sound that was toggled.
func (b *Board) Dispatch(ctx context.Context, key string) (string, error) {
	if uniseg.GraphemeClusterCount(key) != 1 {
		return "", nil
	}
	b.mu.Lock()
	name, ok := b.state.Dispatch(key)
	b.mu.Unlock()
	if !ok {
		return "", nil
	}
	if _, err := b.Toggle(ctx, name); err != nil {
		return name, err
	}
	return name, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
