package application

import (
	"context"
	"errors"
	"sync"

	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

var errDiskFull = errors.New("disk full")

// memStore keeps the record in memory and counts saves.
type memStore struct {
	mu      sync.Mutex
	rec     *domain.Record
	saves   int
	saveErr error
	loadErr error
}

func (s *memStore) Load(context.Context) (domain.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Record{}, false, &domain.PersistenceError{Op: "load", Err: s.loadErr}
	}
	if s.rec == nil {
		return domain.Record{}, false, nil
	}
	// Hand out a copy the way a real store does.
	return domain.FromRecord(*s.rec).Record(), true, nil
}

func (s *memStore) Save(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return &domain.PersistenceError{Op: "save", Err: s.saveErr}
	}
	s.saves++
	r := domain.FromRecord(rec).Record()
	s.rec = &r
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakePlayer follows the Player state machine without any audio.
type fakePlayer struct {
	mu      sync.Mutex
	state   sound.State
	toggles []string
	stops   int
}

func (p *fakePlayer) Toggle(_ context.Context, name string, _ domain.Payload) (sound.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggles = append(p.toggles, name)
	if p.state.Playing && p.state.Name == name {
		p.state = sound.Idle
	} else {
		p.state = sound.Playing(name)
	}
	return p.state, nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	p.state = sound.Idle
}

func (p *fakePlayer) State() sound.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
