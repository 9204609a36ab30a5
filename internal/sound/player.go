package sound

import (
	"context"
	"io"
	"sync"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// State is the playback state. The zero value is Idle.
type State struct {
	Playing bool
	Name    string
}

// Idle is the state with nothing playing.
var Idle = State{}

// Playing returns the state for name playing.
func Playing(name string) State {
	return State{Playing: true, Name: name}
}

// Player allows at most one sound to play at a time.
type Player struct {
	backend Backend

	mu      sync.Mutex
	current Playback
	name    string
	gen     uint64
	onEnded func(name string)
}

// NewPlayer returns an idle player on top of backend.
func NewPlayer(backend Backend) *Player {
	return &Player{backend: backend}
}

// OnEnded registers fn to run, off the caller's goroutine, whenever a sound
// finishes without being stopped.
func (p *Player) OnEnded(fn func(name string)) {
	p.mu.Lock()
	p.onEnded = fn
	p.mu.Unlock()
}

// Toggle stops name if it is playing. Otherwise it stops whatever is playing
// and starts name from the beginning. It returns the resulting state.
func (p *Player) Toggle(ctx context.Context, name string, payload domain.Payload) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.name == name {
		p.stopLocked()
		return Idle, nil
	}
	p.stopLocked()

	pb, err := p.backend.Start(ctx, name, payload)
	if err != nil {
		log.ErrorErr(log.CatAudio, "Failed to start playback", err, "sound", name)
		return Idle, err
	}
	p.gen++
	gen := p.gen
	p.current, p.name = pb, name

	log.SafeGo("sound.wait", func() { p.wait(pb, gen, name) })
	return Playing(name), nil
}

// wait turns a natural end into Idle. A reused generation means the playback
// was stopped or replaced, and the end is ignored.
func (p *Player) wait(pb Playback, gen uint64, name string) {
	<-pb.Done()

	p.mu.Lock()
	if p.gen != gen || p.current != pb {
		p.mu.Unlock()
		return
	}
	p.current, p.name = nil, ""
	fn := p.onEnded
	p.mu.Unlock()

	log.Debug(log.CatAudio, "Playback ended", "sound", name)
	if fn != nil {
		fn(name)
	}
}

// Stop halts the current sound. The next Toggle replays from position zero.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.gen++
	pb, name := p.current, p.name
	p.current, p.name = nil, ""
	pb.Stop()
	log.Debug(log.CatAudio, "Playback stopped", "sound", name)
}

// State reports what is playing.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Idle
	}
	return Playing(p.name)
}

// Close stops playback and releases the backend.
func (p *Player) Close() error {
	p.Stop()
	if c, ok := p.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
