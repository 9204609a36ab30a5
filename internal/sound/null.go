package sound

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// NullBackend plays nothing. Each playback ends on its own after Duration.
type NullBackend struct {
	Duration time.Duration
}

// Start implements Backend.
func (b NullBackend) Start(_ context.Context, _ string, _ domain.Payload) (Playback, error) {
	pb := &timedPlayback{done: make(chan struct{})}
	pb.timer = time.AfterFunc(b.Duration, pb.finish)
	return pb, nil
}

type timedPlayback struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func (p *timedPlayback) finish() {
	p.once.Do(func() { close(p.done) })
}

func (p *timedPlayback) Done() <-chan struct{} { return p.done }

func (p *timedPlayback) Stop() {
	p.timer.Stop()
	p.finish()
}
