package sound

import (
	"context"

	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// Playback is one running sound.
type Playback interface {
	// Done is closed when the playback ends, naturally or through Stop.
	Done() <-chan struct{}
	// Stop halts the playback and blocks until Done is closed. Safe to call
	// more than once.
	Stop()
}

// Backend starts playbacks. Every Start begins at position zero.
type Backend interface {
	Start(ctx context.Context, name string, p domain.Payload) (Playback, error)
}
