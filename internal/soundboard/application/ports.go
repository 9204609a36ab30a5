package application

import (
	"context"

	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// RecordStore persists the board record.
type RecordStore interface {
	// Load returns false when no record has been saved yet.
	Load(ctx context.Context) (domain.Record, bool, error)
	Save(ctx context.Context, rec domain.Record) error
	Close() error
}

// Player plays one sound at a time.
type Player interface {
	Toggle(ctx context.Context, name string, payload domain.Payload) (sound.State, error)
	Stop()
	State() sound.State
}
