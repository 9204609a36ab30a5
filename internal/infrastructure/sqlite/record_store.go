package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

const tracerName = "github.com/zjrosen/soundpad/internal/infrastructure/sqlite"

// RecordStore reads and writes the board record.
type RecordStore struct {
	db     *DB
	tracer trace.Tracer
	now    func() time.Time
}

func newRecordStore(db *DB, tracer trace.Tracer) *RecordStore {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &RecordStore{db: db, tracer: tracer, now: time.Now}
}

// Load returns the stored record. ok is false when nothing was saved yet.
func (s *RecordStore) Load(ctx context.Context) (rec domain.Record, ok bool, err error) {
	ctx, span := s.tracer.Start(ctx, "records.get",
		trace.WithAttributes(attribute.String("record.key", RecordKey)))
	defer func() { endSpan(span, err) }()

	var value []byte
	err = s.db.conn.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, RecordKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("record.found", false))
		return domain.Record{}, false, nil
	}
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to read record", err)
		return domain.Record{}, false, &domain.PersistenceError{Op: "load", Err: err}
	}
	span.SetAttributes(attribute.Bool("record.found", true), attribute.Int("record.bytes", len(value)))

	rec, err = decodeRecord(value)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to decode record", err, "bytes", len(value))
		return domain.Record{}, false, &domain.PersistenceError{Op: "load", Err: fmt.Errorf("decode record: %w", err)}
	}
	return rec, true, nil
}

// Save replaces the stored record in a single statement.
func (s *RecordStore) Save(ctx context.Context, rec domain.Record) (err error) {
	ctx, span := s.tracer.Start(ctx, "records.put",
		trace.WithAttributes(
			attribute.String("record.key", RecordKey),
			attribute.Int("record.sounds", len(rec.Sounds)),
		))
	defer func() { endSpan(span, err) }()

	value, err := encodeRecord(rec)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: fmt.Errorf("encode record: %w", err)}
	}
	span.SetAttributes(attribute.Int("record.bytes", len(value)))

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		RecordKey, value, s.now().Unix(),
	)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to write record", err, "bytes", len(value))
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	log.Debug(log.CatDB, "Saved record", "sounds", len(rec.Sounds), "bytes", len(value))
	return nil
}

// Close closes the underlying store.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
