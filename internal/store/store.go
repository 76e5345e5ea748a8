// Package store keeps finished simulation runs so API clients can fetch
// them again by ID. Implementations: in-memory with TTL, and Redis.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dam-price-predictor/internal/model"
)

var ErrNotFound = errors.New("run not found")

// Record is one stored simulation run.
type Record struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	PlotInterval int              `json:"plot_interval"`
	Result       *model.RunResult `json:"result"`
}

type Store interface {
	// Save persists rec under rec.ID, replacing any previous record.
	Save(ctx context.Context, rec *Record) error

	// Get returns ErrNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (*Record, error)

	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like something NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
