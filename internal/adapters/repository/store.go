// Package repository holds the published status and the failure log.
package repository

import (
	"context"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
)

// Store provides read/write access to the published status.
type Store interface {
	// Apply publishes level as the current status at time at. When the
	// previous level was OK and level is not, a failure event blaming cause
	// is appended to the log. Returns true if an event was recorded.
	Apply(ctx context.Context, level model.Level, cause string, at time.Time) (bool, error)

	// MarkUnknown publishes the unknown level without touching the log.
	MarkUnknown(ctx context.Context, at time.Time) error

	// Snapshot returns the current status.
	Snapshot(ctx context.Context) model.Status

	// History returns a copy of the failure log, oldest first.
	History(ctx context.Context) []model.FailureEvent

	// Count returns the number of events in the failure log.
	Count(ctx context.Context) int
}
