// Package types contains the JSON shapes shared by the HTTP API and its clients.
package types

import (
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
)

// TimeLayout is the wire format of every timestamp.
const TimeLayout = time.RFC3339Nano

// StatusRecord is the body of GET /status.
type StatusRecord struct {
	PIX       string  `json:"PIX"`
	UpdatedAt *string `json:"updated_at"`
}

// HistoryEntry is one element of the GET /history array.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Status    string `json:"status"`
}

// NewStatusRecord converts a domain status to its wire shape.
// A zero UpdatedAt is encoded as null.
func NewStatusRecord(s model.Status) StatusRecord {
	rec := StatusRecord{PIX: string(s.Level)}
	if !s.UpdatedAt.IsZero() {
		ts := s.UpdatedAt.UTC().Format(TimeLayout)
		rec.UpdatedAt = &ts
	}
	return rec
}

// NewHistory converts failure events to their wire shape, keeping order.
// The result is never nil so it encodes as [].
func NewHistory(events []model.FailureEvent) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(events))
	for _, e := range events {
		out = append(out, HistoryEntry{
			Timestamp: e.At.UTC().Format(TimeLayout),
			Service:   e.Service,
			Status:    string(e.Level),
		})
	}
	return out
}
