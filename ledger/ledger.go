// Package ledger records every document published to storage.
package ledger

import (
	"context"
	"time"
)

// Entry is one published document.
type Entry struct {
	Kind        string
	Number      string // document number from the payload, if any
	Key         string
	URL         string
	Fingerprint string
	Size        int64
	CreatedAt   time.Time
}

// Recorder stores ledger entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// Nop discards entries. It is used when no database is configured.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) Close() error                        { return nil }
