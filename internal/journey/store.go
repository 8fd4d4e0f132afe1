// Package journey is the append-only ledger of advisor tool invocations,
// keyed by session. The ledger records and replays; it never updates or
// deletes, and retention is an external sweeper's job.
package journey

import (
	"context"

	"driveport/internal/domain"
)

// Store persists journey records. Append must be durable before it returns,
// and it assigns the per-session arrival sequence. ListBySession returns a
// consistent snapshot in creation order, ties broken by arrival sequence;
// an unknown session yields an empty slice, not an error.
type Store interface {
	Append(ctx context.Context, record domain.JourneyRecord) (domain.JourneyRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.JourneyRecord, error)
}
