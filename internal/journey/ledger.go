package journey

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"driveport/internal/domain"
	dErrors "driveport/pkg/domain-errors"
)

// Ledger assembles journey records and appends them to the configured store.
// Writes are synchronous: when Record returns without error the invocation
// is durable.
type Ledger struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for append diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source. Tests use this to pin creation
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Record snapshots one tool invocation. Input and output are serialized as
// they were at invocation time, so later registry updates never rewrite
// history.
func (l *Ledger) Record(ctx context.Context, sessionID string, tool domain.ToolName, input, output any) (domain.JourneyRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.JourneyRecord{}, dErrors.New(dErrors.CodeInvalidInput, "session id is required")
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return domain.JourneyRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "marshal journey input")
	}
	outputJSON, err := json.Marshal(output)
	if err != nil {
		return domain.JourneyRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "marshal journey output")
	}

	record := domain.JourneyRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		Tool:      tool,
		Input:     inputJSON,
		Output:    outputJSON,
		CreatedAt: l.now().UTC(),
	}

	stored, err := l.store.Append(ctx, record)
	if err != nil {
		return domain.JourneyRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "append journey record")
	}

	l.logger.DebugContext(ctx, "journey record appended",
		slog.String("session_id", sessionID),
		slog.String("tool", string(tool)),
		slog.Uint64("seq", stored.Seq),
	)
	return stored, nil
}

// FetchAll replays a session's journey in creation order.
func (l *Ledger) FetchAll(ctx context.Context, sessionID string) ([]domain.JourneyRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "session id is required")
	}
	records, err := l.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list journey records")
	}
	return records, nil
}
