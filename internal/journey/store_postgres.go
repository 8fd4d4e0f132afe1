package journey

import (
	"context"
	"database/sql"
	"fmt"

	"driveport/internal/domain"
)

// PostgresStore persists journey records durably. The seq column is a
// BIGSERIAL, so write arrival order is assigned by the database and survives
// restarts.
//
// Schema:
//
//	CREATE TABLE journey_records (
//	    id         UUID PRIMARY KEY,
//	    session_id TEXT NOT NULL,
//	    tool       TEXT NOT NULL,
//	    input      JSONB NOT NULL,
//	    output     JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    seq        BIGSERIAL
//	);
//	CREATE INDEX journey_records_session_idx ON journey_records (session_id, created_at, seq);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, record domain.JourneyRecord) (domain.JourneyRecord, error) {
	query := `
		INSERT INTO journey_records (id, session_id, tool, input, output, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq
	`
	err := s.db.QueryRowContext(ctx, query,
		record.ID,
		record.SessionID,
		string(record.Tool),
		[]byte(record.Input),
		[]byte(record.Output),
		record.CreatedAt,
	).Scan(&record.Seq)
	if err != nil {
		return domain.JourneyRecord{}, fmt.Errorf("insert journey record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string) ([]domain.JourneyRecord, error) {
	query := `
		SELECT id, session_id, tool, input, output, created_at, seq
		FROM journey_records
		WHERE session_id = $1
		ORDER BY created_at, seq
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query journey records: %w", err)
	}
	defer rows.Close()

	var records []domain.JourneyRecord
	for rows.Next() {
		var record domain.JourneyRecord
		var tool string
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&tool,
			&record.Input,
			&record.Output,
			&record.CreatedAt,
			&record.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan journey record: %w", err)
		}
		record.Tool = domain.ToolName(tool)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journey records: %w", err)
	}
	return records, nil
}
