package journey

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"driveport/internal/domain"
)

const (
	sessionListKeyPrefix = "journey:session:"
	sessionSeqKeyPrefix  = "journey:seq:"
)

// RedisStore is a Redis-backed ledger for distributed deployments where
// several instances serve the same session. Records live in a per-session
// list in arrival order; the sequence comes from a per-session counter.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, record domain.JourneyRecord) (domain.JourneyRecord, error) {
	seq, err := s.client.Incr(ctx, sessionSeqKeyPrefix+record.SessionID).Result()
	if err != nil {
		return domain.JourneyRecord{}, fmt.Errorf("next journey sequence: %w", err)
	}
	record.Seq = uint64(seq)

	payload, err := json.Marshal(record)
	if err != nil {
		return domain.JourneyRecord{}, fmt.Errorf("marshal journey record: %w", err)
	}
	if err := s.client.RPush(ctx, sessionListKeyPrefix+record.SessionID, payload).Err(); err != nil {
		return domain.JourneyRecord{}, fmt.Errorf("append journey record: %w", err)
	}
	return record, nil
}

func (s *RedisStore) ListBySession(ctx context.Context, sessionID string) ([]domain.JourneyRecord, error) {
	raw, err := s.client.LRange(ctx, sessionListKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list journey records: %w", err)
	}
	records := make([]domain.JourneyRecord, 0, len(raw))
	for _, item := range raw {
		var record domain.JourneyRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("unmarshal journey record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
