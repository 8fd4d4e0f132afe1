//go:build integration

package journey_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"driveport/internal/domain"
	"driveport/internal/journey"
	"driveport/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *journey.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = journey.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) record(sessionID string, tool domain.ToolName) domain.JourneyRecord {
	return domain.JourneyRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		Tool:      tool,
		Input:     json.RawMessage(`{"code":"CA"}`),
		Output:    json.RawMessage(`{"grand_total":"3150"}`),
		CreatedAt: time.Now().UTC(),
	}
}

func (s *RedisStoreSuite) TestAppendAndListRoundTrip() {
	ctx := context.Background()

	stored, err := s.store.Append(ctx, s.record("session-1", domain.ToolCostEstimate))
	s.Require().NoError(err)
	s.Equal(uint64(1), stored.Seq)

	records, err := s.store.ListBySession(ctx, "session-1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(stored.ID, records[0].ID)
	s.Equal(domain.ToolCostEstimate, records[0].Tool)
	s.JSONEq(`{"code":"CA"}`, string(records[0].Input))
}

func (s *RedisStoreSuite) TestSequencesAdvancePerSession() {
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		stored, err := s.store.Append(ctx, s.record("session-a", domain.ToolEligibilityCheck))
		s.Require().NoError(err)
		s.Equal(uint64(i), stored.Seq)
	}

	stored, err := s.store.Append(ctx, s.record("session-b", domain.ToolEligibilityCheck))
	s.Require().NoError(err)
	s.Equal(uint64(1), stored.Seq, "counters are per session")
}

func (s *RedisStoreSuite) TestConcurrentAppendsAreAllDurable() {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(ctx, s.record("session-1", domain.ToolShippingOutlook))
			s.NoError(err)
		}()
	}
	wg.Wait()

	records, err := s.store.ListBySession(ctx, "session-1")
	s.Require().NoError(err)
	s.Len(records, writers)

	seen := make(map[uint64]bool, writers)
	for _, rec := range records {
		s.False(seen[rec.Seq], "sequences must be unique")
		seen[rec.Seq] = true
	}
}

func (s *RedisStoreSuite) TestUnknownSessionIsEmpty() {
	records, err := s.store.ListBySession(context.Background(), "nope")
	s.Require().NoError(err)
	s.Empty(records)
}
