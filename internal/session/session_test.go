package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tankbattle/internal/dependencies/mocks"
	"github.com/mcoot/tankbattle/internal/testutil"
)

// StoreSuite runs the same checks against each Store implementation
type StoreSuite struct {
	suite.Suite
	newStore func(s *StoreSuite) Store
	store    Store
	clock    *mocks.MockClock
	mini     *miniredis.Miniredis
	ctx      context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{
		newStore: func(s *StoreSuite) Store {
			return NewMemoryStore(s.clock, testutil.NopLogger())
		},
	})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{
		newStore: func(s *StoreSuite) Store {
			s.mini = miniredis.RunT(s.T())
			client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
			return NewRedisStore(client, s.clock)
		},
	})
}

func (s *StoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mini = nil
	s.store = s.newStore(s)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	_ = s.store.Close()
}

// advance moves both the mock clock and, for Redis, the server's TTL clock
func (s *StoreSuite) advance(d time.Duration) {
	s.clock.Advance(d)
	if s.mini != nil {
		s.mini.FastForward(d)
	}
}

func (s *StoreSuite) newSession(id string) *Session {
	now := s.clock.Now()
	return &Session{
		ID:        id,
		UserID:    42,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func (s *StoreSuite) TestSaveAndGet() {
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("abc")))

	got, err := s.store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("abc", got.ID)
	s.EqualValues(42, got.UserID)
}

func (s *StoreSuite) TestGetUnknown() {
	_, err := s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("abc")))
	s.Require().NoError(s.store.Delete(s.ctx, "abc"))

	_, err := s.store.Get(s.ctx, "abc")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestDeleteUnknownIsNoop() {
	s.NoError(s.store.Delete(s.ctx, "missing"))
}

func (s *StoreSuite) TestExpiredSessionIsNotFound() {
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("abc")))

	s.advance(2 * time.Hour)

	_, err := s.store.Get(s.ctx, "abc")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestSessionValidUntilExpiry() {
	s.Require().NoError(s.store.Save(s.ctx, s.newSession("abc")))

	s.advance(59 * time.Minute)

	_, err := s.store.Get(s.ctx, "abc")
	s.NoError(err)
}

func TestMemoryStoreCleanExpired(t *testing.T) {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk, testutil.NopLogger())
	defer store.Close()
	ctx := context.Background()

	now := clk.Now()
	_ = store.Save(ctx, &Session{ID: "short", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Minute)})
	_ = store.Save(ctx, &Session{ID: "long", UserID: 2, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	clk.Advance(10 * time.Minute)

	assert.Equal(t, 1, store.CleanExpired())

	_, err := store.Get(ctx, "long")
	assert.NoError(t, err)
}
