package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tankbattle/internal/dependencies/mocks"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/session"
	"github.com/mcoot/tankbattle/internal/storage/memory"
	"github.com/mcoot/tankbattle/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock ticks one second per read so creation order is observable.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockClock.AutoAdvance(time.Second)
	logger := testutil.NopLogger()
	sessions := session.NewMemoryStore(mockClock, logger)

	app := newWithDependencies(store, sessions, mockClock, auth.DefaultConfig(), logger, bcrypt.MinCost)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
