package factory

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/services/history"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) login(username string) *auth.Session {
	sess, err := s.app.AuthService.Login(s.ctx, username, "password123")
	s.Require().NoError(err)
	return sess
}

func (s *IntegrationSuite) play(player model.UserID, winner model.WinnerFlag) {
	_, err := s.app.HistoryService.Record(s.ctx, history.RecordParams{
		PlayerID:      player,
		Mode:          model.ModeAIHard,
		Player1Nation: model.NationUSSR,
		Player2Nation: model.NationGerman,
		Winner:        winner,
	})
	s.Require().NoError(err)
}

// Test: alice registers and is promoted, bob registers and plays, alice clears bob's history
func (s *IntegrationSuite) TestAdminClearsPlayerHistory() {
	// Step 1: alice registers and is promoted by an operator
	_, err := s.app.AuthService.Register(s.ctx, "alice", "alice@example.com", "password123")
	s.Require().NoError(err)
	_, changed, err := s.app.AdminService.SetAdminByUsername(s.ctx, "alice", true)
	s.Require().NoError(err)
	s.True(changed)

	// Step 2: bob registers
	bobID, err := s.app.AuthService.Register(s.ctx, "bob", "bob@example.com", "password123")
	s.Require().NoError(err)

	// Step 3: bob wins against the AI
	bob := s.login("bob")
	s.play(bob.User.ID, model.WinnerPlayer1)
	stats, err := s.app.HistoryService.StatsFor(s.ctx, bobID)
	s.Require().NoError(err)
	s.Equal(model.Stats{TotalGames: 1, Wins: 1, Losses: 0}, stats)

	// Step 4: bob loses against the AI
	s.play(bob.User.ID, model.WinnerPlayer2)
	stats, err = s.app.HistoryService.StatsFor(s.ctx, bobID)
	s.Require().NoError(err)
	s.Equal(model.Stats{TotalGames: 2, Wins: 1, Losses: 1}, stats)

	// Step 5: alice, logged in as admin, clears bob's history
	alice := s.login("alice")
	s.True(alice.User.IsAdmin)
	s.Require().NoError(s.app.AdminService.ClearUserHistory(s.ctx, &alice.User, bobID))

	stats, err = s.app.HistoryService.StatsFor(s.ctx, bobID)
	s.Require().NoError(err)
	s.Equal(model.Stats{}, stats)
}

// Test: deleting a user ends their session and removes their games
func (s *IntegrationSuite) TestDeletedUserLosesSessionAndHistory() {
	adminID, _ := s.app.AuthService.Register(s.ctx, "root", "root@example.com", "password123")
	s.Require().NoError(s.app.AccountService.SetAdmin(s.ctx, adminID, true))
	bobID, _ := s.app.AuthService.Register(s.ctx, "bob", "bob@example.com", "password123")

	bob := s.login("bob")
	s.play(bobID, model.WinnerPlayer1)

	root := s.login("root")
	s.Require().NoError(s.app.AdminService.DeleteUser(s.ctx, &root.User, bobID))

	_, err := s.app.AuthService.ValidateSession(s.ctx, bob.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)

	recent, err := s.app.HistoryService.RecentFor(s.ctx, bobID, history.AccountRecentLimit)
	s.Require().NoError(err)
	s.Empty(recent)

	// The name is free again
	_, err = s.app.AuthService.Register(s.ctx, "bob", "bob@example.com", "password123")
	s.NoError(err)
}

// Test: sessions expire on the configured duration
func (s *IntegrationSuite) TestSessionExpires() {
	_, _ = s.app.AuthService.Register(s.ctx, "bob", "bob@example.com", "password123")
	bob := s.login("bob")

	s.app.MockClock.Advance(auth.DefaultConfig().SessionDuration + time.Minute)

	_, err := s.app.AuthService.ValidateSession(s.ctx, bob.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

func TestNewRejectsUnknownBackends(t *testing.T) {
	_, err := New(Config{StorageType: "mongo"})
	require.Error(t, err)

	_, err = New(Config{StorageType: StorageTypePostgres})
	require.Error(t, err)

	_, err = New(Config{SessionStore: "cookie"})
	require.Error(t, err)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.AccountService.Create(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)
}

func TestNewKeepsConfiguredSecretWithoutDuration(t *testing.T) {
	app, err := New(Config{AuthConfig: auth.Config{Secret: "configured-secret"}})
	require.NoError(t, err)
	defer app.Close()

	ctx := context.Background()
	_, err = app.AccountService.WithHashCost(4).Create(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	sess, err := app.AuthService.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	keyed := func(secret string) jwt.Keyfunc {
		return func(*jwt.Token) (any, error) { return []byte(secret), nil }
	}
	_, err = jwt.Parse(sess.Token, keyed("configured-secret"))
	require.NoError(t, err)
	_, err = jwt.Parse(sess.Token, keyed(auth.DefaultConfig().Secret))
	require.Error(t, err)

	// The unset duration still falls back to the default
	require.WithinDuration(t, time.Now().Add(auth.DefaultConfig().SessionDuration), sess.ExpiresAt, time.Minute)
}
