// Package storagetest holds the behavioural suite every storage backend
// must pass. Backend packages run it from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

// Suite exercises a storage.Storage built fresh for every test
type Suite struct {
	suite.Suite

	// NewStorage returns an empty backend
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
	now     time.Time
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *Suite) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *Suite) createUser(username string) model.UserID {
	id, err := s.storage.CreateUser(s.ctx, &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash-" + username,
		CreatedAt:    s.tick(),
	})
	s.Require().NoError(err)
	return id
}

func (s *Suite) appendGame(player1 model.UserID, player2, winner *model.UserID, mode model.GameMode) model.GameID {
	id, err := s.storage.AppendGame(s.ctx, &model.GameRecord{
		Player1ID:     player1,
		Player1Nation: model.NationUS,
		Player2ID:     player2,
		Player2Nation: model.NationGerman,
		WinnerID:      winner,
		Mode:          mode,
		PlayedAt:      s.tick(),
	})
	s.Require().NoError(err)
	return id
}

func ptr(id model.UserID) *model.UserID { return &id }

// User tests

func (s *Suite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}

func (s *Suite) TestCreateAndGetUser() {
	created := s.tick()
	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    created,
	}
	id, err := s.storage.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	s.NotZero(id)
	s.Equal(id, user.ID)

	got, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("alice@example.com", got.Email)
	s.Equal("hash", got.PasswordHash)
	s.False(got.IsAdmin)
	s.WithinDuration(created, got.CreatedAt, time.Millisecond)

	byName, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(id, byName.ID)
}

func (s *Suite) TestCreateUserAssignsDistinctIDs() {
	a := s.createUser("alice")
	b := s.createUser("bob")
	s.NotEqual(a, b)
}

func (s *Suite) TestCreateUserDuplicateUsername() {
	s.createUser("alice")

	_, err := s.storage.CreateUser(s.ctx, &model.User{
		Username: "alice", Email: "other@example.com", PasswordHash: "x", CreatedAt: s.tick(),
	})
	s.ErrorIs(err, model.ErrConflict)
}

func (s *Suite) TestCreateUserDuplicateEmail() {
	s.createUser("alice")

	_, err := s.storage.CreateUser(s.ctx, &model.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "x", CreatedAt: s.tick(),
	})
	s.ErrorIs(err, model.ErrConflict)
}

func (s *Suite) TestUsernameIsCaseSensitive() {
	s.createUser("alice")
	s.createUser("Alice")

	_, err := s.storage.GetUserByUsername(s.ctx, "ALICE")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, 9999)
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestListUsersNewestFirst() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal(carol, users[0].ID)
	s.Equal(bob, users[1].ID)
	s.Equal(alice, users[2].ID)
}

func (s *Suite) TestListUsersEmpty() {
	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *Suite) TestSetUserAdmin() {
	id := s.createUser("alice")

	s.Require().NoError(s.storage.SetUserAdmin(s.ctx, id, true))
	got, err := s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.True(got.IsAdmin)

	s.Require().NoError(s.storage.SetUserAdmin(s.ctx, id, false))
	got, err = s.storage.GetUser(s.ctx, id)
	s.Require().NoError(err)
	s.False(got.IsAdmin)
}

func (s *Suite) TestSetUserAdminNotFound() {
	err := s.storage.SetUserAdmin(s.ctx, 9999, true)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestDeleteUser() {
	id := s.createUser("alice")

	s.Require().NoError(s.storage.DeleteUser(s.ctx, id))

	_, err := s.storage.GetUser(s.ctx, id)
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestDeleteUserFreesUsernameAndEmail() {
	id := s.createUser("alice")
	s.Require().NoError(s.storage.DeleteUser(s.ctx, id))

	again := s.createUser("alice")
	s.NotEqual(id, again)
}

func (s *Suite) TestDeleteUserNotFound() {
	err := s.storage.DeleteUser(s.ctx, 9999)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestDeleteUserCascadesHistory() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.appendGame(alice, nil, ptr(alice), model.ModeAIHard)
	s.appendGame(alice, nil, nil, model.ModeTwoPlayer)
	bobWithAlice := s.appendGame(bob, ptr(alice), nil, model.ModeTwoPlayer)
	s.appendGame(bob, nil, ptr(bob), model.ModeAINormal)

	s.Require().NoError(s.storage.DeleteUser(s.ctx, alice))

	aliceGames, err := s.storage.GamesForUser(s.ctx, alice, 0)
	s.Require().NoError(err)
	// Only the game where alice was player 2 survives; player 2 has no cascade
	s.Require().Len(aliceGames, 1)
	s.Equal(bobWithAlice, aliceGames[0].ID)

	bobGames, err := s.storage.GamesForUser(s.ctx, bob, 0)
	s.Require().NoError(err)
	s.Len(bobGames, 2)
}

// Game history tests

func (s *Suite) TestAppendGameRoundTrip() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	played := s.tick()

	record := &model.GameRecord{
		Player1ID:     alice,
		Player1Nation: model.NationUSSR,
		Player2ID:     ptr(bob),
		Player2Nation: model.NationJapan,
		Mode:          model.ModeTwoPlayer,
		PlayedAt:      played,
	}
	id, err := s.storage.AppendGame(s.ctx, record)
	s.Require().NoError(err)
	s.NotZero(id)
	s.Equal(id, record.ID)

	games, err := s.storage.GamesForUser(s.ctx, alice, 0)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	got := games[0]
	s.Equal(id, got.ID)
	s.Equal(alice, got.Player1ID)
	s.Equal(model.NationUSSR, got.Player1Nation)
	s.Require().NotNil(got.Player2ID)
	s.Equal(bob, *got.Player2ID)
	s.Equal(model.NationJapan, got.Player2Nation)
	s.Nil(got.WinnerID)
	s.Equal(model.ModeTwoPlayer, got.Mode)
	s.WithinDuration(played, got.PlayedAt, time.Millisecond)
}

func (s *Suite) TestAppendGameWithWinner() {
	alice := s.createUser("alice")
	s.appendGame(alice, nil, ptr(alice), model.ModeAINightmare)

	games, err := s.storage.GamesForUser(s.ctx, alice, 0)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Nil(games[0].Player2ID)
	s.Require().NotNil(games[0].WinnerID)
	s.Equal(alice, *games[0].WinnerID)
}

func (s *Suite) TestAppendGameUnknownPlayer() {
	_, err := s.storage.AppendGame(s.ctx, &model.GameRecord{
		Player1ID: 9999,
		Mode:      model.ModeAIHard,
		PlayedAt:  s.tick(),
	})
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGamesForUserMostRecentFirst() {
	alice := s.createUser("alice")
	first := s.appendGame(alice, nil, nil, model.ModeAINormal)
	second := s.appendGame(alice, nil, nil, model.ModeAIHard)
	third := s.appendGame(alice, nil, nil, model.ModeTwoPlayer)

	games, err := s.storage.GamesForUser(s.ctx, alice, 0)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(third, games[0].ID)
	s.Equal(second, games[1].ID)
	s.Equal(first, games[2].ID)
}

func (s *Suite) TestGamesForUserLimit() {
	alice := s.createUser("alice")
	for i := 0; i < 7; i++ {
		s.appendGame(alice, nil, nil, model.ModeAINormal)
	}
	last := s.appendGame(alice, nil, nil, model.ModeAIHard)

	games, err := s.storage.GamesForUser(s.ctx, alice, 5)
	s.Require().NoError(err)
	s.Len(games, 5)
	s.Equal(last, games[0].ID)
}

func (s *Suite) TestGamesForUserIncludesPlayer2() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	s.appendGame(alice, ptr(bob), nil, model.ModeTwoPlayer)

	games, err := s.storage.GamesForUser(s.ctx, bob, 0)
	s.Require().NoError(err)
	s.Len(games, 1)
}

func (s *Suite) TestGamesForUserEmpty() {
	alice := s.createUser("alice")
	games, err := s.storage.GamesForUser(s.ctx, alice, 10)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestStatsForUser() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	s.appendGame(alice, nil, ptr(alice), model.ModeAIHard)
	s.appendGame(alice, nil, ptr(alice), model.ModeAINormal)
	s.appendGame(alice, nil, nil, model.ModeAINightmare)
	s.appendGame(alice, nil, nil, model.ModeTwoPlayer)
	s.appendGame(bob, ptr(alice), ptr(bob), model.ModeAIHard)
	s.appendGame(bob, nil, nil, model.ModeTwoPlayer)

	stats, err := s.storage.StatsForUser(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(model.Stats{TotalGames: 5, Wins: 2, Losses: 2}, stats)

	stats, err = s.storage.StatsForUser(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(model.Stats{TotalGames: 2, Wins: 1, Losses: 0}, stats)
}

func (s *Suite) TestStatsForUserWithoutGames() {
	alice := s.createUser("alice")
	stats, err := s.storage.StatsForUser(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(model.Stats{}, stats)
}

func (s *Suite) TestDeleteAllGames() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	s.appendGame(alice, nil, nil, model.ModeAIHard)
	s.appendGame(bob, nil, nil, model.ModeAIHard)

	s.Require().NoError(s.storage.DeleteAllGames(s.ctx))

	for _, id := range []model.UserID{alice, bob} {
		games, err := s.storage.GamesForUser(s.ctx, id, 0)
		s.Require().NoError(err)
		s.Empty(games)
	}

	// Users are untouched
	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *Suite) TestDeleteGamesForUser() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")
	s.appendGame(alice, nil, nil, model.ModeAIHard)
	s.appendGame(carol, ptr(alice), nil, model.ModeTwoPlayer)
	s.appendGame(bob, nil, ptr(bob), model.ModeAIHard)

	s.Require().NoError(s.storage.DeleteGamesForUser(s.ctx, alice))

	games, err := s.storage.GamesForUser(s.ctx, alice, 0)
	s.Require().NoError(err)
	s.Empty(games)

	games, err = s.storage.GamesForUser(s.ctx, carol, 0)
	s.Require().NoError(err)
	s.Empty(games)

	games, err = s.storage.GamesForUser(s.ctx, bob, 0)
	s.Require().NoError(err)
	s.Len(games, 1)
}
