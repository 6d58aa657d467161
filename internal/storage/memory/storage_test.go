package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
	"github.com/mcoot/tankbattle/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			return New()
		},
	})
}

func TestDeletingGamesReleasesDroppedRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, &model.User{Username: "alice", Email: "a@example.com", CreatedAt: time.Now()})
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, &model.User{Username: "bob", Email: "b@example.com", CreatedAt: time.Now()})
	require.NoError(t, err)

	for _, player := range []model.UserID{alice, bob, alice, bob} {
		_, err := s.AppendGame(ctx, &model.GameRecord{Player1ID: player, Mode: model.ModeAINormal, PlayedAt: time.Now()})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteGamesForUser(ctx, alice))
	require.Len(t, s.games, 2)

	// Nothing past len may still point at a removed record
	for _, g := range s.games[len(s.games):cap(s.games)] {
		assert.Nil(t, g)
	}

	require.NoError(t, s.DeleteUser(ctx, bob))
	assert.Empty(t, s.games)
	for _, g := range s.games[:cap(s.games)] {
		assert.Nil(t, g)
	}
}
