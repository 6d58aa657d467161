package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Foreign-key cascades are emulated with per-user index sets.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Ping checks the server answers
func (s *Storage) Ping(ctx context.Context) error {
	return unavailable(s.client.Ping(ctx).Err())
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// unavailable wraps transport failures; sentinel errors pass through
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrUserNotFound):
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	nameKey := usernameIndexKey(user.Username)
	mailKey := emailIndexKey(user.Email)

	var id model.UserID
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		taken, err := tx.Exists(ctx, nameKey, mailKey).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return model.ErrConflict
		}

		next, err := tx.Incr(ctx, userSeqKey()).Result()
		if err != nil {
			return err
		}
		id = model.UserID(next)

		stored := *user
		stored.ID = id
		data, err := json.Marshal(&stored)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(id), data, 0)
			pipe.Set(ctx, nameKey, id.String(), 0)
			pipe.Set(ctx, mailKey, id.String(), 0)
			pipe.SAdd(ctx, usersIndexKey(), id.String())
			return nil
		})
		return err
	}, nameKey, mailKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Someone else claimed the username or email in between
		return 0, model.ErrConflict
	}
	if err != nil {
		return 0, unavailable(err)
	}

	user.ID = id
	return id, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, unavailable(err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, unavailable(err)
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, unavailable(err)
	}

	id, err := model.ParseUserID(idStr)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	ids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	users := make([]model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	keys := make([]string, 0, len(ids))
	for _, idStr := range ids {
		id, err := model.ParseUserID(idStr)
		if err != nil {
			continue // Skip invalid data
		}
		keys = append(keys, userKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between SMEMBERS and MGET
		}
		var user model.User
		if err := json.Unmarshal([]byte(str), &user); err != nil {
			continue // Skip invalid data
		}
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

func (s *Storage) SetUserAdmin(ctx context.Context, id model.UserID, isAdmin bool) error {
	key := userKey(id)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		user, err := s.getUserTx(ctx, tx, id)
		if err != nil {
			return err
		}
		user.IsAdmin = isAdmin
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	return unavailable(err)
}

// deleteRetries bounds how often DeleteUser restarts after a concurrent
// write to the user's game indexes
const deleteRetries = 5

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	for range deleteRetries {
		err := s.deleteUser(ctx, id)
		if !errors.Is(err, redis.TxFailedErr) {
			return unavailable(err)
		}
	}
	return fmt.Errorf("%w: delete user %d: too much contention", model.ErrStoreUnavailable, id)
}

// deleteWatchKeys are the keys whose change invalidates a pending delete.
// AppendGame writes the game indexes but never the user key.
func deleteWatchKeys(id model.UserID) []string {
	return []string{userKey(id), gamesAsPlayer1IndexKey(id), gamesWonIndexKey(id)}
}

func (s *Storage) deleteUser(ctx context.Context, id model.UserID) error {
	key := userKey(id)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		user, err := s.getUserTx(ctx, tx, id)
		if err != nil {
			return err
		}

		// Games where the user is player 1 or the winner go with them
		ids, err := tx.SUnion(ctx, gamesAsPlayer1IndexKey(id), gamesWonIndexKey(id)).Result()
		if err != nil {
			return err
		}
		games, err := s.fetchGames(ctx, tx, ids)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			removeGames(ctx, pipe, games)
			pipe.Del(ctx, key, usernameIndexKey(user.Username), emailIndexKey(user.Email))
			pipe.Del(ctx, gamesAsPlayer1IndexKey(id), gamesWonIndexKey(id))
			pipe.SRem(ctx, usersIndexKey(), id.String())
			return nil
		})
		return err
	}, deleteWatchKeys(id)...)
}

func (s *Storage) getUserTx(ctx context.Context, tx *redis.Tx, id model.UserID) (*model.User, error) {
	data, err := tx.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Game history operations

func (s *Storage) AppendGame(ctx context.Context, record *model.GameRecord) (model.GameID, error) {
	watched := []string{userKey(record.Player1ID)}
	if record.WinnerID != nil {
		watched = append(watched, userKey(*record.WinnerID))
	}

	var id model.GameID
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		found, err := tx.Exists(ctx, watched...).Result()
		if err != nil {
			return err
		}
		if int(found) != len(watched) {
			return model.ErrUserNotFound
		}

		next, err := tx.Incr(ctx, gameSeqKey()).Result()
		if err != nil {
			return err
		}
		id = model.GameID(next)

		stored := *record
		stored.ID = id
		data, err := json.Marshal(&stored)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			member := strconv.FormatInt(int64(id), 10)
			pipe.Set(ctx, gameKey(id), data, 0)
			pipe.SAdd(ctx, gamesIndexKey(), member)
			pipe.SAdd(ctx, gamesForUserIndexKey(stored.Player1ID), member)
			pipe.SAdd(ctx, gamesAsPlayer1IndexKey(stored.Player1ID), member)
			if stored.Player2ID != nil {
				pipe.SAdd(ctx, gamesForUserIndexKey(*stored.Player2ID), member)
			}
			if stored.WinnerID != nil {
				pipe.SAdd(ctx, gamesWonIndexKey(*stored.WinnerID), member)
			}
			return nil
		})
		return err
	}, watched...)
	if errors.Is(err, redis.TxFailedErr) {
		// A referenced user was deleted concurrently
		return 0, model.ErrUserNotFound
	}
	if err != nil {
		return 0, unavailable(err)
	}

	record.ID = id
	return id, nil
}

func (s *Storage) GamesForUser(ctx context.Context, id model.UserID, limit int) ([]model.GameRecord, error) {
	games, err := s.gamesForUser(ctx, id)
	if err != nil {
		return nil, unavailable(err)
	}

	sort.Slice(games, func(i, j int) bool {
		if !games[i].PlayedAt.Equal(games[j].PlayedAt) {
			return games[i].PlayedAt.After(games[j].PlayedAt)
		}
		return games[i].ID > games[j].ID
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	result := make([]model.GameRecord, len(games))
	for i, g := range games {
		result[i] = *g
	}
	return result, nil
}

func (s *Storage) StatsForUser(ctx context.Context, id model.UserID) (model.Stats, error) {
	games, err := s.gamesForUser(ctx, id)
	if err != nil {
		return model.Stats{}, unavailable(err)
	}

	var stats model.Stats
	for _, g := range games {
		stats.Tally(g, id)
	}
	return stats, nil
}

func (s *Storage) DeleteAllGames(ctx context.Context) error {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return unavailable(err)
	}
	return unavailable(s.deleteGames(ctx, ids))
}

func (s *Storage) DeleteGamesForUser(ctx context.Context, id model.UserID) error {
	ids, err := s.client.SMembers(ctx, gamesForUserIndexKey(id)).Result()
	if err != nil {
		return unavailable(err)
	}
	return unavailable(s.deleteGames(ctx, ids))
}

func (s *Storage) gamesForUser(ctx context.Context, id model.UserID) ([]*model.GameRecord, error) {
	ids, err := s.client.SMembers(ctx, gamesForUserIndexKey(id)).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchGames(ctx, s.client, ids)
}

// fetchGames loads the given game ids in one MGET, skipping missing entries
func (s *Storage) fetchGames(ctx context.Context, c redis.Cmdable, ids []string) ([]*model.GameRecord, error) {
	if len(ids) == 0 {
		return []*model.GameRecord{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, idStr := range ids {
		n, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue // Skip invalid data
		}
		keys = append(keys, gameKey(model.GameID(n)))
	}
	if len(keys) == 0 {
		return []*model.GameRecord{}, nil
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.GameRecord, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Game removed concurrently
		}
		var g model.GameRecord
		if err := json.Unmarshal([]byte(str), &g); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &g)
	}
	return games, nil
}

func (s *Storage) deleteGames(ctx context.Context, ids []string) error {
	games, err := s.fetchGames(ctx, s.client, ids)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removeGames(ctx, pipe, games)
		return nil
	})
	return err
}

// removeGames queues deletion of each game and its index memberships
func removeGames(ctx context.Context, pipe redis.Pipeliner, games []*model.GameRecord) {
	for _, g := range games {
		member := strconv.FormatInt(int64(g.ID), 10)
		pipe.Del(ctx, gameKey(g.ID))
		pipe.SRem(ctx, gamesIndexKey(), member)
		pipe.SRem(ctx, gamesForUserIndexKey(g.Player1ID), member)
		pipe.SRem(ctx, gamesAsPlayer1IndexKey(g.Player1ID), member)
		if g.Player2ID != nil {
			pipe.SRem(ctx, gamesForUserIndexKey(*g.Player2ID), member)
		}
		if g.WinnerID != nil {
			pipe.SRem(ctx, gamesWonIndexKey(*g.WinnerID), member)
		}
	}
}
