package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const dropSQL = `
DROP TABLE IF EXISTS game_history CASCADE;
DROP TABLE IF EXISTS users CASCADE;
`

// Postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Storage is a Postgres-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New creates a new Postgres storage instance and verifies the connection
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}

	return &Storage{pool: pool}, nil
}

// NewWithPool creates a Postgres storage with an existing pool
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Ping checks a pooled connection can reach the server
func (s *Storage) Ping(ctx context.Context) error {
	return translate(s.pool.Ping(ctx))
}

// Close releases every pooled connection
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Migrate creates the schema if it does not exist. With reset, existing
// tables and their data are dropped first.
func (s *Storage) Migrate(ctx context.Context, reset bool) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if reset {
			if _, err := tx.Exec(ctx, dropSQL); err != nil {
				return translate(err)
			}
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return translate(err)
		}
		return nil
	})
}

// translate maps driver errors onto the model's sentinel errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return model.ErrConflict
		case foreignKeyViolation:
			return model.ErrUserNotFound
		}
	}
	return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
}

// User operations

const userColumns = `id, username, email, password_hash, is_admin, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u  model.User
		id int64
	)
	if err := row.Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ID = model.UserID(id)
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	q := `INSERT INTO users (username, email, password_hash, is_admin, created_at)
	      VALUES ($1, $2, $3, $4, $5)
	      RETURNING id`

	var id int64
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt,
		).Scan(&id)
	})
	if err != nil {
		return 0, translate(err)
	}

	user.ID = model.UserID(id)
	return user.ID, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, q, int64(id)))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, q, username))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *Storage) SetUserAdmin(ctx context.Context, id model.UserID, isAdmin bool) error {
	q := `UPDATE users SET is_admin = $1 WHERE id = $2`
	return s.execAffectingUser(ctx, q, isAdmin, int64(id))
}

// DeleteUser relies on ON DELETE CASCADE to drop the user's history rows
func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	q := `DELETE FROM users WHERE id = $1`
	return s.execAffectingUser(ctx, q, int64(id))
}

// execAffectingUser runs a statement that must touch exactly one user row
func (s *Storage) execAffectingUser(ctx context.Context, q string, args ...any) error {
	return translate(pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}))
}

// Game history operations

func nullableID(id *model.UserID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

func fromNullableID(v *int64) *model.UserID {
	if v == nil {
		return nil
	}
	id := model.UserID(*v)
	return &id
}

func (s *Storage) AppendGame(ctx context.Context, record *model.GameRecord) (model.GameID, error) {
	q := `INSERT INTO game_history
	          (player1_id, player1_nation, player2_id, player2_nation, winner_id, game_mode, played_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)
	      RETURNING id`

	var id int64
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			int64(record.Player1ID), string(record.Player1Nation),
			nullableID(record.Player2ID), string(record.Player2Nation),
			nullableID(record.WinnerID), string(record.Mode), record.PlayedAt,
		).Scan(&id)
	})
	if err != nil {
		return 0, translate(err)
	}

	record.ID = model.GameID(id)
	return record.ID, nil
}

func (s *Storage) GamesForUser(ctx context.Context, id model.UserID, limit int) ([]model.GameRecord, error) {
	// LIMIT NULL means no limit
	q := `SELECT id, player1_id, player1_nation, player2_id, player2_nation, winner_id, game_mode, played_at
	      FROM game_history
	      WHERE player1_id = $1 OR player2_id = $1
	      ORDER BY played_at DESC, id DESC
	      LIMIT NULLIF($2::bigint, 0)`

	rows, err := s.pool.Query(ctx, q, int64(id), int64(limit))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	games := []model.GameRecord{}
	for rows.Next() {
		var (
			gameID, player1      int64
			player2, winner      *int64
			nation1, nation2, md string
			g                    model.GameRecord
		)
		if err := rows.Scan(&gameID, &player1, &nation1, &player2, &nation2, &winner, &md, &g.PlayedAt); err != nil {
			return nil, translate(err)
		}
		g.ID = model.GameID(gameID)
		g.Player1ID = model.UserID(player1)
		g.Player1Nation = model.Nation(nation1)
		g.Player2ID = fromNullableID(player2)
		g.Player2Nation = model.Nation(nation2)
		g.WinnerID = fromNullableID(winner)
		g.Mode = model.GameMode(md)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return games, nil
}

func (s *Storage) StatsForUser(ctx context.Context, id model.UserID) (model.Stats, error) {
	q := `SELECT
	          COUNT(*),
	          COUNT(*) FILTER (WHERE winner_id = $1),
	          COUNT(*) FILTER (WHERE winner_id IS DISTINCT FROM $1
	                           AND (winner_id IS NOT NULL OR game_mode LIKE 'ai-%'))
	      FROM game_history
	      WHERE player1_id = $1 OR player2_id = $1`

	var total, wins, losses int64
	if err := s.pool.QueryRow(ctx, q, int64(id)).Scan(&total, &wins, &losses); err != nil {
		return model.Stats{}, translate(err)
	}
	return model.Stats{TotalGames: int(total), Wins: int(wins), Losses: int(losses)}, nil
}

func (s *Storage) DeleteAllGames(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM game_history`)
	return translate(err)
}

func (s *Storage) DeleteGamesForUser(ctx context.Context, id model.UserID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM game_history WHERE player1_id = $1 OR player2_id = $1`, int64(id))
	return translate(err)
}
