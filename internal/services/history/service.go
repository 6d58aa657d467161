package history

import (
	"context"
	"log/slog"

	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

// Recent game limits for the account page and the admin detail view
const (
	AccountRecentLimit = 10
	AdminRecentLimit   = 5
)

// RecordParams describes a finished match as reported by the client
type RecordParams struct {
	PlayerID      model.UserID
	Mode          model.GameMode
	Player1Nation model.Nation
	Player2ID     *model.UserID
	Player2Nation model.Nation
	Winner        model.WinnerFlag
}

// Validate checks the client-reported fields
func (p RecordParams) Validate() error {
	if !p.Mode.Valid() {
		return model.ErrInvalidGameMode
	}
	if !p.Winner.Valid() {
		return model.ErrInvalidWinner
	}
	if !p.Player1Nation.Valid() || !p.Player2Nation.Valid() {
		return model.ErrInvalidNation
	}
	return nil
}

// Service is the game history ledger
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new history Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Record appends a finished match. A winner is only stored when a human
// beat the AI; local two-player games never carry one.
func (s *Service) Record(ctx context.Context, p RecordParams) (*model.GameRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	record := &model.GameRecord{
		Player1ID:     p.PlayerID,
		Player1Nation: p.Player1Nation,
		Player2ID:     p.Player2ID,
		Player2Nation: p.Player2Nation,
		Mode:          p.Mode,
		PlayedAt:      s.clock.Now(),
	}
	if p.Mode.IsAI() && p.Winner == model.WinnerPlayer1 {
		winner := p.PlayerID
		record.WinnerID = &winner
	}

	if _, err := s.storage.AppendGame(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("game recorded",
		slog.Int64("game_id", int64(record.ID)),
		slog.Int64("player_id", int64(p.PlayerID)),
		slog.String("mode", string(p.Mode)),
		slog.Bool("player_won", record.WinnerID != nil),
	)
	return record, nil
}

// StatsFor aggregates totals, wins and losses for the user
func (s *Service) StatsFor(ctx context.Context, userID model.UserID) (model.Stats, error) {
	return s.storage.StatsForUser(ctx, userID)
}

// RecentFor returns up to limit of the user's games, most recent first,
// each labelled from the user's point of view
func (s *Service) RecentFor(ctx context.Context, userID model.UserID, limit int) ([]model.GameSummary, error) {
	games, err := s.storage.GamesForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.GameSummary, len(games))
	for i, g := range games {
		summaries[i] = model.GameSummary{
			Record: g,
			Result: g.ResultFor(userID),
		}
	}
	return summaries, nil
}

// ClearAll deletes every game record
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.storage.DeleteAllGames(ctx); err != nil {
		return err
	}
	s.logger.Info("all game history cleared")
	return nil
}

// ClearFor deletes the records where the user was either player
func (s *Service) ClearFor(ctx context.Context, userID model.UserID) error {
	if err := s.storage.DeleteGamesForUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user game history cleared", slog.Int64("user_id", int64(userID)))
	return nil
}
