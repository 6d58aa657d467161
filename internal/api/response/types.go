package response

import (
	"time"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/admin"
	"github.com/mcoot/tankbattle/internal/services/auth"
)

// DateLayout formats game dates in the admin view
const DateLayout = "2006-01-02"

// User is the public view of an account. The password hash is never sent.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is a user's win/loss summary
type Stats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}

// Game is one entry of a user's history
type Game struct {
	ID            int64     `json:"id"`
	GameMode      string    `json:"game_mode"`
	Player1Nation string    `json:"player1_nation"`
	Player2Nation string    `json:"player2_nation"`
	Result        string    `json:"result"`
	PlayedAt      time.Time `json:"played_at"`
}

// AdminGame is the condensed game entry shown on the admin dashboard
type AdminGame struct {
	Mode   string `json:"mode"`
	Result string `json:"result"`
	Date   string `json:"date"`
}

// Success is the body of a request that has nothing else to say
type Success struct {
	Success bool `json:"success"`
}

// Redirect tells the browser where to go next
type Redirect struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

// AuthResponse is returned by the API login
type AuthResponse struct {
	Success      bool      `json:"success"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Registered is returned by the API registration
type Registered struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// Account is a user's own stats page
type Account struct {
	Success     bool   `json:"success"`
	User        User   `json:"user"`
	Stats       Stats  `json:"stats"`
	RecentGames []Game `json:"recent_games"`
}

// UserStats is the admin detail view of a user
type UserStats struct {
	Success     bool        `json:"success"`
	User        User        `json:"user"`
	Stats       Stats       `json:"stats"`
	RecentGames []AdminGame `json:"recent_games"`
}

// Health reports liveness
type Health struct {
	Status string `json:"status"`
}

// UserFromModel converts a model.User to a User response
func UserFromModel(u *model.User) User {
	return User{
		ID:        int64(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// StatsFromModel converts model.Stats to a Stats response
func StatsFromModel(s model.Stats) Stats {
	return Stats{TotalGames: s.TotalGames, Wins: s.Wins, Losses: s.Losses}
}

// GamesFromSummaries converts a user's recent games
func GamesFromSummaries(summaries []model.GameSummary) []Game {
	games := make([]Game, len(summaries))
	for i, s := range summaries {
		games[i] = Game{
			ID:            int64(s.Record.ID),
			GameMode:      string(s.Record.Mode),
			Player1Nation: string(s.Record.Player1Nation),
			Player2Nation: string(s.Record.Player2Nation),
			Result:        string(s.Result),
			PlayedAt:      s.Record.PlayedAt,
		}
	}
	return games
}

// AdminGamesFromSummaries converts recent games for the admin view
func AdminGamesFromSummaries(summaries []model.GameSummary) []AdminGame {
	games := make([]AdminGame, len(summaries))
	for i, s := range summaries {
		games[i] = AdminGame{
			Mode:   string(s.Record.Mode),
			Result: string(s.Result),
			Date:   s.Record.PlayedAt.Format(DateLayout),
		}
	}
	return games
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(session *auth.Session) AuthResponse {
	return AuthResponse{
		Success:      true,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		User:         UserFromModel(&session.User),
	}
}

// UserStatsFromDetail creates the admin detail view
func UserStatsFromDetail(detail *admin.UserDetail) UserStats {
	return UserStats{
		Success:     true,
		User:        UserFromModel(&detail.User),
		Stats:       StatsFromModel(detail.Stats),
		RecentGames: AdminGamesFromSummaries(detail.Recent),
	}
}
