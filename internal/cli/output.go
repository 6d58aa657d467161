package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		o.printUsers(v)
	case AuthResult:
		o.printAuthResult(v)
	case AccountResult:
		o.printAccount(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult combines user and token
type AuthResult struct {
	Success      bool      `json:"success"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// RegisterResult is the API registration reply
type RegisterResult struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// Stats response type
type Stats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}

// Game response type
type Game struct {
	ID            int64     `json:"id"`
	GameMode      string    `json:"game_mode"`
	Player1Nation string    `json:"player1_nation"`
	Player2Nation string    `json:"player2_nation"`
	Result        string    `json:"result"`
	PlayedAt      time.Time `json:"played_at"`
}

// AccountResult is the account summary
type AccountResult struct {
	Success     bool   `json:"success"`
	User        User   `json:"user"`
	Stats       Stats  `json:"stats"`
	RecentGames []Game `json:"recent_games"`
}

// SuccessResult is a bare acknowledgement
type SuccessResult struct {
	Success bool `json:"success"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	role := "player"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(o.w, "User: %s (ID: %d)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	fmt.Fprintf(o.w, "Role: %s\n", role)
}

func (o *Output) printUsers(users []User) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tADMIN\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Email, u.IsAdmin, u.CreatedAt.Format(time.DateOnly))
	}
	_ = tw.Flush()
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Fprintf(o.w, "Logged in as %s (ID: %d)\n", a.User.Username, a.User.ID)
	fmt.Fprintf(o.w, "Session expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printAccount(a AccountResult) {
	o.printUser(a.User)
	fmt.Fprintf(o.w, "\nGames: %d  Wins: %d  Losses: %d\n", a.Stats.TotalGames, a.Stats.Wins, a.Stats.Losses)

	if len(a.RecentGames) == 0 {
		fmt.Fprintln(o.w, "\nNo games played yet.")
		return
	}

	fmt.Fprintln(o.w, "\nRecent games:")
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	for _, g := range a.RecentGames {
		fmt.Fprintf(tw, "  %s\t%s\t%s vs %s\t%s\n",
			g.PlayedAt.Format(time.DateTime), g.GameMode, g.Player1Nation, g.Player2Nation, g.Result)
	}
	_ = tw.Flush()
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
