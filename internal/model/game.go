package model

import (
	"strings"
	"time"
)

// GameID identifies a recorded match
type GameID int64

// GameMode is the kind of match the client played
type GameMode string

const (
	ModeTwoPlayer   GameMode = "2player" // local hot-seat, no winner tracking
	ModeAINormal    GameMode = "ai-normal"
	ModeAIHard      GameMode = "ai-hard"
	ModeAINightmare GameMode = "ai-nightmare"
)

const aiModePrefix = "ai-"

// GameModes lists every mode the client can play
var GameModes = []GameMode{ModeTwoPlayer, ModeAINormal, ModeAIHard, ModeAINightmare}

// IsAI reports whether the opponent was the computer
func (m GameMode) IsAI() bool {
	return strings.HasPrefix(string(m), aiModePrefix)
}

// Valid reports whether m is one of GameModes
func (m GameMode) Valid() bool {
	for _, known := range GameModes {
		if m == known {
			return true
		}
	}
	return false
}

// Nation is the faction a side played as
type Nation string

const (
	NationUS      Nation = "US"
	NationGerman  Nation = "German"
	NationUSSR    Nation = "USSR"
	NationBritain Nation = "Britain"
	NationJapan   Nation = "Japan"
)

// Nations lists the nations offered by the client
var Nations = []Nation{NationUS, NationGerman, NationUSSR, NationBritain, NationJapan}

// Valid reports whether n is one of Nations
func (n Nation) Valid() bool {
	for _, known := range Nations {
		if n == known {
			return true
		}
	}
	return false
}

// WinnerFlag is the side the client reports as the winner
type WinnerFlag int

const (
	WinnerPlayer1 WinnerFlag = 1 // the submitting (human) side
	WinnerPlayer2 WinnerFlag = 2 // the second player or the AI
)

// Valid reports whether f names one of the two sides
func (f WinnerFlag) Valid() bool {
	return f == WinnerPlayer1 || f == WinnerPlayer2
}

// GameRecord is one completed match. Records are append-only.
type GameRecord struct {
	ID            GameID
	Player1ID     UserID
	Player1Nation Nation
	Player2ID     *UserID // nil for AI opponents
	Player2Nation Nation
	WinnerID      *UserID // set only for AI games the human won
	Mode          GameMode
	PlayedAt      time.Time
}

// Involves reports whether the user played either side of the match
func (g *GameRecord) Involves(id UserID) bool {
	return g.Player1ID == id || (g.Player2ID != nil && *g.Player2ID == id)
}

// ResultFor labels the match from the point of view of the given user
func (g *GameRecord) ResultFor(id UserID) Result {
	if !g.Mode.IsAI() {
		return ResultLocal
	}
	if g.WinnerID != nil && *g.WinnerID == id {
		return ResultVictory
	}
	return ResultDefeat
}

// Result is the outcome label shown in game history
type Result string

const (
	ResultVictory Result = "Victory"
	ResultDefeat  Result = "Defeat"
	ResultLocal   Result = "Local"
)

// GameSummary pairs a record with its result for one viewer
type GameSummary struct {
	Record GameRecord
	Result Result
}

// Stats aggregates a user's history. A loss is an AI game the user did
// not win, or any game won by someone else. Local games without a
// winner add to TotalGames alone.
type Stats struct {
	TotalGames int
	Wins       int
	Losses     int
}

// Tally folds a record into the stats of the given user
func (s *Stats) Tally(g *GameRecord, id UserID) {
	if !g.Involves(id) {
		return
	}
	s.TotalGames++
	switch {
	case g.WinnerID != nil && *g.WinnerID == id:
		s.Wins++
	case g.WinnerID != nil || g.Mode.IsAI():
		s.Losses++
	}
}
