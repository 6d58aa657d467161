package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/web/templates/layout"
)

// ModeLabel is the display name of a game mode
func ModeLabel(mode model.GameMode) string {
	switch mode {
	case model.ModeTwoPlayer:
		return "Two Player (Local)"
	case model.ModeAINormal:
		return "vs AI (Normal)"
	case model.ModeAIHard:
		return "vs AI (Hard)"
	case model.ModeAINightmare:
		return "vs AI (Nightmare)"
	default:
		return string(mode)
	}
}

// Lobby renders the mode picker
func Lobby(data layout.PageData) templ.Component {
	return layout.Base(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="lobby"><h1>Welcome, `)
		hw.Text(data.User.Username)
		hw.Raw(`</h1><ul class="modes">`)
		for _, mode := range model.GameModes {
			hw.Raw(`<li><a class="mode" data-mode="`)
			hw.Text(string(mode))
			hw.Raw(`" href="/game/`)
			hw.Text(string(mode))
			hw.Raw(`">`)
			hw.Text(ModeLabel(mode))
			hw.Raw(`</a></li>`)
		}
		hw.Raw(`</ul><p><a href="/instructions">How to play</a></p></section>`)
		return hw.Err()
	}))
}

// Instructions renders the how-to-play page
func Instructions(data layout.PageData) templ.Component {
	return layout.Base(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="instructions"><h1>How to play</h1>`)
		hw.Raw(`<p>Pick a nation and destroy the enemy tank before it destroys yours.</p>`)
		hw.Raw(`<h2>Controls</h2><ul>`)
		hw.Raw(`<li>Player 1: WASD to move, Space to fire</li>`)
		hw.Raw(`<li>Player 2: arrow keys to move, Enter to fire</li></ul>`)
		hw.Raw(`<h2>Modes</h2><ul>`)
		for _, mode := range model.GameModes {
			hw.Raw(`<li>`)
			hw.Text(ModeLabel(mode))
			hw.Raw(`</li>`)
		}
		hw.Raw(`</ul><p>Games against the AI count towards your wins and losses. `)
		hw.Raw(`Local two player games are recorded without a winner.</p>`)
		hw.Raw(`<p><a href="/lobby">Back to lobby</a></p></section>`)
		return hw.Err()
	}))
}

// GameData is the data for the game page
type GameData struct {
	layout.PageData
	Mode model.GameMode
}

// Game renders the canvas the client-side game runs in
func Game(data GameData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="game"><h1>`)
		hw.Text(ModeLabel(data.Mode))
		hw.Raw(`</h1><canvas id="game" width="960" height="640" data-mode="`)
		hw.Text(string(data.Mode))
		hw.Raw(`" data-player="`)
		hw.Text(data.User.Username)
		hw.Raw(`"></canvas></section><script src="/static/js/game.js"></script>`)
		return hw.Err()
	}))
}
