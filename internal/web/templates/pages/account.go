package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/web/templates/layout"
)

// AccountData is the data for the account page
type AccountData struct {
	layout.PageData
	Stats  model.Stats
	Recent []model.GameSummary
}

// Account renders the user's stats and recent games
func Account(data AccountData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="account"><h1>`)
		hw.Text(data.User.Username)
		hw.Raw(`</h1><p class="email">`)
		hw.Text(data.User.Email)
		hw.Raw(`</p>`)

		hw.Raw(`<dl class="stats">`)
		stat(hw, "total", "Games played", data.Stats.TotalGames)
		stat(hw, "wins", "Wins", data.Stats.Wins)
		stat(hw, "losses", "Losses", data.Stats.Losses)
		hw.Raw(`</dl>`)

		hw.Raw(`<h2>Recent games</h2>`)
		if len(data.Recent) == 0 {
			hw.Raw(`<p class="empty">No games played yet.</p></section>`)
			return hw.Err()
		}
		hw.Raw(`<table class="recent-games"><thead><tr><th>Date</th><th>Mode</th><th>Nations</th><th>Result</th></tr></thead><tbody>`)
		for _, g := range data.Recent {
			hw.Raw(`<tr class="game-row"><td>`)
			hw.Text(g.Record.PlayedAt.Format("2006-01-02 15:04"))
			hw.Raw(`</td><td class="mode">`)
			hw.Text(ModeLabel(g.Record.Mode))
			hw.Raw(`</td><td>`)
			hw.Text(string(g.Record.Player1Nation) + " vs " + string(g.Record.Player2Nation))
			hw.Raw(`</td><td class="result">`)
			hw.Text(string(g.Result))
			hw.Raw(`</td></tr>`)
		}
		hw.Raw(`</tbody></table></section>`)
		return hw.Err()
	}))
}

func stat(hw *layout.Writer, class, label string, value int) {
	hw.Raw(`<div class="stat ` + class + `"><dt>`)
	hw.Text(label)
	hw.Raw(`</dt><dd>`)
	hw.Text(strconv.Itoa(value))
	hw.Raw(`</dd></div>`)
}
