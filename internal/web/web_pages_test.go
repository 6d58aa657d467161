package web_test

import (
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/history"
)

func historyParams(player model.UserID, mode model.GameMode, winner model.WinnerFlag) history.RecordParams {
	return history.RecordParams{
		PlayerID:      player,
		Mode:          mode,
		Player1Nation: model.NationUS,
		Player2Nation: model.NationGerman,
		Winner:        winner,
	}
}

func TestHomeRedirects(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		ts := newWebTestServer(t)
		assertRedirect(t, ts.get("/"), "/login")
	})

	t.Run("player", func(t *testing.T) {
		ts := newWebTestServer(t)
		ts.signIn("alice", false)
		assertRedirect(t, ts.get("/"), "/lobby")
	})

	t.Run("admin", func(t *testing.T) {
		ts := newWebTestServer(t)
		ts.signIn("root", true)
		assertRedirect(t, ts.get("/"), "/admin")
	})
}

func TestProtectedPagesRequireLogin(t *testing.T) {
	ts := newWebTestServer(t)

	for _, path := range []string{"/lobby", "/instructions", "/game/ai-normal", "/account", "/admin"} {
		t.Run(path, func(t *testing.T) {
			assertRedirect(t, ts.get(path), "/login")
		})
	}
}

func TestLobby(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	rr := ts.get("/lobby")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav .username", "alice")
	assert.Equal(t, len(model.GameModes), doc.Find("a.mode").Length())
	assertContainsElement(t, doc, "a[href='/game/ai-nightmare']")
	assertNotContainsElement(t, doc, "nav a[href='/admin']")
}

func TestLobbySendsAdminToDashboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("root", true)

	assertRedirect(t, ts.get("/lobby"), "/admin")
}

func TestInstructions(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	rr := ts.get("/instructions")
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "h1", "How to play")
}

func TestGamePage(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	for _, mode := range model.GameModes {
		t.Run(string(mode), func(t *testing.T) {
			rr := ts.get("/game/" + string(mode))
			require.Equal(t, http.StatusOK, rr.Code)

			doc := parseHTML(rr.Body)
			canvas := doc.Find("canvas#game")
			require.Equal(t, 1, canvas.Length())
			assert.Equal(t, string(mode), canvas.AttrOr("data-mode", ""))
			assert.Equal(t, "alice", canvas.AttrOr("data-player", ""))
		})
	}
}

func TestGamePageUnknownMode(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	assertRedirect(t, ts.get("/game/chess"), "/lobby")
}

func TestAccountPage(t *testing.T) {
	ts := newWebTestServer(t)
	bob := ts.signIn("bob", false)

	ts.recordGame(bob, model.ModeAIHard, model.WinnerPlayer1)
	ts.recordGame(bob, model.ModeAINormal, model.WinnerPlayer2)
	ts.recordGame(bob, model.ModeTwoPlayer, model.WinnerPlayer1)

	rr := ts.get("/account")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".account h1", "bob")
	assertContainsText(t, doc, ".stat.total dd", "3")
	assertContainsText(t, doc, ".stat.wins dd", "1")
	assertContainsText(t, doc, ".stat.losses dd", "1")

	results := doc.Find("tr.game-row td.result").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"Local", "Defeat", "Victory"}, results)
}

func TestAccountPageLimitsRecentGames(t *testing.T) {
	ts := newWebTestServer(t)
	bob := ts.signIn("bob", false)

	for range history.AccountRecentLimit + 3 {
		ts.recordGame(bob, model.ModeAINormal, model.WinnerPlayer2)
	}

	doc := parseHTML(ts.get("/account").Body)
	assert.Equal(t, history.AccountRecentLimit, doc.Find("tr.game-row").Length())
	assertContainsText(t, doc, ".stat.total dd", "13")
}

func TestAccountPageEmpty(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("carol", false)

	doc := parseHTML(ts.get("/account").Body)
	assertContainsElement(t, doc, "p.empty")
	assertContainsText(t, doc, ".stat.total dd", "0")
}

func TestPageEscapesUserInput(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("<b>mallory</b>", false)

	rr := ts.get("/lobby")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<b>mallory</b>")
	assert.Contains(t, rr.Body.String(), "&lt;b&gt;mallory&lt;/b&gt;")
}
