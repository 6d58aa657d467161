package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/web/templates/layout"
)

// AdminData is the data for the admin dashboard
type AdminData struct {
	layout.PageData
	Users []model.User
}

// Admin renders the user directory with per-user actions. Actions post
// to the admin JSON endpoints and reload the page.
func Admin(data AdminData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="admin"><h1>Users</h1>`)
		hw.Raw(`<button class="danger" data-action="/admin/clear_history">Clear all game history</button>`)
		hw.Raw(`<table class="users"><thead><tr><th>Username</th><th>Email</th><th>Joined</th><th>Role</th><th></th></tr></thead><tbody>`)
		for _, u := range data.Users {
			id := u.ID.String()
			hw.Raw(`<tr class="user-row" data-user-id="` + id + `"><td class="username">`)
			hw.Text(u.Username)
			hw.Raw(`</td><td>`)
			hw.Text(u.Email)
			hw.Raw(`</td><td>`)
			hw.Text(u.CreatedAt.Format("2006-01-02"))
			hw.Raw(`</td><td class="role">`)
			if u.IsAdmin {
				hw.Raw(`admin`)
			} else {
				hw.Raw(`player`)
			}
			hw.Raw(`</td><td class="actions">`)
			hw.Raw(`<button data-stats="/admin/user_stats/` + id + `">Stats</button>`)
			hw.Raw(`<button data-action="/admin/clear_user_history/` + id + `">Clear history</button>`)
			if data.User == nil || u.ID != data.User.ID {
				hw.Raw(`<button class="danger" data-action="/admin/delete_user/` + id + `">Delete</button>`)
			}
			hw.Raw(`</td></tr>`)
		}
		hw.Raw(`</tbody></table><pre id="user-stats" hidden></pre></section>`)
		hw.Raw(adminScript)
		return hw.Err()
	}))
}

const adminScript = `<script>
document.querySelectorAll("button[data-action]").forEach(function (btn) {
  btn.addEventListener("click", async function () {
    if (!confirm("Are you sure?")) return;
    const res = await fetch(btn.dataset.action, {method: "POST"});
    const data = await res.json();
    if (!data.success) { alert(data.message); return; }
    window.location.reload();
  });
});
document.querySelectorAll("button[data-stats]").forEach(function (btn) {
  btn.addEventListener("click", async function () {
    const res = await fetch(btn.dataset.stats);
    const el = document.getElementById("user-stats");
    el.textContent = JSON.stringify(await res.json(), null, 2);
    el.hidden = false;
  });
});
</script>`
