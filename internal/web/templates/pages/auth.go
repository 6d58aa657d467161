package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/web/templates/layout"
)

// Login renders the login form. The form posts JSON and follows the
// redirect in the reply.
func Login(data layout.PageData) templ.Component {
	return layout.Base(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="auth"><h1>Login</h1>`)
		hw.Raw(`<form id="login-form" data-endpoint="/login">`)
		hw.Raw(`<label for="username">Username</label><input id="username" name="username" required>`)
		hw.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" required>`)
		hw.Raw(`<p class="error" id="form-error" hidden></p>`)
		hw.Raw(`<button type="submit">Login</button></form>`)
		hw.Raw(`<p>No account? <a href="/register">Register</a></p></section>`)
		hw.Raw(jsonFormScript)
		return hw.Err()
	}))
}

// Register renders the registration form
func Register(data layout.PageData) templ.Component {
	return layout.Base(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="auth"><h1>Register</h1>`)
		hw.Raw(`<form id="register-form" data-endpoint="/register">`)
		hw.Raw(`<label for="username">Username</label><input id="username" name="username" maxlength="50" required>`)
		hw.Raw(`<label for="email">Email</label><input id="email" name="email" type="email" maxlength="100" required>`)
		hw.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" minlength="6" required>`)
		hw.Raw(`<p class="error" id="form-error" hidden></p>`)
		hw.Raw(`<button type="submit">Register</button></form>`)
		hw.Raw(`<p>Already registered? <a href="/login">Login</a></p></section>`)
		hw.Raw(jsonFormScript)
		return hw.Err()
	}))
}

const jsonFormScript = `<script>
document.querySelectorAll("form[data-endpoint]").forEach(function (form) {
  form.addEventListener("submit", async function (e) {
    e.preventDefault();
    const body = Object.fromEntries(new FormData(form).entries());
    const res = await fetch(form.dataset.endpoint, {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(body),
    });
    const data = await res.json();
    if (data.success) {
      window.location = data.redirect;
      return;
    }
    const el = document.getElementById("form-error");
    el.textContent = data.message;
    el.hidden = false;
  });
});
</script>`
