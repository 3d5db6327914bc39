package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
)

// LoginData holds data for the login page
type LoginData struct {
	layout.PageData
	Username string
	Error    string
	Next     string
}

// Login renders the login form
func Login(data LoginData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw("<h1>Login</h1>")
		if data.Error != "" {
			hw.Raw(`<p class="error" id="form-error">`)
			hw.Text(data.Error)
			hw.Raw("</p>")
		}
		hw.Raw(`<form class="auth" method="post" action="/login">`)
		if data.Next != "" {
			hw.Raw(`<input type="hidden" name="next"`)
			hw.Attr("value", data.Next)
			hw.Raw(">")
		}
		hw.Raw(`<label for="username">Username</label><input id="username" name="username" autocomplete="username" required`)
		hw.Attr("value", data.Username)
		hw.Raw(">")
		hw.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password" required>`)
		hw.Raw(`<p><button type="submit">Login</button></p></form>`)
		hw.Raw(`<p>No account yet? <a href="/signup">Sign up</a></p>`)
		return hw.Err()
	}))
}

// SignupData holds data for the signup page
type SignupData struct {
	layout.PageData
	Username    string
	Error       string
	FieldErrors map[string]string
}

// Signup renders the signup form
func Signup(data SignupData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw("<h1>Create an account</h1>")
		if data.Error != "" {
			hw.Raw(`<p class="error" id="form-error">`)
			hw.Text(data.Error)
			hw.Raw("</p>")
		}
		hw.Raw(`<form class="auth" method="post" action="/signup">`)

		hw.Raw(`<label for="username">Username</label><input id="username" name="username" autocomplete="username" required`)
		hw.Attr("value", data.Username)
		hw.Raw(">")
		fieldError(hw, "username", data.FieldErrors)

		hw.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" autocomplete="new-password" required>`)
		fieldError(hw, "password", data.FieldErrors)

		hw.Raw(`<label for="password_confirm">Confirm password</label><input id="password_confirm" name="password_confirm" type="password" autocomplete="new-password" required>`)
		fieldError(hw, "password_confirm", data.FieldErrors)

		hw.Raw(`<p><button type="submit">Signup</button></p></form>`)
		hw.Raw(`<p>Already registered? <a href="/login">Login</a></p>`)
		return hw.Err()
	}))
}

func fieldError(hw *layout.Writer, field string, errs map[string]string) {
	msg, ok := errs[field]
	if !ok {
		return
	}
	hw.Raw(`<p class="error field-error"`)
	hw.Attr("data-field", field)
	hw.Raw(">")
	hw.Text(msg)
	hw.Raw("</p>")
}
