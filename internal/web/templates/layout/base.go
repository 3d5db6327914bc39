package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SiteName is shown in the browser title and the header
const SiteName = "Dashboard | Air Quality Index"

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData holds the data common to every page
type PageData struct {
	Title         string
	Authenticated bool
	Username      string
	CurrentPath   string
	Flash         *FlashMessage
}

// NavItem is one entry of the navigation menu
type NavItem struct {
	Label string
	Href  string
	// Post items render as a form button so the action is not a plain link
	Post bool
}

// NavItems returns the menu for the session state
// Anonymous visitors see only the way in; signed-in users see the dashboard,
// the contact page and the way out
func NavItems(authenticated bool) []NavItem {
	if !authenticated {
		return []NavItem{
			{Label: "Login", Href: "/login"},
			{Label: "Signup", Href: "/signup"},
		}
	}
	return []NavItem{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Connect", Href: "/connect"},
		{Label: "Logout", Href: "/logout", Post: true},
	}
}

// Base renders the page chrome around body
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)

		hw.Raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw("<title>")
		if data.Title != "" {
			hw.Text(data.Title + " - ")
		}
		hw.Text(SiteName)
		hw.Raw("</title>")
		hw.Raw(stylesheet)
		hw.Raw("</head><body>")

		hw.Raw(`<aside class="sidebar"><h2>Welcome!</h2>`)
		if data.Authenticated {
			hw.Raw(`<p class="user">Signed in as <strong>`)
			hw.Text(data.Username)
			hw.Raw("</strong></p>")
		}
		hw.Raw("<nav><ul>")
		for _, item := range NavItems(data.Authenticated) {
			renderNavItem(hw, item, data.CurrentPath)
		}
		hw.Raw("</ul></nav></aside>")

		hw.Raw(`<main class="content">`)
		if data.Flash != nil {
			hw.Raw(`<div class="flash flash-`)
			hw.Text(data.Flash.Type)
			hw.Raw(`" role="status">`)
			hw.Text(data.Flash.Message)
			hw.Raw("</div>")
		}
		if err := hw.Err(); err != nil {
			return err
		}

		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}

		hw.Raw("</main></body></html>")
		return hw.Err()
	})
}

func renderNavItem(hw *Writer, item NavItem, currentPath string) {
	hw.Raw("<li")
	if item.Href == currentPath {
		hw.Attr("class", "active")
	}
	hw.Raw(">")
	if item.Post {
		hw.Raw(`<form method="post"`)
		hw.URLAttr("action", item.Href)
		hw.Raw(`><button type="submit" class="link">`)
		hw.Text(item.Label)
		hw.Raw("</button></form>")
	} else {
		hw.Raw("<a")
		hw.URLAttr("href", item.Href)
		hw.Raw(">")
		hw.Text(item.Label)
		hw.Raw("</a>")
	}
	hw.Raw("</li>")
}

// Footer is the credit line shown under content pages
func Footer() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<footer class="footer"><p>&copy; Infosys Springboard Internship 5.0. All rights reserved.<br>Created with &#10084;&#65039; by Gayatri Deshmukh</p></footer>`)
		return hw.Err()
	})
}

const stylesheet = `<style>
body{margin:0;display:flex;font-family:system-ui,sans-serif;color:#262730}
.sidebar{width:15rem;min-height:100vh;background:#f0f2f6;padding:1.5rem}
.sidebar ul{list-style:none;padding:0}
.sidebar li{margin:.25rem 0}
.sidebar li a,.sidebar button.link{display:block;width:100%;text-align:left;padding:.5rem .75rem;border:0;border-radius:.5rem;background:none;color:inherit;font:inherit;text-decoration:none;cursor:pointer}
.sidebar li.active a{background:#ff4b4b;color:#fff}
.content{flex:1;padding:2rem 3rem;max-width:72rem}
.flash{padding:.75rem 1rem;border-radius:.5rem;margin-bottom:1rem}
.flash-success{background:#dff5e3}.flash-error{background:#fde2e2}.flash-info{background:#e2ecfd}
.error{color:#b00020}
form.auth label{display:block;margin-top:.75rem}
form.auth input{width:20rem;padding:.4rem}
.footer{background:#f0f2f6;padding:20px;text-align:center;border-radius:20px;box-shadow:0 4px 6px rgba(0,0,0,.1);margin-top:2rem}
.custom-button{display:inline-block;background:#f0f0f0;color:#333;font-weight:bold;padding:10px 20px;border-radius:5px;border:1px solid #ccc;text-decoration:none;margin-right:1rem}
</style>`
