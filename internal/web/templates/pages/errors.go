package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
)

// ErrorData holds data for an error page
type ErrorData struct {
	layout.PageData
	Heading string
	Message string
}

// Error renders a full error page inside the normal layout
func Error(data ErrorData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<h1 class="error-heading">`)
		hw.Text(data.Heading)
		hw.Raw("</h1><p>")
		hw.Text(data.Message)
		hw.Raw(`</p><p><a href="/">Return to home</a></p>`)
		return hw.Err()
	}))
}
