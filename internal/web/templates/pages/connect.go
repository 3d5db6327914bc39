package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
)

// ConnectData holds data for the contact page
type ConnectData struct {
	layout.PageData
	Report model.Report
}

// Connect renders the author's contact links
func Connect(data ConnectData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)

		hw.Raw(`<p>I'm Gayatri Deshmukh, a passionate student coming from a Computer Science background. I enjoy connecting with like-minded people, exchanging ideas, and collaborating on exciting projects. Feel free to reach out to me through any of the channels below.</p>`)
		hw.Raw("<hr><h2>Let's Connect!</h2><p>You can reach me through the following platforms:</p>")
		hw.Raw(`<p class="contacts">`)
		if data.Report.LinkedInURL != "" {
			hw.Raw(`<a class="custom-button" id="linkedin" target="_blank" rel="noopener"`)
			hw.URLAttr("href", data.Report.LinkedInURL)
			hw.Raw(">&#129309; LinkedIn</a>")
		}
		if data.Report.ContactEmail != "" {
			hw.Raw(`<a class="custom-button" id="email"`)
			hw.URLAttr("href", "mailto:"+data.Report.ContactEmail)
			hw.Raw(">&#128233; Email</a>")
		}
		hw.Raw("</p><hr>")
		if err := hw.Err(); err != nil {
			return err
		}
		return layout.Footer().Render(ctx, w)
	}))
}
