package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/web/templates/layout"
)

// DashboardData holds data for the report page
type DashboardData struct {
	layout.PageData
	Report model.Report
}

// Dashboard renders the report introduction, the embedded report and the conclusion
func Dashboard(data DashboardData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)

		hw.Raw("<h1>")
		hw.Text(data.Report.Title)
		hw.Raw("</h1>")
		hw.Raw(dashboardIntro)
		hw.Raw("<hr>")

		hw.Raw(`<div class="report"><iframe title="AQI"`)
		hw.Attr("width", strconv.Itoa(data.Report.Width))
		hw.Attr("height", strconv.Itoa(data.Report.Height))
		hw.URLAttr("src", data.Report.EmbedURL)
		hw.Raw(` frameborder="0" allowfullscreen></iframe></div>`)

		hw.Raw("<h2>Conclusion</h2>")
		hw.Raw(dashboardConclusion)
		if err := hw.Err(); err != nil {
			return err
		}
		return layout.Footer().Render(ctx, w)
	}))
}

const dashboardIntro = `<section class="intro">
<p>The <strong>Air Quality Index (AQI) Visualization</strong> project provides an interactive and insightful dashboard designed to help users explore and analyze air quality data across <strong>India</strong>. The dashboard leverages data from 2020 to 2022 to offer a comprehensive view of air quality trends and the impact of key pollutants across various Indian cities. It serves as a valuable tool for <strong>environmental analysts</strong>, <strong>policymakers</strong>, and the <strong>general public</strong>, enabling them to make data-driven decisions related to air quality management and public health.</p>
<h3>Key Features of the Dashboard:</h3>
<ul>
<li><strong>AQI Trends Over Time</strong>: Visualize how air quality has evolved across India over the years, with detailed temporal analysis of AQI levels.</li>
<li><strong>Monthly Trends in AQI</strong>: Observe seasonal variations in air quality and identify months with high pollution.</li>
<li><strong>Contribution of Key Pollutants</strong>: Understand the role of major pollutants (<strong>PM2.5</strong>, <strong>PM10</strong>, <strong>CO</strong>, <strong>SO2</strong>, <strong>NO2</strong>, <strong>O3</strong>) in influencing the AQI in different regions.</li>
<li><strong>City-Specific Analysis</strong>: Dive into specific cities to analyze localized trends and pollution sources.</li>
<li><strong>Interactive Visualizations</strong>: Easily explore different aspects of air quality data through dynamic charts, graphs, and maps.</li>
<li><strong>Trend Comparisons</strong>: Compare AQI trends across cities, states, or regions for more in-depth analysis.</li>
</ul>
<p>This platform empowers users to track air quality fluctuations, identify key sources of pollution, and gain a deeper understanding of regional disparities. Whether for <strong>policy development</strong>, <strong>environmental monitoring</strong>, or <strong>public awareness</strong>, this dashboard is a vital tool for addressing the challenges posed by air pollution in India.</p>
</section>`

const dashboardConclusion = `<section class="conclusion">
<p>The AQI trends from <strong>2020-2022</strong> emphasize the urgent need to address air pollution, especially in urban regions, and implement actionable plans for a <strong>cleaner, greener, and healthier future</strong> for India.</p>
<p>To tackle this challenge, the following actions should be prioritized:</p>
<ul>
<li><strong>Enforcing stricter air quality standards</strong> on industries and vehicle emissions to reduce pollutants.</li>
<li><strong>Developing green spaces</strong> in urban areas to absorb pollutants and improve air quality.</li>
<li><strong>Raising public awareness</strong> about the health risks of poor air quality and promoting environmentally-friendly practices.</li>
<li><strong>Implementing predictive models</strong> to anticipate pollution spikes and take preventive actions ahead of time.</li>
</ul>
<p>By taking these steps, we can ensure a healthier environment for future generations and significantly improve the air quality in India.</p>
</section>`
