package handler

import (
	"log/slog"
	"net/http"

	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/web/templates/pages"
)

// DashboardHandler serves the pages behind the login
type DashboardHandler struct {
	report model.Report
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(report model.Report, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		report: report,
		logger: logger,
	}
}

// Dashboard renders the embedded report page
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := pages.DashboardData{
		PageData: pageData(r, "Dashboard"),
		Report:   h.report,
	}
	render(w, r, h.logger, http.StatusOK, pages.Dashboard(data))
}

// Connect renders the contact page
func (h *DashboardHandler) Connect(w http.ResponseWriter, r *http.Request) {
	data := pages.ConnectData{
		PageData: pageData(r, "Connect"),
		Report:   h.report,
	}
	render(w, r, h.logger, http.StatusOK, pages.Connect(data))
}
