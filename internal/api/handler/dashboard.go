package handler

import (
	"net/http"

	"github.com/clearview-aqi/dashboard/internal/api/response"
	"github.com/clearview-aqi/dashboard/internal/model"
)

// DashboardHandler serves the report description
type DashboardHandler struct {
	report model.Report
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(report model.Report) *DashboardHandler {
	return &DashboardHandler{report: report}
}

// Get handles GET /api/v1/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.DashboardFromModel(h.report))
}
