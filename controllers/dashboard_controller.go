package controllers

import (
	"net/http"

	"goldloan/database"
	"goldloan/services"
)

// DashboardController обрабатывает запросы панели мониторинга
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController создает новый экземпляр DashboardController
func NewDashboardController(db *database.Database) *DashboardController {
	return &DashboardController{
		dashboardService: services.NewDashboardService(db.DB),
	}
}

// GetDashboard обрабатывает запрос на получение сводки
func (c *DashboardController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := c.dashboardService.GetSummary()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
