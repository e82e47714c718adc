package controllers

import (
	"net/http"

	"goldloan/database"
	"goldloan/services"
	"goldloan/utils"
)

// AdminController обрабатывает служебные запросы администратора
type AdminController struct {
	riskService *services.RiskService
}

// NewAdminController создает новый экземпляр AdminController
func NewAdminController(db *database.Database) *AdminController {
	audit := services.NewAuditService(db.DB)
	settings := services.NewSettingsService(db.DB)
	return &AdminController{
		riskService: services.NewRiskService(db.DB, settings, audit),
	}
}

// ReevaluateRisk обрабатывает запрос на переоценку рисков портфеля
func (c *AdminController) ReevaluateRisk(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := c.riskService.Reevaluate(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetMetrics обрабатывает запрос на получение метрик приложения
func (c *AdminController) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
}
