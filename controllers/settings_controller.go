package controllers

import (
	"encoding/json"
	"net/http"

	"goldloan/database"
	"goldloan/models"
	"goldloan/services"
	"goldloan/utils"
)

// SettingsController обрабатывает запросы, связанные с настройками
type SettingsController struct {
	db              *database.Database
	settingsService *services.SettingsService
	auditService    *services.AuditService
}

// NewSettingsController создает новый экземпляр SettingsController
func NewSettingsController(db *database.Database) *SettingsController {
	return &SettingsController{
		db:              db,
		settingsService: services.NewSettingsService(db.DB),
		auditService:    services.NewAuditService(db.DB),
	}
}

// GetSettings обрабатывает запрос на получение настроек
func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	_, settings, err := c.settingsService.GetAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings обрабатывает запрос на обновление настроек
func (c *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(values) == 0 {
		http.Error(w, "Empty settings payload", http.StatusBadRequest)
		return
	}

	oldValues, _, err := c.settingsService.GetAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := c.settingsService.Update(values); err != nil {
		writeServiceError(w, err)
		return
	}

	newValues, _, err := c.settingsService.GetAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := c.auditService.Record(c.db.DB, userID, models.AuditActionUpdate, models.AuditModuleSetting, 0, oldValues, newValues); err != nil {
		utils.LogError("Не удалось записать изменение настроек в журнал аудита: %v", err)
	}

	writeJSON(w, http.StatusOK, newValues)
}
