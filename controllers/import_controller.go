package controllers

import (
	"encoding/json"
	"net/http"

	"goldloan/database"
	"goldloan/services"
)

// ImportController обрабатывает запросы массового импорта
type ImportController struct {
	importService *services.ImportService
}

// NewImportController создает новый экземпляр ImportController
func NewImportController(db *database.Database) *ImportController {
	audit := services.NewAuditService(db.DB)
	sequences := services.NewSequenceService()
	settings := services.NewSettingsService(db.DB)
	return &ImportController{
		importService: services.NewImportService(db.DB, sequences, settings, audit),
	}
}

// ImportCustomers обрабатывает запрос на импорт клиентов
func (c *ImportController) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.ImportCustomersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.importService.ImportCustomers(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ImportLoans обрабатывает запрос на импорт займов
func (c *ImportController) ImportLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.ImportLoansDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.importService.ImportLoans(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
