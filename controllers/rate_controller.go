package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// RateController обрабатывает запросы, связанные с котировками металлов
type RateController struct {
	rateService *services.RateService
}

// NewRateController создает новый экземпляр RateController
func NewRateController(db *database.Database) *RateController {
	audit := services.NewAuditService(db.DB)
	return &RateController{
		rateService: services.NewRateService(db.DB, audit),
	}
}

// CreateRate обрабатывает запрос на внесение котировки
func (c *RateController) CreateRate(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateRateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rate, err := c.rateService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rate)
}

// GetRates обрабатывает запрос на получение котировок
func (c *RateController) GetRates(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rates, err := c.rateService.List(r.URL.Query().Get("metalType"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rates)
}
