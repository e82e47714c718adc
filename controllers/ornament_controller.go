package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// OrnamentController обрабатывает запросы, связанные с украшениями
type OrnamentController struct {
	ornamentService *services.OrnamentService
}

// NewOrnamentController создает новый экземпляр OrnamentController
func NewOrnamentController(db *database.Database) *OrnamentController {
	audit := services.NewAuditService(db.DB)
	sequences := services.NewSequenceService()
	return &OrnamentController{
		ornamentService: services.NewOrnamentService(db.DB, sequences, audit),
	}
}

// CreateOrnament обрабатывает запрос на создание украшения
func (c *OrnamentController) CreateOrnament(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateOrnamentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ornament, err := c.ornamentService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ornament)
}

// GetOrnament обрабатывает запрос на получение украшения
func (c *OrnamentController) GetOrnament(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ornament ID", http.StatusBadRequest)
		return
	}

	ornament, err := c.ornamentService.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ornament)
}

// GetOrnaments обрабатывает запрос на получение списка украшений
func (c *OrnamentController) GetOrnaments(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customerId"), 10, 32)
	filter := services.OrnamentListFilter{
		CustomerID: uint(customerID),
		Status:     r.URL.Query().Get("status"),
		MetalType:  r.URL.Query().Get("metalType"),
		Page:       page,
		Limit:      limit,
	}

	ornaments, total, err := c.ornamentService.List(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writePaginated(w, ornaments, page, limit, total)
}

// UpdateOrnament обрабатывает запрос на обновление украшения
func (c *OrnamentController) UpdateOrnament(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ornament ID", http.StatusBadRequest)
		return
	}

	var dto services.UpdateOrnamentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ornament, err := c.ornamentService.Update(id, dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ornament)
}

// DeleteOrnament обрабатывает запрос на удаление украшения
func (c *OrnamentController) DeleteOrnament(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ornament ID", http.StatusBadRequest)
		return
	}

	if err := c.ornamentService.Delete(id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "украшение удалено"})
}
