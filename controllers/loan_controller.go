package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// LoanController обрабатывает запросы, связанные с займами
type LoanController struct {
	loanService *services.LoanService
}

// NewLoanController создает новый экземпляр LoanController
func NewLoanController(db *database.Database, email *services.EmailService) *LoanController {
	audit := services.NewAuditService(db.DB)
	sequences := services.NewSequenceService()
	settings := services.NewSettingsService(db.DB)
	return &LoanController{
		loanService: services.NewLoanService(db.DB, sequences, settings, audit, email),
	}
}

// CreateLoan обрабатывает запрос на выдачу займа
func (c *LoanController) CreateLoan(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, loan)
}

// GetLoan обрабатывает запрос на получение займа
func (c *LoanController) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loan)
}

// GetLoans обрабатывает запрос на получение списка займов
func (c *LoanController) GetLoans(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customerId"), 10, 32)
	filter := services.LoanListFilter{
		Search:     r.URL.Query().Get("search"),
		Status:     r.URL.Query().Get("status"),
		RiskZone:   r.URL.Query().Get("riskZone"),
		CustomerID: uint(customerID),
		Page:       page,
		Limit:      limit,
	}

	loans, total, err := c.loanService.List(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writePaginated(w, loans, page, limit, total)
}

// UpdateLoan обрабатывает запрос на обновление займа
func (c *LoanController) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	var dto services.UpdateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.Update(id, dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loan)
}

// DeleteLoan обрабатывает запрос на удаление займа
func (c *LoanController) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	if err := c.loanService.Delete(id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "займ удален"})
}
