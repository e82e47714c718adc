package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goldloan/database"
	"goldloan/services"
)

// PaymentController обрабатывает запросы, связанные с платежами
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(db *database.Database, email *services.EmailService) *PaymentController {
	audit := services.NewAuditService(db.DB)
	sequences := services.NewSequenceService()
	return &PaymentController{
		paymentService: services.NewPaymentService(db.DB, sequences, audit, email),
	}
}

// CreatePayment обрабатывает запрос на прием платежа
func (c *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := c.paymentService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// GetPayment обрабатывает запрос на получение платежа
func (c *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := c.paymentService.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// GetPayments обрабатывает запрос на получение списка платежей
func (c *PaymentController) GetPayments(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	loanID, _ := strconv.ParseUint(r.URL.Query().Get("loanId"), 10, 32)
	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customerId"), 10, 32)
	filter := services.PaymentListFilter{
		LoanID:      uint(loanID),
		CustomerID:  uint(customerID),
		PaymentType: r.URL.Query().Get("paymentType"),
		Page:        page,
		Limit:       limit,
	}

	payments, total, err := c.paymentService.List(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writePaginated(w, payments, page, limit, total)
}
