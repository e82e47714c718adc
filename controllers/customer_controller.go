package controllers

import (
	"encoding/json"
	"net/http"

	"goldloan/config"
	"goldloan/database"
	"goldloan/services"
)

// CustomerController обрабатывает запросы, связанные с клиентами
type CustomerController struct {
	customerService *services.CustomerService
}

// NewCustomerController создает новый экземпляр CustomerController
func NewCustomerController(db *database.Database, cfg *config.Config) *CustomerController {
	audit := services.NewAuditService(db.DB)
	sequences := services.NewSequenceService()
	return &CustomerController{
		customerService: services.NewCustomerService(db.DB, sequences, audit, cfg.KYCHMACKey),
	}
}

// CreateCustomer обрабатывает запрос на создание клиента
func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var dto services.CreateCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.Create(dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// GetCustomer обрабатывает запрос на получение клиента
func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.GetByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// GetCustomers обрабатывает запрос на получение списка клиентов
func (c *CustomerController) GetCustomers(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	filter := services.CustomerListFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}

	customers, total, err := c.customerService.List(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writePaginated(w, customers, page, limit, total)
}

// UpdateCustomer обрабатывает запрос на обновление клиента
func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	var dto services.UpdateCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.Update(id, dto, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// DeleteCustomer обрабатывает запрос на удаление клиента
func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	if err := c.customerService.Delete(id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "клиент удален"})
}
