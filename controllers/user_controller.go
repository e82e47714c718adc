package controllers

import (
	"encoding/json"
	"net/http"

	"goldloan/database"
	"goldloan/services"
)

// UserController обрабатывает запросы управления сотрудниками
type UserController struct {
	userService *services.UserService
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *database.Database) *UserController {
	audit := services.NewAuditService(db.DB)
	return &UserController{
		userService: services.NewUserService(db.DB, audit),
	}
}

// CreateUser обрабатывает запрос на создание сотрудника
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	// Получаем ID сотрудника из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req services.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := c.userService.Create(req, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// GetUsers обрабатывает запрос на получение списка сотрудников
func (c *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.userService.List(r.URL.Query().Get("role"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
