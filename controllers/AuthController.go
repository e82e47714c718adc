package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"goldloan/config"
	"goldloan/database"
	"goldloan/models"
	"goldloan/services"
	"goldloan/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthController обрабатывает вход сотрудников
type AuthController struct {
	userService *services.UserService
	validator   *validator.Validate
	config      *config.Config
}

type SignInRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=5"`
}

type SignInResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	} `json:"user"`
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(db *database.Database, cfg *config.Config) *AuthController {
	audit := services.NewAuditService(db.DB)
	return &AuthController{
		userService: services.NewUserService(db.DB, audit),
		validator:   validator.New(),
		config:      cfg,
	}
}

// SignIn обрабатывает вход сотрудника
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.validator.Struct(req); err != nil {
		http.Error(w, "Invalid credentials format", http.StatusBadRequest)
		return
	}

	user, err := c.userService.FindByUsername(req.Username)
	if err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	// Неактивный сотрудник не может войти
	if user.Status != models.UserStatusActive {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	// Создаем токен
	expiresAt := time.Now().Add(time.Duration(c.config.JWT.ExpiresIn) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      expiresAt.Unix(),
	})

	tokenString, err := token.SignedString([]byte(c.config.JWT.SecretKey))
	if err != nil {
		utils.LogError("Не удалось подписать токен для %s: %v", user.Username, err)
		http.Error(w, "Failed to create token", http.StatusInternalServerError)
		return
	}

	utils.LogInfo("Вход сотрудника %s (роль %s)", user.Username, user.Role)

	var resp SignInResponse
	resp.Token = tokenString
	resp.User.ID = user.ID
	resp.User.Username = user.Username
	resp.User.Name = user.Name
	resp.User.Role = string(user.Role)

	writeJSON(w, http.StatusOK, resp)
}
