package services

import (
	"errors"

	"goldloan/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService предоставляет методы для работы с сотрудниками
type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

// UserDTO представляет сотрудника в ответах API (без пароля)
type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	BranchID *uint  `json:"branchId,omitempty"`
}

// CreateUserRequest представляет данные для создания сотрудника
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"required,oneof=ADMIN BRANCH_MANAGER LOAN_OFFICER"`
	BranchID *uint  `json:"branchId"`
}

// NewUserService создает новый экземпляр UserService
func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

// toUserDTO конвертирует модель User в DTO
func toUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Role:     string(user.Role),
		Status:   string(user.Status),
		BranchID: user.BranchID,
	}
}

// Create создает нового сотрудника
func (s *UserService) Create(req CreateUserRequest, actorID uint) (*UserDTO, error) {
	// Проверяем, существует ли сотрудник с таким username
	var existing models.User
	if err := s.db.Where("LOWER(username) = LOWER(?)", req.Username).First(&existing).Error; err == nil {
		return nil, errors.New("сотрудник с таким именем пользователя уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Проверяем, существует ли сотрудник с таким email
	if err := s.db.Where("LOWER(email) = LOWER(?)", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("сотрудник с таким email уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     models.UserRole(req.Role),
		Status:   models.UserStatusActive,
		BranchID: req.BranchID,
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании сотрудника")
	}

	// Записываем в журнал аудита
	dto := toUserDTO(*user)
	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleUser, user.ID, nil, dto); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &dto, nil
}

// List возвращает всех сотрудников (опционально по роли)
func (s *UserService) List(role string) ([]UserDTO, error) {
	query := s.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errors.New("ошибка при получении списка сотрудников")
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = toUserDTO(user)
	}
	return dtos, nil
}

// FindByID ищет сотрудника по ID
func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("сотрудник не найден")
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername ищет сотрудника по имени пользователя (игнорируя регистр)
func (s *UserService) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("LOWER(TRIM(username)) = LOWER(TRIM(?))", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("сотрудник не найден")
		}
		return nil, err
	}
	return &user, nil
}
