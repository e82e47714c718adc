package services

import (
	"errors"
	"strings"

	"goldloan/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateBranchDTO представляет данные для создания филиала
type CreateBranchDTO struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Email   string `json:"email" validate:"omitempty,email,max=100"`
}

// BranchService предоставляет методы для работы с филиалами
type BranchService struct {
	db        *gorm.DB
	validator *validator.Validate
	audit     *AuditService
}

// NewBranchService создает новый экземпляр BranchService
func NewBranchService(db *gorm.DB, audit *AuditService) *BranchService {
	return &BranchService{
		db:        db,
		validator: validator.New(),
		audit:     audit,
	}
}

// Create создает новый филиал
func (s *BranchService) Create(dto CreateBranchDTO, actorID uint) (*models.Branch, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	name := strings.TrimSpace(dto.Name)

	var existing int64
	if err := s.db.Model(&models.Branch{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&existing).Error; err != nil {
		return nil, errors.New("ошибка при проверке названия филиала")
	}
	if existing > 0 {
		return nil, errors.New("филиал с таким названием уже существует")
	}

	branch := models.Branch{
		Name:    name,
		Address: dto.Address,
		Phone:   dto.Phone,
		Email:   dto.Email,
		Status:  "ACTIVE",
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	if err := tx.Create(&branch).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании филиала")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleBranch, branch.ID, nil, branch); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &branch, nil
}

// List возвращает все филиалы
func (s *BranchService) List() ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.db.Order("name ASC").Find(&branches).Error; err != nil {
		return nil, errors.New("ошибка при получении списка филиалов")
	}
	return branches, nil
}
