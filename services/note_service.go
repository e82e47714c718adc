package services

import (
	"errors"
	"strings"

	"goldloan/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateNoteDTO представляет данные для создания заметки.
// Заметка привязывается к клиенту, займу или к обоим сразу.
type CreateNoteDTO struct {
	CustomerID *uint  `json:"customer_id"`
	LoanID     *uint  `json:"loan_id"`
	Content    string `json:"content" validate:"required,min=1,max=1000"`
}

// NoteService предоставляет методы для работы с заметками
type NoteService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewNoteService создает новый экземпляр NoteService
func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{
		db:        db,
		validator: validator.New(),
	}
}

// Create создает заметку от имени сотрудника
func (s *NoteService) Create(dto CreateNoteDTO, actorID uint) (*models.Note, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}
	if dto.CustomerID == nil && dto.LoanID == nil {
		return nil, errors.New("заметка должна относиться к клиенту или займу")
	}

	if dto.CustomerID != nil {
		var count int64
		if err := s.db.Model(&models.Customer{}).Where("id = ?", *dto.CustomerID).Count(&count).Error; err != nil || count == 0 {
			return nil, errors.New("клиент не найден")
		}
	}
	if dto.LoanID != nil {
		var count int64
		if err := s.db.Model(&models.Loan{}).Where("id = ?", *dto.LoanID).Count(&count).Error; err != nil || count == 0 {
			return nil, errors.New("займ не найден")
		}
	}

	note := models.Note{
		CustomerID: dto.CustomerID,
		LoanID:     dto.LoanID,
		UserID:     actorID,
		Content:    strings.TrimSpace(dto.Content),
	}

	if err := s.db.Create(&note).Error; err != nil {
		return nil, errors.New("ошибка при создании заметки")
	}

	return &note, nil
}

// List возвращает заметки по клиенту или займу, новые первыми
func (s *NoteService) List(customerID, loanID uint) ([]models.Note, error) {
	query := s.db.Model(&models.Note{})
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}
	if loanID != 0 {
		query = query.Where("loan_id = ?", loanID)
	}

	var notes []models.Note
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "username")
	}).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, errors.New("ошибка при получении заметок")
	}

	return notes, nil
}
