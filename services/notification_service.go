package services

import (
	"errors"

	"goldloan/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CreateNotificationDTO представляет данные для создания уведомления
type CreateNotificationDTO struct {
	LoanID     *uint  `json:"loan_id"`
	CustomerID *uint  `json:"customer_id"`
	Type       string `json:"type" validate:"omitempty,oneof=SYSTEM OVERDUE RISK CLOSURE"`
	Title      string `json:"title" validate:"required,min=1,max=100"`
	Message    string `json:"message" validate:"required,min=1,max=500"`
	Priority   string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// NotificationService предоставляет методы для работы с уведомлениями
type NotificationService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:        db,
		validator: validator.New(),
	}
}

// Create создает уведомление
func (s *NotificationService) Create(dto CreateNotificationDTO) (*models.Notification, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	notification := models.Notification{
		LoanID:     dto.LoanID,
		CustomerID: dto.CustomerID,
		Type:       dto.Type,
		Title:      dto.Title,
		Message:    dto.Message,
		Priority:   dto.Priority,
		Channel:    "IN_APP",
		Status:     models.NotificationUnread,
	}
	if notification.Type == "" {
		notification.Type = "SYSTEM"
	}
	if notification.Priority == "" {
		notification.Priority = "MEDIUM"
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, errors.New("ошибка при создании уведомления")
	}

	return &notification, nil
}

// List возвращает уведомления, непрочитанные и новые первыми
func (s *NotificationService) List(status string, limit int) ([]models.Notification, error) {
	query := s.db.Model(&models.Notification{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit <= 0 {
		limit = 50
	}

	var notifications []models.Notification
	err := query.Order("status DESC, created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, errors.New("ошибка при получении уведомлений")
	}

	return notifications, nil
}

// MarkRead помечает уведомление прочитанным
func (s *NotificationService) MarkRead(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("уведомление не найдено")
		}
		return nil, errors.New("ошибка при получении уведомления")
	}

	notification.Status = models.NotificationRead
	if err := s.db.Save(&notification).Error; err != nil {
		return nil, errors.New("ошибка при обновлении уведомления")
	}

	return &notification, nil
}
