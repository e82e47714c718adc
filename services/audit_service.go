package services

import (
	"encoding/json"
	"errors"

	"goldloan/models"

	"gorm.io/gorm"
)

// AuditService ведет журнал аудита. Записи добавляются внутри транзакции
// вызывающей операции, чтобы журнал оставался согласованным с данными.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService создает новый экземпляр AuditService
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record добавляет запись журнала аудита в транзакции tx.
// oldValues и newValues сериализуются в JSON; nil означает отсутствие снимка.
func (s *AuditService) Record(tx *gorm.DB, userID uint, action models.AuditAction, module string, recordID uint, oldValues, newValues interface{}) error {
	entry := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Module:   module,
		RecordID: recordID,
	}

	if oldValues != nil {
		data, err := json.Marshal(oldValues)
		if err != nil {
			return errors.New("ошибка при сериализации старых значений")
		}
		entry.OldValues = string(data)
	}

	if newValues != nil {
		data, err := json.Marshal(newValues)
		if err != nil {
			return errors.New("ошибка при сериализации новых значений")
		}
		entry.NewValues = string(data)
	}

	if err := tx.Create(&entry).Error; err != nil {
		return errors.New("ошибка при записи в журнал аудита")
	}

	return nil
}

// AuditListFilter представляет фильтры списка записей журнала
type AuditListFilter struct {
	Module string
	Action string
	UserID uint
	Page   int
	Limit  int
}

// List возвращает страницу журнала аудита с фильтрами
func (s *AuditService) List(filter AuditListFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете записей журнала")
	}

	var logs []models.AuditLog
	err := query.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "username")
	}).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errors.New("ошибка при получении журнала аудита")
	}

	return logs, total, nil
}
