package services

import (
	"errors"
	"strings"
	"time"

	"goldloan/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrnamentDTO представляет данные для создания украшения
type CreateOrnamentDTO struct {
	CustomerID      uint             `json:"customer_id" validate:"required"`
	Name            string           `json:"name" validate:"required,min=2,max=100"`
	Type            string           `json:"type" validate:"required,min=2,max=50"`
	MetalType       string           `json:"metal_type" validate:"required,oneof=GOLD SILVER PLATINUM"`
	Karat           decimal.Decimal  `json:"karat" validate:"required"`
	GrossWeight     decimal.Decimal  `json:"gross_weight" validate:"required"`
	NetWeight       decimal.Decimal  `json:"net_weight"`
	StoneWeight     decimal.Decimal  `json:"stone_weight"`
	Description     string           `json:"description" validate:"omitempty,max=255"`
	ValuationAmount *decimal.Decimal `json:"valuation_amount"`
}

// UpdateOrnamentDTO представляет данные для обновления украшения
type UpdateOrnamentDTO struct {
	Name            string           `json:"name" validate:"omitempty,min=2,max=100"`
	Type            string           `json:"type" validate:"omitempty,min=2,max=50"`
	Description     string           `json:"description" validate:"omitempty,max=255"`
	ValuationAmount *decimal.Decimal `json:"valuation_amount"`
}

// OrnamentListFilter представляет фильтры списка украшений
type OrnamentListFilter struct {
	CustomerID uint
	Status     string
	MetalType  string
	Page       int
	Limit      int
}

// OrnamentService предоставляет методы для работы с украшениями
type OrnamentService struct {
	db        *gorm.DB
	validator *validator.Validate
	sequences *SequenceService
	audit     *AuditService
}

// NewOrnamentService создает новый экземпляр OrnamentService
func NewOrnamentService(db *gorm.DB, sequences *SequenceService, audit *AuditService) *OrnamentService {
	return &OrnamentService{
		db:        db,
		validator: validator.New(),
		sequences: sequences,
		audit:     audit,
	}
}

// resolveValuation определяет оценочную стоимость украшения.
// Явно указанная стоимость имеет приоритет. Иначе берется последняя
// котировка по (металл, проба), умноженная на чистый вес; при нулевом
// чистом весе используется общий вес. Отсутствие котировки не ошибка:
// стоимость остается нулевой до ручной оценки.
func (s *OrnamentService) resolveValuation(dto CreateOrnamentDTO) decimal.Decimal {
	if dto.ValuationAmount != nil && dto.ValuationAmount.IsPositive() {
		return *dto.ValuationAmount
	}

	var rate models.MetalRate
	err := s.db.Where("metal_type = ? AND karat = ?", dto.MetalType, dto.Karat).
		Order("rate_date DESC").
		First(&rate).Error
	if err != nil {
		return decimal.Zero
	}

	weight := dto.NetWeight
	if weight.IsZero() {
		weight = dto.GrossWeight
	}

	return rate.RatePerGram.Mul(weight).Round(2)
}

// Create создает новое украшение с оценкой стоимости
func (s *OrnamentService) Create(dto CreateOrnamentDTO, actorID uint) (*models.Ornament, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}
	if !dto.GrossWeight.IsPositive() {
		return nil, errors.New("вес украшения должен быть больше нуля")
	}
	if dto.NetWeight.GreaterThan(dto.GrossWeight) {
		return nil, errors.New("чистый вес не может превышать общий вес")
	}

	// Проверяем существование клиента
	var customer models.Customer
	if err := s.db.First(&customer, dto.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("клиент не найден")
		}
		return nil, errors.New("ошибка при получении клиента")
	}

	valuation := s.resolveValuation(dto)

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	// Выделяем код украшения
	code, err := s.sequences.NextOrnamentCode(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	ornament := models.Ornament{
		OrnamentCode:    code,
		CustomerID:      dto.CustomerID,
		Name:            strings.TrimSpace(dto.Name),
		Type:            strings.TrimSpace(dto.Type),
		MetalType:       models.MetalType(dto.MetalType),
		Karat:           dto.Karat,
		GrossWeight:     dto.GrossWeight,
		NetWeight:       dto.NetWeight,
		StoneWeight:     dto.StoneWeight,
		Description:     dto.Description,
		ValuationAmount: valuation,
		ValuationDate:   time.Now(),
		Status:          models.OrnamentStatusAvailable,
	}

	if err := tx.Create(&ornament).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании украшения")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleOrnament, ornament.ID, nil, ornament); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &ornament, nil
}

// GetByID возвращает украшение с клиентом
func (s *OrnamentService) GetByID(id uint) (*models.Ornament, error) {
	var ornament models.Ornament
	err := s.db.Preload("Customer").First(&ornament, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("украшение не найдено")
		}
		return nil, errors.New("ошибка при получении украшения")
	}
	return &ornament, nil
}

// List возвращает страницу украшений с фильтрами
func (s *OrnamentService) List(filter OrnamentListFilter) ([]models.Ornament, int64, error) {
	query := s.db.Model(&models.Ornament{})

	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MetalType != "" {
		query = query.Where("metal_type = ?", filter.MetalType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете украшений")
	}

	var ornaments []models.Ornament
	err := query.Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "customer_code", "first_name", "last_name")
	}).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&ornaments).Error
	if err != nil {
		return nil, 0, errors.New("ошибка при получении списка украшений")
	}

	return ornaments, total, nil
}

// Update обновляет данные украшения
func (s *OrnamentService) Update(id uint, dto UpdateOrnamentDTO, actorID uint) (*models.Ornament, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	var ornament models.Ornament
	if err := s.db.First(&ornament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("украшение не найдено")
		}
		return nil, errors.New("ошибка при получении украшения")
	}

	oldOrnament := ornament

	if dto.Name != "" {
		ornament.Name = strings.TrimSpace(dto.Name)
	}
	if dto.Type != "" {
		ornament.Type = strings.TrimSpace(dto.Type)
	}
	if dto.Description != "" {
		ornament.Description = dto.Description
	}
	if dto.ValuationAmount != nil && dto.ValuationAmount.IsPositive() {
		ornament.ValuationAmount = *dto.ValuationAmount
		ornament.ValuationDate = time.Now()
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	if err := tx.Save(&ornament).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении украшения")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionUpdate, models.AuditModuleOrnament, ornament.ID, oldOrnament, ornament); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &ornament, nil
}

// Delete удаляет украшение. Удаление запрещено, пока украшение в залоге.
func (s *OrnamentService) Delete(id uint, actorID uint) error {
	var ornament models.Ornament
	if err := s.db.First(&ornament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("украшение не найдено")
		}
		return errors.New("ошибка при получении украшения")
	}

	if ornament.Status == models.OrnamentStatusPledged {
		return errors.New("нельзя удалить украшение, находящееся в залоге")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	if err := tx.Delete(&ornament).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении украшения")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionDelete, models.AuditModuleOrnament, ornament.ID, ornament, nil); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}
