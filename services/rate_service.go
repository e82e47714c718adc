package services

import (
	"errors"
	"time"

	"goldloan/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateRateDTO представляет данные для внесения котировки
type CreateRateDTO struct {
	MetalType   string          `json:"metal_type" validate:"required,oneof=GOLD SILVER PLATINUM"`
	Karat       decimal.Decimal `json:"karat" validate:"required"`
	RatePerGram decimal.Decimal `json:"rate_per_gram" validate:"required"`
	RateDate    *time.Time      `json:"rate_date"`
	Source      string          `json:"source" validate:"omitempty,max=20"`
}

// RateService предоставляет методы для работы с котировками металлов
type RateService struct {
	db        *gorm.DB
	validator *validator.Validate
	audit     *AuditService
}

// NewRateService создает новый экземпляр RateService
func NewRateService(db *gorm.DB, audit *AuditService) *RateService {
	return &RateService{
		db:        db,
		validator: validator.New(),
		audit:     audit,
	}
}

// Create вносит котировку. Повторная котировка за ту же дату по той же
// паре (металл, проба) перезаписывает предыдущую, а не дублирует ее.
func (s *RateService) Create(dto CreateRateDTO, actorID uint) (*models.MetalRate, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}
	if !dto.RatePerGram.IsPositive() {
		return nil, errors.New("котировка должна быть больше нуля")
	}

	rateDate := time.Now()
	if dto.RateDate != nil {
		rateDate = *dto.RateDate
	}
	// Котировка действует на дату, время суток не учитывается
	rateDate = time.Date(rateDate.Year(), rateDate.Month(), rateDate.Day(), 0, 0, 0, 0, rateDate.Location())

	source := dto.Source
	if source == "" {
		source = "MANUAL"
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	var rate models.MetalRate
	err := tx.Where("metal_type = ? AND karat = ? AND rate_date = ?", dto.MetalType, dto.Karat, rateDate).
		First(&rate).Error
	switch {
	case err == nil:
		oldRate := rate
		rate.RatePerGram = dto.RatePerGram
		rate.Source = source
		if err := tx.Save(&rate).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при обновлении котировки")
		}
		if err := s.audit.Record(tx, actorID, models.AuditActionUpdate, models.AuditModuleRate, rate.ID, oldRate, rate); err != nil {
			tx.Rollback()
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rate = models.MetalRate{
			MetalType:   models.MetalType(dto.MetalType),
			Karat:       dto.Karat,
			RatePerGram: dto.RatePerGram,
			RateDate:    rateDate,
			Source:      source,
		}
		if err := tx.Create(&rate).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при создании котировки")
		}
		if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleRate, rate.ID, nil, rate); err != nil {
			tx.Rollback()
			return nil, err
		}
	default:
		tx.Rollback()
		return nil, errors.New("ошибка при поиске котировки")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return &rate, nil
}

// List возвращает котировки, последние первыми
func (s *RateService) List(metalType string, limit int) ([]models.MetalRate, error) {
	query := s.db.Model(&models.MetalRate{})
	if metalType != "" {
		query = query.Where("metal_type = ?", metalType)
	}
	if limit <= 0 {
		limit = 50
	}

	var rates []models.MetalRate
	err := query.Order("rate_date DESC, metal_type ASC, karat ASC").
		Limit(limit).
		Find(&rates).Error
	if err != nil {
		return nil, errors.New("ошибка при получении котировок")
	}

	return rates, nil
}

// Latest возвращает последнюю котировку по паре (металл, проба)
func (s *RateService) Latest(metalType string, karat decimal.Decimal) (*models.MetalRate, error) {
	var rate models.MetalRate
	err := s.db.Where("metal_type = ? AND karat = ?", metalType, karat).
		Order("rate_date DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("котировка не найдена")
		}
		return nil, errors.New("ошибка при получении котировки")
	}
	return &rate, nil
}
