package services

import (
	"errors"
	"strconv"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService предоставляет доступ к настройкам в формате ключ-значение.
// Значения всегда читаются из базы заново: кэширование не используется,
// чтобы изменения администратора действовали со следующей операции.
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService создает новый экземпляр SettingsService
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetString возвращает строковое значение настройки или значение по умолчанию
func (s *SettingsService) GetString(key string, defaultValue string) string {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return defaultValue
	}
	return setting.Value
}

// GetDecimal возвращает числовое значение настройки или значение по умолчанию
func (s *SettingsService) GetDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value, err := decimal.NewFromString(s.GetString(key, defaultValue.String()))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetInt возвращает целочисленное значение настройки или значение по умолчанию
func (s *SettingsService) GetInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(s.GetString(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetAll возвращает все настройки в виде словаря ключ-значение
func (s *SettingsService) GetAll() (map[string]string, []models.Setting, error) {
	var settings []models.Setting
	if err := s.db.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, nil, errors.New("ошибка при получении настроек")
	}

	settingsMap := make(map[string]string, len(settings))
	for _, setting := range settings {
		settingsMap[setting.Key] = setting.Value
	}

	return settingsMap, settings, nil
}

// Update обновляет настройки из словаря ключ-значение (upsert по ключу)
func (s *SettingsService) Update(values map[string]string) error {
	for key, value := range values {
		setting := models.Setting{Key: key, Value: value}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&setting).Error
		if err != nil {
			return errors.New("ошибка при обновлении настройки " + key)
		}
	}
	return nil
}
