package models

import (
	"time"
)

// Ключи настроек
const (
	SettingDefaultInterestRate = "default_interest_rate" // Годовая ставка по умолчанию, %
	SettingMaxLoanToValueRatio = "loan_to_value_ratio"   // Максимальный LTV, %
	SettingPenaltyRate         = "penalty_rate"          // Штрафная ставка при просрочке, %
	SettingYellowZoneThreshold = "yellow_zone_threshold" // Порог LTV для желтой зоны, %
	SettingRedZoneThreshold    = "red_zone_threshold"    // Порог LTV для красной зоны, %
	SettingOverdueDaysRed      = "overdue_days_red"      // Дней просрочки для красной зоны
)

// Setting представляет настройку в формате ключ-значение
type Setting struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Key         string    `gorm:"column:key;unique;not null;size:50"`
	Value       string    `gorm:"column:value;not null;size:100"`
	Description string    `gorm:"column:description;size:255"`
	CreatedAt   time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Setting) TableName() string {
	return "settings"
}
