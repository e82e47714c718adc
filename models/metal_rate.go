package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetalRate представляет котировку металла за грамм
type MetalRate struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	MetalType   MetalType       `gorm:"column:metal_type;type:varchar(20);not null;index"`
	Karat       decimal.Decimal `gorm:"column:karat;type:decimal(5,2);not null"`
	RatePerGram decimal.Decimal `gorm:"column:rate_per_gram;type:decimal(20,2);not null"`
	RateDate    time.Time       `gorm:"column:rate_date;not null;index"`
	Source      string          `gorm:"column:source;size:20;not null;default:'MANUAL'"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (MetalRate) TableName() string {
	return "metal_rates"
}
