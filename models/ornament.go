package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetalType представляет тип металла
type MetalType string

const (
	MetalGold     MetalType = "GOLD"
	MetalSilver   MetalType = "SILVER"
	MetalPlatinum MetalType = "PLATINUM"
)

// OrnamentStatus представляет статус украшения
type OrnamentStatus string

const (
	OrnamentStatusAvailable OrnamentStatus = "AVAILABLE" // Доступно для залога
	OrnamentStatusPledged   OrnamentStatus = "PLEDGED"   // Заложено под займ
	OrnamentStatusReleased  OrnamentStatus = "RELEASED"  // Возвращено клиенту
	OrnamentStatusSold      OrnamentStatus = "SOLD"      // Реализовано
)

// Ornament представляет ювелирное украшение, передаваемое в залог
type Ornament struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	OrnamentCode    string          `gorm:"column:ornament_code;unique;not null;size:10;index"` // ORN######
	CustomerID      uint            `gorm:"column:customer_id;not null;index"`
	Customer        Customer        `gorm:"foreignKey:CustomerID"`
	Name            string          `gorm:"column:name;not null;size:100"`
	Type            string          `gorm:"column:type;not null;size:50"` // кольцо, цепочка, браслет и т.д.
	MetalType       MetalType       `gorm:"column:metal_type;type:varchar(20);not null"`
	Karat           decimal.Decimal `gorm:"column:karat;type:decimal(5,2);not null"`
	GrossWeight     decimal.Decimal `gorm:"column:gross_weight;type:decimal(10,3);not null"` // Общий вес, грамм
	NetWeight       decimal.Decimal `gorm:"column:net_weight;type:decimal(10,3);not null"`   // Чистый вес металла
	StoneWeight     decimal.Decimal `gorm:"column:stone_weight;type:decimal(10,3);not null;default:0"`
	Description     string          `gorm:"column:description;size:255"`
	ValuationAmount decimal.Decimal `gorm:"column:valuation_amount;type:decimal(20,2);not null;default:0"`
	ValuationDate   time.Time       `gorm:"column:valuation_date"`
	Status          OrnamentStatus  `gorm:"column:status;type:varchar(20);not null;default:'AVAILABLE'"`
	LoanID          *uint           `gorm:"column:loan_id;index"` // Заполнено, пока украшение в залоге
	CreatedAt       time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Ornament) TableName() string {
	return "ornaments"
}
