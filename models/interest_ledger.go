package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerStatus представляет статус записи процентной книги
type LedgerStatus string

const (
	LedgerStatusPending       LedgerStatus = "PENDING"
	LedgerStatusPartiallyPaid LedgerStatus = "PARTIALLY_PAID"
	LedgerStatusPaid          LedgerStatus = "PAID"
)

// InterestLedgerEntry представляет запись процентной книги за расчетный период
type InterestLedgerEntry struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	LoanID         uint            `gorm:"column:loan_id;not null;index"`
	FromDate       time.Time       `gorm:"column:from_date;not null"`
	ToDate         time.Time       `gorm:"column:to_date;not null"`
	InterestRate   decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,2);not null"` // Ставка на момент начисления
	InterestAmount decimal.Decimal `gorm:"column:interest_amount;type:decimal(20,2);not null"`
	PaidAmount     decimal.Decimal `gorm:"column:paid_amount;type:decimal(20,2);not null;default:0"`
	Status         LedgerStatus    `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	PaidAt         *time.Time      `gorm:"column:paid_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (InterestLedgerEntry) TableName() string {
	return "interest_ledger"
}
