package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType представляет назначение платежа
type PaymentType string

const (
	PaymentTypeInterest       PaymentType = "INTEREST"
	PaymentTypePrincipal      PaymentType = "PRINCIPAL"
	PaymentTypeBoth           PaymentType = "BOTH"
	PaymentTypePenalty        PaymentType = "PENALTY"
	PaymentTypePartialRelease PaymentType = "PARTIAL_RELEASE"
	PaymentTypeFullClosure    PaymentType = "FULL_CLOSURE" // Полное погашение и закрытие займа
)

// Payment представляет платеж по займу. Запись неизменяемая:
// операций обновления и удаления для платежей не существует.
type Payment struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	PaymentCode     string          `gorm:"column:payment_code;unique;not null;size:12;index"` // PAY########
	ReceiptNumber   string          `gorm:"column:receipt_number;not null;size:20"`            // RCP<epoch millis>
	LoanID          uint            `gorm:"column:loan_id;not null;index"`
	Loan            Loan            `gorm:"foreignKey:LoanID"`
	CustomerID      uint            `gorm:"column:customer_id;not null;index"`
	ReceivedBy      uint            `gorm:"column:received_by;not null"` // Сотрудник, принявший платеж
	ReceivedByUser  User            `gorm:"foreignKey:ReceivedBy"`
	PaymentType     PaymentType     `gorm:"column:payment_type;type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null"`
	PrincipalAmount decimal.Decimal `gorm:"column:principal_amount;type:decimal(20,2);not null;default:0"`
	InterestAmount  decimal.Decimal `gorm:"column:interest_amount;type:decimal(20,2);not null;default:0"`
	PenaltyAmount   decimal.Decimal `gorm:"column:penalty_amount;type:decimal(20,2);not null;default:0"`
	PaymentMethod   string          `gorm:"column:payment_method;not null;size:20"` // CASH, UPI, CARD, BANK_TRANSFER
	TransactionID   string          `gorm:"column:transaction_id;size:50"`          // Внешний идентификатор транзакции
	Notes           string          `gorm:"column:notes;size:255"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string {
	return "payments"
}
