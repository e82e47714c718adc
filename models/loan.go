package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus представляет статус займа
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusOverdue   LoanStatus = "OVERDUE"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
	LoanStatusRenewed   LoanStatus = "RENEWED"
)

// InterestType представляет схему начисления процентов
type InterestType string

const (
	InterestMonthly   InterestType = "MONTHLY"
	InterestDaily     InterestType = "DAILY"
	InterestQuarterly InterestType = "QUARTERLY"
	InterestAnnual    InterestType = "ANNUAL"
)

// RiskZone представляет зону риска займа
type RiskZone string

const (
	RiskZoneGreen  RiskZone = "GREEN"
	RiskZoneYellow RiskZone = "YELLOW"
	RiskZoneRed    RiskZone = "RED"
)

// Loan представляет займ под залог украшений
type Loan struct {
	ID                   uint                  `gorm:"primaryKey;autoIncrement"`
	ReferenceNumber      string                `gorm:"column:reference_number;unique;not null;size:12;index"` // LN########
	CustomerID           uint                  `gorm:"column:customer_id;not null;index"`
	Customer             Customer              `gorm:"foreignKey:CustomerID"`
	BranchID             *uint                 `gorm:"column:branch_id"`
	Branch               *Branch               `gorm:"foreignKey:BranchID"`
	PrincipalAmount      decimal.Decimal       `gorm:"column:principal_amount;type:decimal(20,2);not null"`
	InterestRate         decimal.Decimal       `gorm:"column:interest_rate;type:decimal(6,2);not null"` // Годовая ставка, %
	InterestType         InterestType          `gorm:"column:interest_type;type:varchar(20);not null;default:'MONTHLY'"`
	TenureMonths         int                   `gorm:"column:tenure_months;not null;default:12"`
	DisbursementDate     time.Time             `gorm:"column:disbursement_date;not null"`
	DueDate              time.Time             `gorm:"column:due_date;not null"` // Дата очередного платежа
	MaturityDate         time.Time             `gorm:"column:maturity_date;not null"`
	Status               LoanStatus            `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE';index"`
	RiskZone             RiskZone              `gorm:"column:risk_zone;type:varchar(10);not null;default:'GREEN';index"`
	TotalOrnamentValue   decimal.Decimal       `gorm:"column:total_ornament_value;type:decimal(20,2);not null;default:0"`
	LoanToValueRatio     decimal.Decimal       `gorm:"column:loan_to_value_ratio;type:decimal(8,4);not null;default:0"` // LTV, %
	OutstandingPrincipal decimal.Decimal       `gorm:"column:outstanding_principal;type:decimal(20,2);not null;default:0"`
	OutstandingInterest  decimal.Decimal       `gorm:"column:outstanding_interest;type:decimal(20,2);not null;default:0"`
	TotalPrincipalPaid   decimal.Decimal       `gorm:"column:total_principal_paid;type:decimal(20,2);not null;default:0"`
	TotalInterestPaid    decimal.Decimal       `gorm:"column:total_interest_paid;type:decimal(20,2);not null;default:0"`
	PenaltyAmount        decimal.Decimal       `gorm:"column:penalty_amount;type:decimal(20,2);not null;default:0"`
	ClosedAt             *time.Time            `gorm:"column:closed_at"` // Заполняется при закрытии займа
	Ornaments            []Ornament            `gorm:"foreignKey:LoanID"`
	Payments             []Payment             `gorm:"foreignKey:LoanID"`
	InterestLedger       []InterestLedgerEntry `gorm:"foreignKey:LoanID"`
	CreatedAt            time.Time             `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Loan) TableName() string {
	return "loans"
}
