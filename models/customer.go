package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerStatus представляет статус клиента
type CustomerStatus string

const (
	CustomerStatusActive      CustomerStatus = "ACTIVE"
	CustomerStatusInactive    CustomerStatus = "INACTIVE"
	CustomerStatusBlacklisted CustomerStatus = "BLACKLISTED" // Клиент в черном списке
)

// Customer представляет клиента ломбарда
type Customer struct {
	ID             uint                `gorm:"primaryKey;autoIncrement"`
	CustomerCode   string              `gorm:"column:customer_code;unique;not null;size:10;index"` // CUS######
	FirstName      string              `gorm:"column:first_name;not null;size:50"`
	LastName       string              `gorm:"column:last_name;not null;size:50"`
	Email          string              `gorm:"column:email;size:100"`
	Phone          string              `gorm:"column:phone;not null;size:20;index"`
	AlternatePhone string              `gorm:"column:alternate_phone;size:20"`
	Address        string              `gorm:"column:address;size:255"`
	City           string              `gorm:"column:city;size:50"`
	State          string              `gorm:"column:state;size:50"`
	Pincode        string              `gorm:"column:pincode;size:10"`
	DateOfBirth    *time.Time          `gorm:"column:date_of_birth"`
	Gender         string              `gorm:"column:gender;size:10"`
	Occupation     string              `gorm:"column:occupation;size:50"`
	AnnualIncome   decimal.NullDecimal `gorm:"column:annual_income;type:decimal(20,2)"`
	Status         CustomerStatus      `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`
	BranchID       *uint               `gorm:"column:branch_id"`
	Branch         *Branch             `gorm:"foreignKey:BranchID"`
	Ornaments      []Ornament          `gorm:"foreignKey:CustomerID"`
	Loans          []Loan              `gorm:"foreignKey:CustomerID"`
	KYCDocuments   []KYCDocument       `gorm:"foreignKey:CustomerID"`
	CreatedAt      time.Time           `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string {
	return "customers"
}

// KYCDocument представляет документ клиента (KYC)
type KYCDocument struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	CustomerID uint      `gorm:"column:customer_id;not null;index"`
	DocType    string    `gorm:"column:doc_type;not null;size:30"` // AADHAAR, PAN, PASSPORT и т.д.
	DocNumber  string    `gorm:"column:doc_number;not null;size:50"`
	DocHMAC    string    `gorm:"column:doc_hmac;size:64;index"` // HMAC номера документа для поиска
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (KYCDocument) TableName() string {
	return "kyc_documents"
}
