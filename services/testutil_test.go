package services

import (
	"testing"
	"time"

	"goldloan/config"
	"goldloan/database"
	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB открывает SQLite в памяти со схемой и справочными данными.
// Одно соединение, иначе база в памяти видна не во всех запросах.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Seed(db))

	return db
}

func testEmailService() *EmailService {
	return NewEmailService(&config.Config{})
}

func createTestCustomer(t *testing.T, db *gorm.DB, phone string) *models.Customer {
	t.Helper()

	service := NewCustomerService(db, NewSequenceService(), NewAuditService(db), "test-hmac-key")
	customer, err := service.Create(CreateCustomerDTO{
		FirstName: "Иван",
		LastName:  "Петров",
		Phone:     phone,
	}, 1)
	require.NoError(t, err)
	return customer
}

func createTestOrnament(t *testing.T, db *gorm.DB, customerID uint, valuation string) *models.Ornament {
	t.Helper()

	amount, err := decimal.NewFromString(valuation)
	require.NoError(t, err)

	service := NewOrnamentService(db, NewSequenceService(), NewAuditService(db))
	ornament, err := service.Create(CreateOrnamentDTO{
		CustomerID:      customerID,
		Name:            "Золотое кольцо",
		Type:            "кольцо",
		MetalType:       "GOLD",
		Karat:           decimal.NewFromInt(22),
		GrossWeight:     decimal.NewFromFloat(10.5),
		NetWeight:       decimal.NewFromFloat(10),
		ValuationAmount: &amount,
	}, 1)
	require.NoError(t, err)
	return ornament
}

func testLoanService(db *gorm.DB) *LoanService {
	return NewLoanService(db, NewSequenceService(), NewSettingsService(db), NewAuditService(db), testEmailService())
}

func testPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(db, NewSequenceService(), NewAuditService(db), testEmailService())
}

func createTestLoan(t *testing.T, db *gorm.DB, principal string, valuations ...string) *models.Loan {
	t.Helper()

	customer := createTestCustomer(t, db, "+7900"+principal)
	ornamentIDs := make([]uint, 0, len(valuations))
	for _, valuation := range valuations {
		ornamentIDs = append(ornamentIDs, createTestOrnament(t, db, customer.ID, valuation).ID)
	}

	amount, err := decimal.NewFromString(principal)
	require.NoError(t, err)

	loan, err := testLoanService(db).Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     ornamentIDs,
		PrincipalAmount: amount,
	}, 1)
	require.NoError(t, err)
	return loan
}

func setLoanDueDate(t *testing.T, db *gorm.DB, loanID uint, dueDate time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Loan{}).Where("id = ?", loanID).Update("due_date", dueDate).Error)
}
