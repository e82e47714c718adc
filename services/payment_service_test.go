package services

import (
	"strings"
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentAllocations(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "60000", "100000")

	payment, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "BOTH",
		Amount:          decimal.NewFromInt(10700),
		PrincipalAmount: decimal.NewFromInt(10000),
		InterestAmount:  decimal.NewFromInt(700),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "PAY00000001", payment.PaymentCode)
	assert.True(t, strings.HasPrefix(payment.ReceiptNumber, "RCP"))

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.True(t, reloaded.OutstandingPrincipal.Equal(decimal.NewFromInt(50000)))
	assert.True(t, reloaded.TotalPrincipalPaid.Equal(decimal.NewFromInt(10000)))
	assert.True(t, reloaded.TotalInterestPaid.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, models.LoanStatusActive, reloaded.Status)

	// Процентная часть закрыла первую запись книги (60000 * 12% / 12 = 600 < 700)
	var entry models.InterestLedgerEntry
	require.NoError(t, db.Where("loan_id = ?", loan.ID).First(&entry).Error)
	assert.Equal(t, models.LedgerStatusPaid, entry.Status)
	require.NotNil(t, entry.PaidAt)
}

func TestCreatePaymentClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "20000", "50000")

	// Переплата по основному долгу не уводит остаток в минус
	_, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "PRINCIPAL",
		Amount:          decimal.NewFromInt(25000),
		PrincipalAmount: decimal.NewFromInt(25000),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.True(t, reloaded.OutstandingPrincipal.IsZero())
	assert.True(t, reloaded.TotalPrincipalPaid.Equal(decimal.NewFromInt(25000)))

	// Без FULL_CLOSURE займ остается активным даже при нулевом остатке
	assert.Equal(t, models.LoanStatusActive, reloaded.Status)
	assert.Nil(t, reloaded.ClosedAt)
}

func TestCreatePaymentPartialLedger(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "60000", "100000")

	// 300 из 600 по процентам
	_, err := service.Create(CreatePaymentDTO{
		LoanID:         loan.ID,
		PaymentType:    "INTEREST",
		Amount:         decimal.NewFromInt(300),
		InterestAmount: decimal.NewFromInt(300),
		PaymentMethod:  "UPI",
	}, 1)
	require.NoError(t, err)

	var entry models.InterestLedgerEntry
	require.NoError(t, db.Where("loan_id = ?", loan.ID).First(&entry).Error)
	assert.Equal(t, models.LedgerStatusPartiallyPaid, entry.Status)
	assert.True(t, entry.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, entry.PaidAt)

	// Частично оплаченная запись повторно не пополняется:
	// платеж принят, но книга не меняется
	_, err = service.Create(CreatePaymentDTO{
		LoanID:         loan.ID,
		PaymentType:    "INTEREST",
		Amount:         decimal.NewFromInt(300),
		InterestAmount: decimal.NewFromInt(300),
		PaymentMethod:  "UPI",
	}, 1)
	require.NoError(t, err)

	require.NoError(t, db.Where("loan_id = ?", loan.ID).First(&entry).Error)
	assert.Equal(t, models.LedgerStatusPartiallyPaid, entry.Status)
	assert.True(t, entry.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, entry.PaidAt)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.True(t, reloaded.TotalInterestPaid.Equal(decimal.NewFromInt(600)))
}

func TestFullClosure(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	_, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "FULL_CLOSURE",
		Amount:          decimal.NewFromInt(30300),
		PrincipalAmount: decimal.NewFromInt(30000),
		InterestAmount:  decimal.NewFromInt(300),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.Equal(t, models.LoanStatusClosed, reloaded.Status)
	require.NotNil(t, reloaded.ClosedAt)
	assert.True(t, reloaded.OutstandingPrincipal.IsZero())

	// Залог возвращен клиенту
	var ornaments []models.Ornament
	require.NoError(t, db.Where("customer_id = ?", loan.CustomerID).Find(&ornaments).Error)
	require.NotEmpty(t, ornaments)
	for _, ornament := range ornaments {
		assert.Equal(t, models.OrnamentStatusReleased, ornament.Status)
		assert.Nil(t, ornament.LoanID)
	}

	// Создано уведомление о закрытии
	var notificationCount int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("loan_id = ? AND type = ?", loan.ID, "CLOSURE").
		Count(&notificationCount).Error)
	assert.Equal(t, int64(1), notificationCount)

	// Платежи по закрытому займу не принимаются
	_, err = service.Create(CreatePaymentDTO{
		LoanID:         loan.ID,
		PaymentType:    "INTEREST",
		Amount:         decimal.NewFromInt(100),
		InterestAmount: decimal.NewFromInt(100),
		PaymentMethod:  "CASH",
	}, 1)
	require.Error(t, err)
}

func TestFullClosureRequiresZeroPrincipal(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	// FULL_CLOSURE с неполным погашением не закрывает займ
	_, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "FULL_CLOSURE",
		Amount:          decimal.NewFromInt(10000),
		PrincipalAmount: decimal.NewFromInt(10000),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.Equal(t, models.LoanStatusActive, reloaded.Status)
	assert.Nil(t, reloaded.ClosedAt)
	assert.True(t, reloaded.OutstandingPrincipal.Equal(decimal.NewFromInt(20000)))
}

func TestListPaymentsByType(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "60000", "100000")

	_, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "PRINCIPAL",
		Amount:          decimal.NewFromInt(5000),
		PrincipalAmount: decimal.NewFromInt(5000),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	_, err = service.Create(CreatePaymentDTO{
		LoanID:         loan.ID,
		PaymentType:    "INTEREST",
		Amount:         decimal.NewFromInt(600),
		InterestAmount: decimal.NewFromInt(600),
		PaymentMethod:  "UPI",
	}, 1)
	require.NoError(t, err)

	payments, total, err := service.List(PaymentListFilter{
		LoanID:      loan.ID,
		PaymentType: "INTEREST",
		Page:        1,
		Limit:       20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentType("INTEREST"), payments[0].PaymentType)

	// Без фильтра по типу возвращаются оба платежа
	_, total, err = service.List(PaymentListFilter{LoanID: loan.ID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestCreatePaymentAuditSnapshot(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	payment, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "PRINCIPAL",
		Amount:          decimal.NewFromInt(5000),
		PrincipalAmount: decimal.NewFromInt(5000),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	// Запись аудита ссылается на платеж и содержит его снимок
	var entry models.AuditLog
	require.NoError(t, db.Where("module = ? AND record_id = ?",
		models.AuditModulePayment, payment.ID).First(&entry).Error)
	assert.Contains(t, entry.NewValues, `"payment"`)
	assert.Contains(t, entry.NewValues, payment.PaymentCode)
	assert.Contains(t, entry.NewValues, `"loan"`)
}

func TestCreatePaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	service := testPaymentService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	// Отрицательная составляющая отклоняется
	_, err := service.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "PRINCIPAL",
		Amount:          decimal.NewFromInt(100),
		PrincipalAmount: decimal.NewFromInt(-100),
		PaymentMethod:   "CASH",
	}, 1)
	require.Error(t, err)

	// Неизвестный займ
	_, err = service.Create(CreatePaymentDTO{
		LoanID:          99999,
		PaymentType:     "PRINCIPAL",
		Amount:          decimal.NewFromInt(100),
		PrincipalAmount: decimal.NewFromInt(100),
		PaymentMethod:   "CASH",
	}, 1)
	require.Error(t, err)
}
