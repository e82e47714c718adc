package services

import (
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoan(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112233")
	first := createTestOrnament(t, db, customer.ID, "40000")
	second := createTestOrnament(t, db, customer.ID, "60000")

	loan, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{first.ID, second.ID},
		PrincipalAmount: decimal.NewFromInt(70000),
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "LN00000001", loan.ReferenceNumber)
	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.Equal(t, models.RiskZoneGreen, loan.RiskZone)
	assert.True(t, loan.TotalOrnamentValue.Equal(decimal.NewFromInt(100000)))
	assert.True(t, loan.LoanToValueRatio.Equal(decimal.NewFromInt(70)))
	assert.True(t, loan.OutstandingPrincipal.Equal(decimal.NewFromInt(70000)))
	assert.True(t, loan.OutstandingInterest.IsZero())
	assert.Equal(t, 12, loan.TenureMonths)

	// Украшения переведены в залог
	require.Len(t, loan.Ornaments, 2)
	for _, ornament := range loan.Ornaments {
		assert.Equal(t, models.OrnamentStatusPledged, ornament.Status)
		require.NotNil(t, ornament.LoanID)
		assert.Equal(t, loan.ID, *ornament.LoanID)
	}

	// Первая запись процентной книги: 70000 * 12% / 12 = 700
	require.Len(t, loan.InterestLedger, 1)
	entry := loan.InterestLedger[0]
	assert.True(t, entry.InterestAmount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, models.LedgerStatusPending, entry.Status)
	assert.True(t, entry.PaidAmount.IsZero())

	// Запись аудита создана
	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("module = ? AND action = ?", models.AuditModuleLoan, models.AuditActionCreate).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestCreateLoanRejectsOverMaxLTV(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112244")
	ornament := createTestOrnament(t, db, customer.ID, "100000")

	// 80000 / 100000 = 80% > 75%
	_, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(80000),
	}, 1)
	require.Error(t, err)

	// Ничего не изменилось: займа нет, украшение доступно
	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Equal(t, int64(0), loanCount)

	var reloaded models.Ornament
	require.NoError(t, db.First(&reloaded, ornament.ID).Error)
	assert.Equal(t, models.OrnamentStatusAvailable, reloaded.Status)
	assert.Nil(t, reloaded.LoanID)
}

func TestCreateLoanRejectsHairlineOverMaxLTV(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112266")
	ornament := createTestOrnament(t, db, customer.ID, "10000000")

	// 7500004 / 10000000 = 75.00004% — выше лимита, хотя при округлении
	// до четырех знаков было бы ровно 75
	_, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(7500004),
	}, 1)
	require.Error(t, err)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Equal(t, int64(0), loanCount)
}

func TestCreateLoanExactlyAtMaxLTV(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112255")
	ornament := createTestOrnament(t, db, customer.ID, "100000")

	// Ровно 75% проходит, отклоняется только превышение
	loan, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(75000),
	}, 1)
	require.NoError(t, err)
	assert.True(t, loan.LoanToValueRatio.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, models.RiskZoneGreen, loan.RiskZone)
}

func TestCreateLoanYellowZone(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	// Поднимаем лимит, чтобы желтая зона стала достижимой при выдаче
	require.NoError(t, NewSettingsService(db).Update(map[string]string{
		models.SettingMaxLoanToValueRatio: "100",
	}))

	customer := createTestCustomer(t, db, "+79001112266")
	ornament := createTestOrnament(t, db, customer.ID, "100000")

	loan, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(85000),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RiskZoneYellow, loan.RiskZone)

	// Красная зона при выдаче недостижима даже при предельном LTV
	other := createTestCustomer(t, db, "+79001112277")
	heavy := createTestOrnament(t, db, other.ID, "100000")
	red, err := service.Create(CreateLoanDTO{
		CustomerID:      other.ID,
		OrnamentIDs:     []uint{heavy.ID},
		PrincipalAmount: decimal.NewFromInt(95000),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RiskZoneYellow, red.RiskZone)
}

func TestCreateLoanNoPartialPledge(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112288")
	available := createTestOrnament(t, db, customer.ID, "50000")
	pledged := createTestOrnament(t, db, customer.ID, "50000")

	// Первое украшение уходит в залог под первый займ
	_, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{pledged.ID},
		PrincipalAmount: decimal.NewFromInt(30000),
	}, 1)
	require.NoError(t, err)

	// Второй займ с недоступным украшением отклоняется целиком
	_, err = service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{available.ID, pledged.ID},
		PrincipalAmount: decimal.NewFromInt(40000),
	}, 1)
	require.Error(t, err)

	// Доступное украшение не тронуто
	var reloaded models.Ornament
	require.NoError(t, db.First(&reloaded, available.ID).Error)
	assert.Equal(t, models.OrnamentStatusAvailable, reloaded.Status)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Equal(t, int64(1), loanCount)
}

func TestCreateLoanBlacklistedCustomer(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	customer := createTestCustomer(t, db, "+79001112299")
	ornament := createTestOrnament(t, db, customer.ID, "50000")
	require.NoError(t, db.Model(&models.Customer{}).Where("id = ?", customer.ID).
		Update("status", models.CustomerStatusBlacklisted).Error)

	_, err := service.Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(10000),
	}, 1)
	require.Error(t, err)
}

func TestDeleteLoanGuards(t *testing.T) {
	db := setupTestDB(t)
	service := testLoanService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	// Активный займ удалить нельзя
	err := service.Delete(loan.ID, 1)
	require.Error(t, err)

	// Закрытый займ удаляется, платежи и книга уходят вместе с ним
	payments := testPaymentService(db)
	_, err = payments.Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "FULL_CLOSURE",
		Amount:          decimal.NewFromInt(30000),
		PrincipalAmount: decimal.NewFromInt(30000),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	require.NoError(t, service.Delete(loan.ID, 1))

	var ledgerCount int64
	require.NoError(t, db.Model(&models.InterestLedgerEntry{}).Where("loan_id = ?", loan.ID).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), ledgerCount)
}
