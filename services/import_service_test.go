package services

import (
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newImportService(db *gorm.DB) *ImportService {
	return NewImportService(db, NewSequenceService(), NewSettingsService(db), NewAuditService(db))
}

func TestImportCustomers(t *testing.T) {
	db := setupTestDB(t)
	service := newImportService(db)

	result, err := service.ImportCustomers(ImportCustomersDTO{
		Records: []ImportCustomerRecord{
			{FirstName: "Анна", LastName: "Смирнова", Phone: "+79006660001"},
			{FirstName: "Петр", LastName: "Иванов", Phone: "+79006660002"},
			{FirstName: "Олег", LastName: "Сидоров", Phone: "+79006660001"}, // дубликат телефона
		},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index)

	// Ошибка одной строки не откатила остальные
	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Итог записан в журнал аудита
	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action = ?", models.AuditActionImport).
		Count(&auditCount).Error)
	assert.Equal(t, int64(1), auditCount)
}

func TestImportLoansResolvesCustomer(t *testing.T) {
	db := setupTestDB(t)
	service := newImportService(db)

	customer := createTestCustomer(t, db, "+79006660011")

	result, err := service.ImportLoans(ImportLoansDTO{
		Records: []ImportLoanRecord{
			// По коду
			{CustomerCode: customer.CustomerCode, PrincipalAmount: decimal.NewFromInt(10000)},
			// По телефону, когда код не подошел
			{CustomerCode: "CUS999999", CustomerPhone: customer.Phone, PrincipalAmount: decimal.NewFromInt(20000)},
			// Клиент не найден
			{CustomerCode: "CUS999999", CustomerPhone: "+70000000000", PrincipalAmount: decimal.NewFromInt(30000)},
		},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index)

	// Импортированные займы получают условную оценку залога и LTV
	var loans []models.Loan
	require.NoError(t, db.Order("id ASC").Find(&loans).Error)
	require.Len(t, loans, 2)

	first := loans[0]
	assert.True(t, first.TotalOrnamentValue.Equal(decimal.NewFromInt(13300)))
	assert.True(t, first.LoanToValueRatio.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, models.RiskZoneGreen, first.RiskZone)
	assert.Equal(t, models.LoanStatusActive, first.Status)
	assert.True(t, first.OutstandingPrincipal.Equal(decimal.NewFromInt(10000)))
}

func TestImportLoansRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	service := newImportService(db)

	customer := createTestCustomer(t, db, "+79006660022")

	result, err := service.ImportLoans(ImportLoansDTO{
		Records: []ImportLoanRecord{
			{CustomerCode: customer.CustomerCode, PrincipalAmount: decimal.Zero},
		},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
}
