package services

import (
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	service := NewDashboardService(db)

	summary, err := service.GetSummary()
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalCustomers)
	assert.Equal(t, int64(0), summary.TotalLoans)
	assert.Equal(t, int64(0), summary.ActiveLoans)
	assert.True(t, summary.TotalDisbursed.IsZero())
	assert.True(t, summary.TotalOutstanding.IsZero())
	assert.True(t, summary.InterestCollected.IsZero())
	assert.Empty(t, summary.RecentLoans)
	assert.Empty(t, summary.RecentPayments)

	// Ряды всегда содержат шесть месяцев, даже без данных
	require.Len(t, summary.MonthlyLoans, 6)
	require.Len(t, summary.MonthlyCollections, 6)
	for _, point := range summary.MonthlyLoans {
		assert.Equal(t, 0, point.Count)
		assert.True(t, point.Amount.IsZero())
	}
}

func TestDashboardAggregates(t *testing.T) {
	db := setupTestDB(t)
	service := NewDashboardService(db)

	loan := createTestLoan(t, db, "60000", "100000")

	_, err := testPaymentService(db).Create(CreatePaymentDTO{
		LoanID:          loan.ID,
		PaymentType:     "BOTH",
		Amount:          decimal.NewFromInt(10600),
		PrincipalAmount: decimal.NewFromInt(10000),
		InterestAmount:  decimal.NewFromInt(600),
		PaymentMethod:   "CASH",
	}, 1)
	require.NoError(t, err)

	summary, err := service.GetSummary()
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalCustomers)
	assert.Equal(t, int64(1), summary.TotalLoans)
	assert.Equal(t, int64(1), summary.ActiveLoans)
	assert.Equal(t, int64(1), summary.TotalOrnaments)
	assert.Equal(t, int64(1), summary.PledgedOrnaments)
	assert.Equal(t, int64(1), summary.TotalPayments)

	assert.True(t, summary.TotalDisbursed.Equal(decimal.NewFromInt(60000)))
	// Остаток по активному займу: 50000 основного долга
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(50000)))
	assert.True(t, summary.InterestCollected.Equal(decimal.NewFromInt(600)))

	assert.Equal(t, int64(1), summary.LoansByStatus[string(models.LoanStatusActive)])
	assert.Equal(t, int64(1), summary.LoansByRiskZone[string(models.RiskZoneGreen)])

	require.Len(t, summary.RecentLoans, 1)
	assert.Equal(t, loan.ReferenceNumber, summary.RecentLoans[0].ReferenceNumber)
	assert.NotEmpty(t, summary.RecentLoans[0].CustomerName)

	require.Len(t, summary.RecentPayments, 1)
	assert.True(t, summary.RecentPayments[0].Amount.Equal(decimal.NewFromInt(10600)))

	// Текущий месяц содержит выдачу и платеж
	currentLoans := summary.MonthlyLoans[5]
	assert.Equal(t, 1, currentLoans.Count)
	assert.True(t, currentLoans.Amount.Equal(decimal.NewFromInt(60000)))

	currentPayments := summary.MonthlyCollections[5]
	assert.Equal(t, 1, currentPayments.Count)
	assert.True(t, currentPayments.Amount.Equal(decimal.NewFromInt(10600)))
}
