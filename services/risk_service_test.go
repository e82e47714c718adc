package services

import (
	"testing"
	"time"

	"goldloan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRiskService(db *gorm.DB) *RiskService {
	return NewRiskService(db, NewSettingsService(db), NewAuditService(db))
}

func TestReevaluateMarksOverdue(t *testing.T) {
	db := setupTestDB(t)
	service := newRiskService(db)

	loan := createTestLoan(t, db, "30000", "50000")
	setLoanDueDate(t, db, loan.ID, time.Now().AddDate(0, 0, -3))

	report, err := service.Reevaluate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.MarkedOverdue)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.Equal(t, models.LoanStatusOverdue, reloaded.Status)
	// Три дня просрочки еще не красная зона
	assert.Equal(t, models.RiskZoneGreen, reloaded.RiskZone)
}

func TestReevaluateLongOverdueGoesRed(t *testing.T) {
	db := setupTestDB(t)
	service := newRiskService(db)

	loan := createTestLoan(t, db, "30000", "50000")
	setLoanDueDate(t, db, loan.ID, time.Now().AddDate(0, 0, -20))

	report, err := service.Reevaluate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Escalated)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.Equal(t, models.LoanStatusOverdue, reloaded.Status)
	assert.Equal(t, models.RiskZoneRed, reloaded.RiskZone)

	// Ухудшение зоны создает уведомление
	var notificationCount int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("loan_id = ? AND type = ?", loan.ID, "RISK").
		Count(&notificationCount).Error)
	assert.Equal(t, int64(1), notificationCount)
}

func TestReevaluateZoneNeverImproves(t *testing.T) {
	db := setupTestDB(t)
	service := newRiskService(db)

	loan := createTestLoan(t, db, "30000", "50000")

	// Искусственно ухудшаем зону: переоценка не должна вернуть ее назад
	require.NoError(t, db.Model(&models.Loan{}).Where("id = ?", loan.ID).
		Update("risk_zone", models.RiskZoneRed).Error)

	report, err := service.Reevaluate(1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Escalated)

	var reloaded models.Loan
	require.NoError(t, db.First(&reloaded, loan.ID).Error)
	assert.Equal(t, models.RiskZoneRed, reloaded.RiskZone)
}

func TestReevaluateIgnoresClosedLoans(t *testing.T) {
	db := setupTestDB(t)
	service := newRiskService(db)

	loan := createTestLoan(t, db, "30000", "50000")
	setLoanDueDate(t, db, loan.ID, time.Now().AddDate(0, 0, -30))

	require.NoError(t, db.Model(&models.Loan{}).Where("id = ?", loan.ID).
		Update("status", models.LoanStatusClosed).Error)

	report, err := service.Reevaluate(1)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
}
