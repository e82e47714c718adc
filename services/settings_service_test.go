package services

import (
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewSettingsService(db)

	// Значения из справочных данных
	assert.True(t, service.GetDecimal(models.SettingMaxLoanToValueRatio, decimal.Zero).Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 15, service.GetInt(models.SettingOverdueDaysRed, 0))

	// Неизвестный ключ возвращает значение по умолчанию
	assert.Equal(t, "fallback", service.GetString("no_such_key", "fallback"))
	assert.True(t, service.GetDecimal("no_such_key", decimal.NewFromInt(7)).Equal(decimal.NewFromInt(7)))
}

func TestSettingsUpdate(t *testing.T) {
	db := setupTestDB(t)
	service := NewSettingsService(db)

	require.NoError(t, service.Update(map[string]string{
		models.SettingMaxLoanToValueRatio: "60",
		"custom_key":                      "custom_value",
	}))

	// Изменение действует немедленно, без перезапуска
	assert.True(t, service.GetDecimal(models.SettingMaxLoanToValueRatio, decimal.Zero).Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "custom_value", service.GetString("custom_key", ""))

	// Повторное обновление не создает дубликатов
	require.NoError(t, service.Update(map[string]string{models.SettingMaxLoanToValueRatio: "70"}))
	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Where("key = ?", models.SettingMaxLoanToValueRatio).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoanUsesUpdatedSettings(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, NewSettingsService(db).Update(map[string]string{
		models.SettingMaxLoanToValueRatio: "50",
	}))

	customer := createTestCustomer(t, db, "+79007770001")
	ornament := createTestOrnament(t, db, customer.ID, "100000")

	// 60% при лимите 50% отклоняется
	_, err := testLoanService(db).Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(60000),
	}, 1)
	require.Error(t, err)
}
