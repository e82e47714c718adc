package services

import (
	"testing"

	"goldloan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNext(t *testing.T) {
	db := setupTestDB(t)
	service := NewSequenceService()

	for expected := int64(1); expected <= 5; expected++ {
		value, err := service.Next(db, models.SequenceLoan)
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}

	// Счетчики независимы
	value, err := service.Next(db, models.SequencePayment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestSequenceCodes(t *testing.T) {
	db := setupTestDB(t)
	service := NewSequenceService()

	customerCode, err := service.NextCustomerCode(db)
	require.NoError(t, err)
	assert.Equal(t, "CUS000001", customerCode)

	ornamentCode, err := service.NextOrnamentCode(db)
	require.NoError(t, err)
	assert.Equal(t, "ORN000001", ornamentCode)

	reference, err := service.NextLoanReference(db)
	require.NoError(t, err)
	assert.Equal(t, "LN00000001", reference)

	paymentCode, err := service.NextPaymentCode(db)
	require.NoError(t, err)
	assert.Equal(t, "PAY00000001", paymentCode)

	// Повторное выделение не повторяет значения
	second, err := service.NextCustomerCode(db)
	require.NoError(t, err)
	assert.Equal(t, "CUS000002", second)
}
