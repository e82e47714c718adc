package services

import (
	"testing"
	"time"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrnamentService(db *gorm.DB) *OrnamentService {
	return NewOrnamentService(db, NewSequenceService(), NewAuditService(db))
}

func TestOrnamentExplicitValuationWins(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "+79008880001")

	// Котировка есть, но явная оценка имеет приоритет
	rates := NewRateService(db, NewAuditService(db))
	_, err := rates.Create(CreateRateDTO{
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		RatePerGram: decimal.NewFromInt(6000),
	}, 1)
	require.NoError(t, err)

	explicit := decimal.NewFromInt(45000)
	ornament, err := newOrnamentService(db).Create(CreateOrnamentDTO{
		CustomerID:      customer.ID,
		Name:            "Цепочка",
		Type:            "цепочка",
		MetalType:       "GOLD",
		Karat:           decimal.NewFromInt(22),
		GrossWeight:     decimal.NewFromInt(10),
		NetWeight:       decimal.NewFromInt(9),
		ValuationAmount: &explicit,
	}, 1)
	require.NoError(t, err)
	assert.True(t, ornament.ValuationAmount.Equal(explicit))
}

func TestOrnamentValuationFromLatestRate(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "+79008880002")
	rates := NewRateService(db, NewAuditService(db))

	// Старая и свежая котировки: берется свежая
	oldDate := time.Now().AddDate(0, 0, -10)
	_, err := rates.Create(CreateRateDTO{
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		RatePerGram: decimal.NewFromInt(5000),
		RateDate:    &oldDate,
	}, 1)
	require.NoError(t, err)
	_, err = rates.Create(CreateRateDTO{
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		RatePerGram: decimal.NewFromInt(6000),
	}, 1)
	require.NoError(t, err)

	// 6000 за грамм * 9 грамм чистого веса
	ornament, err := newOrnamentService(db).Create(CreateOrnamentDTO{
		CustomerID:  customer.ID,
		Name:        "Браслет",
		Type:        "браслет",
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		GrossWeight: decimal.NewFromInt(10),
		NetWeight:   decimal.NewFromInt(9),
	}, 1)
	require.NoError(t, err)
	assert.True(t, ornament.ValuationAmount.Equal(decimal.NewFromInt(54000)))
}

func TestOrnamentValuationGrossWeightFallback(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "+79008880003")
	rates := NewRateService(db, NewAuditService(db))

	_, err := rates.Create(CreateRateDTO{
		MetalType:   "SILVER",
		Karat:       decimal.NewFromInt(24),
		RatePerGram: decimal.NewFromInt(100),
	}, 1)
	require.NoError(t, err)

	// Чистый вес не указан: берется общий
	ornament, err := newOrnamentService(db).Create(CreateOrnamentDTO{
		CustomerID:  customer.ID,
		Name:        "Серьги",
		Type:        "серьги",
		MetalType:   "SILVER",
		Karat:       decimal.NewFromInt(24),
		GrossWeight: decimal.NewFromInt(20),
	}, 1)
	require.NoError(t, err)
	assert.True(t, ornament.ValuationAmount.Equal(decimal.NewFromInt(2000)))
}

func TestOrnamentValuationNoRate(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db, "+79008880004")

	// Без котировки стоимость нулевая, создание не падает
	ornament, err := newOrnamentService(db).Create(CreateOrnamentDTO{
		CustomerID:  customer.ID,
		Name:        "Кулон",
		Type:        "кулон",
		MetalType:   "PLATINUM",
		Karat:       decimal.NewFromInt(24),
		GrossWeight: decimal.NewFromInt(5),
	}, 1)
	require.NoError(t, err)
	assert.True(t, ornament.ValuationAmount.IsZero())
}

func TestDeletePledgedOrnament(t *testing.T) {
	db := setupTestDB(t)
	service := newOrnamentService(db)

	loan := createTestLoan(t, db, "30000", "50000")
	require.NotEmpty(t, loan.Ornaments)

	err := service.Delete(loan.Ornaments[0].ID, 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Ornament{}).Where("id = ?", loan.Ornaments[0].ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRateUpsertSameDay(t *testing.T) {
	db := setupTestDB(t)
	rates := NewRateService(db, NewAuditService(db))

	_, err := rates.Create(CreateRateDTO{
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		RatePerGram: decimal.NewFromInt(5900),
	}, 1)
	require.NoError(t, err)

	// Повторная котировка за тот же день перезаписывает, а не дублирует
	updated, err := rates.Create(CreateRateDTO{
		MetalType:   "GOLD",
		Karat:       decimal.NewFromInt(22),
		RatePerGram: decimal.NewFromInt(6100),
	}, 1)
	require.NoError(t, err)
	assert.True(t, updated.RatePerGram.Equal(decimal.NewFromInt(6100)))

	var count int64
	require.NoError(t, db.Model(&models.MetalRate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
