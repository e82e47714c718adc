package services

import (
	"strings"
	"testing"

	"goldloan/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCustomerService(db *gorm.DB) *CustomerService {
	return NewCustomerService(db, NewSequenceService(), NewAuditService(db), "test-hmac-key")
}

func TestCreateCustomer(t *testing.T) {
	db := setupTestDB(t)
	service := newCustomerService(db)

	customer, err := service.Create(CreateCustomerDTO{
		FirstName: "Анна",
		LastName:  "Смирнова",
		Phone:     "+79005553311",
		Email:     "anna@example.com",
		KYCDocuments: []KYCDocumentDTO{
			{DocType: "PAN", DocNumber: "ABCDE1234F"},
		},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, "CUS000001", customer.CustomerCode)
	assert.Equal(t, models.CustomerStatusActive, customer.Status)

	// Номер документа в ответе замаскирован, в базе хранится HMAC
	require.Len(t, customer.KYCDocuments, 1)
	assert.True(t, strings.HasSuffix(customer.KYCDocuments[0].DocNumber, "234F"))
	assert.True(t, strings.HasPrefix(customer.KYCDocuments[0].DocNumber, "*"))
	assert.NotEmpty(t, customer.KYCDocuments[0].DocHMAC)
}

func TestCreateCustomerDuplicatePhone(t *testing.T) {
	db := setupTestDB(t)
	service := newCustomerService(db)

	_, err := service.Create(CreateCustomerDTO{
		FirstName: "Анна",
		LastName:  "Смирнова",
		Phone:     "+79005553322",
	}, 1)
	require.NoError(t, err)

	_, err = service.Create(CreateCustomerDTO{
		FirstName: "Петр",
		LastName:  "Иванов",
		Phone:     "+79005553322",
	}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "телефон")
}

func TestDeleteCustomerWithActiveLoan(t *testing.T) {
	db := setupTestDB(t)
	service := newCustomerService(db)

	customer := createTestCustomer(t, db, "+79005553333")
	ornament := createTestOrnament(t, db, customer.ID, "50000")

	_, err := testLoanService(db).Create(CreateLoanDTO{
		CustomerID:      customer.ID,
		OrnamentIDs:     []uint{ornament.ID},
		PrincipalAmount: decimal.NewFromInt(20000),
	}, 1)
	require.NoError(t, err)

	// Клиента с активным займом удалить нельзя
	err = service.Delete(customer.ID, 1)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Where("id = ?", customer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateCustomer(t *testing.T) {
	db := setupTestDB(t)
	service := newCustomerService(db)

	customer := createTestCustomer(t, db, "+79005553344")

	updated, err := service.Update(customer.ID, UpdateCustomerDTO{
		City:   "Казань",
		Status: "INACTIVE",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Казань", updated.City)
	assert.Equal(t, models.CustomerStatusInactive, updated.Status)

	// Телефон и код не изменились
	assert.Equal(t, customer.Phone, updated.Phone)
	assert.Equal(t, customer.CustomerCode, updated.CustomerCode)
}
