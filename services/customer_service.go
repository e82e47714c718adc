package services

import (
	"errors"
	"strings"
	"time"

	"goldloan/models"
	"goldloan/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KYCDocumentDTO представляет документ клиента в запросе
type KYCDocumentDTO struct {
	DocType   string `json:"doc_type" validate:"required,min=2,max=30"`
	DocNumber string `json:"doc_number" validate:"required,min=4,max=50"`
}

// CreateCustomerDTO представляет данные для создания клиента
type CreateCustomerDTO struct {
	FirstName      string           `json:"first_name" validate:"required,min=2,max=50"`
	LastName       string           `json:"last_name" validate:"required,min=1,max=50"`
	Email          string           `json:"email" validate:"omitempty,email,max=100"`
	Phone          string           `json:"phone" validate:"required,min=5,max=20"`
	AlternatePhone string           `json:"alternate_phone" validate:"omitempty,max=20"`
	Address        string           `json:"address" validate:"omitempty,max=255"`
	City           string           `json:"city" validate:"omitempty,max=50"`
	State          string           `json:"state" validate:"omitempty,max=50"`
	Pincode        string           `json:"pincode" validate:"omitempty,max=10"`
	DateOfBirth    *time.Time       `json:"date_of_birth"`
	Gender         string           `json:"gender" validate:"omitempty,max=10"`
	Occupation     string           `json:"occupation" validate:"omitempty,max=50"`
	AnnualIncome   *decimal.Decimal `json:"annual_income"`
	BranchID       *uint            `json:"branch_id"`
	KYCDocuments   []KYCDocumentDTO `json:"kyc_documents" validate:"omitempty,dive"`
}

// UpdateCustomerDTO представляет данные для обновления клиента
type UpdateCustomerDTO struct {
	FirstName      string           `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName       string           `json:"last_name" validate:"omitempty,min=1,max=50"`
	Email          string           `json:"email" validate:"omitempty,email,max=100"`
	Phone          string           `json:"phone" validate:"omitempty,min=5,max=20"`
	AlternatePhone string           `json:"alternate_phone" validate:"omitempty,max=20"`
	Address        string           `json:"address" validate:"omitempty,max=255"`
	City           string           `json:"city" validate:"omitempty,max=50"`
	State          string           `json:"state" validate:"omitempty,max=50"`
	Pincode        string           `json:"pincode" validate:"omitempty,max=10"`
	Occupation     string           `json:"occupation" validate:"omitempty,max=50"`
	AnnualIncome   *decimal.Decimal `json:"annual_income"`
	Status         string           `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE BLACKLISTED"`
}

// CustomerListFilter представляет фильтры списка клиентов
type CustomerListFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// CustomerService предоставляет методы для работы с клиентами
type CustomerService struct {
	db        *gorm.DB
	validator *validator.Validate
	sequences *SequenceService
	audit     *AuditService
	hmacKey   string
}

// NewCustomerService создает новый экземпляр CustomerService
func NewCustomerService(db *gorm.DB, sequences *SequenceService, audit *AuditService, hmacKey string) *CustomerService {
	return &CustomerService{
		db:        db,
		validator: validator.New(),
		sequences: sequences,
		audit:     audit,
		hmacKey:   hmacKey,
	}
}

// Create создает нового клиента вместе с KYC-документами
func (s *CustomerService) Create(dto CreateCustomerDTO, actorID uint) (*models.Customer, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	phone := strings.TrimSpace(dto.Phone)

	// Проверяем уникальность телефона
	var existing int64
	if err := s.db.Model(&models.Customer{}).Where("phone = ?", phone).Count(&existing).Error; err != nil {
		return nil, errors.New("ошибка при проверке телефона")
	}
	if existing > 0 {
		return nil, errors.New("клиент с таким телефоном уже существует")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	// Выделяем код клиента
	code, err := s.sequences.NextCustomerCode(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	customer := models.Customer{
		CustomerCode:   code,
		FirstName:      strings.TrimSpace(dto.FirstName),
		LastName:       strings.TrimSpace(dto.LastName),
		Email:          strings.TrimSpace(dto.Email),
		Phone:          phone,
		AlternatePhone: strings.TrimSpace(dto.AlternatePhone),
		Address:        dto.Address,
		City:           dto.City,
		State:          dto.State,
		Pincode:        dto.Pincode,
		DateOfBirth:    dto.DateOfBirth,
		Gender:         dto.Gender,
		Occupation:     dto.Occupation,
		Status:         models.CustomerStatusActive,
		BranchID:       dto.BranchID,
	}
	if dto.AnnualIncome != nil {
		customer.AnnualIncome = decimal.NewNullDecimal(*dto.AnnualIncome)
	}

	if err := tx.Create(&customer).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании клиента")
	}

	// Сохраняем KYC-документы с HMAC-подписью номера
	for _, doc := range dto.KYCDocuments {
		number := strings.TrimSpace(doc.DocNumber)
		kyc := models.KYCDocument{
			CustomerID: customer.ID,
			DocType:    strings.ToUpper(strings.TrimSpace(doc.DocType)),
			DocNumber:  number,
			DocHMAC:    utils.HMACSign(number, s.hmacKey),
		}
		if err := tx.Create(&kyc).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при сохранении документа клиента")
		}
	}

	// Записываем в журнал аудита
	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleCustomer, customer.ID, nil, customer); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return s.GetByID(customer.ID)
}

// GetByID возвращает клиента с документами, украшениями и займами
func (s *CustomerService) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Preload("KYCDocuments").
		Preload("Ornaments").
		Preload("Loans", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Branch").
		First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("клиент не найден")
		}
		return nil, errors.New("ошибка при получении клиента")
	}

	// Маскируем номера документов в ответе
	for i := range customer.KYCDocuments {
		customer.KYCDocuments[i].DocNumber = utils.MaskDocumentNumber(customer.KYCDocuments[i].DocNumber)
	}

	return &customer, nil
}

// FindByCode находит клиента по коду
func (s *CustomerService) FindByCode(code string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Where("customer_code = ?", strings.TrimSpace(code)).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("клиент не найден")
		}
		return nil, errors.New("ошибка при получении клиента")
	}
	return &customer, nil
}

// List возвращает страницу клиентов с фильтрами
func (s *CustomerService) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(customer_code) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете клиентов")
	}

	var customers []models.Customer
	err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, errors.New("ошибка при получении списка клиентов")
	}

	return customers, total, nil
}

// Update обновляет данные клиента
func (s *CustomerService) Update(id uint, dto UpdateCustomerDTO, actorID uint) (*models.Customer, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("клиент не найден")
		}
		return nil, errors.New("ошибка при получении клиента")
	}

	oldCustomer := customer

	if dto.Phone != "" && dto.Phone != customer.Phone {
		// Проверяем, что новый телефон не занят другим клиентом
		var existing int64
		err := s.db.Model(&models.Customer{}).
			Where("phone = ? AND id <> ?", strings.TrimSpace(dto.Phone), id).
			Count(&existing).Error
		if err != nil {
			return nil, errors.New("ошибка при проверке телефона")
		}
		if existing > 0 {
			return nil, errors.New("клиент с таким телефоном уже существует")
		}
		customer.Phone = strings.TrimSpace(dto.Phone)
	}

	if dto.FirstName != "" {
		customer.FirstName = strings.TrimSpace(dto.FirstName)
	}
	if dto.LastName != "" {
		customer.LastName = strings.TrimSpace(dto.LastName)
	}
	if dto.Email != "" {
		customer.Email = strings.TrimSpace(dto.Email)
	}
	if dto.AlternatePhone != "" {
		customer.AlternatePhone = strings.TrimSpace(dto.AlternatePhone)
	}
	if dto.Address != "" {
		customer.Address = dto.Address
	}
	if dto.City != "" {
		customer.City = dto.City
	}
	if dto.State != "" {
		customer.State = dto.State
	}
	if dto.Pincode != "" {
		customer.Pincode = dto.Pincode
	}
	if dto.Occupation != "" {
		customer.Occupation = dto.Occupation
	}
	if dto.AnnualIncome != nil {
		customer.AnnualIncome = decimal.NewNullDecimal(*dto.AnnualIncome)
	}
	if dto.Status != "" {
		customer.Status = models.CustomerStatus(dto.Status)
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	if err := tx.Save(&customer).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении клиента")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionUpdate, models.AuditModuleCustomer, customer.ID, oldCustomer, customer); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return s.GetByID(customer.ID)
}

// Delete удаляет клиента. Удаление запрещено, пока у клиента есть активные займы.
func (s *CustomerService) Delete(id uint, actorID uint) error {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("клиент не найден")
		}
		return errors.New("ошибка при получении клиента")
	}

	// Проверяем наличие активных займов
	var activeLoans int64
	err := s.db.Model(&models.Loan{}).
		Where("customer_id = ? AND status IN ?", id, []models.LoanStatus{models.LoanStatusActive, models.LoanStatusOverdue}).
		Count(&activeLoans).Error
	if err != nil {
		return errors.New("ошибка при проверке займов клиента")
	}
	if activeLoans > 0 {
		return errors.New("нельзя удалить клиента с активными займами")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	if err := tx.Where("customer_id = ?", id).Delete(&models.KYCDocument{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении документов клиента")
	}

	if err := tx.Delete(&customer).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении клиента")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionDelete, models.AuditModuleCustomer, customer.ID, customer, nil); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}
