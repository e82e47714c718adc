package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"goldloan/models"
	"goldloan/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportCustomerRecord представляет строку импорта клиентов
type ImportCustomerRecord struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Phone     string `json:"phone" validate:"required,min=5,max=20"`
	Email     string `json:"email" validate:"omitempty,email,max=100"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	City      string `json:"city" validate:"omitempty,max=50"`
	State     string `json:"state" validate:"omitempty,max=50"`
}

// ImportLoanRecord представляет строку импорта займов.
// Клиент разрешается по коду, затем по телефону.
type ImportLoanRecord struct {
	CustomerCode     string          `json:"customer_code"`
	CustomerPhone    string          `json:"customer_phone"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount" validate:"required"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TenureMonths     int             `json:"tenure_months"`
	DisbursementDate *time.Time      `json:"disbursement_date"`
}

// ImportCustomersDTO представляет запрос импорта клиентов
type ImportCustomersDTO struct {
	Records []ImportCustomerRecord `json:"records" validate:"required,min=1"`
}

// ImportLoansDTO представляет запрос импорта займов
type ImportLoansDTO struct {
	Records []ImportLoanRecord `json:"records" validate:"required,min=1"`
}

// ImportErrorDTO представляет ошибку отдельной строки импорта
type ImportErrorDTO struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResultDTO представляет итог импорта
type ImportResultDTO struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []ImportErrorDTO `json:"errors"`
}

// ImportService выполняет массовый импорт записей. Каждая строка
// обрабатывается в собственной транзакции: ошибка одной строки не
// откатывает остальные, итог содержит перечень ошибок по строкам.
type ImportService struct {
	db        *gorm.DB
	validator *validator.Validate
	sequences *SequenceService
	settings  *SettingsService
	audit     *AuditService
}

// NewImportService создает новый экземпляр ImportService
func NewImportService(db *gorm.DB, sequences *SequenceService, settings *SettingsService, audit *AuditService) *ImportService {
	return &ImportService{
		db:        db,
		validator: validator.New(),
		sequences: sequences,
		settings:  settings,
		audit:     audit,
	}
}

// ImportCustomers импортирует клиентов построчно
func (s *ImportService) ImportCustomers(dto ImportCustomersDTO, actorID uint) (*ImportResultDTO, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	result := &ImportResultDTO{Total: len(dto.Records), Errors: []ImportErrorDTO{}}

	for i, record := range dto.Records {
		if err := s.importCustomer(record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportErrorDTO{Index: i, Message: err.Error()})
			continue
		}
		result.Succeeded++
	}

	s.recordSummary(actorID, "customers", result)
	return result, nil
}

// ImportLoans импортирует займы построчно
func (s *ImportService) ImportLoans(dto ImportLoansDTO, actorID uint) (*ImportResultDTO, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	result := &ImportResultDTO{Total: len(dto.Records), Errors: []ImportErrorDTO{}}

	for i, record := range dto.Records {
		if err := s.importLoan(record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportErrorDTO{Index: i, Message: err.Error()})
			continue
		}
		result.Succeeded++
	}

	s.recordSummary(actorID, "loans", result)
	return result, nil
}

// importCustomer создает одного клиента из строки импорта
func (s *ImportService) importCustomer(record ImportCustomerRecord) error {
	if err := s.validator.Struct(record); err != nil {
		return formatValidationErrors(err)
	}

	phone := strings.TrimSpace(record.Phone)

	var existing int64
	if err := s.db.Model(&models.Customer{}).Where("phone = ?", phone).Count(&existing).Error; err != nil {
		return errors.New("ошибка при проверке телефона")
	}
	if existing > 0 {
		return errors.New("клиент с таким телефоном уже существует")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	code, err := s.sequences.NextCustomerCode(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	customer := models.Customer{
		CustomerCode: code,
		FirstName:    strings.TrimSpace(record.FirstName),
		LastName:     strings.TrimSpace(record.LastName),
		Phone:        phone,
		Email:        strings.TrimSpace(record.Email),
		Address:      record.Address,
		City:         record.City,
		State:        record.State,
		Status:       models.CustomerStatusActive,
	}

	if err := tx.Create(&customer).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при создании клиента")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}

// importLoan создает один займ из строки импорта. Импортированные займы
// не проходят проверку залога: стоимость залога и LTV заполняются
// условными значениями, зона риска всегда зеленая.
func (s *ImportService) importLoan(record ImportLoanRecord) error {
	if err := s.validator.Struct(record); err != nil {
		return formatValidationErrors(err)
	}
	if !record.PrincipalAmount.IsPositive() {
		return errors.New("сумма займа должна быть больше нуля")
	}

	customer, err := s.resolveCustomer(record)
	if err != nil {
		return err
	}

	interestRate := record.InterestRate
	if !interestRate.IsPositive() {
		interestRate = s.settings.GetDecimal(models.SettingDefaultInterestRate, decimal.NewFromInt(12))
	}
	tenureMonths := record.TenureMonths
	if tenureMonths == 0 {
		tenureMonths = 12
	}
	disbursed := time.Now()
	if record.DisbursementDate != nil {
		disbursed = *record.DisbursementDate
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	reference, err := s.sequences.NextLoanReference(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	loan := models.Loan{
		ReferenceNumber:      reference,
		CustomerID:           customer.ID,
		PrincipalAmount:      record.PrincipalAmount,
		InterestRate:         interestRate,
		InterestType:         models.InterestMonthly,
		TenureMonths:         tenureMonths,
		DisbursementDate:     disbursed,
		DueDate:              disbursed.AddDate(0, 1, 0),
		MaturityDate:         disbursed.AddDate(0, tenureMonths, 0),
		Status:               models.LoanStatusActive,
		RiskZone:             models.RiskZoneGreen,
		TotalOrnamentValue:   record.PrincipalAmount.Mul(decimal.NewFromFloat(1.33)).Round(2),
		LoanToValueRatio:     decimal.NewFromInt(75),
		OutstandingPrincipal: record.PrincipalAmount,
		OutstandingInterest:  decimal.Zero,
	}

	if err := tx.Create(&loan).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при создании займа")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}

// resolveCustomer находит клиента строки импорта: сначала по коду, затем по телефону
func (s *ImportService) resolveCustomer(record ImportLoanRecord) (*models.Customer, error) {
	var customer models.Customer

	if code := strings.TrimSpace(record.CustomerCode); code != "" {
		err := s.db.Where("customer_code = ?", code).First(&customer).Error
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("ошибка при поиске клиента")
		}
	}

	if phone := strings.TrimSpace(record.CustomerPhone); phone != "" {
		err := s.db.Where("phone = ?", phone).First(&customer).Error
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("ошибка при поиске клиента")
		}
	}

	return nil, errors.New("клиент не найден ни по коду, ни по телефону")
}

// recordSummary пишет итог импорта в журнал аудита
func (s *ImportService) recordSummary(actorID uint, importType string, result *ImportResultDTO) {
	module := models.AuditModuleLoan
	if importType == "customers" {
		module = models.AuditModuleCustomer
	}
	summary := map[string]interface{}{
		"type":      importType,
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}
	if err := s.audit.Record(s.db, actorID, models.AuditActionImport, module, 0, nil, summary); err != nil {
		utils.LogError("Не удалось записать итог импорта %s: %v", importType, err)
	}
	utils.LogInfo(fmt.Sprintf("Импорт %s завершен: всего %d, успешно %d, с ошибками %d",
		importType, result.Total, result.Succeeded, result.Failed))
}
