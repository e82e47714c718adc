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

// CreateLoanDTO представляет данные для выдачи займа
type CreateLoanDTO struct {
	CustomerID      uint             `json:"customer_id" validate:"required"`
	OrnamentIDs     []uint           `json:"ornament_ids" validate:"required,min=1"`
	PrincipalAmount decimal.Decimal  `json:"principal_amount" validate:"required"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	InterestType    string           `json:"interest_type" validate:"omitempty,oneof=MONTHLY DAILY QUARTERLY ANNUAL"`
	TenureMonths    int              `json:"tenure_months" validate:"omitempty,gt=0"`
	BranchID        *uint            `json:"branch_id"`
}

// UpdateLoanDTO представляет данные для обновления займа
type UpdateLoanDTO struct {
	InterestRate *decimal.Decimal `json:"interest_rate"`
	DueDate      *time.Time       `json:"due_date"`
	Status       string           `json:"status" validate:"omitempty,oneof=ACTIVE OVERDUE DEFAULTED RENEWED"`
}

// LoanListFilter представляет фильтры списка займов
type LoanListFilter struct {
	Search     string
	Status     string
	RiskZone   string
	CustomerID uint
	Page       int
	Limit      int
}

// LoanService предоставляет методы для работы с займами
type LoanService struct {
	db        *gorm.DB
	validator *validator.Validate
	sequences *SequenceService
	settings  *SettingsService
	audit     *AuditService
	email     *EmailService
}

// NewLoanService создает новый экземпляр LoanService
func NewLoanService(db *gorm.DB, sequences *SequenceService, settings *SettingsService, audit *AuditService, email *EmailService) *LoanService {
	return &LoanService{
		db:        db,
		validator: validator.New(),
		sequences: sequences,
		settings:  settings,
		audit:     audit,
		email:     email,
	}
}

// Create выдает займ под залог украшений. Проверка залога, расчет LTV,
// привязка украшений, первая запись процентной книги и запись аудита
// выполняются в одной транзакции: либо займ выдан целиком, либо ничего
// не изменилось.
func (s *LoanService) Create(dto CreateLoanDTO, actorID uint) (*models.Loan, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}
	if !dto.PrincipalAmount.IsPositive() {
		return nil, errors.New("сумма займа должна быть больше нуля")
	}

	// Проверяем клиента
	var customer models.Customer
	if err := s.db.First(&customer, dto.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("клиент не найден")
		}
		return nil, errors.New("ошибка при получении клиента")
	}
	if customer.Status == models.CustomerStatusBlacklisted {
		return nil, errors.New("клиент находится в черном списке")
	}

	// Ставка и срок по умолчанию берутся из настроек
	interestRate := s.settings.GetDecimal(models.SettingDefaultInterestRate, decimal.NewFromInt(12))
	if dto.InterestRate != nil && dto.InterestRate.IsPositive() {
		interestRate = *dto.InterestRate
	}
	tenureMonths := dto.TenureMonths
	if tenureMonths == 0 {
		tenureMonths = 12
	}
	interestType := models.InterestMonthly
	if dto.InterestType != "" {
		interestType = models.InterestType(dto.InterestType)
	}

	maxLTV := s.settings.GetDecimal(models.SettingMaxLoanToValueRatio, decimal.NewFromInt(75))
	yellowThreshold := s.settings.GetDecimal(models.SettingYellowZoneThreshold, decimal.NewFromInt(80))

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	// Все украшения должны существовать, принадлежать клиенту и быть доступными.
	// Несовпадение количества означает, что хотя бы одно украшение не прошло
	// проверку: займ отклоняется целиком, частичный залог не допускается.
	var ornaments []models.Ornament
	err := tx.Where("id IN ? AND customer_id = ? AND status = ?",
		dto.OrnamentIDs, dto.CustomerID, models.OrnamentStatusAvailable).
		Find(&ornaments).Error
	if err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при получении украшений")
	}
	if len(ornaments) != len(dto.OrnamentIDs) {
		tx.Rollback()
		return nil, errors.New("часть украшений недоступна для залога")
	}

	// Считаем суммарную оценочную стоимость залога
	totalValue := decimal.Zero
	for _, ornament := range ornaments {
		totalValue = totalValue.Add(ornament.ValuationAmount)
	}
	if !totalValue.IsPositive() {
		tx.Rollback()
		return nil, errors.New("залог не имеет оценочной стоимости")
	}

	// Рассчитываем LTV и отклоняем займ при превышении лимита.
	// Проверка идет по точному значению, в базу пишется округленное
	// до точности колонки decimal(8,4).
	ltv := dto.PrincipalAmount.Div(totalValue).Mul(decimal.NewFromInt(100))
	if ltv.GreaterThan(maxLTV) {
		tx.Rollback()
		utils.GetMetrics().RecordLoanOperation("reject")
		return nil, errors.New("сумма займа превышает допустимую долю стоимости залога")
	}

	// Зона риска при выдаче: желтая при LTV на пороге и выше, иначе зеленая
	riskZone := models.RiskZoneGreen
	if ltv.GreaterThanOrEqual(yellowThreshold) {
		riskZone = models.RiskZoneYellow
	}
	ltv = ltv.Round(4)

	// Выделяем номер займа
	reference, err := s.sequences.NextLoanReference(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	loan := models.Loan{
		ReferenceNumber:      reference,
		CustomerID:           dto.CustomerID,
		BranchID:             dto.BranchID,
		PrincipalAmount:      dto.PrincipalAmount,
		InterestRate:         interestRate,
		InterestType:         interestType,
		TenureMonths:         tenureMonths,
		DisbursementDate:     now,
		DueDate:              now.AddDate(0, 1, 0),
		MaturityDate:         now.AddDate(0, tenureMonths, 0),
		Status:               models.LoanStatusActive,
		RiskZone:             riskZone,
		TotalOrnamentValue:   totalValue,
		LoanToValueRatio:     ltv,
		OutstandingPrincipal: dto.PrincipalAmount,
		OutstandingInterest:  decimal.Zero,
	}

	if err := tx.Create(&loan).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании займа")
	}

	// Переводим украшения в залог
	err = tx.Model(&models.Ornament{}).
		Where("id IN ?", dto.OrnamentIDs).
		Updates(map[string]interface{}{
			"status":  models.OrnamentStatusPledged,
			"loan_id": loan.ID,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при оформлении залога")
	}

	// Создаем первую запись процентной книги за первый расчетный период
	ledgerEntry := models.InterestLedgerEntry{
		LoanID:         loan.ID,
		FromDate:       loan.DisbursementDate,
		ToDate:         loan.DueDate,
		InterestRate:   interestRate,
		InterestAmount: dto.PrincipalAmount.Mul(interestRate).Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12)).Round(2),
		PaidAmount:     decimal.Zero,
		Status:         models.LedgerStatusPending,
	}
	if err := tx.Create(&ledgerEntry).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании записи процентной книги")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModuleLoan, loan.ID, nil, loan); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordLoanOperation("create")

	// Уведомляем клиента о выдаче займа. Ошибка отправки не отменяет займ.
	if customer.Email != "" {
		if err := s.email.SendLoanDisbursedNotification(customer.Email, loan.ReferenceNumber, loan.PrincipalAmount, loan.TenureMonths); err != nil {
			utils.LogError("Не удалось отправить уведомление о выдаче займа %s: %v", loan.ReferenceNumber, err)
		}
	}

	return s.GetByID(loan.ID)
}

// GetByID возвращает займ с клиентом, залогом, платежами и процентной книгой
func (s *LoanService) GetByID(id uint) (*models.Loan, error) {
	var loan models.Loan
	err := s.db.Preload("Customer").
		Preload("Branch").
		Preload("Ornaments").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("InterestLedger", func(db *gorm.DB) *gorm.DB {
			return db.Order("from_date ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("займ не найден")
		}
		return nil, errors.New("ошибка при получении займа")
	}
	return &loan, nil
}

// List возвращает страницу займов с фильтрами
func (s *LoanService) List(filter LoanListFilter) ([]models.Loan, int64, error) {
	query := s.db.Model(&models.Loan{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Joins("JOIN customers ON customers.id = loans.customer_id").
			Where("LOWER(loans.reference_number) LIKE ? OR LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ?",
				pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("loans.status = ?", filter.Status)
	}
	if filter.RiskZone != "" {
		query = query.Where("loans.risk_zone = ?", filter.RiskZone)
	}
	if filter.CustomerID != 0 {
		query = query.Where("loans.customer_id = ?", filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете займов")
	}

	var loans []models.Loan
	err := query.Preload("Customer", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "customer_code", "first_name", "last_name", "phone")
	}).
		Order("loans.created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, errors.New("ошибка при получении списка займов")
	}

	return loans, total, nil
}

// Update обновляет параметры займа. Закрытие займа через обновление
// запрещено: займ закрывается только платежом с полным погашением.
func (s *LoanService) Update(id uint, dto UpdateLoanDTO, actorID uint) (*models.Loan, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}

	var loan models.Loan
	if err := s.db.First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("займ не найден")
		}
		return nil, errors.New("ошибка при получении займа")
	}

	if loan.Status == models.LoanStatusClosed {
		return nil, errors.New("закрытый займ нельзя изменить")
	}

	oldLoan := loan

	if dto.InterestRate != nil && dto.InterestRate.IsPositive() {
		loan.InterestRate = *dto.InterestRate
	}
	if dto.DueDate != nil {
		loan.DueDate = *dto.DueDate
	}
	if dto.Status != "" {
		loan.Status = models.LoanStatus(dto.Status)
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	if err := tx.Save(&loan).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении займа")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionUpdate, models.AuditModuleLoan, loan.ID, oldLoan, loan); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	return s.GetByID(loan.ID)
}

// Delete удаляет займ. Удаление запрещено, пока займ активен или просрочен.
func (s *LoanService) Delete(id uint, actorID uint) error {
	var loan models.Loan
	if err := s.db.First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("займ не найден")
		}
		return errors.New("ошибка при получении займа")
	}

	if loan.Status == models.LoanStatusActive || loan.Status == models.LoanStatusOverdue {
		return errors.New("нельзя удалить активный займ")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при создании транзакции")
	}

	// Освобождаем украшения, еще привязанные к займу
	err := tx.Model(&models.Ornament{}).
		Where("loan_id = ?", loan.ID).
		Updates(map[string]interface{}{
			"status":  models.OrnamentStatusAvailable,
			"loan_id": nil,
		}).Error
	if err != nil {
		tx.Rollback()
		return errors.New("ошибка при освобождении залога")
	}

	if err := tx.Where("loan_id = ?", loan.ID).Delete(&models.InterestLedgerEntry{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении процентной книги")
	}

	if err := tx.Where("loan_id = ?", loan.ID).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении платежей займа")
	}

	if err := tx.Delete(&loan).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при удалении займа")
	}

	if err := s.audit.Record(tx, actorID, models.AuditActionDelete, models.AuditModuleLoan, loan.ID, loan, nil); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	return nil
}
