package services

import (
	"errors"
	"fmt"
	"time"

	"goldloan/models"
	"goldloan/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePaymentDTO представляет данные для приема платежа.
// Разбивка суммы на основной долг, проценты и штраф задается вызывающей
// стороной и применяется как есть.
type CreatePaymentDTO struct {
	LoanID          uint            `json:"loan_id" validate:"required"`
	PaymentType     string          `json:"payment_type" validate:"required,oneof=INTEREST PRINCIPAL BOTH PENALTY PARTIAL_RELEASE FULL_CLOSURE"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	PenaltyAmount   decimal.Decimal `json:"penalty_amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=CASH UPI CARD BANK_TRANSFER"`
	TransactionID   string          `json:"transaction_id" validate:"omitempty,max=50"`
	Notes           string          `json:"notes" validate:"omitempty,max=255"`
}

// PaymentListFilter представляет фильтры списка платежей
type PaymentListFilter struct {
	LoanID      uint
	CustomerID  uint
	PaymentType string
	Page        int
	Limit       int
}

// PaymentService предоставляет методы для работы с платежами
type PaymentService struct {
	db        *gorm.DB
	validator *validator.Validate
	sequences *SequenceService
	audit     *AuditService
	email     *EmailService
}

// NewPaymentService создает новый экземпляр PaymentService
func NewPaymentService(db *gorm.DB, sequences *SequenceService, audit *AuditService, email *EmailService) *PaymentService {
	return &PaymentService{
		db:        db,
		validator: validator.New(),
		sequences: sequences,
		audit:     audit,
		email:     email,
	}
}

// Create принимает платеж по займу. Строка займа блокируется на время
// транзакции, поэтому конкурентные платежи по одному займу применяются
// последовательно. Остатки долга уменьшаются с отсечкой в ноль и никогда
// не уходят в минус. Займ закрывается только платежом FULL_CLOSURE,
// после которого основной долг полностью погашен; закрытие необратимо.
func (s *PaymentService) Create(dto CreatePaymentDTO, actorID uint) (*models.Payment, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, formatValidationErrors(err)
	}
	if !dto.Amount.IsPositive() {
		return nil, errors.New("сумма платежа должна быть больше нуля")
	}
	if dto.PrincipalAmount.IsNegative() || dto.InterestAmount.IsNegative() || dto.PenaltyAmount.IsNegative() {
		return nil, errors.New("составляющие платежа не могут быть отрицательными")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при создании транзакции")
	}

	// Блокируем строку займа до конца транзакции
	var loan models.Loan
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&loan, dto.LoanID).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("займ не найден")
		}
		return nil, errors.New("ошибка при получении займа")
	}

	if loan.Status == models.LoanStatusClosed {
		tx.Rollback()
		return nil, errors.New("займ уже закрыт")
	}

	oldLoan := loan

	// Выделяем код платежа
	code, err := s.sequences.NextPaymentCode(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	payment := models.Payment{
		PaymentCode:     code,
		ReceiptNumber:   fmt.Sprintf("RCP%d", time.Now().UnixMilli()),
		LoanID:          loan.ID,
		CustomerID:      loan.CustomerID,
		ReceivedBy:      actorID,
		PaymentType:     models.PaymentType(dto.PaymentType),
		Amount:          dto.Amount,
		PrincipalAmount: dto.PrincipalAmount,
		InterestAmount:  dto.InterestAmount,
		PenaltyAmount:   dto.PenaltyAmount,
		PaymentMethod:   dto.PaymentMethod,
		TransactionID:   dto.TransactionID,
		Notes:           dto.Notes,
	}

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании платежа")
	}

	// Уменьшаем остатки с отсечкой в ноль
	loan.OutstandingPrincipal = loan.OutstandingPrincipal.Sub(dto.PrincipalAmount)
	if loan.OutstandingPrincipal.IsNegative() {
		loan.OutstandingPrincipal = decimal.Zero
	}
	loan.OutstandingInterest = loan.OutstandingInterest.Sub(dto.InterestAmount)
	if loan.OutstandingInterest.IsNegative() {
		loan.OutstandingInterest = decimal.Zero
	}
	loan.PenaltyAmount = loan.PenaltyAmount.Sub(dto.PenaltyAmount)
	if loan.PenaltyAmount.IsNegative() {
		loan.PenaltyAmount = decimal.Zero
	}

	// Накопленные суммы только растут
	loan.TotalPrincipalPaid = loan.TotalPrincipalPaid.Add(dto.PrincipalAmount)
	loan.TotalInterestPaid = loan.TotalInterestPaid.Add(dto.InterestAmount)

	closed := false
	if payment.PaymentType == models.PaymentTypeFullClosure && !loan.OutstandingPrincipal.IsPositive() {
		now := time.Now()
		loan.Status = models.LoanStatusClosed
		loan.ClosedAt = &now
		closed = true
	}

	if err := tx.Save(&loan).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении займа")
	}

	// Гасим старейшую непогашенную запись процентной книги.
	// Отсутствие такой записи не ошибка: платеж принимается без изменения книги.
	if dto.InterestAmount.IsPositive() {
		if err := s.applyToLedger(tx, loan.ID, dto.InterestAmount); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if closed {
		// Возвращаем залог клиенту
		err := tx.Model(&models.Ornament{}).
			Where("loan_id = ?", loan.ID).
			Updates(map[string]interface{}{
				"status":  models.OrnamentStatusReleased,
				"loan_id": nil,
			}).Error
		if err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при возврате залога")
		}

		notification := models.Notification{
			LoanID:     &loan.ID,
			CustomerID: &loan.CustomerID,
			Type:       "CLOSURE",
			Title:      "Займ закрыт",
			Message:    "Займ " + loan.ReferenceNumber + " полностью погашен и закрыт",
			Priority:   "MEDIUM",
			Channel:    "IN_APP",
			Status:     models.NotificationUnread,
		}
		if err := tx.Create(&notification).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при создании уведомления")
		}
	}

	newValues := map[string]interface{}{
		"payment": payment,
		"loan":    loan,
	}
	if err := s.audit.Record(tx, actorID, models.AuditActionCreate, models.AuditModulePayment, payment.ID, oldLoan, newValues); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordPayment()

	if closed {
		utils.GetMetrics().RecordLoanOperation("close")

		var customer models.Customer
		if err := s.db.First(&customer, loan.CustomerID).Error; err == nil && customer.Email != "" {
			// Ошибка отправки не отменяет платеж
			if err := s.email.SendLoanClosedNotification(customer.Email, loan.ReferenceNumber); err != nil {
				utils.LogError("Не удалось отправить уведомление о закрытии займа %s: %v", loan.ReferenceNumber, err)
			}
		}
	}

	return s.GetByID(payment.ID)
}

// applyToLedger зачисляет процентную часть платежа в старейшую запись
// процентной книги в статусе PENDING. Частично оплаченная запись повторно
// не пополняется: следующий процентный платеж книгу не меняет.
func (s *PaymentService) applyToLedger(tx *gorm.DB, loanID uint, interestAmount decimal.Decimal) error {
	var entry models.InterestLedgerEntry
	err := tx.Where("loan_id = ? AND status = ?", loanID, models.LedgerStatusPending).
		Order("from_date ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.New("ошибка при получении процентной книги")
	}

	entry.PaidAmount = entry.PaidAmount.Add(interestAmount)
	if entry.PaidAmount.GreaterThanOrEqual(entry.InterestAmount) {
		now := time.Now()
		entry.Status = models.LedgerStatusPaid
		entry.PaidAt = &now
	} else {
		entry.Status = models.LedgerStatusPartiallyPaid
	}

	if err := tx.Save(&entry).Error; err != nil {
		return errors.New("ошибка при обновлении процентной книги")
	}

	return nil
}

// GetByID возвращает платеж с займом и принявшим сотрудником
func (s *PaymentService) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Preload("Loan", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "reference_number", "status", "outstanding_principal", "outstanding_interest", "customer_id")
	}).
		Preload("ReceivedByUser", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username")
		}).
		First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("платеж не найден")
		}
		return nil, errors.New("ошибка при получении платежа")
	}
	return &payment, nil
}

// List возвращает страницу платежей с фильтрами
func (s *PaymentService) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{})

	if filter.LoanID != 0 {
		query = query.Where("loan_id = ?", filter.LoanID)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.PaymentType != "" {
		query = query.Where("payment_type = ?", filter.PaymentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.New("ошибка при подсчете платежей")
	}

	var payments []models.Payment
	err := query.Preload("Loan", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "reference_number", "status")
	}).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, errors.New("ошибка при получении списка платежей")
	}

	return payments, total, nil
}
