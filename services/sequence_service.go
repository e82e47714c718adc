package services

import (
	"errors"
	"fmt"

	"goldloan/models"

	"gorm.io/gorm"
)

// SequenceService выделяет последовательные идентификаторы сущностей.
// Выделение выполняется одним атомарным upsert-запросом, поэтому
// идентификаторы уникальны и при конкурентных созданиях.
type SequenceService struct{}

// NewSequenceService создает новый экземпляр SequenceService
func NewSequenceService() *SequenceService {
	return &SequenceService{}
}

// Next выделяет следующее значение счетчика внутри транзакции tx
func (s *SequenceService) Next(tx *gorm.DB, name string) (int64, error) {
	var value int64
	err := tx.Raw(
		`INSERT INTO sequences (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		 RETURNING value`,
		name,
	).Scan(&value).Error
	if err != nil {
		return 0, errors.New("ошибка при выделении идентификатора")
	}
	return value, nil
}

// NextCustomerCode выделяет код клиента вида CUS######
func (s *SequenceService) NextCustomerCode(tx *gorm.DB) (string, error) {
	value, err := s.Next(tx, models.SequenceCustomer)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CUS%06d", value), nil
}

// NextOrnamentCode выделяет код украшения вида ORN######
func (s *SequenceService) NextOrnamentCode(tx *gorm.DB) (string, error) {
	value, err := s.Next(tx, models.SequenceOrnament)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORN%06d", value), nil
}

// NextLoanReference выделяет номер займа вида LN########
func (s *SequenceService) NextLoanReference(tx *gorm.DB) (string, error) {
	value, err := s.Next(tx, models.SequenceLoan)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LN%08d", value), nil
}

// NextPaymentCode выделяет код платежа вида PAY########
func (s *SequenceService) NextPaymentCode(tx *gorm.DB) (string, error) {
	value, err := s.Next(tx, models.SequencePayment)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY%08d", value), nil
}
