package models

// Имена счетчиков идентификаторов
const (
	SequenceCustomer = "customer"
	SequenceOrnament = "ornament"
	SequenceLoan     = "loan"
	SequencePayment  = "payment"
)

// Sequence представляет атомарный счетчик для генерации
// последовательных идентификаторов (CUS######, LN######## и т.д.).
// Инкремент выполняется одним upsert-запросом внутри транзакции,
// поэтому гонка "прочитал-увеличил" при конкурентном создании исключена.
type Sequence struct {
	Name  string `gorm:"column:name;primaryKey;size:20"`
	Value int64  `gorm:"column:value;not null;default:0"`
}

func (Sequence) TableName() string {
	return "sequences"
}
