package models

import (
	"time"
)

// Note представляет заметку сотрудника по клиенту или займу
type Note struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	CustomerID *uint     `gorm:"column:customer_id;index"`
	LoanID     *uint     `gorm:"column:loan_id;index"`
	UserID     uint      `gorm:"column:user_id;not null"`
	User       User      `gorm:"foreignKey:UserID"`
	Content    string    `gorm:"column:content;not null;size:1000"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Note) TableName() string {
	return "notes"
}
