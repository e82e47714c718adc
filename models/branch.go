package models

import (
	"time"
)

// Branch представляет филиал
type Branch struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;size:100"`
	Address   string    `gorm:"column:address;size:255"`
	Phone     string    `gorm:"column:phone;size:20"`
	Email     string    `gorm:"column:email;size:100"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Branch) TableName() string {
	return "branches"
}
