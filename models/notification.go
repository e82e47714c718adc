package models

import (
	"time"
)

// NotificationStatus представляет статус уведомления
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// Notification представляет уведомление для панели мониторинга
type Notification struct {
	ID         uint               `gorm:"primaryKey;autoIncrement"`
	LoanID     *uint              `gorm:"column:loan_id;index"`
	CustomerID *uint              `gorm:"column:customer_id;index"`
	Type       string             `gorm:"column:type;size:30;not null;default:'SYSTEM'"` // SYSTEM, OVERDUE, RISK, CLOSURE
	Title      string             `gorm:"column:title;not null;size:100"`
	Message    string             `gorm:"column:message;not null;size:500"`
	Priority   string             `gorm:"column:priority;size:10;not null;default:'MEDIUM'"` // LOW, MEDIUM, HIGH
	Channel    string             `gorm:"column:channel;size:10;not null;default:'IN_APP'"`  // IN_APP, EMAIL
	Status     NotificationStatus `gorm:"column:status;type:varchar(10);not null;default:'UNREAD'"`
	CreatedAt  time.Time          `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Notification) TableName() string {
	return "notifications"
}
