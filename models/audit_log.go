package models

import (
	"time"
)

// AuditAction представляет тип действия в журнале аудита
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionImport AuditAction = "IMPORT"
)

// Модули, фигурирующие в журнале аудита
const (
	AuditModuleCustomer = "CUSTOMER"
	AuditModuleOrnament = "ORNAMENT"
	AuditModuleLoan     = "LOAN"
	AuditModulePayment  = "PAYMENT"
	AuditModuleUser     = "USER"
	AuditModuleBranch   = "BRANCH"
	AuditModuleRate     = "RATE"
	AuditModuleSetting  = "SETTING"
)

// AuditLog представляет запись журнала аудита. Журнал только пополняется:
// записи никогда не изменяются и не удаляются.
type AuditLog struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"`
	UserID    uint        `gorm:"column:user_id;not null;index"`
	User      User        `gorm:"foreignKey:UserID"`
	Action    AuditAction `gorm:"column:action;type:varchar(10);not null;index"`
	Module    string      `gorm:"column:module;size:20;not null;index"`
	RecordID  uint        `gorm:"column:record_id"`
	OldValues string      `gorm:"column:old_values;type:text"` // Сериализованный снимок до изменения
	NewValues string      `gorm:"column:new_values;type:text"` // Сериализованный снимок после изменения
	CreatedAt time.Time   `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
