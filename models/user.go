package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserRole представляет роль сотрудника
type UserRole string

const (
	RoleAdmin         UserRole = "ADMIN"          // Администратор
	RoleBranchManager UserRole = "BRANCH_MANAGER" // Управляющий филиалом
	RoleLoanOfficer   UserRole = "LOAN_OFFICER"   // Кредитный специалист
)

// UserStatus представляет статус сотрудника
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User представляет сотрудника филиала
type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	Username  string     `gorm:"column:username;unique;not null;size:50;index"`
	Email     string     `gorm:"column:email;unique;not null;size:100"`
	Password  string     `gorm:"column:password;not null;size:100"`
	Name      string     `gorm:"column:name;size:100"`
	Role      UserRole   `gorm:"column:role;type:varchar(20);not null;default:'LOAN_OFFICER'"`
	Status    UserStatus `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`
	BranchID  *uint      `gorm:"column:branch_id"`
	Branch    *Branch    `gorm:"foreignKey:BranchID"`
	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate хук для валидации перед созданием
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Username) < 3 || len(u.Username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if len(u.Email) < 3 || len(u.Email) > 100 {
		return errors.New("email must be between 3 and 100 characters")
	}
	switch u.Role {
	case RoleAdmin, RoleBranchManager, RoleLoanOfficer:
	default:
		return errors.New("unknown role: " + string(u.Role))
	}
	return nil
}
