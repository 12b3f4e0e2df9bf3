package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a dashboard user's permission level.
type Role string

const (
	// RoleSuperAdmin operates across all companies.
	RoleSuperAdmin Role = "superadmin"
	// RoleAdmin administers a single company: users, departments, assignment.
	RoleAdmin Role = "admin"
	// RoleStaff works records within their company (and department, if set).
	RoleStaff Role = "staff"
)

// User represents a dashboard operator. Citizens are not users; they only
// appear as contact fields on records.
type User struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	CompanyID    string  `gorm:"type:uuid;index" json:"company_id"`
	DepartmentID *string `gorm:"type:uuid;index" json:"department_id,omitempty"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Phone        string `json:"phone"`
	Role         Role   `gorm:"type:text;not null;default:staff;index" json:"role"`

	// TelegramChatID, when non-zero, receives assignment alerts.
	TelegramChatID int64 `json:"telegram_chat_id,omitempty"`

	Active bool `gorm:"default:true;index" json:"active"`
}

// BeforeCreate generates a UUID for the user if one is not already set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// CanWork reports whether the user's role may act on workflow records.
func (u *User) CanWork() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

// Actor is the authenticated identity behind an engine call. It is built by
// the auth middleware from JWT claims and passed explicitly into every
// workflow operation; there is no ambient current-user state.
type Actor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	CompanyID    string  `json:"company_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	SourceIP     string  `json:"-"`
}

// CoversCompany reports whether the actor may act on resources of the given
// company. Superadmins cover everything.
func (a Actor) CoversCompany(companyID string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	return a.CompanyID == companyID
}
