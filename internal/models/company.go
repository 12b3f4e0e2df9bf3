package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a tenant of the platform. Every record, department and user
// (except superadmins) belongs to exactly one company.
type Company struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	// WhatsAppNumber is the Cloud API phone number citizens chat with.
	WhatsAppNumber string `json:"whatsapp_number"`

	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID for the company if one is not already set.
func (c *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Department is an organizational unit inside a company. Records may be
// scoped to a department, which narrows who can be assigned to them.
type Department struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CompanyID string `gorm:"type:uuid;not null;uniqueIndex:idx_company_dept" json:"company_id"`
	Name      string `gorm:"not null;uniqueIndex:idx_company_dept" json:"name"`
}

// BeforeCreate generates a UUID for the department if one is not already set.
func (d *Department) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}
