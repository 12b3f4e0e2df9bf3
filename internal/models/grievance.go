package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Grievance is a citizen complaint tracked through its lifecycle. Records are
// created by the chatbot intake gateway in status PENDING and unassigned;
// after that only the workflow engine mutates Status and AssigneeID.
type Grievance struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	CompanyID    string  `gorm:"type:uuid;not null;index" json:"company_id"`
	DepartmentID *string `gorm:"type:uuid;index" json:"department_id,omitempty"`

	CitizenName  string `json:"citizen_name"`
	CitizenPhone string `gorm:"not null;index" json:"citizen_phone"`
	CitizenLang  string `gorm:"default:en" json:"citizen_lang"`

	Subject     string         `gorm:"not null" json:"subject"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments"` // media URLs from the intake flow

	Status     Status  `gorm:"type:text;not null;default:PENDING;index" json:"status"`
	AssigneeID *string `gorm:"type:uuid;index" json:"assignee_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the grievance if one is not already set.
func (g *Grievance) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return
}

func (g *Grievance) Kind() RecordKind          { return KindGrievance }
func (g *Grievance) GetID() string             { return g.ID }
func (g *Grievance) GetStatus() Status         { return g.Status }
func (g *Grievance) SetStatus(s Status)        { g.Status = s }
func (g *Grievance) GetCompanyID() string      { return g.CompanyID }
func (g *Grievance) GetDepartmentID() *string  { return g.DepartmentID }
func (g *Grievance) GetAssigneeID() *string    { return g.AssigneeID }
func (g *Grievance) SetAssigneeID(id *string)  { g.AssigneeID = id }
func (g *Grievance) GetCitizenPhone() string   { return g.CitizenPhone }
func (g *Grievance) GetCitizenLang() string    { return g.CitizenLang }
