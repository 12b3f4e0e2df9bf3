package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a scheduled visit booked through the chatbot. It shares the
// grievance workflow shape (scope, assignee, status history) with its own
// status set and scheduling fields.
type Appointment struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	CompanyID    string  `gorm:"type:uuid;not null;index" json:"company_id"`
	DepartmentID *string `gorm:"type:uuid;index" json:"department_id,omitempty"`

	CitizenName  string `json:"citizen_name"`
	CitizenPhone string `gorm:"not null;index" json:"citizen_phone"`
	CitizenLang  string `gorm:"default:en" json:"citizen_lang"`

	Purpose     string    `gorm:"not null" json:"purpose"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`

	Status     Status  `gorm:"type:text;not null;default:PENDING;index" json:"status"`
	AssigneeID *string `gorm:"type:uuid;index" json:"assignee_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the appointment if one is not already set.
func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (a *Appointment) Kind() RecordKind         { return KindAppointment }
func (a *Appointment) GetID() string            { return a.ID }
func (a *Appointment) GetStatus() Status        { return a.Status }
func (a *Appointment) SetStatus(s Status)       { a.Status = s }
func (a *Appointment) GetCompanyID() string     { return a.CompanyID }
func (a *Appointment) GetDepartmentID() *string { return a.DepartmentID }
func (a *Appointment) GetAssigneeID() *string   { return a.AssigneeID }
func (a *Appointment) SetAssigneeID(id *string) { a.AssigneeID = id }
func (a *Appointment) GetCitizenPhone() string  { return a.CitizenPhone }
func (a *Appointment) GetCitizenLang() string   { return a.CitizenLang }
