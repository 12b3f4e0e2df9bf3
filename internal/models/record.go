package models

// RecordKind distinguishes the two workflow record variants.
type RecordKind string

const (
	KindGrievance   RecordKind = "grievance"
	KindAppointment RecordKind = "appointment"
)

// Status is a lifecycle state of a workflow record. Each RecordKind has its
// own set of legal values; see GrievanceStatuses and AppointmentStatuses.
type Status string

const (
	// Grievance statuses.
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
	StatusCancelled  Status = "CANCELLED"

	// Appointment statuses. PENDING and CANCELLED are shared with grievances.
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

// GrievanceStatuses is the full status set for grievances.
var GrievanceStatuses = []Status{
	StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusCancelled,
}

// AppointmentStatuses is the full status set for appointments.
var AppointmentStatuses = []Status{
	StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow,
}

// ParseRecordKind maps a URL path segment ("grievance"/"appointment",
// plural accepted) to a RecordKind.
func ParseRecordKind(s string) (RecordKind, bool) {
	switch s {
	case "grievance", "grievances":
		return KindGrievance, true
	case "appointment", "appointments":
		return KindAppointment, true
	}
	return "", false
}

// Statuses returns the legal status set for the kind.
func (k RecordKind) Statuses() []Status {
	if k == KindAppointment {
		return AppointmentStatuses
	}
	return GrievanceStatuses
}

// ValidStatus reports whether s is a member of the kind's status set.
func (k RecordKind) ValidStatus(s Status) bool {
	for _, v := range k.Statuses() {
		if v == s {
			return true
		}
	}
	return false
}

// WorkflowRecord is the common surface of Grievance and Appointment that the
// workflow engine operates on. It abstracts the two variants the same way a
// connection interface abstracts different client types: the engine never
// needs to know which concrete model it is mutating.
type WorkflowRecord interface {
	// Kind identifies the record variant.
	Kind() RecordKind
	// GetID returns the record's immutable identifier.
	GetID() string
	// GetStatus returns the current lifecycle status.
	GetStatus() Status
	// SetStatus overwrites the status field. Only the workflow engine may
	// call this; handlers and storage go through the engine.
	SetStatus(Status)
	// GetCompanyID returns the owning company's id.
	GetCompanyID() string
	// GetDepartmentID returns the department scope, or nil when the record
	// is company-wide.
	GetDepartmentID() *string
	// GetAssigneeID returns the assigned user's id, or nil when unassigned.
	GetAssigneeID() *string
	// SetAssigneeID overwrites the assignee. Only the workflow engine may
	// call this.
	SetAssigneeID(*string)
	// GetCitizenPhone returns the phone number notifications are sent to.
	GetCitizenPhone() string
	// GetCitizenLang returns the citizen's preferred language code.
	GetCitizenLang() string
}
