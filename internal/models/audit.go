package models

import "time"

// AuditAction enumerates the actions the trail records.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditDelete  AuditAction = "DELETE"
	AuditAssign  AuditAction = "ASSIGN"
	AuditResolve AuditAction = "RESOLVE"
	AuditLogin   AuditAction = "LOGIN"
	AuditLogout  AuditAction = "LOGOUT"
)

// AuditLog is an immutable trail row. It is only ever appended by the audit
// recorder; the workflow engines never read it back. The dashboard's
// recent-activity feed is its sole consumer.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ActorID   string `gorm:"type:uuid;index" json:"actor_id"`
	ActorName string `json:"actor_name"`
	CompanyID string `gorm:"type:uuid;index" json:"company_id"`

	Action       AuditAction `gorm:"type:text;not null;index" json:"action"`
	ResourceType string      `gorm:"type:text;not null;index" json:"resource_type"`
	ResourceID   string      `gorm:"index" json:"resource_id"`

	// Before and After hold small JSON snapshots of the changed fields.
	Before string `gorm:"type:text" json:"before,omitempty"`
	After  string `gorm:"type:text" json:"after,omitempty"`

	SourceIP string `json:"source_ip,omitempty"`
}
