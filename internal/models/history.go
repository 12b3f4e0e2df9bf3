package models

import "gorm.io/gorm"

// StatusHistory is one append-only entry in a record's status trail. The
// embedded gorm.Model provides the entry ID and CreatedAt, which serves as
// the transition timestamp. Rows are only ever inserted, never updated.
type StatusHistory struct {
	gorm.Model

	// RecordKind and RecordID identify the grievance or appointment.
	RecordKind string `gorm:"type:text;not null;index:idx_record_history" json:"record_kind"`
	RecordID   string `gorm:"type:uuid;not null;index:idx_record_history" json:"record_id"`

	// Status the record entered with this transition.
	Status string `gorm:"type:text;not null" json:"status"`
	// Remarks is the free-text note the actor attached, if any.
	Remarks string `gorm:"type:text" json:"remarks"`

	ActorID   string `gorm:"type:uuid;index" json:"actor_id"`
	ActorName string `json:"actor_name"`
}
