// Package notify delivers best-effort messages outside the platform:
// WhatsApp texts to citizens on status changes and Telegram pings to staff
// on assignment. A delivery failure never affects the workflow operation
// that triggered it.
package notify

import "civicbot/backend/internal/models"

// Dispatcher sends the citizen-facing status change notification. The
// workflow engine calls it after the status has been persisted and treats
// any error as log-and-continue.
type Dispatcher interface {
	NotifyStatusChange(rec models.WorkflowRecord, newStatus models.Status, remarks string) error
}
