// Package audit provides the append-only trail recorder. Recording is
// best-effort telemetry: the workflow never waits on it and never fails
// because of it.
package audit

import (
	"log"
	"time"

	"civicbot/backend/internal/config"
	"civicbot/backend/internal/models"
	"civicbot/backend/internal/storage"
)

// Sink is the slice of Storage the recorder writes through.
type Sink interface {
	SaveAuditLog(entry *models.AuditLog) error
	PublishAuditEntry(entry models.AuditLog) error
}

// assert the full storage service satisfies the sink
var _ Sink = (*storage.Service)(nil)

// Recorder buffers audit entries on a channel and persists them from a
// single worker goroutine, keeping the write off the request path.
type Recorder struct {
	sink  Sink
	inbox chan models.AuditLog
	done  chan struct{}
}

// NewRecorder creates a Recorder with the default buffer.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		sink:  sink,
		inbox: make(chan models.AuditLog, config.AuditBufferSize),
		done:  make(chan struct{}),
	}
}

// Record enqueues an entry. It never blocks: when the buffer is full the
// entry is dropped and the drop is logged, so a slow database cannot stall
// request handling.
func (r *Recorder) Record(entry models.AuditLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	select {
	case r.inbox <- entry:
	default:
		log.Printf("WARN: Audit buffer full, dropping %s %s/%s by %s",
			entry.Action, entry.ResourceType, entry.ResourceID, entry.ActorID)
	}
}

// Run consumes the inbox until Stop is called. Persistence failures are
// logged and the entry is still published to the live feed, so the dashboard
// keeps moving even when the trail table is briefly unavailable.
func (r *Recorder) Run() {
	defer close(r.done)
	for entry := range r.inbox {
		if err := r.sink.SaveAuditLog(&entry); err != nil {
			log.Printf("ERROR: Failed to persist audit entry %s/%s: %v",
				entry.Action, entry.ResourceID, err)
		}
		if err := r.sink.PublishAuditEntry(entry); err != nil {
			log.Printf("WARN: Failed to publish audit entry %s/%s to feed: %v",
				entry.Action, entry.ResourceID, err)
		}
	}
}

// Stop closes the inbox and waits for the worker to drain it.
func (r *Recorder) Stop() {
	close(r.inbox)
	<-r.done
}
