// Package workflow implements the status transition and assignment engines
// for grievances and appointments. All record mutations go through here:
// the engines validate, persist, and then fire best-effort follow-up
// effects (citizen notification, audit trail, staff alert) that never roll
// back or fail the primary change.
package workflow

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"civicbot/backend/internal/models"
	"civicbot/backend/internal/notify"
	"civicbot/backend/internal/storage"
)

// Auditor receives trail entries. Satisfied by audit.Recorder.
type Auditor interface {
	Record(entry models.AuditLog)
}

// Alerter pings the new assignee out of band. Satisfied by
// notify.StaffAlerter; may be left nil when no bot is configured.
type Alerter interface {
	AlertAssignment(assignee *models.User, rec models.WorkflowRecord) error
}

// Engine validates and applies workflow mutations. It serializes mutations
// per record through a keyed mutex map, so two concurrent calls on the same
// record cannot interleave their read-modify-write cycles; the source
// system let them race last-write-wins.
type Engine struct {
	Storage  storage.Storage
	Notifier notify.Dispatcher
	Audit    Auditor
	Alerter  Alerter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an Engine. Alerter may be nil.
func NewEngine(s storage.Storage, n notify.Dispatcher, a Auditor, alerter Alerter) *Engine {
	return &Engine{
		Storage:  s,
		Notifier: n,
		Audit:    a,
		Alerter:  alerter,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockRecord acquires the per-record mutex and returns its release func.
// Lock entries are kept for the process lifetime; the record population is
// bounded and small compared to holding one gorm row lock per request.
func (e *Engine) lockRecord(kind models.RecordKind, id string) func() {
	key := string(kind) + ":" + id
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Transition applies a status change to a record. Any member of the kind's
// status set may follow any other distinct member; there is no adjacency
// table. On success the new status and a history entry are persisted
// atomically, the citizen is notified best-effort, and an audit entry is
// recorded.
func (e *Engine) Transition(kind models.RecordKind, recordID string, newStatus models.Status, remarks string, actor models.Actor) (models.WorkflowRecord, error) {
	if !kind.ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	unlock := e.lockRecord(kind, recordID)
	defer unlock()

	rec, err := e.Storage.FindRecord(kind, recordID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	if !e.canTransition(actor, rec) {
		return nil, ErrForbidden
	}
	prev := rec.GetStatus()
	if prev == newStatus {
		return nil, ErrNoOpTransition
	}

	rec.SetStatus(newStatus)
	entry := &models.StatusHistory{
		RecordKind: string(kind),
		RecordID:   recordID,
		Status:     string(newStatus),
		Remarks:    remarks,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
	}
	if err := e.Storage.UpdateRecordStatus(rec, entry); err != nil {
		return nil, err
	}

	// Follow-up effects. The status change is already committed; neither
	// dispatch nor audit failure can undo it.
	if err := e.Notifier.NotifyStatusChange(rec, newStatus, remarks); err != nil {
		log.Printf("ERROR: Notification dispatch failed for %s %s (contact %s): %v",
			kind, recordID, rec.GetCitizenPhone(), err)
	}

	action := models.AuditUpdate
	if newStatus == models.StatusResolved {
		action = models.AuditResolve
	}
	e.Audit.Record(models.AuditLog{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		CompanyID:    rec.GetCompanyID(),
		Action:       action,
		ResourceType: string(kind),
		ResourceID:   recordID,
		Before:       statusSnapshot(prev),
		After:        statusSnapshot(newStatus),
		SourceIP:     actor.SourceIP,
	})

	return rec, nil
}

// Assign binds a record to an eligible user. Re-assignment overwrites the
// current assignee without any confirmation step. Assignment does not
// notify the citizen; only the new assignee gets an out-of-band alert.
func (e *Engine) Assign(kind models.RecordKind, recordID, assigneeID string, actor models.Actor) (models.WorkflowRecord, error) {
	unlock := e.lockRecord(kind, recordID)
	defer unlock()

	rec, err := e.Storage.FindRecord(kind, recordID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	// Only company-level administrators (or superadmins) assign.
	if actor.Role != models.RoleSuperAdmin &&
		(actor.Role != models.RoleAdmin || actor.CompanyID != rec.GetCompanyID()) {
		return nil, ErrForbidden
	}

	assignee, err := e.Storage.FindUserByID(assigneeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assignee.Active {
		return nil, ErrUserNotFound
	}
	if !assigneeInScope(assignee, rec) {
		return nil, ErrOutOfScopeAssignee
	}

	before := rec.GetAssigneeID()
	rec.SetAssigneeID(&assignee.ID)
	if err := e.Storage.UpdateRecordAssignee(rec); err != nil {
		return nil, err
	}

	e.Audit.Record(models.AuditLog{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		CompanyID:    rec.GetCompanyID(),
		Action:       models.AuditAssign,
		ResourceType: string(kind),
		ResourceID:   recordID,
		Before:       assigneeSnapshot(before),
		After:        assigneeSnapshot(&assignee.ID),
		SourceIP:     actor.SourceIP,
	})

	if e.Alerter != nil {
		if err := e.Alerter.AlertAssignment(assignee, rec); err != nil {
			log.Printf("WARN: Assignment alert failed for %s %s: %v", kind, recordID, err)
		}
	}

	return rec, nil
}

// AvailableAssignees returns the candidate pool for the given scope. The
// caller has already resolved the scope from the actor or the record.
func (e *Engine) AvailableAssignees(companyID string, departmentID *string) ([]models.User, error) {
	return e.Storage.AvailableUsers(companyID, departmentID)
}

// canTransition gates status changes: admins and staff within the record's
// company, staff further limited to their department when both they and the
// record carry one. Superadmins are unrestricted.
func (e *Engine) canTransition(actor models.Actor, rec models.WorkflowRecord) bool {
	if actor.Role == models.RoleSuperAdmin {
		return true
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleStaff {
		return false
	}
	if actor.CompanyID != rec.GetCompanyID() {
		return false
	}
	if actor.Role == models.RoleStaff && actor.DepartmentID != nil && rec.GetDepartmentID() != nil {
		return *actor.DepartmentID == *rec.GetDepartmentID()
	}
	return true
}

// assigneeInScope checks the candidate against the record's company and
// department scope. Users without a department are company-wide and may be
// assigned to any of the company's records.
func assigneeInScope(u *models.User, rec models.WorkflowRecord) bool {
	if !u.CanWork() {
		return false
	}
	if u.CompanyID != rec.GetCompanyID() {
		return false
	}
	if rec.GetDepartmentID() != nil && u.DepartmentID != nil {
		return *u.DepartmentID == *rec.GetDepartmentID()
	}
	return true
}

func statusSnapshot(s models.Status) string {
	data, _ := json.Marshal(map[string]string{"status": string(s)})
	return string(data)
}

func assigneeSnapshot(id *string) string {
	v := map[string]*string{"assignee_id": id}
	data, _ := json.Marshal(v)
	return string(data)
}
