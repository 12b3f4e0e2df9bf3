package handler

import (
	"net/http"
	"time"

	"civicbot/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// scopeCompany resolves which company a list/create call operates on: the
// actor's own, or an explicit ?company_id for superadmins.
func scopeCompany(c *gin.Context, a models.Actor) string {
	if a.Role == models.RoleSuperAdmin {
		if id := c.Query("company_id"); id != "" {
			return id
		}
	}
	return a.CompanyID
}

// scopeDepartment narrows staff to their own department.
func scopeDepartment(a models.Actor) *string {
	if a.Role == models.RoleStaff {
		return a.DepartmentID
	}
	return nil
}

// ListGrievances returns the actor-visible grievances.
func (h *Handler) ListGrievances(c *gin.Context) {
	a := actor(c)
	grievances, err := h.Storage.ListGrievances(scopeCompany(c, a), scopeDepartment(a))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load grievances")
		return
	}
	respondOK(c, grievances)
}

type createGrievanceRequest struct {
	DepartmentID *string  `json:"department_id"`
	CitizenName  string   `json:"citizen_name"`
	CitizenPhone string   `json:"citizen_phone" binding:"required"`
	CitizenLang  string   `json:"citizen_lang"`
	Subject      string   `json:"subject" binding:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Attachments  []string `json:"attachments"`
}

// CreateGrievance registers a new grievance in status PENDING, unassigned.
// The chatbot intake gateway calls this with a service account.
func (h *Handler) CreateGrievance(c *gin.Context) {
	var req createGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "citizen_phone and subject are required")
		return
	}

	a := actor(c)
	grievance := &models.Grievance{
		CompanyID:    scopeCompany(c, a),
		DepartmentID: req.DepartmentID,
		CitizenName:  req.CitizenName,
		CitizenPhone: req.CitizenPhone,
		CitizenLang:  req.CitizenLang,
		Subject:      req.Subject,
		Description:  req.Description,
		Category:     req.Category,
		Attachments:  pq.StringArray(req.Attachments),
		Status:       models.StatusPending,
	}
	if err := h.Storage.CreateRecord(grievance); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create grievance")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    grievance.CompanyID,
		Action:       models.AuditCreate,
		ResourceType: string(models.KindGrievance),
		ResourceID:   grievance.ID,
		SourceIP:     a.SourceIP,
	})

	respondCreated(c, grievance)
}

// GetGrievance returns one grievance with its status history.
func (h *Handler) GetGrievance(c *gin.Context) {
	h.getRecord(c, models.KindGrievance)
}

// ListAppointments returns the actor-visible appointments.
func (h *Handler) ListAppointments(c *gin.Context) {
	a := actor(c)
	appointments, err := h.Storage.ListAppointments(scopeCompany(c, a), scopeDepartment(a))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load appointments")
		return
	}
	respondOK(c, appointments)
}

type createAppointmentRequest struct {
	DepartmentID *string   `json:"department_id"`
	CitizenName  string    `json:"citizen_name"`
	CitizenPhone string    `json:"citizen_phone" binding:"required"`
	CitizenLang  string    `json:"citizen_lang"`
	Purpose      string    `json:"purpose" binding:"required"`
	Location     string    `json:"location"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
}

// CreateAppointment registers a new appointment in status PENDING.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "citizen_phone, purpose and scheduled_at are required")
		return
	}

	a := actor(c)
	appointment := &models.Appointment{
		CompanyID:    scopeCompany(c, a),
		DepartmentID: req.DepartmentID,
		CitizenName:  req.CitizenName,
		CitizenPhone: req.CitizenPhone,
		CitizenLang:  req.CitizenLang,
		Purpose:      req.Purpose,
		Location:     req.Location,
		ScheduledAt:  req.ScheduledAt,
		Status:       models.StatusPending,
	}
	if err := h.Storage.CreateRecord(appointment); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    appointment.CompanyID,
		Action:       models.AuditCreate,
		ResourceType: string(models.KindAppointment),
		ResourceID:   appointment.ID,
		SourceIP:     a.SourceIP,
	})

	respondCreated(c, appointment)
}

// GetAppointment returns one appointment with its status history.
func (h *Handler) GetAppointment(c *gin.Context) {
	h.getRecord(c, models.KindAppointment)
}

func (h *Handler) getRecord(c *gin.Context, kind models.RecordKind) {
	a := actor(c)
	rec, err := h.Storage.FindRecord(kind, c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "record not found")
		return
	}
	if !a.CoversCompany(rec.GetCompanyID()) {
		respondError(c, http.StatusForbidden, "record belongs to another company")
		return
	}

	history, err := h.Storage.GetHistory(kind, rec.GetID())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load history")
		return
	}
	respondOK(c, gin.H{"record": rec, "history": history})
}

type updateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Remarks string `json:"remarks"`
}

// UpdateStatus applies a status transition via the workflow engine.
// PUT /api/status/:type/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	kind, ok := models.ParseRecordKind(c.Param("type"))
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown record type")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	rec, err := h.Engine.Transition(kind, c.Param("id"), models.Status(req.Status), req.Remarks, actor(c))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	respondOK(c, rec)
}
