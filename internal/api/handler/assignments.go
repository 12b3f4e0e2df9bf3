package handler

import (
	"net/http"

	"civicbot/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type assignRequest struct {
	AssignedTo string `json:"assignedTo" binding:"required"`
}

// AssignRecord binds a record to a user via the assignment engine.
// PUT /api/assignments/:type/:id/assign
func (h *Handler) AssignRecord(c *gin.Context) {
	kind, ok := models.ParseRecordKind(c.Param("type"))
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown record type")
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "assignedTo is required")
		return
	}

	rec, err := h.Engine.Assign(kind, c.Param("id"), req.AssignedTo, actor(c))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	respondOK(c, rec)
}

// AvailableUsers returns the assignee pool for the caller's scope.
// GET /api/assignments/users/available
func (h *Handler) AvailableUsers(c *gin.Context) {
	a := actor(c)
	companyID := scopeCompany(c, a)

	var departmentID *string
	if dept := c.Query("department_id"); dept != "" {
		departmentID = &dept
	} else if a.Role == models.RoleStaff {
		departmentID = a.DepartmentID
	}

	users, err := h.Engine.AvailableAssignees(companyID, departmentID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load available users")
		return
	}
	respondOK(c, users)
}
