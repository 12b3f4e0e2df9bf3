// Package handler exposes the REST and WebSocket surface of the dashboard
// API. Every response uses the envelope {"success": true, "data": ...} or
// {"success": false, "message": ...}.
package handler

import (
	"errors"
	"net/http"

	"civicbot/backend/internal/feedhub"
	"civicbot/backend/internal/models"
	"civicbot/backend/internal/storage"
	"civicbot/backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services the API layer depends on.
type Handler struct {
	Storage   storage.Storage
	Engine    *workflow.Engine
	Audit     workflow.Auditor
	Hub       *feedhub.Hub
	JWTSecret []byte
}

// NewHandler wires a Handler.
func NewHandler(s storage.Storage, engine *workflow.Engine, auditor workflow.Auditor, hub *feedhub.Hub, jwtSecret []byte) *Handler {
	return &Handler{
		Storage:   s,
		Engine:    engine,
		Audit:     auditor,
		Hub:       hub,
		JWTSecret: jwtSecret,
	}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(h.RequireAuth())
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/grievances", h.ListGrievances)
		authed.POST("/grievances", h.CreateGrievance)
		authed.GET("/grievances/:id", h.GetGrievance)

		authed.GET("/appointments", h.ListAppointments)
		authed.POST("/appointments", h.CreateAppointment)
		authed.GET("/appointments/:id", h.GetAppointment)

		authed.PUT("/status/:type/:id", h.UpdateStatus)
		authed.PUT("/assignments/:type/:id/assign", h.AssignRecord)
		authed.GET("/assignments/users/available", h.AvailableUsers)

		authed.GET("/activity", h.RecentActivity)
		authed.GET("/ws/activity", h.ServeActivityFeed)

		admin := authed.Group("")
		admin.Use(h.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
		{
			admin.GET("/users", h.ListUsers)
			admin.POST("/users", h.CreateUser)
			admin.PUT("/users/:id", h.UpdateUser)
			admin.DELETE("/users/:id", h.DeactivateUser)

			admin.GET("/departments", h.ListDepartments)
			admin.POST("/departments", h.CreateDepartment)
		}

		super := authed.Group("")
		super.Use(h.RequireRole(models.RoleSuperAdmin))
		{
			super.GET("/companies", h.ListCompanies)
			super.POST("/companies", h.CreateCompany)
			super.PUT("/companies/:id", h.UpdateCompany)
		}
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondWorkflowError maps the engine's error taxonomy onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrRecordNotFound),
		errors.Is(err, workflow.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrNoOpTransition),
		errors.Is(err, workflow.ErrInvalidStatus),
		errors.Is(err, workflow.ErrOutOfScopeAssignee):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
