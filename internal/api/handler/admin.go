package handler

import (
	"errors"
	"net/http"
	"strings"

	"civicbot/backend/internal/models"
	"civicbot/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ListCompanies returns all tenants. Superadmin only.
func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.Storage.ListCompanies()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load companies")
		return
	}
	respondOK(c, companies)
}

type companyRequest struct {
	Name           string `json:"name" binding:"required"`
	Slug           string `json:"slug" binding:"required"`
	WhatsAppNumber string `json:"whatsapp_number"`
}

// CreateCompany registers a new tenant. Superadmin only.
func (h *Handler) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and slug are required")
		return
	}

	company := &models.Company{
		Name:           req.Name,
		Slug:           strings.ToLower(req.Slug),
		WhatsAppNumber: req.WhatsAppNumber,
		Active:         true,
	}
	if err := h.Storage.SaveCompany(company); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create company")
		return
	}

	a := actor(c)
	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    company.ID,
		Action:       models.AuditCreate,
		ResourceType: "company",
		ResourceID:   company.ID,
		SourceIP:     a.SourceIP,
	})

	respondCreated(c, company)
}

// UpdateCompany updates tenant fields. Superadmin only.
func (h *Handler) UpdateCompany(c *gin.Context) {
	company, err := h.Storage.FindCompanyByID(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "company not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	var req struct {
		Name           *string `json:"name"`
		WhatsAppNumber *string `json:"whatsapp_number"`
		Active         *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.WhatsAppNumber != nil {
		company.WhatsAppNumber = *req.WhatsAppNumber
	}
	if req.Active != nil {
		company.Active = *req.Active
	}

	if err := h.Storage.SaveCompany(company); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update company")
		return
	}

	a := actor(c)
	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    company.ID,
		Action:       models.AuditUpdate,
		ResourceType: "company",
		ResourceID:   company.ID,
		SourceIP:     a.SourceIP,
	})

	respondOK(c, company)
}

// ListDepartments returns the actor's company departments.
func (h *Handler) ListDepartments(c *gin.Context) {
	a := actor(c)
	depts, err := h.Storage.ListDepartments(scopeCompany(c, a))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load departments")
		return
	}
	respondOK(c, depts)
}

// CreateDepartment adds a department to the actor's company.
func (h *Handler) CreateDepartment(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	a := actor(c)
	dept := &models.Department{
		CompanyID: scopeCompany(c, a),
		Name:      req.Name,
	}
	if err := h.Storage.SaveDepartment(dept); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create department")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    dept.CompanyID,
		Action:       models.AuditCreate,
		ResourceType: "department",
		ResourceID:   dept.ID,
		SourceIP:     a.SourceIP,
	})

	respondCreated(c, dept)
}

// ListUsers returns the actor's company users.
func (h *Handler) ListUsers(c *gin.Context) {
	a := actor(c)
	users, err := h.Storage.ListUsers(scopeCompany(c, a))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}
	respondOK(c, users)
}

type createUserRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	Phone        string  `json:"phone"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id"`
}

// CreateUser adds an operator to the actor's company. Company admins may
// create staff and admin accounts; the superadmin role is never grantable
// through the API.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email and password (min 8 chars) are required")
		return
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleStaff && role != models.RoleAdmin {
		respondError(c, http.StatusBadRequest, "role must be staff or admin")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	a := actor(c)
	user := &models.User{
		CompanyID:    scopeCompany(c, a),
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}
	if err := h.Storage.SaveUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    user.CompanyID,
		Action:       models.AuditCreate,
		ResourceType: "user",
		ResourceID:   user.ID,
		SourceIP:     a.SourceIP,
	})

	respondCreated(c, user)
}

// UpdateUser changes an operator's role, department, contact or Telegram
// link within the actor's company.
func (h *Handler) UpdateUser(c *gin.Context) {
	a := actor(c)
	user := h.loadCompanyUser(c, a)
	if user == nil {
		return
	}

	var req struct {
		Name           *string `json:"name"`
		Phone          *string `json:"phone"`
		Role           *string `json:"role"`
		DepartmentID   *string `json:"department_id"`
		TelegramChatID *int64  `json:"telegram_chat_id"`
		Active         *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	if req.Role != nil {
		role := models.Role(*req.Role)
		if role != models.RoleStaff && role != models.RoleAdmin {
			respondError(c, http.StatusBadRequest, "role must be staff or admin")
			return
		}
		user.Role = role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.TelegramChatID != nil {
		user.TelegramChatID = *req.TelegramChatID
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.Storage.SaveUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update user")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    user.CompanyID,
		Action:       models.AuditUpdate,
		ResourceType: "user",
		ResourceID:   user.ID,
		SourceIP:     a.SourceIP,
	})

	respondOK(c, user)
}

// DeactivateUser soft-deletes an operator: the account stays for the audit
// trail but can no longer log in or be assigned.
func (h *Handler) DeactivateUser(c *gin.Context) {
	a := actor(c)
	user := h.loadCompanyUser(c, a)
	if user == nil {
		return
	}

	user.Active = false
	if err := h.Storage.SaveUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to deactivate user")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    user.CompanyID,
		Action:       models.AuditDelete,
		ResourceType: "user",
		ResourceID:   user.ID,
		SourceIP:     a.SourceIP,
	})

	respondOK(c, gin.H{"deactivated": true})
}

// loadCompanyUser fetches the target user and enforces company scoping.
// It writes the error response itself and returns nil when the caller
// should stop.
func (h *Handler) loadCompanyUser(c *gin.Context, a models.Actor) *models.User {
	user, err := h.Storage.FindUserByID(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return nil
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return nil
	}
	if !a.CoversCompany(user.CompanyID) {
		respondError(c, http.StatusForbidden, "user belongs to another company")
		return nil
	}
	return user
}
