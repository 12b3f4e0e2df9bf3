package handler

import (
	"net/http"
	"strconv"

	"civicbot/backend/internal/feedhub"
	"civicbot/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin; token auth already
	// gates the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RecentActivity returns the newest audit entries visible to the actor.
// GET /api/activity
func (h *Handler) RecentActivity(c *gin.Context) {
	a := actor(c)

	companyID := a.CompanyID
	if a.Role == models.RoleSuperAdmin {
		companyID = c.Query("company_id") // empty means all tenants
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.Storage.ListAuditLogs(companyID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load activity")
		return
	}
	respondOK(c, entries)
}

// ServeActivityFeed upgrades the connection and registers the client on the
// live activity hub. GET /api/ws/activity
func (h *Handler) ServeActivityFeed(c *gin.Context) {
	a := actor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	client := feedhub.NewClient(h.Hub, a, conn)
	h.Hub.RegisterCh <- client
	client.Run()
}
