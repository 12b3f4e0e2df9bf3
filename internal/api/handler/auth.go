package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"civicbot/backend/internal/config"
	"civicbot/backend/internal/models"
	"civicbot/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const actorContextKey = "actor"

// generateToken issues a signed JWT carrying the actor's identity and scope.
func generateToken(user *models.User, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"name":       user.Name,
		"role":       string(user.Role),
		"company_id": user.CompanyID,
		"exp":        time.Now().Add(config.TokenTTL).Unix(),
		"iss":        config.JWTIssuer,
	}
	if user.DepartmentID != nil {
		claims["department_id"] = *user.DepartmentID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseToken validates a JWT and rebuilds the Actor from its claims.
func parseToken(tokenString string, secret []byte) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, errors.New("invalid token claims")
	}

	actor := models.Actor{}
	actor.ID, _ = claims["user_id"].(string)
	actor.Name, _ = claims["name"].(string)
	if role, ok := claims["role"].(string); ok {
		actor.Role = models.Role(role)
	}
	actor.CompanyID, _ = claims["company_id"].(string)
	if dept, ok := claims["department_id"].(string); ok && dept != "" {
		actor.DepartmentID = &dept
	}
	if actor.ID == "" {
		return models.Actor{}, errors.New("token missing user identity")
	}
	return actor, nil
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Storage.FindUserByEmail(strings.ToLower(req.Email))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !user.Active {
		respondError(c, http.StatusUnauthorized, "account is deactivated")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := generateToken(user, h.JWTSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create token")
		return
	}

	h.Audit.Record(models.AuditLog{
		ActorID:      user.ID,
		ActorName:    user.Name,
		CompanyID:    user.CompanyID,
		Action:       models.AuditLogin,
		ResourceType: "user",
		ResourceID:   user.ID,
		SourceIP:     c.ClientIP(),
	})

	respondOK(c, gin.H{"token": token, "user": user})
}

// Logout records the logout. Tokens are stateless; the client discards its
// copy and the trail keeps the session boundary.
func (h *Handler) Logout(c *gin.Context) {
	a := actor(c)
	h.Audit.Record(models.AuditLog{
		ActorID:      a.ID,
		ActorName:    a.Name,
		CompanyID:    a.CompanyID,
		Action:       models.AuditLogout,
		ResourceType: "user",
		ResourceID:   a.ID,
		SourceIP:     a.SourceIP,
	})
	respondOK(c, gin.H{"logged_out": true})
}

// RequireAuth parses the Bearer token and stores the Actor on the context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "authorization token missing"})
			return
		}

		a, err := parseToken(tokenString, h.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": "invalid or expired token"})
			return
		}
		a.SourceIP = c.ClientIP()

		c.Set(actorContextKey, a)
		c.Next()
	}
}

// RequireRole allows only the listed roles past.
func (h *Handler) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := actor(c)
		for _, role := range roles {
			if a.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			gin.H{"success": false, "message": "insufficient role"})
	}
}

// actor returns the authenticated Actor stored by RequireAuth.
func actor(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if a, ok := v.(models.Actor); ok {
			return a
		}
	}
	return models.Actor{}
}
