package httpapi

import (
	"context"
	"net/http"

	"assistant-platform/internal/activity"
	"assistant-platform/internal/assistants"
	"assistant-platform/internal/auth"
	"assistant-platform/internal/calls"
	"assistant-platform/internal/clients"
	"assistant-platform/internal/schedules"
	"assistant-platform/internal/users"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return the
// envelope.

type Handlers struct {
	Auth       *auth.Service
	Users      *users.Service
	Assistants *assistants.Service
	Clients    *clients.Service
	Schedules  *schedules.Service
	Calls      *calls.Service
	Activity   *activity.Service

	// Schema runner hooks, wired by cmd/api; nil when the process has no
	// database (tests).
	MigrationStatus func(ctx context.Context) (map[string]bool, error)
	MigrationRun    func(ctx context.Context) error
}

// record writes a best-effort activity event for a mutating request.
func (h Handlers) record(c *gin.Context, action, entityType, entityID string) {
	if h.Activity == nil {
		return
	}
	actorID, _ := auth.UserID(c.Request.Context())
	actorRole, _ := auth.Role(c.Request.Context())
	h.Activity.Record(c.Request.Context(), activity.Event{
		Action:      action,
		ActorUserID: actorID,
		ActorRole:   actorRole,
		IPAddress:   c.ClientIP(),
		EntityType:  entityType,
		EntityID:    entityID,
	})
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	session, err := h.Auth.Register(c.Request.Context(), users.CreateRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "user.registered", "user", session.User.ID)
	respond(c, http.StatusCreated, "registered", session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "authenticated", session)
}

// VerifyToken reports whether the presented bearer token is valid and, if
// so, which user it belongs to. Unlike the auth gate it answers 200/401
// without blocking access to anything else.
func (h Handlers) VerifyToken(c *gin.Context) {
	token, ok := auth.BearerToken(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.Auth.VerifyToken(c.Request.Context(), token)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "token valid", gin.H{"valid": true, "user": u})
}
