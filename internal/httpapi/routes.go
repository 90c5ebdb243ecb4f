package httpapi

import (
	"context"
	"net/http"

	"assistant-platform/internal/auth"
	"assistant-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// HealthFunc reports readiness of the backing stores.
type HealthFunc func(ctx context.Context) error

// Register wires every route onto the engine. Everything except /healthz
// and /auth/* sits behind the bearer-token gate; destructive user
// management, call corrections and the activity log additionally require
// the admin role.
func Register(r *gin.Engine, h Handlers, tokens *auth.Manager, health HealthFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				fail(c, http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		respond(c, http.StatusOK, "ok", nil)
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-token", h.VerifyToken)
	}

	protected := r.Group("/", auth.RequireToken(tokens))
	admin := protected.Group("/", rbac.RequireAdmin())

	protected.GET("/users", h.ListUsers)
	protected.GET("/users/:id", h.GetUser)
	protected.POST("/users", h.CreateUser)
	protected.PATCH("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)

	protected.GET("/assistants", h.ListAssistants)
	protected.GET("/assistants/active", h.ListActiveAssistants)
	protected.GET("/assistants/:id", h.GetAssistant)
	protected.POST("/assistants", h.CreateAssistant)
	protected.PATCH("/assistants/:id", h.UpdateAssistant)
	protected.DELETE("/assistants/:id", h.DeleteAssistant)

	protected.GET("/clients", h.ListClients)
	protected.GET("/clients/email/:email", h.GetClientByEmail)
	protected.GET("/clients/:id", h.GetClient)
	protected.POST("/clients", h.CreateClient)
	protected.PATCH("/clients/:id", h.UpdateClient)
	protected.DELETE("/clients/:id", h.DeleteClient)

	protected.GET("/schedules", h.ListSchedules)
	protected.GET("/schedules/upcoming", h.ListUpcomingSchedules)
	protected.GET("/schedules/status/:status", h.ListSchedulesByStatus)
	protected.GET("/schedules/:id", h.GetSchedule)
	protected.POST("/schedules", h.CreateSchedule)
	protected.PATCH("/schedules/:id", h.UpdateSchedule)
	protected.PATCH("/schedules/:id/status", h.TransitionSchedule)
	protected.PATCH("/schedules/:id/cancel", h.CancelSchedule)
	protected.DELETE("/schedules/:id", h.DeleteSchedule)

	protected.GET("/calls", h.ListCalls)
	protected.GET("/calls/completed", h.ListCompletedCalls)
	protected.GET("/calls/recent", h.ListRecentCalls)
	protected.GET("/calls/analytics", h.GetCallAnalytics)
	protected.GET("/calls/assistant/:id", h.ListCallsByAssistant)
	protected.GET("/calls/client/:id", h.ListCallsByClient)
	protected.GET("/calls/:id", h.GetCall)
	protected.POST("/calls/start", h.StartCall)
	protected.POST("/calls/:id/log", h.AppendCallLog)
	protected.PATCH("/calls/:id/complete", h.CompleteCall)
	protected.PATCH("/calls/:id/fail", h.FailCall)
	admin.PATCH("/calls/:id", h.CorrectCall)
	protected.DELETE("/calls/:id", h.DeleteCall)

	admin.GET("/admin/activity", h.ListActivity)
	admin.GET("/admin/migrations/status", h.MigrationsStatus)
	admin.POST("/admin/migrations/run", h.RunMigrations)
}
