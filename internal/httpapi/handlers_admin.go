package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunMigrations re-applies the idempotent schema steps on demand. Safe to
// call at any time; "already exists" is success.
func (h Handlers) RunMigrations(c *gin.Context) {
	if h.MigrationRun == nil {
		fail(c, http.StatusInternalServerError, "migrations not configured")
		return
	}
	if err := h.MigrationRun(c.Request.Context()); err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "migrations.run", "schema", "")
	respond(c, http.StatusOK, "migrations applied", nil)
}

func (h Handlers) MigrationsStatus(c *gin.Context) {
	if h.MigrationStatus == nil {
		fail(c, http.StatusInternalServerError, "migrations not configured")
		return
	}
	status, err := h.MigrationStatus(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "migration status", status)
}
