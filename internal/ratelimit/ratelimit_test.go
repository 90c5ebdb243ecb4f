package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for name, l := range map[string]*Limiter{
		"nil client": New(nil, 10, time.Minute),
		"zero limit": New(nil, 0, time.Minute),
	} {
		if l.Enabled() {
			t.Fatalf("%s: limiter should be disabled", name)
		}

		r := gin.New()
		r.Use(l.Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("%s: expected pass-through, got %d", name, w.Code)
		}
	}
}
