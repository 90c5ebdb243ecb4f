package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assistant-platform/internal/activity"
	"assistant-platform/internal/assistants"
	"assistant-platform/internal/auth"
	"assistant-platform/internal/calls"
	"assistant-platform/internal/clients"
	"assistant-platform/internal/config"
	"assistant-platform/internal/schedules"
	"assistant-platform/internal/users"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (http.Handler, Handlers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager(config.AuthConfig{
		JWTSecret: "test-secret",
		JWTIssuer: "assistant-platform-test",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	userSvc := users.NewService(users.NewMemoryRepo())
	assistantSvc := assistants.NewService(assistants.NewMemoryRepo())
	clientSvc := clients.NewService(clients.NewMemoryRepo())
	scheduleSvc := schedules.NewService(schedules.NewMemoryRepo(), assistantSvc, clientSvc)
	callSvc := calls.NewService(calls.NewMemoryRepo(), scheduleSvc)

	h := Handlers{
		Auth:       auth.NewService(userSvc, tokens),
		Users:      userSvc,
		Assistants: assistantSvc,
		Clients:    clientSvc,
		Schedules:  scheduleSvc,
		Calls:      callSvc,
		Activity:   activity.NewService(activity.NewMemoryRepo(), nil),
		MigrationStatus: func(ctx context.Context) (map[string]bool, error) {
			return map[string]bool{"users": true}, nil
		},
		MigrationRun: func(ctx context.Context) error { return nil },
	}

	r := gin.New()
	Register(r, h, tokens, nil)
	return r, h
}

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope from %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func register(t *testing.T, router http.Handler, email, password, name, role string) auth.Session {
	t.Helper()
	w, env := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": password, "name": name, "role": role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	var session auth.Session
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func TestRegisterLoginAndListUsers(t *testing.T) {
	router, _ := newTestRouter(t)

	registered := register(t, router, "alice@example.com", "secret123", "Alice", "")
	if registered.AccessToken == "" || registered.User.Email != "alice@example.com" {
		t.Fatalf("unexpected session: %+v", registered)
	}

	w, env := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var session auth.Session
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatalf("login returned no token")
	}

	w, env = do(t, router, http.MethodGet, "/users", session.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: %d %s", w.Code, w.Body.String())
	}
	var list []users.User
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Alice" {
		t.Fatalf("expected Alice in user list, got %+v", list)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice@example.com", "secret123", "Alice", "")

	w, env := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized || env.Status != "error" {
		t.Fatalf("expected 401 error envelope, got %d %s", w.Code, w.Body.String())
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "alice@example.com", "secret123", "Alice", "")

	w, _ := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ALICE@example.com", "password": "other456", "name": "Imposter",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutes_RejectMissingToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/users", "/assistants", "/clients", "/schedules", "/calls"} {
		w, _ := do(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: expected 401, got %d", path, w.Code)
		}
	}
}

func TestVerifyToken(t *testing.T) {
	router, _ := newTestRouter(t)
	session := register(t, router, "alice@example.com", "secret123", "Alice", "")

	w, env := do(t, router, http.MethodPost, "/auth/verify-token", session.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Valid bool       `json:"valid"`
		User  users.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Valid || out.User.ID != session.User.ID {
		t.Fatalf("unexpected verification result: %+v", out)
	}

	w, _ = do(t, router, http.MethodPost, "/auth/verify-token", "not.a.token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}
}

func TestScheduleCancelFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := register(t, router, "planner@example.com", "secret123", "Planner", "").AccessToken

	w, env := do(t, router, http.MethodPost, "/assistants", token, map[string]any{
		"name": "Alex", "description": "concierge", "voice_type": "en-US-Neural2-D",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create assistant: %d %s", w.Code, w.Body.String())
	}
	var a assistants.Assistant
	if err := json.Unmarshal(env.Data, &a); err != nil {
		t.Fatalf("decode assistant: %v", err)
	}

	w, env = do(t, router, http.MethodPost, "/clients", token, map[string]any{
		"name": "Bob", "email": "bob@x.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: %d %s", w.Code, w.Body.String())
	}
	var cl clients.Client
	if err := json.Unmarshal(env.Data, &cl); err != nil {
		t.Fatalf("decode client: %v", err)
	}

	w, env = do(t, router, http.MethodPost, "/schedules", token, map[string]any{
		"assistant_id":     a.ID,
		"client_id":        cl.ID,
		"scheduled_at":     time.Now().Add(time.Hour).Format(time.RFC3339),
		"duration_minutes": 30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create schedule: %d %s", w.Code, w.Body.String())
	}
	var sch schedules.Schedule
	if err := json.Unmarshal(env.Data, &sch); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if sch.Status != schedules.StatusScheduled {
		t.Fatalf("expected scheduled, got %q", sch.Status)
	}

	cancelPath := fmt.Sprintf("/schedules/%s/cancel", sch.ID)
	w, env = do(t, router, http.MethodPatch, cancelPath, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, &sch); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if sch.Status != schedules.StatusCancelled {
		t.Fatalf("expected cancelled, got %q", sch.Status)
	}

	// second cancel must be rejected, not treated as a no-op
	w, env = do(t, router, http.MethodPatch, cancelPath, token, nil)
	if w.Code != http.StatusBadRequest || env.Status != "error" {
		t.Fatalf("expected 400 on repeat cancel, got %d %s", w.Code, w.Body.String())
	}
}

func TestAdminGate(t *testing.T) {
	router, _ := newTestRouter(t)
	userToken := register(t, router, "user@example.com", "secret123", "Plain", "").AccessToken
	adminToken := register(t, router, "admin@example.com", "secret123", "Admin", "admin").AccessToken

	target := register(t, router, "target@example.com", "secret123", "Target", "")

	w, _ := do(t, router, http.MethodDelete, "/users/"+target.User.ID, userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", w.Code)
	}

	w, _ = do(t, router, http.MethodDelete, "/users/"+target.User.ID, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d %s", w.Code, w.Body.String())
	}

	w, _ = do(t, router, http.MethodGet, "/admin/activity", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin activity access, got %d", w.Code)
	}
	w, _ = do(t, router, http.MethodGet, "/admin/activity", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin activity access, got %d %s", w.Code, w.Body.String())
	}
}

func TestAdminMigrationEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	adminToken := register(t, router, "admin@example.com", "secret123", "Admin", "admin").AccessToken

	w, env := do(t, router, http.MethodGet, "/admin/migrations/status", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}
	var status map[string]bool
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status["users"] {
		t.Fatalf("expected users table reported, got %v", status)
	}

	w, _ = do(t, router, http.MethodPost, "/admin/migrations/run", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("run: %d %s", w.Code, w.Body.String())
	}
}

func TestCallLifecycleOverHTTP(t *testing.T) {
	router, h := newTestRouter(t)
	token := register(t, router, "ops@example.com", "secret123", "Ops", "admin").AccessToken
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	a, err := h.Assistants.Create(ctx, assistants.CreateRequest{Name: "A1", Description: "d", VoiceType: "v"})
	if err != nil {
		t.Fatalf("assistant: %v", err)
	}
	cl, err := h.Clients.Create(ctx, clients.CreateRequest{Name: "Bob", Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	sch, err := h.Schedules.Create(ctx, schedules.CreateRequest{
		AssistantID: a.ID, ClientID: cl.ID,
		ScheduledAt: time.Now().Add(time.Hour), DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	w, env := do(t, router, http.MethodPost, "/calls/start", token, map[string]string{"schedule_id": sch.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("start call: %d %s", w.Code, w.Body.String())
	}
	var call calls.Call
	if err := json.Unmarshal(env.Data, &call); err != nil {
		t.Fatalf("decode call: %v", err)
	}

	w, _ = do(t, router, http.MethodPost, "/calls/"+call.ID+"/log", token, map[string]string{
		"speaker": "client", "message": "hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("append log: %d %s", w.Code, w.Body.String())
	}

	w, env = do(t, router, http.MethodPatch, "/calls/"+call.ID+"/complete", token, map[string]string{"summary": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(env.Data, &call); err != nil {
		t.Fatalf("decode call: %v", err)
	}
	if call.Status != calls.StatusCompleted {
		t.Fatalf("expected completed, got %q", call.Status)
	}

	w, env = do(t, router, http.MethodGet, "/calls/analytics", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics: %d %s", w.Code, w.Body.String())
	}
	var stats calls.Analytics
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if stats.TotalCalls != 1 {
		t.Fatalf("expected 1 completed call, got %+v", stats)
	}
}

func TestUnknownScheduleIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	token := register(t, router, "x@example.com", "secret123", "X", "").AccessToken

	w, env := do(t, router, http.MethodGet, "/schedules/00000000-0000-0000-0000-000000000000", token, nil)
	if w.Code != http.StatusNotFound || env.Status != "error" {
		t.Fatalf("expected 404 error envelope, got %d %s", w.Code, w.Body.String())
	}
}
