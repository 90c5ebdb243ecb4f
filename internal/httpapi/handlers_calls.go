package httpapi

import (
	"net/http"
	"strconv"

	"assistant-platform/internal/calls"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListCalls(c *gin.Context) {
	list, err := h.Calls.FindAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "calls", list)
}

func (h Handlers) ListCompletedCalls(c *gin.Context) {
	list, err := h.Calls.FindCompleted(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "completed calls", list)
}

func (h Handlers) ListRecentCalls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := h.Calls.FindRecent(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "recent calls", list)
}

func (h Handlers) GetCallAnalytics(c *gin.Context) {
	stats, err := h.Calls.GetAnalytics(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "call analytics", stats)
}

func (h Handlers) ListCallsByAssistant(c *gin.Context) {
	list, err := h.Calls.FindByAssistant(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "calls", list)
}

func (h Handlers) ListCallsByClient(c *gin.Context) {
	list, err := h.Calls.FindByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "calls", list)
}

func (h Handlers) GetCall(c *gin.Context) {
	call, err := h.Calls.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "call", call)
}

type startCallRequest struct {
	ScheduleID string `json:"schedule_id"`
}

func (h Handlers) StartCall(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	call, err := h.Calls.Start(c.Request.Context(), req.ScheduleID)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "call.started", "call", call.ID)
	respond(c, http.StatusCreated, "call started", call)
}

func (h Handlers) AppendCallLog(c *gin.Context) {
	var entry calls.LogEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	call, err := h.Calls.AppendLog(c.Request.Context(), c.Param("id"), entry)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "log appended", call)
}

type finishCallRequest struct {
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func (h Handlers) CompleteCall(c *gin.Context) {
	var req finishCallRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	call, err := h.Calls.Complete(c.Request.Context(), c.Param("id"), req.Summary)
	if err != nil {
		failErr(c, err)
		return
	}
	if len(req.Tags) > 0 {
		if call, err = h.Calls.Correct(c.Request.Context(), call.ID, calls.Update{Tags: &req.Tags}); err != nil {
			failErr(c, err)
			return
		}
	}
	h.record(c, "call.completed", "call", call.ID)
	respond(c, http.StatusOK, "call completed", call)
}

func (h Handlers) FailCall(c *gin.Context) {
	var req finishCallRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	call, err := h.Calls.Fail(c.Request.Context(), c.Param("id"), req.Summary)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "call.failed", "call", call.ID)
	respond(c, http.StatusOK, "call failed", call)
}

// CorrectCall is the admin-only fix-up for finished call records.
func (h Handlers) CorrectCall(c *gin.Context) {
	var upd calls.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	call, err := h.Calls.Correct(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "call.corrected", "call", call.ID)
	respond(c, http.StatusOK, "call corrected", call)
}

func (h Handlers) DeleteCall(c *gin.Context) {
	call, err := h.Calls.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "call.deleted", "call", call.ID)
	respond(c, http.StatusOK, "call deleted", call)
}

// ListActivity exposes the recent activity log to administrators.
func (h Handlers) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "activity", events)
}
