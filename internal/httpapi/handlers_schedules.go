package httpapi

import (
	"net/http"

	"assistant-platform/internal/auth"
	"assistant-platform/internal/schedules"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListSchedules(c *gin.Context) {
	list, err := h.Schedules.FindAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "schedules", list)
}

func (h Handlers) ListUpcomingSchedules(c *gin.Context) {
	list, err := h.Schedules.FindUpcoming(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "upcoming schedules", list)
}

func (h Handlers) ListSchedulesByStatus(c *gin.Context) {
	list, err := h.Schedules.FindByStatus(c.Request.Context(), schedules.Status(c.Param("status")))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "schedules", list)
}

func (h Handlers) GetSchedule(c *gin.Context) {
	s, err := h.Schedules.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "schedule", s)
}

func (h Handlers) CreateSchedule(c *gin.Context) {
	var req schedules.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	userID, _ := auth.UserID(c.Request.Context())
	s, err := h.Schedules.CreateBy(c.Request.Context(), req, userID)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "schedule.created", "schedule", s.ID)
	respond(c, http.StatusCreated, "schedule created", s)
}

func (h Handlers) UpdateSchedule(c *gin.Context) {
	var upd schedules.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.Schedules.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "schedule.updated", "schedule", s.ID)
	respond(c, http.StatusOK, "schedule updated", s)
}

type transitionRequest struct {
	Status schedules.Status `json:"status"`
}

// TransitionSchedule moves a schedule along its lifecycle; illegal moves
// come back as 400.
func (h Handlers) TransitionSchedule(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	s, err := h.Schedules.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "schedule.transitioned", "schedule", s.ID)
	respond(c, http.StatusOK, "schedule updated", s)
}

func (h Handlers) CancelSchedule(c *gin.Context) {
	s, err := h.Schedules.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "schedule.cancelled", "schedule", s.ID)
	respond(c, http.StatusOK, "schedule cancelled", s)
}

func (h Handlers) DeleteSchedule(c *gin.Context) {
	s, err := h.Schedules.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "schedule.deleted", "schedule", s.ID)
	respond(c, http.StatusOK, "schedule deleted", s)
}
