package httpapi

import (
	"net/http"

	"assistant-platform/internal/assistants"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListAssistants(c *gin.Context) {
	list, err := h.Assistants.FindAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "assistants", list)
}

func (h Handlers) ListActiveAssistants(c *gin.Context) {
	list, err := h.Assistants.FindActive(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "active assistants", list)
}

func (h Handlers) GetAssistant(c *gin.Context) {
	a, err := h.Assistants.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "assistant", a)
}

func (h Handlers) CreateAssistant(c *gin.Context) {
	var req assistants.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := h.Assistants.Create(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "assistant.created", "assistant", a.ID)
	respond(c, http.StatusCreated, "assistant created", a)
}

func (h Handlers) UpdateAssistant(c *gin.Context) {
	var upd assistants.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := h.Assistants.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "assistant.updated", "assistant", a.ID)
	respond(c, http.StatusOK, "assistant updated", a)
}

func (h Handlers) DeleteAssistant(c *gin.Context) {
	a, err := h.Assistants.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "assistant.deleted", "assistant", a.ID)
	respond(c, http.StatusOK, "assistant deleted", a)
}
