package httpapi

import (
	"net/http"

	"assistant-platform/internal/clients"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListClients(c *gin.Context) {
	list, err := h.Clients.FindAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "clients", list)
}

func (h Handlers) GetClientByEmail(c *gin.Context) {
	cl, err := h.Clients.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "client", cl)
}

func (h Handlers) GetClient(c *gin.Context) {
	cl, err := h.Clients.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "client", cl)
}

func (h Handlers) CreateClient(c *gin.Context) {
	var req clients.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	cl, err := h.Clients.Create(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "client.created", "client", cl.ID)
	respond(c, http.StatusCreated, "client created", cl)
}

func (h Handlers) UpdateClient(c *gin.Context) {
	var upd clients.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	cl, err := h.Clients.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "client.updated", "client", cl.ID)
	respond(c, http.StatusOK, "client updated", cl)
}

func (h Handlers) DeleteClient(c *gin.Context) {
	cl, err := h.Clients.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "client.deleted", "client", cl.ID)
	respond(c, http.StatusOK, "client deleted", cl)
}
