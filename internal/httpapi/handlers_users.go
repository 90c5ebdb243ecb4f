package httpapi

import (
	"net/http"

	"assistant-platform/internal/users"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListUsers(c *gin.Context) {
	list, err := h.Users.FindAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "users", list)
}

func (h Handlers) GetUser(c *gin.Context) {
	u, err := h.Users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "user", u)
}

func (h Handlers) CreateUser(c *gin.Context) {
	var req users.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.Users.Create(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "user.created", "user", u.ID)
	respond(c, http.StatusCreated, "user created", u)
}

func (h Handlers) UpdateUser(c *gin.Context) {
	var upd users.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.Users.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "user.updated", "user", u.ID)
	respond(c, http.StatusOK, "user updated", u)
}

func (h Handlers) DeleteUser(c *gin.Context) {
	u, err := h.Users.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	h.record(c, "user.deleted", "user", u.ID)
	respond(c, http.StatusOK, "user deleted", u)
}
