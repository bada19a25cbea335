package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/modules/admin/activity"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/password"
	"github.com/impactbridge/platform/internal/pkg/response"
)

const entityType = "users"

// Handler serves /admin/users.
type Handler struct {
	svc   *Service
	audit *activity.Recorder
}

func NewHandler(svc *Service, audit *activity.Recorder) *Handler {
	return &Handler{svc: svc, audit: audit}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// WriteError maps account errors shared with the auth handler.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, password.ErrTooShort), errors.Is(err, errDeleteSelf):
		response.BadRequest(c, err.Error())
	default:
		response.StoreError(c, err)
	}
}

// GET /admin/users?role=
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), c.Query("role"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /admin/users/:id
func (h *Handler) get(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, u)
}

// POST /admin/users
func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		WriteError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionCreate, entityType, u.ID, gin.H{"username": u.Username, "role": u.Role})
	response.Created(c, u)
}

// PUT|PATCH /admin/users/:id
func (h *Handler) update(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, &dto)
	if err != nil {
		WriteError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionUpdate, entityType, u.ID, gin.H{"password_changed": dto.Password != nil})
	response.OK(c, u)
}

// DELETE /admin/users/:id
func (h *Handler) delete(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		WriteError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionDelete, entityType, id, nil)
	response.NoContent(c)
}
