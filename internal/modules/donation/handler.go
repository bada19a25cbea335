package donation

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public POST /donations behind guards.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := rg.Group("", guards...)
	g.POST("/donations", middleware.OptionalAuth(), h.donate)
}

// RegisterDonorRoutes mounts the signed-in donor dashboard under /donor.
func (h *Handler) RegisterDonorRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/donor", authMW)
	g.GET("/donations", h.history)
	g.GET("/summary", h.summary)
	g.GET("/subscriptions", h.subscriptions)
	g.POST("/subscriptions", h.subscribe)
	g.DELETE("/subscriptions/:id", h.cancel)
}

// POST /donations
func (h *Handler) donate(c *gin.Context) {
	var dto DonateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	d, err := h.svc.Donate(c.Request.Context(), &dto, middleware.CurrentUserID(c))
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, d)
}

// GET /donor/donations
func (h *Handler) history(c *gin.Context) {
	items, pag, err := h.svc.History(c.Request.Context(), middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /donor/summary
func (h *Handler) summary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}

// GET /donor/subscriptions
func (h *Handler) subscriptions(c *gin.Context) {
	rows, err := h.svc.Subscriptions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

// POST /donor/subscriptions
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	ctx := c.Request.Context()
	uid := middleware.CurrentUserID(c)
	u, err := store.Repo[models.User](h.svc.store).Get(ctx, uid)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	sub, err := h.svc.Subscribe(ctx, uid, u.Email, &dto)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, sub)
}

// DELETE /donor/subscriptions/:id
func (h *Handler) cancel(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	sub, err := h.svc.Cancel(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		if errors.Is(err, errSubscriptionNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.StoreError(c, err)
		return
	}
	response.OK(c, sub)
}
