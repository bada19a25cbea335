package newsletter

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := rg.Group("/newsletter")
	g.Group("", guards...).POST("/subscribe", h.subscribe)
	g.GET("/unsubscribe", h.unsubscribe)
}

// POST /newsletter/subscribe
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	sub, err := h.svc.Subscribe(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, errAlreadySubscribed) {
			response.Conflict(c, err.Error())
			return
		}
		response.StoreError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Subscribed successfully", "email": sub.Email})
}

// GET /newsletter/unsubscribe?token=
func (h *Handler) unsubscribe(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	sub, err := h.svc.Unsubscribe(c.Request.Context(), c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, errMissingToken):
			response.BadRequest(c, err.Error())
		case errors.Is(err, store.ErrNotFound):
			response.NotFoundMsg(c, "unknown unsubscribe token")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"message": "You have been unsubscribed", "email": sub.Email})
}
