package impact

import (
	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/impact-projects", h.list)
	rg.GET("/impact-projects/:slug", h.get)
	rg.GET("/funding-goals", h.fundingGoals)
}

// GET /impact-projects?status=
func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

// GET /impact-projects/:slug
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, p)
}

// GET /funding-goals
func (h *Handler) fundingGoals(c *gin.Context) {
	goals, err := h.svc.FundingGoals(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, goals)
}
