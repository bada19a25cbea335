package blog

import (
	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/blog/posts")
	g.GET("", h.list)
	g.GET("/:slug", h.get)
}

// GET /blog/posts?page=&size=&category=
func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), c.Query("category"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /blog/posts/:slug
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, post)
}
