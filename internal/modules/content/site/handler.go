package site

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
	rg.GET("/services", h.services)
	rg.GET("/services/:slug", h.service)
	rg.GET("/testimonials", h.testimonials)
	rg.GET("/impact-metrics", h.metrics)
	rg.GET("/partners", h.partners)
	rg.GET("/faqs", h.faqs)
	rg.GET("/case-studies", h.caseStudies)
	rg.GET("/case-studies/:slug", h.caseStudy)
	rg.GET("/publications", h.publications)
	rg.GET("/publications/:slug", h.publication)
	rg.GET("/settings", h.settings)
}

// list writes rows or maps err onto a status.
func list[T any](c *gin.Context, rows []T, err error) {
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	response.OK(c, rows)
}

func one[T any](c *gin.Context, row *T, err error) {
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, row)
}

// GET /services
func (h *Handler) services(c *gin.Context) {
	rows, err := h.svc.Services(c.Request.Context())
	list(c, rows, err)
}

// GET /services/:slug
func (h *Handler) service(c *gin.Context) {
	row, err := h.svc.ServiceBySlug(c.Request.Context(), c.Param("slug"))
	one(c, row, err)
}

// GET /testimonials
func (h *Handler) testimonials(c *gin.Context) {
	rows, err := h.svc.Testimonials(c.Request.Context())
	list(c, rows, err)
}

// GET /impact-metrics?category=
func (h *Handler) metrics(c *gin.Context) {
	rows, err := h.svc.Metrics(c.Request.Context(), c.Query("category"))
	list(c, rows, err)
}

// GET /partners
func (h *Handler) partners(c *gin.Context) {
	rows, err := h.svc.Partners(c.Request.Context())
	list(c, rows, err)
}

// GET /faqs?category=
func (h *Handler) faqs(c *gin.Context) {
	rows, err := h.svc.FAQs(c.Request.Context(), c.Query("category"))
	list(c, rows, err)
}

// GET /case-studies?sector=
func (h *Handler) caseStudies(c *gin.Context) {
	rows, err := h.svc.CaseStudies(c.Request.Context(), c.Query("sector"))
	list(c, rows, err)
}

// GET /case-studies/:slug
func (h *Handler) caseStudy(c *gin.Context) {
	row, err := h.svc.CaseStudyBySlug(c.Request.Context(), c.Param("slug"))
	one(c, row, err)
}

// GET /publications?type=
func (h *Handler) publications(c *gin.Context) {
	rows, err := h.svc.Publications(c.Request.Context(), c.Query("type"))
	list(c, rows, err)
}

// GET /publications/:slug
func (h *Handler) publication(c *gin.Context) {
	row, err := h.svc.PublicationBySlug(c.Request.Context(), c.Param("slug"))
	one(c, row, err)
}

// GET /settings
func (h *Handler) settings(c *gin.Context) {
	out, err := h.svc.PublicSettings(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, out)
}
