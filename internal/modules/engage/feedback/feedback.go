package feedback

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
	"gorm.io/datatypes"
)

type FeedbackDTO struct {
	Name    string `json:"name"    binding:"omitempty,max=200"`
	Email   string `json:"email"   binding:"omitempty,email"`
	Rating  int    `json:"rating"  binding:"required,min=1,max=5"`
	Message string `json:"message" binding:"omitempty,max=5000"`
	Page    string `json:"page"    binding:"omitempty,max=500"`
}

type ErrorReportDTO struct {
	Message   string          `json:"message"    binding:"required,max=5000"`
	Stack     string          `json:"stack"      binding:"omitempty,max=50000"`
	URL       string          `json:"url"        binding:"omitempty,max=2000"`
	UserAgent string          `json:"user_agent" binding:"omitempty,max=500"`
	Component string          `json:"component"  binding:"omitempty,max=200"`
	Context   json.RawMessage `json:"context"`
}

type Service struct{ store *store.Storage }

func NewService(s *store.Storage) *Service { return &Service{store: s} }

func (s *Service) Feedback(ctx context.Context, dto *FeedbackDTO) (*models.Feedback, error) {
	f := &models.Feedback{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Rating:  dto.Rating,
		Message: dto.Message,
		Page:    strings.TrimSpace(dto.Page),
	}
	return f, store.Repo[models.Feedback](s.store).Create(ctx, f)
}

// ErrorReport records a client crash. userAgent fills in when the body has none.
func (s *Service) ErrorReport(ctx context.Context, dto *ErrorReportDTO, userAgent string) (*models.ErrorReport, error) {
	r := &models.ErrorReport{
		Message:   dto.Message,
		Stack:     dto.Stack,
		URL:       dto.URL,
		UserAgent: dto.UserAgent,
		Component: dto.Component,
	}
	if r.UserAgent == "" {
		r.UserAgent = userAgent
	}
	if len(dto.Context) > 0 && string(dto.Context) != "null" {
		r.Context = datatypes.JSON(dto.Context)
	}
	return r, store.Repo[models.ErrorReport](s.store).Create(ctx, r)
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := rg.Group("", guards...)
	g.POST("/feedback", h.feedback)
	g.POST("/error-reports", h.errorReport)
}

// POST /feedback
func (h *Handler) feedback(c *gin.Context) {
	var dto FeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	f, err := h.svc.Feedback(c.Request.Context(), &dto)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Thanks for your feedback!", "id": f.ID})
}

// POST /error-reports
func (h *Handler) errorReport(c *gin.Context) {
	var dto ErrorReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	r, err := h.svc.ErrorReport(c.Request.Context(), &dto, c.Request.UserAgent())
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, gin.H{"id": r.ID})
}
