package contact

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/mail"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

type SubmitDTO struct {
	Name    string `json:"name"    binding:"required,max=200"`
	Email   string `json:"email"   binding:"required,email"`
	Phone   string `json:"phone"   binding:"omitempty,max=50"`
	Subject string `json:"subject" binding:"omitempty,max=300"`
	Message string `json:"message" binding:"required,max=10000"`
}

type Service struct {
	store  *store.Storage
	notify *mail.Notifier
}

func NewService(s *store.Storage, notify *mail.Notifier) *Service {
	return &Service{store: s, notify: notify}
}

// Submit stores the message and queues the admin notification and acknowledgement.
func (s *Service) Submit(ctx context.Context, dto *SubmitDTO) (*models.ContactMessage, error) {
	m := &models.ContactMessage{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Phone:   strings.TrimSpace(dto.Phone),
		Subject: strings.TrimSpace(dto.Subject),
		Message: dto.Message,
	}
	if err := store.Repo[models.ContactMessage](s.store).Create(ctx, m); err != nil {
		return nil, err
	}
	s.notify.ContactReceived(m)
	return m, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /contact behind guards.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.Group("", guards...).POST("/contact", h.submit)
}

// POST /contact
func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	m, err := h.svc.Submit(c.Request.Context(), &dto)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Thank you for your message. We will get back to you soon.", "id": m.ID})
}
