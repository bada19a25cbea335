package proposal

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
	OrganizationName string  `json:"organization_name" binding:"required,max=200"`
	ContactName      string  `json:"contact_name"      binding:"required,max=200"`
	Email            string  `json:"email"             binding:"required,email"`
	Phone            string  `json:"phone"             binding:"omitempty,max=50"`
	Title            string  `json:"title"             binding:"required,max=300"`
	Description      string  `json:"description"       binding:"required,max=20000"`
	Budget           float64 `json:"budget"            binding:"omitempty,gte=0"`
	Timeline         string  `json:"timeline"          binding:"omitempty,max=500"`
}

type Service struct {
	store  *store.Storage
	notify *mail.Notifier
}

func NewService(s *store.Storage, notify *mail.Notifier) *Service {
	return &Service{store: s, notify: notify}
}

func (s *Service) Submit(ctx context.Context, dto *SubmitDTO) (*models.ProjectProposal, error) {
	p := &models.ProjectProposal{
		OrganizationName: strings.TrimSpace(dto.OrganizationName),
		ContactName:      strings.TrimSpace(dto.ContactName),
		Email:            strings.ToLower(strings.TrimSpace(dto.Email)),
		Phone:            strings.TrimSpace(dto.Phone),
		Title:            strings.TrimSpace(dto.Title),
		Description:      dto.Description,
		Budget:           dto.Budget,
		Timeline:         strings.TrimSpace(dto.Timeline),
	}
	if err := store.Repo[models.ProjectProposal](s.store).Create(ctx, p); err != nil {
		return nil, err
	}
	s.notify.ProposalReceived(p)
	return p, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.Group("", guards...).POST("/proposals", h.submit)
}

// POST /proposals
func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	p, err := h.svc.Submit(c.Request.Context(), &dto)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Thank you, your proposal has been received.", "id": p.ID, "status": p.Status})
}
