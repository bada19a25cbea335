package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/modules/auth/user"
	"github.com/impactbridge/platform/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	users *user.Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, users: svc.users}
}

// RegisterRoutes mounts /auth. guards wrap the unauthenticated POSTs.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, guards ...gin.HandlerFunc) {
	a := rg.Group("/auth")

	open := a.Group("", guards...)
	open.POST("/register", h.register)
	open.POST("/login", h.login)
	open.POST("/forgot-password", h.forgotPassword)
	open.POST("/reset-password", h.resetPassword)

	a.GET("/me", authMW, h.me)
	a.PUT("/password", authMW, h.changePassword)
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	out, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		user.WriteError(c, err)
		return
	}
	response.Created(c, out)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	out, err := h.svc.Login(c.Request.Context(), &dto, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, errMissingIdentifier):
			response.BadRequest(c, err.Error())
		case errors.Is(err, errInvalidCredentials):
			response.UnauthorizedMsg(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, out)
}

// GET /auth/me
func (h *Handler) me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, u)
}

// PUT /auth/password
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), &dto); err != nil {
		if errors.Is(err, errWrongPassword) {
			response.BadRequest(c, err.Error())
			return
		}
		user.WriteError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Password updated"})
}

// POST /auth/forgot-password
func (h *Handler) forgotPassword(c *gin.Context) {
	var dto ForgotPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	if err := h.svc.ForgotPassword(c.Request.Context(), dto.Email); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "If that email is registered, a reset link is on its way."})
}

// POST /auth/reset-password
func (h *Handler) resetPassword(c *gin.Context) {
	var dto ResetPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Invalid(c, err)
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), &dto); err != nil {
		if errors.Is(err, errInvalidResetToken) {
			response.BadRequest(c, err.Error())
			return
		}
		user.WriteError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Password has been reset"})
}
