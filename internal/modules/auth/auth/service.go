package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/modules/auth/user"
	"github.com/impactbridge/platform/internal/pkg/jwt"
	"github.com/impactbridge/platform/internal/pkg/mail"
	"github.com/impactbridge/platform/internal/pkg/password"
	"github.com/impactbridge/platform/internal/store"
)

// ResetTokenTTL is how long a mailed password reset link stays valid.
const ResetTokenTTL = time.Hour

type Service struct {
	store  *store.Storage
	users  *user.Service
	notify *mail.Notifier
	now    func() time.Time
}

func NewService(s *store.Storage, users *user.Service, notify *mail.Notifier) *Service {
	return &Service{store: s, users: users, notify: notify, now: time.Now}
}

func (s *Service) resetTokens() store.Repository[models.PasswordResetToken] {
	return store.Repo[models.PasswordResetToken](s.store)
}

func (s *Service) issue(u *models.User) (*tokenResponse, error) {
	token, err := jwt.Sign(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{Token: token, ExpiresIn: int64(jwt.TTL() / time.Second), User: u}, nil
}

// Register creates a donor account and signs the caller in.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*tokenResponse, error) {
	u, err := s.users.Create(ctx, &user.CreateDTO{
		Username: dto.Username,
		Email:    dto.Email,
		Password: dto.Password,
		FullName: dto.FullName,
		Role:     models.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, dto *LoginDTO, ip string) (*tokenResponse, error) {
	identifier := strings.TrimSpace(dto.identifier())
	if identifier == "" {
		return nil, errMissingIdentifier
	}
	u, err := s.users.FindByLogin(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(u.Password, dto.Password) {
		return nil, errInvalidCredentials
	}
	if err := s.users.TouchLogin(ctx, u, ip); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) ChangePassword(ctx context.Context, uid uint, dto *ChangePasswordDTO) error {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return err
	}
	if !password.Verify(u.Password, dto.CurrentPassword) {
		return errWrongPassword
	}
	return s.users.SetPassword(ctx, u, dto.NewPassword)
}

// ForgotPassword mails a single-use reset token when email belongs to an
// account. Unknown addresses are not an error so callers cannot probe for them.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t := &models.PasswordResetToken{
		UserID:    u.ID,
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		ExpiresAt: s.now().Add(ResetTokenTTL),
	}
	if err := s.resetTokens().Create(ctx, t); err != nil {
		return err
	}
	s.notify.PasswordReset(u, t.Token, ResetTokenTTL)
	return nil
}

// ResetPassword consumes token and sets a new password on its account.
func (s *Service) ResetPassword(ctx context.Context, dto *ResetPasswordDTO) error {
	t, err := s.resetTokens().First(ctx, store.Where(store.Eq("token", strings.TrimSpace(dto.Token))))
	if errors.Is(err, store.ErrNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		return err
	}
	now := s.now()
	if !t.Usable(now) {
		return errInvalidResetToken
	}
	// Spend the token before touching the password; only one caller wins.
	claimed, err := s.resetTokens().UpdateWhere(ctx,
		store.Where(store.Eq("id", t.ID), store.Eq("used_at", nil)),
		map[string]interface{}{"used_at": now},
	)
	if err != nil {
		return err
	}
	if claimed == 0 {
		return errInvalidResetToken
	}
	u, err := s.users.Get(ctx, t.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, u, dto.Password)
}

// PurgeResetTokens deletes expired and used tokens, returning how many went.
func (s *Service) PurgeResetTokens(ctx context.Context) (int64, error) {
	expired, err := s.resetTokens().DeleteWhere(ctx, store.Where(store.Lt("expires_at", s.now())))
	if err != nil {
		return 0, err
	}
	used, err := s.resetTokens().DeleteWhere(ctx, store.Where(store.Ne("used_at", nil)))
	return expired + used, err
}
