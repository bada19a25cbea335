package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/password"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

// Service owns user accounts. Both self-registration and the admin API go
// through it so duplicate checks and hashing live in one place.
type Service struct{ store *store.Storage }

func NewService(s *store.Storage) *Service { return &Service{store: s} }

func (s *Service) repo() store.Repository[models.User] {
	return store.Repo[models.User](s.store)
}

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.repo().Get(ctx, id)
}

// FindByLogin looks identifier up as an email when it contains "@", otherwise
// as a username.
func (s *Service) FindByLogin(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.repo().First(ctx, store.Where(store.Eq("email", normalizeEmail(identifier))))
	}
	return s.repo().First(ctx, store.Where(store.Eq("username", identifier)))
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo().First(ctx, store.Where(store.Eq("email", normalizeEmail(email))))
}

// ensureAvailable fails with ErrUsernameTaken/ErrEmailTaken when another
// account than self already uses the value.
func (s *Service) ensureAvailable(ctx context.Context, column, value string, self uint, taken error) error {
	existing, err := s.repo().First(ctx, store.Where(store.Eq(column, value)))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return taken
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto *CreateDTO) (*models.User, error) {
	u := &models.User{
		Username: strings.TrimSpace(dto.Username),
		Email:    normalizeEmail(dto.Email),
		FullName: strings.TrimSpace(dto.FullName),
		Role:     dto.Role,
	}
	if err := s.ensureAvailable(ctx, "username", u.Username, 0, ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, "email", u.Email, 0, ErrEmailTaken); err != nil {
		return nil, err
	}
	hash, err := password.Hash(dto.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	if err := s.repo().Create(ctx, u); err != nil {
		return nil, conflictToTaken(err)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id uint, dto *UpdateDTO) (*models.User, error) {
	u, err := s.repo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Username != nil {
		u.Username = strings.TrimSpace(*dto.Username)
		if err := s.ensureAvailable(ctx, "username", u.Username, id, ErrUsernameTaken); err != nil {
			return nil, err
		}
	}
	if dto.Email != nil {
		u.Email = normalizeEmail(*dto.Email)
		if err := s.ensureAvailable(ctx, "email", u.Email, id, ErrEmailTaken); err != nil {
			return nil, err
		}
	}
	if dto.FullName != nil {
		u.FullName = strings.TrimSpace(*dto.FullName)
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.Password != nil {
		hash, err := password.Hash(*dto.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.repo().Update(ctx, u); err != nil {
		return nil, conflictToTaken(err)
	}
	return u, nil
}

// SetPassword replaces the password hash of u.
func (s *Service) SetPassword(ctx context.Context, u *models.User, plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.repo().Update(ctx, u)
}

// TouchLogin stamps the last login time and address.
func (s *Service) TouchLogin(ctx context.Context, u *models.User, ip string) error {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	return s.repo().Update(ctx, u)
}

func (s *Service) List(ctx context.Context, q pagination.Query, role string) ([]models.User, response.Pagination, error) {
	sq := store.Query{}.Order("created_at", true)
	if role != "" {
		sq = sq.And(store.Eq("role", role))
	}
	return pagination.Paginate(ctx, s.repo(), sq, q)
}

func (s *Service) Delete(ctx context.Context, id, caller uint) error {
	if id == caller {
		return errDeleteSelf
	}
	return s.repo().Delete(ctx, id)
}

func conflictToTaken(err error) error {
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		switch conflict.Column {
		case "username":
			return ErrUsernameTaken
		case "email":
			return ErrEmailTaken
		}
	}
	return err
}
