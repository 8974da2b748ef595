package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

const minPasswordLength = 6

// UserService implements registration, login, profile and user administration.
type UserService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
	// allowRegisterRole lets public registration pick admin or manager.
	allowRegisterRole bool
}

// NewUserService wires the user use cases. Unless allowRegisterRole is set,
// registration only creates sales_rep accounts; other roles are granted by
// an admin through UpdateUser.
func NewUserService(repo ports.UserRepository, tokens ports.TokenIssuer, allowRegisterRole bool, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, logger: logger, now: time.Now, allowRegisterRole: allowRegisterRole}
}

func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, domain.Invalid("email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.Invalid("password must be at least 6 characters")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleSalesRep
	}
	if !domain.ValidRole(role) {
		return nil, domain.Invalid("role must be one of: admin manager sales_rep")
	}
	if role != domain.RoleSalesRep {
		if !s.allowRegisterRole {
			s.logger.Warn().Str("email", email).Str("role", role).Msg("registration with elevated role refused")
			return nil, domain.ErrRegisterRoleForbidden
		}
		s.logger.Warn().Str("email", email).Str("role", role).Msg("self-registration with elevated role")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, domain.Invalid("email must not be empty")
		}
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ErrEmailExists
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, err
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, domain.Invalid("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter ports.UserListFilter) (*domain.Page[*domain.User], error) {
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, domain.Invalid("role must be one of: admin manager sales_rep")
	}
	filter.Page = filter.Page.Normalize()

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return &domain.Page[*domain.User]{Data: users, Pagination: domain.NewPagination(total, filter.Page)}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.Invalid("role must be one of: admin manager sales_rep")
		}
		user.Role = *input.Role
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
