package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
	infraauth "github.com/ledgerly/backend/internal/infrastructure/auth"
)

// UserRepository is the user lookup surface the auth flow needs.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*ledger.User, error)
	Save(ctx context.Context, user *ledger.User) error
}

// Service implements login, registration, token refresh and logout.
type Service struct {
	users     UserRepository
	tokens    *infraauth.JWTService
	blacklist infraauth.TokenBlacklist
	logger    *zap.Logger
}

// NewService creates a new auth Service
func NewService(users UserRepository, tokens *infraauth.JWTService, blacklist infraauth.TokenBlacklist, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, blacklist: blacklist, logger: logger}
}

// Login checks the password and issues a token pair. Lookup misses and
// bad passwords produce the same error so callers cannot probe for
// registered addresses.
func (s *Service) Login(ctx context.Context, email, password string) (*infraauth.TokenPair, *ledger.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(user.Email, user.Name)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user logged in", zap.String("email", user.Email))
	return pair, user, nil
}

// Register creates a user with a bcrypt password hash and issues tokens.
func (s *Service) Register(ctx context.Context, email, name, password string) (*infraauth.TokenPair, *ledger.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &ledger.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	user.ID = uuid.NewString()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(user.Email, user.Name)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user registered", zap.String("email", user.Email))
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The used
// refresh token is blacklisted for its remaining lifetime.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*infraauth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, shared.ErrUnauthorized
	}

	pair, err := s.tokens.GenerateTokenPair(claims.Email, claims.Name)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("failed to blacklist used refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout revokes the presented access token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, claims *infraauth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}
