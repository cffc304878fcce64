package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
	infraauth "github.com/ledgerly/backend/internal/infrastructure/auth"
	"github.com/ledgerly/backend/internal/infrastructure/config"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledger.User{}))

	tokens := infraauth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "ledgerly-test",
	})
	return NewService(
		persistence.NewGormUserRepository(&persistence.Database{DB: db}),
		tokens,
		infraauth.NewInMemoryTokenBlacklist(),
		zap.NewNop(),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, user, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2!")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter2!", user.PasswordHash)

	pair, user, err = svc.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2!")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice@example.com", "Imposter", "other")
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "EMAIL_TAKEN", derr.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2!")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	// unknown address yields the same error as a wrong password
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2!")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshRotatesAndBlacklists(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, _, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2!")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// the spent refresh token cannot be replayed
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, _, err := svc.Register(ctx, "alice@example.com", "Alice", "hunter2!")
	require.NoError(t, err)

	claims, err := svc.tokens.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	blacklisted, err := svc.blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}
