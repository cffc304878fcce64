package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// GormUserRepository provides the typed user lookups the auth flow needs,
// outside the generic store surface.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *Database) *GormUserRepository {
	return &GormUserRepository{db: db.DB}
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*ledger.User, error) {
	var user ledger.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Save creates or updates a user row
func (r *GormUserRepository) Save(ctx context.Context, user *ledger.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
