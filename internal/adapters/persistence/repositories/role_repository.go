package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
)

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Grant(ctx context.Context, address, role, grantedBy string) error {
	grant := &models.RoleGrant{
		Address:   address,
		Role:      role,
		GrantedBy: grantedBy,
	}
	// Granting an already-held role is a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(grant).Error
}

func (r *roleRepository) Revoke(ctx context.Context, address, role string) error {
	return r.db.WithContext(ctx).
		Where("address = ? AND role = ?", address, role).
		Delete(&models.RoleGrant{}).Error
}

func (r *roleRepository) Has(ctx context.Context, address, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoleGrant{}).
		Where("address = ? AND role = ?", address, role).
		Count(&count).Error
	return count > 0, err
}

func (r *roleRepository) ListByAddress(ctx context.Context, address string) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&models.RoleGrant{}).
		Where("address = ?", address).
		Pluck("role", &roles).Error
	return roles, err
}
