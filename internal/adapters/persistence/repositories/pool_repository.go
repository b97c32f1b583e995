package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
)

// poolRepository implements PoolRepository interface
type poolRepository struct {
	db *gorm.DB
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *gorm.DB) PoolRepository {
	return &poolRepository{db: db}
}

// GetAccount returns the pool account for token, creating the zero-valued
// account view if none exists yet.
func (r *poolRepository) GetAccount(ctx context.Context, token string) (*models.PoolAccount, error) {
	var account models.PoolAccount
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.PoolAccount{Token: token}, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *poolRepository) SaveAccount(ctx context.Context, account *models.PoolAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *poolRepository) GetPosition(ctx context.Context, token, depositor string) (*models.PoolPosition, error) {
	var position models.PoolPosition
	err := r.db.WithContext(ctx).
		Where("token = ? AND depositor = ?", token, depositor).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.PoolPosition{Token: token, Depositor: depositor}, nil
		}
		return nil, err
	}
	return &position, nil
}

func (r *poolRepository) SavePosition(ctx context.Context, position *models.PoolPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}
