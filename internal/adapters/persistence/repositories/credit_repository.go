package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// creditRepository implements CreditRepository interface
type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, record *models.CreditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *creditRepository) GetByAddress(ctx context.Context, address string) (*models.CreditRecord, error) {
	var record models.CreditRecord
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *creditRepository) Update(ctx context.Context, record *models.CreditRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
