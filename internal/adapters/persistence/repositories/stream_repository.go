package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// streamRepository implements StreamRepository interface
type streamRepository struct {
	db *gorm.DB
}

// NewStreamRepository creates a new stream repository
func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) Create(ctx context.Context, stream *models.Stream) error {
	return r.db.WithContext(ctx).Create(stream).Error
}

func (r *streamRepository) GetByID(ctx context.Context, id uint64) (*models.Stream, error) {
	var stream models.Stream
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stream).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &stream, nil
}

func (r *streamRepository) Update(ctx context.Context, stream *models.Stream) error {
	return r.db.WithContext(ctx).Save(stream).Error
}

func (r *streamRepository) ListByParticipant(ctx context.Context, address string) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := r.db.WithContext(ctx).
		Where("payer = ? OR recipient = ?", address, address).
		Order("id DESC").
		Find(&streams).Error
	return streams, err
}
