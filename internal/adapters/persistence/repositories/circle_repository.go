package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// circleRepository implements CircleRepository interface
type circleRepository struct {
	db *gorm.DB
}

// NewCircleRepository creates a new circle repository
func NewCircleRepository(db *gorm.DB) CircleRepository {
	return &circleRepository{db: db}
}

func (r *circleRepository) Create(ctx context.Context, circle *models.Circle) error {
	return r.db.WithContext(ctx).Create(circle).Error
}

func (r *circleRepository) GetByID(ctx context.Context, id uint64) (*models.Circle, error) {
	var circle models.Circle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&circle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &circle, nil
}

func (r *circleRepository) Update(ctx context.Context, circle *models.Circle) error {
	return r.db.WithContext(ctx).Save(circle).Error
}

func (r *circleRepository) ListByMember(ctx context.Context, address string) ([]*models.Circle, error) {
	var circles []*models.Circle
	err := r.db.WithContext(ctx).
		Joins("JOIN circle_members ON circle_members.circle_id = circles.id").
		Where("circle_members.address = ?", address).
		Order("circles.id DESC").
		Find(&circles).Error
	return circles, err
}

func (r *circleRepository) CreateMember(ctx context.Context, member *models.CircleMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *circleRepository) GetMember(ctx context.Context, circleID uint64, address string) (*models.CircleMember, error) {
	var member models.CircleMember
	err := r.db.WithContext(ctx).
		Where("circle_id = ? AND address = ?", circleID, address).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *circleRepository) ListMembers(ctx context.Context, circleID uint64) ([]*models.CircleMember, error) {
	var members []*models.CircleMember
	err := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("join_order").
		Find(&members).Error
	return members, err
}

func (r *circleRepository) UpdateMember(ctx context.Context, member *models.CircleMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *circleRepository) CountMembers(ctx context.Context, circleID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CircleMember{}).
		Where("circle_id = ?", circleID).
		Count(&count).Error
	return count, err
}
