package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, event *models.LedgerEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.LedgerEvent, int64, error) {
	var events []*models.LedgerEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LedgerEvent{}).Where("account = ?", account)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}

func (r *eventRepository) ListByEntity(ctx context.Context, eventType string, entityID uint64) ([]*models.LedgerEvent, error) {
	var events []*models.LedgerEvent
	err := r.db.WithContext(ctx).
		Where("type = ? AND entity_id = ?", eventType, entityID).
		Order("id").
		Find(&events).Error
	return events, err
}
