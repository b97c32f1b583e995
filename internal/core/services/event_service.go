package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// EventService appends engine state transitions to the ledger event journal.
// The journal is observational: a failed append is logged, never propagated,
// so it cannot abort a committed ledger operation.
type EventService struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// Emit journals one state transition. payload carries the field deltas.
func (s *EventService) Emit(ctx context.Context, eventType domain.EventType, entityID uint64, account, token string, amount uint64, payload map[string]interface{}) {
	event := &models.LedgerEvent{
		EventID:  uuid.NewString(),
		Type:     eventType,
		EntityID: entityID,
		Account:  account,
		Token:    token,
		Amount:   amount,
	}
	if len(payload) > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Printf("⚠️ Failed to encode %s payload: %v", eventType, err)
		} else {
			event.Payload = string(raw)
		}
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		log.Printf("⚠️ Failed to journal %s event: %v", eventType, err)
	}
}

// ListByAccount returns the journal entries touching an account, newest first.
func (s *EventService) ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.LedgerEvent, int64, error) {
	return s.eventRepo.ListByAccount(ctx, account, offset, limit)
}
