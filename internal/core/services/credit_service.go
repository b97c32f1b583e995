package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// CreditService is the credit scoring engine: a ledger of per-participant
// scores bounded to [0, MaxCreditScore]. Records are created lazily on first
// repayment and never deleted; a participant without a record reads the
// initial score. All mutators require the AUTHORIZED_CALLER role.
//
// Scores never decrease on repayment, whatever the timestamp: lateness is
// penalized only through an unsuccessful loan completion.
type CreditService struct {
	mu         sync.Mutex
	creditRepo repositories.CreditRepository
	authz      AuthorizationService
	events     *EventService
}

// NewCreditService creates a new credit service
func NewCreditService(creditRepo repositories.CreditRepository, authz AuthorizationService, events *EventService) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		authz:      authz,
		events:     events,
	}
}

// GetScore returns the participant's score. The initial score is a read-time
// fallback, not a stored value.
func (s *CreditService) GetScore(ctx context.Context, participant string) (uint64, error) {
	record, err := s.creditRepo.GetByAddress(ctx, participant)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InitialCreditScore, nil
		}
		return 0, err
	}
	return record.Score, nil
}

// GetProfile returns the participant's full credit record, or the default
// view if none exists yet.
func (s *CreditService) GetProfile(ctx context.Context, participant string) (*models.CreditRecord, error) {
	record, err := s.creditRepo.GetByAddress(ctx, participant)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &models.CreditRecord{
				Address: participant,
				Score:   domain.InitialCreditScore,
			}, nil
		}
		return nil, err
	}
	return record, nil
}

// RecordRepayment applies the repayment bonuses to the participant's score.
// The first-ever repayment also creates the record and applies the one-time
// activity bonus. timestamp is unix seconds; an out-of-order timestamp is
// non-penalizing and does not move LastRepaymentAt backwards.
func (s *CreditService) RecordRepayment(ctx context.Context, caller, participant string, amount uint64, timestamp int64) error {
	if err := s.requireAuthorizedCaller(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.creditRepo.GetByAddress(ctx, participant)
	if errors.Is(err, domain.ErrNotFound) {
		record = &models.CreditRecord{
			Address:         participant,
			Score:           clampScore(domain.InitialCreditScore + domain.ActivityBonus + domain.OnTimeBonus),
			LastRepaymentAt: timestamp,
		}
		if err := s.creditRepo.Create(ctx, record); err != nil {
			return err
		}
		s.events.Emit(ctx, domain.EventLoanRepayment, 0, participant, "", amount, map[string]interface{}{
			"score": record.Score,
		})
		return nil
	}
	if err != nil {
		return err
	}

	record.Score = clampScore(record.Score + domain.OnTimeBonus)
	if timestamp > record.LastRepaymentAt {
		record.LastRepaymentAt = timestamp
	}
	if err := s.creditRepo.Update(ctx, record); err != nil {
		return err
	}
	s.events.Emit(ctx, domain.EventLoanRepayment, 0, participant, "", amount, map[string]interface{}{
		"score": record.Score,
	})
	return nil
}

// RecordLoan increments the participant's loan count.
func (s *CreditService) RecordLoan(ctx context.Context, caller, participant string, loanID, principal uint64) error {
	if err := s.requireAuthorizedCaller(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrDefault(ctx, participant)
	if err != nil {
		return err
	}
	record.TotalLoans++
	if err := s.save(ctx, record); err != nil {
		return err
	}
	s.events.Emit(ctx, domain.EventLoanRecorded, loanID, participant, "", principal, map[string]interface{}{
		"total_loans": record.TotalLoans,
	})
	return nil
}

// RecordLoanCompletion closes out a loan against the participant's record.
// success increments the completed-loan count; failure applies the default
// penalty, clamped at zero.
func (s *CreditService) RecordLoanCompletion(ctx context.Context, caller, participant string, loanID uint64, success bool) error {
	if err := s.requireAuthorizedCaller(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrDefault(ctx, participant)
	if err != nil {
		return err
	}
	if success {
		record.CompletedLoans++
	} else {
		if record.Score > domain.DefaultPenalty {
			record.Score -= domain.DefaultPenalty
		} else {
			record.Score = 0
		}
	}
	if err := s.save(ctx, record); err != nil {
		return err
	}
	s.events.Emit(ctx, domain.EventLoanCompleted, loanID, participant, "", 0, map[string]interface{}{
		"success":         success,
		"completed_loans": record.CompletedLoans,
		"score":           record.Score,
	})
	return nil
}

// getOrDefault loads the record, materializing the default for participants
// who have never repaid. Caller must hold s.mu.
func (s *CreditService) getOrDefault(ctx context.Context, participant string) (*models.CreditRecord, error) {
	record, err := s.creditRepo.GetByAddress(ctx, participant)
	if errors.Is(err, domain.ErrNotFound) {
		return &models.CreditRecord{
			Address: participant,
			Score:   domain.InitialCreditScore,
		}, nil
	}
	return record, err
}

// save persists a record, creating it on first write. Caller must hold s.mu.
func (s *CreditService) save(ctx context.Context, record *models.CreditRecord) error {
	if record.ID == 0 {
		return s.creditRepo.Create(ctx, record)
	}
	return s.creditRepo.Update(ctx, record)
}

func (s *CreditService) requireAuthorizedCaller(ctx context.Context, caller string) error {
	ok, err := s.authz.HasRole(ctx, caller, domain.RoleAuthorizedCaller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

func clampScore(score uint64) uint64 {
	if score > domain.MaxCreditScore {
		return domain.MaxCreditScore
	}
	return score
}
