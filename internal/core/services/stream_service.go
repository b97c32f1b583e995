package services

import (
	"context"
	"math"
	"sync"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// StreamService is the payment streaming engine. A stream escrows the payer's
// deposit up front and releases it to the recipient at a fixed rate per
// second of active (un-paused) time, capped at the deposit. Cancellation
// settles the accrued portion to the recipient and refunds the rest.
type StreamService struct {
	mu         sync.Mutex
	streamRepo repositories.StreamRepository
	adapter    ValueTransferAdapter
	tokens     TokenRegistry
	events     *EventService
	clock      Clock
}

// NewStreamService creates a new stream service
func NewStreamService(
	streamRepo repositories.StreamRepository,
	adapter ValueTransferAdapter,
	tokens TokenRegistry,
	events *EventService,
	clock Clock,
) *StreamService {
	return &StreamService{
		streamRepo: streamRepo,
		adapter:    adapter,
		tokens:     tokens,
		events:     events,
		clock:      clock,
	}
}

// CreateStream opens an active stream and pulls the full deposit from the
// payer into escrow. The deposit must cover the whole duration at the given
// rate.
func (s *StreamService) CreateStream(ctx context.Context, payer, recipient, token string, ratePerSecond uint64, durationSeconds int64, initialDeposit uint64) (*models.Stream, error) {
	if recipient == "" || recipient == payer {
		return nil, domain.ErrInvalidRecipient
	}
	if durationSeconds < domain.MinStreamDuration || durationSeconds > domain.MaxStreamDuration {
		return nil, domain.ErrInvalidDuration
	}
	if ratePerSecond < domain.MinRatePerSecond {
		return nil, domain.ErrRateTooLow
	}
	// rate*duration must not wrap; no deposit could cover it anyway
	if ratePerSecond > math.MaxUint64/uint64(durationSeconds) {
		return nil, domain.ErrInsufficientDeposit
	}
	if initialDeposit < ratePerSecond*uint64(durationSeconds) {
		return nil, domain.ErrInsufficientDeposit
	}
	ok, err := s.tokens.IsSupported(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTokenNotSupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := &models.Stream{
		Payer:           payer,
		Recipient:       recipient,
		Token:           token,
		RatePerSecond:   ratePerSecond,
		StartTime:       s.clock.Now().Unix(),
		DurationSeconds: durationSeconds,
		TotalDeposit:    initialDeposit,
		IsActive:        true,
	}
	if err := s.streamRepo.Create(ctx, stream); err != nil {
		return nil, err
	}

	if err := s.adapter.TransferIn(ctx, token, payer, initialDeposit); err != nil {
		stream.IsActive = false
		s.streamRepo.Update(ctx, stream)
		return nil, err
	}

	s.events.Emit(ctx, domain.EventStreamCreated, stream.ID, payer, token, initialDeposit, map[string]interface{}{
		"recipient":        recipient,
		"rate_per_second":  ratePerSecond,
		"duration_seconds": durationSeconds,
	})
	return stream, nil
}

// GetAvailableBalance returns what the recipient could withdraw right now.
func (s *StreamService) GetAvailableBalance(ctx context.Context, streamID uint64) (uint64, error) {
	stream, err := s.streamRepo.GetByID(ctx, streamID)
	if err != nil {
		return 0, err
	}
	return availableBalance(stream, s.clock.Now().Unix()), nil
}

// availableBalance is the accrued-but-unwithdrawn amount at time now.
// Accrual counts only active seconds: paused spans are excluded, and while
// paused the accrual edge freezes at the pause instant.
func availableBalance(stream *models.Stream, now int64) uint64 {
	edge := now
	if stream.PausedAt != nil {
		edge = *stream.PausedAt
	}
	elapsed := edge - stream.StartTime - stream.AccumulatedPausedSeconds
	if elapsed < 0 {
		elapsed = 0
	}
	accrued := uint64(elapsed) * stream.RatePerSecond
	if accrued > stream.TotalDeposit {
		accrued = stream.TotalDeposit
	}
	if accrued < stream.Withdrawn {
		return 0
	}
	return accrued - stream.Withdrawn
}

// WithdrawFromStream pays accrued funds out of escrow to the recipient.
// amount = 0 withdraws the full available balance. Only the recipient may
// call.
func (s *StreamService) WithdrawFromStream(ctx context.Context, caller string, streamID, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamRepo.GetByID(ctx, streamID)
	if err != nil {
		return 0, err
	}
	if caller != stream.Recipient {
		return 0, domain.ErrNotTheRecipient
	}
	if !stream.IsActive {
		return 0, domain.ErrStreamNotActive
	}

	available := availableBalance(stream, s.clock.Now().Unix())
	if amount == 0 {
		amount = available
	}
	if amount > available {
		return 0, domain.ErrInsufficientBalance
	}
	if amount == 0 {
		return 0, nil
	}

	stream.Withdrawn += amount
	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return 0, err
	}

	if err := s.adapter.TransferOut(ctx, stream.Token, stream.Recipient, amount); err != nil {
		stream.Withdrawn -= amount
		s.streamRepo.Update(ctx, stream)
		return 0, err
	}

	s.events.Emit(ctx, domain.EventStreamWithdrawn, stream.ID, stream.Recipient, stream.Token, amount, map[string]interface{}{
		"withdrawn_total": stream.Withdrawn,
	})
	return amount, nil
}

// PauseStream freezes accrual at the current instant. Only the payer may
// call.
func (s *StreamService) PauseStream(ctx context.Context, caller string, streamID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamRepo.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if caller != stream.Payer {
		return domain.ErrNotThePayer
	}
	if !stream.IsActive {
		return domain.ErrStreamNotActive
	}
	if stream.PausedAt != nil {
		return domain.ErrStreamPaused
	}

	now := s.clock.Now().Unix()
	stream.PausedAt = &now
	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return err
	}

	s.events.Emit(ctx, domain.EventStreamPaused, stream.ID, stream.Payer, stream.Token, 0, map[string]interface{}{
		"paused_at": now,
	})
	return nil
}

// ResumeStream restarts accrual, adding the paused span to the stream's
// accumulated paused time. Only the payer may call.
func (s *StreamService) ResumeStream(ctx context.Context, caller string, streamID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamRepo.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if caller != stream.Payer {
		return domain.ErrNotThePayer
	}
	if !stream.IsActive {
		return domain.ErrStreamNotActive
	}
	if stream.PausedAt == nil {
		return domain.ErrStreamNotPaused
	}

	now := s.clock.Now().Unix()
	paused := now - *stream.PausedAt
	if paused < 0 {
		paused = 0
	}
	stream.AccumulatedPausedSeconds += paused
	stream.PausedAt = nil
	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return err
	}

	s.events.Emit(ctx, domain.EventStreamResumed, stream.ID, stream.Payer, stream.Token, 0, map[string]interface{}{
		"paused_seconds": paused,
	})
	return nil
}

// CancelStream settles the stream: the accrued-but-unwithdrawn amount goes to
// the recipient, the remainder of the deposit returns to the payer, and the
// stream becomes terminal. Only the payer may call.
func (s *StreamService) CancelStream(ctx context.Context, caller string, streamID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamRepo.GetByID(ctx, streamID)
	if err != nil {
		return err
	}
	if caller != stream.Payer {
		return domain.ErrNotThePayer
	}
	if !stream.IsActive {
		return domain.ErrStreamNotActive
	}

	owed := availableBalance(stream, s.clock.Now().Unix())
	refund := stream.TotalDeposit - stream.Withdrawn - owed

	prevWithdrawn := stream.Withdrawn
	prevPausedAt := stream.PausedAt
	stream.IsActive = false
	stream.Withdrawn += owed
	stream.PausedAt = nil
	if err := s.streamRepo.Update(ctx, stream); err != nil {
		return err
	}

	revert := func() {
		stream.IsActive = true
		stream.Withdrawn = prevWithdrawn
		stream.PausedAt = prevPausedAt
		s.streamRepo.Update(ctx, stream)
	}
	if owed > 0 {
		if err := s.adapter.TransferOut(ctx, stream.Token, stream.Recipient, owed); err != nil {
			revert()
			return err
		}
	}
	if refund > 0 {
		if err := s.adapter.TransferOut(ctx, stream.Token, stream.Payer, refund); err != nil {
			if owed > 0 {
				s.adapter.TransferIn(ctx, stream.Token, stream.Recipient, owed)
			}
			revert()
			return err
		}
	}

	s.events.Emit(ctx, domain.EventStreamCancelled, stream.ID, stream.Payer, stream.Token, refund, map[string]interface{}{
		"paid_to_recipient": owed,
	})
	return nil
}

// GetStream returns a stream by id.
func (s *StreamService) GetStream(ctx context.Context, streamID uint64) (*models.Stream, error) {
	return s.streamRepo.GetByID(ctx, streamID)
}

// ListStreamsByParticipant returns streams where the address is payer or
// recipient.
func (s *StreamService) ListStreamsByParticipant(ctx context.Context, address string) ([]*models.Stream, error) {
	return s.streamRepo.ListByParticipant(ctx, address)
}
