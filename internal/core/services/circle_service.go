package services

import (
	"context"
	"sync"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// CircleService is the rotating savings circle engine for Ajo and Esusu
// circles. Members contribute a fixed amount per cycle into escrow; once
// every member has paid, the pot pays out and the cycle advances. Ajo pays
// the whole pot to one member round-robin by join order, Esusu redistributes
// it equally to all members.
type CircleService struct {
	mu         sync.Mutex
	circleRepo repositories.CircleRepository
	adapter    ValueTransferAdapter
	tokens     TokenRegistry
	events     *EventService
	clock      Clock
}

// NewCircleService creates a new circle service
func NewCircleService(
	circleRepo repositories.CircleRepository,
	adapter ValueTransferAdapter,
	tokens TokenRegistry,
	events *EventService,
	clock Clock,
) *CircleService {
	return &CircleService{
		circleRepo: circleRepo,
		adapter:    adapter,
		tokens:     tokens,
		events:     events,
		clock:      clock,
	}
}

// CreateCircle registers a new circle with the creator as member #0.
func (s *CircleService) CreateCircle(ctx context.Context, creator, name string, circleType domain.CircleType, token string, contributionAmount uint64, contributionFrequency int64, maxMembers int, totalCycles uint64) (*models.Circle, error) {
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if !circleType.Valid() {
		return nil, domain.ErrInvalidCircleType
	}
	if maxMembers < domain.MinMembers || maxMembers > domain.MaxMembers {
		return nil, domain.ErrInvalidMemberBounds
	}
	if contributionAmount < domain.MinContribution {
		return nil, domain.ErrInvalidContribution
	}
	if totalCycles == 0 {
		return nil, domain.ErrInvalidCycleCount
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

	circle := &models.Circle{
		Name:                  name,
		CircleType:            circleType,
		Token:                 token,
		ContributionAmount:    contributionAmount,
		ContributionFrequency: contributionFrequency,
		MaxMembers:            maxMembers,
		TotalCycles:           totalCycles,
		CurrentCycle:          1,
		Creator:               creator,
	}
	if err := s.circleRepo.Create(ctx, circle); err != nil {
		return nil, err
	}
	member := &models.CircleMember{
		CircleID:  circle.ID,
		Address:   creator,
		JoinOrder: 0,
		Status:    domain.MemberStatusPending,
	}
	if err := s.circleRepo.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.EventCircleCreated, circle.ID, creator, token, contributionAmount, map[string]interface{}{
		"name":         name,
		"circle_type":  circleType,
		"max_members":  maxMembers,
		"total_cycles": totalCycles,
	})
	return circle, nil
}

// JoinCircle adds the caller as a member with the next join order.
func (s *CircleService) JoinCircle(ctx context.Context, caller string, circleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return err
	}
	if circle.Completed {
		return domain.ErrCircleCompleted
	}
	if _, err := s.circleRepo.GetMember(ctx, circleID, caller); err == nil {
		return domain.ErrAlreadyMember
	}
	count, err := s.circleRepo.CountMembers(ctx, circleID)
	if err != nil {
		return err
	}
	if count >= int64(circle.MaxMembers) {
		return domain.ErrCircleFull
	}

	member := &models.CircleMember{
		CircleID:  circleID,
		Address:   caller,
		JoinOrder: int(count),
		Status:    domain.MemberStatusPending,
	}
	if err := s.circleRepo.CreateMember(ctx, member); err != nil {
		return err
	}

	s.events.Emit(ctx, domain.EventMemberJoined, circleID, caller, circle.Token, 0, map[string]interface{}{
		"join_order": member.JoinOrder,
	})
	return nil
}

// Contribute pulls the caller's contribution for the current cycle into
// escrow. When the last pending member pays, the pot is paid out and the
// cycle advances in the same call.
func (s *CircleService) Contribute(ctx context.Context, caller string, circleID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return err
	}
	if circle.Completed {
		return domain.ErrCircleCompleted
	}
	member, err := s.circleRepo.GetMember(ctx, circleID, caller)
	if err != nil {
		return domain.ErrNotAMember
	}
	if member.Status == domain.MemberStatusPaid && member.LastPaidCycle == circle.CurrentCycle {
		return domain.ErrAlreadyContributed
	}

	prevStatus := member.Status
	prevLastPaid := member.LastPaidCycle
	member.Status = domain.MemberStatusPaid
	member.LastPaidCycle = circle.CurrentCycle
	if err := s.circleRepo.UpdateMember(ctx, member); err != nil {
		return err
	}

	if err := s.adapter.TransferIn(ctx, circle.Token, caller, circle.ContributionAmount); err != nil {
		member.Status = prevStatus
		member.LastPaidCycle = prevLastPaid
		s.circleRepo.UpdateMember(ctx, member)
		return err
	}

	s.events.Emit(ctx, domain.EventContributionMade, circleID, caller, circle.Token, circle.ContributionAmount, map[string]interface{}{
		"cycle": circle.CurrentCycle,
	})

	members, err := s.circleRepo.ListMembers(ctx, circleID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Status != domain.MemberStatusPaid {
			return nil
		}
	}
	return s.executePayout(ctx, circle, members)
}

// executePayout distributes the cycle's pot and advances the circle. Caller
// must hold s.mu and have verified that every member has paid.
func (s *CircleService) executePayout(ctx context.Context, circle *models.Circle, members []*models.CircleMember) error {
	pot := circle.ContributionAmount * uint64(len(members))

	// cycle 1 pays join order 0
	payoutOrder := int((circle.CurrentCycle - 1) % uint64(len(members)))
	var recipient *models.CircleMember
	for _, m := range members {
		if m.JoinOrder == payoutOrder {
			recipient = m
			break
		}
	}

	paidCycle := circle.CurrentCycle
	circle.CurrentCycle++
	if circle.CurrentCycle > circle.TotalCycles {
		circle.Completed = true
	}
	if err := s.circleRepo.Update(ctx, circle); err != nil {
		return err
	}
	for _, m := range members {
		m.Status = domain.MemberStatusPending
		if err := s.circleRepo.UpdateMember(ctx, m); err != nil {
			return err
		}
	}

	revert := func() {
		circle.CurrentCycle = paidCycle
		circle.Completed = false
		s.circleRepo.Update(ctx, circle)
		for _, m := range members {
			m.Status = domain.MemberStatusPaid
			s.circleRepo.UpdateMember(ctx, m)
		}
	}

	switch circle.CircleType {
	case domain.CircleTypeAjo:
		if err := s.adapter.TransferOut(ctx, circle.Token, recipient.Address, pot); err != nil {
			revert()
			return err
		}
		s.events.Emit(ctx, domain.EventCyclePayout, circle.ID, recipient.Address, circle.Token, pot, map[string]interface{}{
			"cycle":      paidCycle,
			"join_order": recipient.JoinOrder,
		})
	case domain.CircleTypeEsusu:
		// equal redistribution: every member gets their contribution back
		share := pot / uint64(len(members))
		for i, m := range members {
			if err := s.adapter.TransferOut(ctx, circle.Token, m.Address, share); err != nil {
				for _, paid := range members[:i] {
					s.adapter.TransferIn(ctx, circle.Token, paid.Address, share)
				}
				revert()
				return err
			}
		}
		s.events.Emit(ctx, domain.EventCyclePayout, circle.ID, circle.Creator, circle.Token, pot, map[string]interface{}{
			"cycle": paidCycle,
			"share": share,
		})
	}

	return nil
}

// GetCircle returns a circle by id.
func (s *CircleService) GetCircle(ctx context.Context, circleID uint64) (*models.Circle, error) {
	return s.circleRepo.GetByID(ctx, circleID)
}

// ListMembers returns a circle's members ordered by join order.
func (s *CircleService) ListMembers(ctx context.Context, circleID uint64) ([]*models.CircleMember, error) {
	return s.circleRepo.ListMembers(ctx, circleID)
}

// ListCirclesByMember returns the circles an address belongs to.
func (s *CircleService) ListCirclesByMember(ctx context.Context, address string) ([]*models.Circle, error) {
	return s.circleRepo.ListByMember(ctx, address)
}
