package services

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// LedgerService is the custodial stablecoin ledger. It holds every account's
// token balances, maintains the supported-token list, and exposes per-engine
// escrow adapters implementing ValueTransferAdapter.
//
// Allowances do not exist here: the platform custodies all balances, so
// TransferIn can fail only on insufficient balance. ErrInsufficientAllowance
// is reserved for external non-custodial adapters.
type LedgerService struct {
	mu        sync.Mutex
	tokenRepo repositories.TokenRepository
	authz     AuthorizationService
	events    *EventService
}

// NewLedgerService creates a new ledger service
func NewLedgerService(tokenRepo repositories.TokenRepository, authz AuthorizationService, events *EventService) *LedgerService {
	return &LedgerService{
		tokenRepo: tokenRepo,
		authz:     authz,
		events:    events,
	}
}

// IsSupported reports whether symbol is an active supported token.
func (s *LedgerService) IsSupported(ctx context.Context, symbol string) (bool, error) {
	token, err := s.tokenRepo.GetToken(ctx, symbol)
	if err != nil {
		if err == domain.ErrTokenNotSupported {
			return false, nil
		}
		return false, err
	}
	return token.IsActive, nil
}

// ListTokens returns all registered tokens.
func (s *LedgerService) ListTokens(ctx context.Context) ([]*models.SupportedToken, error) {
	return s.tokenRepo.ListTokens(ctx)
}

// AddToken registers a supported token. Admin only.
func (s *LedgerService) AddToken(ctx context.Context, caller, symbol, name string, decimals uint8) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return domain.ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := s.tokenRepo.GetToken(ctx, symbol); err == nil {
		// Re-adding a deactivated token reactivates it.
		if !existing.IsActive {
			existing.IsActive = true
			return s.tokenRepo.UpdateToken(ctx, existing)
		}
		return nil
	}
	return s.tokenRepo.CreateToken(ctx, &models.SupportedToken{
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
		IsActive: true,
	})
}

// RemoveToken deactivates a supported token. Admin only. Balances are kept;
// only new transfers are blocked.
func (s *LedgerService) RemoveToken(ctx context.Context, caller, symbol string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.tokenRepo.GetToken(ctx, symbol)
	if err != nil {
		return err
	}
	token.IsActive = false
	return s.tokenRepo.UpdateToken(ctx, token)
}

// Mint credits freshly issued units to an account. Admin only (dev faucet and
// on-ramp settlement).
func (s *LedgerService) Mint(ctx context.Context, caller, token, to string, amount uint64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if to == "" || amount == 0 {
		return domain.ErrInvalidAmount
	}
	if err := s.requireSupported(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.tokenRepo.GetBalance(ctx, token, to)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return domain.ErrInvalidAmount
	}
	if err := s.tokenRepo.SetBalance(ctx, token, to, balance+amount); err != nil {
		return err
	}
	s.events.Emit(ctx, domain.EventTokenMinted, 0, to, token, amount, nil)
	return nil
}

// BalanceOf returns an account's balance for token.
func (s *LedgerService) BalanceOf(ctx context.Context, token, account string) (uint64, error) {
	return s.tokenRepo.GetBalance(ctx, token, account)
}

// ListBalances returns all of an account's token balances.
func (s *LedgerService) ListBalances(ctx context.Context, account string) ([]*models.TokenBalance, error) {
	return s.tokenRepo.ListBalances(ctx, account)
}

// Transfer moves amount of token between two user accounts.
func (s *LedgerService) Transfer(ctx context.Context, token, from, to string, amount uint64) error {
	if to == "" {
		return domain.ErrInvalidRecipient
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if err := s.requireSupported(ctx, token); err != nil {
		return err
	}
	if err := s.move(ctx, token, from, to, amount); err != nil {
		return err
	}
	s.events.Emit(ctx, domain.EventTransfer, 0, from, token, amount, map[string]interface{}{
		"to": to,
	})
	return nil
}

// EscrowAdapter returns a ValueTransferAdapter whose escrow side is the named
// module account. Each engine gets its own escrow so funds never mingle.
func (s *LedgerService) EscrowAdapter(escrowAccount string) ValueTransferAdapter {
	return &escrowAdapter{ledger: s, escrow: escrowAccount}
}

// move debits from and credits to under the ledger lock.
func (s *LedgerService) move(ctx context.Context, token, from, to string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromBalance, err := s.tokenRepo.GetBalance(ctx, token, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return domain.ErrInsufficientBalance
	}
	toBalance, err := s.tokenRepo.GetBalance(ctx, token, to)
	if err != nil {
		return err
	}
	if toBalance > math.MaxUint64-amount {
		return domain.ErrInvalidAmount
	}

	if err := s.tokenRepo.SetBalance(ctx, token, from, fromBalance-amount); err != nil {
		return err
	}
	if err := s.tokenRepo.SetBalance(ctx, token, to, toBalance+amount); err != nil {
		// Restore the debit so a half-applied move is never visible.
		if restoreErr := s.tokenRepo.SetBalance(ctx, token, from, fromBalance); restoreErr != nil {
			return restoreErr
		}
		return err
	}
	return nil
}

func (s *LedgerService) requireSupported(ctx context.Context, token string) error {
	ok, err := s.IsSupported(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTokenNotSupported
	}
	return nil
}

func (s *LedgerService) requireAdmin(ctx context.Context, caller string) error {
	ok, err := s.authz.HasRole(ctx, caller, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

// escrowAdapter binds the ledger to one engine's escrow account.
type escrowAdapter struct {
	ledger *LedgerService
	escrow string
}

func (a *escrowAdapter) TransferIn(ctx context.Context, token, from string, amount uint64) error {
	if err := a.ledger.requireSupported(ctx, token); err != nil {
		return err
	}
	return a.ledger.move(ctx, token, from, a.escrow, amount)
}

func (a *escrowAdapter) TransferOut(ctx context.Context, token, to string, amount uint64) error {
	if to == "" {
		return domain.ErrInvalidRecipient
	}
	return a.ledger.move(ctx, token, a.escrow, to, amount)
}

func (a *escrowAdapter) BalanceOf(ctx context.Context, token, account string) (uint64, error) {
	return a.ledger.BalanceOf(ctx, token, account)
}
