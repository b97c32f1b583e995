package services

import (
	"context"
	"log"
	"sync"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// LendingService is the peer-to-peer and pool lending engine. Loans carry
// prorated simple interest; pool deposits are tracked per depositor, and the
// pool funds loans out of its undeployed balance. Every operation follows the
// checks, effects, interactions ordering: state is written before value
// moves, and a failed transfer reverts the written state.
type LendingService struct {
	mu       sync.Mutex
	loanRepo repositories.LoanRepository
	poolRepo repositories.PoolRepository
	adapter  ValueTransferAdapter
	tokens   TokenRegistry
	credit   *CreditService
	authz    AuthorizationService
	events   *EventService
	clock    Clock
}

// NewLendingService creates a new lending service
func NewLendingService(
	loanRepo repositories.LoanRepository,
	poolRepo repositories.PoolRepository,
	adapter ValueTransferAdapter,
	tokens TokenRegistry,
	credit *CreditService,
	authz AuthorizationService,
	events *EventService,
	clock Clock,
) *LendingService {
	return &LendingService{
		loanRepo: loanRepo,
		poolRepo: poolRepo,
		adapter:  adapter,
		tokens:   tokens,
		credit:   credit,
		authz:    authz,
		events:   events,
		clock:    clock,
	}
}

// RequestLoan opens a pending loan for the borrower at the default interest
// rate. A score of exactly zero marks a blacklisted account and is rejected;
// normal flows never drive a score to zero.
func (s *LendingService) RequestLoan(ctx context.Context, borrower, token string, principal uint64, durationSeconds int64, isPoolLoan bool) (*models.Loan, error) {
	if principal < domain.MinLoanAmount || principal > domain.MaxLoanAmount {
		return nil, domain.ErrInvalidAmount
	}
	if durationSeconds <= 0 || durationSeconds > domain.MaxLoanDuration {
		return nil, domain.ErrInvalidDuration
	}
	if err := s.requireSupported(ctx, token); err != nil {
		return nil, err
	}
	score, err := s.credit.GetScore(ctx, borrower)
	if err != nil {
		return nil, err
	}
	if score == 0 {
		return nil, domain.ErrInsufficientCreditScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loan := &models.Loan{
		Borrower:        borrower,
		Token:           token,
		Principal:       principal,
		InterestRateBps: domain.DefaultInterestRateBps,
		DurationSeconds: durationSeconds,
		Status:          domain.LoanStatusPending,
		IsPoolLoan:      isPoolLoan,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, domain.EventLoanRequested, loan.ID, borrower, token, principal, map[string]interface{}{
		"duration_seconds":  durationSeconds,
		"interest_rate_bps": loan.InterestRateBps,
		"is_pool_loan":      isPoolLoan,
	})
	return loan, nil
}

// FundLoan activates a pending loan and moves the principal to the borrower.
// Named loans require the lender role and pull the principal from the funder;
// pool loans draw on the pool's undeployed balance with no explicit lender.
func (s *LendingService) FundLoan(ctx context.Context, funder string, loanID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != domain.LoanStatusPending {
		return domain.ErrLoanNotPending
	}

	if loan.IsPoolLoan {
		return s.fundFromPool(ctx, funder, loan)
	}

	ok, err := s.authz.HasRole(ctx, funder, domain.RoleLender)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}

	now := s.clock.Now().Unix()
	loan.Lender = funder
	loan.Status = domain.LoanStatusActive
	loan.FundedAt = now
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return err
	}

	if err := s.adapter.TransferIn(ctx, loan.Token, funder, loan.Principal); err != nil {
		s.revertFunding(ctx, loan)
		return err
	}
	if err := s.adapter.TransferOut(ctx, loan.Token, loan.Borrower, loan.Principal); err != nil {
		// push the pulled principal back before unwinding the loan
		s.adapter.TransferOut(ctx, loan.Token, funder, loan.Principal)
		s.revertFunding(ctx, loan)
		return err
	}

	// The funding is committed; a credit-engine failure must not unwind it.
	if err := s.credit.RecordLoan(ctx, domain.ModuleLending, loan.Borrower, loan.ID, loan.Principal); err != nil {
		log.Printf("⚠️ Credit record failed for loan %d: %v", loan.ID, err)
	}

	s.events.Emit(ctx, domain.EventLoanFunded, loan.ID, loan.Borrower, loan.Token, loan.Principal, map[string]interface{}{
		"lender":    funder,
		"funded_at": now,
	})
	return nil
}

// fundFromPool deploys pool capital into a loan. Caller must hold s.mu.
func (s *LendingService) fundFromPool(ctx context.Context, funder string, loan *models.Loan) error {
	account, err := s.poolRepo.GetAccount(ctx, loan.Token)
	if err != nil {
		return err
	}
	if account.Available() < loan.Principal {
		return domain.ErrInsufficientPoolBalance
	}

	now := s.clock.Now().Unix()
	loan.Status = domain.LoanStatusActive
	loan.FundedAt = now
	account.TotalBorrowed += loan.Principal
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return err
	}
	if err := s.poolRepo.SaveAccount(ctx, account); err != nil {
		s.revertFunding(ctx, loan)
		return err
	}

	if err := s.adapter.TransferOut(ctx, loan.Token, loan.Borrower, loan.Principal); err != nil {
		account.TotalBorrowed -= loan.Principal
		s.poolRepo.SaveAccount(ctx, account)
		s.revertFunding(ctx, loan)
		return err
	}

	// The funding is committed; a credit-engine failure must not unwind it.
	if err := s.credit.RecordLoan(ctx, domain.ModuleLending, loan.Borrower, loan.ID, loan.Principal); err != nil {
		log.Printf("⚠️ Credit record failed for loan %d: %v", loan.ID, err)
	}

	s.events.Emit(ctx, domain.EventLoanFunded, loan.ID, loan.Borrower, loan.Token, loan.Principal, map[string]interface{}{
		"pool":      true,
		"funded_at": now,
	})
	return nil
}

func (s *LendingService) revertFunding(ctx context.Context, loan *models.Loan) {
	loan.Lender = ""
	loan.Status = domain.LoanStatusPending
	loan.FundedAt = 0
	s.loanRepo.Update(ctx, loan)
}

// GetTotalOwed returns principal plus prorated simple interest at the current
// time. Interest accrues linearly over the loan duration and caps at the
// full-duration amount, so an overdue loan never owes more than
// principal × (1 + rate).
func (s *LendingService) GetTotalOwed(ctx context.Context, loanID uint64) (uint64, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return 0, err
	}
	return totalOwed(loan, s.clock.Now().Unix()), nil
}

func totalOwed(loan *models.Loan, now int64) uint64 {
	if loan.FundedAt == 0 {
		return loan.Principal
	}
	elapsed := now - loan.FundedAt
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > loan.DurationSeconds {
		elapsed = loan.DurationSeconds
	}
	interest := loan.Principal * loan.InterestRateBps * uint64(elapsed) /
		(domain.BpsDenominator * uint64(loan.DurationSeconds))
	return loan.Principal + interest
}

// RepayLoan applies a repayment from the borrower. amount = 0 settles the
// full amount owed now. Repayments above the outstanding balance are capped.
// When the accrued repayments cover the total owed, the loan settles: the
// status flips to Repaid and the borrower's credit record is updated.
func (s *LendingService) RepayLoan(ctx context.Context, payer string, loanID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != domain.LoanStatusActive {
		return domain.ErrLoanNotActive
	}
	if payer != loan.Borrower {
		return domain.ErrNotThePayer
	}

	now := s.clock.Now().Unix()
	owed := totalOwed(loan, now)
	remaining := owed - loan.RepaidAmount
	if amount == 0 || amount > remaining {
		amount = remaining
	}

	prevStatus := loan.Status
	prevRepaid := loan.RepaidAmount
	loan.RepaidAmount += amount
	settled := loan.RepaidAmount >= owed
	if settled {
		loan.Status = domain.LoanStatusRepaid
	}
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return err
	}

	var account *models.PoolAccount
	if loan.IsPoolLoan && settled {
		account, err = s.poolRepo.GetAccount(ctx, loan.Token)
		if err == nil {
			// principal returns to the deployable balance, interest
			// accrues to the pool
			if account.TotalBorrowed >= loan.Principal {
				account.TotalBorrowed -= loan.Principal
			} else {
				account.TotalBorrowed = 0
			}
			account.TotalDeposited += loan.RepaidAmount - loan.Principal
			err = s.poolRepo.SaveAccount(ctx, account)
		}
		if err != nil {
			loan.Status = prevStatus
			loan.RepaidAmount = prevRepaid
			s.loanRepo.Update(ctx, loan)
			return err
		}
	}

	if err := s.adapter.TransferIn(ctx, loan.Token, payer, amount); err != nil {
		s.revertRepayment(ctx, loan, account, prevStatus, prevRepaid)
		return err
	}
	if !loan.IsPoolLoan {
		if err := s.adapter.TransferOut(ctx, loan.Token, loan.Lender, amount); err != nil {
			s.adapter.TransferOut(ctx, loan.Token, payer, amount)
			s.revertRepayment(ctx, loan, nil, prevStatus, prevRepaid)
			return err
		}
	}

	// The repayment is committed; credit-engine failures are logged, never
	// surfaced, so the caller never sees an error for moved funds.
	if settled {
		if err := s.credit.RecordRepayment(ctx, domain.ModuleLending, loan.Borrower, loan.RepaidAmount, now); err != nil {
			log.Printf("⚠️ Credit repayment record failed for loan %d: %v", loan.ID, err)
		}
		if err := s.credit.RecordLoanCompletion(ctx, domain.ModuleLending, loan.Borrower, loan.ID, true); err != nil {
			log.Printf("⚠️ Credit completion record failed for loan %d: %v", loan.ID, err)
		}
	}

	s.events.Emit(ctx, domain.EventLoanRepayment, loan.ID, loan.Borrower, loan.Token, amount, map[string]interface{}{
		"repaid_amount": loan.RepaidAmount,
		"total_owed":    owed,
		"settled":       settled,
	})
	return nil
}

func (s *LendingService) revertRepayment(ctx context.Context, loan *models.Loan, account *models.PoolAccount, prevStatus domain.LoanStatus, prevRepaid uint64) {
	if account != nil {
		account.TotalBorrowed += loan.Principal
		account.TotalDeposited -= loan.RepaidAmount - loan.Principal
		s.poolRepo.SaveAccount(ctx, account)
	}
	loan.Status = prevStatus
	loan.RepaidAmount = prevRepaid
	s.loanRepo.Update(ctx, loan)
}

// MarkDefaulted flips an overdue active loan to Defaulted and applies the
// credit penalty. Pool accounting is left untouched: the deployed principal
// stays counted as borrowed, which keeps the lost capital out of the
// withdrawable pool balance.
func (s *LendingService) MarkDefaulted(ctx context.Context, loanID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != domain.LoanStatusActive {
		return domain.ErrLoanNotActive
	}

	loan.Status = domain.LoanStatusDefaulted
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return err
	}
	if err := s.credit.RecordLoanCompletion(ctx, domain.ModuleLending, loan.Borrower, loan.ID, false); err != nil {
		log.Printf("⚠️ Credit penalty record failed for loan %d: %v", loan.ID, err)
	}

	s.events.Emit(ctx, domain.EventLoanDefaulted, loan.ID, loan.Borrower, loan.Token, loan.Principal, map[string]interface{}{
		"repaid_amount": loan.RepaidAmount,
	})
	return nil
}

// ListOverdue returns active loans whose term ended before the deadline.
func (s *LendingService) ListOverdue(ctx context.Context, deadline int64) ([]*models.Loan, error) {
	return s.loanRepo.ListActiveDueBefore(ctx, deadline)
}

// DepositToPool adds capital to the token's lending pool.
func (s *LendingService) DepositToPool(ctx context.Context, depositor, token string, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}
	if err := s.requireSupported(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.poolRepo.GetAccount(ctx, token)
	if err != nil {
		return err
	}
	position, err := s.poolRepo.GetPosition(ctx, token, depositor)
	if err != nil {
		return err
	}

	account.TotalDeposited += amount
	position.Amount += amount
	if err := s.poolRepo.SaveAccount(ctx, account); err != nil {
		return err
	}
	if err := s.poolRepo.SavePosition(ctx, position); err != nil {
		account.TotalDeposited -= amount
		s.poolRepo.SaveAccount(ctx, account)
		return err
	}

	if err := s.adapter.TransferIn(ctx, token, depositor, amount); err != nil {
		account.TotalDeposited -= amount
		position.Amount -= amount
		s.poolRepo.SaveAccount(ctx, account)
		s.poolRepo.SavePosition(ctx, position)
		return err
	}

	s.events.Emit(ctx, domain.EventPoolDeposit, 0, depositor, token, amount, map[string]interface{}{
		"total_deposited": account.TotalDeposited,
	})
	return nil
}

// WithdrawFromPool returns undeployed capital to the depositor. The
// withdrawal is bounded by both the depositor's own position and the pool's
// undeployed balance.
func (s *LendingService) WithdrawFromPool(ctx context.Context, depositor, token string, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.poolRepo.GetAccount(ctx, token)
	if err != nil {
		return err
	}
	position, err := s.poolRepo.GetPosition(ctx, token, depositor)
	if err != nil {
		return err
	}
	if amount > position.Amount || amount > account.Available() {
		return domain.ErrInsufficientPoolBalance
	}

	account.TotalDeposited -= amount
	position.Amount -= amount
	if err := s.poolRepo.SaveAccount(ctx, account); err != nil {
		return err
	}
	if err := s.poolRepo.SavePosition(ctx, position); err != nil {
		account.TotalDeposited += amount
		s.poolRepo.SaveAccount(ctx, account)
		return err
	}

	if err := s.adapter.TransferOut(ctx, token, depositor, amount); err != nil {
		account.TotalDeposited += amount
		position.Amount += amount
		s.poolRepo.SaveAccount(ctx, account)
		s.poolRepo.SavePosition(ctx, position)
		return err
	}

	s.events.Emit(ctx, domain.EventPoolWithdrawal, 0, depositor, token, amount, map[string]interface{}{
		"total_deposited": account.TotalDeposited,
	})
	return nil
}

// GetLoan returns a loan by id.
func (s *LendingService) GetLoan(ctx context.Context, loanID uint64) (*models.Loan, error) {
	return s.loanRepo.GetByID(ctx, loanID)
}

// ListLoansByBorrower returns all loans requested by the borrower.
func (s *LendingService) ListLoansByBorrower(ctx context.Context, borrower string) ([]*models.Loan, error) {
	return s.loanRepo.ListByBorrower(ctx, borrower)
}

// GetPoolAccount returns the pool state for a token.
func (s *LendingService) GetPoolAccount(ctx context.Context, token string) (*models.PoolAccount, error) {
	return s.poolRepo.GetAccount(ctx, token)
}

// GetPoolPosition returns a depositor's share in a token pool.
func (s *LendingService) GetPoolPosition(ctx context.Context, token, depositor string) (*models.PoolPosition, error) {
	return s.poolRepo.GetPosition(ctx, token, depositor)
}

func (s *LendingService) requireSupported(ctx context.Context, token string) error {
	ok, err := s.tokens.IsSupported(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTokenNotSupported
	}
	return nil
}
