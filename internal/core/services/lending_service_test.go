package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

func TestRequestLoanAmountBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 0, 86400, false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.lending.RequestLoan(ctx, "0xborrower", testToken, 200_000, 86400, false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, domain.MaxLoanAmount, 86400, false)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
}

func TestRequestLoanValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 0, false)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, domain.MaxLoanDuration+1, false)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = env.lending.RequestLoan(ctx, "0xborrower", "DOGE", 1000, 86400, false)
	assert.ErrorIs(t, err, domain.ErrTokenNotSupported)
}

func TestRequestLoanRejectsZeroScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Drive the borrower's score to zero through failed completions
	for i := 0; i < 10; i++ {
		require.NoError(t, env.credit.RecordLoanCompletion(ctx, domain.ModuleLending, "0xblacklisted", uint64(i+1), false))
	}

	_, err := env.lending.RequestLoan(ctx, "0xblacklisted", testToken, 1000, 86400, false)
	assert.ErrorIs(t, err, domain.ErrInsufficientCreditScore)
}

func TestLoanIDsAreMonotonicFromOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 100, 86400, false)
	require.NoError(t, err)
	second, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 100, 86400, false)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
}

func TestLoanInterestProration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 10_000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 30*86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	// Halfway through a 30-day term at 1200 bps: 1000 + 1000*0.12*0.5 = 1060
	env.clock.Advance(15 * 24 * time.Hour)
	owed, err := env.lending.GetTotalOwed(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1060), owed)

	// Interest caps at the full-duration amount, even long overdue
	env.clock.Advance(90 * 24 * time.Hour)
	owed, err = env.lending.GetTotalOwed(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1120), owed)
}

func TestLoanLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 5000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 30*86400, false)
	require.NoError(t, err)

	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))
	assert.Equal(t, uint64(4000), env.balance(t, "0xlender"))
	assert.Equal(t, uint64(1000), env.balance(t, "0xborrower"))

	funded, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, funded.Status)
	assert.Equal(t, "0xlender", funded.Lender)

	// Full settlement at term: principal plus 12%
	env.clock.Advance(30 * 24 * time.Hour)
	env.fund(t, "0xborrower", 200)
	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0))

	repaid, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRepaid, repaid.Status)
	assert.Equal(t, uint64(1120), repaid.RepaidAmount)
	assert.Equal(t, uint64(5120), env.balance(t, "0xlender"))
	assert.Equal(t, uint64(80), env.balance(t, "0xborrower"))

	// Settlement updates the borrower's credit record
	profile, err := env.credit.GetProfile(ctx, "0xborrower")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), profile.TotalLoans)
	assert.Equal(t, uint64(1), profile.CompletedLoans)
	assert.Equal(t, uint64(domain.InitialCreditScore+domain.ActivityBonus+domain.OnTimeBonus), profile.Score)
}

func TestRepayLoanIdempotentAfterSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 2000)
	env.fund(t, "0xborrower", 2000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 30*86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))
	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0))

	assert.ErrorIs(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0), domain.ErrLoanNotActive)
	assert.ErrorIs(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0), domain.ErrLoanNotActive)
}

func TestPartialRepaymentKeepsLoanActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 2000)
	env.fund(t, "0xborrower", 2000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 30*86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 400))

	partial, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, partial.Status)
	assert.Equal(t, uint64(400), partial.RepaidAmount)

	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0))

	settled, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRepaid, settled.Status)
	assert.Equal(t, uint64(1000), settled.RepaidAmount)
}

func TestFundLoanGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 5000)
	env.fund(t, "0xpleb", 5000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 86400, false)
	require.NoError(t, err)

	// Funder without the lender capability
	assert.ErrorIs(t, env.lending.FundLoan(ctx, "0xpleb", loan.ID), domain.ErrUnauthorized)

	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	// Already active
	assert.ErrorIs(t, env.lending.FundLoan(ctx, "0xlender", loan.ID), domain.ErrLoanNotPending)
}

func TestFundLoanAbortsOnInsufficientLenderBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 100)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 86400, false)
	require.NoError(t, err)

	assert.ErrorIs(t, env.lending.FundLoan(ctx, "0xlender", loan.ID), domain.ErrInsufficientBalance)

	// Full abort: loan still pending, balances untouched
	pending, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, pending.Status)
	assert.Equal(t, int64(0), pending.FundedAt)
	assert.Equal(t, uint64(100), env.balance(t, "0xlender"))
	assert.Equal(t, uint64(0), env.balance(t, "0xborrower"))
}

func TestRepayLoanCommitsWhenCreditRecordingFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 2000)
	env.fund(t, "0xborrower", 2000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 30*86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	// Credit mutators reject the lending engine once its grant is gone;
	// the settlement must still go through cleanly
	require.NoError(t, env.roles.Revoke(ctx, testAdmin, domain.ModuleLending, domain.RoleAuthorizedCaller))

	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0))

	settled, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRepaid, settled.Status)
	assert.Equal(t, uint64(2000), env.balance(t, "0xlender"))
	assert.Equal(t, uint64(2000), env.balance(t, "0xborrower"))

	// The skipped credit update left the score untouched
	score, err := env.credit.GetScore(ctx, "0xborrower")
	require.NoError(t, err)
	assert.Equal(t, domain.InitialCreditScore, score)
}

func TestRepayLoanOnlyBorrower(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 2000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	assert.ErrorIs(t, env.lending.RepayLoan(ctx, "0xstranger", loan.ID, 0), domain.ErrNotThePayer)
}

func TestPoolDepositAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xdepositor", 5000)

	require.NoError(t, env.lending.DepositToPool(ctx, "0xdepositor", testToken, 3000))
	assert.Equal(t, uint64(2000), env.balance(t, "0xdepositor"))
	assert.Equal(t, uint64(3000), env.balance(t, domain.EscrowLoans))

	// Cannot withdraw more than deposited
	assert.ErrorIs(t, env.lending.WithdrawFromPool(ctx, "0xdepositor", testToken, 4000), domain.ErrInsufficientPoolBalance)

	require.NoError(t, env.lending.WithdrawFromPool(ctx, "0xdepositor", testToken, 1000))
	assert.Equal(t, uint64(3000), env.balance(t, "0xdepositor"))

	account, err := env.lending.GetPoolAccount(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), account.TotalDeposited)
}

func TestPoolLoanLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xdepositor", 5000)
	require.NoError(t, env.lending.DepositToPool(ctx, "0xdepositor", testToken, 3000))

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 2000, 30*86400, true)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xborrower", loan.ID))
	assert.Equal(t, uint64(2000), env.balance(t, "0xborrower"))

	// Deployed capital cannot be withdrawn
	assert.ErrorIs(t, env.lending.WithdrawFromPool(ctx, "0xdepositor", testToken, 2000), domain.ErrInsufficientPoolBalance)

	// Settle at term: interest accrues to the pool
	env.clock.Advance(30 * 24 * time.Hour)
	env.fund(t, "0xborrower", 240)
	require.NoError(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0))

	account, err := env.lending.GetPoolAccount(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), account.TotalBorrowed)
	assert.Equal(t, uint64(3240), account.TotalDeposited)
	assert.Equal(t, uint64(3240), env.balance(t, domain.EscrowLoans))
}

func TestPoolLoanRequiresPoolBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 2000, 86400, true)
	require.NoError(t, err)

	assert.ErrorIs(t, env.lending.FundLoan(ctx, "0xborrower", loan.ID), domain.ErrInsufficientPoolBalance)
}

func TestMarkDefaulted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 2000)
	env.grantLender(t, "0xlender")

	loan, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", loan.ID))

	before, err := env.credit.GetScore(ctx, "0xborrower")
	require.NoError(t, err)

	env.clock.Advance(20 * 24 * time.Hour)
	require.NoError(t, env.lending.MarkDefaulted(ctx, loan.ID))

	defaulted, err := env.lending.GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDefaulted, defaulted.Status)

	after, err := env.credit.GetScore(ctx, "0xborrower")
	require.NoError(t, err)
	assert.Equal(t, before-domain.DefaultPenalty, after)

	// Terminal: cannot default or repay again
	assert.ErrorIs(t, env.lending.MarkDefaulted(ctx, loan.ID), domain.ErrLoanNotActive)
	assert.ErrorIs(t, env.lending.RepayLoan(ctx, "0xborrower", loan.ID, 0), domain.ErrLoanNotActive)
}

func TestListOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xlender", 5000)
	env.grantLender(t, "0xlender")

	short, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 86400, false)
	require.NoError(t, err)
	long, err := env.lending.RequestLoan(ctx, "0xborrower", testToken, 1000, 365*86400, false)
	require.NoError(t, err)
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", short.ID))
	require.NoError(t, env.lending.FundLoan(ctx, "0xlender", long.ID))

	env.clock.Advance(10 * 24 * time.Hour)
	overdue, err := env.lending.ListOverdue(ctx, env.clock.Now().Unix())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, short.ID, overdue[0].ID)
}
