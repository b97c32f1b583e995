package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

func TestCreditDefaultScoreIsReadTimeFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	score, err := env.credit.GetScore(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Equal(t, uint64(domain.InitialCreditScore), score)

	// Reading must not materialize a record
	_, err = env.store.Credits.GetByAddress(ctx, "0xnobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreditFirstRepaymentAppliesActivityBonus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.credit.RecordRepayment(ctx, domain.ModuleLending, "0xamina", 1000, env.clock.Now().Unix())
	require.NoError(t, err)

	score, err := env.credit.GetScore(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, uint64(domain.InitialCreditScore+domain.ActivityBonus+domain.OnTimeBonus), score)

	// Subsequent repayments apply the on-time bonus alone
	err = env.credit.RecordRepayment(ctx, domain.ModuleLending, "0xamina", 1000, env.clock.Now().Unix()+10)
	require.NoError(t, err)

	score, err = env.credit.GetScore(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, uint64(domain.InitialCreditScore+domain.ActivityBonus+2*domain.OnTimeBonus), score)
}

func TestCreditMutatorsRequireAuthorizedCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.credit.RecordRepayment(ctx, "0xintruder", "0xamina", 1000, env.clock.Now().Unix())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.credit.RecordLoan(ctx, "0xintruder", "0xamina", 1, 1000)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.credit.RecordLoanCompletion(ctx, "0xintruder", "0xamina", 1, true)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Nothing was written
	_, err = env.store.Credits.GetByAddress(ctx, "0xamina")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreditScoreNeverExceedsMax(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 5550 after the first call, +50 each after; far more than enough to hit
	// the ceiling.
	for i := 0; i < 120; i++ {
		err := env.credit.RecordRepayment(ctx, domain.ModuleLending, "0xamina", 10, env.clock.Now().Unix()+int64(i))
		require.NoError(t, err)

		score, err := env.credit.GetScore(ctx, "0xamina")
		require.NoError(t, err)
		assert.LessOrEqual(t, score, uint64(domain.MaxCreditScore))
	}

	score, err := env.credit.GetScore(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, uint64(domain.MaxCreditScore), score)
}

func TestCreditScoreNeverUnderflows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Failed completions drain the score 500 at a time and clamp at zero
	for i := 0; i < 15; i++ {
		err := env.credit.RecordLoanCompletion(ctx, domain.ModuleLending, "0xamina", uint64(i+1), false)
		require.NoError(t, err)
	}

	score, err := env.credit.GetScore(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), score)
}

func TestCreditOutOfOrderTimestampIsNonPenalizing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := env.clock.Now().Unix()
	require.NoError(t, env.credit.RecordRepayment(ctx, domain.ModuleLending, "0xamina", 100, now))

	before, err := env.credit.GetScore(ctx, "0xamina")
	require.NoError(t, err)

	// A repayment stamped in the past still bumps the score and leaves the
	// last-repayment marker alone.
	require.NoError(t, env.credit.RecordRepayment(ctx, domain.ModuleLending, "0xamina", 100, now-3600))

	record, err := env.store.Credits.GetByAddress(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, before+domain.OnTimeBonus, record.Score)
	assert.Equal(t, now, record.LastRepaymentAt)
}

func TestCreditLoanCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.credit.RecordLoan(ctx, domain.ModuleLending, "0xamina", 1, 1000))
	require.NoError(t, env.credit.RecordLoan(ctx, domain.ModuleLending, "0xamina", 2, 500))
	require.NoError(t, env.credit.RecordLoanCompletion(ctx, domain.ModuleLending, "0xamina", 1, true))

	profile, err := env.credit.GetProfile(ctx, "0xamina")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), profile.TotalLoans)
	assert.Equal(t, uint64(1), profile.CompletedLoans)
}
