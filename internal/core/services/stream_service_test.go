package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

func TestCreateStreamValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 100_000)

	_, err := env.stream.CreateStream(ctx, "0xpayer", "", testToken, 1, 86400, 86400)
	assert.ErrorIs(t, err, domain.ErrInvalidRecipient)

	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xpayer", testToken, 1, 86400, 86400)
	assert.ErrorIs(t, err, domain.ErrInvalidRecipient)

	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 3600, 3600)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 0, 86400, 86400)
	assert.ErrorIs(t, err, domain.ErrRateTooLow)

	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 500)
	assert.ErrorIs(t, err, domain.ErrInsufficientDeposit)

	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", "DOGE", 1, 86400, 86400)
	assert.ErrorIs(t, err, domain.ErrTokenNotSupported)
}

func TestCreateStreamRejectsOverflowingRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 10)

	// rate*duration wraps uint64; a tiny deposit must not slip past the
	// required-deposit check
	_, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1<<57, 86400, 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientDeposit)
}

func TestStreamAccrualAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), env.balance(t, "0xpayer"))
	assert.Equal(t, uint64(86400), env.balance(t, domain.EscrowStreams))

	// 12 hours in at 1 token/sec: 43200 accrued
	env.clock.Advance(12 * time.Hour)
	available, err := env.stream.GetAvailableBalance(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(43200), available)

	paid, err := env.stream.WithdrawFromStream(ctx, "0xrecipient", stream.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(43200), paid)
	assert.Equal(t, uint64(43200), env.balance(t, "0xrecipient"))

	available, err = env.stream.GetAvailableBalance(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), available)
}

func TestStreamAccrualCapsAtDeposit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 90_000)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 90_000)
	require.NoError(t, err)

	env.clock.Advance(10 * 24 * time.Hour)
	available, err := env.stream.GetAvailableBalance(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000), available)
}

func TestStreamAccrualIsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)

	var last uint64
	for i := 0; i < 10; i++ {
		env.clock.Advance(time.Hour)
		available, err := env.stream.GetAvailableBalance(ctx, stream.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, available, last)
		last = available
	}
}

func TestStreamWithdrawGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)

	_, err = env.stream.WithdrawFromStream(ctx, "0xpayer", stream.ID, 0)
	assert.ErrorIs(t, err, domain.ErrNotTheRecipient)

	_, err = env.stream.WithdrawFromStream(ctx, "0xrecipient", stream.ID, 10_000)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestStreamPauseResume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	require.NoError(t, env.stream.PauseStream(ctx, "0xpayer", stream.ID))

	// Frozen: no accrual while paused
	env.clock.Advance(5 * time.Hour)
	available, err := env.stream.GetAvailableBalance(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), available)

	assert.ErrorIs(t, env.stream.PauseStream(ctx, "0xpayer", stream.ID), domain.ErrStreamPaused)

	require.NoError(t, env.stream.ResumeStream(ctx, "0xpayer", stream.ID))
	assert.ErrorIs(t, env.stream.ResumeStream(ctx, "0xpayer", stream.ID), domain.ErrStreamNotPaused)

	// One more active hour: paused span stays excluded
	env.clock.Advance(time.Hour)
	available, err = env.stream.GetAvailableBalance(ctx, stream.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7200), available)
}

func TestStreamPauseOnlyPayer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)

	assert.ErrorIs(t, env.stream.PauseStream(ctx, "0xrecipient", stream.ID), domain.ErrNotThePayer)
	assert.ErrorIs(t, env.stream.CancelStream(ctx, "0xrecipient", stream.ID), domain.ErrNotThePayer)
}

func TestStreamCancelConservesDeposit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 86400)

	stream, err := env.stream.CreateStream(ctx, "0xpayer", "0xrecipient", testToken, 1, 86400, 86400)
	require.NoError(t, err)

	// Withdraw part of the first six hours, then cancel at hour six
	env.clock.Advance(3 * time.Hour)
	_, err = env.stream.WithdrawFromStream(ctx, "0xrecipient", stream.ID, 5000)
	require.NoError(t, err)

	env.clock.Advance(3 * time.Hour)
	require.NoError(t, env.stream.CancelStream(ctx, "0xpayer", stream.ID))

	// Recipient holds everything accrued in six hours, payer the rest
	assert.Equal(t, uint64(21600), env.balance(t, "0xrecipient"))
	assert.Equal(t, uint64(64800), env.balance(t, "0xpayer"))
	assert.Equal(t, uint64(0), env.balance(t, domain.EscrowStreams))

	cancelled, err := env.stream.GetStream(ctx, stream.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.IsActive)

	_, err = env.stream.WithdrawFromStream(ctx, "0xrecipient", stream.ID, 0)
	assert.ErrorIs(t, err, domain.ErrStreamNotActive)
}

func TestListStreamsByParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xpayer", 200_000)

	_, err := env.stream.CreateStream(ctx, "0xpayer", "0xalice", testToken, 1, 86400, 86400)
	require.NoError(t, err)
	_, err = env.stream.CreateStream(ctx, "0xpayer", "0xbob", testToken, 1, 86400, 86400)
	require.NoError(t, err)

	mine, err := env.stream.ListStreamsByParticipant(ctx, "0xpayer")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := env.stream.ListStreamsByParticipant(ctx, "0xalice")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
