package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

func TestTransferMovesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xalice", 1000)

	require.NoError(t, env.ledger.Transfer(ctx, testToken, "0xalice", "0xbob", 400))
	assert.Equal(t, uint64(600), env.balance(t, "0xalice"))
	assert.Equal(t, uint64(400), env.balance(t, "0xbob"))
}

func TestTransferValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xalice", 100)

	assert.ErrorIs(t, env.ledger.Transfer(ctx, testToken, "0xalice", "0xbob", 0), domain.ErrInvalidAmount)
	assert.ErrorIs(t, env.ledger.Transfer(ctx, testToken, "0xalice", "0xbob", 500), domain.ErrInsufficientBalance)
	assert.ErrorIs(t, env.ledger.Transfer(ctx, "DOGE", "0xalice", "0xbob", 50), domain.ErrTokenNotSupported)

	// Failed transfers leave balances untouched
	assert.Equal(t, uint64(100), env.balance(t, "0xalice"))
	assert.Equal(t, uint64(0), env.balance(t, "0xbob"))
}

func TestMintIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.ledger.Mint(ctx, "0xalice", testToken, "0xalice", 100), domain.ErrUnauthorized)
	require.NoError(t, env.ledger.Mint(ctx, testAdmin, testToken, "0xalice", 100))
	assert.Equal(t, uint64(100), env.balance(t, "0xalice"))
}

func TestTokenAdministration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.ledger.AddToken(ctx, "0xalice", "cNGN", "Celo Nigerian Naira", 18), domain.ErrUnauthorized)
	require.NoError(t, env.ledger.AddToken(ctx, testAdmin, "cNGN", "Celo Nigerian Naira", 18))

	ok, err := env.ledger.IsSupported(ctx, "cNGN")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, env.ledger.RemoveToken(ctx, testAdmin, "cNGN"))
	ok, err = env.ledger.IsSupported(ctx, "cNGN")
	require.NoError(t, err)
	assert.False(t, ok)

	// Re-adding a removed token reactivates it
	require.NoError(t, env.ledger.AddToken(ctx, testAdmin, "cNGN", "Celo Nigerian Naira", 18))
	ok, err = env.ledger.IsSupported(ctx, "cNGN")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeactivatedTokenBlocksTransfers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xalice", 100)
	require.NoError(t, env.ledger.RemoveToken(ctx, testAdmin, testToken))

	assert.ErrorIs(t, env.ledger.Transfer(ctx, testToken, "0xalice", "0xbob", 50), domain.ErrTokenNotSupported)

	// Balances survive deactivation
	assert.Equal(t, uint64(100), env.balance(t, "0xalice"))
}

func TestEscrowAdapterRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xalice", 500)
	adapter := env.ledger.EscrowAdapter("escrow:test")

	require.NoError(t, adapter.TransferIn(ctx, testToken, "0xalice", 300))
	assert.Equal(t, uint64(200), env.balance(t, "0xalice"))
	assert.Equal(t, uint64(300), env.balance(t, "escrow:test"))

	held, err := adapter.BalanceOf(ctx, testToken, "escrow:test")
	require.NoError(t, err)
	assert.Equal(t, uint64(300), held)

	require.NoError(t, adapter.TransferOut(ctx, testToken, "0xbob", 300))
	assert.Equal(t, uint64(300), env.balance(t, "0xbob"))
	assert.Equal(t, uint64(0), env.balance(t, "escrow:test"))
}

func TestTransfersAreRecordedAsEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xalice", 1000)
	require.NoError(t, env.ledger.Transfer(ctx, testToken, "0xalice", "0xbob", 250))

	events, total, err := env.events.ListByAccount(ctx, "0xalice", 0, 20)
	require.NoError(t, err)
	require.NotZero(t, total)
	require.NotEmpty(t, events)
}
