package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

const weekly = int64(7 * 86400)

func TestCreateCircleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.circle.CreateCircle(ctx, "0xcreator", "", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleType("TONTINE"), testToken, 100, weekly, 3, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidCircleType)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 1, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidMemberBounds)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 51, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidMemberBounds)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 0, weekly, 3, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidContribution)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCycleCount)

	_, err = env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, "DOGE", 100, weekly, 3, 3)
	assert.ErrorIs(t, err, domain.ErrTokenNotSupported)
}

func TestCreateCircleEnrollsCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), circle.CurrentCycle)

	members, err := env.circle.ListMembers(ctx, circle.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "0xcreator", members[0].Address)
	assert.Equal(t, 0, members[0].JoinOrder)
	assert.Equal(t, domain.MemberStatusPending, members[0].Status)
}

func TestJoinCircleGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 2, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, env.circle.JoinCircle(ctx, "0xcreator", circle.ID), domain.ErrAlreadyMember)

	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", circle.ID))
	assert.ErrorIs(t, env.circle.JoinCircle(ctx, "0xbob", circle.ID), domain.ErrCircleFull)
}

func TestContributeGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xcreator", 1000)

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, env.circle.Contribute(ctx, "0xstranger", circle.ID), domain.ErrNotAMember)

	require.NoError(t, env.circle.Contribute(ctx, "0xcreator", circle.ID))
	assert.ErrorIs(t, env.circle.Contribute(ctx, "0xcreator", circle.ID), domain.ErrAlreadyContributed)
}

func TestContributeAbortsOnInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, env.circle.Contribute(ctx, "0xcreator", circle.ID), domain.ErrInsufficientBalance)

	// Full abort: still marked pending, may retry after funding
	members, err := env.circle.ListMembers(ctx, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusPending, members[0].Status)

	env.fund(t, "0xcreator", 100)
	require.NoError(t, env.circle.Contribute(ctx, "0xcreator", circle.ID))
}

func TestContributeRevertPreservesLastPaidCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.fund(t, "0xcreator", 200)
	env.fund(t, "0xalice", 100)

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 2, 2)
	require.NoError(t, err)
	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", circle.ID))

	require.NoError(t, env.circle.Contribute(ctx, "0xcreator", circle.ID))
	require.NoError(t, env.circle.Contribute(ctx, "0xalice", circle.ID))

	// Cycle 1 paid out; alice is broke going into cycle 2
	assert.ErrorIs(t, env.circle.Contribute(ctx, "0xalice", circle.ID), domain.ErrInsufficientBalance)

	// The abort must keep her cycle-1 payment history intact
	members, err := env.circle.ListMembers(ctx, circle.ID)
	require.NoError(t, err)
	for _, m := range members {
		if m.Address == "0xalice" {
			assert.Equal(t, domain.MemberStatusPending, m.Status)
			assert.Equal(t, uint64(1), m.LastPaidCycle)
		}
	}
}

func TestAjoCyclePaysByJoinOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	participants := []string{"0xcreator", "0xalice", "0xbob"}
	for _, p := range participants {
		env.fund(t, p, 100)
	}

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)
	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", circle.ID))
	require.NoError(t, env.circle.JoinCircle(ctx, "0xbob", circle.ID))

	for _, p := range participants {
		require.NoError(t, env.circle.Contribute(ctx, p, circle.ID))
	}

	// First cycle's pot goes to join order 0
	assert.Equal(t, uint64(300), env.balance(t, "0xcreator"))
	assert.Equal(t, uint64(0), env.balance(t, "0xalice"))
	assert.Equal(t, uint64(0), env.balance(t, "0xbob"))
	assert.Equal(t, uint64(0), env.balance(t, domain.EscrowCircles))

	after, err := env.circle.GetCircle(ctx, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), after.CurrentCycle)
	assert.False(t, after.Completed)

	members, err := env.circle.ListMembers(ctx, circle.ID)
	require.NoError(t, err)
	for _, m := range members {
		assert.Equal(t, domain.MemberStatusPending, m.Status)
	}
}

func TestAjoFullRotationCompletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	participants := []string{"0xcreator", "0xalice", "0xbob"}
	for _, p := range participants {
		env.fund(t, p, 300)
	}

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "savings", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)
	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", circle.ID))
	require.NoError(t, env.circle.JoinCircle(ctx, "0xbob", circle.ID))

	for cycle := 0; cycle < 3; cycle++ {
		for _, p := range participants {
			require.NoError(t, env.circle.Contribute(ctx, p, circle.ID))
		}
	}

	// Every member received one pot: the rotation is a wash
	for _, p := range participants {
		assert.Equal(t, uint64(300), env.balance(t, p))
	}

	done, err := env.circle.GetCircle(ctx, circle.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	assert.ErrorIs(t, env.circle.Contribute(ctx, "0xcreator", circle.ID), domain.ErrCircleCompleted)
	assert.ErrorIs(t, env.circle.JoinCircle(ctx, "0xdave", circle.ID), domain.ErrCircleCompleted)
}

func TestEsusuCycleRedistributesEqually(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	participants := []string{"0xcreator", "0xalice"}
	for _, p := range participants {
		env.fund(t, p, 500)
	}

	circle, err := env.circle.CreateCircle(ctx, "0xcreator", "goal-fund", domain.CircleTypeEsusu, testToken, 500, weekly, 2, 2)
	require.NoError(t, err)
	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", circle.ID))

	for _, p := range participants {
		require.NoError(t, env.circle.Contribute(ctx, p, circle.ID))
	}

	// Goal-savings payout returns each member's own contribution
	for _, p := range participants {
		assert.Equal(t, uint64(500), env.balance(t, p))
	}
	assert.Equal(t, uint64(0), env.balance(t, domain.EscrowCircles))
}

func TestListCirclesByMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.circle.CreateCircle(ctx, "0xcreator", "one", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)
	_, err = env.circle.CreateCircle(ctx, "0xother", "two", domain.CircleTypeAjo, testToken, 100, weekly, 3, 3)
	require.NoError(t, err)
	require.NoError(t, env.circle.JoinCircle(ctx, "0xalice", first.ID))

	mine, err := env.circle.ListCirclesByMember(ctx, "0xalice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}
