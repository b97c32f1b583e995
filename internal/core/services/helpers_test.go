package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories/memory"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

const (
	testToken = "cUSD"
	testAdmin = "0xadmin"
)

// fixedClock is a manually advanced clock for accrual tests
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testEnv wires every engine over the in-memory store with a fixed clock
type testEnv struct {
	store   *memory.Store
	clock   *fixedClock
	events  *EventService
	roles   *RolesService
	ledger  *LedgerService
	credit  *CreditService
	lending *LendingService
	stream  *StreamService
	circle  *CircleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	clock := &fixedClock{now: time.Unix(1_700_000_000, 0)}

	events := NewEventService(store.Events)
	roles := NewRolesService(store.Roles)
	ledger := NewLedgerService(store.Tokens, roles, events)
	credit := NewCreditService(store.Credits, roles, events)
	lending := NewLendingService(
		store.Loans,
		store.Pools,
		ledger.EscrowAdapter(domain.EscrowLoans),
		ledger,
		credit,
		roles,
		events,
		clock,
	)
	stream := NewStreamService(store.Streams, ledger.EscrowAdapter(domain.EscrowStreams), ledger, events, clock)
	circle := NewCircleService(store.Circles, ledger.EscrowAdapter(domain.EscrowCircles), ledger, events, clock)

	require.NoError(t, store.Roles.Grant(ctx, testAdmin, domain.RoleAdmin, "test"))
	require.NoError(t, store.Roles.Grant(ctx, domain.ModuleLending, domain.RoleAuthorizedCaller, "test"))
	require.NoError(t, ledger.AddToken(ctx, testAdmin, testToken, "Celo Dollar", 18))

	return &testEnv{
		store:   store,
		clock:   clock,
		events:  events,
		roles:   roles,
		ledger:  ledger,
		credit:  credit,
		lending: lending,
		stream:  stream,
		circle:  circle,
	}
}

// fund mints testToken to an account
func (e *testEnv) fund(t *testing.T, account string, amount uint64) {
	t.Helper()
	require.NoError(t, e.ledger.Mint(context.Background(), testAdmin, testToken, account, amount))
}

// balance reads an account's testToken balance
func (e *testEnv) balance(t *testing.T, account string) uint64 {
	t.Helper()
	bal, err := e.ledger.BalanceOf(context.Background(), testToken, account)
	require.NoError(t, err)
	return bal
}

// grantLender gives an account the lender capability
func (e *testEnv) grantLender(t *testing.T, account string) {
	t.Helper()
	require.NoError(t, e.store.Roles.Grant(context.Background(), account, domain.RoleLender, "test"))
}
