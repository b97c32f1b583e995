package services

import (
	"context"
	"time"
)

// ValueTransferAdapter moves fungible value between an engine's escrow and
// user accounts. Engines treat any returned error as a full abort of the
// enclosing operation.
type ValueTransferAdapter interface {
	// TransferIn pulls amount of token from the holder into engine escrow.
	TransferIn(ctx context.Context, token, from string, amount uint64) error
	// TransferOut pays amount of token from engine escrow to the recipient.
	TransferOut(ctx context.Context, token, to string, amount uint64) error
	// BalanceOf returns the current balance of an account.
	BalanceOf(ctx context.Context, token, account string) (uint64, error)
}

// TokenRegistry answers whether a token symbol is supported by the ledger.
type TokenRegistry interface {
	IsSupported(ctx context.Context, symbol string) (bool, error)
}

// AuthorizationService answers capability-role checks. Engines consult it at
// the top of privileged operations.
type AuthorizationService interface {
	HasRole(ctx context.Context, account, role string) (bool, error)
}

// Clock abstracts wall-clock time so engine accrual is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
