// Package memory provides in-memory implementations of every repository
// interface. They back the unit tests and the DB_DRIVER=memory development
// mode; all methods copy entities in and out so callers never share state
// with a store.
package memory

import (
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
)

// Store bundles one in-memory store per repository interface.
type Store struct {
	Users         repositories.UserRepository
	RefreshTokens repositories.RefreshTokenRepository
	Roles         repositories.RoleRepository
	Tokens        repositories.TokenRepository
	Credits       repositories.CreditRepository
	Loans         repositories.LoanRepository
	Pools         repositories.PoolRepository
	Streams       repositories.StreamRepository
	Circles       repositories.CircleRepository
	Events        repositories.EventRepository
}

// NewStore creates an empty set of stores.
func NewStore() *Store {
	return &Store{
		Users:         NewUserStore(),
		RefreshTokens: NewRefreshTokenStore(),
		Roles:         NewRoleStore(),
		Tokens:        NewTokenStore(),
		Credits:       NewCreditStore(),
		Loans:         NewLoanStore(),
		Pools:         NewPoolStore(),
		Streams:       NewStreamStore(),
		Circles:       NewCircleStore(),
		Events:        NewEventStore(),
	}
}
