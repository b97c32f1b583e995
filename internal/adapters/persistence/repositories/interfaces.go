package repositories

import (
	"context"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByAddress(ctx context.Context, address string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// RoleRepository defines capability role grants
type RoleRepository interface {
	Grant(ctx context.Context, address, role, grantedBy string) error
	Revoke(ctx context.Context, address, role string) error
	Has(ctx context.Context, address, role string) (bool, error)
	ListByAddress(ctx context.Context, address string) ([]string, error)
}

// TokenRepository defines the stablecoin ledger storage: supported tokens
// and per-(token, account) balances.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *models.SupportedToken) error
	GetToken(ctx context.Context, symbol string) (*models.SupportedToken, error)
	ListTokens(ctx context.Context) ([]*models.SupportedToken, error)
	UpdateToken(ctx context.Context, token *models.SupportedToken) error

	GetBalance(ctx context.Context, token, account string) (uint64, error)
	SetBalance(ctx context.Context, token, account string, balance uint64) error
	ListBalances(ctx context.Context, account string) ([]*models.TokenBalance, error)
}

// CreditRepository defines credit record storage
type CreditRepository interface {
	Create(ctx context.Context, record *models.CreditRecord) error
	GetByAddress(ctx context.Context, address string) (*models.CreditRecord, error)
	Update(ctx context.Context, record *models.CreditRecord) error
}

// LoanRepository defines loan storage. Create assigns the next monotonic id.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint64) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	ListByBorrower(ctx context.Context, borrower string) ([]*models.Loan, error)
	ListActiveDueBefore(ctx context.Context, deadline int64) ([]*models.Loan, error)
}

// PoolRepository defines pool account and position storage
type PoolRepository interface {
	GetAccount(ctx context.Context, token string) (*models.PoolAccount, error)
	SaveAccount(ctx context.Context, account *models.PoolAccount) error
	GetPosition(ctx context.Context, token, depositor string) (*models.PoolPosition, error)
	SavePosition(ctx context.Context, position *models.PoolPosition) error
}

// StreamRepository defines stream storage. Create assigns the next monotonic id.
type StreamRepository interface {
	Create(ctx context.Context, stream *models.Stream) error
	GetByID(ctx context.Context, id uint64) (*models.Stream, error)
	Update(ctx context.Context, stream *models.Stream) error
	ListByParticipant(ctx context.Context, address string) ([]*models.Stream, error)
}

// CircleRepository defines circle and membership storage. Create assigns the
// next monotonic id. ListMembers returns members ordered by join order.
type CircleRepository interface {
	Create(ctx context.Context, circle *models.Circle) error
	GetByID(ctx context.Context, id uint64) (*models.Circle, error)
	Update(ctx context.Context, circle *models.Circle) error
	ListByMember(ctx context.Context, address string) ([]*models.Circle, error)

	CreateMember(ctx context.Context, member *models.CircleMember) error
	GetMember(ctx context.Context, circleID uint64, address string) (*models.CircleMember, error)
	ListMembers(ctx context.Context, circleID uint64) ([]*models.CircleMember, error)
	UpdateMember(ctx context.Context, member *models.CircleMember) error
	CountMembers(ctx context.Context, circleID uint64) (int64, error)
}

// EventRepository defines the append-only event journal
type EventRepository interface {
	Append(ctx context.Context, event *models.LedgerEvent) error
	ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.LedgerEvent, int64, error)
	ListByEntity(ctx context.Context, eventType string, entityID uint64) ([]*models.LedgerEvent, error)
}
