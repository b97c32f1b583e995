package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// ============================================================
// Accounts & authorization
// ============================================================

// User represents the users table. Address is the wallet address used as the
// account identifier by every engine.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Address   string         `gorm:"uniqueIndex;size:64;not null" json:"address"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Address   string    `json:"address"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Address:   u.Address,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// RoleGrant represents role_grants: one row per (address, capability role).
type RoleGrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"size:64;not null;uniqueIndex:idx_role_grant" json:"address"`
	Role      string    `gorm:"size:32;not null;uniqueIndex:idx_role_grant" json:"role"`
	GrantedBy string    `gorm:"size:64" json:"granted_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RoleGrant) TableName() string {
	return "role_grants"
}

// ============================================================
// Stablecoin ledger
// ============================================================

// SupportedToken represents supported_tokens (cUSD, cNGN, ...)
type SupportedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"uniqueIndex;size:16;not null" json:"symbol"`
	Name      string    `gorm:"size:64" json:"name"`
	Decimals  uint8     `gorm:"default:18" json:"decimals"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SupportedToken) TableName() string {
	return "supported_tokens"
}

// TokenBalance represents token_balances: custodial balance per (token, account).
// Amounts are unsigned base units.
type TokenBalance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:16;not null;uniqueIndex:idx_token_account" json:"token"`
	Account   string    `gorm:"size:64;not null;uniqueIndex:idx_token_account" json:"account"`
	Balance   uint64    `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenBalance) TableName() string {
	return "token_balances"
}

// ============================================================
// Credit scoring
// ============================================================

// CreditRecord represents credit_records. Created lazily on first repayment,
// never deleted. Score stays within [0, MaxCreditScore].
type CreditRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Address         string    `gorm:"uniqueIndex;size:64;not null" json:"address"`
	Score           uint64    `gorm:"not null" json:"score"`
	TotalLoans      uint64    `gorm:"not null;default:0" json:"total_loans"`
	CompletedLoans  uint64    `gorm:"not null;default:0" json:"completed_loans"`
	LastRepaymentAt int64     `gorm:"not null;default:0" json:"last_repayment_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CreditRecord) TableName() string {
	return "credit_records"
}

// ============================================================
// Lending
// ============================================================

// Loan represents loans. Lender stays empty until funding, and permanently
// for pool loans. Timestamps are unix seconds.
type Loan struct {
	ID              uint64            `gorm:"primaryKey" json:"id"`
	Borrower        string            `gorm:"size:64;index;not null" json:"borrower"`
	Lender          string            `gorm:"size:64;index" json:"lender"`
	Token           string            `gorm:"size:16;not null" json:"token"`
	Principal       uint64            `gorm:"not null" json:"principal"`
	InterestRateBps uint64            `gorm:"not null" json:"interest_rate_bps"`
	DurationSeconds int64             `gorm:"not null" json:"duration_seconds"`
	FundedAt        int64             `gorm:"not null;default:0" json:"funded_at"`
	RepaidAmount    uint64            `gorm:"not null;default:0" json:"repaid_amount"`
	Status          domain.LoanStatus `gorm:"size:16;index;not null" json:"status"`
	IsPoolLoan      bool              `gorm:"default:false" json:"is_pool_loan"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// PoolAccount represents pool_accounts, one per token.
type PoolAccount struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Token          string    `gorm:"uniqueIndex;size:16;not null" json:"token"`
	TotalDeposited uint64    `gorm:"not null;default:0" json:"total_deposited"`
	TotalBorrowed  uint64    `gorm:"not null;default:0" json:"total_borrowed"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PoolAccount) TableName() string {
	return "pool_accounts"
}

// Available is the undeployed portion of the pool.
func (p *PoolAccount) Available() uint64 {
	if p.TotalBorrowed >= p.TotalDeposited {
		return 0
	}
	return p.TotalDeposited - p.TotalBorrowed
}

// PoolPosition represents pool_positions: a depositor's share in a token pool.
type PoolPosition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:16;not null;uniqueIndex:idx_pool_position" json:"token"`
	Depositor string    `gorm:"size:64;not null;uniqueIndex:idx_pool_position" json:"depositor"`
	Amount    uint64    `gorm:"not null;default:0" json:"amount"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PoolPosition) TableName() string {
	return "pool_positions"
}

// ============================================================
// Streaming
// ============================================================

// Stream represents streams. StartTime/PausedAt are unix seconds;
// accrual excludes AccumulatedPausedSeconds.
type Stream struct {
	ID                       uint64    `gorm:"primaryKey" json:"id"`
	Payer                    string    `gorm:"size:64;index;not null" json:"payer"`
	Recipient                string    `gorm:"size:64;index;not null" json:"recipient"`
	Token                    string    `gorm:"size:16;not null" json:"token"`
	RatePerSecond            uint64    `gorm:"not null" json:"rate_per_second"`
	StartTime                int64     `gorm:"not null" json:"start_time"`
	DurationSeconds          int64     `gorm:"not null" json:"duration_seconds"`
	TotalDeposit             uint64    `gorm:"not null" json:"total_deposit"`
	Withdrawn                uint64    `gorm:"not null;default:0" json:"withdrawn"`
	IsActive                 bool      `gorm:"default:true;index" json:"is_active"`
	PausedAt                 *int64    `json:"paused_at"`
	AccumulatedPausedSeconds int64     `gorm:"not null;default:0" json:"accumulated_paused_seconds"`
	CreatedAt                time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stream) TableName() string {
	return "streams"
}

// IsPaused reports whether accrual is currently frozen.
func (s *Stream) IsPaused() bool {
	return s.PausedAt != nil
}

// ============================================================
// Savings circles
// ============================================================

// Circle represents circles. CurrentCycle starts at 1; the circle is
// completed once CurrentCycle > TotalCycles.
type Circle struct {
	ID                    uint64            `gorm:"primaryKey" json:"id"`
	Name                  string            `gorm:"size:100;not null" json:"name"`
	CircleType            domain.CircleType `gorm:"size:16;not null" json:"circle_type"`
	Token                 string            `gorm:"size:16;not null" json:"token"`
	ContributionAmount    uint64            `gorm:"not null" json:"contribution_amount"`
	ContributionFrequency int64             `gorm:"not null" json:"contribution_frequency_seconds"`
	MaxMembers            int               `gorm:"not null" json:"max_members"`
	TotalCycles           uint64            `gorm:"not null" json:"total_cycles"`
	CurrentCycle          uint64            `gorm:"not null;default:1" json:"current_cycle"`
	Creator               string            `gorm:"size:64;index;not null" json:"creator"`
	Completed             bool              `gorm:"default:false" json:"completed"`
	CreatedAt             time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Circle) TableName() string {
	return "circles"
}

// CircleMember represents circle_members, ordered by JoinOrder within a circle.
type CircleMember struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	CircleID      uint64              `gorm:"not null;uniqueIndex:idx_circle_member" json:"circle_id"`
	Address       string              `gorm:"size:64;not null;uniqueIndex:idx_circle_member" json:"address"`
	JoinOrder     int                 `gorm:"not null" json:"join_order"`
	Status        domain.MemberStatus `gorm:"size:16;not null" json:"status"`
	LastPaidCycle uint64              `gorm:"not null;default:0" json:"last_paid_cycle"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CircleMember) TableName() string {
	return "circle_members"
}

// ============================================================
// Event journal
// ============================================================

// LedgerEvent represents ledger_events, the append-only journal of engine
// state transitions.
type LedgerEvent struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	EventID   string           `gorm:"uniqueIndex;size:36;not null" json:"event_id"`
	Type      domain.EventType `gorm:"size:32;index;not null" json:"type"`
	EntityID  uint64           `gorm:"index" json:"entity_id"`
	Account   string           `gorm:"size:64;index" json:"account"`
	Token     string           `gorm:"size:16" json:"token"`
	Amount    uint64           `json:"amount"`
	Payload   string           `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&RoleGrant{},
		&SupportedToken{},
		&TokenBalance{},
		&CreditRecord{},
		&Loan{},
		&PoolAccount{},
		&PoolPosition{},
		&Stream{},
		&Circle{},
		&CircleMember{},
		&LedgerEvent{},
	)
}
