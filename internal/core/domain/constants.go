package domain

// Ledger-wide numeric constants. These are part of the product's financial
// rules and must not be made configurable.
const (
	// Lending
	MinLoanAmount          uint64 = 1
	MaxLoanAmount          uint64 = 100000
	DefaultInterestRateBps uint64 = 1200 // 12%
	BpsDenominator         uint64 = 10000
	// MaxLoanDuration keeps principal*rate*elapsed well inside uint64.
	MaxLoanDuration int64 = 315360000 // 10 years

	// Streaming (seconds)
	MinStreamDuration int64  = 86400    // 1 day
	MaxStreamDuration int64  = 31536000 // 365 days
	MinRatePerSecond  uint64 = 1

	// Circles
	MinContribution uint64 = 1
	MinMembers      int    = 2
	MaxMembers      int    = 50

	// Credit scoring
	MaxCreditScore     uint64 = 10000
	InitialCreditScore uint64 = 5000
	ActivityBonus      uint64 = 500 // one-time, on first-ever repayment
	OnTimeBonus        uint64 = 50
	DefaultPenalty     uint64 = 500 // applied on unsuccessful loan completion
)

// Capability roles checked by the engines.
const (
	RoleAdmin            = "ADMIN"
	RoleLender           = "LENDER"
	RoleAuthorizedCaller = "AUTHORIZED_CALLER"
	RoleUser             = "USER"
)

// Module identities. Engine-owned escrow balances and the lending engine's
// calls into the credit engine run under these accounts; the seeder grants
// ModuleLending the AUTHORIZED_CALLER role.
const (
	EscrowStreams = "escrow:streams"
	EscrowCircles = "escrow:circles"
	EscrowLoans   = "escrow:loans"
	ModuleLending = "module:lending"
)
