package domain

import "errors"

// Validation errors - rejected before any state mutation or transfer
var (
	ErrInvalidAmount       = errors.New("amount is out of bounds")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInvalidDuration     = errors.New("duration is out of bounds")
	ErrRateTooLow          = errors.New("rate per second too low")
	ErrNameRequired        = errors.New("name required")
	ErrInvalidMemberBounds = errors.New("member count is out of bounds")
	ErrInvalidContribution = errors.New("contribution amount too low")
	ErrInvalidCircleType   = errors.New("unknown circle type")
	ErrInvalidCycleCount   = errors.New("total cycles must be at least 1")
)

// Authorization errors - rejected with no side effects
var (
	ErrUnauthorized    = errors.New("caller lacks the required role")
	ErrNotAMember      = errors.New("not a member of this circle")
	ErrNotTheRecipient = errors.New("not the stream recipient")
	ErrNotThePayer     = errors.New("not the stream payer")
)

// State-conflict errors - caller-side logic error or race
var (
	ErrCircleFull         = errors.New("circle full")
	ErrAlreadyMember      = errors.New("already a member of this circle")
	ErrAlreadyContributed = errors.New("already contributed this cycle")
	ErrCircleCompleted    = errors.New("circle has completed all cycles")
	ErrLoanNotPending     = errors.New("loan is not pending")
	ErrLoanNotActive      = errors.New("loan is not active")
	ErrStreamNotActive    = errors.New("stream is not active")
	ErrStreamPaused       = errors.New("stream is already paused")
	ErrStreamNotPaused    = errors.New("stream is not paused")
)

// Resource errors - infeasible now, may succeed later
var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInsufficientAllowance   = errors.New("insufficient allowance")
	ErrInsufficientDeposit     = errors.New("deposit does not cover rate x duration")
	ErrInsufficientPoolBalance = errors.New("insufficient pool balance")
	ErrInsufficientCreditScore = errors.New("insufficient credit score")
	ErrTokenNotSupported       = errors.New("token not supported")
	ErrTransferFailed          = errors.New("value transfer failed")
)

// Lookup errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
