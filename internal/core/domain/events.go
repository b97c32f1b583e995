package domain

// EventType identifies a ledger state transition in the journal. Off-chain
// indexers and the mobile app consume these; one event is appended per
// committed transition.
type EventType string

const (
	EventLoanRequested    EventType = "LoanRequested"
	EventLoanFunded       EventType = "LoanFunded"
	EventLoanRepayment    EventType = "LoanRepayment"
	EventLoanDefaulted    EventType = "LoanDefaulted"
	EventLoanRecorded     EventType = "LoanRecorded"
	EventLoanCompleted    EventType = "LoanCompleted"
	EventPoolDeposit      EventType = "PoolDeposit"
	EventPoolWithdrawal   EventType = "PoolWithdrawal"
	EventStreamCreated    EventType = "StreamCreated"
	EventStreamWithdrawn  EventType = "StreamWithdrawn"
	EventStreamPaused     EventType = "StreamPaused"
	EventStreamResumed    EventType = "StreamResumed"
	EventStreamCancelled  EventType = "StreamCancelled"
	EventCircleCreated    EventType = "CircleCreated"
	EventMemberJoined     EventType = "MemberJoined"
	EventContributionMade EventType = "ContributionMade"
	EventCyclePayout      EventType = "CyclePayout"
	EventTransfer         EventType = "Transfer"
	EventTokenMinted      EventType = "TokenMinted"
)
