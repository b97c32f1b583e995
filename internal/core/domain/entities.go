package domain

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusRepaid    LoanStatus = "REPAID"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// Terminal reports whether the loan can no longer change state.
func (s LoanStatus) Terminal() bool {
	return s == LoanStatusRepaid || s == LoanStatusDefaulted
}

// CircleType distinguishes the two savings circle variants.
type CircleType string

const (
	// CircleTypeAjo pays each cycle's full pot to one member, rotating by
	// join order.
	CircleTypeAjo CircleType = "AJO"
	// CircleTypeEsusu redistributes each cycle's pot equally to every member.
	CircleTypeEsusu CircleType = "ESUSU"
)

// Valid reports whether t is a known circle type.
func (t CircleType) Valid() bool {
	return t == CircleTypeAjo || t == CircleTypeEsusu
}

// MemberStatus is a circle member's contribution state for the current cycle.
type MemberStatus string

const (
	MemberStatusPending MemberStatus = "PENDING"
	MemberStatusPaid    MemberStatus = "PAID"
)
