package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) GetByID(ctx context.Context, id uint64) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) ListByBorrower(ctx context.Context, borrower string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("borrower = ?", borrower).
		Order("id DESC").
		Find(&loans).Error
	return loans, err
}

// ListActiveDueBefore returns active loans whose term ended before deadline.
func (r *loanRepository) ListActiveDueBefore(ctx context.Context, deadline int64) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND funded_at + duration_seconds < ?", domain.LoanStatusActive, deadline).
		Find(&loans).Error
	return loans, err
}
