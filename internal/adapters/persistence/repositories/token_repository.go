package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) CreateToken(ctx context.Context, token *models.SupportedToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetToken(ctx context.Context, symbol string) (*models.SupportedToken, error) {
	var token models.SupportedToken
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotSupported
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) ListTokens(ctx context.Context) ([]*models.SupportedToken, error) {
	var tokens []*models.SupportedToken
	err := r.db.WithContext(ctx).Order("symbol").Find(&tokens).Error
	return tokens, err
}

func (r *tokenRepository) UpdateToken(ctx context.Context, token *models.SupportedToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

func (r *tokenRepository) GetBalance(ctx context.Context, token, account string) (uint64, error) {
	var balance models.TokenBalance
	err := r.db.WithContext(ctx).
		Where("token = ? AND account = ?", token, account).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.Balance, nil
}

func (r *tokenRepository) SetBalance(ctx context.Context, token, account string, amount uint64) error {
	balance := &models.TokenBalance{
		Token:   token,
		Account: account,
		Balance: amount,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}, {Name: "account"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance"}),
		}).
		Create(balance).Error
}

func (r *tokenRepository) ListBalances(ctx context.Context, account string) ([]*models.TokenBalance, error) {
	var balances []*models.TokenBalance
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Order("token").
		Find(&balances).Error
	return balances, err
}
