package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

type balanceKey struct {
	Token   string
	Account string
}

// TokenStore is the in-memory TokenRepository: supported tokens plus
// per-(token, account) balances.
type TokenStore struct {
	mu       sync.RWMutex
	tokens   map[string]models.SupportedToken
	balances map[balanceKey]uint64
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens:   make(map[string]models.SupportedToken),
		balances: make(map[balanceKey]uint64),
	}
}

func (s *TokenStore) CreateToken(_ context.Context, token *models.SupportedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.ID = uint(len(s.tokens) + 1)
	token.CreatedAt = time.Now()
	s.tokens[token.Symbol] = *token
	return nil
}

func (s *TokenStore) GetToken(_ context.Context, symbol string) (*models.SupportedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[symbol]
	if !ok {
		return nil, domain.ErrTokenNotSupported
	}
	return &token, nil
}

func (s *TokenStore) ListTokens(_ context.Context) ([]*models.SupportedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	symbols := make([]string, 0, len(s.tokens))
	for symbol := range s.tokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	tokens := make([]*models.SupportedToken, 0, len(symbols))
	for _, symbol := range symbols {
		token := s.tokens[symbol]
		tokens = append(tokens, &token)
	}
	return tokens, nil
}

func (s *TokenStore) UpdateToken(_ context.Context, token *models.SupportedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Symbol]; !ok {
		return domain.ErrTokenNotSupported
	}
	s.tokens[token.Symbol] = *token
	return nil
}

func (s *TokenStore) GetBalance(_ context.Context, token, account string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[balanceKey{Token: token, Account: account}], nil
}

func (s *TokenStore) SetBalance(_ context.Context, token, account string, balance uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{Token: token, Account: account}] = balance
	return nil
}

func (s *TokenStore) ListBalances(_ context.Context, account string) ([]*models.TokenBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var balances []*models.TokenBalance
	for key, amount := range s.balances {
		if key.Account == account {
			balances = append(balances, &models.TokenBalance{
				Token:   key.Token,
				Account: key.Account,
				Balance: amount,
			})
		}
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Token < balances[j].Token })
	return balances, nil
}

// EventStore is the in-memory EventRepository, an append-only slice.
type EventStore struct {
	mu     sync.RWMutex
	events []models.LedgerEvent
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(_ context.Context, event *models.LedgerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = uint(len(s.events) + 1)
	event.CreatedAt = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *EventStore) ListByAccount(_ context.Context, account string, offset, limit int) ([]*models.LedgerEvent, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*models.LedgerEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Account == account {
			event := s.events[i]
			matched = append(matched, &event)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *EventStore) ListByEntity(_ context.Context, eventType string, entityID uint64) ([]*models.LedgerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*models.LedgerEvent
	for i := range s.events {
		if string(s.events[i].Type) == eventType && s.events[i].EntityID == entityID {
			event := s.events[i]
			matched = append(matched, &event)
		}
	}
	return matched, nil
}
