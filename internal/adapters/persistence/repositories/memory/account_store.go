package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// UserStore is the in-memory UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	users  map[uint]models.User
	nextID uint
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *UserStore) GetByAddress(_ context.Context, address string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Address == address {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) ExistsByAddress(_ context.Context, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Address == address {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// RefreshTokenStore is the in-memory RefreshTokenRepository, keyed by token hash.
type RefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	nextID uint
}

func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{tokens: make(map[string]models.RefreshToken)}
}

func (s *RefreshTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	token.ID = s.nextID
	token.CreatedAt = time.Now()
	s.tokens[token.TokenHash] = *token
	return nil
}

func (s *RefreshTokenStore) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &token, nil
}

func (s *RefreshTokenStore) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenHash]
	if !ok {
		return nil
	}
	if token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
		s.tokens[tokenHash] = token
	}
	return nil
}

func (s *RefreshTokenStore) RevokeAllByUserID(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for hash, token := range s.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			s.tokens[hash] = token
		}
	}
	return nil
}

func (s *RefreshTokenStore) DeleteExpired(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for hash, token := range s.tokens {
		if token.RevokedAt != nil || now.After(token.ExpiresAt) {
			delete(s.tokens, hash)
		}
	}
	return nil
}

type roleKey struct {
	Address string
	Role    string
}

// RoleStore is the in-memory RoleRepository.
type RoleStore struct {
	mu    sync.RWMutex
	roles map[roleKey]models.RoleGrant
}

func NewRoleStore() *RoleStore {
	return &RoleStore{roles: make(map[roleKey]models.RoleGrant)}
}

func (s *RoleStore) Grant(_ context.Context, address, role, grantedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roleKey{Address: address, Role: role}
	if _, ok := s.roles[key]; ok {
		return nil
	}
	s.roles[key] = models.RoleGrant{
		Address:   address,
		Role:      role,
		GrantedBy: grantedBy,
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *RoleStore) Revoke(_ context.Context, address, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, roleKey{Address: address, Role: role})
	return nil
}

func (s *RoleStore) Has(_ context.Context, address, role string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roles[roleKey{Address: address, Role: role}]
	return ok, nil
}

func (s *RoleStore) ListByAddress(_ context.Context, address string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var roles []string
	for key := range s.roles {
		if key.Address == address {
			roles = append(roles, key.Role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}
