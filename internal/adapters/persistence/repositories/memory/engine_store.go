package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/models"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// CreditStore is the in-memory CreditRepository, keyed by address.
type CreditStore struct {
	mu      sync.RWMutex
	records map[string]models.CreditRecord
}

func NewCreditStore() *CreditStore {
	return &CreditStore{records: make(map[string]models.CreditRecord)}
}

func (s *CreditStore) Create(_ context.Context, record *models.CreditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = uint(len(s.records) + 1)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	s.records[record.Address] = *record
	return nil
}

func (s *CreditStore) GetByAddress(_ context.Context, address string) (*models.CreditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

func (s *CreditStore) Update(_ context.Context, record *models.CreditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Address]; !ok {
		return domain.ErrNotFound
	}
	record.UpdatedAt = time.Now()
	s.records[record.Address] = *record
	return nil
}

// LoanStore is the in-memory LoanRepository with a monotonic id counter.
type LoanStore struct {
	mu     sync.RWMutex
	loans  map[uint64]models.Loan
	nextID uint64
}

func NewLoanStore() *LoanStore {
	return &LoanStore{loans: make(map[uint64]models.Loan)}
}

func (s *LoanStore) Create(_ context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	loan.ID = s.nextID
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	s.loans[loan.ID] = *loan
	return nil
}

func (s *LoanStore) GetByID(_ context.Context, id uint64) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &loan, nil
}

func (s *LoanStore) Update(_ context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[loan.ID]; !ok {
		return domain.ErrNotFound
	}
	loan.UpdatedAt = time.Now()
	s.loans[loan.ID] = *loan
	return nil
}

func (s *LoanStore) ListByBorrower(_ context.Context, borrower string) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var loans []*models.Loan
	for id := s.nextID; id >= 1; id-- {
		if loan, ok := s.loans[id]; ok && loan.Borrower == borrower {
			l := loan
			loans = append(loans, &l)
		}
	}
	return loans, nil
}

func (s *LoanStore) ListActiveDueBefore(_ context.Context, deadline int64) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var loans []*models.Loan
	for id := uint64(1); id <= s.nextID; id++ {
		loan, ok := s.loans[id]
		if !ok {
			continue
		}
		if loan.Status == domain.LoanStatusActive && loan.FundedAt+loan.DurationSeconds < deadline {
			l := loan
			loans = append(loans, &l)
		}
	}
	return loans, nil
}

// PoolStore is the in-memory PoolRepository.
type PoolStore struct {
	mu        sync.RWMutex
	accounts  map[string]models.PoolAccount
	positions map[balanceKey]models.PoolPosition
}

func NewPoolStore() *PoolStore {
	return &PoolStore{
		accounts:  make(map[string]models.PoolAccount),
		positions: make(map[balanceKey]models.PoolPosition),
	}
}

func (s *PoolStore) GetAccount(_ context.Context, token string) (*models.PoolAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[token]
	if !ok {
		return &models.PoolAccount{Token: token}, nil
	}
	return &account, nil
}

func (s *PoolStore) SaveAccount(_ context.Context, account *models.PoolAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == 0 {
		account.ID = uint(len(s.accounts) + 1)
	}
	account.UpdatedAt = time.Now()
	s.accounts[account.Token] = *account
	return nil
}

func (s *PoolStore) GetPosition(_ context.Context, token, depositor string) (*models.PoolPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[balanceKey{Token: token, Account: depositor}]
	if !ok {
		return &models.PoolPosition{Token: token, Depositor: depositor}, nil
	}
	return &position, nil
}

func (s *PoolStore) SavePosition(_ context.Context, position *models.PoolPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position.ID == 0 {
		position.ID = uint(len(s.positions) + 1)
	}
	position.UpdatedAt = time.Now()
	s.positions[balanceKey{Token: position.Token, Account: position.Depositor}] = *position
	return nil
}

// StreamStore is the in-memory StreamRepository with a monotonic id counter.
type StreamStore struct {
	mu      sync.RWMutex
	streams map[uint64]models.Stream
	nextID  uint64
}

func NewStreamStore() *StreamStore {
	return &StreamStore{streams: make(map[uint64]models.Stream)}
}

func (s *StreamStore) Create(_ context.Context, stream *models.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stream.ID = s.nextID
	stream.CreatedAt = time.Now()
	stream.UpdatedAt = stream.CreatedAt
	s.streams[stream.ID] = *stream
	return nil
}

func (s *StreamStore) GetByID(_ context.Context, id uint64) (*models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream, ok := s.streams[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &stream, nil
}

func (s *StreamStore) Update(_ context.Context, stream *models.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.streams[stream.ID]; !ok {
		return domain.ErrNotFound
	}
	stream.UpdatedAt = time.Now()
	s.streams[stream.ID] = *stream
	return nil
}

func (s *StreamStore) ListByParticipant(_ context.Context, address string) ([]*models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var streams []*models.Stream
	for id := s.nextID; id >= 1; id-- {
		if stream, ok := s.streams[id]; ok && (stream.Payer == address || stream.Recipient == address) {
			st := stream
			streams = append(streams, &st)
		}
	}
	return streams, nil
}

type memberKey struct {
	CircleID uint64
	Address  string
}

// CircleStore is the in-memory CircleRepository covering circles and members.
type CircleStore struct {
	mu      sync.RWMutex
	circles map[uint64]models.Circle
	members map[memberKey]models.CircleMember
	nextID  uint64
}

func NewCircleStore() *CircleStore {
	return &CircleStore{
		circles: make(map[uint64]models.Circle),
		members: make(map[memberKey]models.CircleMember),
	}
}

func (s *CircleStore) Create(_ context.Context, circle *models.Circle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	circle.ID = s.nextID
	circle.CreatedAt = time.Now()
	circle.UpdatedAt = circle.CreatedAt
	s.circles[circle.ID] = *circle
	return nil
}

func (s *CircleStore) GetByID(_ context.Context, id uint64) (*models.Circle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	circle, ok := s.circles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &circle, nil
}

func (s *CircleStore) Update(_ context.Context, circle *models.Circle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.circles[circle.ID]; !ok {
		return domain.ErrNotFound
	}
	circle.UpdatedAt = time.Now()
	s.circles[circle.ID] = *circle
	return nil
}

func (s *CircleStore) ListByMember(_ context.Context, address string) ([]*models.Circle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var circles []*models.Circle
	for id := s.nextID; id >= 1; id-- {
		if _, ok := s.members[memberKey{CircleID: id, Address: address}]; !ok {
			continue
		}
		if circle, ok := s.circles[id]; ok {
			c := circle
			circles = append(circles, &c)
		}
	}
	return circles, nil
}

func (s *CircleStore) CreateMember(_ context.Context, member *models.CircleMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	member.ID = uint(len(s.members) + 1)
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	s.members[memberKey{CircleID: member.CircleID, Address: member.Address}] = *member
	return nil
}

func (s *CircleStore) GetMember(_ context.Context, circleID uint64, address string) (*models.CircleMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[memberKey{CircleID: circleID, Address: address}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &member, nil
}

func (s *CircleStore) ListMembers(_ context.Context, circleID uint64) ([]*models.CircleMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []*models.CircleMember
	for key, member := range s.members {
		if key.CircleID == circleID {
			m := member
			members = append(members, &m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].JoinOrder < members[j].JoinOrder })
	return members, nil
}

func (s *CircleStore) UpdateMember(_ context.Context, member *models.CircleMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memberKey{CircleID: member.CircleID, Address: member.Address}
	if _, ok := s.members[key]; !ok {
		return domain.ErrNotFound
	}
	member.UpdatedAt = time.Now()
	s.members[key] = *member
	return nil
}

func (s *CircleStore) CountMembers(_ context.Context, circleID uint64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for key := range s.members {
		if key.CircleID == circleID {
			count++
		}
	}
	return count, nil
}
