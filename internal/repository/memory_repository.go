package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resumekit/cv-service/internal/domain"
)

// MemoryStore keeps accounts and CVs in process memory. It backs local runs
// without POSTGRES_DSN and the service tests, and enforces the same unique
// constraints as the SQL schema.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	emails   map[string]string
	cvs      map[string]*domain.CV
	primary  map[string]string
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*domain.Account),
		emails:   make(map[string]string),
		cvs:      make(map[string]*domain.CV),
		primary:  make(map[string]string),
		now:      time.Now,
	}
}

// Accounts exposes the store as an AccountRepository.
func (m *MemoryStore) Accounts() AccountRepository { return memoryAccounts{m} }

// CVs exposes the store as a CVRepository.
func (m *MemoryStore) CVs() CVRepository { return memoryCVs{m} }

type memoryAccounts struct{ m *MemoryStore }

func (r memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[account.Email]; exists {
		return ErrDuplicate
	}
	now := m.now()
	account.ID = uuid.NewString()
	account.CreatedAt, account.UpdatedAt = now, now

	stored := *account
	m.accounts[stored.ID] = &stored
	m.emails[stored.Email] = stored.ID
	return nil
}

func (r memoryAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *acc
	return &out, nil
}

func (r memoryAccounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.m.mu.RLock()
	id, ok := r.m.emails[email]
	r.m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type memoryCVs struct{ m *MemoryStore }

func (r memoryCVs) GetByID(_ context.Context, id string) (*domain.CV, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	cv, ok := m.cvs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cv.Clone(), nil
}

func (r memoryCVs) GetPrimary(ctx context.Context, ownerID string) (*domain.CV, error) {
	r.m.mu.RLock()
	id, ok := r.m.primary[ownerID]
	r.m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r memoryCVs) UpsertPrimary(_ context.Context, cv *domain.CV) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cv.Kind = domain.CVKindPrimary
	if id, ok := m.primary[cv.OwnerID]; ok {
		cv.ID = id
		cv.CreatedAt = m.cvs[id].CreatedAt
	} else {
		cv.ID = uuid.NewString()
		cv.CreatedAt = now
		m.primary[cv.OwnerID] = cv.ID
	}
	cv.UpdatedAt = now
	assignChildIDs(cv)
	m.cvs[cv.ID] = cv.Clone()
	return nil
}

func (r memoryCVs) CreateSnapshot(_ context.Context, cv *domain.CV) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cv.ID = uuid.NewString()
	cv.Kind = domain.CVKindSnapshot
	cv.CreatedAt, cv.UpdatedAt = now, now
	assignChildIDs(cv)
	m.cvs[cv.ID] = cv.Clone()
	return nil
}

func (r memoryCVs) DeleteSnapshot(_ context.Context, id, ownerID string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	cv, ok := m.cvs[id]
	if !ok || cv.OwnerID != ownerID || cv.Kind != domain.CVKindSnapshot {
		return ErrNotFound
	}
	delete(m.cvs, id)
	return nil
}

func assignChildIDs(cv *domain.CV) {
	for i := range cv.Education {
		cv.Education[i].ID = uuid.NewString()
	}
	for i := range cv.Skills {
		cv.Skills[i].ID = uuid.NewString()
	}
	for i := range cv.Experience {
		cv.Experience[i].ID = uuid.NewString()
	}
	for i := range cv.Projects {
		cv.Projects[i].ID = uuid.NewString()
	}
}
