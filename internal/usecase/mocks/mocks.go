package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository backed
// by an in-memory map. Conditional update semantics match the real
// repository: a missing row fails with ErrAffectedRows.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByUIDFunc          func(ctx context.Context, uid int64) (*domain.Account, error)
	GetByUIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, uid int64) (*domain.Account, error)
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

// Seed stores an account directly, bypassing the Create hook.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.UID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.UID] = account
	return nil
}

func (m *MockAccountRepository) GetByUID(ctx context.Context, uid int64) (*domain.Account, error) {
	if m.GetByUIDFunc != nil {
		return m.GetByUIDFunc(ctx, uid)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[uid]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUIDForUpdate(ctx context.Context, tx usecase.Transaction, uid int64) (*domain.Account, error) {
	if m.GetByUIDForUpdateFunc != nil {
		return m.GetByUIDForUpdateFunc(ctx, tx, uid)
	}
	return m.GetByUID(ctx, uid)
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.UID]; !ok {
		return fmt.Errorf("account %d: %w", account.UID, domain.ErrAffectedRows)
	}
	copied := *account
	m.accounts[account.UID] = &copied
	return nil
}

// MockInstructionRepository is a mock implementation of InstructionRepository.
// MarkUsed and Reopen carry the conditional-update semantics of the real
// repository.
type MockInstructionRepository struct {
	mu           sync.RWMutex
	instructions map[string]*domain.Instruction

	CreateFunc       func(ctx context.Context, instruction *domain.Instruction) error
	GetFunc          func(ctx context.Context, listID string) (*domain.Instruction, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, listID string) (*domain.Instruction, error)
	MarkUsedFunc     func(ctx context.Context, tx usecase.Transaction, listID string) error
	ReopenFunc       func(ctx context.Context, instruction *domain.Instruction) error
}

func NewMockInstructionRepository() *MockInstructionRepository {
	return &MockInstructionRepository{
		instructions: make(map[string]*domain.Instruction),
	}
}

// Stored returns the stored instruction, or nil.
func (m *MockInstructionRepository) Stored(listID string) *domain.Instruction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instructions[listID]
}

func (m *MockInstructionRepository) Create(ctx context.Context, instruction *domain.Instruction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, instruction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *instruction
	m.instructions[instruction.ListID] = &copied
	return nil
}

func (m *MockInstructionRepository) Get(ctx context.Context, listID string) (*domain.Instruction, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, listID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ins, ok := m.instructions[listID]; ok {
		copied := *ins
		return &copied, nil
	}
	return nil, domain.ErrInstructionNotFound
}

func (m *MockInstructionRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, listID string) (*domain.Instruction, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, listID)
	}
	return m.Get(ctx, listID)
}

func (m *MockInstructionRepository) MarkUsed(ctx context.Context, tx usecase.Transaction, listID string) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, tx, listID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, ok := m.instructions[listID]
	if !ok || ins.State != domain.StateBefore || ins.RecordState != domain.RecordStateCommitted {
		return fmt.Errorf("instruction %s mark used: %w", listID, domain.ErrAffectedRows)
	}
	ins.State = domain.StateAfter
	ins.ModifiedAt = time.Now().UTC()
	return nil
}

func (m *MockInstructionRepository) Reopen(ctx context.Context, instruction *domain.Instruction) error {
	if m.ReopenFunc != nil {
		return m.ReopenFunc(ctx, instruction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, ok := m.instructions[instruction.ListID]
	if !ok || ins.State != domain.StateAfter || ins.RecordState != domain.RecordStateCommitted {
		return fmt.Errorf("instruction %s reopen: %w", instruction.ListID, domain.ErrAffectedRows)
	}
	ins.Type = instruction.Type
	ins.State = domain.StateBefore
	ins.Signature = instruction.Signature
	ins.ModifiedAt = time.Now().UTC()
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.JournalEntry

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	ListByAccountFunc     func(ctx context.Context, uid int64, limit, offset int) ([]*domain.JournalEntry, error)
	ListByInstructionFunc func(ctx context.Context, listID string) ([]*domain.JournalEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// All returns every recorded entry in booking order.
func (m *MockEntryRepository) All() []*domain.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.JournalEntry(nil), m.entries...)
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, uid int64, limit, offset int) ([]*domain.JournalEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, uid, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if e.UID == uid {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByInstruction(ctx context.Context, listID string) ([]*domain.JournalEntry, error) {
	if m.ListByInstructionFunc != nil {
		return m.ListByInstructionFunc(ctx, listID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if e.ListID == listID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	ControlTotalsFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) ControlTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.ControlTotalsFunc != nil {
		return m.ControlTotalsFunc(ctx)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
