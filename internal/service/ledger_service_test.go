package service

import (
	"context"
	"database/sql"
	"regexp"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// memoryLedger mimics the upsert and conditional-decrement behavior of the
// Postgres store under a single mutex.
type memoryLedger struct {
	mu       sync.Mutex
	accounts map[string]*models.StudentAccount
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{accounts: make(map[string]*models.StudentAccount)}
}

func (m *memoryLedger) GetByLRN(_ context.Context, lrn string) (*models.StudentAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.accounts[lrn]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *memoryLedger) Register(_ context.Context, lrn, fullName string, section *string) (*models.StudentAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[lrn]; ok {
		return nil, &pq.Error{Code: "23505"}
	}
	s := &models.StudentAccount{LRN: lrn, FullName: fullName, Section: section}
	m.accounts[lrn] = s
	cp := *s
	return &cp, nil
}

func (m *memoryLedger) AccruePoints(_ context.Context, lrn, fullName string, pointsToAdd int, section *string, _ *string) (*models.StudentAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.accounts[lrn]
	if !ok {
		s = &models.StudentAccount{LRN: lrn, FullName: fullName, Section: section}
		m.accounts[lrn] = s
	}
	s.PointsBalance += pointsToAdd
	if section != nil {
		s.Section = section
	}
	cp := *s
	return &cp, nil
}

func (m *memoryLedger) RedeemPoints(_ context.Context, lrn, _ string, rewardCost int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.accounts[lrn]
	if !ok || s.PointsBalance < rewardCost {
		return 0, sql.ErrNoRows
	}
	s.PointsBalance -= rewardCost
	return s.PointsBalance, nil
}

func newTestLedgerService(store LedgerStore) *LedgerService {
	return NewLedgerService(store, NewSectionService(nil))
}

func TestLookup_MapsNoRows(t *testing.T) {
	svc := newTestLedgerService(newMemoryLedger())

	_, err := svc.Lookup(context.Background(), "123456789012")
	assert.ErrorIs(t, err, utils.ErrStudentNotFound)
}

func TestRegister_DuplicateLRN(t *testing.T) {
	store := newMemoryLedger()
	svc := newTestLedgerService(store)

	_, err := svc.Register(context.Background(), "123456789012", "Juan Dela Cruz", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "123456789012", "Juan Dela Cruz", "")
	assert.ErrorIs(t, err, utils.ErrStudentExists)
}

func TestRegister_CorrectsSectionInput(t *testing.T) {
	store := newMemoryLedger()
	svc := NewLedgerService(store, NewSectionService([]string{"Prowess", "Valor"}))

	got, err := svc.Register(context.Background(), "123456789012", "Juan Dela Cruz", "valr")
	require.NoError(t, err)
	require.NotNil(t, got.Section)
	assert.Equal(t, "Valor", *got.Section)

	// Garbage input lands as null rather than a misspelled section.
	got, err = svc.Register(context.Background(), "123456789013", "Maria Clara", "xyzzy")
	require.NoError(t, err)
	assert.Nil(t, got.Section)
}

func TestAccrue_RejectsNonPositiveDelta(t *testing.T) {
	svc := newTestLedgerService(newMemoryLedger())

	_, err := svc.Accrue(context.Background(), "123456789012", "Juan Dela Cruz", 0, nil, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidPoints)

	_, err = svc.Accrue(context.Background(), "123456789012", "Juan Dela Cruz", -5, nil, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidPoints)
}

func TestAccrue_ConcurrentDepositsSum(t *testing.T) {
	store := newMemoryLedger()
	svc := newTestLedgerService(store)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Accrue(context.Background(), "123456789012", "Juan Dela Cruz", 1, nil, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetByLRN(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, workers, got.PointsBalance)
}

func TestRedeem_FastRejectOnStaleRead(t *testing.T) {
	svc := newTestLedgerService(newMemoryLedger())

	_, err := svc.Redeem(context.Background(), "123456789012", 10, "Eco Tumbler", 30)
	assert.ErrorIs(t, err, utils.ErrInsufficientPoints)
}

func TestRedeem_InsufficientAtWriteTime(t *testing.T) {
	store := newMemoryLedger()
	svc := newTestLedgerService(store)

	_, err := svc.Accrue(context.Background(), "123456789012", "Juan Dela Cruz", 10, nil, nil)
	require.NoError(t, err)

	// The kiosk read 50 but the ledger only holds 10: the conditional
	// decrement decides, not the stale read.
	_, err = svc.Redeem(context.Background(), "123456789012", 50, "Eco Tumbler", 30)
	assert.ErrorIs(t, err, utils.ErrInsufficientPoints)

	got, err := store.GetByLRN(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, 10, got.PointsBalance)
}

func TestRedeem_IssuesClaimCode(t *testing.T) {
	store := newMemoryLedger()
	svc := newTestLedgerService(store)

	_, err := svc.Accrue(context.Background(), "123456789012", "Juan Dela Cruz", 50, nil, nil)
	require.NoError(t, err)

	res, err := svc.Redeem(context.Background(), "123456789012", 50, "Eco Tumbler", 30)
	require.NoError(t, err)
	assert.Equal(t, 20, res.NewBalance)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), res.ClaimCode)
}

func TestRedeem_RejectsNonPositiveCost(t *testing.T) {
	svc := newTestLedgerService(newMemoryLedger())

	_, err := svc.Redeem(context.Background(), "123456789012", 100, "Eco Tumbler", 0)
	assert.ErrorIs(t, err, utils.ErrInvalidPoints)
}
