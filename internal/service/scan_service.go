package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// RejectReason identifies why a scan was not accepted. Reasons are values,
// not errors: rejections are part of the normal kiosk conversation.
type RejectReason string

const (
	ReasonEmptyCode       RejectReason = "EMPTY_CODE"
	ReasonProductNotFound RejectReason = "PRODUCT_NOT_FOUND"
	ReasonWrongCategory   RejectReason = "WRONG_CATEGORY"
	ReasonDuplicateScan   RejectReason = "DUPLICATE_SCAN"
	ReasonLookupFailed    RejectReason = "LOOKUP_FAILED"
	ReasonScanInProgress  RejectReason = "SCAN_IN_PROGRESS"
	ReasonNoIdentity      RejectReason = "NO_IDENTITY"

	ReasonNotAnIdentifier RejectReason = "NOT_AN_IDENTIFIER"
	ReasonNonNumericLRN   RejectReason = "NON_NUMERIC_LRN"
	ReasonWrongLength     RejectReason = "WRONG_LENGTH"
	ReasonAlreadyCaptured RejectReason = "ALREADY_CAPTURED"
)

// ItemScanResult is the outcome of validating one deposited item.
type ItemScanResult struct {
	Accepted    bool         `json:"accepted"`
	Reason      RejectReason `json:"reason,omitempty"`
	ProductName string       `json:"productName,omitempty"`
	PointDelta  int          `json:"pointDelta,omitempty"`
}

// IdentityScanResult is the outcome of validating one identity QR payload.
type IdentityScanResult struct {
	Accepted bool         `json:"accepted"`
	Reason   RejectReason `json:"reason,omitempty"`
	LRN      string       `json:"lrn,omitempty"`
}

// DepositOutcome bundles a validated item scan with the ledger row it
// updated.
type DepositOutcome struct {
	Scan    ItemScanResult         `json:"scan"`
	Student *models.StudentAccount `json:"student,omitempty"`
}

// ProductLookup is the whitelist read needed by the validator.
type ProductLookup interface {
	GetByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// DuplicateGuard tracks recently accepted codes per scanning session.
type DuplicateGuard interface {
	// Seen reports whether code was accepted within the cool-down window.
	Seen(ctx context.Context, sessionID, code string) bool
	// Remember records an accepted code for the duration of the window.
	Remember(ctx context.Context, sessionID, code string, window time.Duration)
}

// Accruer is the slice of the ledger service the deposit chain needs.
type Accruer interface {
	Accrue(ctx context.Context, lrn, fullName string, pointsToAdd int, section *string, productName *string) (*models.StudentAccount, error)
}

// ScanService validates item and identity scans and drives the deposit chain.
type ScanService struct {
	products ProductLookup
	guard    DuplicateGuard
	ledger   Accruer
	sessions *SessionManager
	cooldown time.Duration
}

// NewScanService constructs a ScanService.
func NewScanService(products ProductLookup, guard DuplicateGuard, ledger Accruer, sessions *SessionManager, cooldown time.Duration) *ScanService {
	return &ScanService{
		products: products,
		guard:    guard,
		ledger:   ledger,
		sessions: sessions,
		cooldown: cooldown,
	}
}

// Sessions exposes the session manager for the HTTP layer.
func (s *ScanService) Sessions() *SessionManager {
	return s.sessions
}

// ValidateItemScan decides accept/reject for a raw decoded barcode. Only
// whitelisted bottles are accepted; the point delta comes from the whitelist
// row. The same literal code is not accepted twice inside the cool-down
// window, and that check runs before the whitelist lookup. A transient
// lookup failure is reported as LOOKUP_FAILED without recording the code, so
// rescanning the same item stays safe.
func (s *ScanService) ValidateItemScan(ctx context.Context, sess *ScanSession, code string) ItemScanResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return ItemScanResult{Reason: ReasonEmptyCode}
	}

	if s.guard.Seen(ctx, sess.ID, code) {
		return ItemScanResult{Reason: ReasonDuplicateScan}
	}

	product, err := s.products.GetByBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ItemScanResult{Reason: ReasonProductNotFound}
		}
		log.Error().Err(err).Str("barcode", code).Msg("whitelist lookup failed")
		return ItemScanResult{Reason: ReasonLookupFailed}
	}

	if product.Category != models.CategoryBottle {
		return ItemScanResult{Reason: ReasonWrongCategory, ProductName: product.Name}
	}

	s.guard.Remember(ctx, sess.ID, code, s.cooldown)
	return ItemScanResult{
		Accepted:    true,
		ProductName: product.Name,
		PointDelta:  product.PointsValue,
	}
}

// ValidateIdentityScan checks a decoded QR payload syntactically: URLs are
// photographed posters, anything non-numeric or not exactly 12 digits is not
// an LRN. An accepted LRN is delivered exactly once per session; later decode
// events of the same sticker are swallowed.
func (s *ScanService) ValidateIdentityScan(sess *ScanSession, payload string) IdentityScanResult {
	payload = strings.TrimSpace(payload)

	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return IdentityScanResult{Reason: ReasonNotAnIdentifier}
	}
	for _, r := range payload {
		if r < '0' || r > '9' {
			return IdentityScanResult{Reason: ReasonNonNumericLRN}
		}
	}
	if len(payload) != models.LRNLength {
		return IdentityScanResult{Reason: ReasonWrongLength}
	}

	if !sess.captureIdentity(payload) {
		return IdentityScanResult{Reason: ReasonAlreadyCaptured}
	}
	return IdentityScanResult{Accepted: true, LRN: payload}
}

// ProcessDeposit runs the full scan chain for one item: validate against the
// whitelist, then accrue points for the session's bound student. The
// session's in-flight flag is held across both steps, so a scan arriving
// while a prior accrual is still travelling to the database is dropped, not
// queued.
func (s *ScanService) ProcessDeposit(ctx context.Context, sessionID, code string) (*DepositOutcome, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	if !sess.tryBegin() {
		return &DepositOutcome{Scan: ItemScanResult{Reason: ReasonScanInProgress}}, nil
	}
	defer sess.end()

	lrn, fullName, section := sess.Identity()
	if lrn == "" {
		return &DepositOutcome{Scan: ItemScanResult{Reason: ReasonNoIdentity}}, nil
	}

	scan := s.ValidateItemScan(ctx, sess, code)
	if !scan.Accepted {
		return &DepositOutcome{Scan: scan}, nil
	}

	student, err := s.ledger.Accrue(ctx, lrn, fullName, scan.PointDelta, section, &scan.ProductName)
	if err != nil {
		// The tx rolled back: nothing was counted, the item can be rescanned
		// once the window lapses.
		return nil, err
	}
	return &DepositOutcome{Scan: scan, Student: student}, nil
}

// MemoryGuard is the in-process DuplicateGuard used for single-terminal
// deployments and tests. Entries expire by timestamp; a janitor is
// unnecessary because sessions are short and the map dies with them.
type MemoryGuard struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryGuard creates a MemoryGuard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (g *MemoryGuard) key(sessionID, code string) string {
	return sessionID + ":" + code
}

// Seen implements DuplicateGuard.
func (g *MemoryGuard) Seen(_ context.Context, sessionID, code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.expires[g.key(sessionID, code)]
	if !ok {
		return false
	}
	if g.now().After(exp) {
		delete(g.expires, g.key(sessionID, code))
		return false
	}
	return true
}

// Remember implements DuplicateGuard.
func (g *MemoryGuard) Remember(_ context.Context, sessionID, code string, window time.Duration) {
	g.mu.Lock()
	g.expires[g.key(sessionID, code)] = g.now().Add(window)
	g.mu.Unlock()
}
