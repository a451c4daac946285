package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

type fakeProducts struct {
	byBarcode map[string]*models.Product
	err       error
}

func (f *fakeProducts) GetByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byBarcode[barcode]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type fakeAccruer struct {
	calls   int
	lastLRN string
	student *models.StudentAccount
	err     error
}

func (f *fakeAccruer) Accrue(_ context.Context, lrn, fullName string, pointsToAdd int, section *string, productName *string) (*models.StudentAccount, error) {
	f.calls++
	f.lastLRN = lrn
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

func testWhitelist() map[string]*models.Product {
	return map[string]*models.Product{
		"4800016641503": {Barcode: "4800016641503", Name: "Water Bottle 500ml", Category: models.CategoryBottle, PointsValue: 1},
		"4800016641504": {Barcode: "4800016641504", Name: "Corn Chips", Category: models.CategorySnack, PointsValue: 1},
	}
}

func newTestScanService(products *fakeProducts, ledger *fakeAccruer) (*ScanService, *SessionManager) {
	mgr := NewSessionManager(time.Minute)
	svc := NewScanService(products, NewMemoryGuard(), ledger, mgr, 3*time.Second)
	return svc, mgr
}

func TestValidateItemScan_Decisions(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantReason RejectReason
		accepted   bool
	}{
		{name: "blank input", code: "   ", wantReason: ReasonEmptyCode},
		{name: "unknown barcode", code: "0000000000000", wantReason: ReasonProductNotFound},
		{name: "non-bottle product", code: "4800016641504", wantReason: ReasonWrongCategory},
		{name: "whitelisted bottle", code: "4800016641503", accepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, &fakeAccruer{})
			sess := mgr.Open()

			got := svc.ValidateItemScan(context.Background(), sess, tt.code)
			assert.Equal(t, tt.accepted, got.Accepted)
			assert.Equal(t, tt.wantReason, got.Reason)
			if tt.accepted {
				assert.Equal(t, "Water Bottle 500ml", got.ProductName)
				assert.Equal(t, 1, got.PointDelta)
			}
		})
	}
}

func TestValidateItemScan_DuplicateWithinWindow(t *testing.T) {
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, &fakeAccruer{})
	sess := mgr.Open()

	first := svc.ValidateItemScan(context.Background(), sess, "4800016641503")
	require.True(t, first.Accepted)

	second := svc.ValidateItemScan(context.Background(), sess, "4800016641503")
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonDuplicateScan, second.Reason)
}

func TestValidateItemScan_DuplicateWindowExpires(t *testing.T) {
	now := time.Now()
	guard := NewMemoryGuard()
	guard.now = func() time.Time { return now }

	mgr := NewSessionManager(time.Minute)
	svc := NewScanService(&fakeProducts{byBarcode: testWhitelist()}, guard, &fakeAccruer{}, mgr, 3*time.Second)
	sess := mgr.Open()

	require.True(t, svc.ValidateItemScan(context.Background(), sess, "4800016641503").Accepted)

	now = now.Add(3100 * time.Millisecond)
	again := svc.ValidateItemScan(context.Background(), sess, "4800016641503")
	assert.True(t, again.Accepted)
}

func TestValidateItemScan_LookupFailureDoesNotRecordCode(t *testing.T) {
	products := &fakeProducts{byBarcode: testWhitelist(), err: errors.New("connection reset")}
	svc, mgr := newTestScanService(products, &fakeAccruer{})
	sess := mgr.Open()

	got := svc.ValidateItemScan(context.Background(), sess, "4800016641503")
	assert.Equal(t, ReasonLookupFailed, got.Reason)

	// Once the store recovers, the exact same code must go through: a failed
	// lookup never starts the cool-down window.
	products.err = nil
	retry := svc.ValidateItemScan(context.Background(), sess, "4800016641503")
	assert.True(t, retry.Accepted)
}

func TestValidateIdentityScan_Decisions(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantReason RejectReason
		accepted   bool
	}{
		{name: "poster url", payload: "https://deped.gov.ph/enroll", wantReason: ReasonNotAnIdentifier},
		{name: "letters in payload", payload: "12345678901a", wantReason: ReasonNonNumericLRN},
		{name: "too short", payload: "12345", wantReason: ReasonWrongLength},
		{name: "too long", payload: "1234567890123", wantReason: ReasonWrongLength},
		{name: "valid lrn", payload: " 123456789012 ", accepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, &fakeAccruer{})
			sess := mgr.Open()

			got := svc.ValidateIdentityScan(sess, tt.payload)
			assert.Equal(t, tt.accepted, got.Accepted)
			assert.Equal(t, tt.wantReason, got.Reason)
			if tt.accepted {
				assert.Equal(t, "123456789012", got.LRN)
			}
		})
	}
}

func TestValidateIdentityScan_DeliversOncePerSession(t *testing.T) {
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, &fakeAccruer{})
	sess := mgr.Open()

	first := svc.ValidateIdentityScan(sess, "123456789012")
	require.True(t, first.Accepted)

	// The camera keeps firing decode events while the sticker is in frame.
	second := svc.ValidateIdentityScan(sess, "123456789012")
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonAlreadyCaptured, second.Reason)
}

func TestProcessDeposit_UnknownSession(t *testing.T) {
	svc, _ := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, &fakeAccruer{})

	_, err := svc.ProcessDeposit(context.Background(), "nope", "4800016641503")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestProcessDeposit_RequiresBoundIdentity(t *testing.T) {
	ledger := &fakeAccruer{}
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, ledger)
	sess := mgr.Open()

	out, err := svc.ProcessDeposit(context.Background(), sess.ID, "4800016641503")
	require.NoError(t, err)
	assert.Equal(t, ReasonNoIdentity, out.Scan.Reason)
	assert.Zero(t, ledger.calls)
}

func TestProcessDeposit_AccruesForBoundStudent(t *testing.T) {
	ledger := &fakeAccruer{student: &models.StudentAccount{LRN: "123456789012", FullName: "Juan Dela Cruz", PointsBalance: 5}}
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, ledger)

	sess := mgr.Open()
	sess.BindAccount("123456789012", "Juan Dela Cruz", nil)

	out, err := svc.ProcessDeposit(context.Background(), sess.ID, "4800016641503")
	require.NoError(t, err)
	assert.True(t, out.Scan.Accepted)
	assert.Equal(t, 5, out.Student.PointsBalance)
	assert.Equal(t, "123456789012", ledger.lastLRN)
}

func TestProcessDeposit_DropsScanWhileInFlight(t *testing.T) {
	ledger := &fakeAccruer{}
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, ledger)

	sess := mgr.Open()
	sess.BindAccount("123456789012", "Juan Dela Cruz", nil)
	require.True(t, sess.tryBegin())
	defer sess.end()

	out, err := svc.ProcessDeposit(context.Background(), sess.ID, "4800016641503")
	require.NoError(t, err)
	assert.Equal(t, ReasonScanInProgress, out.Scan.Reason)
	assert.Zero(t, ledger.calls)
}

func TestProcessDeposit_RejectedScanSkipsLedger(t *testing.T) {
	ledger := &fakeAccruer{}
	svc, mgr := newTestScanService(&fakeProducts{byBarcode: testWhitelist()}, ledger)

	sess := mgr.Open()
	sess.BindAccount("123456789012", "Juan Dela Cruz", nil)

	out, err := svc.ProcessDeposit(context.Background(), sess.ID, "4800016641504")
	require.NoError(t, err)
	assert.Equal(t, ReasonWrongCategory, out.Scan.Reason)
	assert.Zero(t, ledger.calls)
}
