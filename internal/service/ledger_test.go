package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"notaryflow/internal/model"
	repoMocks "notaryflow/internal/repository/mocks"
)

func entry(amount int64, kind model.PaymentKind) model.PaymentEntry {
	return model.PaymentEntry{DocumentID: "doc-1", AmountCents: amount, Kind: kind}
}

func TestSummarize(t *testing.T) {
	cost := int64(100000)

	tests := []struct {
		name            string
		entries         []model.PaymentEntry
		costCents       *int64
		wantTotal       int64
		wantOutstanding int64
		wantStatus      model.PaymentStatus
	}{
		{
			name:       "no entries",
			entries:    nil,
			costCents:  &cost,
			wantTotal:  0, wantOutstanding: 100000,
			wantStatus: model.PaymentStatusNotPaid,
		},
		{
			name:       "partial",
			entries:    []model.PaymentEntry{entry(25000, model.PaymentKindPartial)},
			costCents:  &cost,
			wantTotal:  25000, wantOutstanding: 75000,
			wantStatus: model.PaymentStatusPartiallyPaid,
		},
		{
			name: "exactly full",
			entries: []model.PaymentEntry{
				entry(25000, model.PaymentKindPartial),
				entry(75000, model.PaymentKindPartial),
			},
			costCents:  &cost,
			wantTotal:  100000, wantOutstanding: 0,
			wantStatus: model.PaymentStatusFullPaid,
		},
		{
			name: "refund subtracts",
			entries: []model.PaymentEntry{
				entry(100000, model.PaymentKindFull),
				entry(30000, model.PaymentKindRefund),
			},
			costCents:  &cost,
			wantTotal:  70000, wantOutstanding: 30000,
			wantStatus: model.PaymentStatusPartiallyPaid,
		},
		{
			name:       "payments before estimation never read as full",
			entries:    []model.PaymentEntry{entry(25000, model.PaymentKindPartial)},
			costCents:  nil,
			wantTotal:  25000, wantOutstanding: 0,
			wantStatus: model.PaymentStatusPartiallyPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize("doc-1", tt.entries, tt.costCents)
			assert.Equal(t, tt.wantTotal, got.TotalPaidCents)
			assert.Equal(t, tt.wantOutstanding, got.OutstandingCents)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestValidateEntry(t *testing.T) {
	doc := docWithStatus(model.StatusInProgress, 100000)

	t.Run("accepts entry within cost", func(t *testing.T) {
		e := entry(25000, model.PaymentKindPartial)
		assert.NoError(t, validateEntry(doc, nil, &e))
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		e := entry(0, model.PaymentKindPartial)
		assert.ErrorIs(t, validateEntry(doc, nil, &e), ErrInvalidAmount)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		e := entry(1000, model.PaymentKind("cash"))
		assert.ErrorIs(t, validateEntry(doc, nil, &e), ErrInvalidAmount)
	})

	t.Run("rejects payment before estimation", func(t *testing.T) {
		pending := docWithStatus(model.StatusPending, 0)
		e := entry(1000, model.PaymentKindPartial)
		assert.ErrorIs(t, validateEntry(pending, nil, &e), ErrCostNotSet)
	})

	t.Run("rejects overpayment across entries", func(t *testing.T) {
		prior := []model.PaymentEntry{entry(90000, model.PaymentKindPartial)}
		e := entry(25000, model.PaymentKindPartial)
		assert.ErrorIs(t, validateEntry(doc, prior, &e), ErrOverpayment)
	})

	t.Run("rejects refund past zero", func(t *testing.T) {
		prior := []model.PaymentEntry{entry(10000, model.PaymentKindPartial)}
		e := entry(20000, model.PaymentKindRefund)
		assert.ErrorIs(t, validateEntry(doc, prior, &e), ErrInvalidRefund)
	})

	t.Run("allows refund to exactly zero", func(t *testing.T) {
		prior := []model.PaymentEntry{entry(10000, model.PaymentKindPartial)}
		e := entry(10000, model.PaymentKindRefund)
		assert.NoError(t, validateEntry(doc, prior, &e))
	})
}

func TestLedgerSummarizeReads(t *testing.T) {
	ctx := context.Background()
	store := repoMocks.NewMockStore()
	ledger := NewLedger(store)

	doc := docWithStatus(model.StatusInProgress, 100000)
	store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(doc, nil).Once()
	store.PaymentsRepo.On("ListByDocument", ctx, "doc-1").Return([]model.PaymentEntry{
		entry(25000, model.PaymentKindPartial),
		entry(75000, model.PaymentKindPartial),
	}, nil).Once()

	got, err := ledger.Summarize(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFullPaid, got.Status)
	assert.Equal(t, int64(0), got.OutstandingCents)
	store.AssertExpectations(t)
}
