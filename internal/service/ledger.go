package service

import (
	"context"
	"errors"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// Ledger derives payment state from the append-only entry log. There is no
// cached aggregate: every read walks the entries so the total can never
// drift from the log.
type Ledger struct {
	store repository.Store
}

// NewLedger constructs the ledger read component.
func NewLedger(store repository.Store) *Ledger {
	return &Ledger{store: store}
}

// Summarize returns the document's derived payment state.
func (l *Ledger) Summarize(ctx context.Context, documentID string) (*model.LedgerSummary, error) {
	doc, err := l.store.Requests().FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entries, err := l.store.Payments().ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	s := summarize(documentID, entries, doc.CostCents)
	return &s, nil
}

// summarize derives the running total and payment status from the entry log
// against the (possibly unset) cost.
func summarize(documentID string, entries []model.PaymentEntry, costCents *int64) model.LedgerSummary {
	var total int64
	for _, e := range entries {
		total += e.EffectiveAmount()
	}

	s := model.LedgerSummary{
		DocumentID:     documentID,
		TotalPaidCents: total,
		Status:         model.PaymentStatusNotPaid,
	}
	if costCents != nil {
		s.OutstandingCents = *costCents - total
	}
	switch {
	case costCents != nil && total >= *costCents && *costCents > 0:
		s.Status = model.PaymentStatusFullPaid
	case total > 0:
		s.Status = model.PaymentStatusPartiallyPaid
	}
	return s
}

// validateEntry enforces the ledger's data invariants before an append. The
// entry log is never left partially updated: a rejected entry changes
// nothing.
func validateEntry(doc *model.DocumentRequest, entries []model.PaymentEntry, e *model.PaymentEntry) error {
	if e.AmountCents <= 0 {
		return ErrInvalidAmount.withStatus(doc.Status)
	}
	if !e.Kind.Valid() {
		return ErrInvalidAmount.withStatus(doc.Status)
	}
	if doc.CostCents == nil {
		return ErrCostNotSet.withStatus(doc.Status)
	}

	var total int64
	for _, prev := range entries {
		total += prev.EffectiveAmount()
	}
	newTotal := total + e.EffectiveAmount()

	if e.Kind == model.PaymentKindRefund {
		if newTotal < 0 {
			return ErrInvalidRefund.withStatus(doc.Status)
		}
		return nil
	}
	if newTotal > *doc.CostCents {
		return ErrOverpayment.withStatus(doc.Status)
	}
	return nil
}
