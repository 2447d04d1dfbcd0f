package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"notaryflow/internal/catalog"
	"notaryflow/internal/events"
	"notaryflow/internal/ids"
	"notaryflow/internal/kyc"
	"notaryflow/internal/metrics"
	"notaryflow/internal/model"
	"notaryflow/internal/repository"
	"notaryflow/internal/storage"
)

// EngineConfig wires the engine's collaborators. Store, Gate and Catalog
// are required; the rest are post-commit side-effect targets and may be nil.
type EngineConfig struct {
	Store       repository.Store
	Gate        kyc.Gate
	Catalog     catalog.Catalog
	Attachments storage.AttachmentStore
	Publisher   events.Publisher
	Metrics     *metrics.Metrics
}

// Engine implements Lifecycle. Every mutation is one revision-guarded
// read-modify-write; the audit append travels in the same transaction as
// the status projection update.
type Engine struct {
	store       repository.Store
	gate        kyc.Gate
	catalog     catalog.Catalog
	attachments storage.AttachmentStore
	publisher   events.Publisher
	metrics     *metrics.Metrics
	now         func() time.Time
}

var _ Lifecycle = (*Engine)(nil)

// NewEngine constructs the status transition engine.
func NewEngine(cfg EngineConfig) *Engine {
	pub := cfg.Publisher
	if pub == nil {
		pub = events.Noop{}
	}
	return &Engine{
		store:       cfg.Store,
		gate:        cfg.Gate,
		catalog:     cfg.Catalog,
		attachments: cfg.Attachments,
		publisher:   pub,
		metrics:     cfg.Metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Engine) Submit(ctx context.Context, in SubmitInput) (*model.DocumentRequest, error) {
	verdict, err := s.gate.Check(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("kyc gate: %w", err)
	}
	if verdict != kyc.VerdictApproved {
		return nil, ErrKYCNotApproved
	}

	svc, err := s.catalog.Config(ctx, in.ServiceCode)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			return nil, ErrUnknownService
		}
		return nil, err
	}

	doc := &model.DocumentRequest{
		ID:          uuid.New().String(),
		OwnerID:     in.OwnerID,
		ServiceCode: in.ServiceCode,
		Status:      model.StatusPending,
		Currency:    svc.Currency,
		CreatedAt:   s.now(),
	}
	stored, err := s.store.Requests().Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The attachment upload happens after the record is durable; a failed
	// upload is reported as a side effect, the record stands.
	if in.Attachment != nil {
		stored = s.uploadAttachment(ctx, stored, in.Attachment)
	}
	return stored, nil
}

// uploadAttachment stores the payload and best-effort links it to the
// record. Neither failure rolls anything back.
func (s *Engine) uploadAttachment(ctx context.Context, doc *model.DocumentRequest, att *Attachment) *model.DocumentRequest {
	if s.attachments == nil {
		return doc
	}
	ext := filepath.Ext(att.Filename)
	key := filepath.ToSlash(filepath.Join("requests", doc.ID+ext))

	_, err := s.attachments.Put(ctx, key, att.Content, storage.PutObjectOptions{
		Size:        att.Size,
		ContentType: att.ContentType,
		Metadata:    map[string]string{"original-filename": att.Filename},
	})
	if err != nil {
		s.reportSideEffect("attachment_store", doc.ID, err)
		return doc
	}

	doc.AttachmentPath = key
	doc.UpdatedAt = s.now()
	updated, err := s.store.Requests().Update(ctx, doc, doc.Revision)
	if err != nil {
		s.reportSideEffect("attachment_store", doc.ID, fmt.Errorf("link attachment: %w", err))
		return doc
	}
	return updated
}

func (s *Engine) EstimateCost(ctx context.Context, documentID string, in EstimateInput) (*model.DocumentRequest, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var (
		out     *model.DocumentRequest
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doc, err := findRequest(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if replay, err := s.replayed(ctx, tx, doc, model.StatusCostEstimated, in.ActorID); err != nil {
			return err
		} else if replay {
			out = doc
			return nil
		}

		doc.CostCents = &in.AmountCents
		updated, ev, err := s.applyTransition(ctx, tx, doc, model.StatusCostEstimated, in.ActorID)
		if err != nil {
			return err
		}
		out, emitted = updated, append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return out, nil
}

func (s *Engine) RecordPayment(ctx context.Context, documentID string, in PaymentInput) (*PaymentResult, error) {
	var (
		out     PaymentResult
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doc, err := findRequest(ctx, tx, documentID)
		if err != nil {
			return err
		}

		// Replaying the same idempotency key yields the state of a single
		// application, not an error.
		if in.IdempotencyKey != "" {
			existing, err := tx.Payments().FindByIdempotencyKey(ctx, documentID, in.IdempotencyKey)
			if err == nil {
				return s.replayPayment(ctx, tx, doc, existing, &out)
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		switch doc.Status {
		case model.StatusCostEstimated, model.StatusPaymentPending, model.StatusInProgress:
			// payments accepted
		default:
			return ErrInvalidTransition.withStatus(doc.Status)
		}

		entry := &model.PaymentEntry{
			ID:                     ids.New(),
			DocumentID:             documentID,
			AmountCents:            in.AmountCents,
			Kind:                   in.Kind,
			ExternalTransactionRef: in.ExternalTransactionRef,
			IdempotencyKey:         in.IdempotencyKey,
			RecordedAt:             s.now(),
		}

		entries, err := tx.Payments().ListByDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := validateEntry(doc, entries, entry); err != nil {
			return err
		}

		stored, err := tx.Payments().Append(ctx, entry)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateIdempotencyKey) {
				// Lost the race against a concurrent replay of the
				// same key; surface the applied result.
				applied, ferr := tx.Payments().FindByIdempotencyKey(ctx, documentID, in.IdempotencyKey)
				if ferr != nil {
					return ferr
				}
				return s.replayPayment(ctx, tx, doc, applied, &out)
			}
			return err
		}

		summary := summarize(documentID, append(entries, *stored), doc.CostCents)

		target, err := s.paymentTarget(ctx, doc, summary)
		if err != nil {
			return err
		}
		if target != doc.Status {
			updated, ev, err := s.applyTransition(ctx, tx, doc, target, in.ActorID)
			if err != nil {
				return err
			}
			doc = updated
			emitted = append(emitted, ev)
		} else {
			// No status change, but the ledger mutation still bumps the
			// revision and updated_at under the same guard.
			doc.UpdatedAt = s.now()
			updated, err := tx.Requests().Update(ctx, doc, doc.Revision)
			if err != nil {
				return mapRepoErr(err, doc.Status)
			}
			doc = updated
		}

		out = PaymentResult{Document: doc, Entry: stored, Summary: summary}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return &out, nil
}

// replayPayment rebuilds the result of an already-applied payment.
func (s *Engine) replayPayment(ctx context.Context, tx repository.Store, doc *model.DocumentRequest, entry *model.PaymentEntry, out *PaymentResult) error {
	entries, err := tx.Payments().ListByDocument(ctx, doc.ID)
	if err != nil {
		return err
	}
	*out = PaymentResult{
		Document: doc,
		Entry:    entry,
		Summary:  summarize(doc.ID, entries, doc.CostCents),
	}
	return nil
}

// paymentTarget decides where the document lands after an accepted payment:
// full payment or the service's minimum advance unlocks in_progress, a
// first partial payment parks it in payment_pending.
func (s *Engine) paymentTarget(ctx context.Context, doc *model.DocumentRequest, summary model.LedgerSummary) (model.RequestStatus, error) {
	if doc.Status == model.StatusInProgress {
		return doc.Status, nil
	}

	svc, err := s.catalog.Config(ctx, doc.ServiceCode)
	if err != nil {
		return "", err
	}
	if summary.Status == model.PaymentStatusFullPaid {
		return model.StatusInProgress, nil
	}
	if doc.CostCents != nil && summary.TotalPaidCents >= svc.MinAdvanceCents(*doc.CostCents) && summary.TotalPaidCents > 0 {
		return model.StatusInProgress, nil
	}
	if doc.Status == model.StatusCostEstimated && summary.TotalPaidCents > 0 {
		return model.StatusPaymentPending, nil
	}
	return doc.Status, nil
}

func (s *Engine) Complete(ctx context.Context, documentID, actorID string) (*model.DocumentRequest, error) {
	var (
		out     *model.DocumentRequest
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doc, err := findRequest(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if replay, err := s.replayed(ctx, tx, doc, model.StatusCompleted, actorID); err != nil {
			return err
		} else if replay {
			out = doc
			return nil
		}
		if doc.Status != model.StatusInProgress {
			return ErrInvalidTransition.withTransition(doc.Status, model.StatusCompleted)
		}

		svc, err := s.catalog.Config(ctx, doc.ServiceCode)
		if err != nil {
			return err
		}
		entries, err := tx.Payments().ListByDocument(ctx, documentID)
		if err != nil {
			return err
		}
		summary := summarize(documentID, entries, doc.CostCents)
		if summary.Status != model.PaymentStatusFullPaid && !svc.AllowPartialCompletion {
			return ErrPaymentIncomplete.withStatus(doc.Status)
		}

		updated, ev, err := s.applyTransition(ctx, tx, doc, model.StatusCompleted, actorID)
		if err != nil {
			return err
		}
		out, emitted = updated, append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return out, nil
}

func (s *Engine) AdminReject(ctx context.Context, documentID, reason, actorID string) (*model.DocumentRequest, error) {
	var (
		out     *model.DocumentRequest
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doc, err := findRequest(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if replay, err := s.replayed(ctx, tx, doc, model.StatusAdminRejected, actorID); err != nil {
			return err
		} else if replay {
			out = doc
			return nil
		}

		// The reason rides the same guarded write as the status change.
		doc.AdminRejectionReason = &reason
		updated, ev, err := s.applyTransition(ctx, tx, doc, model.StatusAdminRejected, actorID)
		if err != nil {
			return err
		}
		out, emitted = updated, append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return out, nil
}

func (s *Engine) Get(ctx context.Context, documentID string) (*model.DocumentRequest, error) {
	return findRequest(ctx, s.store, documentID)
}

func (s *Engine) List(ctx context.Context, ownerID string, limit, offset int) (*RequestListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.store.Requests().List(ctx, repository.RequestFilter{OwnerID: ownerID}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &RequestListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *Engine) AuditTrail(ctx context.Context, documentID string) ([]model.AuditEvent, error) {
	if _, err := findRequest(ctx, s.store, documentID); err != nil {
		return nil, err
	}
	return s.store.Audit().ListByDocument(ctx, documentID)
}

func (s *Engine) Summarize(ctx context.Context, documentID string) (*model.LedgerSummary, error) {
	return NewLedger(s.store).Summarize(ctx, documentID)
}

// applyTransition validates the edge, writes the status projection under
// the revision guard, and appends the audit event in the same transaction.
func (s *Engine) applyTransition(ctx context.Context, tx repository.Store, doc *model.DocumentRequest, to model.RequestStatus, actorID string) (*model.DocumentRequest, model.AuditEvent, error) {
	from := doc.Status
	if !from.CanTransition(to) {
		return nil, model.AuditEvent{}, ErrInvalidTransition.withTransition(from, to)
	}

	doc.Status = to
	doc.UpdatedAt = s.now()
	updated, err := tx.Requests().Update(ctx, doc, doc.Revision)
	if err != nil {
		return nil, model.AuditEvent{}, mapRepoErr(err, from)
	}

	ev := model.AuditEvent{
		ID:         ids.New(),
		DocumentID: doc.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		OccurredAt: updated.UpdatedAt,
	}
	if err := tx.Audit().Append(ctx, &ev); err != nil {
		return nil, model.AuditEvent{}, fmt.Errorf("append audit event: %w", err)
	}
	return updated, ev, nil
}

// replayed reports whether the requested transition was already applied by
// the same actor, making this call an idempotent duplicate.
func (s *Engine) replayed(ctx context.Context, tx repository.Store, doc *model.DocumentRequest, to model.RequestStatus, actorID string) (bool, error) {
	if doc.Status != to {
		return false, nil
	}
	trail, err := tx.Audit().ListByDocument(ctx, doc.ID)
	if err != nil {
		return false, err
	}
	if len(trail) == 0 {
		return false, nil
	}
	last := trail[len(trail)-1]
	return last.ToStatus == to && last.ActorID == actorID, nil
}

// afterCommit runs the non-fatal side effects of committed transitions:
// metrics and the outward audit feed. Failures are reported, never
// propagated.
func (s *Engine) afterCommit(ctx context.Context, emitted []model.AuditEvent) {
	for _, ev := range emitted {
		if s.metrics != nil {
			s.metrics.TransitionsTotal.WithLabelValues(ev.FromStatus.String(), ev.ToStatus.String()).Inc()
		}
		if err := s.publisher.PublishTransition(ctx, ev); err != nil {
			s.reportSideEffect("event_feed", ev.DocumentID, err)
		}
	}
}

// reportSideEffect logs a post-commit collaborator failure as JSON. The
// committed transition is never reversed on this path.
func (s *Engine) reportSideEffect(collaborator, documentID string, err error) {
	if s.metrics != nil {
		s.metrics.SideEffectErrors.WithLabelValues(collaborator).Inc()
	}
	_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
		"ts":           s.now().Format(time.RFC3339Nano),
		"level":        "warn",
		"event":        "side_effect_failed",
		"collaborator": collaborator,
		"document_id":  documentID,
		"error":        err.Error(),
	})
}

// findRequest loads a document and maps the repository's not-found.
func findRequest(ctx context.Context, st repository.Store, documentID string) (*model.DocumentRequest, error) {
	doc, err := st.Requests().FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// mapRepoErr translates repository failures on revision-guarded writes.
func mapRepoErr(err error, current model.RequestStatus) error {
	switch {
	case errors.Is(err, repository.ErrConcurrentModification):
		return ErrConcurrentModification.withStatus(current)
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
