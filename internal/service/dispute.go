package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

// resolver implements Disputes. Case closure and the owning document's
// status change are applied as one all-or-nothing unit; the case state
// predicate in the repository makes double resolution a detectable race
// instead of a silent no-op.
type resolver struct {
	engine *Engine
}

// NewResolver constructs the rejection dispute resolver sharing the
// engine's transactional machinery.
func NewResolver(e *Engine) Disputes {
	return &resolver{engine: e}
}

func (r *resolver) OpenDispute(ctx context.Context, documentID, userID, reason string) (*model.RejectionCase, error) {
	s := r.engine
	var (
		out     *model.RejectionCase
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		doc, err := findRequest(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if doc.OwnerID != userID {
			return ErrNotOwner.withStatus(doc.Status)
		}
		// A document already under review with an open case means this is
		// a duplicate dispute, not an illegal transition.
		if doc.Status == model.StatusRejectionPendingAdmin {
			if _, err := tx.Disputes().FindOpenByDocument(ctx, documentID); err == nil {
				return ErrDuplicateDispute.withStatus(doc.Status)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		// Legal only against delivered or in-flight work; the transition
		// table carries exactly those edges.
		if !doc.Status.CanTransition(model.StatusRejectionPendingAdmin) {
			return ErrInvalidTransition.withTransition(doc.Status, model.StatusRejectionPendingAdmin)
		}

		c := &model.RejectionCase{
			ID:          uuid.New().String(),
			DocumentID:  documentID,
			InitiatedBy: userID,
			UserReason:  reason,
			State:       model.CaseStatePendingAdminReview,
			CreatedAt:   s.now(),
		}
		stored, err := tx.Disputes().Create(ctx, c)
		if err != nil {
			if errors.Is(err, repository.ErrOpenCaseExists) {
				return ErrDuplicateDispute.withStatus(doc.Status)
			}
			return err
		}

		_, ev, err := s.applyTransition(ctx, tx, doc, model.StatusRejectionPendingAdmin, userID)
		if err != nil {
			return err
		}
		out, emitted = stored, append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return out, nil
}

func (r *resolver) AdminApprove(ctx context.Context, caseID, adminID, reason string) (*model.RejectionCase, error) {
	return r.resolve(ctx, caseID, adminID, &reason, model.CaseStateApproved, model.StatusRejected)
}

func (r *resolver) AdminDisagree(ctx context.Context, caseID, adminID string) (*model.RejectionCase, error) {
	return r.resolve(ctx, caseID, adminID, nil, model.CaseStateDisagreed, model.StatusInProgress)
}

// resolve closes the case and applies the document's resulting transition
// in one transaction. Exactly one of approve/disagree can win per case.
func (r *resolver) resolve(ctx context.Context, caseID, adminID string, adminReason *string, caseState model.CaseState, docStatus model.RequestStatus) (*model.RejectionCase, error) {
	s := r.engine
	var (
		out     *model.RejectionCase
		emitted []model.AuditEvent
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		c, err := tx.Disputes().FindByID(ctx, caseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !c.Open() {
			return ErrCaseAlreadyClosed
		}

		now := s.now()
		c.State = caseState
		c.AdminReason = adminReason
		c.ResolvedBy = &adminID
		c.ResolvedAt = &now
		closed, err := tx.Disputes().Close(ctx, c)
		if err != nil {
			if errors.Is(err, repository.ErrCaseClosed) {
				return ErrCaseAlreadyClosed
			}
			return err
		}

		doc, err := findRequest(ctx, tx, c.DocumentID)
		if err != nil {
			return err
		}
		_, ev, err := s.applyTransition(ctx, tx, doc, docStatus, adminID)
		if err != nil {
			return err
		}
		out, emitted = closed, append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, emitted)
	return out, nil
}
