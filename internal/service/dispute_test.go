package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"notaryflow/internal/model"
	"notaryflow/internal/repository"
)

func openCase(docID string) *model.RejectionCase {
	return &model.RejectionCase{
		ID:          "case-1",
		DocumentID:  docID,
		InitiatedBy: "user-1",
		UserReason:  "seal is missing",
		State:       model.CaseStatePendingAdminReview,
		CreatedAt:   testTime,
	}
}

func TestOpenDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("against completed work", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		doc := docWithStatus(model.StatusCompleted, 100000)
		updated := docWithStatus(model.StatusRejectionPendingAdmin, 100000)
		updated.Revision = 4

		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(doc, nil).Once()
		f.store.DisputesRepo.On("Create", ctx, mock.MatchedBy(func(c *model.RejectionCase) bool {
			return c.DocumentID == "doc-1" && c.InitiatedBy == "user-1" && c.State == model.CaseStatePendingAdminReview
		})).Return(openCase("doc-1"), nil).Once()
		f.store.RequestsRepo.On("Update", ctx, mock.MatchedBy(func(d *model.DocumentRequest) bool {
			return d.Status == model.StatusRejectionPendingAdmin
		}), int64(3)).Return(updated, nil).Once()
		f.store.AuditRepo.On("Append", ctx, mock.MatchedBy(func(ev *model.AuditEvent) bool {
			return ev.FromStatus == model.StatusCompleted && ev.ToStatus == model.StatusRejectionPendingAdmin && ev.ActorID == "user-1"
		})).Return(nil).Once()
		f.publisher.On("PublishTransition", ctx, mock.Anything).Return(nil).Once()

		got, err := r.OpenDispute(ctx, "doc-1", "user-1", "seal is missing")

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStatePendingAdminReview, got.State)
		f.store.AssertExpectations(t)
	})

	t.Run("only the owner may dispute", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(docWithStatus(model.StatusCompleted, 100000), nil).Once()

		_, err := r.OpenDispute(ctx, "doc-1", "user-2", "seal is missing")

		assert.ErrorIs(t, err, ErrNotOwner)
		f.store.DisputesRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("pending documents are not disputable", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(docWithStatus(model.StatusPending, 0), nil).Once()

		_, err := r.OpenDispute(ctx, "doc-1", "user-1", "too slow")

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("second open case rejected", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(docWithStatus(model.StatusInProgress, 100000), nil).Once()
		f.store.DisputesRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrOpenCaseExists).Once()

		_, err := r.OpenDispute(ctx, "doc-1", "user-1", "still wrong")

		assert.ErrorIs(t, err, ErrDuplicateDispute)
	})

	t.Run("dispute already under review", func(t *testing.T) {
		// The document sits in rejection_pending_admin with an open case;
		// a repeat call is a duplicate, not an illegal transition.
		f := newEngineFixture()
		r := NewResolver(f.engine)
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(docWithStatus(model.StatusRejectionPendingAdmin, 100000), nil).Once()
		f.store.DisputesRepo.On("FindOpenByDocument", ctx, "doc-1").Return(openCase("doc-1"), nil).Once()

		_, err := r.OpenDispute(ctx, "doc-1", "user-1", "still wrong")

		assert.ErrorIs(t, err, ErrDuplicateDispute)
		assert.NotErrorIs(t, err, ErrInvalidTransition)
		f.store.DisputesRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestResolveDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("approve rejects the document", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		c := openCase("doc-1")
		closed := *c
		closed.State = model.CaseStateApproved
		doc := docWithStatus(model.StatusRejectionPendingAdmin, 100000)
		updated := docWithStatus(model.StatusRejected, 100000)
		updated.Revision = 4

		f.store.DisputesRepo.On("FindByID", ctx, "case-1").Return(c, nil).Once()
		f.store.DisputesRepo.On("Close", ctx, mock.MatchedBy(func(rc *model.RejectionCase) bool {
			return rc.State == model.CaseStateApproved && rc.ResolvedBy != nil && *rc.ResolvedBy == "admin-1"
		})).Return(&closed, nil).Once()
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(doc, nil).Once()
		f.store.RequestsRepo.On("Update", ctx, mock.MatchedBy(func(d *model.DocumentRequest) bool {
			return d.Status == model.StatusRejected
		}), int64(3)).Return(updated, nil).Once()
		f.store.AuditRepo.On("Append", ctx, mock.MatchedBy(func(ev *model.AuditEvent) bool {
			return ev.ToStatus == model.StatusRejected && ev.ActorID == "admin-1"
		})).Return(nil).Once()
		f.publisher.On("PublishTransition", ctx, mock.Anything).Return(nil).Once()

		got, err := r.AdminApprove(ctx, "case-1", "admin-1", "user is right")

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStateApproved, got.State)
		f.store.AssertExpectations(t)
	})

	t.Run("disagree returns the document to work", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		c := openCase("doc-1")
		closed := *c
		closed.State = model.CaseStateDisagreed
		doc := docWithStatus(model.StatusRejectionPendingAdmin, 100000)
		updated := docWithStatus(model.StatusInProgress, 100000)
		updated.Revision = 4

		f.store.DisputesRepo.On("FindByID", ctx, "case-1").Return(c, nil).Once()
		f.store.DisputesRepo.On("Close", ctx, mock.MatchedBy(func(rc *model.RejectionCase) bool {
			return rc.State == model.CaseStateDisagreed && rc.AdminReason == nil
		})).Return(&closed, nil).Once()
		f.store.RequestsRepo.On("FindByID", ctx, "doc-1").Return(doc, nil).Once()
		f.store.RequestsRepo.On("Update", ctx, mock.MatchedBy(func(d *model.DocumentRequest) bool {
			return d.Status == model.StatusInProgress
		}), int64(3)).Return(updated, nil).Once()
		f.store.AuditRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
		f.publisher.On("PublishTransition", ctx, mock.Anything).Return(nil).Once()

		got, err := r.AdminDisagree(ctx, "case-1", "admin-1")

		assert.NoError(t, err)
		assert.Equal(t, model.CaseStateDisagreed, got.State)
	})

	t.Run("already resolved case", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		c := openCase("doc-1")
		c.State = model.CaseStateDisagreed

		f.store.DisputesRepo.On("FindByID", ctx, "case-1").Return(c, nil).Once()

		_, err := r.AdminApprove(ctx, "case-1", "admin-1", "too late")

		assert.ErrorIs(t, err, ErrCaseAlreadyClosed)
		f.store.DisputesRepo.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
	})

	t.Run("lost the close race", func(t *testing.T) {
		// The case read open, but another admin resolved it between the
		// read and the conditional close.
		f := newEngineFixture()
		r := NewResolver(f.engine)
		c := openCase("doc-1")

		f.store.DisputesRepo.On("FindByID", ctx, "case-1").Return(c, nil).Once()
		f.store.DisputesRepo.On("Close", ctx, mock.Anything).Return(nil, repository.ErrCaseClosed).Once()

		_, err := r.AdminDisagree(ctx, "case-1", "admin-1")

		assert.ErrorIs(t, err, ErrCaseAlreadyClosed)
	})

	t.Run("unknown case", func(t *testing.T) {
		f := newEngineFixture()
		r := NewResolver(f.engine)
		f.store.DisputesRepo.On("FindByID", ctx, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := r.AdminApprove(ctx, "ghost", "admin-1", "")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
