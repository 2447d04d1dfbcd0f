package events

import (
	"context"

	"notaryflow/internal/model"
)

// Package events carries committed transitions to the excluded
// notification/chat subsystems. Publishing happens after the core
// transaction commits; a publish failure is a non-fatal side effect and
// never reverses the committed transition.

// Publisher delivers audit events to subscribers.
type Publisher interface {
	PublishTransition(ctx context.Context, ev model.AuditEvent) error
}

// Noop discards events; used when no feed is configured and in tests.
type Noop struct{}

func (Noop) PublishTransition(ctx context.Context, ev model.AuditEvent) error { return nil }
