package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"notaryflow/internal/model"
)

func TestRedisPublisher_PublishTransition(t *testing.T) {
	ev := model.AuditEvent{
		ID:         "01HQZA",
		DocumentID: "doc-1",
		FromStatus: model.StatusPending,
		ToStatus:   model.StatusCostEstimated,
		ActorID:    "admin-1",
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(ev)
	assert.NoError(t, err)

	t.Run("publishes json on the channel", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		p := NewRedisPublisherWithClient(client, "notaryflow.audit")

		mock.ExpectPublish("notaryflow.audit", payload).SetVal(1)

		assert.NoError(t, p.PublishTransition(context.Background(), ev))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("publish failure surfaces", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		p := NewRedisPublisherWithClient(client, "notaryflow.audit")

		mock.ExpectPublish("notaryflow.audit", payload).SetErr(errors.New("connection reset"))

		err := p.PublishTransition(context.Background(), ev)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "publish audit event")
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, Noop{}.PublishTransition(context.Background(), model.AuditEvent{}))
}
