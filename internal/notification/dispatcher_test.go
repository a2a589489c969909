package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolitec/taskboard-api/internal/domain"
)

type fakeOverdueLister struct {
	tasks []*domain.OverdueTask
	err   error

	gotBefore time.Time
}

func (f *fakeOverdueLister) ListOverdue(_ context.Context, before time.Time) ([]*domain.OverdueTask, error) {
	f.gotBefore = before
	return f.tasks, f.err
}

type fakePublisher struct {
	published [][]byte

	// failFirst makes the first Publish call return an error.
	failFirst bool
	calls     int
}

func (f *fakePublisher) Publish(_ context.Context, body []byte) error {
	f.calls++
	if f.failFirst && f.calls == 1 {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, body)
	return nil
}

func overdueTask(title string) *domain.OverdueTask {
	return &domain.OverdueTask{
		TaskID:  uuid.New(),
		Title:   title,
		DueDate: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		Assignee: &domain.Contact{
			Email:     "user@arolitec.com",
			FirstName: "Jane",
			LastName:  "Doe",
		},
	}
}

func TestDispatcherSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("publishes one message per overdue task", func(t *testing.T) {
		t.Parallel()

		lister := &fakeOverdueLister{
			tasks: []*domain.OverdueTask{overdueTask("first"), overdueTask("second")},
		}
		publisher := &fakePublisher{}

		NewDispatcher(lister, publisher, nil).Sweep(context.Background(), now)

		require.Len(t, publisher.published, 2)
		assert.Equal(t, now, lister.gotBefore)

		first, err := DecodeMessage(publisher.published[0])
		require.NoError(t, err)
		assert.Equal(t, "first", first.Title)
	})

	t.Run("no overdue tasks publishes nothing", func(t *testing.T) {
		t.Parallel()

		publisher := &fakePublisher{}
		NewDispatcher(&fakeOverdueLister{}, publisher, nil).Sweep(context.Background(), now)

		assert.Empty(t, publisher.published)
	})

	t.Run("store error publishes nothing", func(t *testing.T) {
		t.Parallel()

		lister := &fakeOverdueLister{err: errors.New("connection refused")}
		publisher := &fakePublisher{}

		NewDispatcher(lister, publisher, nil).Sweep(context.Background(), now)

		assert.Empty(t, publisher.published)
	})

	t.Run("publish failure does not abort the sweep", func(t *testing.T) {
		t.Parallel()

		lister := &fakeOverdueLister{
			tasks: []*domain.OverdueTask{overdueTask("first"), overdueTask("second")},
		}
		publisher := &fakePublisher{failFirst: true}

		NewDispatcher(lister, publisher, nil).Sweep(context.Background(), now)

		require.Len(t, publisher.published, 1)
		second, err := DecodeMessage(publisher.published[0])
		require.NoError(t, err)
		assert.Equal(t, "second", second.Title)
	})
}
