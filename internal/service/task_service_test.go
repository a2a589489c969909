package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/mocks"
	"github.com/arolitec/taskboard-api/internal/store"
)

type taskServiceFixture struct {
	svc    *TaskServiceImpl
	tasks  *mocks.MockTaskStore
	users  *mocks.MockUserStore
	cache  *mocks.MockListingCache
	mailer *mocks.MockMailer
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	tasks := mocks.NewMockTaskStore()
	users := mocks.NewMockUserStore()
	listingCache := mocks.NewMockListingCache()
	mailer := &mocks.MockMailer{}

	return &taskServiceFixture{
		svc:    NewTaskService(tasks, users, listingCache, mailer, nil),
		tasks:  tasks,
		users:  users,
		cache:  listingCache,
		mailer: mailer,
	}
}

func (f *taskServiceFixture) addUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, "password123", "Jane", "Doe")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *taskServiceFixture) addTask(t *testing.T, title string) *domain.Task {
	t.Helper()

	creator := uuid.New()
	task, err := domain.NewTask(title, "", &creator)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func waitForAssignments(t *testing.T, mailer *mocks.MockMailer, want int) []mocks.AssignmentEmail {
	t.Helper()

	var sent []mocks.AssignmentEmail
	require.Eventually(t, func() bool {
		sent = mailer.SentAssignments()
		return len(sent) == want
	}, time.Second, 5*time.Millisecond, "expected %d assignment emails", want)
	return sent
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("creates with defaults and invalidates listings", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		creator := f.addUser(t, "admin@arolitec.com")

		task, err := f.svc.CreateTask(context.Background(), CreateTaskInput{
			Title:     "Write report",
			CreatorID: creator.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, creator.ID, *task.CreatorID)
		assert.Contains(t, f.tasks.Tasks, task.ID)
		assert.Equal(t, 1, f.cache.InvalidateCalls)
		assert.Empty(t, f.mailer.SentAssignments())
	})

	t.Run("notifies the assignee", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		creator := f.addUser(t, "admin@arolitec.com")
		assignee := f.addUser(t, "user@arolitec.com")

		task, err := f.svc.CreateTask(context.Background(), CreateTaskInput{
			Title:      "Write report",
			CreatorID:  creator.ID,
			AssigneeID: &assignee.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, assignee.ID, *task.AssigneeID)

		sent := waitForAssignments(t, f.mailer, 1)
		assert.Equal(t, "user@arolitec.com", sent[0].Email)
		assert.Equal(t, "Write report", sent[0].Title)
	})

	t.Run("mail failure does not fail creation", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		f.mailer.Err = errors.New("relay down")
		creator := f.addUser(t, "admin@arolitec.com")
		assignee := f.addUser(t, "user@arolitec.com")

		_, err := f.svc.CreateTask(context.Background(), CreateTaskInput{
			Title:      "Write report",
			CreatorID:  creator.ID,
			AssigneeID: &assignee.ID,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown assignee rejects the task", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		creator := f.addUser(t, "admin@arolitec.com")
		missing := uuid.New()

		_, err := f.svc.CreateTask(context.Background(), CreateTaskInput{
			Title:      "Write report",
			CreatorID:  creator.ID,
			AssigneeID: &missing,
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Empty(t, f.tasks.Tasks)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		creator := f.addUser(t, "admin@arolitec.com")
		bad := domain.TaskStatus("archived")

		_, err := f.svc.CreateTask(context.Background(), CreateTaskInput{
			Title:     "Write report",
			CreatorID: creator.ID,
			Status:    &bad,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestListTasksCaching(t *testing.T) {
	t.Parallel()

	t.Run("miss populates cache, second call served from it", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		f.addTask(t, "one")
		f.addTask(t, "two")

		first, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, first.Total)
		assert.Equal(t, 1, f.tasks.ListCalls)
		assert.Equal(t, 1, f.cache.SetCalls)

		second, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, f.tasks.ListCalls, "second page must come from cache")
	})

	t.Run("different filters use different cache entries", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		f.addTask(t, "one")

		_, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)

		status := domain.TaskStatusPending
		_, err = f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{Status: &status})
		require.NoError(t, err)

		assert.Equal(t, 2, f.tasks.ListCalls)
		assert.Len(t, f.cache.Pages, 2)
	})

	t.Run("cache read failure falls back to store", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		f.addTask(t, "one")
		f.cache.GetPageFn = func(context.Context, string) (*store.TaskPage, bool, error) {
			return nil, false, errors.New("connection refused")
		}

		result, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("mutations invalidate cached pages", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task := f.addTask(t, "one")

		_, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)
		require.Len(t, f.cache.Pages, 1)

		require.NoError(t, f.svc.DeleteTask(context.Background(), task.ID))
		assert.Empty(t, f.cache.Pages, "delete must drop cached listings")

		result, err := f.svc.ListTasks(context.Background(), 1, 10, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Total)
	})
}

func TestListUserTasksNeverCached(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	user := f.addUser(t, "user@arolitec.com")
	task, err := domain.NewTask("mine", "", &user.ID)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))

	for range 2 {
		result, err := f.svc.ListUserTasks(context.Background(), user.ID, 1, 10, store.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	}

	assert.Equal(t, 2, f.tasks.ListForUserCalls, "per-user listings always hit the store")
	assert.Equal(t, 0, f.cache.GetCalls)
	assert.Equal(t, 0, f.cache.SetCalls)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("new assignee is notified", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		assignee := f.addUser(t, "user@arolitec.com")
		task := f.addTask(t, "one")

		updated, err := f.svc.UpdateTask(context.Background(), task.ID, store.TaskUpdate{
			AssigneeID: &assignee.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, assignee.ID, *updated.AssigneeID)

		waitForAssignments(t, f.mailer, 1)
		assert.Equal(t, 1, f.cache.InvalidateCalls)
	})

	t.Run("re-assigning the same user sends no email", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		assignee := f.addUser(t, "user@arolitec.com")
		task := f.addTask(t, "one")
		task.AssigneeID = &assignee.ID

		_, err := f.svc.UpdateTask(context.Background(), task.ID, store.TaskUpdate{
			AssigneeID: &assignee.ID,
		})
		require.NoError(t, err)

		// Give a stray goroutine a chance to record before asserting.
		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, f.mailer.SentAssignments())
	})

	t.Run("status-only update sends no email", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task := f.addTask(t, "one")
		status := domain.TaskStatusCompleted

		updated, err := f.svc.UpdateTask(context.Background(), task.ID, store.TaskUpdate{
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, f.mailer.SentAssignments())
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		title := "renamed"

		_, err := f.svc.UpdateTask(context.Background(), uuid.New(), store.TaskUpdate{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestAssignTask(t *testing.T) {
	t.Parallel()

	t.Run("assigns and notifies", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		assignee := f.addUser(t, "user@arolitec.com")
		task := f.addTask(t, "one")

		updated, err := f.svc.AssignTask(context.Background(), task.ID, assignee.ID)
		require.NoError(t, err)
		assert.Equal(t, assignee.ID, *updated.AssigneeID)

		sent := waitForAssignments(t, f.mailer, 1)
		assert.Equal(t, "user@arolitec.com", sent[0].Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(t)
		task := f.addTask(t, "one")

		_, err := f.svc.AssignTask(context.Background(), task.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestDeleteTaskUnknown(t *testing.T) {
	t.Parallel()

	f := newTaskServiceFixture(t)
	err := f.svc.DeleteTask(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Equal(t, 0, f.cache.InvalidateCalls)
}
