package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/cache"
	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/notification"
	"github.com/arolitec/taskboard-api/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// Status defaults to pending when nil.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      *domain.TaskStatus
	DueDate     *time.Time
	CreatorID   uuid.UUID
	AssigneeID  *uuid.UUID
}

// TaskService provides task CRUD, listing and assignment operations.
// Listing pages of all tasks are served through the cache; every mutation
// invalidates the whole listing namespace. Assignment emails and cache
// failures are side effects: they are logged and never fail the operation.
type TaskService interface {
	// CreateTask creates a new task. When an assignee is given it must
	// exist (ErrUserNotFound otherwise) and is notified by email.
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// ListTasks returns one cached page of all tasks matching the filter.
	ListTasks(ctx context.Context, page, limit int, filter store.ListFilter) (*store.TaskPage, error)

	// ListUserTasks returns one page of the tasks the user created or is
	// assigned to. These pages are never cached.
	ListUserTasks(ctx context.Context, userID uuid.UUID, page, limit int, filter store.ListFilter) (*store.TaskPage, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update. Assigning the task to a new
	// user notifies that user by email.
	UpdateTask(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// AssignTask assigns the task to the given user and notifies them.
	AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	cache     cache.ListingCache
	mailer    notification.Mailer
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService. The mailer may be nil, in
// which case assignment emails are skipped.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	listingCache cache.ListingCache,
	mailer notification.Mailer,
	logger *slog.Logger,
) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		cache:     listingCache,
		mailer:    mailer,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask creates a new task and notifies the assignee, if any.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.Title, input.Description, &input.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	task.DueDate = input.DueDate

	var assignee *domain.User
	if input.AssigneeID != nil {
		assignee, err = s.userStore.GetByID(ctx, *input.AssigneeID)
		if err != nil {
			s.logger.Debug("assignee lookup failed during task creation",
				"error", err,
				"assignee_id", *input.AssigneeID)
			return nil, fmt.Errorf("failed to resolve assignee: %w", err)
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"task_id", task.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.invalidateListings(ctx)
	if assignee != nil {
		s.notifyAssignment(ctx, task, assignee)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"creator_id", input.CreatorID)
	return task, nil
}

// ListTasks serves one page of the all-tasks listing through the cache.
// Cache failures degrade to a store read; they never fail the listing.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	page, limit = normalizePaging(page, limit)
	key := cache.ListingKey(page, limit, filterStatus(filter), filterSearch(filter))

	if s.cache != nil {
		cached, hit, err := s.cache.GetPage(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed, falling back to store",
				"error", err,
				"key", key)
		} else if hit {
			s.logger.Debug("listing served from cache", "key", key)
			return cached, nil
		}
	}

	result, err := s.taskStore.List(ctx, page, limit, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, key, result); err != nil {
			s.logger.Warn("failed to cache listing page",
				"error", err,
				"key", key)
		}
	}

	return result, nil
}

// ListUserTasks returns one page of the user's own tasks, straight from
// the store. Per-user pages are not cached; the shared listing namespace
// only holds the all-tasks view.
func (s *TaskServiceImpl) ListUserTasks(ctx context.Context, userID uuid.UUID, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	page, limit = normalizePaging(page, limit)

	result, err := s.taskStore.ListForUser(ctx, userID, page, limit, filter)
	if err != nil {
		s.logger.Error("failed to list user tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}

	return result, nil
}

// GetTask retrieves a task by its ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to get task", "error", err, "task_id", id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update and notifies a newly assigned user.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var assignee *domain.User
	if update.AssigneeID != nil {
		existing, err := s.taskStore.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get task: %w", err)
		}

		newAssignee := existing.AssigneeID == nil || *existing.AssigneeID != *update.AssigneeID
		assignee, err = s.userStore.GetByID(ctx, *update.AssigneeID)
		if err != nil {
			s.logger.Debug("assignee lookup failed during task update",
				"error", err,
				"assignee_id", *update.AssigneeID)
			return nil, fmt.Errorf("failed to resolve assignee: %w", err)
		}
		if !newAssignee {
			// Re-assigning to the current assignee sends no email.
			assignee = nil
		}
	}

	task, err := s.taskStore.Update(ctx, id, update)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to update task", "error", err, "task_id", id)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.invalidateListings(ctx)
	if assignee != nil {
		s.notifyAssignment(ctx, task, assignee)
	}

	s.logger.Info("task updated", "task_id", id)
	return task, nil
}

// DeleteTask removes a task and invalidates the cached listings.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task", "error", err, "task_id", id)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.invalidateListings(ctx)

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// AssignTask assigns the task to the given user and notifies them.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	return s.UpdateTask(ctx, taskID, store.TaskUpdate{AssigneeID: &userID})
}

// invalidateListings drops every cached listing page. A cache failure
// here only means stale pages live until their TTL runs out.
func (s *TaskServiceImpl) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.logger.Warn("failed to invalidate cached listings", "error", err)
	}
}

// notifyAssignment sends the assignment email in the background. The
// request finishes without waiting on the mail relay; a failed send is
// only logged.
func (s *TaskServiceImpl) notifyAssignment(ctx context.Context, task *domain.Task, assignee *domain.User) {
	if s.mailer == nil {
		return
	}

	go func(ctx context.Context) {
		err := s.mailer.SendAssignment(ctx, assignee.Email, assignee.FullName(), task.Title, task.Description, task.DueDate)
		if err != nil {
			s.logger.Error("failed to send assignment email",
				"error", err,
				"task_id", task.ID,
				"assignee_id", assignee.ID)
		}
	}(context.WithoutCancel(ctx))
}

// normalizePaging clamps paging parameters to their defaults so the
// cache key and the store query always agree.
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func filterStatus(filter store.ListFilter) string {
	if filter.Status == nil {
		return ""
	}
	return string(*filter.Status)
}

func filterSearch(filter store.ListFilter) string {
	if filter.Search == nil {
		return ""
	}
	return *filter.Search
}
