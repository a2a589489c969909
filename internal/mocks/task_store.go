package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, task *domain.Task) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn        func(ctx context.Context, page, limit int, filter store.ListFilter) (*store.TaskPage, error)
	ListForUserFn func(ctx context.Context, userID uuid.UUID, page, limit int, filter store.ListFilter) (*store.TaskPage, error)
	ListOverdueFn func(ctx context.Context, before time.Time) ([]*domain.OverdueTask, error)
	UpdateFn      func(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task

	// Call counters for asserting interactions
	ListCalls        int
	ListForUserCalls int
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	m.ListCalls++
	if m.ListFn != nil {
		return m.ListFn(ctx, page, limit, filter)
	}

	return m.pageOf(m.matching(filter, nil), page, limit), nil
}

// ListForUser implements the TaskStore interface
func (m *MockTaskStore) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	m.ListForUserCalls++
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, page, limit, filter)
	}

	return m.pageOf(m.matching(filter, &userID), page, limit), nil
}

// ListOverdue implements the TaskStore interface
func (m *MockTaskStore) ListOverdue(ctx context.Context, before time.Time) ([]*domain.OverdueTask, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, before)
	}

	var overdue []*domain.OverdueTask
	for _, task := range m.Tasks {
		if task.IsOverdue(before) {
			overdue = append(overdue, &domain.OverdueTask{
				TaskID:  task.ID,
				Title:   task.Title,
				DueDate: *task.DueDate,
			})
		}
	}
	return overdue, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.AssigneeID != nil {
		task.AssigneeID = update.AssigneeID
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

func (m *MockTaskStore) matching(filter store.ListFilter, userID *uuid.UUID) []*domain.Task {
	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if userID != nil {
			mine := (task.CreatorID != nil && *task.CreatorID == *userID) ||
				(task.AssigneeID != nil && *task.AssigneeID == *userID)
			if !mine {
				continue
			}
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

func (m *MockTaskStore) pageOf(tasks []*domain.Task, page, limit int) *store.TaskPage {
	total := len(tasks)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &store.TaskPage{
		Tasks:      tasks[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}
