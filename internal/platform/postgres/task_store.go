package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/platform/logger"
	"github.com/arolitec/taskboard-api/internal/store"
)

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, title, description, status, due_date, creator_id, assignee_id, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection that should be
// initialized and managed by the caller. If logger is nil, the default
// logger is used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Create implements store.TaskStore.Create.
// Returns store.ErrInvalidEntity when a referenced user does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.CreatorID,
		task.AssigneeID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return mapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, mapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	where, args := buildListFilter(filter, nil)
	return s.listPage(ctx, page, limit, where, args)
}

// ListForUser implements store.TaskStore.ListForUser.
// A task belongs to the user's view when they created it or are assigned it.
func (s *PostgresTaskStore) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int, filter store.ListFilter) (*store.TaskPage, error) {
	where, args := buildListFilter(filter, &userID)
	return s.listPage(ctx, page, limit, where, args)
}

// listPage runs the count and page queries for a listing and assembles the
// TaskPage, including the pre-pagination total and the derived page count.
func (s *PostgresTaskStore) listPage(ctx context.Context, page, limit int, where string, args []any) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	countQuery := "SELECT COUNT(*) FROM tasks" + where

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)+1, len(args)+2,
	)
	pageArgs := append(append([]any{}, args...), limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return &store.TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

// ListOverdue implements store.TaskStore.ListOverdue.
// It joins the assignee so the dispatcher can address the notification
// without a second query; unassigned tasks come back with a nil contact.
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, before time.Time) ([]*domain.OverdueTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.title, t.due_date, u.email, u.first_name, u.last_name
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assignee_id
		WHERE t.due_date < $1 AND t.status = $2
	`

	rows, err := s.db.QueryContext(ctx, query, before, domain.TaskStatusPending)
	if err != nil {
		log.Error("failed to query overdue tasks", slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var overdue []*domain.OverdueTask
	for rows.Next() {
		var (
			item      domain.OverdueTask
			email     sql.NullString
			firstName sql.NullString
			lastName  sql.NullString
		)
		if err := rows.Scan(&item.TaskID, &item.Title, &item.DueDate, &email, &firstName, &lastName); err != nil {
			return nil, mapError(err)
		}
		if email.Valid {
			item.Assignee = &domain.Contact{
				Email:     email.String,
				FirstName: firstName.String,
				LastName:  lastName.String,
			}
		}
		overdue = append(overdue, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return overdue, nil
}

// Update implements store.TaskStore.Update.
// Only the fields set on the update are written; updated_at always is.
func (s *PostgresTaskStore) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.DueDate != nil {
		addSet("due_date", *update.DueDate)
	}
	if update.AssigneeID != nil {
		addSet("assignee_id", *update.AssigneeID)
	}
	addSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), taskColumns,
	)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, mapError(err)
	}

	return task, nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return mapError(err)
	}

	return checkRowsAffected(result, store.ErrTaskNotFound)
}

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		dueDate     sql.NullTime
		creatorID   uuid.NullUUID
		assigneeID  uuid.NullUUID
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&dueDate,
		&creatorID,
		&assigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if creatorID.Valid {
		id := creatorID.UUID
		task.CreatorID = &id
	}
	if assigneeID.Valid {
		id := assigneeID.UUID
		task.AssigneeID = &id
	}

	return &task, nil
}

// buildListFilter assembles the WHERE clause and arguments for a listing
// query. When userID is non-nil the listing is scoped to tasks the user
// created or is assigned to. The search term matches title or description
// case-insensitively.
func buildListFilter(filter store.ListFilter, userID *uuid.UUID) (string, []any) {
	conditions := []string{}
	args := []any{}

	if userID != nil {
		args = append(args, *userID)
		conditions = append(conditions,
			fmt.Sprintf("(creator_id = $%d OR assignee_id = $%d)", len(args), len(args)))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// totalPages computes ceil(total/limit), with zero pages for an empty result.
func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
