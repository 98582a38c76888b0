package postgres

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

var (
	tasksTable = table{
		name:     "tasks",
		resource: "Task",
		columns:  "id, title, description, status, priority, due_date, owner_id, matter_id, created_at, updated_at",
		orderBy:  "due_date ASC NULLS LAST, id",
	}
	usersTable = table{
		name:     "users",
		resource: "User",
		columns:  "id, username, email, name, password_hash, person_id, created_at, updated_at",
		orderBy:  "username",
	}
)

type taskRepository struct {
	crud[domain.Task]
}

func (r *taskRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Task, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *taskRepository) ListForPerson(ctx context.Context, personID int64) ([]*domain.Task, error) {
	return r.listWhere(ctx,
		"owner_id = $1 OR id IN (SELECT task_id FROM task_assignees WHERE person_id = $1)", personID)
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	query := `
		INSERT INTO tasks (title, description, status, priority, due_date, owner_id, matter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.DueDate,
		t.OwnerID,
		t.MatterID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create task")
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $2,
		    description = $3,
		    status = $4,
		    priority = $5,
		    due_date = $6,
		    owner_id = $7,
		    matter_id = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.OwnerID, t.MatterID)
	return scanUpdated(row, &t.Model, "Task", t.ID)
}

func (r *taskRepository) AssigneeIDs(ctx context.Context, taskID int64) ([]int64, error) {
	return linkedIDs(ctx, r.q, "task_assignees", "task_id", "person_id", taskID)
}

func (r *taskRepository) ReplaceAssignees(ctx context.Context, taskID int64, personIDs []int64) error {
	return replaceLinks(ctx, r.q, "task_assignees", "task_id", "person_id", taskID, personIDs)
}

type userRepository struct {
	crud[domain.User]
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	users, err := r.listWhere(ctx, "LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)", login)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.NotFound("User", login)
	}
	return users[0], nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, name, password_hash, person_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, u.Username, u.Email, u.Name, u.PasswordHash, u.PersonID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, name = $4, password_hash = $5, person_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, u.ID, u.Username, u.Email, u.Name, u.PasswordHash, u.PersonID)
	return scanUpdated(row, &u.Model, "User", u.ID)
}
