package domain

import "time"

// Task is a to-do owned by a person, optionally tied to a matter.
type Task struct {
	Model
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"dueDate" db:"due_date"`
	OwnerID     int64        `json:"ownerId" db:"owner_id"`
	MatterID    *int64       `json:"matterId" db:"matter_id"`

	AssigneeIDs []int64   `json:"assigneeIds" db:"-"`
	Owner       *Person   `json:"owner,omitempty" db:"-"`
	Matter      *Matter   `json:"matter,omitempty" db:"-"`
	Assignees   []*Person `json:"assignees,omitempty" db:"-"`
}

// User is a login account, optionally tied to a Person.
type User struct {
	Model
	Username     string  `json:"username" db:"username"`
	Email        string  `json:"email" db:"email"`
	Name         *string `json:"name" db:"name"`
	PasswordHash string  `json:"-" db:"password_hash"`
	PersonID     *int64  `json:"personId" db:"person_id"`

	Person *Person `json:"person,omitempty" db:"-"`
}
