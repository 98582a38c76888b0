package memory

import (
	"cmp"
	"context"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

type taskRepository struct {
	crud[domain.Task, *domain.Task]
}

func newTaskRepository(s *Store) *taskRepository {
	return &taskRepository{crud[domain.Task, *domain.Task]{
		s:        s,
		tbl:      func(st *state) *table[domain.Task, *domain.Task] { return st.tasks },
		resource: "Task",
		order:    byDueDate,
	}}
}

// byDueDate sorts undated tasks last.
func byDueDate(a, b *domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r *taskRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.Task, error) {
	return r.find(func(t *domain.Task) bool { return t.MatterID != nil && *t.MatterID == matterID }), nil
}

func (r *taskRepository) ListForPerson(_ context.Context, personID int64) ([]*domain.Task, error) {
	var assigned map[int64]bool
	r.s.read(func(st *state) {
		assigned = make(map[int64]bool)
		for _, id := range st.taskAssignees.lefts(personID) {
			assigned[id] = true
		}
	})
	return r.find(func(t *domain.Task) bool { return t.OwnerID == personID || assigned[t.ID] }), nil
}

func (r *taskRepository) check(t *domain.Task) func(st *state) error {
	return func(st *state) error {
		return referenced(st.people.has(t.OwnerID), hasOptional(st.matters, t.MatterID))
	}
}

func (r *taskRepository) Create(_ context.Context, t *domain.Task) error {
	return r.insert(t, r.check(t))
}

func (r *taskRepository) Update(_ context.Context, t *domain.Task) error {
	return r.replace(t, r.check(t))
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.taskAssignees.dropLeft(id)
		return nil
	})
}

func (r *taskRepository) AssigneeIDs(_ context.Context, taskID int64) ([]int64, error) {
	var ids []int64
	r.s.read(func(st *state) { ids = st.taskAssignees.rights(taskID) })
	return ids, nil
}

func (r *taskRepository) ReplaceAssignees(_ context.Context, taskID int64, personIDs []int64) error {
	return r.s.write(func(st *state) error {
		if err := referenced(st.tasks.has(taskID), allExist(st.people, personIDs)); err != nil {
			return err
		}
		st.taskAssignees.setRights(taskID, personIDs)
		return nil
	})
}

type userRepository struct {
	crud[domain.User, *domain.User]
}

func newUserRepository(s *Store) *userRepository {
	return &userRepository{crud[domain.User, *domain.User]{
		s:        s,
		tbl:      func(st *state) *table[domain.User, *domain.User] { return st.users },
		resource: "User",
		order: func(a, b *domain.User) int {
			return strings.Compare(a.Username, b.Username)
		},
	}}
}

func (r *userRepository) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	users := r.find(func(u *domain.User) bool {
		return sameFold(u.Username, login) || sameFold(u.Email, login)
	})
	if len(users) == 0 {
		return nil, errors.NotFound("User", login)
	}
	return users[0], nil
}

func (r *userRepository) check(u *domain.User) func(st *state) error {
	return func(st *state) error {
		for _, other := range st.users.where(func(other *domain.User) bool { return other.ID != u.ID }) {
			if sameFold(other.Username, u.Username) {
				return errors.AlreadyExists("A user with this username already exists")
			}
			if sameFold(other.Email, u.Email) {
				return errors.AlreadyExists("A user with this email already exists")
			}
		}
		return referenced(hasOptional(st.people, u.PersonID))
	}
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	return r.insert(u, r.check(u))
}

func (r *userRepository) Update(_ context.Context, u *domain.User) error {
	return r.replace(u, r.check(u))
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, nil)
}
