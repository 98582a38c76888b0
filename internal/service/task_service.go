package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// TaskService handles tasks and their assignees.
type TaskService struct {
	base
}

// NewTaskService creates a new task service.
func NewTaskService(b base) *TaskService {
	return &TaskService{base: b}
}

// TaskInput is the body of a task create or update. DueDate is a calendar
// date; any time of day is discarded.
type TaskInput struct {
	Title       Field[string]              `json:"title"`
	Description Field[string]              `json:"description"`
	Status      Field[domain.TaskStatus]   `json:"status"`
	Priority    Field[domain.TaskPriority] `json:"priority"`
	DueDate     Field[string]              `json:"dueDate"`
	OwnerID     Field[int64]               `json:"ownerId"`
	MatterID    Field[int64]               `json:"matterId"`
	AssigneeIDs Field[[]int64]             `json:"assigneeIds"`
}

func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.store.Tasks().List(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, hydrateTasks(ctx, s.store, tasks)
}

func (s *TaskService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Task, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return tasks, hydrateTasks(ctx, s.store, tasks)
}

// ListForPerson returns tasks the person owns or is assigned to.
func (s *TaskService) ListForPerson(ctx context.Context, personID int64) ([]*domain.Task, error) {
	if _, err := s.store.People().GetByID(ctx, personID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().ListForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	return tasks, hydrateTasks(ctx, s.store, tasks)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := s.store.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return t, hydrateTasks(ctx, s.store, []*domain.Task{t})
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	t := &domain.Task{Status: domain.TaskStatusNotStarted, Priority: domain.TaskPriorityMedium}
	if err := s.apply(t, in); err != nil {
		return nil, err
	}
	assignees := dedupe(in.AssigneeIDs.Value)
	if err := s.check(ctx, t, assignees); err != nil {
		return nil, err
	}

	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Tasks().Create(ctx, t); err != nil {
			return err
		}
		return tx.Tasks().ReplaceAssignees(ctx, t.ID, assignees)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("task_id", t.ID).
		Int64("owner_id", t.OwnerID).
		Int("assignees", len(assignees)).
		Msg("Task created")
	s.publish(ctx, "task", events.ActionCreated, t.ID, map[string]any{"assigneeIds": assignees})

	return s.Get(ctx, t.ID)
}

func (s *TaskService) Update(ctx context.Context, id int64, in TaskInput) (*domain.Task, error) {
	t, err := s.store.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	if err := s.apply(t, in); err != nil {
		return nil, err
	}
	assignees := dedupe(in.AssigneeIDs.Value)
	if err := s.check(ctx, t, assignees); err != nil {
		return nil, err
	}

	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Tasks().Update(ctx, t); err != nil {
			return err
		}
		if !in.AssigneeIDs.Set {
			return nil
		}
		return tx.Tasks().ReplaceAssignees(ctx, t.ID, assignees)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("task_id", t.ID).Str("status", string(t.Status)).Msg("Task updated")
	s.publish(ctx, "task", events.ActionUpdated, t.ID, nil)

	return s.Get(ctx, t.ID)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Tasks().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("task_id", id).Msg("Task deleted")
	s.publish(ctx, "task", events.ActionDeleted, id, nil)
	return nil
}

func (s *TaskService) validateInput(in TaskInput, creating bool) error {
	var m missing
	need(&m, "title", in.Title, creating)
	need(&m, "ownerId", in.OwnerID, creating)
	if err := m.err(); err != nil {
		return err
	}
	if in.Status.Set && !in.Status.Value.Valid() {
		return errors.InvalidInput("status", "Invalid task status")
	}
	if in.Priority.Set && !in.Priority.Value.Valid() {
		return errors.InvalidInput("priority", "Invalid task priority")
	}
	return nil
}

func (s *TaskService) apply(t *domain.Task, in TaskInput) error {
	if in.Title.Present() {
		t.Title = trimmed(in.Title)
	}
	optionalText(&t.Description, in.Description)
	in.Status.apply(&t.Status)
	in.Priority.apply(&t.Priority)
	in.OwnerID.apply(&t.OwnerID)
	in.MatterID.applyPtr(&t.MatterID)
	return applyDate("dueDate", in.DueDate, &t.DueDate)
}

func (s *TaskService) check(ctx context.Context, t *domain.Task, assignees []int64) error {
	if _, err := exists(ctx, "ownerId", s.store.People().GetByID, t.OwnerID); err != nil {
		return err
	}
	if t.MatterID != nil {
		if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, *t.MatterID); err != nil {
			return err
		}
	}
	_, err := allFound[domain.Person](ctx, s.store.People(), "assigneeIds", "Person", assignees)
	return err
}

// hydrateTasks loads owners, matters and assignees.
func hydrateTasks(ctx context.Context, st repository.Store, tasks []*domain.Task) error {
	var personIDs, matterIDs idSet
	assigned := make(map[int64][]int64, len(tasks))
	for _, t := range tasks {
		personIDs.add(t.OwnerID)
		matterIDs.addPtr(t.MatterID)
		ids, err := st.Tasks().AssigneeIDs(ctx, t.ID)
		if err != nil {
			return err
		}
		assigned[t.ID] = ids
		for _, id := range ids {
			personIDs.add(id)
		}
	}

	people, err := lookup[domain.Person](ctx, st.People(), personIDs.ids)
	if err != nil {
		return err
	}
	matters, err := lookup[domain.Matter](ctx, st.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		t.Owner = people[t.OwnerID]
		t.Matter = pick(matters, t.MatterID)
		t.AssigneeIDs = assigned[t.ID]
		t.Assignees = collect(people, assigned[t.ID])
	}
	return nil
}
