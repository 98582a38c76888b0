package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

func TestTaskService_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.person(t, "Ann", domain.PersonTypeAttorney)
	helper := f.person(t, "Bob", domain.PersonTypeParalegal)
	c := f.client(t, "1234567")
	m := f.matter(t, c.ID, "123456")

	task, err := f.svc.Tasks.Create(ctx, TaskInput{
		Title:       Val("  Draft hold notice "),
		OwnerID:     Val(owner.ID),
		MatterID:    Val(m.ID),
		DueDate:     Val("2024-06-30T23:15:00Z"),
		AssigneeIDs: Val([]int64{helper.ID, helper.ID}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Draft hold notice", task.Title)
	assert.Equal(t, domain.TaskStatusNotStarted, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, 2024, task.DueDate.Year())
	assert.Equal(t, time.June, task.DueDate.Month())
	assert.Equal(t, 30, task.DueDate.Day())
	assert.Zero(t, task.DueDate.Hour())
	require.NotNil(t, task.Owner)
	assert.Equal(t, owner.ID, task.Owner.ID)
	require.NotNil(t, task.Matter)
	assert.Equal(t, []int64{helper.ID}, task.AssigneeIDs)
	require.Len(t, task.Assignees, 1)
}

func TestTaskService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.person(t, "Ann", domain.PersonTypeAttorney)

	tests := []struct {
		name    string
		in      TaskInput
		wantMsg string
	}{
		{"missing", TaskInput{}, "Missing required fields: title, ownerId"},
		{"unknown owner", TaskInput{Title: Val("x"), OwnerID: Val(int64(404))}, "Person not found"},
		{"bad status", TaskInput{Title: Val("x"), OwnerID: Val(owner.ID), Status: Val(domain.TaskStatus("DONE"))}, "Invalid task status"},
		{"bad priority", TaskInput{Title: Val("x"), OwnerID: Val(owner.ID), Priority: Val(domain.TaskPriority("P0"))}, "Invalid task priority"},
		{"bad date", TaskInput{Title: Val("x"), OwnerID: Val(owner.ID), DueDate: Val("tomorrow")}, "Invalid date for dueDate"},
		{"unknown assignee", TaskInput{Title: Val("x"), OwnerID: Val(owner.ID), AssigneeIDs: Val([]int64{404})}, "Person not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Tasks.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, errors.PublicMessage(err))
			assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
		})
	}
}

func TestTaskService_UpdateAndListForPerson(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.person(t, "Ann", domain.PersonTypeAttorney)
	helper := f.person(t, "Bob", domain.PersonTypeParalegal)

	task, err := f.svc.Tasks.Create(ctx, TaskInput{Title: Val("Review"), OwnerID: Val(owner.ID)})
	require.NoError(t, err)

	mine, err := f.svc.Tasks.ListForPerson(ctx, helper.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	task, err = f.svc.Tasks.Update(ctx, task.ID, TaskInput{
		Status:      Val(domain.TaskStatusBlocked),
		AssigneeIDs: Val([]int64{helper.ID}),
		DueDate:     Val("2024-01-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusBlocked, task.Status)
	assert.Equal(t, "Review", task.Title)

	mine, err = f.svc.Tasks.ListForPerson(ctx, helper.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, task.ID, mine[0].ID)

	task, err = f.svc.Tasks.Update(ctx, task.ID, TaskInput{DueDate: Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
	assert.Len(t, task.AssigneeIDs, 1, "absent assigneeIds keeps assignees")
}
