package memory

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func seedMatter(t *testing.T, s *Store) (*domain.Client, *domain.Matter) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Client{ClientNumber: "1234567", ClientName: "Acme"}
	require.NoError(t, s.Clients().Create(ctx, c))
	m := &domain.Matter{MatterNumber: "123456", MatterName: "Acme v. Beta", ClientID: c.ID, Status: domain.MatterStatusCollection}
	require.NoError(t, s.Matters().Create(ctx, m))
	return c, m
}

func TestStore_CreateAssignsIDs(t *testing.T) {
	s := NewStore()
	c, m := seedMatter(t, s)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, int64(1), m.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := s.Clients().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.ClientName)
}

func TestStore_GetByIDNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.Matters().GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	assert.Equal(t, "Matter not found", err.Error())
}

func TestStore_UniqueNumbers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c, _ := seedMatter(t, s)

	err := s.Clients().Create(ctx, &domain.Client{ClientNumber: "1234567", ClientName: "Other"})
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))

	err = s.Matters().Create(ctx, &domain.Matter{MatterNumber: "123456", MatterName: "Dup", ClientID: c.ID})
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))

	// Updating a row with its own number is not a conflict.
	c.ClientName = "Acme Corp"
	assert.NoError(t, s.Clients().Update(ctx, c))
}

func TestStore_MissingReference(t *testing.T) {
	s := NewStore()
	err := s.Matters().Create(context.Background(), &domain.Matter{MatterNumber: "654321", MatterName: "x", ClientID: 99})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestStore_FillStaffSlot(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c, _ := seedMatter(t, s)
	first := &domain.Person{FirstName: "Ann", LastName: "Lee", Type: domain.PersonTypeAttorney}
	second := &domain.Person{FirstName: "Bob", LastName: "Ray", Type: domain.PersonTypeAttorney}
	require.NoError(t, s.People().Create(ctx, first))
	require.NoError(t, s.People().Create(ctx, second))

	filled, err := s.Clients().FillStaffSlot(ctx, c.ID, domain.SlotAttorney, first.ID)
	require.NoError(t, err)
	assert.True(t, filled)

	filled, err = s.Clients().FillStaffSlot(ctx, c.ID, domain.SlotAttorney, second.ID)
	require.NoError(t, err)
	assert.False(t, filled)

	got, err := s.Clients().GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttorneyID)
	assert.Equal(t, first.ID, *got.AttorneyID)
}

func TestStore_DeleteMatterCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, m := seedMatter(t, s)
	vendor := &domain.Organization{Name: "Vendor", Type: domain.OrganizationTypeVendor}
	require.NoError(t, s.Organizations().Create(ctx, vendor))
	p := &domain.Person{FirstName: "Ann", LastName: "Lee", Type: domain.PersonTypeParalegal}
	require.NoError(t, s.People().Create(ctx, p))
	require.NoError(t, s.Assignments().Add(ctx, m.ID, p.ID))

	e := &domain.Estimate{MatterID: m.ID, OrganizationID: vendor.ID, TotalCost: 10}
	require.NoError(t, s.Estimates().Create(ctx, e))
	task := &domain.Task{Title: "Call", OwnerID: p.ID, MatterID: &m.ID, Status: domain.TaskStatusNotStarted, Priority: domain.TaskPriorityMedium}
	require.NoError(t, s.Tasks().Create(ctx, task))

	require.NoError(t, s.Matters().Delete(ctx, m.ID))

	_, err := s.Estimates().GetByID(ctx, e.ID)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	ids, err := s.Assignments().MatterIDs(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	got, err := s.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MatterID)
}

func TestStore_DeleteOrganizationRestricted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	org := &domain.Organization{Name: "Acme", Type: domain.OrganizationTypeVendor}
	require.NoError(t, s.Organizations().Create(ctx, org))
	require.NoError(t, s.People().Create(ctx, &domain.Person{
		FirstName: "Ann", LastName: "Lee", Type: domain.PersonTypeVendor, OrganizationID: &org.ID,
	}))

	err := s.Organizations().Delete(ctx, org.ID)
	assert.Equal(t, errors.ErrCodeDependency, errors.CodeOf(err))
}

func TestStore_DeletePersonClearsReferences(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c, _ := seedMatter(t, s)
	p := &domain.Person{FirstName: "Ann", LastName: "Lee", Type: domain.PersonTypeAttorney}
	require.NoError(t, s.People().Create(ctx, p))
	_, err := s.Clients().FillStaffSlot(ctx, c.ID, domain.SlotAttorney, p.ID)
	require.NoError(t, err)

	require.NoError(t, s.People().Delete(ctx, p.ID))

	got, err := s.Clients().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AttorneyID)
}

func TestStore_InTransactionRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := s.InTransaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Organizations().Create(ctx, &domain.Organization{Name: "Temp", Type: domain.OrganizationTypeVendor}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orgs, err := s.Organizations().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestStore_InTransactionCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.InTransaction(ctx, func(tx repository.Store) error {
		return tx.Organizations().Create(ctx, &domain.Organization{Name: "Kept", Type: domain.OrganizationTypeVendor})
	})
	require.NoError(t, err)

	orgs, err := s.Organizations().ListByType(ctx, domain.OrganizationTypeVendor)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Kept", orgs[0].Name)
}

func TestStore_InTransactionCancelledBeforeCommit(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.InTransaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Organizations().Create(ctx, &domain.Organization{Name: "Late", Type: domain.OrganizationTypeVendor}))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	orgs, err := s.Organizations().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestStore_CountVendorDocuments(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, m := seedMatter(t, s)
	vendor := &domain.Organization{Name: "Acme Forensics", Type: domain.OrganizationTypeVendor}
	other := &domain.Organization{Name: "Other", Type: domain.OrganizationTypeVendor}
	require.NoError(t, s.Organizations().Create(ctx, vendor))
	require.NoError(t, s.Organizations().Create(ctx, other))

	require.NoError(t, s.Estimates().Create(ctx, &domain.Estimate{MatterID: m.ID, OrganizationID: vendor.ID, TotalCost: 10}))
	require.NoError(t, s.Estimates().Create(ctx, &domain.Estimate{MatterID: m.ID, OrganizationID: other.ID, TotalCost: 20}))
	require.NoError(t, s.Collections().Create(ctx, &domain.Collection{
		MatterID: m.ID, VendorID: &vendor.ID, Type: domain.CollectionTypeMobile, Status: domain.CollectionStatusDiscussing,
	}))

	n, err := s.Estimates().CountByOrganization(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Invoices().CountByOrganization(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Collections().CountByVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Collections().CountByVendor(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_UserLoginIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &domain.User{Username: "ann", Email: "Ann@Example.com", Name: ptr("Ann")}))

	u, err := s.Users().GetByLogin(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)

	err = s.Users().Create(ctx, &domain.User{Username: "ANN", Email: "other@example.com"})
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))
}

func TestStore_ListForPerson(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner := &domain.Person{FirstName: "Ann", LastName: "Lee", Type: domain.PersonTypeAttorney}
	other := &domain.Person{FirstName: "Bob", LastName: "Ray", Type: domain.PersonTypeParalegal}
	require.NoError(t, s.People().Create(ctx, owner))
	require.NoError(t, s.People().Create(ctx, other))

	owned := &domain.Task{Title: "Owned", OwnerID: owner.ID}
	assigned := &domain.Task{Title: "Assigned", OwnerID: other.ID}
	unrelated := &domain.Task{Title: "Unrelated", OwnerID: other.ID}
	for _, task := range []*domain.Task{owned, assigned, unrelated} {
		require.NoError(t, s.Tasks().Create(ctx, task))
	}
	require.NoError(t, s.Tasks().ReplaceAssignees(ctx, assigned.ID, []int64{owner.ID}))

	tasks, err := s.Tasks().ListForPerson(ctx, owner.ID)
	require.NoError(t, err)
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.ElementsMatch(t, []string{"Owned", "Assigned"}, titles)
}
