package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
)

func TestMatterService_Validation(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "1234567")

	tests := []struct {
		name    string
		in      MatterInput
		wantMsg string
	}{
		{
			name:    "missing fields",
			in:      MatterInput{MatterName: Val("Name")},
			wantMsg: "Missing required fields: matterNumber, clientId",
		},
		{
			name:    "five digits",
			in:      MatterInput{MatterNumber: Val("12345"), MatterName: Val("Name"), ClientID: Val(c.ID)},
			wantMsg: "Matter number must be exactly 6 digits",
		},
		{
			name: "bad status",
			in: MatterInput{
				MatterNumber: Val("123456"), MatterName: Val("Name"), ClientID: Val(c.ID),
				Status: Val(domain.MatterStatus("ARCHIVED")),
			},
			wantMsg: "Invalid matter status",
		},
		{
			name:    "unknown client",
			in:      MatterInput{MatterNumber: Val("123456"), MatterName: Val("Name"), ClientID: Val(int64(77))},
			wantMsg: "Client not found",
		},
		{
			name: "unknown person",
			in: MatterInput{
				MatterNumber: Val("123456"), MatterName: Val("Name"), ClientID: Val(c.ID),
				PersonIDs: Val([]int64{77}),
			},
			wantMsg: "Person not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Matters.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, errors.PublicMessage(err))
			assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
		})
	}
}

func TestMatterService_CreateDefaultsAndHydrates(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "1234567")
	p := f.person(t, "Ann", domain.PersonTypeVendor)

	m := f.matter(t, c.ID, "123456", p.ID)

	assert.Equal(t, domain.MatterStatusCollection, m.Status)
	require.NotNil(t, m.Client)
	assert.Equal(t, c.ClientName, m.Client.ClientName)
	require.Len(t, m.People, 1)
	assert.Equal(t, p.ID, m.People[0].ID)
}

func TestMatterService_AutoLinksStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	first := f.person(t, "Ann", domain.PersonTypeAttorney)
	second := f.person(t, "Bob", domain.PersonTypeAttorney)
	paralegal := f.person(t, "Cat", domain.PersonTypeParalegal)
	pm := f.person(t, "Dee", domain.PersonTypeProjectManager)
	vendorContact := f.person(t, "Eve", domain.PersonTypeVendor)

	f.matter(t, c.ID, "123456", first.ID, second.ID, paralegal.ID, pm.ID, vendorContact.ID)

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttorneyID)
	assert.Equal(t, first.ID, *got.AttorneyID)
	require.NotNil(t, got.ParalegalID)
	assert.Equal(t, paralegal.ID, *got.ParalegalID)
	require.NotNil(t, got.ProjectManagerID)
	assert.Equal(t, pm.ID, *got.ProjectManagerID)

	links := f.events.find("client", events.ActionStaffLinked)
	require.Len(t, links, 3)
	assert.Equal(t, string(domain.SlotAttorney), links[0].Payload["slot"])
	assert.Equal(t, first.ID, links[0].Payload["personId"])
}

func TestMatterService_AutoLinkNeverOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	first := f.person(t, "Ann", domain.PersonTypeAttorney)
	second := f.person(t, "Bob", domain.PersonTypeAttorney)

	m := f.matter(t, c.ID, "123456", first.ID)
	_, err := f.svc.Matters.AssignPeople(ctx, m.ID, []int64{second.ID})
	require.NoError(t, err)

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttorneyID)
	assert.Equal(t, first.ID, *got.AttorneyID)

	matter, err := f.svc.Matters.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, matter.People, 2)
}

func TestMatterService_UpdateMovesClientAndRelinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.client(t, "1111111")
	to := f.client(t, "2222222")
	attorney := f.person(t, "Ann", domain.PersonTypeAttorney)
	m := f.matter(t, from.ID, "123456", attorney.ID)

	_, err := f.svc.Matters.Update(ctx, m.ID, MatterInput{ClientID: Val(to.ID)})
	require.NoError(t, err)

	got, err := f.svc.Clients.Get(ctx, to.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttorneyID)
	assert.Equal(t, attorney.ID, *got.AttorneyID)
}

func TestMatterService_UpdateReplacesPeople(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	a := f.person(t, "Ann", domain.PersonTypeVendor)
	b := f.person(t, "Bob", domain.PersonTypeVendor)
	m := f.matter(t, c.ID, "123456", a.ID)

	got, err := f.svc.Matters.Update(ctx, m.ID, MatterInput{PersonIDs: Val([]int64{b.ID})})
	require.NoError(t, err)
	require.Len(t, got.People, 1)
	assert.Equal(t, b.ID, got.People[0].ID)

	got, err = f.svc.Matters.Update(ctx, m.ID, MatterInput{MatterName: Val("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.MatterName)
	assert.Len(t, got.People, 1, "absent personIds keeps assignments")
}

func TestMatterService_RemovePersonKeepsSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	attorney := f.person(t, "Ann", domain.PersonTypeAttorney)
	m := f.matter(t, c.ID, "123456", attorney.ID)

	got, err := f.svc.Matters.RemovePerson(ctx, m.ID, attorney.ID)
	require.NoError(t, err)
	assert.Empty(t, got.People)

	client, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, client.AttorneyID)

	_, err = f.svc.Matters.RemovePerson(ctx, m.ID, attorney.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestMatterService_ListByClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "1111111")
	b := f.client(t, "2222222")
	f.matter(t, a.ID, "100001")
	f.matter(t, a.ID, "100002")
	f.matter(t, b.ID, "200001")

	got, err := f.svc.Matters.ListByClient(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = f.svc.Matters.ListByClient(ctx, 999)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestPersonService_AutoLinksThroughMatters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	m := f.matter(t, c.ID, "123456")

	p, err := f.svc.People.Create(ctx, PersonInput{
		FirstName: Val("Pat"),
		LastName:  Val("Legal"),
		Type:      Val(domain.PersonTypeParalegal),
		MatterIDs: Val([]int64{m.ID}),
	})
	require.NoError(t, err)
	require.Len(t, p.Matters, 1)

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParalegalID)
	assert.Equal(t, p.ID, *got.ParalegalID)
}

func TestPersonService_TypeChangeRelinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	p := f.person(t, "Val", domain.PersonTypeVendor)
	f.matter(t, c.ID, "123456", p.ID)

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AttorneyID)

	_, err = f.svc.People.Update(ctx, p.ID, PersonInput{Type: Val(domain.PersonTypeAttorney)})
	require.NoError(t, err)

	got, err = f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttorneyID)
	assert.Equal(t, p.ID, *got.AttorneyID)
}

func TestPersonService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.People.Create(ctx, PersonInput{FirstName: Val("A"), LastName: Val("B"), Type: Val(domain.PersonType("JUDGE"))})
	assert.Equal(t, "Invalid person type", errors.PublicMessage(err))

	_, err = f.svc.People.Create(ctx, PersonInput{
		FirstName: Val("A"), LastName: Val("B"), Type: Val(domain.PersonTypeAttorney), Email: Val("nope"),
	})
	assert.Equal(t, "Invalid email format", errors.PublicMessage(err))

	_, err = f.svc.People.Create(ctx, PersonInput{FirstName: Val("A")})
	assert.Equal(t, "Missing required fields: lastName, type", errors.PublicMessage(err))
}

func TestPersonService_DeleteClearsClientSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	attorney := f.person(t, "Ann", domain.PersonTypeAttorney)
	f.matter(t, c.ID, "123456", attorney.ID)

	require.NoError(t, f.svc.People.Delete(ctx, attorney.ID))

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AttorneyID)
}
