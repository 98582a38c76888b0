package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/logger"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository/memory"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) find(entity string, action events.Action) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, ev := range r.events {
		if ev.Entity == entity && ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	svc    *Services
	store  *memory.Store
	events *recordedEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rec := &recordedEvents{}
	svc := New(store, rec, logger.Nop(), AuthConfig{Secret: []byte("test-secret")})
	svc.Users.cost = bcrypt.MinCost
	return &fixture{svc: svc, store: store, events: rec}
}

func (f *fixture) client(t *testing.T, number string) *domain.Client {
	t.Helper()
	c, err := f.svc.Clients.Create(context.Background(), ClientInput{
		ClientNumber: Val(number),
		ClientName:   Val("Client " + number),
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) matter(t *testing.T, clientID int64, number string, people ...int64) *domain.Matter {
	t.Helper()
	in := MatterInput{
		MatterNumber: Val(number),
		MatterName:   Val("Matter " + number),
		ClientID:     Val(clientID),
	}
	if len(people) > 0 {
		in.PersonIDs = Val(people)
	}
	m, err := f.svc.Matters.Create(context.Background(), in)
	require.NoError(t, err)
	return m
}

func (f *fixture) person(t *testing.T, first string, typ domain.PersonType, orgID ...int64) *domain.Person {
	t.Helper()
	in := PersonInput{
		FirstName: Val(first),
		LastName:  Val("Tester"),
		Type:      Val(typ),
	}
	if len(orgID) > 0 {
		in.OrganizationID = Val(orgID[0])
	}
	p, err := f.svc.People.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func (f *fixture) org(t *testing.T, name string, typ domain.OrganizationType) *domain.Organization {
	t.Helper()
	o, err := f.svc.Organizations.Create(context.Background(), OrganizationInput{
		Name: Val(name),
		Type: Val(typ),
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) custodian(t *testing.T, orgID int64) *domain.Custodian {
	t.Helper()
	c, err := f.svc.Custodians.Create(context.Background(), CustodianInput{
		Name:           Val("Dana Custodian"),
		OrganizationID: Val(orgID),
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) estimate(t *testing.T, matterID, orgID int64) *domain.Estimate {
	t.Helper()
	e, err := f.svc.Estimates.Create(context.Background(), EstimateInput{
		MatterID:       Val(matterID),
		OrganizationID: Val(orgID),
		TotalCost:      Val(1500.0),
	})
	require.NoError(t, err)
	return e
}
