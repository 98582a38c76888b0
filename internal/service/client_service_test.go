package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
)

func TestClientService_CreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		in         ClientInput
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "missing fields",
			in:         ClientInput{},
			wantMsg:    "Missing required fields: clientNumber, clientName",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "six digits",
			in:         ClientInput{ClientNumber: Val("123456"), ClientName: Val("Acme")},
			wantMsg:    "Client number must be exactly 7 digits",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "letters",
			in:         ClientInput{ClientNumber: Val("12345a7"), ClientName: Val("Acme")},
			wantMsg:    "Client number must be exactly 7 digits",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank name",
			in:         ClientInput{ClientNumber: Val("1234567"), ClientName: Val("  ")},
			wantMsg:    "Missing required fields: clientName",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown attorney",
			in:         ClientInput{ClientNumber: Val("1234567"), ClientName: Val("Acme"), AttorneyID: Val(int64(99))},
			wantMsg:    "Person not found",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Clients.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, errors.PublicMessage(err))
			assert.Equal(t, tt.wantStatus, errors.HTTPStatus(err))
		})
	}
}

func TestClientService_CreateTrimsAndPublishes(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Clients.Create(context.Background(), ClientInput{
		ClientNumber: Val(" 1234567 "),
		ClientName:   Val("  Acme Corp "),
	})
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, "1234567", c.ClientNumber)
	assert.Equal(t, "Acme Corp", c.ClientName)
	assert.Empty(t, c.Matters)
	require.Len(t, f.events.find("client", events.ActionCreated), 1)
}

func TestClientService_DuplicateNumber(t *testing.T) {
	f := newFixture(t)
	f.client(t, "1234567")

	_, err := f.svc.Clients.Create(context.Background(), ClientInput{
		ClientNumber: Val("1234567"),
		ClientName:   Val("Other"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))
	assert.Equal(t, "A client with this client number already exists", errors.PublicMessage(err))
}

func TestClientService_UpdateClearsStaffWithNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	attorney := f.person(t, "Ann", "ATTORNEY")

	c, err := f.svc.Clients.Create(ctx, ClientInput{
		ClientNumber: Val("1234567"),
		ClientName:   Val("Acme"),
		AttorneyID:   Val(attorney.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, c.Attorney)
	assert.Equal(t, "Ann", c.Attorney.FirstName)

	// Absent fields keep their values.
	c, err = f.svc.Clients.Update(ctx, c.ID, ClientInput{ClientName: Val("Acme Two")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Two", c.ClientName)
	require.NotNil(t, c.AttorneyID)

	c, err = f.svc.Clients.Update(ctx, c.ID, ClientInput{AttorneyID: Null[int64]()})
	require.NoError(t, err)
	assert.Nil(t, c.AttorneyID)
	assert.Nil(t, c.Attorney)
	assert.Equal(t, "1234567", c.ClientNumber)
}

func TestClientService_UpdateRejectsBlankRequired(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "1234567")

	_, err := f.svc.Clients.Update(context.Background(), c.ID, ClientInput{ClientName: Null[string]()})
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: clientName", errors.PublicMessage(err))
}

func TestClientService_DeleteCascadesMatters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "1234567")
	m := f.matter(t, c.ID, "123456")

	got, err := f.svc.Clients.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Matters, 1)

	require.NoError(t, f.svc.Clients.Delete(ctx, c.ID))

	_, err = f.svc.Matters.Get(ctx, m.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = f.svc.Clients.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Len(t, f.events.find("client", events.ActionDeleted), 1)
}

func TestClientService_DeleteUnknown(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Clients.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, "Client not found", errors.PublicMessage(err))
}
