package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// ClientService handles client business logic.
type ClientService struct {
	base
}

// NewClientService creates a new client service.
func NewClientService(b base) *ClientService {
	return &ClientService{base: b}
}

// ClientInput is the body of a client create or update.
type ClientInput struct {
	ClientNumber     Field[string] `json:"clientNumber"`
	ClientName       Field[string] `json:"clientName"`
	AttorneyID       Field[int64]  `json:"attorneyId"`
	ParalegalID      Field[int64]  `json:"paralegalId"`
	ProjectManagerID Field[int64]  `json:"projectManagerId"`
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.store.Clients().List(ctx)
	if err != nil {
		return nil, err
	}
	return clients, s.hydrate(ctx, clients)
}

func (s *ClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := s.store.Clients().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, s.hydrate(ctx, []*domain.Client{c})
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*domain.Client, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	c := &domain.Client{}
	s.apply(c, in)
	if err := s.store.Clients().Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("client_id", c.ID).
		Str("client_number", c.ClientNumber).
		Msg("Client created")
	s.publish(ctx, "client", events.ActionCreated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

func (s *ClientService) Update(ctx context.Context, id int64, in ClientInput) (*domain.Client, error) {
	c, err := s.store.Clients().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	s.apply(c, in)
	if err := s.store.Clients().Update(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Int64("client_id", c.ID).Msg("Client updated")
	s.publish(ctx, "client", events.ActionUpdated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

// Delete removes a client together with its matters.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Clients().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("client_id", id).Msg("Client deleted")
	s.publish(ctx, "client", events.ActionDeleted, id, nil)
	return nil
}

func (s *ClientService) validate(ctx context.Context, in ClientInput, creating bool) error {
	var m missing
	need(&m, "clientNumber", in.ClientNumber, creating)
	need(&m, "clientName", in.ClientName, creating)
	if err := m.err(); err != nil {
		return err
	}

	if in.ClientNumber.Present() && !domain.ValidClientNumber(trimmed(in.ClientNumber)) {
		return errors.InvalidInput("clientNumber", "Client number must be exactly 7 digits")
	}

	staff := []struct {
		field string
		id    Field[int64]
	}{
		{"attorneyId", in.AttorneyID},
		{"paralegalId", in.ParalegalID},
		{"projectManagerId", in.ProjectManagerID},
	}
	for _, slot := range staff {
		if !slot.id.Present() {
			continue
		}
		if _, err := exists(ctx, slot.field, s.store.People().GetByID, slot.id.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClientService) apply(c *domain.Client, in ClientInput) {
	if in.ClientNumber.Present() {
		c.ClientNumber = trimmed(in.ClientNumber)
	}
	if in.ClientName.Present() {
		c.ClientName = trimmed(in.ClientName)
	}
	in.AttorneyID.applyPtr(&c.AttorneyID)
	in.ParalegalID.applyPtr(&c.ParalegalID)
	in.ProjectManagerID.applyPtr(&c.ProjectManagerID)
}

func (s *ClientService) hydrate(ctx context.Context, clients []*domain.Client) error {
	return hydrateClients(ctx, s.store, clients, true)
}

// hydrateClients loads staff and, when withMatters is set, each client's
// matters.
func hydrateClients(ctx context.Context, st repository.Store, clients []*domain.Client, withMatters bool) error {
	var ids idSet
	for _, c := range clients {
		ids.addPtr(c.AttorneyID)
		ids.addPtr(c.ParalegalID)
		ids.addPtr(c.ProjectManagerID)
	}
	people, err := lookup[domain.Person](ctx, st.People(), ids.ids)
	if err != nil {
		return err
	}
	for _, c := range clients {
		c.Attorney = pick(people, c.AttorneyID)
		c.Paralegal = pick(people, c.ParalegalID)
		c.ProjectManager = pick(people, c.ProjectManagerID)
		if !withMatters {
			continue
		}
		if c.Matters, err = st.Matters().ListByClient(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func pick[T any](rows map[int64]*T, id *int64) *T {
	if id == nil {
		return nil
	}
	return rows[*id]
}
