package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// MatterService handles matters and their staff assignments.
type MatterService struct {
	base
}

// NewMatterService creates a new matter service.
func NewMatterService(b base) *MatterService {
	return &MatterService{base: b}
}

// MatterInput is the body of a matter create or update. PersonIDs replaces
// the assigned people when present.
type MatterInput struct {
	MatterNumber Field[string]              `json:"matterNumber"`
	MatterName   Field[string]              `json:"matterName"`
	ClientID     Field[int64]               `json:"clientId"`
	Status       Field[domain.MatterStatus] `json:"status"`
	PersonIDs    Field[[]int64]             `json:"personIds"`
}

func (s *MatterService) List(ctx context.Context) ([]*domain.Matter, error) {
	matters, err := s.store.Matters().List(ctx)
	if err != nil {
		return nil, err
	}
	return matters, hydrateMatters(ctx, s.store, matters)
}

// ListByClient returns the matters of an existing client.
func (s *MatterService) ListByClient(ctx context.Context, clientID int64) ([]*domain.Matter, error) {
	if _, err := s.store.Clients().GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	matters, err := s.store.Matters().ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return matters, hydrateMatters(ctx, s.store, matters)
}

func (s *MatterService) Get(ctx context.Context, id int64) (*domain.Matter, error) {
	m, err := s.store.Matters().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m, hydrateMatters(ctx, s.store, []*domain.Matter{m})
}

// Create stores a matter, assigns its people and auto-links staff to the
// client in one transaction.
func (s *MatterService) Create(ctx context.Context, in MatterInput) (*domain.Matter, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	m := &domain.Matter{Status: domain.MatterStatusCollection}
	s.apply(m, in)
	personIDs := dedupe(in.PersonIDs.Value)

	var links []staffLink
	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Matters().Create(ctx, m); err != nil {
			return err
		}
		if err := tx.Assignments().ReplaceForMatter(ctx, m.ID, personIDs); err != nil {
			return err
		}
		var err error
		links, err = linkPeople(ctx, tx, m.ClientID, personIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("matter_id", m.ID).
		Str("matter_number", m.MatterNumber).
		Int64("client_id", m.ClientID).
		Int("people", len(personIDs)).
		Msg("Matter created")
	s.publish(ctx, "matter", events.ActionCreated, m.ID, nil)
	s.announceLinks(ctx, links)

	return s.Get(ctx, m.ID)
}

func (s *MatterService) Update(ctx context.Context, id int64, in MatterInput) (*domain.Matter, error) {
	m, err := s.store.Matters().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	previousClient := m.ClientID
	s.apply(m, in)

	var links []staffLink
	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Matters().Update(ctx, m); err != nil {
			return err
		}
		var err error
		switch {
		case in.PersonIDs.Set:
			personIDs := dedupe(in.PersonIDs.Value)
			if err := tx.Assignments().ReplaceForMatter(ctx, m.ID, personIDs); err != nil {
				return err
			}
			links, err = linkPeople(ctx, tx, m.ClientID, personIDs)
		case m.ClientID != previousClient:
			links, err = linkMatterStaff(ctx, tx, m)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("matter_id", m.ID).Msg("Matter updated")
	s.publish(ctx, "matter", events.ActionUpdated, m.ID, nil)
	s.announceLinks(ctx, links)

	return s.Get(ctx, m.ID)
}

// AssignPeople adds people to a matter without removing existing assignments.
func (s *MatterService) AssignPeople(ctx context.Context, matterID int64, personIDs []int64) (*domain.Matter, error) {
	m, err := s.store.Matters().GetByID(ctx, matterID)
	if err != nil {
		return nil, err
	}
	personIDs = dedupe(personIDs)
	if len(personIDs) == 0 {
		return nil, errors.InvalidInput("personIds", "Missing required fields: personIds")
	}
	if _, err := allFound[domain.Person](ctx, s.store.People(), "personIds", "Person", personIDs); err != nil {
		return nil, err
	}

	var links []staffLink
	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		for _, id := range personIDs {
			if err := tx.Assignments().Add(ctx, m.ID, id); err != nil {
				return err
			}
		}
		var err error
		links, err = linkPeople(ctx, tx, m.ClientID, personIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("matter_id", m.ID).Int("people", len(personIDs)).Msg("People assigned to matter")
	s.publish(ctx, "matter", events.ActionUpdated, m.ID, map[string]any{"assigned": personIDs})
	s.announceLinks(ctx, links)

	return s.Get(ctx, m.ID)
}

// RemovePerson unassigns a person. Client staff slots are left as they are.
func (s *MatterService) RemovePerson(ctx context.Context, matterID, personID int64) (*domain.Matter, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	if err := s.store.Assignments().Remove(ctx, matterID, personID); err != nil {
		return nil, err
	}

	s.log.Info().Int64("matter_id", matterID).Int64("person_id", personID).Msg("Person removed from matter")
	s.publish(ctx, "matter", events.ActionUpdated, matterID, map[string]any{"removed": personID})

	return s.Get(ctx, matterID)
}

// Delete removes a matter and everything it owns.
func (s *MatterService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Matters().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("matter_id", id).Msg("Matter deleted")
	s.publish(ctx, "matter", events.ActionDeleted, id, nil)
	return nil
}

func (s *MatterService) validate(ctx context.Context, in MatterInput, creating bool) error {
	var m missing
	need(&m, "matterNumber", in.MatterNumber, creating)
	need(&m, "matterName", in.MatterName, creating)
	need(&m, "clientId", in.ClientID, creating)
	if err := m.err(); err != nil {
		return err
	}

	if in.MatterNumber.Present() && !domain.ValidMatterNumber(trimmed(in.MatterNumber)) {
		return errors.InvalidInput("matterNumber", "Matter number must be exactly 6 digits")
	}
	if in.Status.Set && !in.Status.Value.Valid() {
		return errors.InvalidInput("status", "Invalid matter status")
	}
	if in.ClientID.Present() {
		if _, err := exists(ctx, "clientId", s.store.Clients().GetByID, in.ClientID.Value); err != nil {
			return err
		}
	}
	if in.PersonIDs.Present() {
		if _, err := allFound[domain.Person](ctx, s.store.People(), "personIds", "Person", dedupe(in.PersonIDs.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *MatterService) apply(m *domain.Matter, in MatterInput) {
	if in.MatterNumber.Present() {
		m.MatterNumber = trimmed(in.MatterNumber)
	}
	if in.MatterName.Present() {
		m.MatterName = trimmed(in.MatterName)
	}
	in.ClientID.apply(&m.ClientID)
	in.Status.apply(&m.Status)
}

// hydrateMatters loads each matter's client and assigned people.
func hydrateMatters(ctx context.Context, st repository.Store, matters []*domain.Matter) error {
	var clientIDs, personIDs idSet
	assigned := make(map[int64][]int64, len(matters))
	for _, m := range matters {
		clientIDs.add(m.ClientID)
		ids, err := st.Assignments().PersonIDs(ctx, m.ID)
		if err != nil {
			return err
		}
		assigned[m.ID] = ids
		for _, id := range ids {
			personIDs.add(id)
		}
	}

	clients, err := lookup[domain.Client](ctx, st.Clients(), clientIDs.ids)
	if err != nil {
		return err
	}
	people, err := lookup[domain.Person](ctx, st.People(), personIDs.ids)
	if err != nil {
		return err
	}
	for _, m := range matters {
		m.Client = clients[m.ClientID]
		m.People = collect(people, assigned[m.ID])
	}
	return nil
}

// collect returns the rows for ids in ids order, skipping misses.
func collect[T any](rows map[int64]*T, ids []int64) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if row, ok := rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}
