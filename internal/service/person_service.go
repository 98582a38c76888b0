package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// PersonService handles people and their matter assignments.
type PersonService struct {
	base
}

// NewPersonService creates a new person service.
func NewPersonService(b base) *PersonService {
	return &PersonService{base: b}
}

// PersonInput is the body of a person create or update. MatterIDs replaces
// the person's matter assignments when present.
type PersonInput struct {
	FirstName      Field[string]            `json:"firstName"`
	LastName       Field[string]            `json:"lastName"`
	Email          Field[string]            `json:"email"`
	Phone          Field[string]            `json:"phone"`
	Type           Field[domain.PersonType] `json:"type"`
	OrganizationID Field[int64]             `json:"organizationId"`
	MatterIDs      Field[[]int64]           `json:"matterIds"`
}

// List returns people matching filter.
func (s *PersonService) List(ctx context.Context, filter repository.PersonFilter) ([]*domain.Person, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, errors.InvalidInput("type", "Invalid person type")
	}
	people, err := s.store.People().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return people, hydratePeople(ctx, s.store, people)
}

// ListByOrganization returns the people of an existing organization.
func (s *PersonService) ListByOrganization(ctx context.Context, organizationID int64) ([]*domain.Person, error) {
	if _, err := s.store.Organizations().GetByID(ctx, organizationID); err != nil {
		return nil, err
	}
	return s.List(ctx, repository.PersonFilter{OrganizationID: organizationID})
}

func (s *PersonService) Get(ctx context.Context, id int64) (*domain.Person, error) {
	p, err := s.store.People().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, hydratePeople(ctx, s.store, []*domain.Person{p})
}

// Create stores a person, assigns their matters and auto-links them to the
// clients of those matters in one transaction.
func (s *PersonService) Create(ctx context.Context, in PersonInput) (*domain.Person, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	p := &domain.Person{}
	s.apply(p, in)
	matterIDs := dedupe(in.MatterIDs.Value)

	var links []staffLink
	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.People().Create(ctx, p); err != nil {
			return err
		}
		if err := tx.Assignments().ReplaceForPerson(ctx, p.ID, matterIDs); err != nil {
			return err
		}
		var err error
		links, err = linkPersonStaff(ctx, tx, p, matterIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("person_id", p.ID).
		Str("type", string(p.Type)).
		Int("matters", len(matterIDs)).
		Msg("Person created")
	s.publish(ctx, "person", events.ActionCreated, p.ID, nil)
	s.announceLinks(ctx, links)

	return s.Get(ctx, p.ID)
}

func (s *PersonService) Update(ctx context.Context, id int64, in PersonInput) (*domain.Person, error) {
	p, err := s.store.People().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	previousType := p.Type
	s.apply(p, in)

	var links []staffLink
	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.People().Update(ctx, p); err != nil {
			return err
		}
		var matterIDs []int64
		switch {
		case in.MatterIDs.Set:
			matterIDs = dedupe(in.MatterIDs.Value)
			if err := tx.Assignments().ReplaceForPerson(ctx, p.ID, matterIDs); err != nil {
				return err
			}
		case p.Type != previousType:
			var err error
			if matterIDs, err = tx.Assignments().MatterIDs(ctx, p.ID); err != nil {
				return err
			}
		}
		var err error
		links, err = linkPersonStaff(ctx, tx, p, matterIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("person_id", p.ID).Msg("Person updated")
	s.publish(ctx, "person", events.ActionUpdated, p.ID, nil)
	s.announceLinks(ctx, links)

	return s.Get(ctx, p.ID)
}

// Delete removes a person. Client staff slots, review manager links and user
// links pointing at them are cleared; tasks they own are removed.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	if err := s.store.People().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("person_id", id).Msg("Person deleted")
	s.publish(ctx, "person", events.ActionDeleted, id, nil)
	return nil
}

func (s *PersonService) validate(ctx context.Context, in PersonInput, creating bool) error {
	var m missing
	need(&m, "firstName", in.FirstName, creating)
	need(&m, "lastName", in.LastName, creating)
	need(&m, "type", in.Type, creating)
	if err := m.err(); err != nil {
		return err
	}

	if in.Type.Present() && !in.Type.Value.Valid() {
		return errors.InvalidInput("type", "Invalid person type")
	}
	if err := optionalEmail("email", in.Email); err != nil {
		return err
	}
	if in.OrganizationID.Present() {
		if _, err := exists(ctx, "organizationId", s.store.Organizations().GetByID, in.OrganizationID.Value); err != nil {
			return err
		}
	}
	if in.MatterIDs.Present() {
		if _, err := allFound[domain.Matter](ctx, s.store.Matters(), "matterIds", "Matter", dedupe(in.MatterIDs.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *PersonService) apply(p *domain.Person, in PersonInput) {
	if in.FirstName.Present() {
		p.FirstName = trimmed(in.FirstName)
	}
	if in.LastName.Present() {
		p.LastName = trimmed(in.LastName)
	}
	optionalText(&p.Email, in.Email)
	optionalText(&p.Phone, in.Phone)
	in.Type.apply(&p.Type)
	in.OrganizationID.applyPtr(&p.OrganizationID)
}

// hydratePeople loads each person's organization and assigned matters.
func hydratePeople(ctx context.Context, st repository.Store, people []*domain.Person) error {
	var orgIDs, matterIDs idSet
	assigned := make(map[int64][]int64, len(people))
	for _, p := range people {
		orgIDs.addPtr(p.OrganizationID)
		ids, err := st.Assignments().MatterIDs(ctx, p.ID)
		if err != nil {
			return err
		}
		assigned[p.ID] = ids
		for _, id := range ids {
			matterIDs.add(id)
		}
	}

	orgs, err := lookup[domain.Organization](ctx, st.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	matters, err := lookup[domain.Matter](ctx, st.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	for _, p := range people {
		p.Organization = pick(orgs, p.OrganizationID)
		p.Matters = collect(matters, assigned[p.ID])
	}
	return nil
}
