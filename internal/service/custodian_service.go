package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// CustodianService handles custodians.
type CustodianService struct {
	base
}

// NewCustodianService creates a new custodian service.
func NewCustodianService(b base) *CustodianService {
	return &CustodianService{base: b}
}

// CustodianInput is the body of a custodian create or update.
type CustodianInput struct {
	Name           Field[string] `json:"name"`
	Email          Field[string] `json:"email"`
	Title          Field[string] `json:"title"`
	Department     Field[string] `json:"department"`
	OrganizationID Field[int64]  `json:"organizationId"`
}

func (s *CustodianService) List(ctx context.Context) ([]*domain.Custodian, error) {
	custodians, err := s.store.Custodians().List(ctx)
	if err != nil {
		return nil, err
	}
	return custodians, hydrateCustodians(ctx, s.store, custodians)
}

// ListByOrganization returns the custodians of an existing organization.
func (s *CustodianService) ListByOrganization(ctx context.Context, organizationID int64) ([]*domain.Custodian, error) {
	if _, err := s.store.Organizations().GetByID(ctx, organizationID); err != nil {
		return nil, err
	}
	custodians, err := s.store.Custodians().ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return custodians, hydrateCustodians(ctx, s.store, custodians)
}

func (s *CustodianService) Get(ctx context.Context, id int64) (*domain.Custodian, error) {
	c, err := s.store.Custodians().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, hydrateCustodians(ctx, s.store, []*domain.Custodian{c})
}

func (s *CustodianService) Create(ctx context.Context, in CustodianInput) (*domain.Custodian, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	c := &domain.Custodian{}
	s.apply(c, in)
	if err := s.store.Custodians().Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("custodian_id", c.ID).
		Int64("organization_id", c.OrganizationID).
		Msg("Custodian created")
	s.publish(ctx, "custodian", events.ActionCreated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

func (s *CustodianService) Update(ctx context.Context, id int64, in CustodianInput) (*domain.Custodian, error) {
	c, err := s.store.Custodians().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	s.apply(c, in)
	if err := s.store.Custodians().Update(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Int64("custodian_id", c.ID).Msg("Custodian updated")
	s.publish(ctx, "custodian", events.ActionUpdated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

// Delete refuses while any collection references the custodian.
func (s *CustodianService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Custodians().GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.store.Collections().CountByCustodian(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Dependency("Cannot delete custodian with associated collections")
	}

	if err := s.store.Custodians().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("custodian_id", id).Msg("Custodian deleted")
	s.publish(ctx, "custodian", events.ActionDeleted, id, nil)
	return nil
}

func (s *CustodianService) validate(ctx context.Context, in CustodianInput, creating bool) error {
	var m missing
	need(&m, "name", in.Name, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	if err := m.err(); err != nil {
		return err
	}
	if err := optionalEmail("email", in.Email); err != nil {
		return err
	}
	if in.OrganizationID.Present() {
		if _, err := exists(ctx, "organizationId", s.store.Organizations().GetByID, in.OrganizationID.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *CustodianService) apply(c *domain.Custodian, in CustodianInput) {
	if in.Name.Present() {
		c.Name = trimmed(in.Name)
	}
	optionalText(&c.Email, in.Email)
	optionalText(&c.Title, in.Title)
	optionalText(&c.Department, in.Department)
	in.OrganizationID.apply(&c.OrganizationID)
}

func hydrateCustodians(ctx context.Context, st repository.Store, custodians []*domain.Custodian) error {
	var ids idSet
	for _, c := range custodians {
		ids.add(c.OrganizationID)
	}
	orgs, err := lookup[domain.Organization](ctx, st.Organizations(), ids.ids)
	if err != nil {
		return err
	}
	for _, c := range custodians {
		c.Organization = orgs[c.OrganizationID]
	}
	return nil
}
