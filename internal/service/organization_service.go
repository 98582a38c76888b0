package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// OrganizationService handles law firms, vendors and other parties.
type OrganizationService struct {
	base
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(b base) *OrganizationService {
	return &OrganizationService{base: b}
}

// OrganizationInput is the body of an organization create or update.
type OrganizationInput struct {
	Name    Field[string]                  `json:"name"`
	Type    Field[domain.OrganizationType] `json:"type"`
	Email   Field[string]                  `json:"email"`
	Phone   Field[string]                  `json:"phone"`
	Address Field[string]                  `json:"address"`
}

// List returns every organization, or only those of type t when it is set.
func (s *OrganizationService) List(ctx context.Context, t domain.OrganizationType) ([]*domain.Organization, error) {
	var (
		orgs []*domain.Organization
		err  error
	)
	switch {
	case t == "":
		orgs, err = s.store.Organizations().List(ctx)
	case !t.Valid():
		return nil, errors.InvalidInput("type", "Invalid organization type")
	default:
		orgs, err = s.store.Organizations().ListByType(ctx, t)
	}
	if err != nil {
		return nil, err
	}
	return orgs, s.hydrate(ctx, orgs)
}

func (s *OrganizationService) Get(ctx context.Context, id int64) (*domain.Organization, error) {
	o, err := s.store.Organizations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, s.hydrate(ctx, []*domain.Organization{o})
}

func (s *OrganizationService) Create(ctx context.Context, in OrganizationInput) (*domain.Organization, error) {
	if err := s.validate(in, true); err != nil {
		return nil, err
	}

	o := &domain.Organization{}
	s.apply(o, in)
	if err := s.store.Organizations().Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("organization_id", o.ID).
		Str("type", string(o.Type)).
		Msg("Organization created")
	s.publish(ctx, "organization", events.ActionCreated, o.ID, nil)

	return s.Get(ctx, o.ID)
}

func (s *OrganizationService) Update(ctx context.Context, id int64, in OrganizationInput) (*domain.Organization, error) {
	o, err := s.store.Organizations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(in, false); err != nil {
		return nil, err
	}

	wasVendor := o.Type == domain.OrganizationTypeVendor
	s.apply(o, in)
	if wasVendor && o.Type != domain.OrganizationTypeVendor {
		n, err := vendorDocuments(ctx, s.store, o.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, errors.Dependency("Cannot change the type of an organization with associated vendor documents")
		}
	}
	if err := s.store.Organizations().Update(ctx, o); err != nil {
		return nil, err
	}

	s.log.Info().Int64("organization_id", o.ID).Msg("Organization updated")
	s.publish(ctx, "organization", events.ActionUpdated, o.ID, nil)

	return s.Get(ctx, o.ID)
}

// Delete refuses while people belong to the organization. Other references
// (custodians, financial documents) surface as a dependency error from the
// store.
func (s *OrganizationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Organizations().GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.store.People().CountByOrganization(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Dependency("Cannot delete organization with associated people")
	}

	if err := s.store.Organizations().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("organization_id", id).Msg("Organization deleted")
	s.publish(ctx, "organization", events.ActionDeleted, id, nil)
	return nil
}

func (s *OrganizationService) validate(in OrganizationInput, creating bool) error {
	var m missing
	need(&m, "name", in.Name, creating)
	need(&m, "type", in.Type, creating)
	if err := m.err(); err != nil {
		return err
	}
	if in.Type.Present() && !in.Type.Value.Valid() {
		return errors.InvalidInput("type", "Invalid organization type")
	}
	return optionalEmail("email", in.Email)
}

func (s *OrganizationService) apply(o *domain.Organization, in OrganizationInput) {
	if in.Name.Present() {
		o.Name = trimmed(in.Name)
	}
	in.Type.apply(&o.Type)
	optionalText(&o.Email, in.Email)
	optionalText(&o.Phone, in.Phone)
	optionalText(&o.Address, in.Address)
}

func (s *OrganizationService) hydrate(ctx context.Context, orgs []*domain.Organization) error {
	for _, o := range orgs {
		people, err := s.store.People().Find(ctx, repository.PersonFilter{OrganizationID: o.ID})
		if err != nil {
			return err
		}
		o.People = people
	}
	return nil
}
