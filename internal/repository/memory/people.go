package memory

import (
	"cmp"
	"context"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

func byName(a, b string, ida, idb int64) int {
	return cmp.Or(strings.Compare(a, b), cmp.Compare(ida, idb))
}

type personRepository struct {
	crud[domain.Person, *domain.Person]
}

func newPersonRepository(s *Store) *personRepository {
	return &personRepository{crud[domain.Person, *domain.Person]{
		s:        s,
		tbl:      func(st *state) *table[domain.Person, *domain.Person] { return st.people },
		resource: "Person",
		order: func(a, b *domain.Person) int {
			return cmp.Or(
				strings.Compare(a.LastName, b.LastName),
				strings.Compare(a.FirstName, b.FirstName),
				cmp.Compare(a.ID, b.ID),
			)
		},
	}}
}

func (r *personRepository) Find(_ context.Context, filter repository.PersonFilter) ([]*domain.Person, error) {
	return r.find(func(p *domain.Person) bool {
		if filter.Type != "" && p.Type != filter.Type {
			return false
		}
		if filter.OrganizationID != 0 && (p.OrganizationID == nil || *p.OrganizationID != filter.OrganizationID) {
			return false
		}
		return true
	}), nil
}

func (r *personRepository) CountByOrganization(_ context.Context, organizationID int64) (int, error) {
	people := r.find(func(p *domain.Person) bool {
		return p.OrganizationID != nil && *p.OrganizationID == organizationID
	})
	return len(people), nil
}

func (r *personRepository) check(p *domain.Person) func(st *state) error {
	return func(st *state) error {
		return referenced(hasOptional(st.organizations, p.OrganizationID))
	}
}

func (r *personRepository) Create(_ context.Context, p *domain.Person) error {
	return r.insert(p, r.check(p))
}

func (r *personRepository) Update(_ context.Context, p *domain.Person) error {
	return r.replace(p, r.check(p))
}

func (r *personRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadePerson(id)
		return nil
	})
}

type organizationRepository struct {
	crud[domain.Organization, *domain.Organization]
}

func newOrganizationRepository(s *Store) *organizationRepository {
	return &organizationRepository{crud[domain.Organization, *domain.Organization]{
		s:        s,
		tbl:      func(st *state) *table[domain.Organization, *domain.Organization] { return st.organizations },
		resource: "Organization",
		order: func(a, b *domain.Organization) int {
			return byName(a.Name, b.Name, a.ID, b.ID)
		},
	}}
}

func (r *organizationRepository) ListByType(_ context.Context, t domain.OrganizationType) ([]*domain.Organization, error) {
	return r.find(func(o *domain.Organization) bool { return o.Type == t }), nil
}

func (r *organizationRepository) Create(_ context.Context, o *domain.Organization) error {
	return r.insert(o, nil)
}

func (r *organizationRepository) Update(_ context.Context, o *domain.Organization) error {
	return r.replace(o, nil)
}

func (r *organizationRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error { return st.restrictOrganization(id) })
}

type custodianRepository struct {
	crud[domain.Custodian, *domain.Custodian]
}

func newCustodianRepository(s *Store) *custodianRepository {
	return &custodianRepository{crud[domain.Custodian, *domain.Custodian]{
		s:        s,
		tbl:      func(st *state) *table[domain.Custodian, *domain.Custodian] { return st.custodians },
		resource: "Custodian",
		order: func(a, b *domain.Custodian) int {
			return byName(a.Name, b.Name, a.ID, b.ID)
		},
	}}
}

func (r *custodianRepository) ListByOrganization(_ context.Context, organizationID int64) ([]*domain.Custodian, error) {
	return r.find(func(c *domain.Custodian) bool { return c.OrganizationID == organizationID }), nil
}

func (r *custodianRepository) check(c *domain.Custodian) func(st *state) error {
	return func(st *state) error {
		return referenced(st.organizations.has(c.OrganizationID))
	}
}

func (r *custodianRepository) Create(_ context.Context, c *domain.Custodian) error {
	return r.insert(c, r.check(c))
}

func (r *custodianRepository) Update(_ context.Context, c *domain.Custodian) error {
	return r.replace(c, r.check(c))
}

func (r *custodianRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error { return st.restrictCustodian(id) })
}
