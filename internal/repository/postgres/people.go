package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

var (
	peopleTable = table{
		name:     "people",
		resource: "Person",
		columns:  "id, first_name, last_name, email, phone, type, organization_id, created_at, updated_at",
		orderBy:  "last_name, first_name, id",
	}
	organizationsTable = table{
		name:     "organizations",
		resource: "Organization",
		columns:  "id, name, type, email, phone, address, created_at, updated_at",
		orderBy:  "name, id",
	}
	custodiansTable = table{
		name:     "custodians",
		resource: "Custodian",
		columns:  "id, name, email, title, department, organization_id, created_at, updated_at",
		orderBy:  "name, id",
	}
)

type personRepository struct {
	crud[domain.Person]
}

func (r *personRepository) Find(ctx context.Context, filter repository.PersonFilter) ([]*domain.Person, error) {
	conds := []string{"TRUE"}
	args := []any{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.OrganizationID != 0 {
		args = append(args, filter.OrganizationID)
		conds = append(conds, fmt.Sprintf("organization_id = $%d", len(args)))
	}
	return r.listWhere(ctx, strings.Join(conds, " AND "), args...)
}

func (r *personRepository) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "people", "organization_id = $1", organizationID)
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	query := `
		INSERT INTO people (first_name, last_name, email, phone, type, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.Type,
		p.OrganizationID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create person")
	}
	return nil
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	query := `
		UPDATE people
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    phone = $5,
		    type = $6,
		    organization_id = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.Type, p.OrganizationID)
	return scanUpdated(row, &p.Model, "Person", p.ID)
}

type organizationRepository struct {
	crud[domain.Organization]
}

func (r *organizationRepository) ListByType(ctx context.Context, t domain.OrganizationType) ([]*domain.Organization, error) {
	return r.listWhere(ctx, "type = $1", t)
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `
		INSERT INTO organizations (name, type, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, o.Name, o.Type, o.Email, o.Phone, o.Address).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create organization")
	}
	return nil
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, type = $3, email = $4, phone = $5, address = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, o.ID, o.Name, o.Type, o.Email, o.Phone, o.Address)
	return scanUpdated(row, &o.Model, "Organization", o.ID)
}

type custodianRepository struct {
	crud[domain.Custodian]
}

func (r *custodianRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*domain.Custodian, error) {
	return r.listWhere(ctx, "organization_id = $1", organizationID)
}

func (r *custodianRepository) Create(ctx context.Context, c *domain.Custodian) error {
	query := `
		INSERT INTO custodians (name, email, title, department, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, c.Name, c.Email, c.Title, c.Department, c.OrganizationID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create custodian")
	}
	return nil
}

func (r *custodianRepository) Update(ctx context.Context, c *domain.Custodian) error {
	query := `
		UPDATE custodians
		SET name = $2, email = $3, title = $4, department = $5, organization_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.Title, c.Department, c.OrganizationID)
	return scanUpdated(row, &c.Model, "Custodian", c.ID)
}
