package postgres

import (
	"context"
	"fmt"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

var (
	clientsTable = table{
		name:     "clients",
		resource: "Client",
		columns:  "id, client_number, client_name, attorney_id, paralegal_id, project_manager_id, created_at, updated_at",
		orderBy:  "client_name, id",
	}
	mattersTable = table{
		name:     "matters",
		resource: "Matter",
		columns:  "id, matter_number, matter_name, client_id, status, created_at, updated_at",
		orderBy:  "matter_number",
	}
)

type clientRepository struct {
	crud[domain.Client]
}

func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	query := `
		INSERT INTO clients (client_number, client_name, attorney_id, paralegal_id, project_manager_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		c.ClientNumber,
		c.ClientName,
		c.AttorneyID,
		c.ParalegalID,
		c.ProjectManagerID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create client")
	}
	return nil
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `
		UPDATE clients
		SET client_number = $2,
		    client_name = $3,
		    attorney_id = $4,
		    paralegal_id = $5,
		    project_manager_id = $6,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		c.ID,
		c.ClientNumber,
		c.ClientName,
		c.AttorneyID,
		c.ParalegalID,
		c.ProjectManagerID,
	)
	return scanUpdated(row, &c.Model, "Client", c.ID)
}

func (r *clientRepository) FillStaffSlot(ctx context.Context, clientID int64, slot domain.StaffSlot, personID int64) (bool, error) {
	switch slot {
	case domain.SlotAttorney, domain.SlotParalegal, domain.SlotProjectManager:
	default:
		return false, errors.New(errors.ErrCodeInternal, fmt.Sprintf("unknown staff slot %q", slot))
	}

	query := fmt.Sprintf(`
		UPDATE clients
		SET %[1]s = $2, updated_at = NOW()
		WHERE id = $1 AND %[1]s IS NULL
	`, slot)
	tag, err := r.q.Exec(ctx, query, clientID, personID)
	if err != nil {
		return false, mapWriteError(err, "failed to link client staff")
	}
	return tag.RowsAffected() == 1, nil
}

type matterRepository struct {
	crud[domain.Matter]
}

func (r *matterRepository) ListByClient(ctx context.Context, clientID int64) ([]*domain.Matter, error) {
	return r.listWhere(ctx, "client_id = $1", clientID)
}

func (r *matterRepository) Create(ctx context.Context, m *domain.Matter) error {
	query := `
		INSERT INTO matters (matter_number, matter_name, client_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		m.MatterNumber,
		m.MatterName,
		m.ClientID,
		m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create matter")
	}
	return nil
}

func (r *matterRepository) Update(ctx context.Context, m *domain.Matter) error {
	query := `
		UPDATE matters
		SET matter_number = $2,
		    matter_name = $3,
		    client_id = $4,
		    status = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, m.ID, m.MatterNumber, m.MatterName, m.ClientID, m.Status)
	return scanUpdated(row, &m.Model, "Matter", m.ID)
}

type assignmentRepository struct {
	q querier
}

func (r *assignmentRepository) PersonIDs(ctx context.Context, matterID int64) ([]int64, error) {
	return linkedIDs(ctx, r.q, "matter_people", "matter_id", "person_id", matterID)
}

func (r *assignmentRepository) MatterIDs(ctx context.Context, personID int64) ([]int64, error) {
	return linkedIDs(ctx, r.q, "matter_people", "person_id", "matter_id", personID)
}

func (r *assignmentRepository) ReplaceForMatter(ctx context.Context, matterID int64, personIDs []int64) error {
	return replaceLinks(ctx, r.q, "matter_people", "matter_id", "person_id", matterID, personIDs)
}

func (r *assignmentRepository) ReplaceForPerson(ctx context.Context, personID int64, matterIDs []int64) error {
	return replaceLinks(ctx, r.q, "matter_people", "person_id", "matter_id", personID, matterIDs)
}

func (r *assignmentRepository) Add(ctx context.Context, matterID, personID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO matter_people (matter_id, person_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, matterID, personID)
	if err != nil {
		return mapWriteError(err, "failed to assign person to matter")
	}
	return nil
}

func (r *assignmentRepository) Remove(ctx context.Context, matterID, personID int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM matter_people WHERE matter_id = $1 AND person_id = $2`, matterID, personID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to unassign person from matter")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("Matter assignment", personID)
	}
	return nil
}
