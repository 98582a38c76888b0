package postgres

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

var collectionsTable = table{
	name:     "collections",
	resource: "Collection",
	columns: "id, matter_id, vendor_id, type, platform, status, scheduled_date, completed_date, notes, " +
		"created_at, updated_at",
	orderBy: "created_at DESC, id DESC",
}

type collectionRepository struct {
	crud[domain.Collection]
}

func (r *collectionRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Collection, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *collectionRepository) Create(ctx context.Context, c *domain.Collection) error {
	query := `
		INSERT INTO collections (matter_id, vendor_id, type, platform, status,
		                         scheduled_date, completed_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		c.MatterID,
		c.VendorID,
		c.Type,
		c.Platform,
		c.Status,
		c.ScheduledDate,
		c.CompletedDate,
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create collection")
	}
	return nil
}

func (r *collectionRepository) Update(ctx context.Context, c *domain.Collection) error {
	query := `
		UPDATE collections
		SET matter_id = $2,
		    vendor_id = $3,
		    type = $4,
		    platform = $5,
		    status = $6,
		    scheduled_date = $7,
		    completed_date = $8,
		    notes = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		c.ID,
		c.MatterID,
		c.VendorID,
		c.Type,
		c.Platform,
		c.Status,
		c.ScheduledDate,
		c.CompletedDate,
		c.Notes,
	)
	return scanUpdated(row, &c.Model, "Collection", c.ID)
}

func (r *collectionRepository) CustodianIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	return linkedIDs(ctx, r.q, "collection_custodians", "collection_id", "custodian_id", collectionID)
}

func (r *collectionRepository) ReplaceCustodians(ctx context.Context, collectionID int64, custodianIDs []int64) error {
	return replaceLinks(ctx, r.q, "collection_custodians", "collection_id", "custodian_id", collectionID, custodianIDs)
}

func (r *collectionRepository) CountByCustodian(ctx context.Context, custodianID int64) (int, error) {
	return r.count(ctx, "collection_custodians", "custodian_id = $1", custodianID)
}

func (r *collectionRepository) CountByVendor(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "collections", "vendor_id = $1", organizationID)
}
