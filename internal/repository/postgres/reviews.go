package postgres

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

var (
	workspacesTable = table{
		name:     "workspaces",
		resource: "Workspace",
		columns:  "id, matter_id, organization_id, name, type, url, notes, created_at, updated_at",
		orderBy:  "name, id",
	}
	contractReviewsTable = table{
		name:     "contract_reviews",
		resource: "Contract review",
		columns: "id, matter_id, organization_id, workspace_id, review_manager_id, status, start_date, end_date, notes, " +
			"created_at, updated_at",
		orderBy: "created_at DESC, id DESC",
	}
)

type workspaceRepository struct {
	crud[domain.Workspace]
}

func (r *workspaceRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Workspace, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *workspaceRepository) Create(ctx context.Context, w *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (matter_id, organization_id, name, type, url, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query, w.MatterID, w.OrganizationID, w.Name, w.Type, w.URL, w.Notes).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create workspace")
	}
	return nil
}

func (r *workspaceRepository) Update(ctx context.Context, w *domain.Workspace) error {
	query := `
		UPDATE workspaces
		SET matter_id = $2, organization_id = $3, name = $4, type = $5, url = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query, w.ID, w.MatterID, w.OrganizationID, w.Name, w.Type, w.URL, w.Notes)
	return scanUpdated(row, &w.Model, "Workspace", w.ID)
}

type contractReviewRepository struct {
	crud[domain.ContractReview]
}

func (r *contractReviewRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.ContractReview, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *contractReviewRepository) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "contract_reviews", "organization_id = $1", organizationID)
}

func (r *contractReviewRepository) Create(ctx context.Context, cr *domain.ContractReview) error {
	query := `
		INSERT INTO contract_reviews (matter_id, organization_id, workspace_id, review_manager_id,
		                              status, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		cr.MatterID,
		cr.OrganizationID,
		cr.WorkspaceID,
		cr.ReviewManagerID,
		cr.Status,
		cr.StartDate,
		cr.EndDate,
		cr.Notes,
	).Scan(&cr.ID, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create contract review")
	}
	return nil
}

func (r *contractReviewRepository) Update(ctx context.Context, cr *domain.ContractReview) error {
	query := `
		UPDATE contract_reviews
		SET matter_id = $2,
		    organization_id = $3,
		    workspace_id = $4,
		    review_manager_id = $5,
		    status = $6,
		    start_date = $7,
		    end_date = $8,
		    notes = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		cr.ID,
		cr.MatterID,
		cr.OrganizationID,
		cr.WorkspaceID,
		cr.ReviewManagerID,
		cr.Status,
		cr.StartDate,
		cr.EndDate,
		cr.Notes,
	)
	return scanUpdated(row, &cr.Model, "Contract review", cr.ID)
}

func (r *contractReviewRepository) Links(ctx context.Context, reviewID int64) (domain.ReviewLinks, error) {
	var links domain.ReviewLinks
	var err error
	if links.EstimateIDs, err = linkedIDs(ctx, r.q,
		"contract_review_estimates", "contract_review_id", "estimate_id", reviewID); err != nil {
		return links, err
	}
	if links.VendorAgreementIDs, err = linkedIDs(ctx, r.q,
		"contract_review_vendor_agreements", "contract_review_id", "vendor_agreement_id", reviewID); err != nil {
		return links, err
	}
	if links.InvoiceIDs, err = linkedIDs(ctx, r.q,
		"contract_review_invoices", "contract_review_id", "invoice_id", reviewID); err != nil {
		return links, err
	}
	return links, nil
}

func (r *contractReviewRepository) ReplaceLinks(ctx context.Context, reviewID int64, links domain.ReviewLinks) error {
	if err := replaceLinks(ctx, r.q,
		"contract_review_estimates", "contract_review_id", "estimate_id", reviewID, links.EstimateIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, r.q,
		"contract_review_vendor_agreements", "contract_review_id", "vendor_agreement_id", reviewID, links.VendorAgreementIDs); err != nil {
		return err
	}
	return replaceLinks(ctx, r.q,
		"contract_review_invoices", "contract_review_id", "invoice_id", reviewID, links.InvoiceIDs)
}
