package postgres

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

var (
	estimatesTable = table{
		name:     "estimates",
		resource: "Estimate",
		columns:  "id, matter_id, organization_id, description, total_cost, estimate_date, notes, created_at, updated_at",
		orderBy:  "created_at DESC, id DESC",
	}
	vendorAgreementsTable = table{
		name:     "vendor_agreements",
		resource: "Vendor agreement",
		columns:  "id, matter_id, organization_id, estimate_id, signed_by, signed_date, notes, created_at, updated_at",
		orderBy:  "created_at DESC, id DESC",
	}
	invoicesTable = table{
		name:     "invoices",
		resource: "Invoice",
		columns: "id, matter_id, organization_id, estimate_id, vendor_agreement_id, invoice_number, invoice_date, " +
			"amount, status, approved, notes, created_at, updated_at",
		orderBy: "created_at DESC, id DESC",
	}
)

type estimateRepository struct {
	crud[domain.Estimate]
}

func (r *estimateRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Estimate, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *estimateRepository) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "estimates", "organization_id = $1", organizationID)
}

func (r *estimateRepository) Create(ctx context.Context, e *domain.Estimate) error {
	query := `
		INSERT INTO estimates (matter_id, organization_id, description, total_cost, estimate_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		e.MatterID,
		e.OrganizationID,
		e.Description,
		e.TotalCost,
		e.EstimateDate,
		e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create estimate")
	}
	return nil
}

func (r *estimateRepository) Update(ctx context.Context, e *domain.Estimate) error {
	query := `
		UPDATE estimates
		SET matter_id = $2,
		    organization_id = $3,
		    description = $4,
		    total_cost = $5,
		    estimate_date = $6,
		    notes = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		e.ID, e.MatterID, e.OrganizationID, e.Description, e.TotalCost, e.EstimateDate, e.Notes)
	return scanUpdated(row, &e.Model, "Estimate", e.ID)
}

type vendorAgreementRepository struct {
	crud[domain.VendorAgreement]
}

func (r *vendorAgreementRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.VendorAgreement, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *vendorAgreementRepository) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "vendor_agreements", "organization_id = $1", organizationID)
}

func (r *vendorAgreementRepository) Create(ctx context.Context, a *domain.VendorAgreement) error {
	query := `
		INSERT INTO vendor_agreements (matter_id, organization_id, estimate_id, signed_by, signed_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		a.MatterID,
		a.OrganizationID,
		a.EstimateID,
		a.SignedBy,
		a.SignedDate,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create vendor agreement")
	}
	return nil
}

func (r *vendorAgreementRepository) Update(ctx context.Context, a *domain.VendorAgreement) error {
	query := `
		UPDATE vendor_agreements
		SET matter_id = $2,
		    organization_id = $3,
		    estimate_id = $4,
		    signed_by = $5,
		    signed_date = $6,
		    notes = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		a.ID, a.MatterID, a.OrganizationID, a.EstimateID, a.SignedBy, a.SignedDate, a.Notes)
	return scanUpdated(row, &a.Model, "Vendor agreement", a.ID)
}

type invoiceRepository struct {
	crud[domain.Invoice]
}

func (r *invoiceRepository) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Invoice, error) {
	return r.listWhere(ctx, "matter_id = $1", matterID)
}

func (r *invoiceRepository) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	return r.count(ctx, "invoices", "organization_id = $1", organizationID)
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `
		INSERT INTO invoices (matter_id, organization_id, estimate_id, vendor_agreement_id,
		                      invoice_number, invoice_date, amount, status, approved, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		inv.MatterID,
		inv.OrganizationID,
		inv.EstimateID,
		inv.VendorAgreementID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.Amount,
		inv.Status,
		inv.Approved,
		inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "failed to create invoice")
	}
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	query := `
		UPDATE invoices
		SET matter_id = $2,
		    organization_id = $3,
		    estimate_id = $4,
		    vendor_agreement_id = $5,
		    invoice_number = $6,
		    invoice_date = $7,
		    amount = $8,
		    status = $9,
		    approved = $10,
		    notes = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	row := r.q.QueryRow(ctx, query,
		inv.ID,
		inv.MatterID,
		inv.OrganizationID,
		inv.EstimateID,
		inv.VendorAgreementID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.Amount,
		inv.Status,
		inv.Approved,
		inv.Notes,
	)
	return scanUpdated(row, &inv.Model, "Invoice", inv.ID)
}
