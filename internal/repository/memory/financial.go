package memory

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

type estimateRepository struct {
	crud[domain.Estimate, *domain.Estimate]
}

func newEstimateRepository(s *Store) *estimateRepository {
	return &estimateRepository{crud[domain.Estimate, *domain.Estimate]{
		s:        s,
		tbl:      func(st *state) *table[domain.Estimate, *domain.Estimate] { return st.estimates },
		resource: "Estimate",
		order:    newest[domain.Estimate],
	}}
}

func (r *estimateRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.Estimate, error) {
	return r.find(func(e *domain.Estimate) bool { return e.MatterID == matterID }), nil
}

func (r *estimateRepository) CountByOrganization(_ context.Context, organizationID int64) (int, error) {
	return len(r.find(func(e *domain.Estimate) bool { return e.OrganizationID == organizationID })), nil
}

func (r *estimateRepository) check(e *domain.Estimate) func(st *state) error {
	return func(st *state) error {
		return referenced(st.matters.has(e.MatterID), st.organizations.has(e.OrganizationID))
	}
}

func (r *estimateRepository) Create(_ context.Context, e *domain.Estimate) error {
	return r.insert(e, r.check(e))
}

func (r *estimateRepository) Update(_ context.Context, e *domain.Estimate) error {
	return r.replace(e, r.check(e))
}

func (r *estimateRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeEstimate(id)
		return nil
	})
}

type vendorAgreementRepository struct {
	crud[domain.VendorAgreement, *domain.VendorAgreement]
}

func newVendorAgreementRepository(s *Store) *vendorAgreementRepository {
	return &vendorAgreementRepository{crud[domain.VendorAgreement, *domain.VendorAgreement]{
		s:        s,
		tbl:      func(st *state) *table[domain.VendorAgreement, *domain.VendorAgreement] { return st.vendorAgreements },
		resource: "Vendor agreement",
		order:    newest[domain.VendorAgreement],
	}}
}

func (r *vendorAgreementRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.VendorAgreement, error) {
	return r.find(func(a *domain.VendorAgreement) bool { return a.MatterID == matterID }), nil
}

func (r *vendorAgreementRepository) CountByOrganization(_ context.Context, organizationID int64) (int, error) {
	return len(r.find(func(a *domain.VendorAgreement) bool { return a.OrganizationID == organizationID })), nil
}

func (r *vendorAgreementRepository) check(a *domain.VendorAgreement) func(st *state) error {
	return func(st *state) error {
		return referenced(
			st.matters.has(a.MatterID),
			st.organizations.has(a.OrganizationID),
			hasOptional(st.estimates, a.EstimateID),
		)
	}
}

func (r *vendorAgreementRepository) Create(_ context.Context, a *domain.VendorAgreement) error {
	return r.insert(a, r.check(a))
}

func (r *vendorAgreementRepository) Update(_ context.Context, a *domain.VendorAgreement) error {
	return r.replace(a, r.check(a))
}

func (r *vendorAgreementRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeVendorAgreement(id)
		return nil
	})
}

type invoiceRepository struct {
	crud[domain.Invoice, *domain.Invoice]
}

func newInvoiceRepository(s *Store) *invoiceRepository {
	return &invoiceRepository{crud[domain.Invoice, *domain.Invoice]{
		s:        s,
		tbl:      func(st *state) *table[domain.Invoice, *domain.Invoice] { return st.invoices },
		resource: "Invoice",
		order:    newest[domain.Invoice],
	}}
}

func (r *invoiceRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.Invoice, error) {
	return r.find(func(inv *domain.Invoice) bool { return inv.MatterID == matterID }), nil
}

func (r *invoiceRepository) CountByOrganization(_ context.Context, organizationID int64) (int, error) {
	return len(r.find(func(inv *domain.Invoice) bool { return inv.OrganizationID == organizationID })), nil
}

func (r *invoiceRepository) check(inv *domain.Invoice) func(st *state) error {
	return func(st *state) error {
		return referenced(
			st.matters.has(inv.MatterID),
			st.organizations.has(inv.OrganizationID),
			hasOptional(st.estimates, inv.EstimateID),
			hasOptional(st.vendorAgreements, inv.VendorAgreementID),
		)
	}
}

func (r *invoiceRepository) Create(_ context.Context, inv *domain.Invoice) error {
	return r.insert(inv, r.check(inv))
}

func (r *invoiceRepository) Update(_ context.Context, inv *domain.Invoice) error {
	return r.replace(inv, r.check(inv))
}

func (r *invoiceRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeInvoice(id)
		return nil
	})
}
