package memory

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

type workspaceRepository struct {
	crud[domain.Workspace, *domain.Workspace]
}

func newWorkspaceRepository(s *Store) *workspaceRepository {
	return &workspaceRepository{crud[domain.Workspace, *domain.Workspace]{
		s:        s,
		tbl:      func(st *state) *table[domain.Workspace, *domain.Workspace] { return st.workspaces },
		resource: "Workspace",
		order: func(a, b *domain.Workspace) int {
			return byName(a.Name, b.Name, a.ID, b.ID)
		},
	}}
}

func (r *workspaceRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.Workspace, error) {
	return r.find(func(w *domain.Workspace) bool { return w.MatterID == matterID }), nil
}

func (r *workspaceRepository) check(w *domain.Workspace) func(st *state) error {
	return func(st *state) error {
		return referenced(st.matters.has(w.MatterID), st.organizations.has(w.OrganizationID))
	}
}

func (r *workspaceRepository) Create(_ context.Context, w *domain.Workspace) error {
	return r.insert(w, r.check(w))
}

func (r *workspaceRepository) Update(_ context.Context, w *domain.Workspace) error {
	return r.replace(w, r.check(w))
}

func (r *workspaceRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeWorkspace(id)
		return nil
	})
}

type contractReviewRepository struct {
	crud[domain.ContractReview, *domain.ContractReview]
}

func newContractReviewRepository(s *Store) *contractReviewRepository {
	return &contractReviewRepository{crud[domain.ContractReview, *domain.ContractReview]{
		s:        s,
		tbl:      func(st *state) *table[domain.ContractReview, *domain.ContractReview] { return st.contractReviews },
		resource: "Contract review",
		order:    newest[domain.ContractReview],
	}}
}

func (r *contractReviewRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.ContractReview, error) {
	return r.find(func(cr *domain.ContractReview) bool { return cr.MatterID == matterID }), nil
}

func (r *contractReviewRepository) CountByOrganization(_ context.Context, organizationID int64) (int, error) {
	return len(r.find(func(cr *domain.ContractReview) bool { return cr.OrganizationID == organizationID })), nil
}

func (r *contractReviewRepository) check(cr *domain.ContractReview) func(st *state) error {
	return func(st *state) error {
		return referenced(
			st.matters.has(cr.MatterID),
			st.organizations.has(cr.OrganizationID),
			st.workspaces.has(cr.WorkspaceID),
			hasOptional(st.people, cr.ReviewManagerID),
		)
	}
}

func (r *contractReviewRepository) Create(_ context.Context, cr *domain.ContractReview) error {
	return r.insert(cr, r.check(cr))
}

func (r *contractReviewRepository) Update(_ context.Context, cr *domain.ContractReview) error {
	return r.replace(cr, r.check(cr))
}

func (r *contractReviewRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeContractReview(id)
		return nil
	})
}

func (r *contractReviewRepository) Links(_ context.Context, reviewID int64) (domain.ReviewLinks, error) {
	var links domain.ReviewLinks
	r.s.read(func(st *state) {
		links.EstimateIDs = st.reviewEstimates.rights(reviewID)
		links.VendorAgreementIDs = st.reviewAgreements.rights(reviewID)
		links.InvoiceIDs = st.reviewInvoices.rights(reviewID)
	})
	return links, nil
}

func (r *contractReviewRepository) ReplaceLinks(_ context.Context, reviewID int64, links domain.ReviewLinks) error {
	return r.s.write(func(st *state) error {
		err := referenced(
			st.contractReviews.has(reviewID),
			allExist(st.estimates, links.EstimateIDs),
			allExist(st.vendorAgreements, links.VendorAgreementIDs),
			allExist(st.invoices, links.InvoiceIDs),
		)
		if err != nil {
			return err
		}
		st.reviewEstimates.setRights(reviewID, links.EstimateIDs)
		st.reviewAgreements.setRights(reviewID, links.VendorAgreementIDs)
		st.reviewInvoices.setRights(reviewID, links.InvoiceIDs)
		return nil
	})
}
