package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// ContractReviewService handles vendor document review batches.
type ContractReviewService struct {
	base
}

// NewContractReviewService creates a new contract review service.
func NewContractReviewService(b base) *ContractReviewService {
	return &ContractReviewService{base: b}
}

// ContractReviewInput is the body of a contract review create or update. The
// id lists replace the linked financial documents when present.
type ContractReviewInput struct {
	MatterID           Field[int64]                       `json:"matterId"`
	OrganizationID     Field[int64]                       `json:"organizationId"`
	WorkspaceID        Field[int64]                       `json:"workspaceId"`
	ReviewManagerID    Field[int64]                       `json:"reviewManagerId"`
	Status             Field[domain.ContractReviewStatus] `json:"status"`
	StartDate          Field[string]                      `json:"startDate"`
	EndDate            Field[string]                      `json:"endDate"`
	Notes              Field[string]                      `json:"notes"`
	EstimateIDs        Field[[]int64]                     `json:"estimateIds"`
	VendorAgreementIDs Field[[]int64]                     `json:"vendorAgreementIds"`
	InvoiceIDs         Field[[]int64]                     `json:"invoiceIds"`
}

func (s *ContractReviewService) List(ctx context.Context) ([]*domain.ContractReview, error) {
	reviews, err := s.store.ContractReviews().List(ctx)
	if err != nil {
		return nil, err
	}
	return reviews, s.hydrate(ctx, reviews)
}

func (s *ContractReviewService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.ContractReview, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	reviews, err := s.store.ContractReviews().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return reviews, s.hydrate(ctx, reviews)
}

func (s *ContractReviewService) Get(ctx context.Context, id int64) (*domain.ContractReview, error) {
	cr, err := s.store.ContractReviews().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return cr, s.hydrate(ctx, []*domain.ContractReview{cr})
}

func (s *ContractReviewService) Create(ctx context.Context, in ContractReviewInput) (*domain.ContractReview, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	cr := &domain.ContractReview{Status: domain.ContractReviewStatusDiscussing}
	if err := s.apply(cr, in); err != nil {
		return nil, err
	}
	links := domain.ReviewLinks{
		EstimateIDs:        dedupe(in.EstimateIDs.Value),
		VendorAgreementIDs: dedupe(in.VendorAgreementIDs.Value),
		InvoiceIDs:         dedupe(in.InvoiceIDs.Value),
	}
	if err := s.check(ctx, cr, links); err != nil {
		return nil, err
	}

	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.ContractReviews().Create(ctx, cr); err != nil {
			return err
		}
		return tx.ContractReviews().ReplaceLinks(ctx, cr.ID, links)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("contract_review_id", cr.ID).
		Int64("matter_id", cr.MatterID).
		Int64("workspace_id", cr.WorkspaceID).
		Msg("Contract review created")
	s.publish(ctx, "contract_review", events.ActionCreated, cr.ID, nil)

	return s.Get(ctx, cr.ID)
}

func (s *ContractReviewService) Update(ctx context.Context, id int64, in ContractReviewInput) (*domain.ContractReview, error) {
	cr, err := s.store.ContractReviews().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	if err := s.apply(cr, in); err != nil {
		return nil, err
	}

	links, err := s.store.ContractReviews().Links(ctx, cr.ID)
	if err != nil {
		return nil, err
	}
	if in.EstimateIDs.Set {
		links.EstimateIDs = dedupe(in.EstimateIDs.Value)
	}
	if in.VendorAgreementIDs.Set {
		links.VendorAgreementIDs = dedupe(in.VendorAgreementIDs.Value)
	}
	if in.InvoiceIDs.Set {
		links.InvoiceIDs = dedupe(in.InvoiceIDs.Value)
	}
	if err := s.check(ctx, cr, links); err != nil {
		return nil, err
	}

	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.ContractReviews().Update(ctx, cr); err != nil {
			return err
		}
		return tx.ContractReviews().ReplaceLinks(ctx, cr.ID, links)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("contract_review_id", cr.ID).Str("status", string(cr.Status)).Msg("Contract review updated")
	s.publish(ctx, "contract_review", events.ActionUpdated, cr.ID, nil)

	return s.Get(ctx, cr.ID)
}

func (s *ContractReviewService) Delete(ctx context.Context, id int64) error {
	if err := s.store.ContractReviews().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("contract_review_id", id).Msg("Contract review deleted")
	s.publish(ctx, "contract_review", events.ActionDeleted, id, nil)
	return nil
}

func (s *ContractReviewService) validateInput(in ContractReviewInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	need(&m, "workspaceId", in.WorkspaceID, creating)
	if err := m.err(); err != nil {
		return err
	}
	if in.Status.Set && !in.Status.Value.Valid() {
		return errors.InvalidInput("status", "Invalid contract review status")
	}
	return nil
}

func (s *ContractReviewService) apply(cr *domain.ContractReview, in ContractReviewInput) error {
	in.MatterID.apply(&cr.MatterID)
	in.OrganizationID.apply(&cr.OrganizationID)
	in.WorkspaceID.apply(&cr.WorkspaceID)
	in.ReviewManagerID.applyPtr(&cr.ReviewManagerID)
	in.Status.apply(&cr.Status)
	optionalText(&cr.Notes, in.Notes)
	if err := applyDate("startDate", in.StartDate, &cr.StartDate); err != nil {
		return err
	}
	return applyDate("endDate", in.EndDate, &cr.EndDate)
}

// check validates the merged review and the documents it groups.
func (s *ContractReviewService) check(ctx context.Context, cr *domain.ContractReview, links domain.ReviewLinks) error {
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, cr.MatterID); err != nil {
		return err
	}
	if _, err := vendor(ctx, s.store, "organizationId", cr.OrganizationID, "perform contract reviews"); err != nil {
		return err
	}

	w, err := exists(ctx, "workspaceId", s.store.Workspaces().GetByID, cr.WorkspaceID)
	if err != nil {
		return err
	}
	if w.MatterID != cr.MatterID {
		return errors.InvalidInput("workspaceId", "Workspace must belong to the same matter")
	}

	if cr.ReviewManagerID != nil {
		manager, err := exists(ctx, "reviewManagerId", s.store.People().GetByID, *cr.ReviewManagerID)
		if err != nil {
			return err
		}
		if manager.OrganizationID == nil || *manager.OrganizationID != cr.OrganizationID {
			return errors.InvalidInput("reviewManagerId", "Review manager must belong to the vendor organization")
		}
	}

	for _, id := range links.EstimateIDs {
		if _, err := matchingEstimate(ctx, s.store, id, cr.MatterID, cr.OrganizationID); err != nil {
			return err
		}
	}
	for _, id := range links.VendorAgreementIDs {
		if _, err := matchingAgreement(ctx, s.store, id, cr.MatterID, cr.OrganizationID); err != nil {
			return err
		}
	}
	for _, id := range links.InvoiceIDs {
		inv, err := exists(ctx, "invoiceIds", s.store.Invoices().GetByID, id)
		if err != nil {
			return err
		}
		if inv.MatterID != cr.MatterID || inv.OrganizationID != cr.OrganizationID {
			return errors.InvalidInput("invoiceIds", "Invoice must belong to the same matter and organization")
		}
	}
	return nil
}

func (s *ContractReviewService) hydrate(ctx context.Context, reviews []*domain.ContractReview) error {
	var matterIDs, orgIDs, workspaceIDs, personIDs idSet
	var estimateIDs, agreementIDs, invoiceIDs idSet
	linked := make(map[int64]domain.ReviewLinks, len(reviews))
	for _, cr := range reviews {
		matterIDs.add(cr.MatterID)
		orgIDs.add(cr.OrganizationID)
		workspaceIDs.add(cr.WorkspaceID)
		personIDs.addPtr(cr.ReviewManagerID)

		links, err := s.store.ContractReviews().Links(ctx, cr.ID)
		if err != nil {
			return err
		}
		linked[cr.ID] = links
		for _, id := range links.EstimateIDs {
			estimateIDs.add(id)
		}
		for _, id := range links.VendorAgreementIDs {
			agreementIDs.add(id)
		}
		for _, id := range links.InvoiceIDs {
			invoiceIDs.add(id)
		}
	}

	matters, err := lookup[domain.Matter](ctx, s.store.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	orgs, err := lookup[domain.Organization](ctx, s.store.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	workspaces, err := lookup[domain.Workspace](ctx, s.store.Workspaces(), workspaceIDs.ids)
	if err != nil {
		return err
	}
	people, err := lookup[domain.Person](ctx, s.store.People(), personIDs.ids)
	if err != nil {
		return err
	}
	estimates, err := lookup[domain.Estimate](ctx, s.store.Estimates(), estimateIDs.ids)
	if err != nil {
		return err
	}
	agreements, err := lookup[domain.VendorAgreement](ctx, s.store.VendorAgreements(), agreementIDs.ids)
	if err != nil {
		return err
	}
	invoices, err := lookup[domain.Invoice](ctx, s.store.Invoices(), invoiceIDs.ids)
	if err != nil {
		return err
	}

	for _, cr := range reviews {
		links := linked[cr.ID]
		cr.Matter = matters[cr.MatterID]
		cr.Organization = orgs[cr.OrganizationID]
		cr.Workspace = workspaces[cr.WorkspaceID]
		cr.ReviewManager = pick(people, cr.ReviewManagerID)
		cr.EstimateIDs = links.EstimateIDs
		cr.VendorAgreementIDs = links.VendorAgreementIDs
		cr.InvoiceIDs = links.InvoiceIDs
		cr.Estimates = collect(estimates, links.EstimateIDs)
		cr.VendorAgreements = collect(agreements, links.VendorAgreementIDs)
		cr.Invoices = collect(invoices, links.InvoiceIDs)
	}
	return nil
}
