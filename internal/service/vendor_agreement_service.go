package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// VendorAgreementService handles signed vendor agreements.
type VendorAgreementService struct {
	base
}

// NewVendorAgreementService creates a new vendor agreement service.
func NewVendorAgreementService(b base) *VendorAgreementService {
	return &VendorAgreementService{base: b}
}

// VendorAgreementInput is the body of a vendor agreement create or update.
type VendorAgreementInput struct {
	MatterID       Field[int64]           `json:"matterId"`
	OrganizationID Field[int64]           `json:"organizationId"`
	EstimateID     Field[int64]           `json:"estimateId"`
	SignedBy       Field[domain.SignedBy] `json:"signedBy"`
	SignedDate     Field[string]          `json:"signedDate"`
	Notes          Field[string]          `json:"notes"`
}

func (s *VendorAgreementService) List(ctx context.Context) ([]*domain.VendorAgreement, error) {
	agreements, err := s.store.VendorAgreements().List(ctx)
	if err != nil {
		return nil, err
	}
	return agreements, hydrateVendorAgreements(ctx, s.store, agreements)
}

func (s *VendorAgreementService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.VendorAgreement, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	agreements, err := s.store.VendorAgreements().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return agreements, hydrateVendorAgreements(ctx, s.store, agreements)
}

func (s *VendorAgreementService) Get(ctx context.Context, id int64) (*domain.VendorAgreement, error) {
	a, err := s.store.VendorAgreements().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a, hydrateVendorAgreements(ctx, s.store, []*domain.VendorAgreement{a})
}

func (s *VendorAgreementService) Create(ctx context.Context, in VendorAgreementInput) (*domain.VendorAgreement, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	a := &domain.VendorAgreement{}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, a); err != nil {
		return nil, err
	}

	if err := s.store.VendorAgreements().Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("vendor_agreement_id", a.ID).
		Int64("matter_id", a.MatterID).
		Int64("organization_id", a.OrganizationID).
		Str("signed_by", string(a.SignedBy)).
		Msg("Vendor agreement created")
	s.publish(ctx, "vendor_agreement", events.ActionCreated, a.ID, nil)

	return s.Get(ctx, a.ID)
}

func (s *VendorAgreementService) Update(ctx context.Context, id int64, in VendorAgreementInput) (*domain.VendorAgreement, error) {
	a, err := s.store.VendorAgreements().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	before := anchor{a.MatterID, a.OrganizationID}
	if err := s.apply(a, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, a); err != nil {
		return nil, err
	}
	if err := keepAnchored(ctx, s.store, agreementDoc, a.ID, before, anchor{a.MatterID, a.OrganizationID}); err != nil {
		return nil, err
	}

	if err := s.store.VendorAgreements().Update(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Int64("vendor_agreement_id", a.ID).Msg("Vendor agreement updated")
	s.publish(ctx, "vendor_agreement", events.ActionUpdated, a.ID, nil)

	return s.Get(ctx, a.ID)
}

func (s *VendorAgreementService) Delete(ctx context.Context, id int64) error {
	if err := s.store.VendorAgreements().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("vendor_agreement_id", id).Msg("Vendor agreement deleted")
	s.publish(ctx, "vendor_agreement", events.ActionDeleted, id, nil)
	return nil
}

func (s *VendorAgreementService) validateInput(in VendorAgreementInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	need(&m, "signedBy", in.SignedBy, creating)
	if err := m.err(); err != nil {
		return err
	}
	if in.SignedBy.Present() && !in.SignedBy.Value.Valid() {
		return errors.InvalidInput("signedBy", "Invalid signed by value")
	}
	return nil
}

func (s *VendorAgreementService) apply(a *domain.VendorAgreement, in VendorAgreementInput) error {
	in.MatterID.apply(&a.MatterID)
	in.OrganizationID.apply(&a.OrganizationID)
	in.EstimateID.applyPtr(&a.EstimateID)
	in.SignedBy.apply(&a.SignedBy)
	optionalText(&a.Notes, in.Notes)
	return applyDate("signedDate", in.SignedDate, &a.SignedDate)
}

func (s *VendorAgreementService) check(ctx context.Context, a *domain.VendorAgreement) error {
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, a.MatterID); err != nil {
		return err
	}
	if _, err := vendor(ctx, s.store, "organizationId", a.OrganizationID, "sign vendor agreements"); err != nil {
		return err
	}
	if a.EstimateID != nil {
		if _, err := matchingEstimate(ctx, s.store, *a.EstimateID, a.MatterID, a.OrganizationID); err != nil {
			return err
		}
	}
	return nil
}

func hydrateVendorAgreements(ctx context.Context, st repository.Store, agreements []*domain.VendorAgreement) error {
	var matterIDs, orgIDs, estimateIDs idSet
	for _, a := range agreements {
		matterIDs.add(a.MatterID)
		orgIDs.add(a.OrganizationID)
		estimateIDs.addPtr(a.EstimateID)
	}
	matters, err := lookup[domain.Matter](ctx, st.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	orgs, err := lookup[domain.Organization](ctx, st.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	estimates, err := lookup[domain.Estimate](ctx, st.Estimates(), estimateIDs.ids)
	if err != nil {
		return err
	}
	for _, a := range agreements {
		a.Matter = matters[a.MatterID]
		a.Organization = orgs[a.OrganizationID]
		a.Estimate = pick(estimates, a.EstimateID)
	}
	return nil
}

// matchingAgreement requires agreement id to share the document's matter and
// organization.
func matchingAgreement(ctx context.Context, st repository.Store, id, matterID, orgID int64) (*domain.VendorAgreement, error) {
	a, err := exists(ctx, "vendorAgreementId", st.VendorAgreements().GetByID, id)
	if err != nil {
		return nil, err
	}
	if a.MatterID != matterID || a.OrganizationID != orgID {
		return nil, errors.InvalidInput("vendorAgreementId", "Vendor agreement must belong to the same matter and organization")
	}
	return a, nil
}
