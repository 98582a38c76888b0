package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// EstimateService handles vendor estimates.
type EstimateService struct {
	base
}

// NewEstimateService creates a new estimate service.
func NewEstimateService(b base) *EstimateService {
	return &EstimateService{base: b}
}

// EstimateInput is the body of an estimate create or update.
type EstimateInput struct {
	MatterID       Field[int64]   `json:"matterId"`
	OrganizationID Field[int64]   `json:"organizationId"`
	Description    Field[string]  `json:"description"`
	TotalCost      Field[float64] `json:"totalCost"`
	EstimateDate   Field[string]  `json:"estimateDate"`
	Notes          Field[string]  `json:"notes"`
}

func (s *EstimateService) List(ctx context.Context) ([]*domain.Estimate, error) {
	estimates, err := s.store.Estimates().List(ctx)
	if err != nil {
		return nil, err
	}
	return estimates, hydrateEstimates(ctx, s.store, estimates)
}

func (s *EstimateService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Estimate, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	estimates, err := s.store.Estimates().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return estimates, hydrateEstimates(ctx, s.store, estimates)
}

func (s *EstimateService) Get(ctx context.Context, id int64) (*domain.Estimate, error) {
	e, err := s.store.Estimates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, hydrateEstimates(ctx, s.store, []*domain.Estimate{e})
}

func (s *EstimateService) Create(ctx context.Context, in EstimateInput) (*domain.Estimate, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	e := &domain.Estimate{}
	if err := s.apply(e, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, e); err != nil {
		return nil, err
	}

	if err := s.store.Estimates().Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("estimate_id", e.ID).
		Int64("matter_id", e.MatterID).
		Int64("organization_id", e.OrganizationID).
		Float64("total_cost", e.TotalCost).
		Msg("Estimate created")
	s.publish(ctx, "estimate", events.ActionCreated, e.ID, map[string]any{"totalCost": e.TotalCost})

	return s.Get(ctx, e.ID)
}

func (s *EstimateService) Update(ctx context.Context, id int64, in EstimateInput) (*domain.Estimate, error) {
	e, err := s.store.Estimates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	before := anchor{e.MatterID, e.OrganizationID}
	if err := s.apply(e, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, e); err != nil {
		return nil, err
	}
	if err := keepAnchored(ctx, s.store, estimateDoc, e.ID, before, anchor{e.MatterID, e.OrganizationID}); err != nil {
		return nil, err
	}

	if err := s.store.Estimates().Update(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().Int64("estimate_id", e.ID).Msg("Estimate updated")
	s.publish(ctx, "estimate", events.ActionUpdated, e.ID, nil)

	return s.Get(ctx, e.ID)
}

// Delete removes an estimate. Agreements and invoices citing it lose the link.
func (s *EstimateService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Estimates().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("estimate_id", id).Msg("Estimate deleted")
	s.publish(ctx, "estimate", events.ActionDeleted, id, nil)
	return nil
}

func (s *EstimateService) validateInput(in EstimateInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	need(&m, "totalCost", in.TotalCost, creating)
	if err := m.err(); err != nil {
		return err
	}
	return nonNegative("totalCost", in.TotalCost, "Total cost")
}

func (s *EstimateService) apply(e *domain.Estimate, in EstimateInput) error {
	in.MatterID.apply(&e.MatterID)
	in.OrganizationID.apply(&e.OrganizationID)
	optionalText(&e.Description, in.Description)
	in.TotalCost.apply(&e.TotalCost)
	optionalText(&e.Notes, in.Notes)
	return applyDate("estimateDate", in.EstimateDate, &e.EstimateDate)
}

func (s *EstimateService) check(ctx context.Context, e *domain.Estimate) error {
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, e.MatterID); err != nil {
		return err
	}
	_, err := vendor(ctx, s.store, "organizationId", e.OrganizationID, "provide estimates")
	return err
}

func hydrateEstimates(ctx context.Context, st repository.Store, estimates []*domain.Estimate) error {
	var matterIDs, orgIDs idSet
	for _, e := range estimates {
		matterIDs.add(e.MatterID)
		orgIDs.add(e.OrganizationID)
	}
	matters, err := lookup[domain.Matter](ctx, st.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	orgs, err := lookup[domain.Organization](ctx, st.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	for _, e := range estimates {
		e.Matter = matters[e.MatterID]
		e.Organization = orgs[e.OrganizationID]
	}
	return nil
}

// matchingEstimate requires estimate id to share the document's matter and
// organization.
func matchingEstimate(ctx context.Context, st repository.Store, id, matterID, orgID int64) (*domain.Estimate, error) {
	e, err := exists(ctx, "estimateId", st.Estimates().GetByID, id)
	if err != nil {
		return nil, err
	}
	if e.MatterID != matterID || e.OrganizationID != orgID {
		return nil, errors.InvalidInput("estimateId", "Estimate must belong to the same matter and organization")
	}
	return e, nil
}
