package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// InvoiceService handles vendor invoice business logic
type InvoiceService struct {
	base
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(b base) *InvoiceService {
	return &InvoiceService{base: b}
}

// InvoiceInput is the body of an invoice create or update.
type InvoiceInput struct {
	MatterID          Field[int64]                `json:"matterId"`
	OrganizationID    Field[int64]                `json:"organizationId"`
	EstimateID        Field[int64]                `json:"estimateId"`
	VendorAgreementID Field[int64]                `json:"vendorAgreementId"`
	InvoiceNumber     Field[string]               `json:"invoiceNumber"`
	InvoiceDate       Field[string]               `json:"invoiceDate"`
	Amount            Field[float64]              `json:"amount"`
	Status            Field[domain.InvoiceStatus] `json:"status"`
	Approved          Field[bool]                 `json:"approved"`
	Notes             Field[string]               `json:"notes"`
}

// List retrieves all invoices
func (s *InvoiceService) List(ctx context.Context) ([]*domain.Invoice, error) {
	invoices, err := s.store.Invoices().List(ctx)
	if err != nil {
		return nil, err
	}
	return invoices, hydrateInvoices(ctx, s.store, invoices)
}

// ListByMatter retrieves the invoices billed against a matter
func (s *InvoiceService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Invoice, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	invoices, err := s.store.Invoices().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return invoices, hydrateInvoices(ctx, s.store, invoices)
}

// Get retrieves an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.store.Invoices().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return inv, hydrateInvoices(ctx, s.store, []*domain.Invoice{inv})
}

// Create creates a new invoice
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*domain.Invoice, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	inv := &domain.Invoice{Status: domain.InvoiceStatusReceived}
	if err := s.apply(inv, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.store.Invoices().Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("invoice_id", inv.ID).
		Int64("matter_id", inv.MatterID).
		Int64("organization_id", inv.OrganizationID).
		Float64("amount", inv.Amount).
		Str("status", string(inv.Status)).
		Msg("Invoice created")
	s.publish(ctx, "invoice", events.ActionCreated, inv.ID, map[string]any{
		"amount": inv.Amount,
		"status": inv.Status,
	})

	return s.Get(ctx, inv.ID)
}

// Update replaces the fields present in the input
func (s *InvoiceService) Update(ctx context.Context, id int64, in InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.store.Invoices().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	previousStatus, wasApproved := inv.Status, inv.Approved
	before := anchor{inv.MatterID, inv.OrganizationID}
	if err := s.apply(inv, in); err != nil {
		return nil, err
	}
	if err := s.check(ctx, inv); err != nil {
		return nil, err
	}
	if err := keepAnchored(ctx, s.store, invoiceDoc, inv.ID, before, anchor{inv.MatterID, inv.OrganizationID}); err != nil {
		return nil, err
	}

	if err := s.store.Invoices().Update(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("invoice_id", inv.ID).
		Str("status", string(inv.Status)).
		Bool("approved", inv.Approved).
		Msg("Invoice updated")
	payload := map[string]any{}
	if inv.Status != previousStatus {
		payload["status"] = inv.Status
	}
	if inv.Approved != wasApproved {
		payload["approved"] = inv.Approved
	}
	s.publish(ctx, "invoice", events.ActionUpdated, inv.ID, payload)

	return s.Get(ctx, inv.ID)
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Invoices().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("invoice_id", id).Msg("Invoice deleted")
	s.publish(ctx, "invoice", events.ActionDeleted, id, nil)
	return nil
}

func (s *InvoiceService) validateInput(in InvoiceInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	need(&m, "amount", in.Amount, creating)
	if err := m.err(); err != nil {
		return err
	}
	if err := nonNegative("amount", in.Amount, "Amount"); err != nil {
		return err
	}
	if in.Status.Set && !in.Status.Value.Valid() {
		return errors.InvalidInput("status", "Invalid invoice status")
	}
	return nil
}

func (s *InvoiceService) apply(inv *domain.Invoice, in InvoiceInput) error {
	in.MatterID.apply(&inv.MatterID)
	in.OrganizationID.apply(&inv.OrganizationID)
	in.EstimateID.applyPtr(&inv.EstimateID)
	in.VendorAgreementID.applyPtr(&inv.VendorAgreementID)
	optionalText(&inv.InvoiceNumber, in.InvoiceNumber)
	in.Amount.apply(&inv.Amount)
	in.Status.apply(&inv.Status)
	in.Approved.apply(&inv.Approved)
	optionalText(&inv.Notes, in.Notes)
	return applyDate("invoiceDate", in.InvoiceDate, &inv.InvoiceDate)
}

// check validates the merged invoice: the vendor must be a VENDOR and any
// cited estimate or agreement must share its matter and organization.
func (s *InvoiceService) check(ctx context.Context, inv *domain.Invoice) error {
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, inv.MatterID); err != nil {
		return err
	}
	if _, err := vendor(ctx, s.store, "organizationId", inv.OrganizationID, "submit invoices"); err != nil {
		return err
	}
	if inv.EstimateID != nil {
		if _, err := matchingEstimate(ctx, s.store, *inv.EstimateID, inv.MatterID, inv.OrganizationID); err != nil {
			return err
		}
	}
	if inv.VendorAgreementID != nil {
		if _, err := matchingAgreement(ctx, s.store, *inv.VendorAgreementID, inv.MatterID, inv.OrganizationID); err != nil {
			return err
		}
	}
	return nil
}

func hydrateInvoices(ctx context.Context, st repository.Store, invoices []*domain.Invoice) error {
	var matterIDs, orgIDs, estimateIDs, agreementIDs idSet
	for _, inv := range invoices {
		matterIDs.add(inv.MatterID)
		orgIDs.add(inv.OrganizationID)
		estimateIDs.addPtr(inv.EstimateID)
		agreementIDs.addPtr(inv.VendorAgreementID)
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
	agreements, err := lookup[domain.VendorAgreement](ctx, st.VendorAgreements(), agreementIDs.ids)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		inv.Matter = matters[inv.MatterID]
		inv.Organization = orgs[inv.OrganizationID]
		inv.Estimate = pick(estimates, inv.EstimateID)
		inv.VendorAgreement = pick(agreements, inv.VendorAgreementID)
	}
	return nil
}
