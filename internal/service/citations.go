package service

import (
	"context"
	"slices"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// document names a vendor document that other documents may cite.
type document int

const (
	estimateDoc document = iota
	agreementDoc
	invoiceDoc
)

func (d document) label() string {
	switch d {
	case estimateDoc:
		return "an estimate"
	case agreementDoc:
		return "a vendor agreement"
	default:
		return "an invoice"
	}
}

// anchor is the matter and organization a vendor document belongs to.
type anchor struct {
	matterID int64
	orgID    int64
}

// citations counts the documents citing id. A citing document always shares
// the cited one's matter, so only matterID is scanned.
func citations(ctx context.Context, st repository.Store, doc document, id, matterID int64) (int, error) {
	var n int
	if doc == estimateDoc {
		agreements, err := st.VendorAgreements().ListByMatter(ctx, matterID)
		if err != nil {
			return 0, err
		}
		for _, a := range agreements {
			if a.EstimateID != nil && *a.EstimateID == id {
				n++
			}
		}
	}

	if doc != invoiceDoc {
		invoices, err := st.Invoices().ListByMatter(ctx, matterID)
		if err != nil {
			return 0, err
		}
		for _, inv := range invoices {
			cited := inv.EstimateID
			if doc == agreementDoc {
				cited = inv.VendorAgreementID
			}
			if cited != nil && *cited == id {
				n++
			}
		}
	}

	reviews, err := st.ContractReviews().ListByMatter(ctx, matterID)
	if err != nil {
		return 0, err
	}
	for _, cr := range reviews {
		links, err := st.ContractReviews().Links(ctx, cr.ID)
		if err != nil {
			return 0, err
		}
		ids := links.InvoiceIDs
		switch doc {
		case estimateDoc:
			ids = links.EstimateIDs
		case agreementDoc:
			ids = links.VendorAgreementIDs
		}
		if slices.Contains(ids, id) {
			n++
		}
	}
	return n, nil
}

// keepAnchored refuses to move a cited document to another matter or
// organization, which would break the citing documents' consistency rule.
func keepAnchored(ctx context.Context, st repository.Store, doc document, id int64, before, after anchor) error {
	if before == after {
		return nil
	}
	n, err := citations(ctx, st, doc, id, before.matterID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.Dependency("Cannot change the matter or organization of " + doc.label() + " cited by other documents")
	}
	return nil
}

// vendorDocuments counts everything that requires orgID to stay a VENDOR.
func vendorDocuments(ctx context.Context, st repository.Store, orgID int64) (int, error) {
	counters := []func(context.Context, int64) (int, error){
		st.Estimates().CountByOrganization,
		st.VendorAgreements().CountByOrganization,
		st.Invoices().CountByOrganization,
		st.ContractReviews().CountByOrganization,
		st.Collections().CountByVendor,
	}
	var total int
	for _, count := range counters {
		n, err := count(ctx, orgID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
