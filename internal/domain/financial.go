package domain

import "time"

// Estimate is a vendor's proposed cost for matter work.
type Estimate struct {
	Model
	MatterID       int64      `json:"matterId" db:"matter_id"`
	OrganizationID int64      `json:"organizationId" db:"organization_id"`
	Description    *string    `json:"description" db:"description"`
	TotalCost      float64    `json:"totalCost" db:"total_cost"`
	EstimateDate   *time.Time `json:"estimateDate" db:"estimate_date"`
	Notes          *string    `json:"notes" db:"notes"`

	Matter       *Matter       `json:"matter,omitempty" db:"-"`
	Organization *Organization `json:"organization,omitempty" db:"-"`
}

// VendorAgreement is a signed contract governing vendor work on a matter.
type VendorAgreement struct {
	Model
	MatterID       int64      `json:"matterId" db:"matter_id"`
	OrganizationID int64      `json:"organizationId" db:"organization_id"`
	EstimateID     *int64     `json:"estimateId" db:"estimate_id"`
	SignedBy       SignedBy   `json:"signedBy" db:"signed_by"`
	SignedDate     *time.Time `json:"signedDate" db:"signed_date"`
	Notes          *string    `json:"notes" db:"notes"`

	Matter       *Matter       `json:"matter,omitempty" db:"-"`
	Organization *Organization `json:"organization,omitempty" db:"-"`
	Estimate     *Estimate     `json:"estimate,omitempty" db:"-"`
}

// Invoice is a vendor bill for matter work.
type Invoice struct {
	Model
	MatterID          int64         `json:"matterId" db:"matter_id"`
	OrganizationID    int64         `json:"organizationId" db:"organization_id"`
	EstimateID        *int64        `json:"estimateId" db:"estimate_id"`
	VendorAgreementID *int64        `json:"vendorAgreementId" db:"vendor_agreement_id"`
	InvoiceNumber     *string       `json:"invoiceNumber" db:"invoice_number"`
	InvoiceDate       *time.Time    `json:"invoiceDate" db:"invoice_date"`
	Amount            float64       `json:"amount" db:"amount"`
	Status            InvoiceStatus `json:"status" db:"status"`
	Approved          bool          `json:"approved" db:"approved"`
	Notes             *string       `json:"notes" db:"notes"`

	Matter          *Matter          `json:"matter,omitempty" db:"-"`
	Organization    *Organization    `json:"organization,omitempty" db:"-"`
	Estimate        *Estimate        `json:"estimate,omitempty" db:"-"`
	VendorAgreement *VendorAgreement `json:"vendorAgreement,omitempty" db:"-"`
}
