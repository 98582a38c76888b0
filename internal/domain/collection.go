package domain

import "time"

// Collection is a data collection performed for a matter.
type Collection struct {
	Model
	MatterID      int64               `json:"matterId" db:"matter_id"`
	VendorID      *int64              `json:"vendorId" db:"vendor_id"`
	Type          CollectionType      `json:"type" db:"type"`
	Platform      *CollectionPlatform `json:"platform" db:"platform"`
	Status        CollectionStatus    `json:"status" db:"status"`
	ScheduledDate *time.Time          `json:"scheduledDate" db:"scheduled_date"`
	CompletedDate *time.Time          `json:"completedDate" db:"completed_date"`
	Notes         *string             `json:"notes" db:"notes"`

	CustodianIDs []int64       `json:"custodianIds" db:"-"`
	Matter       *Matter       `json:"matter,omitempty" db:"-"`
	Vendor       *Organization `json:"vendor,omitempty" db:"-"`
	Custodians   []*Custodian  `json:"custodians,omitempty" db:"-"`
}

// Workspace is a review platform instance hosted for a matter.
type Workspace struct {
	Model
	MatterID       int64         `json:"matterId" db:"matter_id"`
	OrganizationID int64         `json:"organizationId" db:"organization_id"`
	Name           string        `json:"name" db:"name"`
	Type           WorkspaceType `json:"type" db:"type"`
	URL            *string       `json:"url" db:"url"`
	Notes          *string       `json:"notes" db:"notes"`

	Matter       *Matter       `json:"matter,omitempty" db:"-"`
	Organization *Organization `json:"organization,omitempty" db:"-"`
}

// ContractReview is a batch of document review performed by a vendor.
type ContractReview struct {
	Model
	MatterID        int64                `json:"matterId" db:"matter_id"`
	OrganizationID  int64                `json:"organizationId" db:"organization_id"`
	WorkspaceID     int64                `json:"workspaceId" db:"workspace_id"`
	ReviewManagerID *int64               `json:"reviewManagerId" db:"review_manager_id"`
	Status          ContractReviewStatus `json:"status" db:"status"`
	StartDate       *time.Time           `json:"startDate" db:"start_date"`
	EndDate         *time.Time           `json:"endDate" db:"end_date"`
	Notes           *string              `json:"notes" db:"notes"`

	EstimateIDs        []int64 `json:"estimateIds" db:"-"`
	VendorAgreementIDs []int64 `json:"vendorAgreementIds" db:"-"`
	InvoiceIDs         []int64 `json:"invoiceIds" db:"-"`

	Matter           *Matter            `json:"matter,omitempty" db:"-"`
	Organization     *Organization      `json:"organization,omitempty" db:"-"`
	Workspace        *Workspace         `json:"workspace,omitempty" db:"-"`
	ReviewManager    *Person            `json:"reviewManager,omitempty" db:"-"`
	Estimates        []*Estimate        `json:"estimates,omitempty" db:"-"`
	VendorAgreements []*VendorAgreement `json:"vendorAgreements,omitempty" db:"-"`
	Invoices         []*Invoice         `json:"invoices,omitempty" db:"-"`
}

// ReviewLinks are the financial documents grouped under a contract review.
type ReviewLinks struct {
	EstimateIDs        []int64
	VendorAgreementIDs []int64
	InvoiceIDs         []int64
}
