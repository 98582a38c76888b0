package domain

// MatterStatus is the lifecycle stage of a matter.
type MatterStatus string

const (
	MatterStatusCollection MatterStatus = "COLLECTION"
	MatterStatusCulling    MatterStatus = "CULLING"
	MatterStatusReview     MatterStatus = "REVIEW"
	MatterStatusProduction MatterStatus = "PRODUCTION"
	MatterStatusInactive   MatterStatus = "INACTIVE"
)

var MatterStatuses = []MatterStatus{
	MatterStatusCollection, MatterStatusCulling, MatterStatusReview, MatterStatusProduction, MatterStatusInactive,
}

func (s MatterStatus) Valid() bool {
	switch s {
	case MatterStatusCollection, MatterStatusCulling, MatterStatusReview, MatterStatusProduction, MatterStatusInactive:
		return true
	}
	return false
}

func (s MatterStatus) Label() string { return titleCase(string(s)) }

// PersonType is the role a person plays.
type PersonType string

const (
	PersonTypeAttorney       PersonType = "ATTORNEY"
	PersonTypeParalegal      PersonType = "PARALEGAL"
	PersonTypeVendor         PersonType = "VENDOR"
	PersonTypeProjectManager PersonType = "PROJECT_MANAGER"
)

var PersonTypes = []PersonType{
	PersonTypeAttorney, PersonTypeParalegal, PersonTypeVendor, PersonTypeProjectManager,
}

func (t PersonType) Valid() bool {
	switch t {
	case PersonTypeAttorney, PersonTypeParalegal, PersonTypeVendor, PersonTypeProjectManager:
		return true
	}
	return false
}

func (t PersonType) Label() string { return titleCase(string(t)) }

// OrganizationType classifies an organization's relationship to the firm.
type OrganizationType string

const (
	OrganizationTypeCurrentLawFirm  OrganizationType = "CURRENT_LAW_FIRM"
	OrganizationTypeCoCounsel       OrganizationType = "CO_COUNSEL"
	OrganizationTypeOpposingCounsel OrganizationType = "OPPOSING_COUNSEL"
	OrganizationTypeVendor          OrganizationType = "VENDOR"
	OrganizationTypeThirdParty      OrganizationType = "THIRD_PARTY"
)

var OrganizationTypes = []OrganizationType{
	OrganizationTypeCurrentLawFirm, OrganizationTypeCoCounsel, OrganizationTypeOpposingCounsel,
	OrganizationTypeVendor, OrganizationTypeThirdParty,
}

func (t OrganizationType) Valid() bool {
	switch t {
	case OrganizationTypeCurrentLawFirm, OrganizationTypeCoCounsel, OrganizationTypeOpposingCounsel,
		OrganizationTypeVendor, OrganizationTypeThirdParty:
		return true
	}
	return false
}

func (t OrganizationType) Label() string { return titleCase(string(t)) }

type CollectionType string

const (
	CollectionTypeEmail    CollectionType = "EMAIL"
	CollectionTypeMobile   CollectionType = "MOBILE"
	CollectionTypeComputer CollectionType = "COMPUTER"
	CollectionTypeOther    CollectionType = "OTHER"
)

var CollectionTypes = []CollectionType{
	CollectionTypeEmail, CollectionTypeMobile, CollectionTypeComputer, CollectionTypeOther,
}

func (t CollectionType) Valid() bool {
	switch t {
	case CollectionTypeEmail, CollectionTypeMobile, CollectionTypeComputer, CollectionTypeOther:
		return true
	}
	return false
}

func (t CollectionType) Label() string { return titleCase(string(t)) }

// CollectionPlatform only applies to EMAIL collections.
type CollectionPlatform string

const (
	CollectionPlatformOutlook CollectionPlatform = "OUTLOOK"
	CollectionPlatformGmail   CollectionPlatform = "GMAIL"
	CollectionPlatformOther   CollectionPlatform = "OTHER"
)

var CollectionPlatforms = []CollectionPlatform{
	CollectionPlatformOutlook, CollectionPlatformGmail, CollectionPlatformOther,
}

func (p CollectionPlatform) Valid() bool {
	switch p {
	case CollectionPlatformOutlook, CollectionPlatformGmail, CollectionPlatformOther:
		return true
	}
	return false
}

func (p CollectionPlatform) Label() string { return titleCase(string(p)) }

type CollectionStatus string

const (
	CollectionStatusDiscussing CollectionStatus = "DISCUSSING"
	CollectionStatusScheduled  CollectionStatus = "SCHEDULED"
	CollectionStatusInProgress CollectionStatus = "IN_PROGRESS"
	CollectionStatusCompleted  CollectionStatus = "COMPLETED"
)

var CollectionStatuses = []CollectionStatus{
	CollectionStatusDiscussing, CollectionStatusScheduled, CollectionStatusInProgress, CollectionStatusCompleted,
}

func (s CollectionStatus) Valid() bool {
	switch s {
	case CollectionStatusDiscussing, CollectionStatusScheduled, CollectionStatusInProgress, CollectionStatusCompleted:
		return true
	}
	return false
}

func (s CollectionStatus) Label() string { return titleCase(string(s)) }

type InvoiceStatus string

const (
	InvoiceStatusReceived  InvoiceStatus = "RECEIVED"
	InvoiceStatusSubmitted InvoiceStatus = "SUBMITTED"
	InvoiceStatusQuestion  InvoiceStatus = "QUESTION"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
)

var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusReceived, InvoiceStatusSubmitted, InvoiceStatusQuestion, InvoiceStatusPaid,
}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusReceived, InvoiceStatusSubmitted, InvoiceStatusQuestion, InvoiceStatusPaid:
		return true
	}
	return false
}

func (s InvoiceStatus) Label() string { return titleCase(string(s)) }

// SignedBy records who signed a vendor agreement.
type SignedBy string

const (
	SignedByProjectManager SignedBy = "PROJECT_MANAGER"
	SignedByPartner        SignedBy = "PARTNER"
	SignedByClient         SignedBy = "CLIENT"
)

var SignedByValues = []SignedBy{SignedByProjectManager, SignedByPartner, SignedByClient}

func (s SignedBy) Valid() bool {
	switch s {
	case SignedByProjectManager, SignedByPartner, SignedByClient:
		return true
	}
	return false
}

func (s SignedBy) Label() string { return titleCase(string(s)) }

// ContractReviewStatus values are stored as display strings.
type ContractReviewStatus string

const (
	ContractReviewStatusDiscussing ContractReviewStatus = "Discussing"
	ContractReviewStatusInProgress ContractReviewStatus = "In Progress"
	ContractReviewStatusCompleted  ContractReviewStatus = "Completed"
)

var ContractReviewStatuses = []ContractReviewStatus{
	ContractReviewStatusDiscussing, ContractReviewStatusInProgress, ContractReviewStatusCompleted,
}

func (s ContractReviewStatus) Valid() bool {
	switch s {
	case ContractReviewStatusDiscussing, ContractReviewStatusInProgress, ContractReviewStatusCompleted:
		return true
	}
	return false
}

func (s ContractReviewStatus) Label() string { return string(s) }

type WorkspaceType string

const (
	WorkspaceTypeECA    WorkspaceType = "ECA"
	WorkspaceTypeReview WorkspaceType = "REVIEW"
	WorkspaceTypeRSMF   WorkspaceType = "RSMF"
	WorkspaceTypeOther  WorkspaceType = "OTHER"
)

var WorkspaceTypes = []WorkspaceType{WorkspaceTypeECA, WorkspaceTypeReview, WorkspaceTypeRSMF, WorkspaceTypeOther}

func (t WorkspaceType) Valid() bool {
	switch t {
	case WorkspaceTypeECA, WorkspaceTypeReview, WorkspaceTypeRSMF, WorkspaceTypeOther:
		return true
	}
	return false
}

func (t WorkspaceType) Label() string {
	switch t {
	case WorkspaceTypeECA, WorkspaceTypeRSMF:
		return string(t)
	}
	return titleCase(string(t))
}

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

var TaskStatuses = []TaskStatus{TaskStatusNotStarted, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted:
		return true
	}
	return false
}

func (s TaskStatus) Label() string { return titleCase(string(s)) }

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

func (p TaskPriority) Label() string { return titleCase(string(p)) }
