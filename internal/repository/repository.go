// Package repository defines the persistence contract the services depend on.
// Implementations live in the postgres and memory subpackages.
package repository

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

// Repository is the CRUD contract shared by every table.
type Repository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	// GetMany returns the rows that exist among ids, in id order.
	GetMany(ctx context.Context, ids []int64) ([]*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id int64) error
}

// MatterScoped is implemented by tables owned by a matter.
type MatterScoped[T any] interface {
	ListByMatter(ctx context.Context, matterID int64) ([]*T, error)
}

// VendorScoped is implemented by documents issued by a vendor organization.
type VendorScoped interface {
	CountByOrganization(ctx context.Context, organizationID int64) (int, error)
}

type ClientRepository interface {
	Repository[domain.Client]
	// FillStaffSlot sets slot to personID only when it is empty and reports
	// whether it changed.
	FillStaffSlot(ctx context.Context, clientID int64, slot domain.StaffSlot, personID int64) (bool, error)
}

type MatterRepository interface {
	Repository[domain.Matter]
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Matter, error)
}

// AssignmentRepository manages the matter/person join table.
type AssignmentRepository interface {
	PersonIDs(ctx context.Context, matterID int64) ([]int64, error)
	MatterIDs(ctx context.Context, personID int64) ([]int64, error)
	ReplaceForMatter(ctx context.Context, matterID int64, personIDs []int64) error
	ReplaceForPerson(ctx context.Context, personID int64, matterIDs []int64) error
	Add(ctx context.Context, matterID, personID int64) error
	Remove(ctx context.Context, matterID, personID int64) error
}

// PersonFilter narrows a people listing. Zero values match everything.
type PersonFilter struct {
	Type           domain.PersonType
	OrganizationID int64
}

type PersonRepository interface {
	Repository[domain.Person]
	Find(ctx context.Context, filter PersonFilter) ([]*domain.Person, error)
	CountByOrganization(ctx context.Context, organizationID int64) (int, error)
}

type OrganizationRepository interface {
	Repository[domain.Organization]
	ListByType(ctx context.Context, t domain.OrganizationType) ([]*domain.Organization, error)
}

type CustodianRepository interface {
	Repository[domain.Custodian]
	ListByOrganization(ctx context.Context, organizationID int64) ([]*domain.Custodian, error)
}

type CollectionRepository interface {
	Repository[domain.Collection]
	MatterScoped[domain.Collection]
	CustodianIDs(ctx context.Context, collectionID int64) ([]int64, error)
	ReplaceCustodians(ctx context.Context, collectionID int64, custodianIDs []int64) error
	CountByCustodian(ctx context.Context, custodianID int64) (int, error)
	CountByVendor(ctx context.Context, organizationID int64) (int, error)
}

type EstimateRepository interface {
	Repository[domain.Estimate]
	MatterScoped[domain.Estimate]
	VendorScoped
}

type VendorAgreementRepository interface {
	Repository[domain.VendorAgreement]
	MatterScoped[domain.VendorAgreement]
	VendorScoped
}

type InvoiceRepository interface {
	Repository[domain.Invoice]
	MatterScoped[domain.Invoice]
	VendorScoped
}

type WorkspaceRepository interface {
	Repository[domain.Workspace]
	MatterScoped[domain.Workspace]
}

type ContractReviewRepository interface {
	Repository[domain.ContractReview]
	MatterScoped[domain.ContractReview]
	VendorScoped
	Links(ctx context.Context, reviewID int64) (domain.ReviewLinks, error)
	ReplaceLinks(ctx context.Context, reviewID int64, links domain.ReviewLinks) error
}

type TaskRepository interface {
	Repository[domain.Task]
	MatterScoped[domain.Task]
	// ListForPerson returns tasks owned by or assigned to personID.
	ListForPerson(ctx context.Context, personID int64) ([]*domain.Task, error)
	AssigneeIDs(ctx context.Context, taskID int64) ([]int64, error)
	ReplaceAssignees(ctx context.Context, taskID int64, personIDs []int64) error
}

type UserRepository interface {
	Repository[domain.User]
	// GetByLogin finds a user by username or email, case-insensitively.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
}

// Store is the injected persistence handle.
type Store interface {
	Clients() ClientRepository
	Matters() MatterRepository
	Assignments() AssignmentRepository
	People() PersonRepository
	Organizations() OrganizationRepository
	Custodians() CustodianRepository
	Collections() CollectionRepository
	Estimates() EstimateRepository
	VendorAgreements() VendorAgreementRepository
	Invoices() InvoiceRepository
	Workspaces() WorkspaceRepository
	ContractReviews() ContractReviewRepository
	Tasks() TaskRepository
	Users() UserRepository

	// InTransaction runs fn against a store whose writes commit together when
	// fn returns nil and are discarded otherwise.
	InTransaction(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
