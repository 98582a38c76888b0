// Package memory is an in-process implementation of the repository contract.
// It backs DATABASE_PROVIDER=memory and the service and handler tests, and
// mirrors the PostgreSQL schema's unique constraints and ON DELETE rules.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

type state struct {
	// txMu serialises writers so a rolled back transaction cannot discard
	// another caller's committed writes. Readers only take mu, so they may
	// observe uncommitted rows.
	txMu sync.Mutex
	mu   sync.RWMutex

	clients          *table[domain.Client, *domain.Client]
	matters          *table[domain.Matter, *domain.Matter]
	people           *table[domain.Person, *domain.Person]
	organizations    *table[domain.Organization, *domain.Organization]
	custodians       *table[domain.Custodian, *domain.Custodian]
	collections      *table[domain.Collection, *domain.Collection]
	estimates        *table[domain.Estimate, *domain.Estimate]
	vendorAgreements *table[domain.VendorAgreement, *domain.VendorAgreement]
	invoices         *table[domain.Invoice, *domain.Invoice]
	workspaces       *table[domain.Workspace, *domain.Workspace]
	contractReviews  *table[domain.ContractReview, *domain.ContractReview]
	tasks            *table[domain.Task, *domain.Task]
	users            *table[domain.User, *domain.User]

	matterPeople         links // matter -> person
	collectionCustodians links // collection -> custodian
	taskAssignees        links // task -> person
	reviewEstimates      links // review -> estimate
	reviewAgreements     links // review -> vendor agreement
	reviewInvoices       links // review -> invoice

	now func() time.Time
}

func newState() *state {
	return &state{
		clients:              newTable[domain.Client](),
		matters:              newTable[domain.Matter](),
		people:               newTable[domain.Person](),
		organizations:        newTable[domain.Organization](),
		custodians:           newTable[domain.Custodian](),
		collections:          newTable[domain.Collection](),
		estimates:            newTable[domain.Estimate](),
		vendorAgreements:     newTable[domain.VendorAgreement](),
		invoices:             newTable[domain.Invoice](),
		workspaces:           newTable[domain.Workspace](),
		contractReviews:      newTable[domain.ContractReview](),
		tasks:                newTable[domain.Task](),
		users:                newTable[domain.User](),
		matterPeople:         links{},
		collectionCustodians: links{},
		taskAssignees:        links{},
		reviewEstimates:      links{},
		reviewAgreements:     links{},
		reviewInvoices:       links{},
		now:                  time.Now,
	}
}

// snapshot copies every table. Rows are stored by value, so a shallow map
// copy is enough.
func (st *state) snapshot() *state {
	return &state{
		clients:              st.clients.clone(),
		matters:              st.matters.clone(),
		people:               st.people.clone(),
		organizations:        st.organizations.clone(),
		custodians:           st.custodians.clone(),
		collections:          st.collections.clone(),
		estimates:            st.estimates.clone(),
		vendorAgreements:     st.vendorAgreements.clone(),
		invoices:             st.invoices.clone(),
		workspaces:           st.workspaces.clone(),
		contractReviews:      st.contractReviews.clone(),
		tasks:                st.tasks.clone(),
		users:                st.users.clone(),
		matterPeople:         cloneLinks(st.matterPeople),
		collectionCustodians: cloneLinks(st.collectionCustodians),
		taskAssignees:        cloneLinks(st.taskAssignees),
		reviewEstimates:      cloneLinks(st.reviewEstimates),
		reviewAgreements:     cloneLinks(st.reviewAgreements),
		reviewInvoices:       cloneLinks(st.reviewInvoices),
	}
}

func (st *state) restore(snap *state) {
	st.clients = snap.clients
	st.matters = snap.matters
	st.people = snap.people
	st.organizations = snap.organizations
	st.custodians = snap.custodians
	st.collections = snap.collections
	st.estimates = snap.estimates
	st.vendorAgreements = snap.vendorAgreements
	st.invoices = snap.invoices
	st.workspaces = snap.workspaces
	st.contractReviews = snap.contractReviews
	st.tasks = snap.tasks
	st.users = snap.users
	st.matterPeople = snap.matterPeople
	st.collectionCustodians = snap.collectionCustodians
	st.taskAssignees = snap.taskAssignees
	st.reviewEstimates = snap.reviewEstimates
	st.reviewAgreements = snap.reviewAgreements
	st.reviewInvoices = snap.reviewInvoices
}

func cloneLinks(l links) links {
	out := make(links, len(l))
	for k := range l {
		out[k] = struct{}{}
	}
	return out
}

// Store is the in-memory repository.Store.
type Store struct {
	st   *state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	if !s.inTx {
		s.st.txMu.Lock()
		defer s.st.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(s.st)
}

// InTransaction runs fn with writers excluded and restores the pre-call
// state if fn fails or ctx ends before the commit.
func (s *Store) InTransaction(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.RLock()
	snap := s.st.snapshot()
	s.st.mu.RUnlock()

	err := fn(&Store{st: s.st, inTx: true})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st.mu.Lock()
		s.st.restore(snap)
		s.st.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Clients() repository.ClientRepository { return newClientRepository(s) }
func (s *Store) Matters() repository.MatterRepository { return newMatterRepository(s) }
func (s *Store) Assignments() repository.AssignmentRepository {
	return &assignmentRepository{s: s}
}
func (s *Store) People() repository.PersonRepository { return newPersonRepository(s) }
func (s *Store) Organizations() repository.OrganizationRepository {
	return newOrganizationRepository(s)
}
func (s *Store) Custodians() repository.CustodianRepository {
	return newCustodianRepository(s)
}
func (s *Store) Collections() repository.CollectionRepository {
	return newCollectionRepository(s)
}
func (s *Store) Estimates() repository.EstimateRepository { return newEstimateRepository(s) }
func (s *Store) VendorAgreements() repository.VendorAgreementRepository {
	return newVendorAgreementRepository(s)
}
func (s *Store) Invoices() repository.InvoiceRepository { return newInvoiceRepository(s) }
func (s *Store) Workspaces() repository.WorkspaceRepository {
	return newWorkspaceRepository(s)
}
func (s *Store) ContractReviews() repository.ContractReviewRepository {
	return newContractReviewRepository(s)
}
func (s *Store) Tasks() repository.TaskRepository { return newTaskRepository(s) }
func (s *Store) Users() repository.UserRepository { return newUserRepository(s) }

// crud implements the generic reads and plain writes for one table.
type crud[T any, P entity[T]] struct {
	s        *Store
	tbl      func(*state) *table[T, P]
	resource string
	// order matches the ORDER BY of the SQL listing; nil keeps id order.
	order func(a, b *T) int
}

func (c crud[T, P]) sorted(rows []*T) []*T {
	if c.order != nil {
		slices.SortStableFunc(rows, c.order)
	}
	return rows
}

func (c crud[T, P]) List(context.Context) ([]*T, error) {
	return c.find(nil), nil
}

func (c crud[T, P]) GetByID(_ context.Context, id int64) (*T, error) {
	var (
		row *T
		ok  bool
	)
	c.s.read(func(st *state) { row, ok = c.tbl(st).get(id) })
	if !ok {
		return nil, errors.NotFound(c.resource, id)
	}
	return row, nil
}

func (c crud[T, P]) GetMany(_ context.Context, ids []int64) ([]*T, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*T
	c.s.read(func(st *state) {
		out = c.tbl(st).where(func(row *T) bool { return want[P(row).Base().ID] })
	})
	return out, nil
}

func (c crud[T, P]) find(match func(*T) bool) []*T {
	var out []*T
	c.s.read(func(st *state) { out = c.tbl(st).where(match) })
	return c.sorted(out)
}

// insert checks fn (constraints) then stores row.
func (c crud[T, P]) insert(row *T, check func(st *state) error) error {
	return c.s.write(func(st *state) error {
		if check != nil {
			if err := check(st); err != nil {
				return err
			}
		}
		c.tbl(st).insert(row, st.now())
		return nil
	})
}

func (c crud[T, P]) replace(row *T, check func(st *state) error) error {
	return c.s.write(func(st *state) error {
		if !c.tbl(st).has(P(row).Base().ID) {
			return errors.NotFound(c.resource, P(row).Base().ID)
		}
		if check != nil {
			if err := check(st); err != nil {
				return err
			}
		}
		c.tbl(st).replace(row, st.now())
		return nil
	})
}

// remove deletes id after cascade has applied the table's ON DELETE rules.
func (c crud[T, P]) remove(id int64, cascade func(st *state) error) error {
	return c.s.write(func(st *state) error {
		if !c.tbl(st).has(id) {
			return errors.NotFound(c.resource, id)
		}
		if cascade != nil {
			if err := cascade(st); err != nil {
				return err
			}
		}
		c.tbl(st).remove(id)
		return nil
	})
}

func dependency(resource string) error {
	return errors.Dependency("Cannot delete " + resource + " because other records still reference it")
}

func sameFold(a, b string) bool { return strings.EqualFold(a, b) }

// newest orders rows by creation time, latest first.
func newest[T any, P entity[T]](a, b *T) int {
	ba, bb := P(a).Base(), P(b).Base()
	if c := bb.CreatedAt.Compare(ba.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(bb.ID, ba.ID)
}

// referenced fails like a foreign key violation when any check is false.
func referenced(checks ...bool) error {
	for _, ok := range checks {
		if !ok {
			return errors.InvalidInput("", "Referenced record does not exist")
		}
	}
	return nil
}

func hasOptional[T any, P entity[T]](t *table[T, P], id *int64) bool {
	return id == nil || t.has(*id)
}

func allExist[T any, P entity[T]](t *table[T, P], ids []int64) bool {
	for _, id := range ids {
		if !t.has(id) {
			return false
		}
	}
	return true
}
