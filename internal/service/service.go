// Package service holds the back office business rules: input validation,
// referential checks, staff auto-linking and eager loading of relations.
package service

import (
	"context"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/logger"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// EventPublisher receives a notification after every committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event)
}

// Services bundles every entity service around one store.
type Services struct {
	Clients          *ClientService
	Matters          *MatterService
	People           *PersonService
	Organizations    *OrganizationService
	Custodians       *CustodianService
	Collections      *CollectionService
	Estimates        *EstimateService
	VendorAgreements *VendorAgreementService
	Invoices         *InvoiceService
	Workspaces       *WorkspaceService
	ContractReviews  *ContractReviewService
	Tasks            *TaskService
	Users            *UserService
	Auth             *AuthService
}

// New wires all services. pub may be nil.
func New(store repository.Store, pub EventPublisher, log *logger.Logger, auth AuthConfig) *Services {
	if log == nil {
		log = logger.Nop()
	}
	b := base{store: store, events: pub, log: log}
	users := NewUserService(b)
	return &Services{
		Clients:          NewClientService(b),
		Matters:          NewMatterService(b),
		People:           NewPersonService(b),
		Organizations:    NewOrganizationService(b),
		Custodians:       NewCustodianService(b),
		Collections:      NewCollectionService(b),
		Estimates:        NewEstimateService(b),
		VendorAgreements: NewVendorAgreementService(b),
		Invoices:         NewInvoiceService(b),
		Workspaces:       NewWorkspaceService(b),
		ContractReviews:  NewContractReviewService(b),
		Tasks:            NewTaskService(b),
		Users:            users,
		Auth:             NewAuthService(b, users, auth),
	}
}

// base is the state every service shares.
type base struct {
	store  repository.Store
	events EventPublisher
	log    *logger.Logger
}

func (b base) publish(ctx context.Context, entity string, action events.Action, id int64, payload map[string]any) {
	if b.events == nil {
		return
	}
	b.events.Publish(ctx, events.Event{Entity: entity, Action: action, ID: id, Payload: payload})
}

// missing collects the names of absent required fields.
type missing []string

func (m missing) err() error {
	if len(m) == 0 {
		return nil
	}
	return errors.InvalidInput(strings.Join(m, ","), "Missing required fields: "+strings.Join(m, ", "))
}

// need records name when a required field is absent on create, or explicitly
// blanked on update.
func need[T any](m *missing, name string, f Field[T], creating bool) {
	if creating && !f.Set || f.Set && f.blank() {
		*m = append(*m, name)
	}
}

// enum validates an optional enumeration field.
func enum[T interface{ Valid() bool }](field string, f Field[T], label string) error {
	if f.Set && !f.Null && !f.Value.Valid() {
		return errors.InvalidInput(field, "Invalid "+label)
	}
	return nil
}

// optionalEmail validates an email that may be omitted or cleared.
func optionalEmail(field string, f Field[string]) error {
	if !f.Present() || strings.TrimSpace(f.Value) == "" {
		return nil
	}
	if !domain.ValidEmail(strings.TrimSpace(f.Value)) {
		return errors.InvalidInput(field, "Invalid email format")
	}
	return nil
}

func nonNegative(field string, f Field[float64], label string) error {
	if f.Present() && f.Value < 0 {
		return errors.InvalidInput(field, label+" must be greater than or equal to 0")
	}
	return nil
}

// reference reports a missing row named by a request body field as invalid
// input. Only the row addressed by the URL is NotFound.
func reference(field string, err error) error {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return errors.InvalidInput(field, errors.PublicMessage(err))
	}
	return err
}

// exists loads the row a body field refers to.
func exists[T any](ctx context.Context, field string, get func(context.Context, int64) (*T, error), id int64) (*T, error) {
	row, err := get(ctx, id)
	if err != nil {
		return nil, reference(field, err)
	}
	return row, nil
}

// vendor loads the organization in field and requires it to be a VENDOR.
func vendor(ctx context.Context, st repository.Store, field string, id int64, purpose string) (*domain.Organization, error) {
	org, err := exists(ctx, field, st.Organizations().GetByID, id)
	if err != nil {
		return nil, err
	}
	if org.Type != domain.OrganizationTypeVendor {
		return nil, errors.InvalidInput(field, "Organization must be of type VENDOR to "+purpose)
	}
	return org, nil
}

// allFound rejects the first id in field that has no row.
func allFound[T any, P interface {
	*T
	Base() *domain.Model
}](ctx context.Context, repo interface {
	GetMany(context.Context, []int64) ([]*T, error)
}, field, resource string, ids []int64) ([]*T, error) {
	rows, err := repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]bool, len(rows))
	for _, row := range rows {
		found[P(row).Base().ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, errors.InvalidInput(field, resource+" not found")
		}
	}
	return rows, nil
}

// index maps rows by id.
func index[T any, P interface {
	*T
	Base() *domain.Model
}](rows []*T) map[int64]*T {
	out := make(map[int64]*T, len(rows))
	for _, row := range rows {
		out[P(row).Base().ID] = row
	}
	return out
}

// lookup batch-loads the rows referenced by ids.
func lookup[T any, P interface {
	*T
	Base() *domain.Model
}](ctx context.Context, repo interface {
	GetMany(context.Context, []int64) ([]*T, error)
}, ids []int64) (map[int64]*T, error) {
	if len(ids) == 0 {
		return map[int64]*T{}, nil
	}
	rows, err := repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return index[T, P](rows), nil
}

// idSet collects distinct non-nil ids.
type idSet struct {
	seen map[int64]bool
	ids  []int64
}

func (s *idSet) add(id int64) {
	if s.seen == nil {
		s.seen = make(map[int64]bool)
	}
	if id == 0 || s.seen[id] {
		return
	}
	s.seen[id] = true
	s.ids = append(s.ids, id)
}

func (s *idSet) addPtr(id *int64) {
	if id != nil {
		s.add(*id)
	}
}

// dedupe drops repeated ids, keeping first occurrence order.
func dedupe(ids []int64) []int64 {
	var s idSet
	for _, id := range ids {
		s.add(id)
	}
	if s.ids == nil {
		return []int64{}
	}
	return s.ids
}

func trimmed(f Field[string]) string { return strings.TrimSpace(f.Value) }

// optionalText applies a nullable text field, storing blanks as NULL.
func optionalText(dst **string, f Field[string]) {
	if !f.Set {
		return
	}
	v := strings.TrimSpace(f.Value)
	if f.Null || v == "" {
		*dst = nil
		return
	}
	*dst = &v
}
