// Package postgres implements the repository contract on PostgreSQL with pgx.
package postgres

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/database"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// querier is satisfied by both *database.DB and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store hands out repositories bound to the pool or to an open transaction.
type Store struct {
	db   *database.DB
	q    querier
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a Store on top of db.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Clients() repository.ClientRepository {
	return &clientRepository{crud: crud[domain.Client]{q: s.q, t: clientsTable}}
}

func (s *Store) Matters() repository.MatterRepository {
	return &matterRepository{crud: crud[domain.Matter]{q: s.q, t: mattersTable}}
}

func (s *Store) Assignments() repository.AssignmentRepository {
	return &assignmentRepository{q: s.q}
}

func (s *Store) People() repository.PersonRepository {
	return &personRepository{crud: crud[domain.Person]{q: s.q, t: peopleTable}}
}

func (s *Store) Organizations() repository.OrganizationRepository {
	return &organizationRepository{crud: crud[domain.Organization]{q: s.q, t: organizationsTable}}
}

func (s *Store) Custodians() repository.CustodianRepository {
	return &custodianRepository{crud: crud[domain.Custodian]{q: s.q, t: custodiansTable}}
}

func (s *Store) Collections() repository.CollectionRepository {
	return &collectionRepository{crud: crud[domain.Collection]{q: s.q, t: collectionsTable}}
}

func (s *Store) Estimates() repository.EstimateRepository {
	return &estimateRepository{crud: crud[domain.Estimate]{q: s.q, t: estimatesTable}}
}

func (s *Store) VendorAgreements() repository.VendorAgreementRepository {
	return &vendorAgreementRepository{crud: crud[domain.VendorAgreement]{q: s.q, t: vendorAgreementsTable}}
}

func (s *Store) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{crud: crud[domain.Invoice]{q: s.q, t: invoicesTable}}
}

func (s *Store) Workspaces() repository.WorkspaceRepository {
	return &workspaceRepository{crud: crud[domain.Workspace]{q: s.q, t: workspacesTable}}
}

func (s *Store) ContractReviews() repository.ContractReviewRepository {
	return &contractReviewRepository{crud: crud[domain.ContractReview]{q: s.q, t: contractReviewsTable}}
}

func (s *Store) Tasks() repository.TaskRepository {
	return &taskRepository{crud: crud[domain.Task]{q: s.q, t: tasksTable}}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{crud: crud[domain.User]{q: s.q, t: usersTable}}
}

// InTransaction runs fn in a database transaction. Nested calls join the
// outer transaction.
func (s *Store) InTransaction(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.InTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&Store{db: s.db, q: tx, inTx: true})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// table describes the generic parts of a CRUD table.
type table struct {
	name     string
	resource string
	columns  string
	orderBy  string
}

// crud implements the reads and delete shared by every table.
type crud[T any] struct {
	q querier
	t table
}

func (c crud[T]) List(ctx context.Context) ([]*T, error) {
	return c.listWhere(ctx, "TRUE")
}

func (c crud[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, c.t.columns, c.t.name)
	rows, err := c.q.Query(ctx, query, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get "+c.t.name)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFound(c.t.resource, id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan "+c.t.name)
	}
	return row, nil
}

func (c crud[T]) GetMany(ctx context.Context, ids []int64) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	return c.listWhere(ctx, "id = ANY($1)", ids)
}

func (c crud[T]) Delete(ctx context.Context, id int64) error {
	tag, err := c.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.t.name), id)
	if err != nil {
		return mapDeleteError(err, c.t.resource)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound(c.t.resource, id)
	}
	return nil
}

func (c crud[T]) listWhere(ctx context.Context, where string, args ...any) ([]*T, error) {
	orderBy := c.t.orderBy
	if orderBy == "" {
		orderBy = "id"
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s`, c.t.columns, c.t.name, where, orderBy)
	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list "+c.t.name)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan "+c.t.name)
	}
	return out, nil
}

func (c crud[T]) count(ctx context.Context, tableName, where string, args ...any) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, tableName, where)
	if err := c.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to count "+tableName)
	}
	return n, nil
}

// linkedIDs reads one side of a join table.
func linkedIDs(ctx context.Context, q querier, joinTable, ownerCol, otherCol string, ownerID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`, otherCol, joinTable, ownerCol, otherCol)
	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read "+joinTable)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan "+joinTable)
	}
	return ids, nil
}

// replaceLinks makes ids the complete set linked to ownerID.
func replaceLinks(ctx context.Context, q querier, joinTable, ownerCol, otherCol string, ownerID int64, ids []int64) error {
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, joinTable, ownerCol), ownerID); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to clear "+joinTable)
	}
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, UNNEST($2::BIGINT[])
		ON CONFLICT DO NOTHING`, joinTable, ownerCol, otherCol)
	if _, err := q.Exec(ctx, query, ownerID, ids); err != nil {
		return mapWriteError(err, "failed to write "+joinTable)
	}
	return nil
}

var uniqueMessages = map[string]string{
	"clients_client_number_key": "A client with this client number already exists",
	"matters_matter_number_key": "A matter with this matter number already exists",
	"users_username_key":        "A user with this username already exists",
	"users_email_key":           "A user with this email already exists",
}

// mapWriteError converts constraint violations on insert/update.
func mapWriteError(err error, message string) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			msg, ok := uniqueMessages[pgErr.ConstraintName]
			if !ok {
				msg = "A record with these values already exists"
			}
			return errors.Wrap(err, errors.ErrCodeAlreadyExists, msg)
		case "23503":
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "Referenced record does not exist")
		case "23514", "22P02":
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "Invalid field value")
		}
	}
	return errors.Wrap(err, errors.ErrCodeInternal, message)
}

func mapDeleteError(err error, resource string) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == "23503" {
		return errors.Wrap(err, errors.ErrCodeDependency,
			fmt.Sprintf("Cannot delete %s because other records still reference it", resource))
	}
	return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete "+resource)
}

// scanUpdated reads the RETURNING timestamps of an UPDATE, mapping a missing
// row to NotFound.
func scanUpdated(row pgx.Row, m *domain.Model, resource string, id int64) error {
	err := row.Scan(&m.CreatedAt, &m.UpdatedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound(resource, id)
	}
	if err != nil {
		return mapWriteError(err, "failed to update "+resource)
	}
	return nil
}
