package memory

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

type collectionRepository struct {
	crud[domain.Collection, *domain.Collection]
}

func newCollectionRepository(s *Store) *collectionRepository {
	return &collectionRepository{crud[domain.Collection, *domain.Collection]{
		s:        s,
		tbl:      func(st *state) *table[domain.Collection, *domain.Collection] { return st.collections },
		resource: "Collection",
		order:    newest[domain.Collection],
	}}
}

func (r *collectionRepository) ListByMatter(_ context.Context, matterID int64) ([]*domain.Collection, error) {
	return r.find(func(c *domain.Collection) bool { return c.MatterID == matterID }), nil
}

func (r *collectionRepository) check(c *domain.Collection) func(st *state) error {
	return func(st *state) error {
		return referenced(st.matters.has(c.MatterID), hasOptional(st.organizations, c.VendorID))
	}
}

func (r *collectionRepository) Create(_ context.Context, c *domain.Collection) error {
	return r.insert(c, r.check(c))
}

func (r *collectionRepository) Update(_ context.Context, c *domain.Collection) error {
	return r.replace(c, r.check(c))
}

func (r *collectionRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.collectionCustodians.dropLeft(id)
		return nil
	})
}

func (r *collectionRepository) CustodianIDs(_ context.Context, collectionID int64) ([]int64, error) {
	var ids []int64
	r.s.read(func(st *state) { ids = st.collectionCustodians.rights(collectionID) })
	return ids, nil
}

func (r *collectionRepository) ReplaceCustodians(_ context.Context, collectionID int64, custodianIDs []int64) error {
	return r.s.write(func(st *state) error {
		if err := referenced(st.collections.has(collectionID), allExist(st.custodians, custodianIDs)); err != nil {
			return err
		}
		st.collectionCustodians.setRights(collectionID, custodianIDs)
		return nil
	})
}

func (r *collectionRepository) CountByCustodian(_ context.Context, custodianID int64) (int, error) {
	var n int
	r.s.read(func(st *state) { n = len(st.collectionCustodians.lefts(custodianID)) })
	return n, nil
}

func (r *collectionRepository) CountByVendor(_ context.Context, organizationID int64) (int, error) {
	vendored := r.find(func(c *domain.Collection) bool {
		return c.VendorID != nil && *c.VendorID == organizationID
	})
	return len(vendored), nil
}
