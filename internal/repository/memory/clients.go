package memory

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

type clientRepository struct {
	crud[domain.Client, *domain.Client]
}

func newClientRepository(s *Store) *clientRepository {
	return &clientRepository{crud[domain.Client, *domain.Client]{
		s:        s,
		tbl:      func(st *state) *table[domain.Client, *domain.Client] { return st.clients },
		resource: "Client",
		order: func(a, b *domain.Client) int {
			return cmp.Or(strings.Compare(a.ClientName, b.ClientName), cmp.Compare(a.ID, b.ID))
		},
	}}
}

func (r *clientRepository) check(c *domain.Client) func(st *state) error {
	return func(st *state) error {
		taken := st.clients.where(func(other *domain.Client) bool {
			return other.ID != c.ID && other.ClientNumber == c.ClientNumber
		})
		if len(taken) > 0 {
			return errors.AlreadyExists("A client with this client number already exists")
		}
		return referenced(
			hasOptional(st.people, c.AttorneyID),
			hasOptional(st.people, c.ParalegalID),
			hasOptional(st.people, c.ProjectManagerID),
		)
	}
}

func (r *clientRepository) Create(_ context.Context, c *domain.Client) error {
	return r.insert(c, r.check(c))
}

func (r *clientRepository) Update(_ context.Context, c *domain.Client) error {
	return r.replace(c, r.check(c))
}

func (r *clientRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeClient(id)
		return nil
	})
}

func (r *clientRepository) FillStaffSlot(_ context.Context, clientID int64, slot domain.StaffSlot, personID int64) (bool, error) {
	switch slot {
	case domain.SlotAttorney, domain.SlotParalegal, domain.SlotProjectManager:
	default:
		return false, errors.New(errors.ErrCodeInternal, fmt.Sprintf("unknown staff slot %q", slot))
	}

	var filled bool
	err := r.s.write(func(st *state) error {
		if err := referenced(st.people.has(personID)); err != nil {
			return err
		}
		st.clients.mutate(func(c *domain.Client) bool {
			if c.ID != clientID {
				return false
			}
			target := c.Slot(slot)
			if *target != nil {
				return false
			}
			*target = &personID
			filled = true
			return true
		}, st.now())
		return nil
	})
	return filled, err
}

type matterRepository struct {
	crud[domain.Matter, *domain.Matter]
}

func newMatterRepository(s *Store) *matterRepository {
	return &matterRepository{crud[domain.Matter, *domain.Matter]{
		s:        s,
		tbl:      func(st *state) *table[domain.Matter, *domain.Matter] { return st.matters },
		resource: "Matter",
		order: func(a, b *domain.Matter) int {
			return strings.Compare(a.MatterNumber, b.MatterNumber)
		},
	}}
}

func (r *matterRepository) ListByClient(_ context.Context, clientID int64) ([]*domain.Matter, error) {
	return r.find(func(m *domain.Matter) bool { return m.ClientID == clientID }), nil
}

func (r *matterRepository) check(m *domain.Matter) func(st *state) error {
	return func(st *state) error {
		taken := st.matters.where(func(other *domain.Matter) bool {
			return other.ID != m.ID && other.MatterNumber == m.MatterNumber
		})
		if len(taken) > 0 {
			return errors.AlreadyExists("A matter with this matter number already exists")
		}
		return referenced(st.clients.has(m.ClientID))
	}
}

func (r *matterRepository) Create(_ context.Context, m *domain.Matter) error {
	return r.insert(m, r.check(m))
}

func (r *matterRepository) Update(_ context.Context, m *domain.Matter) error {
	return r.replace(m, r.check(m))
}

func (r *matterRepository) Delete(_ context.Context, id int64) error {
	return r.remove(id, func(st *state) error {
		st.cascadeMatter(id)
		return nil
	})
}

type assignmentRepository struct {
	s *Store
}

func (r *assignmentRepository) PersonIDs(_ context.Context, matterID int64) ([]int64, error) {
	var ids []int64
	r.s.read(func(st *state) { ids = st.matterPeople.rights(matterID) })
	return ids, nil
}

func (r *assignmentRepository) MatterIDs(_ context.Context, personID int64) ([]int64, error) {
	var ids []int64
	r.s.read(func(st *state) { ids = st.matterPeople.lefts(personID) })
	return ids, nil
}

func (r *assignmentRepository) ReplaceForMatter(_ context.Context, matterID int64, personIDs []int64) error {
	return r.s.write(func(st *state) error {
		if err := referenced(st.matters.has(matterID), allExist(st.people, personIDs)); err != nil {
			return err
		}
		st.matterPeople.setRights(matterID, personIDs)
		return nil
	})
}

func (r *assignmentRepository) ReplaceForPerson(_ context.Context, personID int64, matterIDs []int64) error {
	return r.s.write(func(st *state) error {
		if err := referenced(st.people.has(personID), allExist(st.matters, matterIDs)); err != nil {
			return err
		}
		st.matterPeople.setLefts(personID, matterIDs)
		return nil
	})
}

func (r *assignmentRepository) Add(_ context.Context, matterID, personID int64) error {
	return r.s.write(func(st *state) error {
		if err := referenced(st.matters.has(matterID), st.people.has(personID)); err != nil {
			return err
		}
		st.matterPeople.add(matterID, personID)
		return nil
	})
}

func (r *assignmentRepository) Remove(_ context.Context, matterID, personID int64) error {
	return r.s.write(func(st *state) error {
		if !st.matterPeople.remove(matterID, personID) {
			return errors.NotFound("Matter assignment", personID)
		}
		return nil
	})
}
