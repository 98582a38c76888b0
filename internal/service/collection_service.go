package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// CollectionService handles data collections and their custodians.
type CollectionService struct {
	base
}

// NewCollectionService creates a new collection service.
func NewCollectionService(b base) *CollectionService {
	return &CollectionService{base: b}
}

// CollectionInput is the body of a collection create or update.
type CollectionInput struct {
	MatterID      Field[int64]                     `json:"matterId"`
	VendorID      Field[int64]                     `json:"vendorId"`
	Type          Field[domain.CollectionType]     `json:"type"`
	Platform      Field[domain.CollectionPlatform] `json:"platform"`
	Status        Field[domain.CollectionStatus]   `json:"status"`
	ScheduledDate Field[string]                    `json:"scheduledDate"`
	CompletedDate Field[string]                    `json:"completedDate"`
	Notes         Field[string]                    `json:"notes"`
	CustodianIDs  Field[[]int64]                   `json:"custodianIds"`
}

func (s *CollectionService) List(ctx context.Context) ([]*domain.Collection, error) {
	collections, err := s.store.Collections().List(ctx)
	if err != nil {
		return nil, err
	}
	return collections, s.hydrate(ctx, collections)
}

func (s *CollectionService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Collection, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	collections, err := s.store.Collections().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return collections, s.hydrate(ctx, collections)
}

func (s *CollectionService) Get(ctx context.Context, id int64) (*domain.Collection, error) {
	c, err := s.store.Collections().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, s.hydrate(ctx, []*domain.Collection{c})
}

func (s *CollectionService) Create(ctx context.Context, in CollectionInput) (*domain.Collection, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	c := &domain.Collection{Status: domain.CollectionStatusDiscussing}
	if err := s.apply(c, in); err != nil {
		return nil, err
	}
	custodianIDs := dedupe(in.CustodianIDs.Value)
	if err := s.check(ctx, c, custodianIDs); err != nil {
		return nil, err
	}

	err := s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Collections().Create(ctx, c); err != nil {
			return err
		}
		return tx.Collections().ReplaceCustodians(ctx, c.ID, custodianIDs)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("collection_id", c.ID).
		Int64("matter_id", c.MatterID).
		Str("type", string(c.Type)).
		Int("custodians", len(custodianIDs)).
		Msg("Collection created")
	s.publish(ctx, "collection", events.ActionCreated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

func (s *CollectionService) Update(ctx context.Context, id int64, in CollectionInput) (*domain.Collection, error) {
	c, err := s.store.Collections().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	if err := s.apply(c, in); err != nil {
		return nil, err
	}

	var custodianIDs []int64
	if in.CustodianIDs.Set {
		custodianIDs = dedupe(in.CustodianIDs.Value)
	} else if custodianIDs, err = s.store.Collections().CustodianIDs(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.check(ctx, c, custodianIDs); err != nil {
		return nil, err
	}

	err = s.store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Collections().Update(ctx, c); err != nil {
			return err
		}
		if !in.CustodianIDs.Set {
			return nil
		}
		return tx.Collections().ReplaceCustodians(ctx, c.ID, custodianIDs)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("collection_id", c.ID).Msg("Collection updated")
	s.publish(ctx, "collection", events.ActionUpdated, c.ID, nil)

	return s.Get(ctx, c.ID)
}

func (s *CollectionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Collections().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("collection_id", id).Msg("Collection deleted")
	s.publish(ctx, "collection", events.ActionDeleted, id, nil)
	return nil
}

func (s *CollectionService) validateInput(in CollectionInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "type", in.Type, creating)
	need(&m, "custodianIds", in.CustodianIDs, creating)
	if err := m.err(); err != nil {
		return err
	}
	if err := enum("type", in.Type, "collection type"); err != nil {
		return err
	}
	if err := enum("platform", in.Platform, "collection platform"); err != nil {
		return err
	}
	if in.Status.Set && !in.Status.Value.Valid() {
		return errors.InvalidInput("status", "Invalid collection status")
	}
	return nil
}

func (s *CollectionService) apply(c *domain.Collection, in CollectionInput) error {
	in.MatterID.apply(&c.MatterID)
	in.VendorID.applyPtr(&c.VendorID)
	in.Type.apply(&c.Type)
	in.Platform.applyPtr(&c.Platform)
	in.Status.apply(&c.Status)
	optionalText(&c.Notes, in.Notes)
	if err := applyDate("scheduledDate", in.ScheduledDate, &c.ScheduledDate); err != nil {
		return err
	}
	if err := applyDate("completedDate", in.CompletedDate, &c.CompletedDate); err != nil {
		return err
	}
	// A platform only describes email collections.
	if c.Type != domain.CollectionTypeEmail {
		c.Platform = nil
	}
	return nil
}

// check validates the merged collection against the store.
func (s *CollectionService) check(ctx context.Context, c *domain.Collection, custodianIDs []int64) error {
	if len(custodianIDs) == 0 {
		return errors.InvalidInput("custodianIds", "At least one custodian is required")
	}
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, c.MatterID); err != nil {
		return err
	}
	if c.VendorID != nil {
		if _, err := vendor(ctx, s.store, "vendorId", *c.VendorID, "perform collections"); err != nil {
			return err
		}
	}
	_, err := allFound[domain.Custodian](ctx, s.store.Custodians(), "custodianIds", "Custodian", custodianIDs)
	return err
}

func (s *CollectionService) hydrate(ctx context.Context, collections []*domain.Collection) error {
	var matterIDs, orgIDs, custodianIDs idSet
	linked := make(map[int64][]int64, len(collections))
	for _, c := range collections {
		matterIDs.add(c.MatterID)
		orgIDs.addPtr(c.VendorID)
		ids, err := s.store.Collections().CustodianIDs(ctx, c.ID)
		if err != nil {
			return err
		}
		linked[c.ID] = ids
		for _, id := range ids {
			custodianIDs.add(id)
		}
	}

	matters, err := lookup[domain.Matter](ctx, s.store.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	orgs, err := lookup[domain.Organization](ctx, s.store.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	custodians, err := lookup[domain.Custodian](ctx, s.store.Custodians(), custodianIDs.ids)
	if err != nil {
		return err
	}
	for _, c := range collections {
		c.Matter = matters[c.MatterID]
		c.Vendor = pick(orgs, c.VendorID)
		c.CustodianIDs = linked[c.ID]
		c.Custodians = collect(custodians, linked[c.ID])
	}
	return nil
}
