package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// staffLink records a client staff slot filled by auto-linking.
type staffLink struct {
	ClientID int64
	Slot     domain.StaffSlot
	PersonID int64
}

// linkStaff fills the client's empty staff slots from people in order. An
// occupied slot is never overwritten. st should be a transactional store so
// the slot updates commit with the assignment that caused them.
func linkStaff(ctx context.Context, st repository.Store, clientID int64, people []*domain.Person) ([]staffLink, error) {
	var links []staffLink
	for _, p := range people {
		slot, ok := domain.SlotFor(p.Type)
		if !ok {
			continue
		}
		filled, err := st.Clients().FillStaffSlot(ctx, clientID, slot, p.ID)
		if err != nil {
			return nil, err
		}
		if filled {
			links = append(links, staffLink{ClientID: clientID, Slot: slot, PersonID: p.ID})
		}
	}
	return links, nil
}

// linkPeople links personIDs, in the given order, to the client.
func linkPeople(ctx context.Context, st repository.Store, clientID int64, personIDs []int64) ([]staffLink, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	people, err := st.People().GetMany(ctx, personIDs)
	if err != nil {
		return nil, err
	}
	return linkStaff(ctx, st, clientID, collect(index(people), personIDs))
}

// linkMatterStaff links the staff currently assigned to matter.
func linkMatterStaff(ctx context.Context, st repository.Store, matter *domain.Matter) ([]staffLink, error) {
	ids, err := st.Assignments().PersonIDs(ctx, matter.ID)
	if err != nil {
		return nil, err
	}
	return linkPeople(ctx, st, matter.ClientID, ids)
}

// linkPersonStaff links person to the clients of each of matterIDs.
func linkPersonStaff(ctx context.Context, st repository.Store, person *domain.Person, matterIDs []int64) ([]staffLink, error) {
	if _, ok := domain.SlotFor(person.Type); !ok || len(matterIDs) == 0 {
		return nil, nil
	}
	matters, err := st.Matters().GetMany(ctx, matterIDs)
	if err != nil {
		return nil, err
	}
	var links []staffLink
	for _, m := range matters {
		made, err := linkStaff(ctx, st, m.ClientID, []*domain.Person{person})
		if err != nil {
			return nil, err
		}
		links = append(links, made...)
	}
	return links, nil
}

// announceLinks logs and publishes committed staff links.
func (b base) announceLinks(ctx context.Context, links []staffLink) {
	for _, l := range links {
		b.log.Info().
			Int64("client_id", l.ClientID).
			Str("slot", string(l.Slot)).
			Int64("person_id", l.PersonID).
			Msg("Client staff auto-linked")
		b.publish(ctx, "client", events.ActionStaffLinked, l.ClientID, map[string]any{
			"slot":     string(l.Slot),
			"personId": l.PersonID,
		})
	}
}
