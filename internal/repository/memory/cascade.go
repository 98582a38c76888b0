package memory

import "github.com/pesio-ai/be-lit-backoffice/internal/domain"

// The helpers below mirror the ON DELETE clauses of the SQL schema. Callers
// hold the write lock.

func (st *state) cascadeClient(id int64) {
	for _, m := range st.matters.where(func(m *domain.Matter) bool { return m.ClientID == id }) {
		st.cascadeMatter(m.ID)
		st.matters.remove(m.ID)
	}
}

func (st *state) cascadeMatter(id int64) {
	now := st.now()
	st.matterPeople.dropLeft(id)

	for _, c := range st.collections.where(func(c *domain.Collection) bool { return c.MatterID == id }) {
		st.collectionCustodians.dropLeft(c.ID)
		st.collections.remove(c.ID)
	}
	for _, w := range st.workspaces.where(func(w *domain.Workspace) bool { return w.MatterID == id }) {
		st.cascadeWorkspace(w.ID)
		st.workspaces.remove(w.ID)
	}
	for _, r := range st.contractReviews.where(func(r *domain.ContractReview) bool { return r.MatterID == id }) {
		st.cascadeContractReview(r.ID)
		st.contractReviews.remove(r.ID)
	}
	for _, inv := range st.invoices.where(func(inv *domain.Invoice) bool { return inv.MatterID == id }) {
		st.cascadeInvoice(inv.ID)
		st.invoices.remove(inv.ID)
	}
	for _, a := range st.vendorAgreements.where(func(a *domain.VendorAgreement) bool { return a.MatterID == id }) {
		st.cascadeVendorAgreement(a.ID)
		st.vendorAgreements.remove(a.ID)
	}
	for _, e := range st.estimates.where(func(e *domain.Estimate) bool { return e.MatterID == id }) {
		st.cascadeEstimate(e.ID)
		st.estimates.remove(e.ID)
	}
	st.tasks.mutate(func(t *domain.Task) bool {
		if t.MatterID != nil && *t.MatterID == id {
			t.MatterID = nil
			return true
		}
		return false
	}, now)
}

func (st *state) cascadePerson(id int64) {
	now := st.now()
	st.clients.mutate(func(c *domain.Client) bool {
		changed := false
		for _, slot := range []**int64{&c.AttorneyID, &c.ParalegalID, &c.ProjectManagerID} {
			if *slot != nil && **slot == id {
				*slot = nil
				changed = true
			}
		}
		return changed
	}, now)
	st.matterPeople.dropRight(id)
	for _, t := range st.tasks.where(func(t *domain.Task) bool { return t.OwnerID == id }) {
		st.taskAssignees.dropLeft(t.ID)
		st.tasks.remove(t.ID)
	}
	st.taskAssignees.dropRight(id)
	st.users.mutate(func(u *domain.User) bool {
		if u.PersonID != nil && *u.PersonID == id {
			u.PersonID = nil
			return true
		}
		return false
	}, now)
	st.contractReviews.mutate(func(r *domain.ContractReview) bool {
		if r.ReviewManagerID != nil && *r.ReviewManagerID == id {
			r.ReviewManagerID = nil
			return true
		}
		return false
	}, now)
}

// restrictOrganization fails while any restricting row references id, then
// clears optional collection vendor links.
func (st *state) restrictOrganization(id int64) error {
	referenced := len(st.people.where(func(p *domain.Person) bool {
		return p.OrganizationID != nil && *p.OrganizationID == id
	})) > 0 ||
		len(st.custodians.where(func(c *domain.Custodian) bool { return c.OrganizationID == id })) > 0 ||
		len(st.estimates.where(func(e *domain.Estimate) bool { return e.OrganizationID == id })) > 0 ||
		len(st.vendorAgreements.where(func(a *domain.VendorAgreement) bool { return a.OrganizationID == id })) > 0 ||
		len(st.invoices.where(func(inv *domain.Invoice) bool { return inv.OrganizationID == id })) > 0 ||
		len(st.workspaces.where(func(w *domain.Workspace) bool { return w.OrganizationID == id })) > 0 ||
		len(st.contractReviews.where(func(r *domain.ContractReview) bool { return r.OrganizationID == id })) > 0
	if referenced {
		return dependency("Organization")
	}
	st.collections.mutate(func(c *domain.Collection) bool {
		if c.VendorID != nil && *c.VendorID == id {
			c.VendorID = nil
			return true
		}
		return false
	}, st.now())
	return nil
}

func (st *state) restrictCustodian(id int64) error {
	if len(st.collectionCustodians.lefts(id)) > 0 {
		return dependency("Custodian")
	}
	return nil
}

func (st *state) cascadeWorkspace(id int64) {
	for _, r := range st.contractReviews.where(func(r *domain.ContractReview) bool { return r.WorkspaceID == id }) {
		st.cascadeContractReview(r.ID)
		st.contractReviews.remove(r.ID)
	}
}

func (st *state) cascadeContractReview(id int64) {
	st.reviewEstimates.dropLeft(id)
	st.reviewAgreements.dropLeft(id)
	st.reviewInvoices.dropLeft(id)
}

func (st *state) cascadeInvoice(id int64) {
	st.reviewInvoices.dropRight(id)
}

func (st *state) cascadeVendorAgreement(id int64) {
	st.invoices.mutate(func(inv *domain.Invoice) bool {
		if inv.VendorAgreementID != nil && *inv.VendorAgreementID == id {
			inv.VendorAgreementID = nil
			return true
		}
		return false
	}, st.now())
	st.reviewAgreements.dropRight(id)
}

func (st *state) cascadeEstimate(id int64) {
	now := st.now()
	st.vendorAgreements.mutate(func(a *domain.VendorAgreement) bool {
		if a.EstimateID != nil && *a.EstimateID == id {
			a.EstimateID = nil
			return true
		}
		return false
	}, now)
	st.invoices.mutate(func(inv *domain.Invoice) bool {
		if inv.EstimateID != nil && *inv.EstimateID == id {
			inv.EstimateID = nil
			return true
		}
		return false
	}, now)
	st.reviewEstimates.dropRight(id)
}
