package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/middleware"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
	"github.com/pesio-ai/be-lit-backoffice/internal/service"
)

// RouterConfig controls the middleware chain.
type RouterConfig struct {
	AuthDisabled   bool
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter registers every /api route behind the shared middleware chain.
func NewRouter(h *HTTPHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(&h.log.Logger))
	r.Use(middleware.Recovery(&h.log.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authenticate(cfg.AuthDisabled))

		r.Get("/health", h.health)
		r.Get("/options", h.allOptions)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Get("/current-user", h.currentUser)
			r.Get("/current-user/tasks", h.currentUserTasks)
		})

		r.Route("/clients", h.clientRoutes)
		r.Route("/matters", h.matterRoutes)
		r.Route("/people", h.personRoutes)
		r.Route("/organizations", h.organizationRoutes)
		r.Route("/custodians", h.custodianRoutes)
		r.Route("/collections", h.collectionRoutes)
		r.Route("/estimates", h.estimateRoutes)
		r.Route("/vendor-agreements", h.vendorAgreementRoutes)
		r.Route("/invoices", h.invoiceRoutes)
		r.Route("/workspaces", h.workspaceRoutes)
		r.Route("/contract-reviews", h.contractReviewRoutes)
		r.Route("/tasks", h.taskRoutes)
		r.Route("/users", h.userRoutes)
	})

	return r
}

func (h *HTTPHandler) clientRoutes(r chi.Router) {
	s := h.svc.Clients
	mount(h, r, resource[domain.Client, service.ClientInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}

func (h *HTTPHandler) matterRoutes(r chi.Router) {
	s := h.svc.Matters
	r.Get("/status-options", options(domain.Options(domain.MatterStatuses)))
	r.Get("/client/{clientId}", func(w http.ResponseWriter, r *http.Request) {
		listBy(h, w, r, "clientId", s.ListByClient)
	})
	r.Post("/{id}/people", h.assignPeople)
	r.Delete("/{id}/people/{personId}", h.removePerson)
	mount(h, r, resource[domain.Matter, service.MatterInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}

type assignPeopleRequest struct {
	PersonIDs []int64 `json:"personIds"`
	PersonID  int64   `json:"personId"`
}

func (h *HTTPHandler) assignPeople(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req assignPeopleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ids := req.PersonIDs
	if req.PersonID != 0 {
		ids = append(ids, req.PersonID)
	}

	m, err := h.svc.Matters.AssignPeople(r.Context(), id, ids)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *HTTPHandler) removePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	personID, err := pathID(r, "personId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.svc.Matters.RemovePerson(r.Context(), id, personID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *HTTPHandler) personRoutes(r chi.Router) {
	s := h.svc.People
	r.Get("/type-options", options(domain.Options(domain.PersonTypes)))
	r.Get("/", h.listPeople)
	r.Get("/organization/{organizationId}", func(w http.ResponseWriter, r *http.Request) {
		listBy(h, w, r, "organizationId", s.ListByOrganization)
	})
	mount(h, r, resource[domain.Person, service.PersonInput]{
		get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}

// listPeople serves GET /api/people with optional type and organizationId
// filters.
func (h *HTTPHandler) listPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.PersonFilter{Type: domain.PersonType(q.Get("type"))}
	if raw := q.Get("organizationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.writeError(w, r, errors.InvalidInput("organizationId", "Invalid organizationId"))
			return
		}
		filter.OrganizationID = id
	}

	people, err := h.svc.People.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}

func (h *HTTPHandler) organizationRoutes(r chi.Router) {
	s := h.svc.Organizations
	r.Get("/type-options", options(domain.Options(domain.OrganizationTypes)))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		orgs, err := s.List(r.Context(), domain.OrganizationType(r.URL.Query().Get("type")))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orgs)
	})
	mount(h, r, resource[domain.Organization, service.OrganizationInput]{
		get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}

func (h *HTTPHandler) custodianRoutes(r chi.Router) {
	s := h.svc.Custodians
	r.Get("/organization/{organizationId}", func(w http.ResponseWriter, r *http.Request) {
		listBy(h, w, r, "organizationId", s.ListByOrganization)
	})
	mount(h, r, resource[domain.Custodian, service.CustodianInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}

func (h *HTTPHandler) collectionRoutes(r chi.Router) {
	s := h.svc.Collections
	r.Get("/type-options", options(domain.Options(domain.CollectionTypes)))
	r.Get("/platform-options", options(domain.Options(domain.CollectionPlatforms)))
	r.Get("/status-options", options(domain.Options(domain.CollectionStatuses)))
	mount(h, r, resource[domain.Collection, service.CollectionInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) estimateRoutes(r chi.Router) {
	s := h.svc.Estimates
	mount(h, r, resource[domain.Estimate, service.EstimateInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) vendorAgreementRoutes(r chi.Router) {
	s := h.svc.VendorAgreements
	r.Get("/signed-by-options", options(domain.Options(domain.SignedByValues)))
	mount(h, r, resource[domain.VendorAgreement, service.VendorAgreementInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) invoiceRoutes(r chi.Router) {
	s := h.svc.Invoices
	r.Get("/status-options", options(domain.Options(domain.InvoiceStatuses)))
	mount(h, r, resource[domain.Invoice, service.InvoiceInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) workspaceRoutes(r chi.Router) {
	s := h.svc.Workspaces
	r.Get("/type-options", options(domain.Options(domain.WorkspaceTypes)))
	mount(h, r, resource[domain.Workspace, service.WorkspaceInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) contractReviewRoutes(r chi.Router) {
	s := h.svc.ContractReviews
	r.Get("/status-options", options(domain.Options(domain.ContractReviewStatuses)))
	mount(h, r, resource[domain.ContractReview, service.ContractReviewInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) taskRoutes(r chi.Router) {
	s := h.svc.Tasks
	r.Get("/status-options", options(domain.Options(domain.TaskStatuses)))
	r.Get("/priority-options", options(domain.Options(domain.TaskPriorities)))
	r.Get("/person/{personId}", func(w http.ResponseWriter, r *http.Request) {
		listBy(h, w, r, "personId", s.ListForPerson)
	})
	mount(h, r, resource[domain.Task, service.TaskInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
		byMatter: s.ListByMatter,
	})
}

func (h *HTTPHandler) userRoutes(r chi.Router) {
	s := h.svc.Users
	mount(h, r, resource[domain.User, service.UserInput]{
		list: s.List, get: s.Get, create: s.Create, update: s.Update, remove: s.Delete,
	})
}
