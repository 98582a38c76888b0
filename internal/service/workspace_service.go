package service

import (
	"context"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

// WorkspaceService handles review platform workspaces.
type WorkspaceService struct {
	base
}

// NewWorkspaceService creates a new workspace service.
func NewWorkspaceService(b base) *WorkspaceService {
	return &WorkspaceService{base: b}
}

// WorkspaceInput is the body of a workspace create or update.
type WorkspaceInput struct {
	MatterID       Field[int64]                `json:"matterId"`
	OrganizationID Field[int64]                `json:"organizationId"`
	Name           Field[string]               `json:"name"`
	Type           Field[domain.WorkspaceType] `json:"type"`
	URL            Field[string]               `json:"url"`
	Notes          Field[string]               `json:"notes"`
}

func (s *WorkspaceService) List(ctx context.Context) ([]*domain.Workspace, error) {
	workspaces, err := s.store.Workspaces().List(ctx)
	if err != nil {
		return nil, err
	}
	return workspaces, hydrateWorkspaces(ctx, s.store, workspaces)
}

func (s *WorkspaceService) ListByMatter(ctx context.Context, matterID int64) ([]*domain.Workspace, error) {
	if _, err := s.store.Matters().GetByID(ctx, matterID); err != nil {
		return nil, err
	}
	workspaces, err := s.store.Workspaces().ListByMatter(ctx, matterID)
	if err != nil {
		return nil, err
	}
	return workspaces, hydrateWorkspaces(ctx, s.store, workspaces)
}

func (s *WorkspaceService) Get(ctx context.Context, id int64) (*domain.Workspace, error) {
	w, err := s.store.Workspaces().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return w, hydrateWorkspaces(ctx, s.store, []*domain.Workspace{w})
}

func (s *WorkspaceService) Create(ctx context.Context, in WorkspaceInput) (*domain.Workspace, error) {
	if err := s.validateInput(in, true); err != nil {
		return nil, err
	}
	w := &domain.Workspace{}
	s.apply(w, in)
	if err := s.check(ctx, w); err != nil {
		return nil, err
	}

	if err := s.store.Workspaces().Create(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("workspace_id", w.ID).
		Int64("matter_id", w.MatterID).
		Str("type", string(w.Type)).
		Msg("Workspace created")
	s.publish(ctx, "workspace", events.ActionCreated, w.ID, nil)

	return s.Get(ctx, w.ID)
}

func (s *WorkspaceService) Update(ctx context.Context, id int64, in WorkspaceInput) (*domain.Workspace, error) {
	w, err := s.store.Workspaces().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(in, false); err != nil {
		return nil, err
	}
	s.apply(w, in)
	if err := s.check(ctx, w); err != nil {
		return nil, err
	}

	if err := s.store.Workspaces().Update(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info().Int64("workspace_id", w.ID).Msg("Workspace updated")
	s.publish(ctx, "workspace", events.ActionUpdated, w.ID, nil)

	return s.Get(ctx, w.ID)
}

// Delete removes a workspace and the contract reviews run in it.
func (s *WorkspaceService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Workspaces().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("workspace_id", id).Msg("Workspace deleted")
	s.publish(ctx, "workspace", events.ActionDeleted, id, nil)
	return nil
}

func (s *WorkspaceService) validateInput(in WorkspaceInput, creating bool) error {
	var m missing
	need(&m, "matterId", in.MatterID, creating)
	need(&m, "organizationId", in.OrganizationID, creating)
	need(&m, "name", in.Name, creating)
	need(&m, "type", in.Type, creating)
	if err := m.err(); err != nil {
		return err
	}
	return enum("type", in.Type, "workspace type")
}

func (s *WorkspaceService) apply(w *domain.Workspace, in WorkspaceInput) {
	in.MatterID.apply(&w.MatterID)
	in.OrganizationID.apply(&w.OrganizationID)
	if in.Name.Present() {
		w.Name = trimmed(in.Name)
	}
	in.Type.apply(&w.Type)
	optionalText(&w.URL, in.URL)
	optionalText(&w.Notes, in.Notes)
}

func (s *WorkspaceService) check(ctx context.Context, w *domain.Workspace) error {
	if _, err := exists(ctx, "matterId", s.store.Matters().GetByID, w.MatterID); err != nil {
		return err
	}
	_, err := exists(ctx, "organizationId", s.store.Organizations().GetByID, w.OrganizationID)
	return err
}

func hydrateWorkspaces(ctx context.Context, st repository.Store, workspaces []*domain.Workspace) error {
	var matterIDs, orgIDs idSet
	for _, w := range workspaces {
		matterIDs.add(w.MatterID)
		orgIDs.add(w.OrganizationID)
	}
	matters, err := lookup[domain.Matter](ctx, st.Matters(), matterIDs.ids)
	if err != nil {
		return err
	}
	orgs, err := lookup[domain.Organization](ctx, st.Organizations(), orgIDs.ids)
	if err != nil {
		return err
	}
	for _, w := range workspaces {
		w.Matter = matters[w.MatterID]
		w.Organization = orgs[w.OrganizationID]
	}
	return nil
}
