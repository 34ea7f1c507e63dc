package gateway

import (
	"context"

	"github.com/marcjazz/nullslot/internal/domain"
)

// Workspaces implements the workspace backend calls.
type Workspaces struct {
	client *Client
}

// NewWorkspaces creates the workspace gateway.
func NewWorkspaces(c *Client) *Workspaces {
	return &Workspaces{client: c}
}

// CreateWorkspace creates a workspace owned by the current identity.
func (w *Workspaces) CreateWorkspace(ctx context.Context, name string) (*domain.Workspace, error) {
	var out struct {
		CreateWorkspace *domain.Workspace `json:"createWorkspace"`
	}
	vars := map[string]any{"input": map[string]any{"name": name}}
	if err := w.client.Do(ctx, opCreateWorkspace, vars, &out); err != nil {
		return nil, err
	}
	if out.CreateWorkspace == nil {
		return nil, &Error{Operation: opCreateWorkspace.Name, Message: "workspace was not created"}
	}
	return out.CreateWorkspace, nil
}

// MyWorkspaces lists the workspaces of the current identity.
func (w *Workspaces) MyWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	var out struct {
		MyWorkspaces []domain.Workspace `json:"myWorkspaces"`
	}
	if err := w.client.Do(ctx, opMyWorkspaces, nil, &out); err != nil {
		return nil, err
	}
	if out.MyWorkspaces == nil {
		return []domain.Workspace{}, nil
	}
	return out.MyWorkspaces, nil
}
