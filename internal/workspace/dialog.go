package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/marcjazz/nullslot/internal/domain"
)

// DialogState is the position of the create-workspace dialog.
type DialogState int

const (
	DialogOpen DialogState = iota
	DialogSubmitting
	DialogClosed
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	case DialogClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrDialogBusy is returned for a submit while another is pending or after
// the dialog closed.
var ErrDialogBusy = errors.New("create dialog is not accepting input")

// CreateDialog closes only when the backend confirms the workspace was
// created. A failure keeps it open with the error set.
type CreateDialog struct {
	svc *Service

	mu      sync.Mutex
	state   DialogState
	err     error
	created *domain.Workspace
}

// NewCreateDialog opens a dialog that creates through svc.
func NewCreateDialog(svc *Service) *CreateDialog {
	return &CreateDialog{svc: svc}
}

// Submit creates a workspace named name.
func (d *CreateDialog) Submit(ctx context.Context, name string) (*domain.Workspace, error) {
	d.mu.Lock()
	if d.state != DialogOpen {
		d.mu.Unlock()
		return nil, ErrDialogBusy
	}
	d.state = DialogSubmitting
	d.err = nil
	d.mu.Unlock()

	created, _, err := d.svc.Create(ctx, name)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil && created == nil {
		d.state = DialogOpen
		d.err = err
		return nil, err
	}
	// Created but the list refresh failed: the workspace exists, so close.
	d.state = DialogClosed
	d.created = created
	return created, nil
}

// State returns the dialog state.
func (d *CreateDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Err returns the error of the last failed submit.
func (d *CreateDialog) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Created returns the workspace created by a successful submit.
func (d *CreateDialog) Created() *domain.Workspace {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}
