package domain

import "errors"

// Session errors.
var (
	ErrEmptyToken       = errors.New("bearer token is empty")
	ErrMissingIdentity  = errors.New("identity is missing")
	ErrNotAuthenticated = errors.New("not logged in")
)

// Callback errors.
var (
	ErrInvalidLink = errors.New("no token found in the link")
	ErrNoToken     = errors.New("no token found in the redirect")
)

// Backend errors.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Workspace errors.
var (
	ErrUnknownWorkspace = errors.New("workspace not found in your workspaces")
	ErrEmptyName        = errors.New("workspace name is empty")
)
