package domain

// Identity is the server-issued user record. It is never constructed from
// user input.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the client-side triple held between invocations.
// Identity and Token are always present together; WorkspaceID may be set on its own.
type Session struct {
	Identity    *Identity
	Token       string
	WorkspaceID string
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Clone returns a copy that shares no pointers with s.
func (s Session) Clone() Session {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// Persisted slot names. They match the keys the web client kept in local storage.
const (
	SlotToken       = "token"
	SlotUser        = "user"
	SlotWorkspaceID = "workspace_id"
)

// AllSlots lists every slot owned by a session.
var AllSlots = []string{SlotToken, SlotUser, SlotWorkspaceID}

// Workspace is a tenant the current identity can act in.
type Workspace struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId,omitempty"`
}

// MagicLinkLogin is the result of redeeming a one-time token.
type MagicLinkLogin struct {
	Token    string   `json:"token"`
	Identity Identity `json:"user"`
}
