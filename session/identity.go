package session

// RoleType is the platform role carried by tokens, storage fields and cookies.
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"   // Dashboard access
	RoleStudent RoleType = "STUDENT" // Student workspace
	RoleTeacher RoleType = "TEACHER"
)

// Account status as written by the backend.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusPending   = "PENDING"
)

// Source names where an Identity was read from.
type Source string

const (
	SourceToken        Source = "token"
	SourceLocalStorage Source = "local"
	SourceSession      Source = "session"
	SourceCookie       Source = "cookie"
)

// Identity is the signed-in user as far as the client can tell. It is rebuilt
// on every read and is never proof of anything: the backend re-checks every
// privileged request.
type Identity struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
	Source   Source `json:"source"`
}

func (i *Identity) HasRole(role RoleType) bool {
	return i != nil && RoleType(i.Role) == role
}

// IsAdmin drives UI branching only.
func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}
