// Package auth carries the typed identity supplied by the upstream gateway.
// The core trusts this context and does not re-authenticate.
package auth

// Roles recognized by the core.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Context identifies the caller of every core operation. It is resolved by
// the tenant-resolution middleware from trusted gateway headers and passed
// explicitly into usecases.
type Context struct {
	TenantID uint
	UserID   uint
	Role     string
}

// IsAdmin reports whether the caller may perform administrative operations.
func (c Context) IsAdmin() bool {
	return c.Role == RoleAdmin
}
