package model

// UserRole mirrors the role claim issued by the upstream. The upstream uses
// capitalized role names.
type UserRole string

const (
	RoleUser  UserRole = "User"
	RoleAdmin UserRole = "Admin"
)

// SessionContext is the authenticated caller's identity, injected explicitly
// into every service that needs it instead of being read from ambient state.
type SessionContext struct {
	UserID uint
	Email  string
	Role   UserRole

	// Token is the raw bearer credential, forwarded verbatim on every
	// upstream call.
	Token string
}

// CanCheckout reports whether this session's role is entitled to checkout.
// Only the non-administrative User role may buy.
func (s SessionContext) CanCheckout() bool {
	return s.Role == RoleUser
}
