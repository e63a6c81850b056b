package auth

import "net/http"

// Role is an operational screen role.
type Role string

const (
	RoleOwner          Role = "owner"
	RoleManager        Role = "manager"
	RoleDispatcher     Role = "dispatcher"
	RoleKeyMachine     Role = "keymachine"
	RoleCarWash        Role = "carwash"
	RoleServiceAdvisor Role = "serviceadvisor"
	RoleSalesManager   Role = "sales_manager"
	RoleSalesDriver    Role = "sales_driver"
	RoleWallboard      Role = "wallboard"
)

// Identity is what the external auth collaborator resolves for a request.
// An absent role means the caller is unauthenticated; the board treats that
// the same as wallboard: readable, never writable.
type Identity struct {
	UserID        string
	EffectiveRole Role
	TenantID      string
}

// CanMutate reports whether this identity may take board actions. Wallboard
// is a read-only aggregate display; a missing role is handled as role absent
// rather than a hard failure.
func (id Identity) CanMutate() bool {
	switch id.EffectiveRole {
	case "", RoleWallboard:
		return false
	default:
		return true
	}
}

// Resolver resolves a request to an identity. The real implementation lives
// outside this core; StaticResolver below covers deployments where screens
// authenticate with pre-issued tokens.
type Resolver interface {
	Resolve(r *http.Request) (Identity, bool)
}

// StaticResolver maps bearer tokens to identities from configuration.
type StaticResolver struct {
	tokens map[string]Identity
}

// NewStaticResolver builds a resolver over a token → identity table.
func NewStaticResolver(tokens map[string]Identity) *StaticResolver {
	return &StaticResolver{tokens: tokens}
}

// Resolve looks up the request's bearer token. Unknown or missing tokens
// resolve to (zero identity, false); callers degrade to read-only.
func (s *StaticResolver) Resolve(r *http.Request) (Identity, bool) {
	token := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(token) > len(prefix) && token[:len(prefix)] == prefix {
		token = token[len(prefix):]
	}
	if token == "" {
		return Identity{}, false
	}
	id, ok := s.tokens[token]
	return id, ok
}
