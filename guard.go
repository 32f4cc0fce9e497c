package userapi

// DenyReason explains why a request was not authorized
type DenyReason string

const (
	// DenyUnauthenticated means no verified principal was present (401)
	DenyUnauthenticated DenyReason = "unauthenticated"
	// DenyInsufficientRole means the principal holds none of the required roles (403)
	DenyInsufficientRole DenyReason = "insufficient_role"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive authorization decision
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with a reason
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err maps the decision to the error the boundary translates to a status code
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	if d.Reason == DenyInsufficientRole {
		return ErrInsufficientRole
	}
	return ErrUnauthenticated
}

// Authorize decides whether a principal may reach an endpoint guarded by
// requiredRoles. An empty requiredRoles set admits any authenticated
// principal. A non-empty set admits the principal when its role claims
// intersect the required set: holding any one of them is enough.
func Authorize(principal *Principal, requiredRoles ...string) Decision {
	if principal == nil {
		return Deny(DenyUnauthenticated)
	}

	if len(requiredRoles) == 0 {
		return Allow
	}

	for _, required := range requiredRoles {
		if principal.HasRole(required) {
			return Allow
		}
	}

	return Deny(DenyInsufficientRole)
}
