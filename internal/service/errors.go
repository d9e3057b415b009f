package service

import "errors"

// Application-level errors surfaced by the service layer. Each is mapped to
// a transport status code exactly once, in the API boundary.
var (
	// ErrInvalidCredentials is returned by Login for both an unknown email
	// and a wrong password. The two cases are indistinguishable to the
	// caller to prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRefreshTokenRevoked is returned by Refresh when a token verifies
	// cryptographically but does not match the token currently stored for
	// the user: it was rotated away, invalidated by logout, or the user no
	// longer exists. The presenter must re-authenticate.
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")

	// ErrTaskAccessDenied is returned when the requester is neither the
	// task's owner nor an admin.
	ErrTaskAccessDenied = errors.New("access to task denied")
)
