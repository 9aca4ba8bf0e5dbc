package auth

import "errors"

// ErrInvalidCredentials is returned by Issue when the client id or
// secret does not match the registry.
var ErrInvalidCredentials = errors.New("invalid client credentials")

// ErrUnauthenticated is returned by Verify when no bearer token was
// presented at all.
var ErrUnauthenticated = errors.New("missing bearer token")

// ErrForbidden is returned by Verify when a token was presented but is
// invalid or expired.
var ErrForbidden = errors.New("invalid or expired token")
