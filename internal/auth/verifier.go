package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// allowedAlgorithms pins token verification to RS256. Tokens signed
// with any other algorithm are rejected at parse time.
var allowedAlgorithms = []jose.SignatureAlgorithm{jose.RS256}

// Claims is the identity context extracted from a verified token.
type Claims struct {
	ClientID string
	Scope    string
}

// Verifier validates bearer tokens using the authority's public key.
// Verification is a pure function of the token and the clock; it holds
// no mutable state, so separate instances sharing the key agree.
type Verifier struct {
	key    *rsa.PublicKey
	issuer string
	now    func() time.Time
}

// NewVerifier creates a Verifier. An empty issuer disables the issuer
// check.
func NewVerifier(key *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{key: key, issuer: issuer, now: time.Now}
}

// Verify checks an Authorization header value.
//
// Returns ErrUnauthenticated when the header is absent or not of the
// form "Bearer <token>", and ErrForbidden when the token fails
// signature verification, uses an unsupported algorithm, or is
// expired.
func (v *Verifier) Verify(authorization string) (*Claims, error) {
	if authorization == "" {
		return nil, ErrUnauthenticated
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, ErrUnauthenticated
	}

	parsed, err := jwt.ParseSigned(parts[1], allowedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	var std jwt.Claims
	var custom scopeClaims
	if err := parsed.Claims(v.key, &std, &custom); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	if std.Expiry == nil {
		return nil, fmt.Errorf("%w: token has no expiry", ErrForbidden)
	}
	// A token is invalid from the instant its expiry is reached.
	if !v.now().Before(std.Expiry.Time()) {
		return nil, fmt.Errorf("%w: token expired", ErrForbidden)
	}
	expected := jwt.Expected{Time: v.now()}
	if v.issuer != "" {
		expected.Issuer = v.issuer
	}
	if err := std.ValidateWithLeeway(expected, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	return &Claims{ClientID: std.Subject, Scope: custom.Scope}, nil
}
