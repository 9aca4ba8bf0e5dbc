// Package auth implements the token authority and the token verifier.
//
// The authority exchanges client credentials for RS256-signed bearer
// tokens; the verifier checks tokens against the public key alone, so
// any number of verifier instances sharing that key agree on validity.
package auth

import (
	"crypto/rsa"
	"fmt"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/thingmesh/telemetry-go/internal/password"
)

// DefaultScope is granted to every issued token; there is no
// per-client scoping.
const DefaultScope = "default"

// Token is a signed access token together with its issuance metadata.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
	ClientID    string
	Scope       string
}

// scopeClaims is the non-standard portion of the JWT payload.
type scopeClaims struct {
	Scope string `json:"scope"`
}

// Authority issues signed, time-bounded tokens to registered clients.
type Authority struct {
	key    *rsa.PrivateKey
	issuer string
	ttl    time.Duration
	now    func() time.Time

	clients map[string]string // client id -> argon2id secret hash

	// issued indexes tokens by their raw value for introspection.
	// Validation never consults it; it is lost on restart.
	mu     sync.Mutex
	issued map[string]time.Time
}

// NewAuthority creates an Authority signing with the given private key.
func NewAuthority(key *rsa.PrivateKey, issuer string, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Authority{
		key:     key,
		issuer:  issuer,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]string),
		issued:  make(map[string]time.Time),
	}
}

// RegisterClient adds a client credential to the static registry. The
// plaintext secret is hashed; it is never stored.
func (a *Authority) RegisterClient(clientID, clientSecret string) error {
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client id and secret must be non-empty")
	}
	hash, err := password.Hash(clientSecret)
	if err != nil {
		return fmt.Errorf("hash client secret: %w", err)
	}
	a.clients[clientID] = hash
	return nil
}

// Issue validates the credential pair and returns a signed token.
// Returns ErrInvalidCredentials on any mismatch, with no side effect.
func (a *Authority) Issue(clientID, clientSecret string) (Token, error) {
	hash, ok := a.clients[clientID]
	if !ok {
		return Token{}, ErrInvalidCredentials
	}
	match, err := password.Verify(clientSecret, hash)
	if err != nil || !match {
		return Token{}, ErrInvalidCredentials
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: a.key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return Token{}, fmt.Errorf("new signer: %w", err)
	}

	now := a.now().UTC()
	expiresAt := now.Add(a.ttl)
	std := jwt.Claims{
		Subject:  clientID,
		Issuer:   a.issuer,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(expiresAt),
	}
	raw, err := jwt.Signed(signer).Claims(std).Claims(scopeClaims{Scope: DefaultScope}).Serialize()
	if err != nil {
		return Token{}, fmt.Errorf("serialize token: %w", err)
	}

	a.mu.Lock()
	a.issued[raw] = expiresAt
	a.mu.Unlock()

	return Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresIn:   int64(a.ttl / time.Second),
		ExpiresAt:   expiresAt,
		ClientID:    clientID,
		Scope:       DefaultScope,
	}, nil
}

// WasIssued reports whether this authority instance issued the token
// and it has not yet lapsed. Advisory only: signature verification is
// the source of truth and survives restarts, this index does not.
func (a *Authority) WasIssued(raw string) bool {
	now := a.now()
	a.mu.Lock()
	defer a.mu.Unlock()
	expiresAt, ok := a.issued[raw]
	if !ok {
		return false
	}
	if !now.Before(expiresAt) {
		delete(a.issued, raw)
		return false
	}
	return true
}
