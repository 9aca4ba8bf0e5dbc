package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	key := testKey(t)
	authority := NewAuthority(key, "test-issuer", time.Hour)
	require.NoError(t, authority.RegisterClient("my-client", "my-secret"))

	token, err := authority.Issue("my-client", "my-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	require.Equal(t, "Bearer", token.TokenType)
	require.Equal(t, int64(3600), token.ExpiresIn)
	require.Equal(t, "my-client", token.ClientID)

	verifier := NewVerifier(&key.PublicKey, "test-issuer")
	claims, err := verifier.Verify("Bearer " + token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "my-client", claims.ClientID)
	require.Equal(t, DefaultScope, claims.Scope)
}

func TestIssueInvalidCredentials(t *testing.T) {
	authority := NewAuthority(testKey(t), "test-issuer", time.Hour)
	require.NoError(t, authority.RegisterClient("my-client", "my-secret"))

	_, err := authority.Issue("my-client", "wrong-secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authority.Issue("unknown-client", "my-secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// No token was recorded as a side effect.
	require.Empty(t, authority.issued)
}

func TestVerifyExpiredToken(t *testing.T) {
	key := testKey(t)
	authority := NewAuthority(key, "test-issuer", time.Hour)
	require.NoError(t, authority.RegisterClient("my-client", "my-secret"))

	token, err := authority.Issue("my-client", "my-secret")
	require.NoError(t, err)

	verifier := NewVerifier(&key.PublicKey, "test-issuer")
	verifier.now = func() time.Time { return token.ExpiresAt.Add(time.Second) }

	_, err = verifier.Verify("Bearer " + token.AccessToken)
	require.ErrorIs(t, err, ErrForbidden)

	// A token checked exactly at expiry is also invalid.
	verifier.now = func() time.Time { return token.ExpiresAt }
	_, err = verifier.Verify("Bearer " + token.AccessToken)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyMissingOrMalformedHeader(t *testing.T) {
	verifier := NewVerifier(&testKey(t).PublicKey, "")

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "sometoken"} {
		_, err := verifier.Verify(header)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("header %q: expected ErrUnauthenticated, got %v", header, err)
		}
	}
}

func TestVerifyWrongKey(t *testing.T) {
	authority := NewAuthority(testKey(t), "test-issuer", time.Hour)
	require.NoError(t, authority.RegisterClient("my-client", "my-secret"))

	token, err := authority.Issue("my-client", "my-secret")
	require.NoError(t, err)

	verifier := NewVerifier(&testKey(t).PublicKey, "test-issuer")
	_, err = verifier.Verify("Bearer " + token.AccessToken)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyUnsupportedAlgorithm(t *testing.T) {
	// Sign with HS256; the verifier only accepts RS256.
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte("0123456789abcdef0123456789abcdef")},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	now := time.Now()
	raw, err := jwt.Signed(signer).Claims(jwt.Claims{
		Subject: "my-client",
		Expiry:  jwt.NewNumericDate(now.Add(time.Hour)),
	}).Serialize()
	require.NoError(t, err)

	verifier := NewVerifier(&testKey(t).PublicKey, "")
	_, err = verifier.Verify("Bearer " + raw)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestWasIssued(t *testing.T) {
	authority := NewAuthority(testKey(t), "test-issuer", time.Hour)
	require.NoError(t, authority.RegisterClient("my-client", "my-secret"))

	token, err := authority.Issue("my-client", "my-secret")
	require.NoError(t, err)

	require.True(t, authority.WasIssued(token.AccessToken))
	require.False(t, authority.WasIssued("never-issued"))

	// Entries lapse with the token.
	authority.now = func() time.Time { return token.ExpiresAt.Add(time.Minute) }
	require.False(t, authority.WasIssued(token.AccessToken))
}
