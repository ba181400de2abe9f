package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)

	tok, expires, err := iss.Issue("Someone@Example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	email, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", email)
}

func TestVerifyExpired(t *testing.T) {
	iss := NewIssuer(testSecret, -time.Minute)

	tok, _, err := iss.Issue("someone@example.com")
	require.NoError(t, err)

	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	other := NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	tok, _, err := iss.Issue("someone@example.com")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)

	_, err := iss.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestTokensAreUnique(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)

	a, _, err := iss.Issue("someone@example.com")
	require.NoError(t, err)
	b, _, err := iss.Issue("someone@example.com")
	require.NoError(t, err)

	// jti differs even for identical subjects issued in the same second
	assert.NotEqual(t, a, b)
}
