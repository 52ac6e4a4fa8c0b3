package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList(t *testing.T) {
	a := ParseAllowList(" FrontDesk@Example.com, ,owner@example.com")

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Allowed("frontdesk@example.com"))
	assert.True(t, a.Allowed(" OWNER@example.com "))
	assert.False(t, a.Allowed("stranger@example.com"))
	assert.False(t, a.Allowed(""))

	var nilList *AllowList
	assert.False(t, nilList.Allowed("owner@example.com"))
}

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v, err := NewTokenVerifier("s3cret")
	require.NoError(t, err)

	token, err := v.IssueToken("FrontDesk@example.com")
	require.NoError(t, err)

	email, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "frontdesk@example.com", email)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	_, err := NewTokenVerifier("")
	assert.Error(t, err)

	v, err := NewTokenVerifier("s3cret")
	require.NoError(t, err)

	_, err = v.IssueToken("  ")
	assert.Error(t, err)

	other, err := NewTokenVerifier("different")
	require.NoError(t, err)
	forged, err := other.IssueToken("owner@example.com")
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.Error(t, err, "Wrong secret must fail")

	issued := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	v.Now = func() time.Time { return issued }
	old, err := v.IssueToken("owner@example.com")
	require.NoError(t, err)
	v.Now = func() time.Time { return issued.Add(DefaultTokenTTL + time.Minute) }
	_, err = v.Verify(old)
	assert.Error(t, err, "Expired token must fail")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "owner@example.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(unsigned)
	assert.Error(t, err, "alg=none must fail")
}

func TestGate_Authorize(t *testing.T) {
	v, err := NewTokenVerifier("s3cret")
	require.NoError(t, err)
	gate := &Gate{Verifier: v, Allow: NewAllowList("owner@example.com")}

	token, err := v.IssueToken("owner@example.com")
	require.NoError(t, err)
	email, ok, err := gate.Authorize(token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "owner@example.com", email)

	stranger, err := v.IssueToken("stranger@example.com")
	require.NoError(t, err)
	_, ok, err = gate.Authorize(stranger)
	require.NoError(t, err)
	assert.False(t, ok, "Valid token but not on the list")

	_, _, err = gate.Authorize("garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
