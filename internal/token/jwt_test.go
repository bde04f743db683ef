package token

import (
	"testing"
	"time"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(now time.Time) *JWT {
	j := NewJWT(Options{Secret: "secret", Issuer: "obituary-server", Audience: "obituary-api", TTL: time.Hour})
	j.now = func() time.Time { return now }
	return j
}

func testUser() model.User {
	return model.User{ID: uuid.New(), Email: "uu@uu.uu", UserName: "uu@uu.uu"}
}

func TestJWT_Roundtrip(t *testing.T) {
	j := newTestJWT(time.Now())
	u := testUser()

	tok, err := j.Issue(u, []string{model.RoleUser})
	require.NoError(t, err)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.UserName, claims.UserName)
	assert.Equal(t, []string{model.RoleUser}, claims.Roles)
}

func TestJWT_MultipleRoles(t *testing.T) {
	j := newTestJWT(time.Now())

	tok, err := j.Issue(testUser(), []string{model.RoleAdmin, model.RoleUser})
	require.NoError(t, err)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleUser}, claims.Roles)
}

func TestJWT_Expired(t *testing.T) {
	issuedAt := time.Now()
	j := newTestJWT(issuedAt)

	tok, err := j.Issue(testUser(), []string{model.RoleUser})
	require.NoError(t, err)

	j.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = j.Verify(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_NoClockSkewTolerance(t *testing.T) {
	issuedAt := time.Now().Truncate(time.Second)
	j := newTestJWT(issuedAt)

	tok, err := j.Issue(testUser(), nil)
	require.NoError(t, err)

	j.now = func() time.Time { return issuedAt.Add(time.Hour).Add(time.Second) }
	_, err = j.Verify(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := newTestJWT(now).Issue(testUser(), nil)
	require.NoError(t, err)

	other := NewJWT(Options{Secret: "other", Issuer: "obituary-server", Audience: "obituary-api"})
	_, err = other.Verify(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_WrongIssuerOrAudience(t *testing.T) {
	tok, err := newTestJWT(time.Now()).Issue(testUser(), nil)
	require.NoError(t, err)

	wrongIssuer := NewJWT(Options{Secret: "secret", Issuer: "someone-else", Audience: "obituary-api"})
	_, err = wrongIssuer.Verify(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	wrongAudience := NewJWT(Options{Secret: "secret", Issuer: "obituary-server", Audience: "other-api"})
	_, err = wrongAudience.Verify(tok)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_RejectsOtherSigningMethod(t *testing.T) {
	j := newTestJWT(time.Now())
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "obituary-server",
			Audience:  jwt.ClaimStrings{"obituary-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.Verify(signed)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	j := newTestJWT(time.Now())

	_, err := j.Verify("not-a-token")
	require.ErrorIs(t, err, model.ErrInvalidToken)

	_, err = j.Verify("")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestJWT_IssueRequiresUserID(t *testing.T) {
	j := newTestJWT(time.Now())

	_, err := j.Issue(model.User{Email: "x@y.z"}, nil)
	require.Error(t, err)
}

func TestNewJWT_DefaultTTL(t *testing.T) {
	j := NewJWT(Options{Secret: "s"})
	assert.Equal(t, DefaultTTL, j.ttl)
}
