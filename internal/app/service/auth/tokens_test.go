package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/comunidadhq/backend/pkg/config"
)

func testIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer(&cfgpkg.Config{JWT: cfgpkg.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := testIssuer(time.Hour, 24*time.Hour)

	pair, err := issuer.GeneratePair("profile-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ProfileID)

	claims, err = issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ProfileID)
}

func TestTokenIssuer_SubjectsDoNotCross(t *testing.T) {
	issuer := testIssuer(time.Hour, 24*time.Hour)
	pair, err := issuer.GeneratePair("profile-1")
	require.NoError(t, err)

	// A refresh token must never open a session, and vice versa.
	_, err = issuer.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := testIssuer(-time.Minute, -time.Minute)
	pair, err := issuer.GeneratePair("profile-1")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongKeyRejected(t *testing.T) {
	issuer := testIssuer(time.Hour, 24*time.Hour)
	other := NewTokenIssuer(&cfgpkg.Config{JWT: cfgpkg.JWTConfig{
		AccessSecret:  "another-secret-entirely",
		RefreshSecret: "another-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}})

	pair, err := issuer.GeneratePair("profile-1")
	require.NoError(t, err)

	_, err = other.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
