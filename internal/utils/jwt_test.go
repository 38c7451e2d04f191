package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrea360/fitness-center-backend/internal/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	memberID := uint64(42)
	locationID := uint64(3)
	issued := auth.Principal{
		UserID:     7,
		Role:       auth.RoleMember,
		MemberID:   &memberID,
		LocationID: &locationID,
	}
	tok, err := NewAccessToken("test-secret", issued, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	parsed, err := ParseAccessToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, issued, parsed)
}

func TestAccessTokenOmitsUnsetClaims(t *testing.T) {
	tok, err := NewAccessToken("test-secret", auth.Principal{UserID: 1, Role: auth.RoleAdmin}, 15)
	require.NoError(t, err)

	parsed, err := ParseAccessToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Nil(t, parsed.MemberID)
	assert.Nil(t, parsed.LocationID)
	assert.True(t, parsed.IsAdmin())
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("test-secret", auth.Principal{UserID: 1, Role: auth.RoleAdmin}, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("test-secret", "not.a.token")
	assert.Error(t, err)
}

func TestHashRefreshRawIsStable(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	assert.NotEqual(t, rt.Raw, HashRefreshRaw(rt.Raw))
}
