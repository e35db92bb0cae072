package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	raw, issued, err := Issue(secret, 7, "alice", TypeAccess, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := Parse(secret, raw, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParse_RejectsWrongType(t *testing.T) {
	raw, _, err := Issue(secret, 1, "alice", TypeRefresh, time.Hour)
	require.NoError(t, err)

	_, err = Parse(secret, raw, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestParse_RejectsExpired(t *testing.T) {
	raw, _, err := Issue(secret, 1, "alice", TypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(secret, raw, TypeAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherSecret(t *testing.T) {
	raw, _, err := Issue(secret, 1, "alice", TypeAccess, time.Hour)
	require.NoError(t, err)

	_, err = Parse("another-secret", raw, TypeAccess)
	assert.Error(t, err)
}

func TestIssue_UniqueIDs(t *testing.T) {
	_, a, err := Issue(secret, 1, "alice", TypeRefresh, time.Hour)
	require.NoError(t, err)
	_, b, err := Issue(secret, 1, "alice", TypeRefresh, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
