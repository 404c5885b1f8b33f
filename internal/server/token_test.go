package server

import (
	"testing"

	"aidbridge/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	user := &types.User{ID: "user-1", Email: "maria@example.com", Role: types.RoleDonor}

	token, err := env.service.issueToken(user)
	require.NoError(t, err)

	sess, err := env.service.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "maria@example.com", sess.Email)
	assert.Equal(t, types.RoleDonor, sess.Role)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	env := newTestEnv(t)
	other := newTestEnv(t)
	other.service.signingKey = []byte("a-different-signing-key-entirely")

	user := &types.User{ID: "user-1", Role: types.RoleDonor}

	token, err := other.service.issueToken(user)
	require.NoError(t, err)

	_, err = env.service.parseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.parseToken("not.a.token")
	require.Error(t, err)
}
