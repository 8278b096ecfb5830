package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)
	return token
}

func TestFromTokenDecodesWithoutVerification(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"role": "Super_Admin", "id": "u-42", "email": "root@campus.edu", "exp": exp.Unix()})

	sess, err := FromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, RoleSuperAdmin, sess.Role())
	assert.Equal(t, "u-42", sess.Claims.UserID)
	assert.Equal(t, exp, sess.Claims.ExpiresAt)
	assert.True(t, sess.Authenticated())
	assert.False(t, sess.Expired(exp.Add(-time.Hour)))
	assert.True(t, sess.Expired(exp.Add(time.Hour)))
	assert.Equal(t, "root@campus.edu (superadmin)", sess.Describe())
}

func TestFromTokenUserIDFallbacks(t *testing.T) {
	t.Parallel()

	sess, err := FromToken(signedToken(t, jwt.MapClaims{"role": "student", "userId": "s-7"}))
	require.NoError(t, err)
	require.Equal(t, "s-7", sess.Claims.UserID)
	require.True(t, sess.Claims.ExpiresAt.IsZero())
	require.False(t, sess.Expired(time.Now()))

	sess, err = FromToken(signedToken(t, jwt.MapClaims{"role": "admin", "sub": "a-1"}))
	require.NoError(t, err)
	require.Equal(t, "a-1", sess.Claims.UserID)
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := FromToken(token)
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr, token)
	}

	_, err := FromToken(signedToken(t, jwt.MapClaims{"id": "x"}))
	require.ErrorContains(t, err, "no role")
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role                 Role
		post, manage, canApp bool
	}{
		{RoleStudent, false, false, true},
		{RoleAdmin, true, false, false},
		{RoleSuperAdmin, true, true, false},
		{RoleAnonymous, false, false, false},
	}
	for _, tc := range cases {
		sess := Session{Token: "t", Claims: Claims{Role: tc.role}}
		assert.Equal(t, tc.post, sess.CanPost(), tc.role)
		assert.Equal(t, tc.manage, sess.CanManageStudents(), tc.role)
		assert.Equal(t, tc.canApp, sess.CanApply(), tc.role)
	}

	assert.Equal(t, "not signed in", Anonymous().Describe())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleSuperAdmin, ParseRole("super-admin"))
	assert.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	assert.Equal(t, RoleStudent, ParseRole("Student"))
	assert.Equal(t, Role("recruiter"), ParseRole("Recruiter"))
}

func TestStoreRoundTrip(t *testing.T) {
	keyring.MockInit()

	store := NewStore("round-trip")
	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	token := signedToken(t, jwt.MapClaims{"role": "admin", "id": "a-9"})
	saved, err := store.Save(token)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, saved.Role())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, store.Clear())
}

func TestStoreSaveRejectsInvalidToken(t *testing.T) {
	keyring.MockInit()

	store := NewStore("")
	_, err := store.Save("nope")
	require.Error(t, err)
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)
}
