package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/careerdesk/internal/session"
)

func TestLoginCommand_FromStdin(t *testing.T) {
	setupHome(t)
	newFakeBackend(t)
	token := tokenFor(t, "student", "stu-1", "asha@campus.edu")

	res, err := executeCommand(t, token+"\n", "login")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "✓ Signed in as asha@campus.edu (student)")
	require.Contains(t, res.stdout, "Expires:")

	stored, err := session.NewStore("").Load()
	require.NoError(t, err)
	require.Equal(t, token, stored.Token)

	res, err = executeCommand(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "Account:     asha@campus.edu (student)")
	require.Contains(t, res.stdout, "User ID:     stu-1")
	require.Contains(t, res.stdout, "Collections: jobs, internships, materials")
}

func TestLoginCommand_TokenFlagAcceptsBearerPrefix(t *testing.T) {
	setupHome(t)
	token := tokenFor(t, "admin", "adm-1", "office@campus.edu")

	res, err := executeCommand(t, "", "login", "--token", "Bearer "+token)
	require.NoError(t, err)
	require.Contains(t, res.stdout, "office@campus.edu (admin)")
}

func TestLoginCommand_Rejects(t *testing.T) {
	setupHome(t)

	_, err := executeCommand(t, "", "login")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no token provided")

	_, err = executeCommand(t, "not-a-token\n", "login")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to login: storing the token")

	noRole := signToken(t, jwt.MapClaims{"id": "x", "exp": time.Now().Add(time.Hour).Unix()})
	_, err = executeCommand(t, "", "login", "--token", noRole)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token payload has no role")

	_, err = session.NewStore("").Load()
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestLoginCommand_ExpiredTokenIsNotKept(t *testing.T) {
	setupHome(t)
	expired := signToken(t, jwt.MapClaims{"role": "student", "id": "stu-1", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := executeCommand(t, "", "login", "--token", expired)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token expired at")

	_, err = session.NewStore("").Load()
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestWhoami_ExpiredStoredTokenRunsSignedOut(t *testing.T) {
	setupHome(t)
	expired := signToken(t, jwt.MapClaims{"role": "superadmin", "id": "root-1", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err := session.NewStore("").Save(expired)
	require.NoError(t, err)

	res, err := executeCommand(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "Account:     not signed in")
	require.NotContains(t, res.stdout, "User ID")
}

func TestWhoami_JSON(t *testing.T) {
	setupHome(t)
	backend := newFakeBackend(t)
	signIn(t, "superadmin", "root-1", "root@campus.edu")

	res, err := executeCommand(t, "", "whoami", "--json")
	require.NoError(t, err)

	payload := decodeJSON[whoamiJSONPayload](t, res.stdout)
	require.True(t, payload.Authenticated)
	require.Equal(t, "superadmin", payload.Role)
	require.Equal(t, "root-1", payload.UserID)
	require.Equal(t, "root@campus.edu", payload.Email)
	require.NotNil(t, payload.ExpiresAt)
	require.Equal(t, backend.server.URL, payload.APIURL)
	require.Equal(t, []string{"jobs", "internships", "students", "achievements", "materials"}, payload.Collections)
}

func TestLogoutCommand_ForgetsTokenAndSnapshots(t *testing.T) {
	home := setupHome(t)
	newFakeBackend(t)
	signIn(t, "student", "stu-1", "asha@campus.edu")

	_, err := executeCommand(t, "", "list", "jobs")
	require.NoError(t, err)
	snapshotFile := filepath.Join(home, ".careerdesk", "cache", "jobs.json")
	require.FileExists(t, snapshotFile)

	res, err := executeCommand(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "✓ Signed out")
	require.NoFileExists(t, snapshotFile)

	res, err = executeCommand(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "not signed in")
}
