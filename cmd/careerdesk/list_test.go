package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListCommand_Table(t *testing.T) {
	setupHome(t)
	backend := newFakeBackend(t)

	res, err := executeCommand(t, "", "list", "jobs", "--page-size", "5")
	require.NoError(t, err)

	require.Contains(t, res.stdout, "ID")
	require.Contains(t, res.stdout, "TITLE")
	require.Contains(t, res.stdout, "COMPANY")
	require.Contains(t, res.stdout, "job-01")
	require.Contains(t, res.stdout, "Analyst 01")
	require.Contains(t, res.stdout, "job-05")
	require.NotContains(t, res.stdout, "job-06")
	require.Contains(t, res.stdout, "Page 1 of 3  (12 of 12 jobs)")
	require.Contains(t, res.stdout, "[1] 2 3 >")
	require.Empty(t, res.stderr)

	req, ok := backend.last("GET", "/jobs")
	require.True(t, ok)
	require.Empty(t, req.Authorization, "anonymous requests carry no token")
	require.NotEmpty(t, req.RequestID)
}

func TestListCommand_Filters(t *testing.T) {
	setupHome(t)
	newFakeBackend(t)

	res, err := executeCommand(t, "", "list", "jobs", "--category", "part-time")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "(4 of 12 jobs)")
	require.Contains(t, res.stdout, "job-03")
	require.NotContains(t, res.stdout, "job-01")

	res, err = executeCommand(t, "", "list", "jobs", "--min", "5000", "--max", "8000")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "(4 of 12 jobs)")
	require.Contains(t, res.stdout, "job-05")
	require.Contains(t, res.stdout, "job-08")
	require.NotContains(t, res.stdout, "job-09")

	res, err = executeCommand(t, "", "list", "jobs", "--search", "ENGINEER")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "(6 of 12 jobs)")

	res, err = executeCommand(t, "", "list", "jobs", "--search", "nobody")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "No jobs match the current filters (12 in total).")
}

func TestListCommand_JSON(t *testing.T) {
	setupHome(t)
	newFakeBackend(t)

	res, err := executeCommand(t, "", "list", "jobs", "--json", "--page", "2", "--page-size", "5", "--recent")
	require.NoError(t, err)

	payload := decodeJSON[struct {
		Version    string           `json:"version"`
		Collection string           `json:"collection"`
		Stale      bool             `json:"stale"`
		Total      int              `json:"total"`
		Matched    int              `json:"matched"`
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
		Records    []map[string]any `json:"records"`
	}](t, res.stdout)

	require.Equal(t, "1.0", payload.Version)
	require.Equal(t, "jobs", payload.Collection)
	require.False(t, payload.Stale)
	require.Equal(t, 12, payload.Total)
	require.Equal(t, 12, payload.Matched)
	require.Equal(t, 2, payload.Page)
	require.Equal(t, 3, payload.TotalPages)
	require.Len(t, payload.Records, 5)
	// newest first: page two starts at the seventh newest
	require.Equal(t, "job-07", payload.Records[0]["_id"])
}

func TestListCommand_PageBeyondEndIsClamped(t *testing.T) {
	setupHome(t)
	newFakeBackend(t)

	res, err := executeCommand(t, "", "list", "jobs", "--page", "99", "--page-size", "5")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "Page 3 of 3")
	require.Contains(t, res.stdout, "job-12")
}

func TestListCommand_FallsBackToSnapshot(t *testing.T) {
	setupHome(t)
	backend := newFakeBackend(t)

	_, err := executeCommand(t, "", "list", "jobs")
	require.NoError(t, err)

	backend.server.Close()

	res, err := executeCommand(t, "", "list", "jobs")
	require.NoError(t, err)
	require.Contains(t, res.stderr, "Showing saved copy of jobs from just now")
	require.Contains(t, res.stdout, "job-01")
}

func TestListCommand_BackendDownWithoutSnapshot(t *testing.T) {
	setupHome(t)
	backend := newFakeBackend(t)
	backend.server.Close()

	_, err := executeCommand(t, "", "list", "jobs")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to list: loading jobs")
	require.Contains(t, err.Error(), "Check that the backend is running")
}

func TestListCommand_RestrictedCollection(t *testing.T) {
	setupHome(t)
	backend := newFakeBackend(t)

	_, err := executeCommand(t, "", "list", "students")
	require.Error(t, err)
	require.Contains(t, err.Error(), "only visible to superadmins")
	_, called := backend.last("GET", "/students")
	require.False(t, called)

	signIn(t, "superadmin", "root-1", "root@campus.edu")
	res, err := executeCommand(t, "", "list", "students")
	require.NoError(t, err)
	require.Contains(t, res.stdout, "stu-1")

	req, ok := backend.last("GET", "/students")
	require.True(t, ok)
	require.Contains(t, req.Authorization, "Bearer ")
}

func TestListCommand_UnknownCollection(t *testing.T) {
	setupHome(t)
	newFakeBackend(t)

	_, err := executeCommand(t, "", "list", "alumni")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown collection")
}
