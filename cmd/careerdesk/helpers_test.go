package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/alexisbeaulieu97/careerdesk/internal/session"
)

// Command tests share HOME, the keyring mock and package-level hooks, so
// none of them run in parallel.

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          map[string]any
}

type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	jobs     []map[string]any
}

func (b *fakeBackend) job(id string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, job := range b.jobs {
		if job["_id"] == id {
			return job, true
		}
	}
	return nil, false
}

func (b *fakeBackend) allJobs() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.jobs...)
}

// updateJob replaces one job_data field of a served job.
func (b *fakeBackend) updateJob(id, field string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, job := range b.jobs {
		if job["_id"] != id {
			continue
		}
		data := make(map[string]any)
		for k, v := range job["job_data"].(map[string]any) {
			data[k] = v
		}
		data[field] = value
		updated := make(map[string]any)
		for k, v := range job {
			updated[k] = v
		}
		updated["job_data"] = data
		b.jobs[i] = updated
	}
}

func (b *fakeBackend) record(r *http.Request) recordedRequest {
	rec := recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	b.mu.Unlock()
	return rec
}

func (b *fakeBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func (b *fakeBackend) last(method, path string) (recordedRequest, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return recordedRequest{}, false
}

func fixtureJob(i int) map[string]any {
	title := fmt.Sprintf("Engineer %02d", i)
	if i%2 == 1 {
		title = fmt.Sprintf("Analyst %02d", i)
	}
	jobType := "full-time"
	if i%3 == 0 {
		jobType = "part-time"
	}
	return map[string]any{
		"_id":       fmt.Sprintf("job-%02d", i),
		"createdAt": time.Date(2024, 6, i, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"job_data": map[string]any{
			"title":        title,
			"company_name": "Acme",
			"job_type":     jobType,
			"salary":       1000 * i,
		},
	}
}

func writeBody(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// newFakeBackend serves twelve jobs and points CAREERDESK_API_URL at itself.
func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	backend := &fakeBackend{}
	for i := 1; i <= 12; i++ {
		backend.jobs = append(backend.jobs, fixtureJob(i))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		writeBody(w, http.StatusOK, map[string]any{"jobs": backend.allJobs()})
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		if job, ok := backend.job(r.PathValue("id")); ok {
			writeBody(w, http.StatusOK, map[string]any{"job": job})
			return
		}
		writeBody(w, http.StatusNotFound, map[string]any{"message": "job not found"})
	})
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		rec := backend.record(r)
		created := map[string]any{"_id": "job-99"}
		for k, v := range rec.Body {
			created[k] = v
		}
		writeBody(w, http.StatusCreated, map[string]any{"job": created})
	})
	mux.HandleFunc("POST /jobs/{id}/apply", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		if r.PathValue("id") == "job-02" {
			writeBody(w, http.StatusConflict, map[string]any{"message": "already applied"})
			return
		}
		writeBody(w, http.StatusOK, map[string]any{"message": "applied"})
	})
	mux.HandleFunc("GET /students", func(w http.ResponseWriter, r *http.Request) {
		backend.record(r)
		writeBody(w, http.StatusOK, map[string]any{"students": []any{
			map[string]any{"_id": "stu-1", "name": "Asha Rao", "department": "CSE", "cgpa": 8.9},
		}})
	})

	backend.server = httptest.NewServer(mux)
	t.Cleanup(backend.server.Close)
	t.Setenv("CAREERDESK_API_URL", backend.server.URL)
	return backend
}

// setupHome isolates the config, logs, cache, saved listings and keychain.
func setupHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	keyring.MockInit()
	return home
}

func writeConfig(t *testing.T, home, contents string) string {
	t.Helper()

	dir := filepath.Join(home, ".careerdesk")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("portal-secret"))
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, role, id, email string) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"role":  role,
		"id":    id,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}

// signIn stores a token for role in the mocked keychain.
func signIn(t *testing.T, role, id, email string) string {
	t.Helper()

	token := tokenFor(t, role, id, email)
	_, err := session.NewStore("").Save(token)
	require.NoError(t, err)
	return token
}

type cliResult struct {
	stdout string
	stderr string
}

func executeCommand(t *testing.T, stdin string, args ...string) (cliResult, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String()}, err
}

func decodeJSON[T any](t *testing.T, data string) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal([]byte(data), &out))
	return out
}
