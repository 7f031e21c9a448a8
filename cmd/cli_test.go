package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestLoginRequiresCredentialFlags(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "login", "--email", "ada@club.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"password\" not set")
}

func TestLoginThenWhoamiShowsSignedIn(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, server.URL,
		"login", "--email", "ada@club.example", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Ada Lovelace")

	stdout, _, err = executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "signed in")
	assert.Contains(t, stdout, "ada@club.example")
}

func TestLoginRejectedCredentials(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()

	_, _, err := executeCLI(t, t.TempDir(), server.URL,
		"login", "--email", "ada@club.example", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email and password")
}

func TestWhoamiWithoutSessionShowsSignedOut(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "signed out")
}

func TestProtectedCommandRequiresLogin(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "ask", "any ideas?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm login")
}

func TestModulesListsAllTen(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "modules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Leads")
	assert.Contains(t, stdout, "Merchandising")
	assert.Contains(t, stdout, "10")
}

func TestExportRejectsUnknownModule(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid", "export", "--module", "11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 1..10")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid",
		"export", "--module", "1", "--format", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want pdf or csv")
}

func TestExportRejectsHalfOpenRange(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "https://crm.invalid",
		"export", "--module", "1", "--from", "2025-06-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to is required")
}

func TestExportRejectsReversedRange(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	_, _, err := executeCLI(t, home, server.URL,
		"export", "--module", "1", "--from", "2025-06-30", "--to", "2025-06-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestExportWritesCSV(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)
	outPath := filepath.Join(home, "out", "leads.csv")

	stdout, _, err := executeCLI(t, home, server.URL,
		"export", "--module", "1",
		"--from", "2025-06-01", "--to", "2025-06-30",
		"--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 rows to "+outPath)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name")
	assert.Contains(t, string(content), "Falcons FC")
}

func TestExportEmptyRangeWritesNothing(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)
	outPath := filepath.Join(home, "empty.csv")

	_, _, err := executeCLI(t, home, server.URL,
		"export", "--module", "2",
		"--from", "2025-01-01", "--to", "2025-01-02",
		"--out", outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows to export")
	assert.NoFileExists(t, outPath)
}

func TestAskPrintsAnswer(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "ask", "ideas for ticketing?")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bundle season tickets with hospitality packages.")
}

func TestAskFallsBackWhenAssistantFails(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	stdout, stderr, err := executeCLI(t, home, server.URL, "ask", "break please")
	require.NoError(t, err)
	assert.Contains(t, stdout, "couldn't find an answer")
	assert.Contains(t, stderr, "AI Ideas is unavailable")
}

func TestContractShowsDetails(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "contract", "ctr-7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Falcons FC")
	assert.Contains(t, stdout, "Kit sponsorship")
}

func TestInvoiceShowsDetails(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "invoice", "inv-3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "INV-2025-003")
}

func TestLogoutClearsStoredSession(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()
	home := loggedInHome(t, server.URL)

	stdout, _, err := executeCLI(t, home, server.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	stdout, _, err = executeCLI(t, home, server.URL, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "signed out")
}

func executeCLI(t *testing.T, home, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("CRM_API_BASE_URL", baseURL)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func loggedInHome(t *testing.T, baseURL string) string {
	t.Helper()
	home := t.TempDir()
	_, _, err := executeCLI(t, home, baseURL,
		"login", "--email", "ada@club.example", "--password", "hunter2")
	require.NoError(t, err)
	return home
}

// newCRMServer fakes the remote CRM API with the envelope every endpoint
// speaks. Password "hunter2" is the only accepted credential; module 2 holds
// no rows; the assistant breaks on the literal question "break please".
func newCRMServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds.Password != "hunter2" {
			writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid email or password.")
			return
		}

		writeEnvelope(w, http.StatusOK, map[string]any{
			"token":        "access-token-1",
			"refreshToken": "refresh-token-1",
			"email":        creds.Email,
			"userId":       "user-9",
			"firstName":    "Ada",
			"lastName":     "Lovelace",
			"expiresIn":    3600,
		}, "")
	})

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"token":        "access-token-2",
			"refreshToken": "refresh-token-2",
			"email":        "ada@club.example",
			"userId":       "user-9",
			"expiresIn":    3600,
		}, "")
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, nil, "")
	})

	mux.HandleFunc("/export", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ModuleID int `json:"moduleId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.ModuleID == 2 {
			writeEnvelope(w, http.StatusOK, []map[string]any{}, "")
			return
		}

		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"name": "Falcons FC", "stage": "qualified"},
			{"name": "Harbor Arena", "stage": "contacted"},
		}, "")
	})

	mux.HandleFunc("/ai/ask", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Query == "break please" {
			writeEnvelope(w, http.StatusInternalServerError, nil, "assistant offline")
			return
		}

		writeEnvelope(w, http.StatusOK, map[string]any{
			"answer": "Bundle season tickets with hospitality packages.",
		}, "")
	})

	mux.HandleFunc("/contracts/ctr-7", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id":         "ctr-7",
			"title":      "Kit sponsorship",
			"clientName": "Falcons FC",
			"value":      120000,
			"currency":   "EUR",
			"startDate":  "2025-01-01T00:00:00Z",
			"endDate":    "2025-12-31T00:00:00Z",
			"status":     "active",
		}, "")
	})

	mux.HandleFunc("/invoices/inv-3", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id":         "inv-3",
			"number":     "INV-2025-003",
			"clientName": "Falcons FC",
			"amount":     40000,
			"currency":   "EUR",
			"issuedAt":   "2025-03-01T00:00:00Z",
			"dueAt":      "2025-03-31T00:00:00Z",
			"status":     "open",
		}, "")
	})

	return httptest.NewServer(mux)
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"isSuccess":    status < 300,
		"message":      message,
		"data":         data,
		"errors":       nil,
		"responseCode": status,
	})
}
