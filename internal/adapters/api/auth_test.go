package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstack/crm-cli/internal/domain"
)

func testJWT(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return fmt.Sprintf("%s.%s.%s",
		base64.RawURLEncoding.EncodeToString(header),
		base64.RawURLEncoding.EncodeToString(payload),
		base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

func TestLoginDecodesWrappedPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@club.example", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"isSuccess": true,
			"message": "",
			"data": {
				"token": "access-1",
				"refreshToken": "refresh-1",
				"email": "ada@club.example",
				"userId": "user-9",
				"expiresIn": 3600,
				"firstName": "Ada",
				"lastName": "Okafor"
			},
			"errors": [],
			"responseCode": 200
		}`))
	}))
	t.Cleanup(server.Close)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	client := &Client{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Now:        func() time.Time { return now },
	}

	session, err := client.Login(context.Background(), "ada@club.example", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, "user-9", session.User.ID)
	assert.Equal(t, "Ada Okafor", session.User.DisplayName())
	assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)
}

func TestLoginDecodesBarePayloadAndJWTExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC)
	var token string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":        token,
			"refreshToken": "refresh-1",
		})
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}
	token = testJWT(t, map[string]any{
		"sub":   "user-9",
		"email": "ada@club.example",
		"exp":   exp.Unix(),
	})

	session, err := client.Login(context.Background(), "ada@club.example", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "user-9", session.User.ID)
	assert.Equal(t, "ada@club.example", session.User.Email)
	assert.True(t, session.ExpiresAt.Equal(exp))
}

func TestLoginRejectedCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := client.Login(context.Background(), "ada@club.example", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLoginServerBusinessError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isSuccess":false,"message":"account suspended","data":null,"errors":[],"responseCode":423}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := client.Login(context.Background(), "ada@club.example", "hunter2")
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "account suspended", serverErr.Message)
	assert.Equal(t, 423, serverErr.ResponseCode)
}

func TestRefreshRejectedTokenMapsToSessionExpired(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}

	_, err := client.Refresh(context.Background(), "stale-refresh")
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestRefreshReturnsRotatedPair(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refreshToken"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"access-2","refreshToken":"refresh-2","email":"ada@club.example","userId":"user-9","expiresIn":1800}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}

	session, err := client.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", session.AccessToken)
	assert.Equal(t, "refresh-2", session.RefreshToken)
}

func TestLogoutPostsRefreshToken(t *testing.T) {
	t.Parallel()

	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		seen = body["refreshToken"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isSuccess":true,"data":null}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}

	require.NoError(t, client.Logout(context.Background(), "refresh-1"))
	assert.Equal(t, "refresh-1", seen)
}

func TestRoundTripHonorsRequestTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{
		BaseURL:        server.URL,
		HTTPClient:     server.Client(),
		RequestTimeout: 20 * time.Millisecond,
	}

	_, err := client.Login(context.Background(), "ada@club.example", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}
