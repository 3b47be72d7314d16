package extapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"capability-dashboard/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.ExternalAPIConfig{
		BaseURL:          baseURL,
		Username:         "svc-account",
		Password:         "svc-secret",
		TokenTTL:         time.Hour,
		ReferenceTimeout: 5 * time.Second,
		EmployeeTimeout:  5 * time.Second,
	}, zap.NewNop())
}

func TestAuthenticateCachesToken(t *testing.T) {
	var authCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/User/SecureAuth", r.URL.Path)
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	token, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// Second call must hit the cache, not the server.
	token, err = c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls))
}

func TestAuthenticateAcceptsBareStringToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("bare-token")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	token, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bare-token", token)
}

func TestAuthenticateAcceptsPlainTextToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw-token-string"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	token, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "raw-token-string", token)
}

func TestAuthenticateReportsUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Authenticate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")
}

func TestFetchDepartmentsRetriesOnceOn401(t *testing.T) {
	var tokenSeq int64
	var deptCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/User/SecureAuth":
			n := atomic.AddInt64(&tokenSeq, 1)
			json.NewEncoder(w).Encode(map[string]string{"token": map[int64]string{1: "stale", 2: "fresh"}[n]})
		case "/Department":
			atomic.AddInt64(&deptCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"departmentID": "D01", "deskripsi": "Finance", "isDepartment": "Y"},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	departments, err := c.FetchDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "D01", departments[0].DepartmentID)
	assert.Equal(t, "Finance", departments[0].Deskripsi)

	// One rejected attempt plus exactly one retry.
	assert.Equal(t, int64(2), atomic.LoadInt64(&deptCalls))
	assert.Equal(t, int64(2), atomic.LoadInt64(&tokenSeq))
}

func TestFetchDepartmentsGivesUpAfterSecond401(t *testing.T) {
	var deptCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/User/SecureAuth":
			json.NewEncoder(w).Encode(map[string]string{"token": "always-stale"})
		case "/Department":
			atomic.AddInt64(&deptCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.FetchDepartments(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&deptCalls))
}

func TestVerifyCredentialsDoesNotTouchTokenCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] == "jdoe" && body["password"] == "secret" {
			json.NewEncoder(w).Encode(map[string]string{"token": "user-token"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	require.NoError(t, c.VerifyCredentials(context.Background(), "jdoe", "secret"))
	require.Error(t, c.VerifyCredentials(context.Background(), "jdoe", "wrong"))

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.token)
}

func TestTestConnectionForcesFreshAuth(t *testing.T) {
	var authCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.TestConnection(context.Background()))
	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls))
}
