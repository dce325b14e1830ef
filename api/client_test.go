package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-client/api"
	wherrors "github.com/jrsteele09/go-warehouse-client/internal/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type recordedRequest struct {
	method        string
	path          string
	authorization string
	requestID     string
	body          map[string]any
}

type recorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedRequest, len(r.reqs))
	copy(out, r.reqs)
	return out
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *recorder) {
	t.Helper()
	seen := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method:        r.Method,
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get("X-Request-ID"),
		}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, rec)
		seen.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestClient_Login(t *testing.T) {
	srv, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   "h.p.s",
			"data":    map[string]any{"user_id": 1, "account": "admin", "role_id": 1, "role_name": "Admin"},
		})
	})

	c := api.New(srv.URL + "/api/")
	resp, err := c.Login(context.Background(), api.Credentials{Account: "admin", Password: "admin"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "h.p.s", resp.SessionToken())
	require.Equal(t, "Admin", resp.Data.RoleName)
	require.Equal(t, int64(1), resp.Data.UserID)

	reqs := seen.all()
	require.Len(t, reqs, 1)
	got := reqs[0]
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/api/auth/login", got.path)
	require.Equal(t, "admin", got.body["account"])
	require.Empty(t, got.authorization)
	require.NotEmpty(t, got.requestID)
}

func TestClient_LoginAccessTokenFallback(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "access_token": "a.b.c", "data": map[string]any{"account": "x"}})
	})

	resp, err := api.New(srv.URL).Login(context.Background(), api.Credentials{})
	require.NoError(t, err)
	require.Equal(t, "a.b.c", resp.SessionToken())
}

func TestClient_ErrorPayload(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
	})

	var hookCalls atomic.Int32
	c := api.New(srv.URL)
	c.SetUnauthorizedHandler(func(ctx context.Context) { hookCalls.Add(1) })

	_, err := c.Login(context.Background(), api.Credentials{Account: "admin", Password: "nope"})
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.ErrorIs(t, err, wherrors.ErrUnauthorized)
	require.Equal(t, "Invalid credentials", api.MessageOf(err, "Login failed"))

	// login failures never trigger the unauthorized hook
	require.Equal(t, int32(0), hookCalls.Load())
}

func TestClient_ErrorWithoutPayload(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := api.New(srv.URL).CurrentUser(context.Background())
	require.ErrorIs(t, err, wherrors.ErrInternal)
	require.Equal(t, "Internal Server Error", api.MessageOf(err, "fallback"))
}

func TestClient_MessageField(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Insufficient permissions"})
	})

	_, err := api.New(srv.URL).CurrentUser(context.Background())
	require.ErrorIs(t, err, wherrors.ErrForbidden)
	require.Equal(t, "Insufficient permissions", api.MessageOf(err, ""))
}

func TestClient_BearerToken(t *testing.T) {
	srv, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"account": "sales", "role_name": "Sales"}})
	})

	current := ""
	c := api.New(srv.URL)
	c.SetTokenSource(tokenSourceFunc(func() (*oauth2.Token, error) {
		if current == "" {
			return nil, api.ErrNoSessionToken
		}
		return &oauth2.Token{AccessToken: current, TokenType: "Bearer"}, nil
	}))

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)

	current = "h.p.s"
	resp, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Sales", resp.Data.RoleName)

	reqs := seen.all()
	require.Len(t, reqs, 2)
	require.Empty(t, reqs[0].authorization)
	require.Equal(t, "Bearer h.p.s", reqs[1].authorization)
	require.Equal(t, http.MethodGet, reqs[1].method)
	require.Equal(t, api.PathCurrentUser, reqs[1].path)
}

func TestClient_UnauthorizedHook(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid or expired token"})
	})

	var hookCalls atomic.Int32
	c := api.New(srv.URL)
	c.SetUnauthorizedHandler(func(ctx context.Context) { hookCalls.Add(1) })

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(1), hookCalls.Load())

	// logout is exempt so a hook that logs out cannot recurse
	_, err = c.Logout(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(1), hookCalls.Load())
}

func TestClient_Timeout(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	_, err := api.New(srv.URL, api.WithTimeout(50*time.Millisecond)).Logout(context.Background())
	require.Error(t, err)
}

func TestClient_Logout(t *testing.T) {
	srv, seen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
	})

	resp, err := api.New(srv.URL).Logout(context.Background())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, api.PathLogout, seen.all()[0].path)
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "fallback", api.MessageOf(nil, "fallback"))
	require.Equal(t, "boom", api.MessageOf(errors.New("boom"), "fallback"))
	require.Equal(t, "api error 400: ", api.MessageOf(&api.Error{StatusCode: 400}, "fallback"))
}
