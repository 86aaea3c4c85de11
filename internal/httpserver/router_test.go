package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/middleware"
	"github.com/Skotchmaster/skz_roster/internal/service"
	"github.com/Skotchmaster/skz_roster/internal/testdb"
	"github.com/Skotchmaster/skz_roster/pkg/hash"
	"github.com/Skotchmaster/skz_roster/pkg/tokens"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	r := testdb.New(t)
	codec, err := tokens.NewCodec(tokens.Config{AccessSecret: []byte("test-jwt-secret")})
	require.NoError(t, err)
	hasher := &hash.Bcrypt{Cost: bcrypt.MinCost}
	pub := events.Nop{}

	e := echo.New()
	Register(e, &Deps{
		Auth:   &AuthHTTP{Svc: &service.AccountService{Repo: r, Hasher: hasher, Tokens: codec, Events: pub}},
		Users:  &UsersHTTP{Svc: &service.UserService{Repo: r, Hasher: hasher, Events: pub}},
		Roster: &RosterHTTP{Svc: &service.RosterService{Repo: r, Events: pub}},
		AuthMW: middleware.NewAuth(codec),
		Ready:  r.Ping,
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (s *testServer) login(username, password string) (string, string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, code, body)
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func TestScenario_AliceAdminBobUser(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw1", "email": "alice@x.com"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "User registered successfully", body["message"])
	alice := body["user"].(map[string]any)
	assert.Equal(t, float64(1), alice["id"])
	assert.Equal(t, "admin", alice["role"])
	assert.NotContains(t, alice, "passwordHash")

	code, body = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob", "password": "pw2", "email": "bob@x.com"})
	require.Equal(t, http.StatusCreated, code)
	bob := body["user"].(map[string]any)
	assert.Equal(t, float64(2), bob["id"])
	assert.Equal(t, "user", bob["role"])

	bobAccess, bobRefresh := s.login("bob", "pw2")
	require.NotEmpty(t, bobRefresh)

	code, body = s.do(http.MethodGet, "/api/users", bobAccess, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access forbidden", body["error"])

	aliceAccess, _ := s.login("alice", "pw1")
	code, _ = s.do(http.MethodGet, "/api/users", aliceAccess, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodGet, "/api/auth/me", bobAccess, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bob@x.com", body["email"])
	assert.Contains(t, body, "createdAt")
}

func TestAuthRoutes_Errors(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw1", "email": "alice@x.com"})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		msg    string
	}{
		{name: "register missing field", method: http.MethodPost, path: "/api/auth/register", body: map[string]string{"username": "x"}, status: 400, msg: "Username, password, and email are required"},
		{name: "register duplicate", method: http.MethodPost, path: "/api/auth/register", body: map[string]string{"username": "alice", "password": "p", "email": "z@x.com"}, status: 409, msg: "Username already exists"},
		{name: "login wrong password", method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"username": "alice", "password": "bad"}, status: 401, msg: "Invalid credentials"},
		{name: "login unknown user", method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"username": "ghost", "password": "bad"}, status: 401, msg: "Invalid credentials"},
		{name: "refresh missing", method: http.MethodPost, path: "/api/auth/refresh", body: map[string]string{}, status: 400, msg: "Refresh token is required"},
		{name: "refresh garbage", method: http.MethodPost, path: "/api/auth/refresh", body: map[string]string{"refreshToken": "garbage"}, status: 403, msg: "Invalid or expired refresh token"},
		{name: "me without token", method: http.MethodGet, path: "/api/auth/me", status: 401, msg: "Access token required"},
		{name: "me with garbage token", method: http.MethodGet, path: "/api/auth/me", token: "garbage", status: 403, msg: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestRefreshRoute(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw1", "email": "alice@x.com"})
	access, refresh := s.login("alice", "pw1")

	code, body := s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body["accessToken"])

	code, _ = s.do(http.MethodGet, "/api/auth/me", body["accessToken"].(string), nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodGet, "/api/auth/me", refresh, nil)
	assert.Equal(t, http.StatusForbidden, code, "refresh tokens are not access tokens")
	assert.Equal(t, "Invalid token", body["error"])

	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": access})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUserRoutes_Ownership(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw1", "email": "alice@x.com"})
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob", "password": "pw2", "email": "bob@x.com"})
	aliceAccess, _ := s.login("alice", "pw1")
	bobAccess, _ := s.login("bob", "pw2")

	code, _ := s.do(http.MethodGet, "/api/users/2", bobAccess, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body := s.do(http.MethodGet, "/api/users/1", bobAccess, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You can only access your own resources", body["error"])

	code, body = s.do(http.MethodGet, "/api/users/abc", bobAccess, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid ID parameter", body["error"])

	code, body = s.do(http.MethodPut, "/api/users/2", bobAccess, map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Username already taken", body["error"])

	code, body = s.do(http.MethodPut, "/api/users/2", bobAccess, map[string]string{"email": "bobby@x.com"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User updated successfully", body["message"])

	code, _ = s.do(http.MethodDelete, "/api/users/2", bobAccess, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, "/api/users/1", aliceAccess, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodDelete, "/api/users/2", aliceAccess, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User deleted successfully", body["message"])

	code, _ = s.do(http.MethodGet, "/api/auth/me", bobAccess, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRosterRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "pw1", "email": "alice@x.com"})
	s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob", "password": "pw2", "email": "bob@x.com"})
	admin, _ := s.login("alice", "pw1")
	user, _ := s.login("bob", "pw2")

	code, _ := s.do(http.MethodGet, "/api/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/members", user, map[string]string{"stageName": "Hyunjin"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := s.do(http.MethodPost, "/api/members", admin, map[string]string{"stageName": "Hyunjin", "firstName": "Hyunjin", "lastName": "Hwang", "skzoo": "Jiniret"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Member created successfully", body["message"])
	member := body["member"].(map[string]any)
	assert.Equal(t, float64(1), member["id"])

	code, body = s.do(http.MethodGet, "/api/members/1", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hwang", body["lastName"])

	code, body = s.do(http.MethodGet, "/api/members/9", user, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Member not found", body["error"])

	code, _ = s.do(http.MethodGet, "/api/members/search?q=hyun", user, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodPost, "/api/pets", admin, map[string]any{"name": "Kkami", "type": "dog", "owner": 1})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Pet created successfully", body["message"])

	code, body = s.do(http.MethodDelete, "/api/members/1", admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Member still owns pets", body["error"])

	code, _ = s.do(http.MethodPost, "/api/positions", admin, map[string]string{"name": "Main Dancer"})
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(http.MethodPost, "/api/positions/1/members/1", admin, nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Member added to position successfully", body["message"])

	code, body = s.do(http.MethodGet, "/api/positions/1/members", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["positionId"])
	assert.Equal(t, []any{float64(1)}, body["memberIds"])

	code, _ = s.do(http.MethodPost, "/api/positions/1/members/1", admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/api/positions/1/members/1", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodDelete, "/api/positions/1/members/1", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Member not in this position", body["error"])

	code, body = s.do(http.MethodPost, "/api/sub-units", admin, map[string]string{"name": "Danceracha"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Sub-unit created successfully", body["message"])

	code, _ = s.do(http.MethodPost, "/api/sub-units/1/members/1", admin, nil)
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(http.MethodGet, "/api/sub-units/1/members", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["subUnitId"])

	code, body = s.do(http.MethodGet, "/api/positions/abc", user, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid position ID", body["error"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
