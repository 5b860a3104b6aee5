package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api"
	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
	"github.com/apexcoatings/backoffice/internal/testutil"
)

// testEnv wires a router over an in-memory database: no Redis, no OIDC,
// CSRF off.
type testEnv struct {
	db       *gorm.DB
	router   http.Handler
	sessions *auth.Sessions
	auth     *auth.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := testutil.NewTestSessions(t, db)
	authService := auth.NewService(db, "emergency-secret")
	shopService := shop.NewService(db, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:          db,
		Logger:      logger,
		Sessions:    sessions,
		AuthService: authService,
		ShopService: shopService,
	})

	return &testEnv{db: db, router: router, sessions: sessions, auth: authService}
}

func (env *testEnv) login(t *testing.T, role models.Role) string {
	t.Helper()
	user := testutil.CreateTestUser(t, env.db, role)
	return testutil.IssueTestSession(t, env.sessions, user)
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, testutil.AuthenticatedRequest(t, method, path, body, sessionID))
	return rr
}

func TestRouterAuthGates(t *testing.T) {
	env := setupEnv(t)

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/jobs", nil, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("health endpoints need no session", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/health", nil, "")
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("employee cannot see the job board", func(t *testing.T) {
		sessionID := env.login(t, models.RoleEmployee)

		rr := env.do(t, http.MethodGet, "/api/jobs", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("employee can work estimates", func(t *testing.T) {
		sessionID := env.login(t, models.RoleEmployee)

		rr := env.do(t, http.MethodGet, "/api/estimates", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("employee cannot convert an estimate", func(t *testing.T) {
		sessionID := env.login(t, models.RoleEmployee)
		est := testutil.CreateTestEstimate(t, env.db, "Gate Check", models.EstimateStatusApproved)

		rr := env.do(t, http.MethodPost, "/api/estimates/"+est.ID.String()+"/convert-to-job", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("read-only role can view but not write", func(t *testing.T) {
		sessionID := env.login(t, models.RoleReadOnly)

		rr := env.do(t, http.MethodGet, "/api/customers", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = env.do(t, http.MethodPost, "/api/customers", map[string]string{"name": "X"}, sessionID)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("only admin manages users", func(t *testing.T) {
		managerSession := env.login(t, models.RoleManager)
		rr := env.do(t, http.MethodGet, "/api/users", nil, managerSession)
		testutil.AssertStatus(t, rr, http.StatusForbidden)

		adminSession := env.login(t, models.RoleAdmin)
		rr = env.do(t, http.MethodGet, "/api/users", nil, adminSession)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})
}

func TestLocalLoginFlow(t *testing.T) {
	env := setupEnv(t)

	_, err := env.auth.CreateLocal(context.Background(), "walter", "secret-password", "Walter", models.RoleManager)
	require.NoError(t, err)

	t.Run("successful login sets the session cookie", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/login", map[string]string{
			"username": "walter",
			"password": "secret-password",
		}, "")
		testutil.AssertStatus(t, rr, http.StatusOK)

		var sessionID string
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_id" {
				sessionID = c.Value
				require.True(t, c.HttpOnly)
			}
		}
		require.NotEmpty(t, sessionID)

		var body map[string]interface{}
		testutil.ParseJSONResponse(t, rr, &body)
		require.Equal(t, "manager", body["role"])
		require.Equal(t, "local", body["session_kind"])

		// The cookie works against an authenticated route.
		rr = env.do(t, http.MethodGet, "/api/user", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("bad password is a generic 401", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/login", map[string]string{
			"username": "walter",
			"password": "nope",
		}, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)

		var body map[string]interface{}
		testutil.ParseJSONResponse(t, rr, &body)
		require.Equal(t, "invalid username or password", body["error"])
	})

	t.Run("unknown user gets the identical error", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/login", map[string]string{
			"username": "ghost",
			"password": "nope",
		}, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)

		var body map[string]interface{}
		testutil.ParseJSONResponse(t, rr, &body)
		require.Equal(t, "invalid username or password", body["error"])
	})

	t.Run("logout destroys the session", func(t *testing.T) {
		sessionID := env.login(t, models.RoleManager)

		rr := env.do(t, http.MethodPost, "/api/logout", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = env.do(t, http.MethodGet, "/api/user", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestAdminLoginFlow(t *testing.T) {
	env := setupEnv(t)

	t.Run("backdoor login grants every capability", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/login/admin", map[string]string{
			"username": "admin",
			"password": "emergency-secret",
		}, "")
		testutil.AssertStatus(t, rr, http.StatusOK)

		var body map[string]interface{}
		testutil.ParseJSONResponse(t, rr, &body)
		require.Equal(t, true, body["is_local_admin"])
		require.Equal(t, "local-admin", body["session_kind"])

		var sessionID string
		for _, c := range rr.Result().Cookies() {
			if c.Name == "session_id" {
				sessionID = c.Value
			}
		}
		require.NotEmpty(t, sessionID)

		rr = env.do(t, http.MethodGet, "/api/users", nil, sessionID)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("wrong backdoor password is rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/login/admin", map[string]string{
			"username": "admin",
			"password": "guess",
		}, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestOIDCRoutesWithoutProvider(t *testing.T) {
	env := setupEnv(t)

	rr := env.do(t, http.MethodGet, "/api/login", nil, "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = env.do(t, http.MethodGet, "/api/callback?state=x&code=y", nil, "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
