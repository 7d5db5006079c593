package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/licenser/internal/infrastructure/auth"
	"github.com/orris-inc/licenser/internal/infrastructure/ratelimit"
	"github.com/orris-inc/licenser/internal/shared/authorization"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w = serve(engine, req)
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestRequireAdmin(t *testing.T) {
	jwtService, err := auth.NewJWTService("secret", "licenser")
	require.NoError(t, err)
	token, err := jwtService.Generate("ops", authorization.RoleSupport, time.Hour)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService, logger.NewNop())
	engine := gin.New()
	engine.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyAdminSubject)+"/"+c.GetString(constants.ContextKeyAdminRole))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "ops/support"},
		{"lower-case scheme", "bearer " + token, http.StatusOK, "ops/support"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"basic scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

type fakeEnforcer struct {
	allowed map[string]bool
	err     error
}

func (f *fakeEnforcer) Enforce(subject, resource, action string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[subject+":"+resource+":"+action], nil
}

func TestRequirePermission(t *testing.T) {
	newEngine := func(enforcer PolicyEnforcer, role string) *gin.Engine {
		m := NewPermissionMiddleware(enforcer, logger.NewNop())
		engine := gin.New()
		engine.POST("/admin/keys", func(c *gin.Context) {
			if role != "" {
				c.Set(constants.ContextKeyAdminRole, role)
			}
			c.Next()
		}, m.RequirePermission("key", "create"), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return engine
	}

	enforcer := &fakeEnforcer{allowed: map[string]bool{"admin:key:create": true}}
	tests := []struct {
		name       string
		enforcer   PolicyEnforcer
		role       string
		wantStatus int
	}{
		{"allowed", enforcer, "admin", http.StatusCreated},
		{"denied", enforcer, "support", http.StatusForbidden},
		{"no role", enforcer, "", http.StatusUnauthorized},
		{"enforcer failure", &fakeEnforcer{err: stderrors.New("db down")}, "admin", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newEngine(tt.enforcer, tt.role), httptest.NewRequest(http.MethodPost, "/admin/keys", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLocalLimiter(ratelimit.Config{Requests: 2, Window: time.Hour})
	engine := gin.New()
	engine.Use(RateLimit(limiter, logger.NewNop()))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	newReq := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return req
	}

	assert.Equal(t, http.StatusOK, serve(engine, newReq("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, serve(engine, newReq("10.0.0.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, newReq("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, serve(engine, newReq("10.0.0.2")).Code)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://admin.example.com"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set("Origin", "https://admin.example.com")
	w := serve(engine, preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("Origin", "https://evil.example")
	w = serve(engine, other)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer secret")
	w := serve(engine, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgInternalServerError)

	headers := maskedHeaders(req)
	assert.Contains(t, headers, "Authorization: *")
}
