package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/licenser/internal/domain/license/keygen"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/infrastructure/config"
	"github.com/orris-inc/licenser/internal/infrastructure/migration"
	"github.com/orris-inc/licenser/internal/shared/authorization"
	sharedConfig "github.com/orris-inc/licenser/internal/shared/config"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))

	cfg := &config.Config{
		Server:    sharedConfig.ServerConfig{Mode: "test", BaseURL: "https://licenses.test", APIPrefix: "license-api"},
		Auth:      sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{Secret: "jwt-secret", Issuer: "licenser"}},
		Download:  sharedConfig.DownloadConfig{SigningSecret: "download-secret", StoragePath: t.TempDir()},
		RateLimit: sharedConfig.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
	}

	c, err := NewContainer(gdb, cfg, logger.NewNop())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)

	p, err := product.NewProduct(7, "Gallery Pro", "gallery-pro", "",
		product.LicenseConfig{Enabled: true, KeyType: keygen.TypeRandom, MaxActivations: 2},
		product.Readme{},
	)
	require.NoError(t, err)
	require.NoError(t, c.repos.productRepo.Upsert(context.Background(), p))
	return c
}

func (c *Container) token(t *testing.T, role authorization.Role) string {
	t.Helper()
	token, err := c.jwtSvc.Generate("ops", role, time.Hour)
	require.NoError(t, err)
	return token
}

func serveJSON(c *Container, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, req)
	return w
}

func TestContainer_HealthAndMetrics(t *testing.T) {
	c := newTestContainer(t)

	w := serveJSON(c, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	serveJSON(c, http.MethodGet, "/license-api/nope/", "", nil)
	w = serveJSON(c, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nope")
}

func TestContainer_AdminAccess(t *testing.T) {
	c := newTestContainer(t)
	admin := c.token(t, authorization.RoleAdmin)
	support := c.token(t, authorization.RoleSupport)

	tests := []struct {
		name       string
		method     string
		target     string
		token      string
		wantStatus int
	}{
		{"no token", http.MethodGet, "/admin/keys/NOPE", "", http.StatusUnauthorized},
		{"admin reads missing key", http.MethodGet, "/admin/keys/NOPE", admin, http.StatusNotFound},
		{"support reads missing key", http.MethodGet, "/admin/keys/NOPE", support, http.StatusNotFound},
		{"support cannot create keys", http.MethodPost, "/admin/keys", support, http.StatusForbidden},
		{"support cannot publish", http.MethodPost, "/admin/releases/1/publish", support, http.StatusForbidden},
		{"admin publishes missing release", http.MethodPost, "/admin/releases/1/publish", admin, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveJSON(c, tt.method, tt.target, tt.token, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestContainer_PurchaseThenActivate(t *testing.T) {
	c := newTestContainer(t)

	w := serveJSON(c, http.MethodPost, "/admin/purchases", c.token(t, authorization.RoleAdmin), map[string]any{
		"transaction_id": 42,
		"total":          4900,
		"customer":       map[string]any{"id": 3, "email": "jane@example.com", "name": "Jane"},
		"product_ids":    []uint{7},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Keys []struct {
				Key string `json:"key"`
			} `json:"keys"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Keys, 1)
	key := resp.Data.Keys[0].Key

	form := url.Values{"location": {"https://www.Example.com/"}}
	req := httptest.NewRequest(http.MethodPost, "/license-api/activate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(key, "")
	rec := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":true`)

	w = serveJSON(c, http.MethodGet, "/admin/keys/"+key+"/activations", c.token(t, authorization.RoleSupport), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "example.com")
}
