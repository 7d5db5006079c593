package dispatch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	keys        map[string]*license.Key
	activations map[string]*license.Activation
	err         error
}

func (f *fakeAuth) ResolveKey(ctx context.Context, key string) (*license.Key, error) {
	if f.err != nil {
		return nil, f.err
	}
	k, ok := f.keys[key]
	if !ok {
		return nil, license.ErrKeyNotFound
	}
	return k, nil
}

func (f *fakeAuth) ResolveActivation(ctx context.Context, key *license.Key, rawID string) (*license.Activation, error) {
	a, ok := f.activations[rawID]
	if !ok || !a.BelongsTo(key.Key()) {
		return nil, license.ErrActivationNotFound
	}
	return a, nil
}

type endpointFunc struct {
	mode    AuthMode
	authErr *errors.APIError
	serve   func(ctx context.Context, req *Request) (any, error)
}

func (e endpointFunc) Serve(ctx context.Context, req *Request) (any, error) {
	return e.serve(ctx, req)
}

func (e endpointFunc) AuthMode() AuthMode {
	return e.mode
}

func (e endpointFunc) AuthError() *errors.APIError {
	return e.authErr
}

type plainEndpoint func(ctx context.Context, req *Request) (any, error)

func (p plainEndpoint) Serve(ctx context.Context, req *Request) (any, error) {
	return p(ctx, req)
}

type recordingObserver struct {
	actions  []string
	outcomes []string
}

func (r *recordingObserver) ObserveDispatch(action, outcome string, elapsed time.Duration) {
	r.actions = append(r.actions, action)
	r.outcomes = append(r.outcomes, outcome)
}

func mustKey(t *testing.T, key string, status vo.KeyStatus, expires *time.Time) *license.Key {
	t.Helper()
	k, err := license.NewKey(key, 1, 1, 1, 0, expires, status)
	require.NoError(t, err)
	return k
}

func newAuth(t *testing.T) *fakeAuth {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	auth := &fakeAuth{
		keys: map[string]*license.Key{
			"ACTIVE":   mustKey(t, "ACTIVE", "", nil),
			"DISABLED": mustKey(t, "DISABLED", vo.KeyStatusDisabled, nil),
			"EXPIRED":  mustKey(t, "EXPIRED", vo.KeyStatusExpired, &past),
			// not yet swept
			"LAPSED": mustKey(t, "LAPSED", "", &past),
		},
		activations: map[string]*license.Activation{},
	}
	active, err := license.ReconstructActivation(1, "ACTIVE", "a.example.com/", vo.ActivationStatusActive, time.Now(), nil, nil)
	require.NoError(t, err)
	gone, err := license.ReconstructActivation(2, "ACTIVE", "b.example.com/", vo.ActivationStatusDeactivated, time.Now(), nil, nil)
	require.NoError(t, err)
	auth.activations["1"] = active
	auth.activations["2"] = gone
	return auth
}

func newEngine(d *Dispatcher) *gin.Engine {
	r := gin.New()
	r.Any("/license-api/:action", d.Handle)
	r.Any("/license-api/:action/", d.Handle)
	return r
}

type response struct {
	Success bool            `json:"success"`
	Body    json.RawMessage `json:"body"`
	Error   *ErrorBody      `json:"error"`
}

func do(t *testing.T, engine http.Handler, method, target string, form url.Values, user, pass string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestDispatcher_UnknownAction(t *testing.T) {
	observer := &recordingObserver{}
	d := NewDispatcher(NewRegistry(), newAuth(t), logger.NewNop(), WithObserver(observer))

	w, resp := do(t, newEngine(d), http.MethodGet, "/license-api/nope/", nil, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 404, resp.Error.Code)
	assert.Equal(t, []string{"not_found"}, observer.outcomes)
}

func TestDispatcher_AuthModes(t *testing.T) {
	auth := newAuth(t)
	registry := NewRegistry()
	ok := func(ctx context.Context, req *Request) (any, error) {
		body := map[string]any{"key": req.Key.Key()}
		if req.Activation != nil {
			body["activation"] = req.Activation.ID()
		}
		return body, nil
	}
	registry.Register("exists", endpointFunc{mode: AuthExists, serve: ok})
	registry.Register("active", endpointFunc{mode: AuthActive, serve: ok})
	registry.Register("valid", endpointFunc{
		mode:    AuthValidActivation,
		authErr: errors.NewAuthAPIError(errors.CodeInvalidActivation, "invalid activation"),
		serve:   ok,
	})
	engine := newEngine(NewDispatcher(registry, auth, logger.NewNop()))

	tests := []struct {
		name       string
		action     string
		user, pass string
		wantStatus int
		wantCode   int
	}{
		{"exists accepts disabled key", "exists", "DISABLED", "", http.StatusOK, 0},
		{"exists rejects unknown key", "exists", "NOPE", "", http.StatusUnauthorized, errors.CodeInvalidKey},
		{"exists rejects missing credentials", "exists", "", "", http.StatusUnauthorized, errors.CodeInvalidKey},
		{"active accepts active key", "active", "ACTIVE", "", http.StatusOK, 0},
		{"active rejects disabled key", "active", "DISABLED", "", http.StatusUnauthorized, errors.CodeInvalidKey},
		{"active rejects expired key", "active", "EXPIRED", "", http.StatusUnauthorized, errors.CodeInvalidKey},
		{"active rejects lapsed key", "active", "LAPSED", "", http.StatusUnauthorized, errors.CodeInvalidKey},
		{"valid accepts own active activation", "valid", "ACTIVE", "1", http.StatusOK, 0},
		{"valid rejects deactivated activation", "valid", "ACTIVE", "2", http.StatusUnauthorized, errors.CodeInvalidActivation},
		{"valid rejects foreign activation", "valid", "DISABLED", "1", http.StatusUnauthorized, errors.CodeInvalidActivation},
		{"valid rejects garbage password", "valid", "ACTIVE", "x", http.StatusUnauthorized, errors.CodeInvalidActivation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, engine, http.MethodGet, "/license-api/"+tt.action+"/", nil, tt.user, tt.pass)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, resp.Success)
				assert.Empty(t, w.Header().Get("WWW-Authenticate"))
				return
			}
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.True(t, strings.HasPrefix(w.Header().Get("WWW-Authenticate"), `Basic realm="`))
		})
	}
}

func TestDispatcher_RealmText(t *testing.T) {
	registry := NewRegistry()
	registry.Register("active", endpointFunc{mode: AuthActive, serve: func(ctx context.Context, req *Request) (any, error) { return nil, nil }})
	engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))

	w, resp := do(t, engine, http.MethodGet, "/license-api/active", nil, "NOPE", "")
	assert.Equal(t, `Basic realm="Active license key required"`, w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "invalid license key", resp.Error.Message)
}

func TestDispatcher_ErrorEnvelope(t *testing.T) {
	registry := NewRegistry()
	registry.Register("domain", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return nil, errors.NewDomainAPIError(errors.CodeMaxActivations, "max activations reached")
	}))
	registry.Register("app", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return nil, errors.NewNotFoundError("release not found")
	}))
	registry.Register("boom", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return nil, stderrors.New("database on fire")
	}))
	registry.Register("internal", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return nil, errors.NewInternalError("failed to load", "secret detail")
	}))

	t.Run("api error", func(t *testing.T) {
		engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))
		w, resp := do(t, engine, http.MethodPost, "/license-api/domain/", url.Values{}, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.CodeMaxActivations, resp.Error.Code)
		assert.Equal(t, "max activations reached", resp.Error.Message)
	})

	t.Run("app error", func(t *testing.T) {
		engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))
		w, resp := do(t, engine, http.MethodGet, "/license-api/app/", nil, "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, http.StatusNotFound, resp.Error.Code)
	})

	t.Run("unknown error keeps the original message", func(t *testing.T) {
		engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))

		w, resp := do(t, engine, http.MethodGet, "/license-api/boom/", nil, "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, errors.CodeUnknown, resp.Error.Code)
		assert.Equal(t, "unknown error: database on fire", resp.Error.Message)

		w, resp = do(t, engine, http.MethodGet, "/license-api/internal/", nil, "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, http.StatusInternalServerError, resp.Error.Code)
		assert.Equal(t, "unknown error: failed to load", resp.Error.Message)
		assert.NotContains(t, resp.Error.Message, "secret detail")
	})

	t.Run("debug adds internal details", func(t *testing.T) {
		engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop(), WithDebug(true)))
		_, resp := do(t, engine, http.MethodGet, "/license-api/internal/", nil, "", "")
		assert.Equal(t, "unknown error: failed to load (secret detail)", resp.Error.Message)
	})

	t.Run("resolver failure is unknown", func(t *testing.T) {
		guarded := NewRegistry()
		guarded.Register("info", endpointFunc{mode: AuthExists, serve: func(ctx context.Context, req *Request) (any, error) { return nil, nil }})
		auth := newAuth(t)
		auth.err = stderrors.New("connection refused")
		engine := newEngine(NewDispatcher(guarded, auth, logger.NewNop()))

		w, resp := do(t, engine, http.MethodGet, "/license-api/info/", nil, "ACTIVE", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, errors.CodeUnknown, resp.Error.Code)
	})
}

func TestDispatcher_RequestValues(t *testing.T) {
	registry := NewRegistry()
	registry.Register("echo", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return map[string]string{
			"method":   req.Method,
			"get":      req.Get("q"),
			"post":     req.Post("location"),
			"fallback": req.Value("q"),
		}, nil
	}))
	engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))

	w, resp := do(t, engine, http.MethodPost, "/license-api/ECHO/?q=%20hello%20", url.Values{"location": {"example.com"}}, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, map[string]string{
		"method":   "POST",
		"get":      "hello",
		"post":     "example.com",
		"fallback": "hello",
	}, body)
}

func TestDispatcher_RawResponse(t *testing.T) {
	registry := NewRegistry()
	registry.Register("changelog", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return HTMLResponse{Body: "<h2>1.0.0</h2>"}, nil
	}))
	observer := &recordingObserver{}
	engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop(), WithObserver(observer)))

	w, _ := do(t, engine, http.MethodGet, "/license-api/changelog/", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h2>1.0.0</h2>", w.Body.String())
	assert.Equal(t, []string{"raw"}, observer.outcomes)
	assert.Equal(t, []string{"changelog"}, observer.actions)
}

func TestDispatcher_FileResponse(t *testing.T) {
	path := t.TempDir() + "/widget-1.0.0.zip"
	require.NoError(t, writeFile(path, "PK-data"))

	registry := NewRegistry()
	registry.Register("download", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return FileResponse{Path: path}, nil
	}))
	registry.Register("missing", plainEndpoint(func(ctx context.Context, req *Request) (any, error) {
		return FileResponse{Path: path + ".gone"}, nil
	}))
	engine := newEngine(NewDispatcher(registry, newAuth(t), logger.NewNop()))

	w, _ := do(t, engine, http.MethodGet, "/license-api/download/", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=widget-1.0.0.zip`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-data", w.Body.String())

	w, resp := do(t, engine, http.MethodGet, "/license-api/missing/", nil, "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.CodeUnknown, resp.Error.Code)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("Activate", plainEndpoint(nil))
	r.Register("info", plainEndpoint(nil))

	_, ok := r.Lookup("/activate/")
	assert.True(t, ok)
	assert.Equal(t, []string{"activate", "info"}, r.Actions())
	assert.Panics(t, func() { r.Register("INFO", plainEndpoint(nil)) })
}
