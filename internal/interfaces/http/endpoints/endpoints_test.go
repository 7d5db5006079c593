package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	releaseUsecases "github.com/orris-inc/licenser/internal/application/release/usecases"
	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/license/keygen"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/infrastructure/auth"
	"github.com/orris-inc/licenser/internal/infrastructure/migration"
	"github.com/orris-inc/licenser/internal/infrastructure/repository"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/db"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
	"github.com/orris-inc/licenser/internal/shared/services/markdown"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testProductID     = 7
	testCustomerID    = 3
	testTransactionID = 42
	testKey           = "ABCD-1234"
)

type harness struct {
	t           *testing.T
	engine      *gin.Engine
	keyRepo     license.KeyRepository
	releaseRepo release.Repository
	updateRepo  release.UpdateRepository
	createRel   *releaseUsecases.CreateReleaseUseCase
	publishRel  *releaseUsecases.PublishReleaseUseCase
	storage     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))

	log := logger.NewNop()
	keyRepo := repository.NewLicenseKeyRepository(gdb, log)
	activationRepo := repository.NewActivationRepository(gdb, log)
	productRepo := repository.NewProductRepository(gdb, log)
	customerRepo := repository.NewCustomerRepository(gdb, log)
	transactionRepo := repository.NewTransactionRepository(gdb, log)
	releaseRepo := repository.NewReleaseRepository(gdb, log)
	updateRepo := repository.NewReleaseUpdateRepository(gdb, log)
	txManager := db.NewTransactionManager(gdb)
	ctx := context.Background()

	p, err := product.NewProduct(testProductID, "Gallery Pro", "gallery-pro", "A **fast** gallery.",
		product.LicenseConfig{Enabled: true, KeyType: keygen.TypeRandom, MaxActivations: 1, ExpireAfterDays: 365},
		product.Readme{Author: "Acme", AuthorURL: "https://acme.test", Homepage: "https://acme.test/gallery", Requires: "6.0", Tested: "6.4"},
	)
	require.NoError(t, err)
	require.NoError(t, productRepo.Upsert(ctx, p))
	customer, err := commerce.NewCustomer(testCustomerID, "jane@example.com", "Jane")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Upsert(ctx, customer))
	txn, err := commerce.NewTransaction(testTransactionID, testCustomerID, 4900)
	require.NoError(t, err)
	require.NoError(t, transactionRepo.Upsert(ctx, txn))

	createKey := licenseUsecases.NewCreateKeyUseCase(keyRepo, productRepo, customerRepo, transactionRepo,
		keygen.NewDefaultRegistry(productRepo), txManager, log)
	max := 1
	_, err = createKey.Execute(ctx, licenseUsecases.CreateKeyCommand{
		Key:           testKey,
		ProductID:     testProductID,
		CustomerID:    testCustomerID,
		TransactionID: testTransactionID,
		Max:           &max,
	})
	require.NoError(t, err)

	signer, err := auth.NewDownloadSigner("test-secret", 24*time.Hour)
	require.NoError(t, err)
	renderer := markdown.NewRenderer()
	storage := t.TempDir()

	authenticate := licenseUsecases.NewAuthenticateUseCase(keyRepo, activationRepo, log)
	latest := releaseUsecases.NewGetLatestReleaseUseCase(releaseRepo, nil, log)
	changelog := releaseUsecases.NewCompileChangelogUseCase(releaseRepo, renderer, releaseUsecases.DefaultChangelogLimit, log)
	recorder := releaseUsecases.NewRecordUpdateUseCase(activationRepo, releaseRepo, updateRepo, txManager, log)
	links := NewDownloadLinks(signer, "https://licenses.test", "license-api")

	set := &Set{
		Activate:   NewActivateEndpoint(licenseUsecases.NewActivateUseCase(activationRepo, releaseRepo, log)),
		Deactivate: NewDeactivateEndpoint(licenseUsecases.NewDeactivateUseCase(activationRepo, log)),
		Info:       NewInfoEndpoint(licenseUsecases.NewGetKeyUseCase(keyRepo, activationRepo, log), productRepo, customerRepo, transactionRepo),
		Version:    NewVersionEndpoint(authenticate, latest, links),
		Product:    NewProductEndpoint(productRepo, latest, changelog, renderer, links),
		Changelog:  NewChangelogEndpoint(changelog),
		Download:   NewDownloadEndpoint(signer, authenticate, activationRepo, releaseRepo, recorder, storage, log),
	}
	registry := dispatch.NewRegistry()
	set.Register(registry)

	engine := gin.New()
	d := dispatch.NewDispatcher(registry, authenticate, log)
	engine.Any("/license-api/:action", d.Handle)
	engine.Any("/license-api/:action/", d.Handle)

	return &harness{
		t:           t,
		engine:      engine,
		keyRepo:     keyRepo,
		releaseRepo: releaseRepo,
		updateRepo:  updateRepo,
		createRel:   releaseUsecases.NewCreateReleaseUseCase(releaseRepo, productRepo, log),
		publishRel:  releaseUsecases.NewPublishReleaseUseCase(releaseRepo, nil, nil, log),
		storage:     storage,
	}
}

type envelope struct {
	Success bool                `json:"success"`
	Body    json.RawMessage     `json:"body"`
	Error   *dispatch.ErrorBody `json:"error"`
}

func (h *harness) call(method, target string, form url.Values, user, pass string) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()
	body := ""
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (h *harness) activate(location string) (*httptest.ResponseRecorder, envelope) {
	return h.call(http.MethodPost, "/license-api/activate/", url.Values{"location": {location}}, testKey, "")
}

func (h *harness) publish(version, body string) uint {
	h.t.Helper()
	ctx := context.Background()
	download := filepath.Join("gallery-pro", "gallery-pro-"+version+".zip")
	require.NoError(h.t, os.MkdirAll(filepath.Join(h.storage, "gallery-pro"), 0o755))
	require.NoError(h.t, os.WriteFile(filepath.Join(h.storage, download), []byte(body), 0o644))

	rel, err := h.createRel.Execute(ctx, releaseUsecases.CreateReleaseCommand{
		ProductID: testProductID,
		Version:   version,
		Download:  download,
		Type:      "minor",
		Changelog: "- Faster thumbnails\n- Fix lightbox",
	})
	require.NoError(h.t, err)
	_, err = h.publishRel.Execute(ctx, rel.ID)
	require.NoError(h.t, err)
	return rel.ID
}

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func productEntry(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	list, ok := decode(t, raw)["list"].(map[string]any)
	require.True(t, ok)
	entry, ok := list[strconv.Itoa(testProductID)].(map[string]any)
	require.True(t, ok)
	return entry
}

func TestActivationScenario(t *testing.T) {
	h := newHarness(t)

	w, env := h.activate("http://MyStore.COM/")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	first := decode(t, env.Body)
	assert.Equal(t, "http://mystore.com/", first["location"])
	assert.Equal(t, "active", first["status"])
	assert.EqualValues(t, 1, first["id"])

	w, env = h.activate("http://MyStore.COM/")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	assert.EqualValues(t, first["id"], decode(t, env.Body)["id"])

	w, env = h.activate("https://other.example/")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, errors.CodeMaxActivations, env.Error.Code)
	assert.Equal(t, "max activations reached", env.Error.Message)
}

func TestActivateErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		form     url.Values
		user     string
		status   int
		wantCode int
	}{
		{"missing location", url.Values{}, testKey, http.StatusBadRequest, errors.CodeNoLocation},
		{"invalid location", url.Values{"location": {"http://"}}, testKey, http.StatusBadRequest, errors.CodeInvalidLocation},
		{"unknown key", url.Values{"location": {"example.com"}}, "NOPE", http.StatusUnauthorized, errors.CodeInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := h.call(http.MethodPost, "/license-api/activate/", tt.form, tt.user, "")
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestActivateRejectsDisabledKey(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	k, err := h.keyRepo.GetByKey(ctx, testKey)
	require.NoError(t, err)
	require.NoError(t, k.Disable(time.Now()))
	require.NoError(t, h.keyRepo.Update(ctx, k))

	w, _ := h.activate("example.com")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Active license key required")

	// info only needs the key to exist
	w, env := h.call(http.MethodGet, "/license-api/info/", nil, testKey, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disabled", decode(t, env.Body)["status"])
}

func TestDeactivate(t *testing.T) {
	h := newHarness(t)
	_, env := h.activate("example.com")
	id := decode(t, env.Body)["id"].(float64)

	w, env := h.call(http.MethodPost, "/license-api/deactivate/", url.Values{}, testKey, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeNoActivationID, env.Error.Code)

	w, env = h.call(http.MethodPost, "/license-api/deactivate/", url.Values{"id": {"999"}}, testKey, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidActivation, env.Error.Code)

	w, env = h.call(http.MethodPost, "/license-api/deactivate/", url.Values{"id": {strconv.Itoa(int(id))}}, testKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, env.Body)
	assert.Equal(t, "deactivated", body["status"])
	assert.NotNil(t, body["deactivated_at"])

	// the freed slot can be taken by another location
	w, _ = h.activate("other.example")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInfo(t *testing.T) {
	h := newHarness(t)
	h.activate("example.com")

	w, env := h.call(http.MethodGet, "/license-api/info/", nil, testKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, env.Body)
	assert.Equal(t, testKey, body["key"])
	assert.Equal(t, "active", body["status"])
	assert.EqualValues(t, 1, body["max"])
	assert.EqualValues(t, 1, body["activations"])
	assert.NotNil(t, body["expires"])

	prod := body["product"].(map[string]any)
	assert.Equal(t, "Gallery Pro", prod["name"])
	assert.Equal(t, "gallery-pro", prod["slug"])
	customer := body["customer"].(map[string]any)
	assert.Equal(t, "jane@example.com", customer["email"])
	txn := body["transaction"].(map[string]any)
	assert.EqualValues(t, testTransactionID, txn["id"])
	assert.EqualValues(t, 4900, txn["total"])
}

func TestVersionAndDownload(t *testing.T) {
	h := newHarness(t)
	_, env := h.activate("example.com")
	activationID := strconv.Itoa(int(decode(t, env.Body)["id"].(float64)))

	w, env := h.call(http.MethodGet, "/license-api/version/", nil, testKey, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeNoActivationID, env.Error.Code)

	w, env = h.call(http.MethodGet, "/license-api/version/?activation_id=999", nil, testKey, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidActivation, env.Error.Code)

	w, env = h.call(http.MethodGet, "/license-api/version/?activation_id="+activationID, nil, testKey, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeNoRelease, env.Error.Code)

	releaseID := h.publish("1.1.0", "zip-bytes")

	w, env = h.call(http.MethodGet, "/license-api/version/?activation_id="+activationID, nil, testKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	entry := productEntry(t, env.Body)
	assert.Equal(t, "1.1.0", entry["version"])
	assert.Equal(t, "minor", entry["type"])
	assert.Equal(t, "Faster thumbnails", entry["upgrade_notice"])
	assert.NotEmpty(t, entry["expires"])

	packageURL, err := url.Parse(entry["package"].(string))
	require.NoError(t, err)
	assert.Equal(t, "licenses.test", packageURL.Host)
	assert.Equal(t, "/license-api/download/", packageURL.Path)

	w, _ = h.call(http.MethodGet, packageURL.RequestURI(), nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "zip-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "gallery-pro-1.1.0.zip")

	id, err := strconv.ParseUint(activationID, 10, 64)
	require.NoError(t, err)
	updates, err := h.updateRepo.ListByActivation(context.Background(), uint(id))
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, releaseID, updates[0].ReleaseID())

	// a second download of the same release is not another update
	w, _ = h.call(http.MethodGet, packageURL.RequestURI(), nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	updates, err = h.updateRepo.ListByActivation(context.Background(), uint(id))
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestDownloadRejectsBadGrants(t *testing.T) {
	h := newHarness(t)
	_, env := h.activate("example.com")
	activationID := strconv.Itoa(int(decode(t, env.Body)["id"].(float64)))
	h.publish("1.0.0", "pkg")

	_, env = h.call(http.MethodGet, "/license-api/version/?activation_id="+activationID, nil, testKey, "")
	packageURL, err := url.Parse(productEntry(t, env.Body)["package"].(string))
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		setup  func()
	}{
		{"missing token", "/license-api/download/", nil},
		{"forged token", "/license-api/download/?token=not-a-jwt", nil},
		{"deactivated activation", packageURL.RequestURI(), func() {
			h.call(http.MethodPost, "/license-api/deactivate/", url.Values{"id": {activationID}}, testKey, "")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			w, env := h.call(http.MethodGet, tt.target, nil, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, errors.CodeInvalidDownload, env.Error.Code)
		})
	}
}

func TestProduct(t *testing.T) {
	h := newHarness(t)
	_, env := h.activate("example.com")
	activationID := strconv.Itoa(int(decode(t, env.Body)["id"].(float64)))

	w, env := h.call(http.MethodGet, "/license-api/product/", nil, testKey, "999")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errors.CodeInvalidActivation, env.Error.Code)

	w, env = h.call(http.MethodGet, "/license-api/product/", nil, testKey, activationID)
	require.Equal(t, http.StatusOK, w.Code)
	entry := productEntry(t, env.Body)
	assert.Equal(t, "", entry["version"])
	assert.Equal(t, "", entry["package_url"])

	h.publish("2.0.0", "pkg")

	w, env = h.call(http.MethodGet, "/license-api/product/", nil, testKey, activationID)
	require.Equal(t, http.StatusOK, w.Code)
	entry = productEntry(t, env.Body)
	assert.Equal(t, "Gallery Pro", entry["name"])
	assert.Equal(t, "2.0.0", entry["version"])
	assert.NotEmpty(t, entry["last_updated"])
	assert.Contains(t, entry["package_url"], "/license-api/download/?token=")
	assert.Equal(t, `<a href="https://acme.test">Acme</a>`, entry["author"])
	assert.Equal(t, "6.0", entry["requires"])

	sections := entry["sections"].(map[string]any)
	assert.Contains(t, sections["description"], "<strong>fast</strong>")
	assert.Contains(t, sections["changelog"], "2.0.0")
	banners := entry["banners"].(map[string]any)
	assert.Contains(t, banners, "low")
}

func TestChangelog(t *testing.T) {
	h := newHarness(t)
	h.publish("1.0.0", "pkg")
	h.publish("1.1.0", "pkg")

	w, _ := h.call(http.MethodGet, "/license-api/changelog/", nil, testKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	html := w.Body.String()
	newer := strings.Index(html, "1.1.0")
	older := strings.Index(html, "1.0.0")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older)
	assert.Contains(t, html, "<li>Faster thumbnails</li>")
}

func TestUpgradeNotice(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"\n\n  \n", ""},
		{"## Security fix\nmore", "Security fix"},
		{"* Faster", "Faster"},
		{"plain line", "plain line"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, upgradeNotice(tt.in), tt.in)
	}
}
