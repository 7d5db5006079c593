package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	licensedto "github.com/orris-inc/licenser/internal/application/license/dto"
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateKeyUC struct {
	cmd    licenseUsecases.CreateKeyCommand
	result *license.Key
	err    error
}

func (m *mockCreateKeyUC) Execute(ctx context.Context, cmd licenseUsecases.CreateKeyCommand) (*license.Key, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockGetKeyUC struct {
	result *licensedto.KeyDTO
	err    error
}

func (m *mockGetKeyUC) Execute(ctx context.Context, key string) (*licensedto.KeyDTO, error) {
	return m.result, m.err
}

func (m *mockGetKeyUC) Describe(ctx context.Context, k *license.Key) (*licensedto.KeyDTO, error) {
	if m.err != nil {
		return nil, m.err
	}
	return licensedto.ToKeyDTO(k, 1), nil
}

type mockUpdateKeyUC struct {
	cmd    licenseUsecases.UpdateKeyCommand
	result *license.Key
	err    error
}

func (m *mockUpdateKeyUC) Execute(ctx context.Context, cmd licenseUsecases.UpdateKeyCommand) (*license.Key, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockRenewKeyUC struct {
	cmd    licenseUsecases.RenewKeyCommand
	result *licenseUsecases.RenewKeyResult
	err    error
}

func (m *mockRenewKeyUC) Execute(ctx context.Context, cmd licenseUsecases.RenewKeyCommand) (*licenseUsecases.RenewKeyResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockListRenewalsUC struct {
	result []*licensedto.RenewalDTO
	err    error
}

func (m *mockListRenewalsUC) Execute(ctx context.Context, key string) ([]*licensedto.RenewalDTO, error) {
	return m.result, m.err
}

type mockListActivationsUC struct {
	status string
	result []*licensedto.ActivationDTO
	err    error
}

func (m *mockListActivationsUC) Execute(ctx context.Context, key, status string) ([]*licensedto.ActivationDTO, error) {
	m.status = status
	return m.result, m.err
}

type mockDeactivateUC struct {
	result *license.Activation
	err    error
}

func (m *mockDeactivateUC) ExecuteByID(ctx context.Context, activationID uint) (*license.Activation, error) {
	return m.result, m.err
}

// =====================================================================
// Helpers
// =====================================================================

func newTestKey(t *testing.T) *license.Key {
	t.Helper()
	k, err := license.NewKey("ABCD-1234", 10, 5, 100, 2, nil, "")
	require.NoError(t, err)
	return k
}

func decodeData(t *testing.T, resp testutil.APIResponse, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, target))
}

// =====================================================================
// Tests
// =====================================================================

func TestKeyHandler_CreateKey(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		ucErr      error
		wantStatus int
		wantType   string
	}{
		{
			name:       "created",
			body:       map[string]any{"key": " ABCD-1234 ", "product_id": 10, "customer_id": 5, "transaction_id": 100, "max": 2},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing product",
			body:       map[string]any{"customer_id": 5, "transaction_id": 100},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeValidation),
		},
		{
			name:       "bad status",
			body:       map[string]any{"product_id": 10, "customer_id": 5, "transaction_id": 100, "status": "paused"},
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeValidation),
		},
		{
			name:       "malformed json",
			body:       `{"product_id":`,
			wantStatus: http.StatusBadRequest,
			wantType:   string(errors.ErrorTypeValidation),
		},
		{
			name:       "duplicate key",
			body:       map[string]any{"key": "ABCD-1234", "product_id": 10, "customer_id": 5, "transaction_id": 100},
			ucErr:      errors.NewConflictError("license key already exists"),
			wantStatus: http.StatusConflict,
			wantType:   string(errors.ErrorTypeConflict),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockCreateKeyUC{result: newTestKey(t), err: tt.ucErr}
			h := &KeyHandler{createKeyUC: uc, logger: logger.NewNop()}

			c, w := testutil.NewTestContext(http.MethodPost, "/admin/keys", tt.body)
			testutil.SetAdminContext(c, "ops", "admin")
			h.CreateKey(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			if tt.wantType != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantType, resp.Error.Type)
				return
			}

			assert.True(t, resp.Success)
			assert.Equal(t, "ABCD-1234", uc.cmd.Key)
			require.NotNil(t, uc.cmd.Max)
			assert.Equal(t, 2, *uc.cmd.Max)

			var dto licensedto.KeyDTO
			decodeData(t, resp, &dto)
			assert.Equal(t, "ABCD-1234", dto.Key)
			assert.Equal(t, "active", dto.Status)
		})
	}
}

func TestKeyHandler_GetKey(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := &KeyHandler{getKeyUC: &mockGetKeyUC{result: licensedto.ToKeyDTO(newTestKey(t), 1)}, logger: logger.NewNop()}
		c, w := testutil.NewTestContext(http.MethodGet, "/admin/keys/ABCD-1234", nil)
		testutil.SetURLParam(c, "key", "ABCD-1234")
		h.GetKey(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var dto licensedto.KeyDTO
		decodeData(t, resp, &dto)
		assert.EqualValues(t, 1, dto.Activations)
	})

	t.Run("not found", func(t *testing.T) {
		h := &KeyHandler{getKeyUC: &mockGetKeyUC{err: errors.NewNotFoundError("license key not found")}, logger: logger.NewNop()}
		c, w := testutil.NewTestContext(http.MethodGet, "/admin/keys/NOPE", nil)
		testutil.SetURLParam(c, "key", "NOPE")
		h.GetKey(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestKeyHandler_UpdateKey(t *testing.T) {
	key := newTestKey(t)
	update := &mockUpdateKeyUC{result: key}
	h := &KeyHandler{updateKeyUC: update, getKeyUC: &mockGetKeyUC{}, logger: logger.NewNop()}

	c, w := testutil.NewTestContext(http.MethodPatch, "/admin/keys/ABCD-1234", map[string]any{"status": "disabled", "never_expires": true})
	testutil.SetURLParam(c, "key", "ABCD-1234")
	h.UpdateKey(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABCD-1234", update.cmd.Key)
	require.NotNil(t, update.cmd.Status)
	assert.Equal(t, "disabled", *update.cmd.Status)
	assert.True(t, update.cmd.NeverExpires)
	assert.Nil(t, update.cmd.Max)

	c, w = testutil.NewTestContext(http.MethodPatch, "/admin/keys/ABCD-1234", map[string]any{"max": -1})
	testutil.SetURLParam(c, "key", "ABCD-1234")
	h.UpdateKey(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKeyHandler_RenewKey(t *testing.T) {
	key := newTestKey(t)
	renewal, err := license.NewRenewal(key.Key(), nil, nil, 1500, time.Now())
	require.NoError(t, err)
	renew := &mockRenewKeyUC{result: &licenseUsecases.RenewKeyResult{Key: key, Renewal: renewal}}
	h := &KeyHandler{renewKeyUC: renew, getKeyUC: &mockGetKeyUC{}, logger: logger.NewNop()}

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/keys/ABCD-1234/renew", map[string]any{"days": 30, "revenue": 1500})
	testutil.SetURLParam(c, "key", "ABCD-1234")
	h.RenewKey(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, renew.cmd.Days)
	assert.EqualValues(t, 1500, renew.cmd.Revenue)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body RenewKeyResponse
	decodeData(t, resp, &body)
	require.NotNil(t, body.Key)
	require.NotNil(t, body.Renewal)
	assert.EqualValues(t, 1500, body.Renewal.Revenue)
}

func TestKeyHandler_ListActivations(t *testing.T) {
	list := &mockListActivationsUC{result: []*licensedto.ActivationDTO{{ID: 1, Location: "http://mystore.com/", Status: "active"}}}
	h := &KeyHandler{listActivationsUC: list, logger: logger.NewNop()}

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/keys/ABCD-1234/activations", nil)
	testutil.SetURLParam(c, "key", "ABCD-1234")
	testutil.SetQueryParams(c, map[string]string{"status": "active"})
	h.ListActivations(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", list.status)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var items []licensedto.ActivationDTO
	decodeData(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "http://mystore.com/", items[0].Location)
}

func TestKeyHandler_ListRenewals(t *testing.T) {
	h := &KeyHandler{listRenewalsUC: &mockListRenewalsUC{err: errors.NewNotFoundError("license key not found")}, logger: logger.NewNop()}
	c, w := testutil.NewTestContext(http.MethodGet, "/admin/keys/NOPE/renewals", nil)
	testutil.SetURLParam(c, "key", "NOPE")
	h.ListRenewals(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKeyHandler_DeleteActivation(t *testing.T) {
	activation, err := license.ReconstructActivation(7, "ABCD-1234", "http://mystore.com/", "deactivated", time.Now(), nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		id         string
		uc         *mockDeactivateUC
		wantStatus int
	}{
		{"deactivated", "7", &mockDeactivateUC{result: activation}, http.StatusOK},
		{"invalid id", "abc", &mockDeactivateUC{}, http.StatusBadRequest},
		{"unknown activation", "8", &mockDeactivateUC{err: license.ErrActivationNotFound}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &KeyHandler{deactivateUC: tt.uc, logger: logger.NewNop()}
			c, w := testutil.NewTestContext(http.MethodDelete, "/admin/activations/"+tt.id, nil)
			testutil.SetURLParam(c, "id", tt.id)
			testutil.SetAdminContext(c, "support-1", "support")
			h.DeleteActivation(c)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
