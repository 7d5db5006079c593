package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
)

func newTestKey(t *testing.T, max int, expires *time.Time) *Key {
	t.Helper()
	k, err := NewKey("ABCD-1234", 1, 2, 3, max, expires, "")
	require.NoError(t, err)
	return k
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewKey(t *testing.T) {
	t.Run("defaults to active", func(t *testing.T) {
		k := newTestKey(t, 2, nil)
		assert.Equal(t, vo.KeyStatusActive, k.Status())
		assert.True(t, k.NeverExpires())
		assert.Equal(t, "ABCD-1234", k.Key())
	})

	tests := []struct {
		name    string
		key     string
		product uint
		max     int
		status  vo.KeyStatus
		wantErr error
	}{
		{"empty key", "", 1, 0, "", ErrKeyRequired},
		{"missing product", "K", 0, 0, "", ErrInvalidOwner},
		{"negative max", "K", 1, -1, "", ErrInvalidMax},
		{"unknown status", "K", 1, 0, "paused", ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKey(tt.key, tt.product, 2, 3, tt.max, nil, tt.status)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("explicit status", func(t *testing.T) {
		k, err := NewKey("K", 1, 2, 3, 0, nil, vo.KeyStatusDisabled)
		require.NoError(t, err)
		assert.Equal(t, vo.KeyStatusDisabled, k.Status())
	})
}

func TestKeyCanActivate(t *testing.T) {
	unlimited := newTestKey(t, 0, nil)
	assert.True(t, unlimited.CanActivate(1000))

	limited := newTestKey(t, 2, nil)
	assert.True(t, limited.CanActivate(0))
	assert.True(t, limited.CanActivate(1))
	assert.False(t, limited.CanActivate(2))
	assert.False(t, limited.CanActivate(3))
}

func TestKeyExpire(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expires after expiration passed", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(now.Add(-time.Hour)))
		require.NoError(t, k.Expire(now))
		assert.Equal(t, vo.KeyStatusExpired, k.Status())
	})

	t.Run("not before expiration", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(now.Add(time.Hour)))
		assert.ErrorIs(t, k.Expire(now), ErrInvalidStatusTransition)
		assert.Equal(t, vo.KeyStatusActive, k.Status())
	})

	t.Run("never expiring key", func(t *testing.T) {
		k := newTestKey(t, 1, nil)
		assert.Error(t, k.Expire(now))
	})

	t.Run("disabled key stays disabled", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(now.Add(-time.Hour)))
		require.NoError(t, k.Disable(now))
		assert.ErrorIs(t, k.Expire(now), ErrInvalidStatusTransition)
		assert.Equal(t, vo.KeyStatusDisabled, k.Status())
	})
}

func TestKeyDisableEnable(t *testing.T) {
	now := time.Now().UTC()

	k := newTestKey(t, 1, timePtr(now.Add(24*time.Hour)))
	require.NoError(t, k.Disable(now))
	assert.Equal(t, vo.KeyStatusDisabled, k.Status())
	assert.ErrorIs(t, k.Disable(now), ErrInvalidStatusTransition)

	require.NoError(t, k.Enable(now))
	assert.Equal(t, vo.KeyStatusActive, k.Status())
	assert.ErrorIs(t, k.Enable(now), ErrInvalidStatusTransition)

	past := newTestKey(t, 1, timePtr(now.Add(-time.Hour)))
	require.NoError(t, past.Disable(now))
	require.NoError(t, past.Enable(now))
	assert.Equal(t, vo.KeyStatusExpired, past.Status())
}

func TestKeyExtend(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	previous := now.Add(-48 * time.Hour)

	t.Run("renews an expired key", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(previous))
		require.NoError(t, k.Expire(now))

		txn := uint(77)
		renewal, err := k.Extend(now.AddDate(1, 0, 0), &txn, 4900, now)
		require.NoError(t, err)

		assert.Equal(t, vo.KeyStatusActive, k.Status())
		assert.Equal(t, now.AddDate(1, 0, 0), *k.Expires())
		assert.Equal(t, "ABCD-1234", renewal.Key())
		require.NotNil(t, renewal.KeyExpiredAt())
		assert.Equal(t, previous, *renewal.KeyExpiredAt())
		assert.Equal(t, int64(4900), renewal.Revenue())
		assert.False(t, renewal.IsManual())
	})

	t.Run("manual renewal", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(now.Add(time.Hour)))
		renewal, err := k.Extend(now.AddDate(0, 6, 0), nil, 0, now)
		require.NoError(t, err)
		assert.True(t, renewal.IsManual())
	})

	t.Run("disabled key cannot be renewed", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(previous))
		require.NoError(t, k.Disable(now))
		_, err := k.Extend(now.AddDate(1, 0, 0), nil, 0, now)
		assert.ErrorIs(t, err, ErrKeyNotRenewable)
	})

	t.Run("expiration must be in the future", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(previous))
		_, err := k.Extend(now.Add(-time.Minute), nil, 0, now)
		assert.ErrorIs(t, err, ErrInvalidExpiration)
	})

	t.Run("negative revenue", func(t *testing.T) {
		k := newTestKey(t, 1, timePtr(previous))
		_, err := k.Extend(now.AddDate(1, 0, 0), nil, -1, now)
		assert.ErrorIs(t, err, ErrInvalidRevenue)
		assert.Equal(t, previous, *k.Expires())
	})
}

func TestKeyAdminSetters(t *testing.T) {
	k := newTestKey(t, 1, nil)

	require.NoError(t, k.SetMax(5))
	assert.Equal(t, 5, k.Max())
	assert.ErrorIs(t, k.SetMax(-2), ErrInvalidMax)

	require.NoError(t, k.SetStatus(vo.KeyStatusExpired))
	assert.Equal(t, vo.KeyStatusExpired, k.Status())
	assert.ErrorIs(t, k.SetStatus("bogus"), ErrInvalidStatus)

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	k.SetExpires(&exp)
	assert.Equal(t, exp, *k.Expires())
	k.SetExpires(nil)
	assert.True(t, k.NeverExpires())
}
