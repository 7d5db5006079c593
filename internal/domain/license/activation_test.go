package license

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
)

func TestNewActivationNormalizesLocation(t *testing.T) {
	a, err := NewActivation("ABCD-1234", "http://MyStore.COM/", time.Time{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://mystore.com/", a.Location())
	assert.Equal(t, vo.ActivationStatusActive, a.Status())
	assert.False(t, a.ActivatedAt().IsZero())
	assert.Nil(t, a.DeactivatedAt())
}

func TestNewActivationRejectsInvalidLocation(t *testing.T) {
	_, err := NewActivation("ABCD-1234", "   ", time.Now(), nil)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = NewActivation("", "http://a.com", time.Now(), nil)
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestActivationLifecycle(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewActivation("ABCD-1234", "example.com", start, nil)
	require.NoError(t, err)

	later := start.Add(time.Hour)
	require.NoError(t, a.Deactivate(later))
	assert.Equal(t, vo.ActivationStatusDeactivated, a.Status())
	require.NotNil(t, a.DeactivatedAt())
	assert.Equal(t, later, *a.DeactivatedAt())

	assert.ErrorIs(t, a.Deactivate(later), ErrActivationNotActive)

	again := later.Add(time.Hour)
	a.Reactivate(again)
	assert.True(t, a.IsActive())
	assert.Nil(t, a.DeactivatedAt())
	assert.Equal(t, again, a.ActivatedAt())
}

func TestActivationBelongsTo(t *testing.T) {
	a, err := NewActivation("ABCD-1234", "example.com", time.Now(), nil)
	require.NoError(t, err)

	assert.True(t, a.BelongsTo("ABCD-1234"))
	assert.False(t, a.BelongsTo("ABCD-12345"))
	assert.False(t, a.BelongsTo(""))
}

func TestActivationSetRelease(t *testing.T) {
	a, err := NewActivation("K", "example.com", time.Now(), nil)
	require.NoError(t, err)

	a.SetRelease(9)
	require.NotNil(t, a.ReleaseID())
	assert.Equal(t, uint(9), *a.ReleaseID())
}

func TestActivationOutcomeString(t *testing.T) {
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "reactivated", OutcomeReactivated.String())
	assert.Equal(t, "max_reached", OutcomeMaxReached.String())
	assert.Equal(t, "unknown", ActivationOutcome(0).String())
}
