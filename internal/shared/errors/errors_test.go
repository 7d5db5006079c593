package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"mysql typed", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'idx'"}, true},
		{"mysql other number", &mysql.MySQLError{Number: 1452, Message: "foreign key"}, false},
		{"wrapped mysql", fmt.Errorf("create: %w", &mysql.MySQLError{Number: 1062}), true},
		{"sqlite", fmt.Errorf("UNIQUE constraint failed: license_activations.license_key, license_activations.location"), true},
		{"postgres", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx"`), true},
		{"unrelated", fmt.Errorf("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateError(tt.err))
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Run("validation error defaults to 400", func(t *testing.T) {
		err := NewAPIError(CodeNoLocation, "location is required")
		assert.Equal(t, http.StatusBadRequest, err.Status())
		assert.Equal(t, CodeNoLocation, err.APICode)
	})

	t.Run("auth error is 401", func(t *testing.T) {
		err := NewAuthAPIError(CodeInvalidKey, "invalid key")
		assert.Equal(t, http.StatusUnauthorized, err.Status())
	})

	t.Run("extractable through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("serve: %w", NewDomainAPIError(CodeMaxActivations, "max activations reached"))
		apiErr := GetAPIError(wrapped)
		if assert.NotNil(t, apiErr) {
			assert.Equal(t, CodeMaxActivations, apiErr.APICode)
		}
		assert.NotNil(t, GetAppError(wrapped))
		assert.True(t, IsConflictError(wrapped))
	})

	t.Run("plain error is not an api error", func(t *testing.T) {
		assert.Nil(t, GetAPIError(fmt.Errorf("boom")))
	})
}
