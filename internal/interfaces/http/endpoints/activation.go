package endpoints

import (
	"github.com/orris-inc/licenser/internal/domain/license"
)

// activationBody is the wire form of an activation.
type activationBody struct {
	activation *license.Activation
}

func (b activationBody) APIData() any {
	a := b.activation
	return map[string]any{
		"id":             a.ID(),
		"location":       a.Location(),
		"status":         a.Status().String(),
		"activated_at":   a.ActivatedAt(),
		"deactivated_at": a.DeactivatedAt(),
		"release_id":     a.ReleaseID(),
	}
}
