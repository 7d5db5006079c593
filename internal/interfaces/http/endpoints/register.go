package endpoints

import (
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
)

// Set is the full collection of remote API endpoints.
type Set struct {
	Activate   *ActivateEndpoint
	Deactivate *DeactivateEndpoint
	Info       *InfoEndpoint
	Version    *VersionEndpoint
	Product    *ProductEndpoint
	Changelog  *ChangelogEndpoint
	Download   *DownloadEndpoint
}

// Register adds every endpoint of the set under its action name.
func (s *Set) Register(registry *dispatch.Registry) {
	registry.Register("activate", s.Activate)
	registry.Register("deactivate", s.Deactivate)
	registry.Register("info", s.Info)
	registry.Register("version", s.Version)
	registry.Register("product", s.Product)
	registry.Register("changelog", s.Changelog)
	registry.Register("download", s.Download)
}
