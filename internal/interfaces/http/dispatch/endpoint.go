// Package dispatch routes remote API actions to endpoints, authenticates
// them with HTTP Basic credentials and renders the response envelope.
package dispatch

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// AuthMode is the credential check an endpoint requires.
type AuthMode int

const (
	AuthNone AuthMode = iota
	// AuthExists requires a known license key
	AuthExists
	// AuthActive requires an active, unexpired license key
	AuthActive
	// AuthValidActivation requires a known key whose password names one of
	// its active activations
	AuthValidActivation
)

// Realm is the text announced in the WWW-Authenticate challenge.
func (m AuthMode) Realm() string {
	switch m {
	case AuthExists:
		return "Valid license key required"
	case AuthActive:
		return "Active license key required"
	case AuthValidActivation:
		return "Valid license key and activation required"
	default:
		return ""
	}
}

func (m AuthMode) String() string {
	switch m {
	case AuthNone:
		return "none"
	case AuthExists:
		return "exists"
	case AuthActive:
		return "active"
	case AuthValidActivation:
		return "valid_activation"
	default:
		return "unknown"
	}
}

// Endpoint serves one remote API action. The returned body is serialized
// into the success envelope unless it is a RawResponse.
type Endpoint interface {
	Serve(ctx context.Context, req *Request) (any, error)
}

// Authenticatable is implemented by endpoints that require credentials.
type Authenticatable interface {
	AuthMode() AuthMode
	// AuthError is reported when the credentials do not satisfy the mode
	AuthError() *errors.APIError
}

// DefaultAuthError is the failure reported for endpoints that do not choose their own.
func DefaultAuthError() *errors.APIError {
	return errors.NewAuthAPIError(errors.CodeInvalidKey, "invalid license key")
}

// Request is the endpoint view of a remote API call.
type Request struct {
	Action   string
	Method   string
	Query    url.Values
	PostForm url.Values
	Header   http.Header
	ClientIP string

	// Key is set for authenticated endpoints
	Key *license.Key
	// Activation is set for AuthValidActivation endpoints
	Activation *license.Activation
}

// Get returns a trimmed query string value.
func (r *Request) Get(name string) string {
	return strings.TrimSpace(r.Query.Get(name))
}

// Post returns a trimmed form value of a POST request.
func (r *Request) Post(name string) string {
	return strings.TrimSpace(r.PostForm.Get(name))
}

// Value returns the POST value of name, falling back to the query string.
func (r *Request) Value(name string) string {
	if v := r.Post(name); v != "" {
		return v
	}
	return r.Get(name)
}
