package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/infrastructure/metrics"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

const unknownErrorMessage = "unknown error"

// Authenticator resolves Basic credentials to license records.
type Authenticator interface {
	ResolveKey(ctx context.Context, key string) (*license.Key, error)
	ResolveActivation(ctx context.Context, key *license.Key, rawID string) (*license.Activation, error)
}

// Observer records dispatch outcomes.
type Observer interface {
	ObserveDispatch(action, outcome string, elapsed time.Duration)
}

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the remote API response shape.
type Envelope struct {
	Success bool       `json:"success"`
	Body    any        `json:"body,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Dispatcher is the gin handler behind /<api-prefix>/<action>/.
type Dispatcher struct {
	registry *Registry
	auth     Authenticator
	observer Observer
	debug    bool
	logger   logger.Interface
	now      func() time.Time
}

type Option func(*Dispatcher)

// WithObserver records every dispatch.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) { d.observer = observer }
}

// WithDebug adds internal error details to unknown error messages.
func WithDebug(debug bool) Option {
	return func(d *Dispatcher) { d.debug = debug }
}

func NewDispatcher(registry *Registry, auth Authenticator, logger logger.Interface, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		auth:     auth,
		logger:   logger,
		now:      biztime.NowUTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle dispatches the action named by the :action path parameter.
func (d *Dispatcher) Handle(c *gin.Context) {
	start := time.Now()
	action := normalizeAction(c.Param("action"))
	outcome := d.dispatch(c, action)
	if d.observer != nil {
		d.observer.ObserveDispatch(action, outcome, time.Since(start))
	}
}

func (d *Dispatcher) dispatch(c *gin.Context, action string) string {
	endpoint, ok := d.registry.Lookup(action)
	if !ok {
		d.writeEnvelope(c, http.StatusNotFound, Envelope{
			Error: &ErrorBody{Code: errors.CodeNotFound, Message: fmt.Sprintf("unknown action %q", action)},
		})
		return metrics.OutcomeNotFound
	}

	// Malformed bodies leave PostForm empty; endpoints report missing values.
	_ = c.Request.ParseForm()
	req := &Request{
		Action:   action,
		Method:   c.Request.Method,
		Query:    c.Request.URL.Query(),
		PostForm: c.Request.PostForm,
		Header:   c.Request.Header,
		ClientIP: c.ClientIP(),
	}
	ctx := c.Request.Context()

	if guarded, ok := endpoint.(Authenticatable); ok && guarded.AuthMode() != AuthNone {
		if err := d.authenticate(ctx, c, guarded.AuthMode(), req); err != nil {
			if stderrors.Is(err, errUnauthorized) {
				d.challenge(c, guarded)
				return metrics.OutcomeUnauthorized
			}
			d.writeError(c, action, err)
			return metrics.OutcomeError
		}
	}

	body, err := endpoint.Serve(ctx, req)
	if err != nil {
		d.writeError(c, action, err)
		return metrics.OutcomeError
	}

	if raw, ok := body.(RawResponse); ok {
		if err := raw.Render(c.Writer, c.Request); err != nil {
			d.writeError(c, action, err)
			return metrics.OutcomeError
		}
		return metrics.OutcomeRaw
	}

	d.writeEnvelope(c, http.StatusOK, Envelope{Success: true, Body: Serialize(body)})
	return metrics.OutcomeSuccess
}

var errUnauthorized = stderrors.New("unauthorized")

func (d *Dispatcher) authenticate(ctx context.Context, c *gin.Context, mode AuthMode, req *Request) error {
	username, password, ok := c.Request.BasicAuth()
	if !ok || username == "" {
		return errUnauthorized
	}

	key, err := d.auth.ResolveKey(ctx, username)
	if stderrors.Is(err, license.ErrKeyNotFound) {
		return errUnauthorized
	}
	if err != nil {
		return err
	}

	switch mode {
	case AuthActive:
		if !key.IsActive() || key.ExpiredAt(d.now()) {
			return errUnauthorized
		}
	case AuthValidActivation:
		activation, err := d.auth.ResolveActivation(ctx, key, password)
		if stderrors.Is(err, license.ErrActivationNotFound) {
			return errUnauthorized
		}
		if err != nil {
			return err
		}
		if !activation.IsActive() {
			return errUnauthorized
		}
		req.Activation = activation
	}

	req.Key = key
	return nil
}

func (d *Dispatcher) challenge(c *gin.Context, guarded Authenticatable) {
	apiErr := guarded.AuthError()
	if apiErr == nil {
		apiErr = DefaultAuthError()
	}
	c.Header(constants.HeaderWWWAuthenticate, fmt.Sprintf("Basic realm=%q", guarded.AuthMode().Realm()))
	d.writeEnvelope(c, http.StatusUnauthorized, Envelope{
		Error: &ErrorBody{Code: apiErr.APICode, Message: apiErr.Message},
	})
}

func (d *Dispatcher) writeError(c *gin.Context, action string, err error) {
	if apiErr := errors.GetAPIError(err); apiErr != nil {
		d.writeEnvelope(c, apiErr.Status(), Envelope{
			Error: &ErrorBody{Code: apiErr.APICode, Message: apiErr.Message},
		})
		return
	}

	if appErr := errors.GetAppError(err); appErr != nil && appErr.Type != errors.ErrorTypeInternal {
		d.writeEnvelope(c, appErr.Code, Envelope{
			Error: &ErrorBody{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	d.logger.Errorw("remote api action failed", "action", action, "error", err)
	d.writeEnvelope(c, http.StatusInternalServerError, Envelope{
		Error: d.unknownError(err),
	})
}

// unknownError keeps the original message and code of an unexpected failure.
// Internal error details are only included in debug mode.
func (d *Dispatcher) unknownError(err error) *ErrorBody {
	if appErr := errors.GetAppError(err); appErr != nil {
		message := fmt.Sprintf("%s: %s", unknownErrorMessage, appErr.Message)
		if d.debug && appErr.Details != "" {
			message = fmt.Sprintf("%s (%s)", message, appErr.Details)
		}
		code := appErr.Code
		if code == 0 {
			code = errors.CodeUnknown
		}
		return &ErrorBody{Code: code, Message: message}
	}
	return &ErrorBody{Code: errors.CodeUnknown, Message: fmt.Sprintf("%s: %s", unknownErrorMessage, err.Error())}
}

func (d *Dispatcher) writeEnvelope(c *gin.Context, status int, envelope Envelope) {
	c.JSON(status, envelope)
}
