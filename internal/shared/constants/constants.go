package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderXRequestID      = "X-Request-ID"
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"

	// Context keys
	ContextKeyRequestID    = "request_id"
	ContextKeyAdminSubject = "admin_subject"
	ContextKeyAdminRole    = "admin_role"

	// Database table names
	TableLicenseKeys        = "license_keys"
	TableLicenseActivations = "license_activations"
	TableLicenseRenewals    = "license_renewals"
	TableReleases           = "releases"
	TableReleaseUpdates     = "release_updates"
	TableProducts           = "products"
	TableCustomers          = "customers"
	TableTransactions       = "transactions"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
