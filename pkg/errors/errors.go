package errors

import "errors"

// Sentinels raised by the request boundary. Middleware attaches them to
// the gin error list so the request log records why a request was
// refused; response bodies stay the flat {"error": ...} shape.
var (
	ErrMissingCredentials      = errors.New("authorization header required")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	ErrMissingBinCode  = errors.New("missing required parameter: bin_code")
	ErrTooManyRequests = errors.New("too many requests")
)
