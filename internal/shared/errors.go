package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Token lifecycle errors
	ErrNoValidToken   = fmt.Errorf("no valid token available")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrAuthCancelled  = fmt.Errorf("authorization flow cancelled")
	ErrTokenExchange  = fmt.Errorf("token exchange failed")
	ErrSessionExpired = fmt.Errorf("session expired")

	// API and sync errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrNotMonitored       = fmt.Errorf("playlist not monitored")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError carries the status code and remote message of a failed API request.
//
// Callers match with [errors.As]; sentinel matching is reserved for the
// token lifecycle errors above.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed (status %d): %s", e.StatusCode, e.Message)
}
