package github

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v43/github"
)

// AuthError reports a credential that GitHub rejected as invalid or expired
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: token expired or invalid", e.Op)
	}
	return "token expired or invalid"
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError reports a request that never produced a usable response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a non-success status other than 401
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ConfigError reports a client that cannot be built or a request that is
// rejected before any network call
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// IsAuthError reports whether err is, or wraps, an AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTransportError reports whether err is, or wraps, a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusOf returns the HTTP status carried by a RemoteError, or 0
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	if IsAuthError(err) {
		return http.StatusUnauthorized
	}
	return 0
}

// classify maps a go-github result onto the error taxonomy.
// A nil err with a 2xx response yields nil.
func classify(op string, resp *gh.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		status = er.Response.StatusCode
	}

	switch {
	case err == nil && status >= 200 && status < 300:
		return nil
	case status >= 200 && status < 300:
		// The call went through but the body could not be read or decoded
		return &TransportError{Op: op, Err: err}
	case status == http.StatusUnauthorized:
		return &AuthError{Op: op, Err: err}
	case status != 0:
		return &RemoteError{Op: op, Status: status, Message: remoteMessage(err), Err: err}
	case err == nil:
		// No response and no error only happens with a broken transport stub
		return &TransportError{Op: op, Err: errors.New("empty response")}
	default:
		// url.Error, net.Error, context cancellation and deadline
		return &TransportError{Op: op, Err: err}
	}
}

func remoteMessage(err error) string {
	var er *gh.ErrorResponse
	if errors.As(err, &er) {
		return er.Message
	}
	var rl *gh.RateLimitError
	if errors.As(err, &rl) {
		return rl.Message
	}
	var al *gh.AbuseRateLimitError
	if errors.As(err, &al) {
		return al.Message
	}
	return ""
}
