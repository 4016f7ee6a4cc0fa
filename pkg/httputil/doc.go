// Package httputil provides HTTP utilities for package registry clients.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Callers mark an error as transient by wrapping it in [RetryableError];
// everything else fails fast. The delay doubles after each attempt, and a
// server-provided Retry-After (set through RetryableError.After) replaces the
// computed delay for one attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// # Defaults
//
//   - Max attempts: 3
//   - Base backoff: 1 second
//   - Max single wait: [MaxDelay]
package httputil
