/*
Package executor performs the network call of an action and decodes its
response.

# Suspension Points

Execute waits twice: once for the response headers and once for the body.
The body must be JSON; a JSON string decodes to a text payload, any other
JSON value is kept raw as a structured payload.

# Error Handling

Execute never returns a Go error. Every failure is placed in Outcome.Err:
  - transport failures (connection refused, DNS, TLS)
  - non-2xx statuses, wrapping ErrUnexpectedStatus
  - bodies that are not JSON, wrapping ErrDecode

# Timeouts and Cancellation

There is no retry. NewClient takes an optional timeout; zero (the
default) leaves requests unbounded. Callers pass a context that is never
cancelled by the action handlers.

# TLS Configuration

NewClient supports a custom CA, client certificates (mTLS) and
InsecureSkipVerify for development servers.

# Thread Safety

Execute is safe to call concurrently with a shared *http.Client.
*/
package executor
