/*
Package types defines the data structures shared across appclient.

# Request Descriptor

Request:
  - HTTP method (GET or POST) and path
  - Ordered parameters with raw values and defaults
  - Encoded query string, filled in by the request builder

# Response Payload

Payload is polymorphic over two shapes:
  - PayloadText: a plain string, displayed verbatim
  - PayloadJSON: an opaque structured value, kept as raw JSON

No schema is enforced on the structured shape.

# Outcome

Outcome is the result-shaped record of one dispatched call. It carries the
request id, the descriptor, status, payload, duration and the error (if
any). Every dispatched request produces exactly one Outcome.

# History

HistoryEntry is the persisted form of an Outcome, stored in SQLite by the
history package.
*/
package types
