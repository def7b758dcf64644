package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Param is one query parameter of a request descriptor
type Param struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`                         // Raw user input, not encoded
	Default string `json:"default,omitempty" yaml:"default,omitempty"` // Substituted when Value is empty
}

// Request is the fully specified method/path/parameters for one outgoing call.
// It is built fresh per user action and not modified afterwards.
type Request struct {
	Method string  `json:"method" yaml:"method"`
	Path   string  `json:"path" yaml:"path"`
	Params []Param `json:"params,omitempty" yaml:"params,omitempty"`
	Query  string  `json:"query,omitempty" yaml:"query,omitempty"` // Encoded query string, without '?'
}

// Target returns the request path with its encoded query string appended
func (r Request) Target() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// PayloadKind distinguishes the two response shapes
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadJSON
)

// Payload is the decoded result of a call: either a plain string or an
// opaque structured JSON value kept exactly as the server sent it.
type Payload struct {
	Kind PayloadKind
	Text string
	Raw  json.RawMessage
}

// TextPayload wraps a plain string
func TextPayload(s string) Payload {
	return Payload{Kind: PayloadText, Text: s}
}

// JSONPayload wraps raw JSON bytes. Surrounding whitespace is dropped.
func JSONPayload(raw []byte) Payload {
	trimmed := strings.TrimSpace(string(raw))
	return Payload{Kind: PayloadJSON, Raw: json.RawMessage(trimmed)}
}

// IsText reports whether the payload is a plain string
func (p Payload) IsText() bool {
	return p.Kind == PayloadText
}

// Outcome records one dispatched call from build to decode.
// Err is nil only when Payload holds the decoded response.
type Outcome struct {
	ID       string        `json:"id"`
	Control  string        `json:"control"`
	Target   string        `json:"target"`
	Request  Request       `json:"request"`
	URL      string        `json:"url"`
	Status   int           `json:"status,omitempty"`
	Payload  *Payload      `json:"-"`
	Size     int           `json:"size,omitempty"` // Response body bytes
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// OK reports whether the call produced a payload
func (o Outcome) OK() bool {
	return o.Err == nil && o.Payload != nil
}

// TLSConfig holds optional TLS settings for the HTTP client
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"caFile,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// HistoryEntry represents a saved request/outcome pair
type HistoryEntry struct {
	ID           int64  `json:"id" yaml:"id"`
	RequestID    string `json:"requestId" yaml:"requestId"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Control      string `json:"control" yaml:"control"`
	Method       string `json:"method" yaml:"method"`
	URL          string `json:"url" yaml:"url"`
	Status       int    `json:"status" yaml:"status"`
	ResponseBody string `json:"responseBody,omitempty" yaml:"responseBody,omitempty"`
	Duration     int64  `json:"duration" yaml:"duration"` // milliseconds
	ResponseSize int    `json:"responseSize,omitempty" yaml:"responseSize,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}
