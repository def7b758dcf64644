package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/studiowebux/appclient/internal/types"
)

var (
	// ErrUnexpectedStatus wraps non-2xx responses
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrDecode wraps bodies that are not valid JSON
	ErrDecode = errors.New("failed to decode response")
)

// Execute performs the request against baseURL and decodes the JSON body.
// It always returns an Outcome; failures are reported in Outcome.Err.
func Execute(ctx context.Context, client *http.Client, baseURL string, req types.Request) types.Outcome {
	startTime := time.Now()

	out := types.Outcome{
		Request: req,
		URL:     strings.TrimRight(baseURL, "/") + req.Target(),
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, out.URL, nil)
	if err != nil {
		out.Err = fmt.Errorf("failed to create request: %w", err)
		return out
	}
	httpReq.Header.Set("Accept", "application/json")

	// First suspension point: response headers
	resp, err := client.Do(httpReq)
	if err != nil {
		out.Duration = time.Since(startTime)
		out.Err = fmt.Errorf("request failed: %w", err)
		return out
	}
	defer resp.Body.Close()

	out.Status = resp.StatusCode

	// Second suspension point: the body
	bodyBytes, err := io.ReadAll(resp.Body)
	out.Duration = time.Since(startTime)
	out.Size = len(bodyBytes)
	if err != nil {
		out.Err = fmt.Errorf("failed to read response body: %w", err)
		return out
	}

	if !IsSuccessStatus(resp.StatusCode) {
		out.Err = fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		return out
	}

	payload, err := Decode(bodyBytes)
	if err != nil {
		out.Err = err
		return out
	}
	out.Payload = &payload

	return out
}

// Decode turns a JSON body into a payload. A JSON string becomes a text
// payload; any other JSON value is kept raw as a structured payload.
func Decode(body []byte) (types.Payload, error) {
	trimmed := strings.TrimSpace(string(body))
	if !json.Valid([]byte(trimmed)) {
		return types.Payload{}, fmt.Errorf("%w: body is not valid JSON", ErrDecode)
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return types.Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return types.TextPayload(s), nil
	}

	return types.JSONPayload([]byte(trimmed)), nil
}

// NewClient creates an HTTP client with optional TLS/mTLS configuration.
// A zero timeout leaves requests unbounded.
func NewClient(tlsConfig *types.TLSConfig, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Client certificate (mTLS)
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// FormatDuration formats a duration to a short human-readable string
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	return humanize.Bytes(uint64(bytes))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
