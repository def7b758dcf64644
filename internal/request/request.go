package request

import (
	"net/url"
	"strings"

	"github.com/studiowebux/appclient/internal/types"
)

// HTTP methods used by the actions
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// NumberDefault is substituted for empty numeric operands
const NumberDefault = "0"

// Text returns a parameter whose empty value is sent as the empty string
func Text(name, value string) types.Param {
	return types.Param{Name: name, Value: value}
}

// Number returns a parameter whose empty value is sent as "0". The value is
// not parsed; the server decides whether it is a valid number.
func Number(name, value string) types.Param {
	return types.Param{Name: name, Value: value, Default: NumberDefault}
}

// Build creates a request descriptor. Parameters keep their order and are
// never omitted: an empty value is replaced by the parameter default before
// encoding.
func Build(method, path string, params ...types.Param) types.Request {
	req := types.Request{
		Method: method,
		Path:   path,
	}
	if len(params) == 0 {
		return req
	}

	req.Params = make([]types.Param, len(params))
	copy(req.Params, params)

	pairs := make([]string, 0, len(params))
	for _, p := range req.Params {
		value := p.Value
		if value == "" {
			value = p.Default
		}
		pairs = append(pairs, EncodeComponent(p.Name)+"="+EncodeComponent(value))
	}
	req.Query = strings.Join(pairs, "&")

	return req
}

// EncodeComponent percent-encodes s for use as a query name or value. Only
// letters, digits and -_.~ pass through; everything else is escaped, including
// !'()* which browsers leave alone. Spaces become %20 rather than '+', so the
// result decodes back to s with either form or path decoding.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
