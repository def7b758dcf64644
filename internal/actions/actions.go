package actions

import (
	"github.com/studiowebux/appclient/internal/request"
	"github.com/studiowebux/appclient/internal/types"
)

// Control identifiers
const (
	ControlHelloGet  = "btnHelloGet"
	ControlHelloPost = "btnHelloPost"
	ControlTime      = "btnTime"
	ControlSum       = "btnSum"
)

// Input identifiers
const (
	InputName     = "name"
	InputNamePost = "namePost"
	InputA        = "a"
	InputB        = "b"
)

// Display target identifiers
const (
	TargetHelloGet  = "respHelloGet"
	TargetHelloPost = "respHelloPost"
	TargetTime      = "respTime"
	TargetSum       = "respSum"
)

// Endpoint paths
const (
	PathHello = "/app/hello"
	PathTime  = "/app/time"
	PathSum   = "/app/sum"
)

// Input holds the raw values of every input on the page
type Input struct {
	Name     string
	NamePost string
	A        string
	B        string
}

// Set assigns a value by input id. Unknown ids are ignored.
func (in *Input) Set(id, value string) {
	switch id {
	case InputName:
		in.Name = value
	case InputNamePost:
		in.NamePost = value
	case InputA:
		in.A = value
	case InputB:
		in.B = value
	}
}

// Action pairs a control with the inputs it reads, the request it builds
// and the target its response is rendered into.
type Action struct {
	Control string
	Label   string
	Inputs  []string
	Target  string
	Build   func(Input) types.Request
}

var table = []Action{
	{
		Control: ControlHelloGet,
		Label:   "Hello (GET)",
		Inputs:  []string{InputName},
		Target:  TargetHelloGet,
		Build:   HelloGet,
	},
	{
		Control: ControlHelloPost,
		Label:   "Hello (POST)",
		Inputs:  []string{InputNamePost},
		Target:  TargetHelloPost,
		Build:   HelloPost,
	},
	{
		Control: ControlTime,
		Label:   "Server time",
		Target:  TargetTime,
		Build:   Time,
	},
	{
		Control: ControlSum,
		Label:   "Sum",
		Inputs:  []string{InputA, InputB},
		Target:  TargetSum,
		Build:   Sum,
	},
}

// All returns the dispatch table in display order
func All() []Action {
	out := make([]Action, len(table))
	copy(out, table)
	return out
}

// Lookup finds the action bound to a control
func Lookup(control string) (Action, bool) {
	for _, a := range table {
		if a.Control == control {
			return a, true
		}
	}
	return Action{}, false
}

// ElementIDs lists every element a page needs for the table: inputs,
// controls and targets.
func ElementIDs() []string {
	ids := []string{InputName, InputNamePost, InputA, InputB}
	for _, a := range table {
		ids = append(ids, a.Control, a.Target)
	}
	return ids
}

// HelloGet builds GET /app/hello?name=...
func HelloGet(in Input) types.Request {
	return request.Build(request.MethodGet, PathHello, request.Text("name", in.Name))
}

// HelloPost builds POST /app/hello?name=... with the name in the query,
// never in the body.
func HelloPost(in Input) types.Request {
	return request.Build(request.MethodPost, PathHello, request.Text("name", in.NamePost))
}

// Time builds GET /app/time
func Time(Input) types.Request {
	return request.Build(request.MethodGet, PathTime)
}

// Sum builds GET /app/sum?a=...&b=...
func Sum(in Input) types.Request {
	return request.Build(request.MethodGet, PathSum,
		request.Number("a", in.A),
		request.Number("b", in.B),
	)
}
