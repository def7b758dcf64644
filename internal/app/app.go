package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/dom"
	"github.com/studiowebux/appclient/internal/executor"
	"github.com/studiowebux/appclient/internal/render"
	"github.com/studiowebux/appclient/internal/types"
)

// ErrClosed is returned when triggering a closed app
var ErrClosed = errors.New("app is closed")

// DefaultBaseURL is the address of the reference server
const DefaultBaseURL = "http://localhost:35000"

// Options configures a bound app
type Options struct {
	BaseURL string
	Client  *http.Client
	Logger  *zerolog.Logger

	// SurfaceErrors writes failures into the action's target as
	// "Error: <msg>". When false, failed actions leave the target untouched.
	SurfaceErrors bool

	// OnOutcome is called once per dispatched request, after rendering
	OnOutcome func(types.Outcome)
}

// BoundApp is a document with every control bound to its action handler
type BoundApp struct {
	doc  dom.Document
	opts Options
	log  zerolog.Logger

	mu      sync.Mutex
	unbind  []func()
	closed  bool
	pending sync.WaitGroup
}

// Initialize binds every control in the dispatch table to its handler.
// A control missing from the document aborts initialization and undoes any
// bindings already made.
func Initialize(doc dom.Document, opts Options) (*BoundApp, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}

	a := &BoundApp{doc: doc, opts: opts, log: zerolog.Nop()}
	if opts.Logger != nil {
		a.log = *opts.Logger
	}

	for _, act := range actions.All() {
		remove, err := doc.Element(act.Control).AddListener(func() {
			if err := a.dispatch(act); err != nil {
				a.log.Debug().Err(err).Str("control", act.Control).Msg("click ignored")
			}
		})
		if err != nil {
			a.release()
			return nil, fmt.Errorf("failed to bind %s: %w", act.Control, err)
		}
		a.unbind = append(a.unbind, remove)
	}

	a.log.Debug().Int("controls", len(a.unbind)).Str("base_url", opts.BaseURL).Msg("controls bound")
	return a, nil
}

// Trigger runs the action bound to control, as a click would. It returns
// once the call is issued; the response is rendered asynchronously.
func (a *BoundApp) Trigger(control string) error {
	act, ok := actions.Lookup(control)
	if !ok {
		return fmt.Errorf("unknown control %q", control)
	}
	return a.dispatch(act)
}

// Run executes one action synchronously and returns its outcome. Rendering
// follows the same policy as triggered actions.
func (a *BoundApp) Run(ctx context.Context, control string) (types.Outcome, error) {
	act, ok := actions.Lookup(control)
	if !ok {
		return types.Outcome{}, fmt.Errorf("unknown control %q", control)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return types.Outcome{}, ErrClosed
	}
	a.pending.Add(1)
	a.mu.Unlock()
	defer a.pending.Done()

	out := a.execute(ctx, act)
	a.present(act, out)
	return out, nil
}

// Wait blocks until every dispatched call has rendered or failed
func (a *BoundApp) Wait() {
	a.pending.Wait()
}

// Close removes every listener and waits for outstanding calls. Calls are
// never cancelled.
func (a *BoundApp) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.release()
	a.pending.Wait()
	a.log.Debug().Msg("app closed")
	return nil
}

func (a *BoundApp) release() {
	for _, remove := range a.unbind {
		remove()
	}
	a.unbind = nil
}

// dispatch runs the action on its own goroutine. Concurrent calls for the
// same control are not coordinated; the last to complete wins the target.
func (a *BoundApp) dispatch(act actions.Action) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.pending.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.pending.Done()
		out := a.execute(context.Background(), act)
		a.present(act, out)
	}()
	return nil
}

// execute reads inputs, builds the request and performs the call
func (a *BoundApp) execute(ctx context.Context, act actions.Action) types.Outcome {
	id := uuid.NewString()

	in, err := a.readInput(act)
	if err != nil {
		return types.Outcome{ID: id, Control: act.Control, Target: act.Target, Err: err}
	}

	req := act.Build(in)
	logger := a.log.With().
		Str("request_id", id).
		Str("control", act.Control).
		Str("method", req.Method).
		Str("target", req.Target()).
		Logger()
	logger.Debug().Msg("request dispatched")

	out := executor.Execute(ctx, a.opts.Client, a.opts.BaseURL, req)
	out.ID = id
	out.Control = act.Control
	out.Target = act.Target

	if out.Err != nil {
		logger.Warn().Err(out.Err).Int("status", out.Status).Dur("duration", out.Duration).Msg("request failed")
	} else {
		logger.Info().Int("status", out.Status).Dur("duration", out.Duration).Int("size", out.Size).Msg("request completed")
	}
	return out
}

func (a *BoundApp) readInput(act actions.Action) (actions.Input, error) {
	var in actions.Input
	for _, id := range act.Inputs {
		v, err := a.doc.Element(id).Value()
		if err != nil {
			return in, fmt.Errorf("input %s: %w", id, err)
		}
		in.Set(id, v)
	}
	return in, nil
}

// present is the rendering boundary: successful outcomes are rendered,
// failures are rendered only when SurfaceErrors is set.
func (a *BoundApp) present(act actions.Action, out types.Outcome) {
	target := a.doc.Element(act.Target)

	switch {
	case out.OK():
		if err := render.Render(target, *out.Payload); err != nil {
			out.Err = fmt.Errorf("render %s: %w", act.Target, err)
			a.log.Warn().Err(out.Err).Str("request_id", out.ID).Msg("render failed")
		}
	case a.opts.SurfaceErrors:
		if err := target.SetText("Error: " + out.Err.Error()); err != nil {
			a.log.Warn().Err(err).Str("request_id", out.ID).Msg("failed to surface error")
		}
	}

	if a.opts.OnOutcome != nil {
		a.opts.OnOutcome(out)
	}
}
