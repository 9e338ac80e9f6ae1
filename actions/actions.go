// Package actions is the operation surface of the toolkit: every
// document-building and integration operation is a named action with
// a typed input, a typed output, and a uniform response envelope.
// Actions are stateless; documents travel between calls as opaque
// handles, never in server memory.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wudi/docsmith/handle"
	"github.com/wudi/docsmith/integrations"
	"github.com/wudi/docsmith/observability"
	"github.com/wudi/docsmith/textfit"
)

// ErrUnknownAction reports an action name nothing registered.
var ErrUnknownAction = errors.New("actions: unknown action")

// ErrorInfo is the error half of the response envelope: a taxonomy
// kind plus a human-readable message.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Response is the uniform action envelope. OK and Error are mutually
// exclusive; Data carries the action's typed output on success.
type Response struct {
	OK    bool       `json:"ok"`
	Error *ErrorInfo `json:"error,omitempty"`
	Data  any        `json:"data,omitempty"`
}

// HandlerFunc executes one action against raw JSON input.
type HandlerFunc func(ctx context.Context, input json.RawMessage) (any, error)

// Action is one registered operation.
type Action struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

// Registry holds the action table. Registration happens at startup;
// Invoke is safe for concurrent use afterwards.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
	log     observability.Logger
	tracer  observability.Tracer
}

// NewRegistry builds an empty registry. A nil logger is silent.
func NewRegistry(log observability.Logger) *Registry {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Registry{
		actions: make(map[string]*Action),
		log:     log,
		tracer:  observability.NopTracer(),
	}
}

// SetTracer installs a tracer; every Invoke runs inside a span named
// after the action. Call before serving.
func (r *Registry) SetTracer(t observability.Tracer) {
	if t != nil {
		r.tracer = t
	}
}

// Add registers an action. Duplicate names are a programming error.
func (r *Registry) Add(a *Action) error {
	if a == nil || a.Name == "" || a.Handler == nil {
		return fmt.Errorf("actions: incomplete action registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.actions[a.Name]; dup {
		return fmt.Errorf("actions: %q registered twice", a.Name)
	}
	r.actions[a.Name] = a
	return nil
}

// Get looks an action up by name.
func (r *Registry) Get(name string) (*Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Names lists the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the registered actions sorted by name.
func (r *Registry) List() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Action, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs one action and wraps the outcome in the envelope.
// Failures never escape as errors; they classify into the envelope's
// error kinds.
func (r *Registry) Invoke(ctx context.Context, name string, input json.RawMessage) Response {
	act, ok := r.Get(name)
	if !ok {
		return Response{Error: &ErrorInfo{
			Kind:    string(integrations.KindValidation),
			Message: fmt.Sprintf("unknown action %q", name),
		}}
	}

	ctx, span := r.tracer.StartSpan(ctx, "action."+name)
	defer span.Finish()

	start := time.Now()
	data, err := act.Handler(ctx, input)
	if err != nil {
		span.SetError(err)
		info := classify(err)
		r.log.Warn("action failed",
			observability.String("action", name),
			observability.String("kind", info.Kind),
			observability.Error("err", err))
		return Response{Error: info}
	}
	r.log.Debug("action ok",
		observability.String("action", name),
		observability.Int64(observability.MetricActionTime, time.Since(start).Milliseconds()))
	return Response{OK: true, Data: data}
}

// Register adds a typed action: input decoding and the envelope are
// handled here so handlers stay plain Go functions.
func Register[In, Out any](r *Registry, name, description string, fn func(ctx context.Context, in In) (Out, error)) error {
	return r.Add(&Action{
		Name:        name,
		Description: description,
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in In
			if len(input) > 0 {
				if err := json.Unmarshal(input, &in); err != nil {
					return nil, &integrations.APIError{
						Service: "actions",
						Kind:    integrations.KindValidation,
						Message: fmt.Sprintf("decode %s input: %v", name, err),
					}
				}
			}
			return fn(ctx, in)
		},
	})
}

// classify maps an error chain to the envelope taxonomy. Integration
// errors carry their own kind; the document layer's sentinel errors
// are caller mistakes and classify as validation.
func classify(err error) *ErrorInfo {
	switch {
	case errors.Is(err, textfit.ErrInvalidBox),
		errors.Is(err, textfit.ErrInvalidSize),
		errors.Is(err, handle.ErrInvalidHandle),
		errors.Is(err, integrations.ErrInvalidCursor),
		integrations.IsValidation(err):
		return &ErrorInfo{Kind: string(integrations.KindValidation), Message: err.Error()}
	default:
		return &ErrorInfo{Kind: string(integrations.KindOf(err)), Message: err.Error()}
	}
}
