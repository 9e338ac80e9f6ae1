package actions

import (
	"github.com/wudi/docsmith/fonts"
	"github.com/wudi/docsmith/observability"
	"github.com/wudi/docsmith/render"
)

// Service carries what the action handlers share: the font registry
// every fit runs against, the preview renderer, and the remote
// providers. Everything here is read-only after construction; the
// documents themselves live in the handles callers pass.
type Service struct {
	fonts     *fonts.Registry
	renderer  *render.Renderer
	providers Providers
	log       observability.Logger
}

// NewService builds a service. A nil registry measures through the
// fallback metrics; nil providers leave the matching remote actions
// unregistered.
func NewService(reg *fonts.Registry, providers Providers, log observability.Logger) *Service {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Service{
		fonts:     reg,
		renderer:  render.New(reg),
		providers: providers,
		log:       log,
	}
}

// Providers reports the remote backends the service was built with.
func (s *Service) Providers() Providers { return s.providers }

// Registry builds the full action table for this service.
func (s *Service) Registry() (*Registry, error) {
	r := NewRegistry(s.log)
	if err := s.registerDeckActions(r); err != nil {
		return nil, err
	}
	if err := s.registerDocActions(r); err != nil {
		return nil, err
	}
	if err := s.registerRemoteActions(r); err != nil {
		return nil, err
	}
	return r, nil
}
