// Package server exposes a form controller over HTTP. Every POST renders
// the updated form in the response, or the JSON view when the client asks
// for application/json.
package server

import (
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

//go:embed templates/page.tmpl
var pageTemplates embed.FS

const pageTemplate = "templates/page.tmpl"

// TabField is the hidden input naming the tab a bulk post belongs to.
const TabField = "_tab"

// ErrRestartDisabled is returned by POST /new when no factory is configured.
var ErrRestartDisabled = errors.New("server: starting a new form is not enabled")

// Factory builds a replacement controller for POST /new.
type Factory func() (*form.Controller, error)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry replaces the default html + json renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithRenderer selects the renderer used for page responses, "html" by
// default.
func WithRenderer(name string) Option {
	return func(s *Server) {
		if name = strings.TrimSpace(name); name != "" {
			s.rendererName = name
		}
	}
}

// WithRenderOptions sets the title and tab labels passed to renderers.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(s *Server) {
		s.renderOptions = options
	}
}

// WithTemplatesDir overrides the bundled page and form templates with files
// from dir (templates/page.tmpl, templates/form.tmpl). Missing files fall
// back to the bundle. The form override only applies to the default
// registry.
func WithTemplatesDir(dir string) Option {
	return func(s *Server) {
		s.templatesDir = strings.TrimSpace(dir)
	}
}

// WithFactory enables POST /new, which closes the current controller and
// serves the one fn returns.
func WithFactory(fn Factory) Option {
	return func(s *Server) {
		s.factory = fn
	}
}

// Server serves one form controller at a time.
type Server struct {
	mu            sync.RWMutex
	ctrl          *form.Controller
	factory       Factory
	registry      *render.Registry
	rendererName  string
	renderOptions render.RenderOptions
	templatesDir  string
	page          *gotemplate.Engine
	logger        zerolog.Logger
	mux           *http.ServeMux
}

// New builds the handler tree for ctrl.
func New(ctrl *form.Controller, options ...Option) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("server: controller is required")
	}
	s := &Server{
		ctrl:         ctrl,
		rendererName: "html",
		logger:       zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	s.renderOptions.Restartable = s.factory != nil

	if s.registry == nil {
		html, err := vanilla.New(vanilla.WithTemplatesDir(s.templatesDir))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		registry, err := render.NewRegistry(html, render.JSON{})
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.registry = registry
	}
	if _, err := s.registry.Get(s.rendererName); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	pageOptions := []gotemplate.Option{
		gotemplate.WithFS(pageTemplates),
		gotemplate.WithExtension(".tmpl"),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": vanilla.StylesheetName}),
	}
	if s.templatesDir != "" {
		pageOptions = append(pageOptions, gotemplate.WithBaseDir(s.templatesDir))
	}
	page, err := gotemplate.New(pageOptions...)
	if err != nil {
		return nil, fmt.Errorf("server: page template: %w", err)
	}
	s.page = page

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	prefix := strings.TrimRight(s.renderOptions.Action, "/")
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/{$}", s.handleIndex)
	mux.HandleFunc("GET "+prefix+"/state", s.handleState)
	mux.HandleFunc("POST "+prefix+"/tabs/{id}", s.handleSelectTab)
	mux.HandleFunc("POST "+prefix+"/fields", s.handleSaveTab)
	mux.HandleFunc("POST "+prefix+"/fields/{name}", s.handleField)
	mux.HandleFunc("POST "+prefix+"/submit", s.handleSubmit)
	mux.HandleFunc("POST "+prefix+"/new", s.handleNew)
	mux.Handle("GET "+prefix+"/assets/", http.StripPrefix(prefix+"/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.HandleFunc("GET "+prefix+"/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux = mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Controller returns the controller currently served.
func (s *Server) Controller() *form.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

// Close flushes the controller currently served.
func (s *Server) Close() error {
	return s.Controller().Close()
}

// restart swaps in a controller from the factory. The old one is closed
// first so its pending snapshot is written before the new one loads.
func (s *Server) restart() (*form.Controller, error) {
	if s.factory == nil {
		return nil, ErrRestartDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ctrl.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close previous form")
	}
	next, err := s.factory()
	if err != nil {
		return nil, fmt.Errorf("server: new form: %w", err)
	}
	if next == nil {
		return nil, errors.New("server: factory returned no controller")
	}
	s.ctrl = next
	return next, nil
}
