// Package server hosts the contact form over HTTP with fiber. Each browser
// gets its own controller, keyed by a session cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const (
	SessionCookie  = "contactform_session"
	changeEndpoint = "/fields/"
	assetsPrefix   = "/assets"
)

// fieldFragmentRenderer renders a single field's error slot.
type fieldFragmentRenderer interface {
	RenderFieldErrors(ctx context.Context, form model.FormModel, snapshot contact.Snapshot, field model.FieldName) ([]byte, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and event logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrchestrator replaces the default orchestrator.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		if orch != nil {
			s.orch = orch
		}
	}
}

// WithSessionTTL sets how long an idle session survives and how often the
// janitor sweeps.
func WithSessionTTL(ttl, sweep time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
		s.sweep = sweep
	}
}

// Server wires the routes, the session store and the renderers.
type Server struct {
	app      *fiber.App
	logger   *zap.Logger
	orch     *orchestrator.Orchestrator
	sessions *SessionStore
	ttl      time.Duration
	sweep    time.Duration

	form      model.FormModel
	validator *validation.Validator
	fragments fieldFragmentRenderer
	schema    []byte
}

// New builds the server and starts the session janitor. Call Close to stop
// it.
func New(ctx context.Context, options ...Option) (*Server, error) {
	s := &Server{
		logger: zap.NewNop(),
		ttl:    30 * time.Minute,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.ttl <= 0 {
		return nil, errors.New("server: session ttl must be positive")
	}
	if s.sweep <= 0 {
		s.sweep = s.ttl / 2
	}
	if s.orch == nil {
		renderer, err := vanilla.New(vanilla.WithStylesheet(assetsPrefix + "/" + vanilla.StylesheetName))
		if err != nil {
			return nil, fmt.Errorf("server: vanilla renderer: %w", err)
		}
		s.orch = orchestrator.New(orchestrator.WithRegistry(render.NewRegistry(renderer)))
	}

	form, err := s.orch.Form(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: prepare form: %w", err)
	}
	s.form = form
	s.validator, err = validation.New(form)
	if err != nil {
		return nil, fmt.Errorf("server: compile rules: %w", err)
	}

	renderer, err := s.orch.Registry().Get("vanilla")
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	fragments, ok := renderer.(fieldFragmentRenderer)
	if !ok {
		return nil, errors.New("server: vanilla renderer cannot render field fragments")
	}
	s.fragments = fragments

	s.schema, err = pkgopenapi.JSON(ctx, form, pkgopenapi.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("server: build openapi document: %w", err)
	}

	s.sessions = NewSessionStore(s.ttl, s.sweep, s.newController)

	s.app = fiber.New(fiber.Config{
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s, nil
}

func (s *Server) newController() (*contact.Controller, error) {
	return contact.NewController(
		contact.WithForm(s.form),
		contact.WithValidator(s.validator),
		contact.WithSubmitHook(func(values contact.Values) {
			s.logger.Info("contact submitted",
				zap.String("email", values.Email),
				zap.Bool("has_message", values.HasMessage()),
			)
		}),
	)
}

func (s *Server) routes() {
	s.app.Use(s.requestLogger)

	s.app.Get("/health", s.health)
	s.app.Get("/openapi.json", s.openAPI)
	s.app.Use(assetsPrefix, filesystem.New(filesystem.Config{
		Root: http.FS(vanilla.AssetsFS()),
	}))

	s.app.Get("/", s.page)
	s.app.Post(changeEndpoint+":field", s.changeField)
	s.app.Post("/submit", s.submit)
	s.app.Post("/reset", s.reset)
	s.app.Post(pkgopenapi.SubmitPath, s.submitJSON)
}

// App exposes the fiber app, mainly for tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		return s.app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		s.logger.Info("stopped")
		return nil
	})
	return g.Wait()
}

// Close stops the session janitor.
func (s *Server) Close() {
	s.sessions.Close()
}
