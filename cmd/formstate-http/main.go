package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formstate/internal/bootstrap"
	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/server"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to $FORMSTATE_CONFIG or ./formstate.yaml)")
	addr := flag.String("addr", "", "HTTP listen address")
	definition := flag.String("definition", "", "form definition file (.yaml, .json or .hcl)")
	backend := flag.String("storage", "", "storage backend: memory, file, bolt or sqlite")
	renderer := flag.String("renderer", "html", "renderer for page responses")
	templates := flag.String("templates", "", "directory overriding the bundled page and form templates")
	shutdownGrace := flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.HTTP.Addr = *addr
		case "definition":
			cfg.Form.Definition = *definition
		case "storage":
			cfg.Storage.Backend = *backend
		case "templates":
			cfg.HTTP.Templates = *templates
		}
	})

	var rt *bootstrap.Runtime
	rt, err = bootstrap.Start(cfg, os.Stderr, form.WithOnSuccess(func(values model.Values) {
		rt.Logger.Info().Interface("values", values.Native()).Msg("form submitted")
	}))
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer rt.Close()

	handler, err := server.New(rt.Controller,
		server.WithLogger(rt.Logger),
		server.WithRenderer(*renderer),
		server.WithTemplatesDir(cfg.HTTP.Templates),
		server.WithFactory(rt.NewController),
		server.WithRenderOptions(render.RenderOptions{
			Title:     rt.Definition.Title,
			TabLabels: rt.Definition.TabLabels(),
		}),
	)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	rt.Logger.Info().Str("addr", cfg.HTTP.Addr).Str("form", rt.Definition.ID).Msg("listening")

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		rt.Logger.Error().Err(err).Msg("listen")
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Warn().Err(err).Msg("shutdown")
	}
	if err := handler.Close(); err != nil {
		rt.Logger.Warn().Err(err).Msg("flush form")
	}
}
