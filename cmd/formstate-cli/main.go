package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/internal/bootstrap"
	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to $FORMSTATE_CONFIG or ./formstate.yaml)")
	definition := flag.String("definition", "", "form definition file (.yaml, .json or .hcl)")
	backend := flag.String("storage", "", "storage backend: memory, file, bolt or sqlite")
	storagePath := flag.String("path", "", "storage path")
	key := flag.String("key", "", "storage key for saved progress")
	logLevel := flag.String("log-level", "", "log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "definition":
			cfg.Form.Definition = *definition
		case "storage":
			cfg.Storage.Backend = *backend
		case "path":
			cfg.Storage.Path = *storagePath
		case "key":
			cfg.Storage.Key = *key
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	var submitted model.Values
	rt, err := bootstrap.Start(cfg, os.Stderr, form.WithOnSuccess(func(values model.Values) {
		submitted = values
	}))
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer rt.Close()

	session, err := tui.New(rt.Controller,
		tui.WithTitle(rt.Definition.Title),
		tui.WithTabLabels(rt.Definition.TabLabels()),
	)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = session.Run(ctx)
	switch {
	case errors.Is(err, tui.ErrSuspended):
		fmt.Println("Progress saved. Run again to continue.")
		return
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Println("Aborted. Progress saved.")
		return
	case err != nil:
		rt.Logger.Error().Err(err).Msg("session failed")
		return
	}

	out, err := yaml.Marshal(submitted.Native())
	if err != nil {
		log.Fatalf("encode values: %v", err)
	}
	fmt.Print(string(out))
}
