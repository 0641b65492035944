package main

import (
	"time"

	"github.com/tenderfit/tenderctl/internal/api"
	"github.com/tenderfit/tenderctl/internal/config"
	"github.com/tenderfit/tenderctl/internal/logger"
	"github.com/tenderfit/tenderctl/internal/stream"
)

// appContext bundles the wired collaborators every subcommand needs.
type appContext struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *api.Client
	streams *stream.Opener
}

func buildAppContext(flags *rootFlags) (*appContext, error) {
	cfg, err := config.ParseConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := "info"
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	return &appContext{
		cfg:     cfg,
		log:     log,
		client:  api.New(cfg.Server.URL, timeout, log),
		streams: stream.NewOpener(cfg.Server.URL, log),
	}, nil
}
