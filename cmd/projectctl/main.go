package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fiberops-assistant-be/internal/cli"
	"fiberops-assistant-be/internal/config"
	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/nats"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
	"fiberops-assistant-be/pkg/sheets"
)

func main() {
	cfg := config.Load()
	log := logger.NewNopLogger()

	rules := project.DefaultRules()
	if cfg.Sheets.RulesPath != "" {
		loaded, err := project.LoadRules(cfg.Sheets.RulesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		rules = loaded
	}

	fetcher := sheets.NewFetcher(cfg.Sheets.FetchTimeout)
	fetcher.LocateGrace = cfg.Sheets.LocateGrace

	app := &cli.App{
		Store: projectdata.NewStore(
			fetcher,
			projectdata.Sources{
				ProjectURL:    cfg.Sheets.ProjectURL,
				LocateURL:     cfg.Sheets.LocateURL,
				ProjectFormat: sheets.Format(cfg.Sheets.ProjectFormat),
				LocateFormat:  sheets.Format(cfg.Sheets.LocateFormat),
			},
			locate.NewIndexer(locate.DefaultRules(), log),
			project.NewAggregator(rules, log),
			log,
		),
		NewWatcher: func() (cli.EventWatcher, error) {
			sub, err := nats.NewSubscriber(cfg.App.NatsURL)
			if err != nil {
				return nil, err
			}
			return sub, nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
