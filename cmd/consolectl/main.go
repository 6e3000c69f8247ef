package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ingestdesk/internal/config"
	"ingestdesk/internal/gateway"
	"ingestdesk/internal/normalize"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "consolectl: %v\n", err)
		os.Exit(1)
	}
}

// app is the backend a command runs against.
type app struct {
	gw      *gateway.Gateway
	hub     *resultsync.Hub
	results service.ResultService
	imports service.ImportService
	locale  string
}

func (a *app) Close() {
	a.hub.Close()
	_ = a.gw.Close()
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	gw, err := gateway.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	display := normalize.DisplayOptions{Locale: cfg.Display.Locale, Location: cfg.Display.Location()}
	hub := resultsync.NewHub(ctx, gw.Results, gw.Feed, resultsync.Options{
		PollInterval: cfg.Sync.PollInterval,
		PageSize:     cfg.Sync.PageSize,
		RetryDelay:   cfg.Sync.RetryDelay,
	})
	results := service.NewResultService(gw.Results, gw.Projects, hub, display, cfg.Sync.PageSize)

	return &app{
		gw:      gw,
		hub:     hub,
		results: results,
		imports: service.NewImportService(gw.Cases, results),
		locale:  cfg.Display.Locale,
	}, nil
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolectl",
		Short: "Operator CLI for the document ingestion console",
		Long: `consolectl queues CRM case numbers for the download worker, lists their
progress, follows extraction results and exports them as spreadsheets.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newCasesCmd(),
		newResultsCmd(),
	)
	return cmd
}
