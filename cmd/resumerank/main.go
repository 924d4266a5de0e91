package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resumerank/internal/config"
	"resumerank/internal/decoder"
	"resumerank/internal/logging"
	"resumerank/internal/service"
	"resumerank/internal/snapshot"
)

type app struct {
	cfgPath string
	cfg     *config.AppConfig
	logger  *slog.Logger
}

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "resumerank",
		Short:         "Rank resumes by similarity to a job description",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/resumerank/config.yaml if not provided)")

	root.AddCommand(newRankCommand(a), newServeCommand(a), newSnapshotCommand(a))
	return root
}

func (a *app) init() error {
	var err error
	if a.cfgPath == "" {
		a.cfg, _, err = config.LoadDefault()
	} else {
		a.cfg, err = config.Load(a.cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.logger, err = logging.New(logging.Options{Level: a.cfg.Logging.Level, Format: a.cfg.Logging.Format})
	if err != nil {
		return err
	}
	return nil
}

func (a *app) snapshotStore() *snapshot.Store {
	return snapshot.NewStore(snapshot.Options{
		Enabled:     a.cfg.Snapshot.Enabled,
		LockTimeout: time.Duration(a.cfg.Snapshot.LockTimeoutSecs) * time.Second,
	})
}

func (a *app) rankingService(store *snapshot.Store) *service.RankingService {
	return service.NewRankingService(store, a.cfg.Snapshot.Path, a.logger)
}

func (a *app) decoders() (*decoder.Registry, error) {
	return decoder.NewRegistry(a.cfg.Decoder.Extensions)
}
