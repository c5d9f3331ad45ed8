package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/scenariopanel/internal/config"
	"github.com/jask/scenariopanel/internal/tui"
)

type rootFlags struct {
	configPath string
	logLevel   string
	backend    string
}

func (f rootFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.backend != "" {
		b := strings.ToLower(strings.TrimSpace(f.backend))
		if !config.ValidBackend(b) {
			return config.Config{}, fmt.Errorf("unknown store backend %q", f.backend)
		}
		cfg.Store.Backend = b
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "scenariopanel",
		Short:         "Mortgage calculator filter panel with three saved scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), *flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/scenariopanel/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.backend, "store", "", "store backend: "+strings.Join([]string{
		config.BackendFile, config.BackendSQLite, config.BackendRedis, config.BackendMemory,
	}, ", "))

	root.AddCommand(newServeCmd(flags), newScenariosCmd(flags), newConfigCmd(flags))
	return root
}

func runTUI(ctx context.Context, flags rootFlags) error {
	cfg, err := flags.load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, closer, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, cleanup, err := openPanel(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	prog := tea.NewProgram(tui.New(ctx, p, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
