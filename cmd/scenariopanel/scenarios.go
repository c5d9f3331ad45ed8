package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
)

func newScenariosCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Inspect or clear saved scenarios without opening the panel",
	}

	withPanel := func(cmd *cobra.Command, fn func(p *panel.Panel) error) error {
		cfg, err := flags.load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		log, closer, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closer.Close()
		p, cleanup, err := openPanel(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(p)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show each slot and its saved values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPanel(cmd, func(p *panel.Panel) error {
				return printSlots(cmd.OutOrStdout(), p)
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all three saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPanel(cmd, func(p *panel.Panel) error {
				if err := p.ClearScenarios(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "scenarios cleared")
				return nil
			})
		},
	}

	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved scenarios as yaml or json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPanel(cmd, func(p *panel.Panel) error {
				return scenario.Export(cmd.OutOrStdout(), format, p.Catalog(), p.SlotStates(), p.SavedAll())
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", scenario.FormatYAML, "output format: yaml or json")

	cmd.AddCommand(listCmd, clearCmd, exportCmd)
	return cmd
}

func printSlots(w io.Writer, p *panel.Panel) error {
	for _, id := range scenario.Slots {
		if _, err := fmt.Fprintf(w, "%d  %-6s  %s\n", id, p.SlotState(id), p.SlotLabel(id)); err != nil {
			return err
		}
		if p.SlotState(id) == scenario.Filled && p.Saved(id) == nil {
			fmt.Fprintln(w, "   (stored value unreadable)")
			continue
		}
		for _, it := range p.SavedItems(id) {
			fmt.Fprintf(w, "   %s: %s\n", it.Name, it.Value)
		}
	}
	return nil
}
