package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Factory reset: delete every person, edge and memory except yourself",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return errors.New("refusing to reset without --yes")
		}
		a, err := bootstrap(commandContext(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.Reset(commandContext(cmd)); err != nil {
			return err
		}
		fmt.Println("Graph reset.")
		return nil
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild relationship weights from the recorded memories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.manager.Recompute(ctx); err != nil {
			return err
		}
		stats, err := a.manager.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Recomputed: %d people, %d relationships, %d memories\n", stats.Nodes, stats.Edges, stats.Events)
		return nil
	},
}

var (
	graphCenter string
	graphHops   int
	graphSeed   int64
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the neighbourhood of a person as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hops := graphHops
		if !cmd.Flags().Changed("k") {
			hops = a.cfg.Graph.DefaultHops
		}
		view, err := a.manager.Graph(ctx, graphCenter, hops, graphSeed)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm the reset")

	graphCmd.Flags().StringVar(&graphCenter, "center", "", "Node id to center on (empty for the whole graph)")
	graphCmd.Flags().IntVar(&graphHops, "k", 1, "Hop radius")
	graphCmd.Flags().Int64Var(&graphSeed, "seed", 0, "Layout seed passed to the renderer")

	rootCmd.AddCommand(resetCmd, recomputeCmd, graphCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
