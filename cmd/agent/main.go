package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"webagent/internal/di"
	"webagent/internal/domain/entity"
	"webagent/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

const defaultTask = "Navigate to https://www.example.com and get the main heading text"

var (
	flagHeadless      bool
	flagMaxIterations int
)

var rootCmd = &cobra.Command{
	Use:   "agent [task...]",
	Short: "LLM-driven browser agent",
	Long: `Runs a natural-language task against a real browser using a ReAct loop:
the model proposes one action per step, the agent executes it and feeds the
observation back until the model emits a final answer or the iteration budget
runs out.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "run the browser without a visible window")
	rootCmd.Flags().IntVar(&flagMaxIterations, "max-iterations", 0, "override the iteration budget")
	rootCmd.SilenceUsage = true
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := env.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = flagMaxIterations
	}

	task := defaultTask
	if len(args) > 0 {
		task = strings.Join(args, " ")
	} else {
		fmt.Printf("No task provided, using default task:\n  %s\n\n", defaultTask)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	result, err := container.Runner.Run(ctx, task)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	switch result.Status {
	case entity.StatusCompleted:
		fmt.Println("\n=== FINAL RESULT ===")
		fmt.Println(result.FinalAnswer)
	case entity.StatusExhausted:
		fmt.Printf("\nMaximum iterations (%d) reached without completion.\n", result.Iterations)
		fmt.Println("\n--- Transcript ---")
		fmt.Println(result.Transcript)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
