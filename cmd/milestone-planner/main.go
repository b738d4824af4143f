package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/config"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/genetic"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/graph"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/orchestrator"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/reporter"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/ui"
)

var (
	flagConfig      string
	flagRuns        int
	flagMaxParallel int
	flagPopulation  int
	flagGenerations int
	flagSeed        int64
	flagStart       string
	flagJSON        bool
	flagProgress    bool
	flagAssignments bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "milestone-planner",
		Short: "Schedule a bug dependency tree against milestone deadlines",
		Long: `milestone-planner reads a scheduling request (bugs, engineers, dependency
graph, milestones), searches for the schedule that meets the most deadlines
with the least lateness and shortest makespan, and prints the result.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file with solver tuning")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [request.json]",
		Short: "Run the scheduling optimizer on a request file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			req, err := readRequest(args)
			if err != nil {
				return err
			}

			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			opts := orchestrator.Options{
				Runs:        pick(flagRuns, cfg.Runs),
				MaxParallel: pick(flagMaxParallel, cfg.MaxParallel),
				Seed:        cfg.Seed,
				Params: genetic.Params{
					PopulationSize: pick(flagPopulation, cfg.PopulationSize),
					Generations:    pick(flagGenerations, cfg.Generations),
					StallLimit:     cfg.StallLimit,
					TournamentSize: cfg.TournamentSize,
					MutationRate:   cfg.MutationRate,
					ReassignRate:   cfg.ReassignRate,
					FixedBias:      cfg.FixedBias,
				},
			}
			if flagSeed != 0 {
				opts.Seed = flagSeed
			}
			if flagStart != "" {
				start, err := time.Parse(time.RFC3339, flagStart)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
				opts.Start = start
			}
			if flagProgress {
				if flagJSON {
					opts.Progress = printProgressJSON
				} else {
					opts.Progress = printProgress
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcome, err := orchestrator.Solve(ctx, req, opts)
			if err != nil {
				return err
			}

			rep := reporter.New(req, outcome)
			if flagJSON {
				data, err := rep.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			rep.PrintSummary(os.Stdout)
			if flagAssignments {
				fmt.Println()
				rep.PrintAssignments(os.Stdout)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagRuns, "runs", 0, "Number of independent optimizer runs")
	cmd.Flags().IntVar(&flagMaxParallel, "max-parallel", 0, "Max concurrent runs")
	cmd.Flags().IntVar(&flagPopulation, "population", 0, "Population size per run")
	cmd.Flags().IntVar(&flagGenerations, "generations", 0, "Generations per run")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "Base random seed (0 = time-derived)")
	cmd.Flags().StringVar(&flagStart, "start", "", "Schedule start (RFC3339, default now)")
	cmd.Flags().BoolVar(&flagProgress, "progress", false, "Print per-generation best scores")
	cmd.Flags().BoolVar(&flagAssignments, "assignments", false, "Print per-bug placements of the best schedule")

	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [request.json]",
		Short: "Report graph consistency problems and the critical path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			req, err := readRequest(args)
			if err != nil {
				return err
			}

			g := graph.Build(req.Bugs)
			diag := reporter.Diagnose(g, req.Milestones)
			if flagJSON {
				data, err := diag.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			diag.Print(os.Stdout)
			return nil
		},
	}
}

// readRequest loads the request from the file argument, or stdin when none
// is given.
func readRequest(args []string) (*tracker.Request, error) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read request: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read request from stdin: %w", err)
		}
	}
	return tracker.ParseRequest(data)
}

func printProgress(p genetic.Progress) {
	fmt.Fprintf(os.Stderr, "  %s gen %d: %d met, %s late, %s span\n",
		ui.RunPrefix(p.RunID), p.Generation, p.Best.DeadlinesMet,
		p.Best.TotalLateness.Truncate(time.Minute), p.Best.Makespan.Truncate(time.Minute))
}

// printProgressJSON emits one progress message per line on stderr, keeping
// stdout reserved for the final response.
func printProgressJSON(p genetic.Progress) {
	msg := tracker.ProgressMessage{
		Type:            "progress",
		RunID:           p.RunID,
		Generation:      p.Generation,
		DeadlinesMet:    p.Best.DeadlinesMet,
		TotalLatenessMs: p.Best.TotalLateness.Milliseconds(),
		MakespanMs:      p.Best.Makespan.Milliseconds(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

// pick returns the flag override when set, the config value otherwise.
func pick(flag, cfg int) int {
	if flag > 0 {
		return flag
	}
	return cfg
}
