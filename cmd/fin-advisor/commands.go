package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/config"
	"github.com/finadvisor/retirement-forecast/internal/output"
	"github.com/finadvisor/retirement-forecast/internal/server"
	"github.com/spf13/cobra"
)

func newExplainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Explain how the projected balance is derived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, err := opts.loadInputs(cmd)
			if err != nil {
				return err
			}
			return runExplain(cmd.OutOrStdout(), newEngine(cmd, opts.verbose), inputs)
		},
	}
}

func newMonteCarloCmd(opts *rootOptions) *cobra.Command {
	var (
		simulations int
		volatility  float64
		seed        int64
		csvDir      string
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run a Monte Carlo simulation over randomized growth rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfiguration(cmd)
			if err != nil {
				return err
			}

			mc := calculation.DefaultMonteCarloConfig()
			if cfg.MonteCarlo != nil {
				mc = *cfg.MonteCarlo
			}
			flags := cmd.Flags()
			if flags.Changed("simulations") {
				mc.NumSimulations = simulations
			}
			if flags.Changed("volatility") {
				mc.VolatilityPct = volatility
			}
			if flags.Changed("seed") {
				mc.Seed = seed
			}
			mc.KeepOutcomes = csvDir != ""

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := newEngine(cmd, opts.verbose)
			result, err := engine.RunMonteCarlo(ctx, &cfg.UserInputs, mc)
			if err != nil {
				return err
			}

			if _, err := cmd.OutOrStdout().Write(output.FormatMonteCarloConsole(result)); err != nil {
				return err
			}
			if csvDir != "" {
				report := &output.MonteCarloCSVReport{Result: result}
				if err := report.GenerateAllCSVReports(csvDir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "CSV reports written to %s\n", csvDir)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&simulations, "simulations", calculation.DefaultSimulations,
		fmt.Sprintf("number of simulations (%d-%d)", calculation.MinSimulations, calculation.MaxSimulations))
	f.Float64Var(&volatility, "volatility", calculation.DefaultVolatilityPct, "annual return volatility (%)")
	f.Int64Var(&seed, "seed", 0, "random seed, 0 for a fresh seed")
	f.StringVar(&csvDir, "csv-dir", "", "also write CSV reports to this directory")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd.ErrOrStderr(), opts.verbose)
			engine := calculation.NewProjectionEngine()
			engine.SetLogger(calculation.NewZerologLogger(log))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(engine, log).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("FIN_ADVISOR_ADDR", ":8080"), "listen address")
	return cmd
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config <file>",
		Short: "Write an example YAML configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			if err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
			return nil
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
