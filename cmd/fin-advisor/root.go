package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/config"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/internal/output"
	"github.com/finadvisor/retirement-forecast/internal/selftest"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errSelfTestFailed = errors.New("self-test failed")

type rootOptions struct {
	configFile string
	format     string
	outputFile string
	explain    bool
	verbose    bool
	runTests   bool

	age            int
	retirementAge  int
	lifeExpectancy int
	income         float64
	contribution   float64
	currentBalance float64
	growthRate     float64
	inflationRate  float64
	taxRate        float64
	retirementTax  float64
	projectTaxRate bool
	lifeExpense    float64
	incomeGoal     float64
	assetTypes     []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "fin-advisor",
		Short: "Post-tax retirement forecast",
		Long: `fin-advisor projects retirement account balances to retirement age,
applies account-specific tax treatment and derives a sustainable,
inflation-adjusted retirement income.

Inputs come either from a YAML file (--config) or from the single-account
legacy flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.runTests {
				return runSelfTest(cmd.OutOrStdout())
			}
			engine := newEngine(cmd, opts.verbose)
			inputs, err := opts.loadInputs(cmd)
			if err != nil {
				return err
			}
			if opts.explain {
				return runExplain(cmd.OutOrStdout(), engine, inputs)
			}
			return runProjection(cmd.OutOrStdout(), engine, inputs, opts.format, opts.outputFile)
		},
	}

	opts.addInputFlags(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "console",
		fmt.Sprintf("output format %v", output.AvailableFormatterNames()))
	flags.StringVarP(&opts.outputFile, "output", "o", "", "write the report to this file instead of stdout")
	flags.BoolVar(&opts.explain, "explain", false, "print a step-by-step explanation of the projection")
	flags.BoolVar(&opts.runTests, "run-tests", false, "run the built-in self-test suite and exit")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newExplainCmd(opts),
		newMonteCarloCmd(opts),
		newServeCmd(opts),
		newExampleConfigCmd(),
	)

	return cmd
}

// addInputFlags registers the legacy single-account flags plus --config.
func (o *rootOptions) addInputFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configFile, "config", "c", "", "YAML input file (overrides the legacy flags)")
	f.IntVar(&o.age, "age", 30, "current age")
	f.IntVar(&o.retirementAge, "retirement-age", 65, "planned retirement age")
	f.IntVar(&o.lifeExpectancy, "life-expectancy", domain.DefaultLifeExpectancy, "life expectancy")
	f.Float64Var(&o.income, "income", 85000, "annual income")
	f.Float64Var(&o.contribution, "contribution-rate", 15, "percent of income contributed each year")
	f.Float64Var(&o.currentBalance, "current-balance", 50000, "current retirement savings")
	f.Float64Var(&o.growthRate, "growth-rate", domain.DefaultExpectedGrowthRatePct, "expected annual growth rate (%)")
	f.Float64Var(&o.inflationRate, "inflation-rate", domain.DefaultInflationRatePct, "expected annual inflation rate (%)")
	f.Float64Var(&o.taxRate, "tax-rate", 25, "current marginal tax rate (%)")
	f.Float64Var(&o.retirementTax, "retirement-tax-rate", -1, "retirement marginal tax rate (%), defaults to --tax-rate")
	f.BoolVar(&o.projectTaxRate, "project-tax-rate", false, "look up the retirement tax rate from the IRS brackets")
	f.Float64Var(&o.lifeExpense, "life-expense", 0, "one-time expense deducted at retirement")
	f.Float64Var(&o.incomeGoal, "income-goal", 0, "desired annual retirement income")
	f.StringSliceVar(&o.assetTypes, "asset-types", nil,
		`account names to split the legacy balance and contribution across, e.g. "Roth IRA (Post-Tax)"`)
}

// loadInputs reads --config when given, otherwise builds legacy inputs.
func (o *rootOptions) loadInputs(cmd *cobra.Command) (*domain.UserInputs, error) {
	cfg, err := o.loadConfiguration(cmd)
	if err != nil {
		return nil, err
	}
	return &cfg.UserInputs, nil
}

func (o *rootOptions) loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	if o.configFile != "" {
		return config.NewInputParser().LoadFromFile(o.configFile)
	}

	inputs := o.legacyInputs(cmd)
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	return &config.Configuration{UserInputs: inputs}, nil
}

func (o *rootOptions) legacyInputs(cmd *cobra.Command) domain.UserInputs {
	inputs := domain.DefaultUserInputs()
	inputs.Age = o.age
	inputs.RetirementAge = o.retirementAge
	inputs.LifeExpectancy = o.lifeExpectancy
	inputs.AnnualIncome = o.income
	inputs.ContributionRatePct = o.contribution
	inputs.CurrentBalance = o.currentBalance
	inputs.ExpectedGrowthRatePct = o.growthRate
	inputs.InflationRatePct = o.inflationRate
	inputs.CurrentMarginalTaxRatePct = o.taxRate
	inputs.ProjectRetirementTaxRate = o.projectTaxRate

	flags := cmd.Flags()
	if flags.Changed("retirement-tax-rate") {
		inputs.RetirementMarginalTaxRatePct = domain.Float(o.retirementTax)
	}
	if flags.Changed("life-expense") {
		inputs.OneTimeLifeExpense = domain.Float(o.lifeExpense)
	}
	if flags.Changed("income-goal") {
		inputs.AnnualRetirementIncomeGoal = domain.Float(o.incomeGoal)
	}
	inputs.Assets = inputs.AssetsFromTypeNames(o.assetTypes)
	return inputs
}

// newLogger writes human-readable zerolog output to stderr.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func newEngine(cmd *cobra.Command, verbose bool) *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	engine.Debug = verbose
	engine.SetLogger(calculation.NewZerologLogger(newLogger(cmd.ErrOrStderr(), verbose)))
	return engine
}

func runProjection(w io.Writer, engine *calculation.ProjectionEngine, inputs *domain.UserInputs, format, outputFile string) error {
	p, err := engine.Project(inputs)
	if err != nil {
		return err
	}
	if outputFile != "" {
		if err := output.WriteReportFile(p, format, outputFile); err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", outputFile)
		return nil
	}
	return output.GenerateReport(w, p, format)
}

func runExplain(w io.Writer, engine *calculation.ProjectionEngine, inputs *domain.UserInputs) error {
	text, err := engine.ExplainProjectedBalance(inputs)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func runSelfTest(w io.Writer) error {
	if res := selftest.Run(w, selftest.Checks()); !res.OK() {
		return errSelfTestFailed
	}
	return nil
}
