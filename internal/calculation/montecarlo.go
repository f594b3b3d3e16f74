package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// Monte Carlo limits and defaults.
const (
	MinSimulations       = 100
	MaxSimulations       = 10000
	DefaultSimulations   = 1000
	DefaultVolatilityPct = 15.0

	// Simulated annual growth is clamped to this range.
	minSimulatedGrowthPct = -50.0
	maxSimulatedGrowthPct = 100.0

	maxConcurrentSimulations = 10
)

// MonteCarloConfig holds configuration for Monte Carlo simulations. A zero
// NumSimulations or VolatilityPct takes the default; a zero Seed draws a
// fresh seed, so only non-zero seeds are reproducible.
type MonteCarloConfig struct {
	NumSimulations int     `json:"num_simulations" yaml:"num_simulations"`
	VolatilityPct  float64 `json:"volatility_pct" yaml:"volatility_pct"`
	Seed           int64   `json:"seed" yaml:"seed"`
	KeepOutcomes   bool    `json:"keep_outcomes" yaml:"keep_outcomes"`
}

// DefaultMonteCarloConfig returns 1000 simulations at 15% volatility.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{NumSimulations: DefaultSimulations, VolatilityPct: DefaultVolatilityPct}
}

// Validate normalizes defaults and checks bounds.
func (c *MonteCarloConfig) Validate() error {
	if c.NumSimulations == 0 {
		c.NumSimulations = DefaultSimulations
	}
	if c.NumSimulations < MinSimulations || c.NumSimulations > MaxSimulations {
		return fmt.Errorf("%w: num_simulations must be between %d and %d (got %d)",
			domain.ErrInvalidInput, MinSimulations, MaxSimulations, c.NumSimulations)
	}
	if c.VolatilityPct == 0 {
		c.VolatilityPct = DefaultVolatilityPct
	}
	if c.VolatilityPct < 0 || math.IsNaN(c.VolatilityPct) || math.IsInf(c.VolatilityPct, 0) {
		return fmt.Errorf("%w: volatility_pct must be a positive number (got %g)", domain.ErrInvalidInput, c.VolatilityPct)
	}
	return nil
}

// MonteCarloSimulator runs randomized growth scenarios over a set of inputs.
type MonteCarloSimulator struct {
	Engine         *ProjectionEngine
	NumSimulations int
	VolatilityPct  float64
	Seed           int64
	KeepOutcomes   bool
}

// MonteCarloResult represents the results of a Monte Carlo simulation
type MonteCarloResult struct {
	NumSimulations    int     `json:"num_simulations"`
	VolatilityPct     float64 `json:"volatility_pct"`
	Seed              int64   `json:"seed"`
	YearsToRetirement int     `json:"years_to_retirement"`
	YearsInRetirement int     `json:"years_in_retirement"`

	Balances           DistributionStats  `json:"after_tax_balances"`
	Incomes            DistributionStats  `json:"retirement_incomes"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval_95"`

	IncomeGoal  *float64 `json:"income_goal,omitempty"`
	SuccessRate float64  `json:"success_rate"`

	// Baseline is the deterministic projection at the expected growth rates.
	Baseline *domain.Projection `json:"baseline"`

	Simulations []SimulationOutcome `json:"simulations,omitempty"`
}

// SimulationOutcome represents a single Monte Carlo simulation outcome
type SimulationOutcome struct {
	Index            int     `json:"index"`
	FutureValue      float64 `json:"future_value_pre_tax"`
	AfterTaxBalance  float64 `json:"after_tax_balance"`
	RetirementIncome float64 `json:"retirement_income"`
	Success          bool    `json:"success"`
}

// DistributionStats summarizes one simulated quantity.
type DistributionStats struct {
	Mean        float64          `json:"mean"`
	StdDev      float64          `json:"std_dev"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
	Percentiles PercentileRanges `json:"percentiles"`
}

// PercentileRanges represents percentile ranges for Monte Carlo results
type PercentileRanges struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// ConfidenceInterval bounds the central 95% of after-tax balances.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewMonteCarloSimulator creates a new Monte Carlo simulator
func NewMonteCarloSimulator(engine *ProjectionEngine, config MonteCarloConfig) (*MonteCarloSimulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		engine = NewProjectionEngine()
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}

	return &MonteCarloSimulator{
		Engine:         engine,
		NumSimulations: config.NumSimulations,
		VolatilityPct:  config.VolatilityPct,
		Seed:           config.Seed,
		KeepOutcomes:   config.KeepOutcomes,
	}, nil
}

// RunMonteCarlo is a convenience wrapper building a simulator on pe.
func (pe *ProjectionEngine) RunMonteCarlo(ctx context.Context, inputs *domain.UserInputs, config MonteCarloConfig) (*MonteCarloResult, error) {
	mcs, err := NewMonteCarloSimulator(pe, config)
	if err != nil {
		return nil, err
	}
	return mcs.RunSimulation(ctx, inputs)
}

// RunSimulation executes the Monte Carlo simulation. Simulation i draws from
// its own source seeded with Seed+i, so results do not depend on scheduling.
func (mcs *MonteCarloSimulator) RunSimulation(ctx context.Context, inputs *domain.UserInputs) (*MonteCarloResult, error) {
	// Validates inputs and the life expense against the expected-rate outcome.
	baseline, err := mcs.Engine.Project(inputs)
	if err != nil {
		return nil, err
	}
	assets := inputs.EffectiveAssets()
	log := mcs.Engine.logger()
	log.Debugf("monte carlo: %d simulations, volatility %.2f%%, seed %d", mcs.NumSimulations, mcs.VolatilityPct, mcs.Seed)

	// Run simulations in parallel
	results := make([]SimulationOutcome, mcs.NumSimulations)
	errs := make([]error, mcs.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentSimulations) // Limit concurrent simulations

launch:
	for i := 0; i < mcs.NumSimulations; i++ {
		select {
		case <-ctx.Done():
			break launch
		case semaphore <- struct{}{}:
		}
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[simIndex], errs[simIndex] = mcs.runSingleSimulation(inputs, assets, baseline, simIndex)
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("monte carlo simulation cancelled: %w", err)
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	balances := make([]float64, len(results))
	incomes := make([]float64, len(results))
	successes := 0
	for i, r := range results {
		balances[i] = r.AfterTaxBalance
		incomes[i] = r.RetirementIncome
		if r.Success {
			successes++
		}
	}

	result := &MonteCarloResult{
		NumSimulations:     mcs.NumSimulations,
		VolatilityPct:      mcs.VolatilityPct,
		Seed:               mcs.Seed,
		YearsToRetirement:  baseline.YearsToRetirement,
		YearsInRetirement:  baseline.YearsInRetirement,
		Balances:           summarize(balances),
		Incomes:            summarize(incomes),
		ConfidenceInterval: confidenceInterval(balances, 0.95),
		IncomeGoal:         inputs.AnnualRetirementIncomeGoal,
		SuccessRate:        float64(successes) / float64(len(results)),
		Baseline:           baseline,
	}
	if mcs.KeepOutcomes {
		result.Simulations = results
	}

	log.Infof("monte carlo complete: median after-tax balance %.2f, success rate %.1f%%",
		result.Balances.Percentiles.P50, result.SuccessRate*100)
	return result, nil
}

// runSingleSimulation compounds every asset year by year with a randomized
// growth rate, then applies the same tax and drawdown rules as Project.
func (mcs *MonteCarloSimulator) runSingleSimulation(inputs *domain.UserInputs, assets []domain.Asset, baseline *domain.Projection, simIndex int) (SimulationOutcome, error) {
	rng := rand.New(rand.NewSource(mcs.Seed + int64(simIndex)))
	years := baseline.YearsToRetirement

	futureValues := make([]float64, len(assets))
	var totalFV float64
	for i, asset := range assets {
		balance := asset.CurrentBalance
		for year := 1; year <= years; year++ {
			growth := mcs.sampleGrowthRate(rng, asset.GrowthRatePct)
			balance = balance*(1+growth/100) + asset.AnnualContribution
		}
		futureValues[i] = balance
		totalFV += balance
	}
	if err := requireFinite("simulated pre-tax future value", totalFV); err != nil {
		return SimulationOutcome{}, err
	}

	rate, err := mcs.Engine.retirementTaxRate(inputs, totalFV, baseline.YearsInRetirement)
	if err != nil {
		return SimulationOutcome{}, err
	}

	var afterTax float64
	for i, asset := range assets {
		outcome, err := ApplyTaxTreatment(asset, futureValues[i], asset.TotalContributions(years), rate, inputs.CapitalGainsPctFor(asset))
		if err != nil {
			return SimulationOutcome{}, err
		}
		afterTax += outcome.AfterTax
	}
	if err := requireFinite("simulated after-tax balance", afterTax); err != nil {
		return SimulationOutcome{}, err
	}
	if baseline.HasLifeExpense {
		afterTax = math.Max(0, afterTax-baseline.OneTimeLifeExpense)
	}

	income, err := RetirementIncome(afterTax, baseline.RetirementGrowthRatePct, baseline.InflationRatePct, baseline.YearsInRetirement)
	if err != nil {
		return SimulationOutcome{}, err
	}

	success := true
	if inputs.AnnualRetirementIncomeGoal != nil {
		success = income >= *inputs.AnnualRetirementIncomeGoal
	}

	return SimulationOutcome{
		Index:            simIndex,
		FutureValue:      totalFV,
		AfterTaxBalance:  afterTax,
		RetirementIncome: income,
		Success:          success,
	}, nil
}

// sampleGrowthRate draws from N(meanPct, volatility) clamped to the allowed range.
func (mcs *MonteCarloSimulator) sampleGrowthRate(rng *rand.Rand, meanPct float64) float64 {
	g := meanPct + rng.NormFloat64()*mcs.VolatilityPct
	return math.Max(minSimulatedGrowthPct, math.Min(maxSimulatedGrowthPct, g))
}

// summarize computes mean, sample standard deviation, range and percentiles.
func summarize(values []float64) DistributionStats {
	n := len(values)
	if n == 0 {
		return DistributionStats{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var stdDev float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		stdDev = math.Sqrt(sq / float64(n-1))
	}

	return DistributionStats{
		Mean:   mean,
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Percentiles: PercentileRanges{
			P10: percentile(sorted, 0.10),
			P25: percentile(sorted, 0.25),
			P50: percentile(sorted, 0.50),
			P75: percentile(sorted, 0.75),
			P90: percentile(sorted, 0.90),
		},
	}
}

// percentile returns sorted[int(n*p)], clamped to the last element.
func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func confidenceInterval(values []float64, confidence float64) ConfidenceInterval {
	if len(values) == 0 {
		return ConfidenceInterval{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	alpha := 1 - confidence
	return ConfidenceInterval{
		Lower: percentile(sorted, alpha/2),
		Upper: percentile(sorted, 1-alpha/2),
	}
}
