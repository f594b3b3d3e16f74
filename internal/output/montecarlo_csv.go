package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
)

// MonteCarloCSVReport generates CSV exports for Monte Carlo results
type MonteCarloCSVReport struct {
	Result *calculation.MonteCarloResult
}

// WriteSummaryCSV writes aggregate statistics as metric,value,description rows.
func (m *MonteCarloCSVReport) WriteSummaryCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	r := m.Result
	goal := ""
	if r.IncomeGoal != nil {
		goal = plainAmount(*r.IncomeGoal)
	}
	summaryData := [][]string{
		{"Simulations", strconv.Itoa(r.NumSimulations), "Total number of simulations run"},
		{"VolatilityPct", strconv.FormatFloat(r.VolatilityPct, 'f', 2, 64), "Standard deviation of annual growth"},
		{"Seed", strconv.FormatInt(r.Seed, 10), "Random seed (reproduces this run)"},
		{"MeanAfterTaxBalance", plainAmount(r.Balances.Mean), "Average after-tax balance at retirement"},
		{"StdDevAfterTaxBalance", plainAmount(r.Balances.StdDev), "Standard deviation of after-tax balance"},
		{"MinAfterTaxBalance", plainAmount(r.Balances.Min), "Worst simulated after-tax balance"},
		{"MaxAfterTaxBalance", plainAmount(r.Balances.Max), "Best simulated after-tax balance"},
		{"CI95Lower", plainAmount(r.ConfidenceInterval.Lower), "Lower bound of the 95% interval"},
		{"CI95Upper", plainAmount(r.ConfidenceInterval.Upper), "Upper bound of the 95% interval"},
		{"MedianRetirementIncome", plainAmount(r.Incomes.Percentiles.P50), "Median first-year retirement income"},
		{"IncomeGoal", goal, "Annual retirement income goal, if set"},
		{"SuccessRatePct", strconv.FormatFloat(r.SuccessRate*100, 'f', 2, 64), "Share of simulations meeting the income goal"},
	}

	for _, row := range summaryData {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WritePercentileCSV writes balance and income percentiles.
func (m *MonteCarloCSVReport) WritePercentileCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Percentile", "AfterTaxBalance", "RetirementIncome", "Interpretation"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	b, in := m.Result.Balances.Percentiles, m.Result.Incomes.Percentiles
	percentileData := [][]string{
		{"10th", plainAmount(b.P10), plainAmount(in.P10), "Worst 10% of scenarios"},
		{"25th", plainAmount(b.P25), plainAmount(in.P25), "Below average scenarios"},
		{"50th (Median)", plainAmount(b.P50), plainAmount(in.P50), "Typical scenario"},
		{"75th", plainAmount(b.P75), plainAmount(in.P75), "Above average scenarios"},
		{"90th", plainAmount(b.P90), plainAmount(in.P90), "Best 10% of scenarios"},
	}
	for _, row := range percentileData {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write percentile row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDetailedCSV writes one row per simulation. Outcomes are only present
// when the run was configured to keep them.
func (m *MonteCarloCSVReport) WriteDetailedCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"SimulationID", "FutureValuePreTax", "AfterTaxBalance", "RetirementIncome", "Success"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, sim := range m.Result.Simulations {
		row := []string{
			strconv.Itoa(sim.Index),
			plainAmount(sim.FutureValue),
			plainAmount(sim.AfterTaxBalance),
			plainAmount(sim.RetirementIncome),
			strconv.FormatBool(sim.Success),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write simulation row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// GenerateAllCSVReports creates all CSV reports in a single directory
func (m *MonteCarloCSVReport) GenerateAllCSVReports(outputDir string) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reports := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"monte_carlo_summary.csv", m.WriteSummaryCSV},
		{"monte_carlo_percentiles.csv", m.WritePercentileCSV},
		{"monte_carlo_detailed.csv", m.WriteDetailedCSV},
	}
	for _, r := range reports {
		if err := writeFile(filepath.Join(outputDir, r.name), r.write); err != nil {
			return fmt.Errorf("failed to generate %s: %w", r.name, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
