package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestMonteCarlo(t *testing.T, goal *float64) *calculation.MonteCarloResult {
	t.Helper()
	in := domain.DefaultUserInputs()
	in.Age, in.RetirementAge = 40, 65
	in.RetirementMarginalTaxRatePct = domain.Float(22)
	in.AnnualRetirementIncomeGoal = goal
	in.Assets = []domain.Asset{{Name: "401(k)", Type: domain.AssetTypePreTax, CurrentBalance: 100000, AnnualContribution: 10000, GrowthRatePct: 7}}
	r, err := calculation.NewProjectionEngine().RunMonteCarlo(context.Background(), &in,
		calculation.MonteCarloConfig{NumSimulations: 100, Seed: 11, KeepOutcomes: true})
	require.NoError(t, err)
	return r
}

func TestMonteCarloCSVReport(t *testing.T) {
	report := &MonteCarloCSVReport{Result: runTestMonteCarlo(t, domain.Float(40000))}

	var summary bytes.Buffer
	require.NoError(t, report.WriteSummaryCSV(&summary))
	records, err := csv.NewReader(strings.NewReader(summary.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value", "Description"}, records[0])
	assert.Equal(t, []string{"Simulations", "100", "Total number of simulations run"}, records[1])
	assert.Contains(t, summary.String(), "IncomeGoal,40000.00,")

	var percentiles bytes.Buffer
	require.NoError(t, report.WritePercentileCSV(&percentiles))
	records, err = csv.NewReader(strings.NewReader(percentiles.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 6)

	var detailed bytes.Buffer
	require.NoError(t, report.WriteDetailedCSV(&detailed))
	records, err = csv.NewReader(strings.NewReader(detailed.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 101)
}

func TestMonteCarloCSVReport_GenerateAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mc")
	report := &MonteCarloCSVReport{Result: runTestMonteCarlo(t, nil)}
	require.NoError(t, report.GenerateAllCSVReports(dir))
	for _, name := range []string{"monte_carlo_summary.csv", "monte_carlo_percentiles.csv", "monte_carlo_detailed.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestFormatMonteCarloConsole(t *testing.T) {
	out := string(FormatMonteCarloConsole(runTestMonteCarlo(t, nil)))
	assert.Contains(t, out, "MONTE CARLO SIMULATION")
	assert.Contains(t, out, "Simulations: 100")
	assert.Contains(t, out, "every simulation counts as a success")

	out = string(FormatMonteCarloConsole(runTestMonteCarlo(t, domain.Float(40000))))
	assert.Contains(t, out, "Probability of meeting $40,000.00/year")
}
