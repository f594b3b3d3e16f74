package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/config"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, name string) *config.Configuration {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile("../testdata/" + name)
	require.NoError(t, err)
	return cfg
}

func TestLegacyConfigProjection(t *testing.T) {
	cfg := loadConfig(t, "legacy.yaml")

	p, err := calculation.NewProjectionEngine().Project(&cfg.UserInputs)
	require.NoError(t, err)

	m := p.Metrics()
	assert.Equal(t, 2296349.27, m[domain.MetricTotalFutureValue])
	assert.Equal(t, 1722261.95, m[domain.MetricTotalAfterTax])
	assert.Equal(t, m[domain.AssetFutureValueKey(0)], m[domain.MetricTotalFutureValue])
	assert.Equal(t, 35, p.YearsToRetirement)
	assert.Len(t, p.Drawdown, 25)
	assert.Nil(t, p.Gap)
}

func TestMixedPortfolioProjection(t *testing.T) {
	cfg := loadConfig(t, "mixed_portfolio.yaml")

	p, err := calculation.NewProjectionEngine().Project(&cfg.UserInputs)
	require.NoError(t, err)
	require.Len(t, p.Assets, 4)

	expected := []struct {
		fv, afterTax float64
		rule         domain.TaxRule
	}{
		{350000, 273000, domain.RuleOrdinaryIncome},
		{175000, 175000, domain.RuleTaxFree},
		{108548.65, 95266.35, domain.RuleCapitalGains},
		{35000, 31150, domain.RuleHSASplit},
	}
	for i, want := range expected {
		a := p.Assets[i]
		assert.InDelta(t, want.fv, a.FutureValue, 0.01, a.Name)
		assert.InDelta(t, want.afterTax, a.AfterTaxValue, 0.01, a.Name)
		assert.Equal(t, want.rule, a.TaxRule, a.Name)
	}

	assert.InDelta(t, 668548.65, p.TotalFutureValue, 0.01)
	assert.InDelta(t, 574416.35, p.TotalAfterTax, 0.01)
	assert.InDelta(t, 94132.30, p.TotalTaxLiability, 0.01)
	assert.InDelta(t, 25738.70, p.AnnualRetirementIncome, 0.01)

	require.NotNil(t, p.Gap)
	assert.False(t, p.Gap.OnTrack)
	assert.InDelta(t, 60000-25738.70, p.Gap.AnnualShortfall, 0.01)
	assert.Greater(t, p.Gap.AdditionalAnnualContribution, 0.0)
	assert.NotEmpty(t, p.Gap.Recommendations)
}

func TestInvalidAssetTypeIsConfigurationError(t *testing.T) {
	_, err := config.NewInputParser().LoadFromFile("../testdata/invalid_asset_type.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestExplanationMatchesProjection(t *testing.T) {
	cfg := loadConfig(t, "mixed_portfolio.yaml")
	engine := calculation.NewProjectionEngine()

	p, err := engine.Project(&cfg.UserInputs)
	require.NoError(t, err)
	text, err := engine.ExplainProjectedBalance(&cfg.UserInputs)
	require.NoError(t, err)

	for _, a := range p.Assets {
		assert.Contains(t, text, a.Name)
		assert.Contains(t, text, output.FormatCurrency(a.AfterTaxValue))
	}
	assert.Contains(t, text, output.FormatCurrency(p.AnnualRetirementIncome))
}

func TestEveryFormatterRendersProjection(t *testing.T) {
	cfg := loadConfig(t, "mixed_portfolio.yaml")
	p, err := calculation.NewProjectionEngine().Project(&cfg.UserInputs)
	require.NoError(t, err)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.GenerateReport(&buf, p, name))
			assert.NotZero(t, buf.Len())
		})
	}
}

func TestMonteCarloFromConfigIsReproducible(t *testing.T) {
	cfg := loadConfig(t, "mixed_portfolio.yaml")
	require.NotNil(t, cfg.MonteCarlo)
	engine := calculation.NewProjectionEngine()

	first, err := engine.RunMonteCarlo(context.Background(), &cfg.UserInputs, *cfg.MonteCarlo)
	require.NoError(t, err)
	second, err := engine.RunMonteCarlo(context.Background(), &cfg.UserInputs, *cfg.MonteCarlo)
	require.NoError(t, err)

	assert.Equal(t, 500, first.NumSimulations)
	assert.Equal(t, int64(2024), first.Seed)
	assert.Equal(t, first.Balances, second.Balances)
	assert.Equal(t, first.Incomes, second.Incomes)
	assert.Equal(t, first.SuccessRate, second.SuccessRate)
	assert.GreaterOrEqual(t, first.SuccessRate, 0.0)
	assert.LessOrEqual(t, first.SuccessRate, 1.0)

	report := &output.MonteCarloCSVReport{Result: first}
	require.NoError(t, report.GenerateAllCSVReports(t.TempDir()))
}
