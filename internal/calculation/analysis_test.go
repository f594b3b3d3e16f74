package calculation

import (
	"testing"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeIncomeGap_Shortfall(t *testing.T) {
	in := singleAssetInputs(domain.Asset{Name: "401(k)", Type: domain.AssetTypePreTax, CurrentBalance: 50000, AnnualContribution: 12750, GrowthRatePct: 7}, 25)
	p, err := NewProjectionEngine().Project(in)
	require.NoError(t, err)

	goal := p.AnnualRetirementIncome * 1.5
	gap, err := AnalyzeIncomeGap(p, goal)
	require.NoError(t, err)

	assert.False(t, gap.OnTrack)
	assert.InDelta(t, p.AnnualRetirementIncome*0.5, gap.AnnualShortfall, 1e-6)
	assert.InDelta(t, p.TotalAfterTax*1.5, gap.RequiredBalance, 1e-3)
	assert.InDelta(t, p.TotalAfterTax*0.5, gap.BalanceShortfall, 1e-3)

	// Contributing the suggested amount at the same growth and tax rate closes the gap.
	extra := gap.AdditionalAnnualContribution * AnnuityFactor(7, 35) * 0.75
	assert.InDelta(t, gap.BalanceShortfall, extra, 1e-3)
	assert.NotEmpty(t, gap.Recommendations)
}

func TestAnalyzeIncomeGap_OnTrack(t *testing.T) {
	in := singleAssetInputs(domain.Asset{Name: "Roth IRA", Type: domain.AssetTypePostTax, CurrentBalance: 500000, GrowthRatePct: 6}, 25)
	p, err := NewProjectionEngine().Project(in)
	require.NoError(t, err)

	gap, err := AnalyzeIncomeGap(p, 10000)
	require.NoError(t, err)
	assert.True(t, gap.OnTrack)
	assert.Equal(t, 0.0, gap.AnnualShortfall)
	assert.Equal(t, 0.0, gap.BalanceShortfall)
	assert.Equal(t, 0.0, gap.AdditionalAnnualContribution)
}

func TestAnalyzeIncomeGap_NoWorkingYearsLeft(t *testing.T) {
	in := singleAssetInputs(domain.Asset{Name: "IRA", Type: domain.AssetTypePreTax, CurrentBalance: 100000, GrowthRatePct: 5}, 20)
	in.Age = 65
	p, err := NewProjectionEngine().Project(in)
	require.NoError(t, err)

	gap, err := AnalyzeIncomeGap(p, 50000)
	require.NoError(t, err)
	assert.False(t, gap.OnTrack)
	assert.Equal(t, 0.0, gap.AdditionalAnnualContribution)
}

func TestAnalyzeIncomeGap_Errors(t *testing.T) {
	_, err := AnalyzeIncomeGap(nil, 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = AnalyzeIncomeGap(&domain.Projection{YearsInRetirement: 20}, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
