package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInputs() UserInputs {
	in := DefaultUserInputs()
	in.Age = 30
	in.RetirementAge = 65
	in.AnnualIncome = 85000
	in.ContributionRatePct = 15
	in.CurrentBalance = 50000
	in.CurrentMarginalTaxRatePct = 25
	return in
}

func TestDefaultUserInputs(t *testing.T) {
	in := DefaultUserInputs()
	assert.Equal(t, 90, in.LifeExpectancy)
	assert.Equal(t, 7.0, in.ExpectedGrowthRatePct)
	assert.Equal(t, 3.0, in.InflationRatePct)
	assert.Equal(t, 4.0, in.RetirementGrowthPct())
	assert.Empty(t, in.Assets)
}

func TestUserInputs_Rates(t *testing.T) {
	in := validInputs()
	assert.Equal(t, 25, in.YearsInRetirement())
	assert.Equal(t, 25.0, in.RetirementTaxRatePct())

	in.RetirementMarginalTaxRatePct = Float(12)
	in.RetirementGrowthRatePct = Float(5)
	assert.Equal(t, 12.0, in.RetirementTaxRatePct())
	assert.Equal(t, 5.0, in.RetirementGrowthPct())
}

func TestUserInputs_CapitalGainsPctFor(t *testing.T) {
	in := validInputs()
	plain := Asset{Name: "Brokerage"}
	override := Asset{Name: "Brokerage", CapitalGainsRatePct: Float(20)}

	assert.Equal(t, 15.0, in.CapitalGainsPctFor(plain))
	in.CapitalGainsRatePct = Float(0)
	assert.Equal(t, 0.0, in.CapitalGainsPctFor(plain))
	assert.Equal(t, 20.0, in.CapitalGainsPctFor(override))
}

func TestUserInputs_EffectiveAssets(t *testing.T) {
	in := validInputs()

	legacy := in.EffectiveAssets()
	require.Len(t, legacy, 1)
	assert.Equal(t, LegacyAssetName, legacy[0].Name)
	assert.Equal(t, AssetTypePreTax, legacy[0].Type)
	assert.Equal(t, 50000.0, legacy[0].CurrentBalance)
	assert.InDelta(t, 12750.0, legacy[0].AnnualContribution, 1e-9)
	assert.Equal(t, 7.0, legacy[0].GrowthRatePct)

	in.Assets = []Asset{{Name: "Roth IRA", Type: AssetTypePostTax}}
	assets := in.EffectiveAssets()
	require.Len(t, assets, 1)
	assets[0].Name = "changed"
	assert.Equal(t, "Roth IRA", in.Assets[0].Name, "EffectiveAssets must return a copy")
}

func TestUserInputs_AssetsFromTypeNames(t *testing.T) {
	in := validInputs()
	assert.Nil(t, in.AssetsFromTypeNames(nil))

	assets := in.AssetsFromTypeNames([]string{"401(k) / Traditional IRA (Pre-Tax)", "Roth IRA (Post-Tax)"})
	require.Len(t, assets, 2)
	assert.Equal(t, AssetTypePreTax, assets[0].Type)
	assert.Equal(t, AssetTypePostTax, assets[1].Type)
	assert.Equal(t, KindRoth, assets[1].ResolvedKind())

	var balance, contribution float64
	for _, a := range assets {
		assert.Equal(t, in.ExpectedGrowthRatePct, a.GrowthRatePct)
		balance += a.CurrentBalance
		contribution += a.AnnualContribution
	}
	assert.InDelta(t, in.CurrentBalance, balance, 1e-9)
	assert.InDelta(t, in.LegacyAnnualContribution(), contribution, 1e-9)

	single := in.AssetsFromTypeNames([]string{"Brokerage Account"})
	require.Len(t, single, 1)
	assert.Equal(t, in.CurrentBalance, single[0].CurrentBalance)
}

func TestUserInputs_Validate(t *testing.T) {
	base := validInputs()
	require.NoError(t, base.Validate())

	testCases := []struct {
		desc   string
		mutate func(in *UserInputs)
		kind   error
	}{
		{"negative age", func(in *UserInputs) { in.Age = -1 }, ErrInvalidInput},
		{"retirement before age", func(in *UserInputs) { in.RetirementAge = 29 }, ErrInvalidInput},
		{"life expectancy at retirement", func(in *UserInputs) { in.LifeExpectancy = 65 }, ErrInvalidInput},
		{"negative income", func(in *UserInputs) { in.AnnualIncome = -5 }, ErrInvalidInput},
		{"contribution above 100", func(in *UserInputs) { in.ContributionRatePct = 120 }, ErrInvalidInput},
		{"NaN balance", func(in *UserInputs) { in.CurrentBalance = math.NaN() }, ErrInvalidInput},
		{"growth at -100", func(in *UserInputs) { in.ExpectedGrowthRatePct = -100 }, ErrInvalidInput},
		{"infinite inflation", func(in *UserInputs) { in.InflationRatePct = math.Inf(1) }, ErrInvalidInput},
		{"tax rate above 100", func(in *UserInputs) { in.CurrentMarginalTaxRatePct = 101 }, ErrInvalidInput},
		{"retirement tax rate negative", func(in *UserInputs) { in.RetirementMarginalTaxRatePct = Float(-1) }, ErrInvalidInput},
		{"negative life expense", func(in *UserInputs) { in.OneTimeLifeExpense = Float(-1) }, ErrInvalidInput},
		{"negative income goal", func(in *UserInputs) { in.AnnualRetirementIncomeGoal = Float(-1) }, ErrInvalidInput},
		{"bad asset type", func(in *UserInputs) {
			in.Assets = []Asset{{Name: "Gold", Type: "commodity"}}
		}, ErrConfiguration},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			in := validInputs()
			tc.mutate(&in)
			assert.ErrorIs(t, in.Validate(), tc.kind)
		})
	}
}

func TestUserInputs_ValidateAllowsRetiredAndNegativeGrowth(t *testing.T) {
	in := validInputs()
	in.Age = 65
	in.ExpectedGrowthRatePct = -20
	in.InflationRatePct = -1
	assert.NoError(t, in.Validate())
}
