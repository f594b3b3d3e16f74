package calculation

import (
	"math"
	"testing"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRSTaxBrackets(t *testing.T) {
	brackets := IRSTaxBrackets()
	require.Len(t, brackets, 7)
	assert.Equal(t, 0.0, brackets[0].Min)
	assert.True(t, math.IsInf(brackets[len(brackets)-1].Max, 1))

	for i := 1; i < len(brackets); i++ {
		assert.Equal(t, brackets[i-1].Max, brackets[i].Min, "brackets must be contiguous")
		assert.Greater(t, brackets[i].RatePct, brackets[i-1].RatePct)
	}

	// Callers get their own copy.
	brackets[0].RatePct = 99
	assert.Equal(t, 10.0, IRSTaxBrackets()[0].RatePct)
}

func TestProjectMarginalRate(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expected float64
	}{
		{"zero income", 0, 10},
		{"just below first bound", 10999.99, 10},
		{"lower bound inclusive", 11000, 12},
		{"22 percent bracket", 44725, 22},
		{"middle of 22 percent bracket", 60000, 22},
		{"24 percent bracket", 95375, 24},
		{"32 percent bracket", 182050, 32},
		{"35 percent bracket", 231250, 35},
		{"top bracket", 578125, 37},
		{"far above top bound", 1e9, 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := ProjectMarginalRate(tt.income)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rate)
		})
	}
}

func TestProjectMarginalRate_Errors(t *testing.T) {
	_, err := ProjectMarginalRate(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty := &MarginalRateProjector{}
	_, err = empty.ProjectMarginalRate(50000)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAssetFutureValue(t *testing.T) {
	asset := domain.Asset{Name: "401(k)", Type: domain.AssetTypePreTax, CurrentBalance: 50000, AnnualContribution: 12750, GrowthRatePct: 7}
	fv, err := AssetFutureValue(asset, 35)
	require.NoError(t, err)
	assert.InDelta(t, 2296349.27, fv, 0.01)
}

func TestApplyTaxTreatment(t *testing.T) {
	tests := []struct {
		name          string
		asset         domain.Asset
		futureValue   float64
		contributions float64
		rate          float64
		expectedAfter float64
		expectedTax   float64
		expectedRule  domain.TaxRule
	}{
		{
			name:          "pre-tax taxed in full",
			asset:         domain.Asset{Name: "401(k)", Type: domain.AssetTypePreTax},
			futureValue:   100000,
			rate:          25,
			expectedAfter: 75000,
			expectedTax:   25000,
			expectedRule:  domain.RuleOrdinaryIncome,
		},
		{
			name:          "roth untaxed",
			asset:         domain.Asset{Name: "Roth IRA", Type: domain.AssetTypePostTax},
			futureValue:   100000,
			rate:          37,
			expectedAfter: 100000,
			expectedRule:  domain.RuleTaxFree,
		},
		{
			name:          "brokerage taxes gains only",
			asset:         domain.Asset{Name: "Brokerage", Type: domain.AssetTypePostTax, CurrentBalance: 10000},
			futureValue:   50000,
			contributions: 20000,
			rate:          25,
			expectedAfter: 47000,
			expectedTax:   3000,
			expectedRule:  domain.RuleCapitalGains,
		},
		{
			name:          "brokerage loss pays no tax",
			asset:         domain.Asset{Name: "Brokerage", Type: domain.AssetTypePostTax, CurrentBalance: 10000},
			futureValue:   25000,
			contributions: 20000,
			rate:          25,
			expectedAfter: 25000,
			expectedRule:  domain.RuleCapitalGains,
		},
		{
			name:          "hsa half taxed",
			asset:         domain.Asset{Name: "Health Savings", Type: domain.AssetTypeTaxDeferred, Kind: domain.KindHSA},
			futureValue:   100000,
			rate:          20,
			expectedAfter: 90000,
			expectedTax:   10000,
			expectedRule:  domain.RuleHSASplit,
		},
		{
			name:          "annuity taxed as ordinary income",
			asset:         domain.Asset{Name: "Fixed Annuity", Type: domain.AssetTypeTaxDeferred},
			futureValue:   100000,
			rate:          30,
			expectedAfter: 70000,
			expectedTax:   30000,
			expectedRule:  domain.RuleOrdinaryIncome,
		},
		{
			name:          "unknown post-tax kind falls back to ordinary income",
			asset:         domain.Asset{Name: "Mystery Account", Type: domain.AssetTypePostTax},
			futureValue:   100000,
			rate:          25,
			expectedAfter: 75000,
			expectedTax:   25000,
			expectedRule:  domain.RuleConservativeFallback,
		},
		{
			name:          "unknown tax-deferred kind falls back to ordinary income",
			asset:         domain.Asset{Name: "Deferred Comp", Type: domain.AssetTypeTaxDeferred},
			futureValue:   100000,
			rate:          22,
			expectedAfter: 78000,
			expectedTax:   22000,
			expectedRule:  domain.RuleConservativeFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := ApplyTaxTreatment(tt.asset, tt.futureValue, tt.contributions, tt.rate, domain.DefaultCapitalGainsRatePct)
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedAfter, outcome.AfterTax, 1e-9)
			assert.InDelta(t, tt.expectedTax, outcome.TaxLiability, 1e-9)
			assert.Equal(t, tt.expectedRule, outcome.Rule)
		})
	}
}

func TestApplyTaxTreatment_UnknownAssetType(t *testing.T) {
	asset := domain.Asset{Name: "Crypto", Type: domain.AssetType("speculative")}
	_, err := ApplyTaxTreatment(asset, 1000, 0, 25, 15)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestApplyTaxTreatment_RejectsBadRates(t *testing.T) {
	asset := domain.Asset{Name: "401(k)", Type: domain.AssetTypePreTax}
	_, err := ApplyTaxTreatment(asset, 1000, 0, 101, 15)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ApplyTaxTreatment(asset, 1000, 0, 25, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ApplyTaxTreatment(asset, -1, 0, 25, 15)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyTaxTreatment_Bounds(t *testing.T) {
	assets := []domain.Asset{
		{Name: "401(k)", Type: domain.AssetTypePreTax},
		{Name: "Roth IRA", Type: domain.AssetTypePostTax},
		{Name: "Brokerage", Type: domain.AssetTypePostTax, CurrentBalance: 5000},
		{Name: "HSA", Type: domain.AssetTypeTaxDeferred},
		{Name: "Annuity", Type: domain.AssetTypeTaxDeferred},
		{Name: "Other", Type: domain.AssetTypeTaxDeferred},
	}
	for _, asset := range assets {
		for _, rate := range []float64{0, 10, 25, 50, 100} {
			for _, fv := range []float64{0, 1000, 250000} {
				outcome, err := ApplyTaxTreatment(asset, fv, 2000, rate, rate)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, outcome.AfterTax, 0.0, "%s rate=%g fv=%g", asset.Name, rate, fv)
				assert.LessOrEqual(t, outcome.AfterTax, fv, "%s rate=%g fv=%g", asset.Name, rate, fv)
				assert.GreaterOrEqual(t, outcome.TaxLiability, 0.0)
			}
		}
	}
}

func TestApplyTaxTreatment_RothIsExact(t *testing.T) {
	roth := domain.Asset{Name: "Roth 401(k)", Type: domain.AssetTypePostTax, Kind: domain.KindRoth}
	fv := 1234567.891011
	for _, rate := range []float64{0, 12, 24, 37, 100} {
		outcome, err := ApplyTaxTreatment(roth, fv, 0, rate, rate)
		require.NoError(t, err)
		assert.Equal(t, fv, outcome.AfterTax)
		assert.Equal(t, 0.0, outcome.TaxLiability)
	}
}
