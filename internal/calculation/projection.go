package calculation

import (
	"fmt"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// Project runs a full retirement projection: per-asset growth to the
// retirement age, tax treatment, the optional one-time life expense, and the
// retirement income drawdown. Inputs are validated before any computation and
// are never modified.
func (pe *ProjectionEngine) Project(inputs *domain.UserInputs) (*domain.Projection, error) {
	if inputs == nil {
		return nil, fmt.Errorf("%w: inputs are required", domain.ErrInvalidInput)
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	log := pe.logger()

	assets := inputs.EffectiveAssets()
	if len(inputs.Assets) == 0 {
		log.Debugf("no assets supplied, using legacy account: balance=%.2f contribution=%.2f growth=%.2f%%",
			assets[0].CurrentBalance, assets[0].AnnualContribution, assets[0].GrowthRatePct)
	}

	years, err := YearsToRetirement(inputs.Age, inputs.RetirementAge)
	if err != nil {
		return nil, err
	}
	yearsInRetirement := inputs.YearsInRetirement()

	result := &domain.Projection{
		YearsToRetirement:       years,
		YearsInRetirement:       yearsInRetirement,
		RetirementGrowthRatePct: inputs.RetirementGrowthPct(),
		InflationRatePct:        inputs.InflationRatePct,
		Assets:                  make([]domain.AssetProjection, 0, len(assets)),
	}

	// Future values come first: the projected tax rate mode needs the
	// aggregate pre-tax balance before any tax can be applied.
	for _, asset := range assets {
		principalGrowth, contributionGrowth, err := FutureValueComponents(asset.CurrentBalance, asset.AnnualContribution, asset.GrowthRatePct, years)
		if err != nil {
			return nil, err
		}
		fv := principalGrowth + contributionGrowth
		result.Assets = append(result.Assets, domain.AssetProjection{
			Name:               asset.Name,
			Type:               asset.Type,
			Kind:               asset.ResolvedKind(),
			CurrentBalance:     asset.CurrentBalance,
			AnnualContribution: asset.AnnualContribution,
			GrowthRatePct:      asset.GrowthRatePct,
			TotalContributions: asset.TotalContributions(years),
			PrincipalGrowth:    principalGrowth,
			ContributionGrowth: contributionGrowth,
			FutureValue:        fv,
		})
		result.TotalFutureValue += fv
	}
	if err := requireFinite("total pre-tax future value", result.TotalFutureValue); err != nil {
		return nil, err
	}

	rate, err := pe.retirementTaxRate(inputs, result.TotalFutureValue, yearsInRetirement)
	if err != nil {
		return nil, err
	}
	result.RetirementMarginalTaxRatePct = rate
	result.RetirementTaxRateProjected = inputs.ProjectRetirementTaxRate

	for i := range result.Assets {
		ap := &result.Assets[i]
		outcome, err := ApplyTaxTreatment(assets[i], ap.FutureValue, ap.TotalContributions, rate, inputs.CapitalGainsPctFor(assets[i]))
		if err != nil {
			return nil, err
		}
		if outcome.Rule == domain.RuleConservativeFallback {
			log.Warnf("asset %q (%s) has no recognised account kind, taxing full balance as ordinary income at %.2f%%",
				ap.Name, ap.Type, rate)
		}
		ap.TaxRule = outcome.Rule
		ap.TaxRatePct = outcome.RatePct
		ap.TaxLiability = outcome.TaxLiability
		ap.AfterTaxValue = outcome.AfterTax

		result.TotalAfterTax += outcome.AfterTax
		result.TotalTaxLiability += outcome.TaxLiability
	}
	if err := requireFinite("total after-tax balance", result.TotalAfterTax); err != nil {
		return nil, err
	}
	if err := requireFinite("total tax liability", result.TotalTaxLiability); err != nil {
		return nil, err
	}

	if result.TotalFutureValue > 0 {
		result.TaxEfficiencyPct = result.TotalAfterTax / result.TotalFutureValue * 100
	}

	if inputs.OneTimeLifeExpense != nil {
		expense := *inputs.OneTimeLifeExpense
		if expense > result.TotalAfterTax {
			return nil, fmt.Errorf("%w: one_time_life_expense (%.2f) exceeds projected after-tax balance (%.2f)",
				domain.ErrInvalidInput, expense, result.TotalAfterTax)
		}
		result.HasLifeExpense = true
		result.OneTimeLifeExpense = expense
		result.PostExpenseBalance = result.TotalAfterTax - expense
	}

	balance := result.DrawdownBalance()
	income, err := RetirementIncome(balance, result.RetirementGrowthRatePct, result.InflationRatePct, yearsInRetirement)
	if err != nil {
		return nil, err
	}
	if err := requireFinite("annual retirement income", income); err != nil {
		return nil, err
	}
	result.AnnualRetirementIncome = income
	result.Drawdown = SimulateDrawdown(balance, income, result.RetirementGrowthRatePct, result.InflationRatePct, yearsInRetirement, inputs.RetirementAge)

	if inputs.AnnualRetirementIncomeGoal != nil {
		gap, err := AnalyzeIncomeGap(result, *inputs.AnnualRetirementIncomeGoal)
		if err != nil {
			return nil, err
		}
		result.Gap = gap
	}

	if pe.Debug {
		log.Debugf("projection: years=%d pre_tax=%.2f after_tax=%.2f tax=%.2f income=%.2f",
			years, result.TotalFutureValue, result.TotalAfterTax, result.TotalTaxLiability, income)
	}
	return result, nil
}

// retirementTaxRate returns the user supplied retirement marginal rate, or,
// in projected mode, the bracket rate for an annualised taxable income proxy
// of the aggregate pre-tax balance spread over the retirement years.
func (pe *ProjectionEngine) retirementTaxRate(inputs *domain.UserInputs, totalFutureValue float64, yearsInRetirement int) (float64, error) {
	if !inputs.ProjectRetirementTaxRate {
		return inputs.RetirementTaxRatePct(), nil
	}
	if yearsInRetirement < 1 {
		return 0, fmt.Errorf("%w: projecting a retirement tax rate requires at least 1 year in retirement", domain.ErrInvalidInput)
	}
	proxy := totalFutureValue / float64(yearsInRetirement)
	rate, err := pe.rateProjector().ProjectMarginalRate(proxy)
	if err != nil {
		return 0, err
	}
	pe.logger().Debugf("projected retirement marginal rate %.0f%% from taxable income proxy %.2f", rate, proxy)
	return rate, nil
}

// requireFinite rejects sums that overflowed float64 even though every
// input was finite.
func requireFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is out of range (got %g)", domain.ErrInvalidInput, what, v)
	}
	return nil
}
