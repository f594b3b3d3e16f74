package calculation

import (
	"fmt"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/pkg/money"
)

// AnalyzeIncomeGap compares a projection's retirement income against an
// annual income goal and estimates what closing the gap would take.
func AnalyzeIncomeGap(p *domain.Projection, goal float64) (*domain.GapAnalysis, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: projection is required", domain.ErrInvalidInput)
	}
	if goal < 0 || math.IsNaN(goal) {
		return nil, fmt.Errorf("%w: income goal cannot be negative (got %g)", domain.ErrInvalidInput, goal)
	}

	gap := &domain.GapAnalysis{
		Goal:            goal,
		ProjectedIncome: p.AnnualRetirementIncome,
		AnnualShortfall: math.Max(0, goal-p.AnnualRetirementIncome),
	}

	required, err := RequiredBalance(goal, p.RetirementGrowthRatePct, p.InflationRatePct, p.YearsInRetirement)
	if err != nil {
		return nil, err
	}
	gap.RequiredBalance = required
	gap.BalanceShortfall = math.Max(0, required-p.DrawdownBalance())
	gap.OnTrack = gap.AnnualShortfall == 0

	if gap.OnTrack {
		gap.Recommendations = []string{
			fmt.Sprintf("Projected income of %s meets the goal of %s", money.FormatUSD(gap.ProjectedIncome), money.FormatUSD(goal)),
			"Review the plan annually as balances and assumptions change",
		}
		return gap, nil
	}

	// Extra pre-tax balance needed, grossed up by the portfolio's tax efficiency.
	efficiency := p.TaxEfficiencyPct / 100
	if efficiency <= 0 {
		efficiency = 1 - p.RetirementMarginalTaxRatePct/100
	}
	factor := AnnuityFactor(weightedGrowthPct(p.Assets), p.YearsToRetirement)
	if efficiency > 0 && factor > 0 {
		gap.AdditionalAnnualContribution = gap.BalanceShortfall / efficiency / factor
	}

	gap.Recommendations = append(gap.Recommendations,
		fmt.Sprintf("Annual income shortfall of %s against the goal of %s", money.FormatUSD(gap.AnnualShortfall), money.FormatUSD(goal)),
		fmt.Sprintf("A balance of %s is needed at retirement, %s more than projected", money.FormatUSD(required), money.FormatUSD(gap.BalanceShortfall)),
	)
	if gap.AdditionalAnnualContribution > 0 {
		gap.Recommendations = append(gap.Recommendations,
			fmt.Sprintf("Contribute about %s more per year (%s per month) until retirement", money.FormatUSD(gap.AdditionalAnnualContribution), money.FormatUSD(gap.AdditionalAnnualContribution/12)))
	} else {
		gap.Recommendations = append(gap.Recommendations, "No working years remain to close the gap with contributions; consider reducing the income goal")
	}
	if p.TaxEfficiencyPct > 0 && p.TaxEfficiencyPct < 80 {
		gap.Recommendations = append(gap.Recommendations, "Consider Roth or HSA accounts to improve after-tax efficiency")
	}
	gap.Recommendations = append(gap.Recommendations, "Consider delaying retirement to extend the contribution period")
	return gap, nil
}

// weightedGrowthPct averages asset growth rates weighted by future value,
// falling back to a simple average when nothing has value yet.
func weightedGrowthPct(assets []domain.AssetProjection) float64 {
	if len(assets) == 0 {
		return 0
	}
	var weighted, total, sum float64
	for _, a := range assets {
		weighted += a.GrowthRatePct * a.FutureValue
		total += a.FutureValue
		sum += a.GrowthRatePct
	}
	if total > 0 {
		return weighted / total
	}
	return sum / float64(len(assets))
}
