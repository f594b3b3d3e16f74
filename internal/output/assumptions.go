package output

import (
	"fmt"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// GenerateAssumptions lists the modeling assumptions behind a projection.
func GenerateAssumptions(p *domain.Projection) []string {
	rate := fmt.Sprintf("Retirement marginal tax rate: %.1f%%", p.RetirementMarginalTaxRatePct)
	if p.RetirementTaxRateProjected {
		rate += " (projected from 2024 IRS single-filer brackets)"
	}
	return []string{
		"Contributions are made once per year, at year end",
		rate,
		fmt.Sprintf("Portfolio growth in retirement: %.1f%% annually", p.RetirementGrowthRatePct),
		fmt.Sprintf("Inflation: %.1f%% annually, applied to withdrawals", p.InflationRatePct),
		fmt.Sprintf("Withdrawals taken at the start of each year for %d years", p.YearsInRetirement),
		"Brokerage gains above balance plus contributions taxed at the capital gains rate",
		"HSA balances: 50% qualified medical (tax-free), 50% taxed as ordinary income",
	}
}
