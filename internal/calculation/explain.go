package calculation

import (
	"fmt"
	"math"
	"strings"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/pkg/money"
)

const explainRule = 80

// ExplainProjectedBalance renders a step-by-step derivation of a projection.
// Every number shown comes from the same Project call, so the explanation
// cannot drift from the projection itself.
func (pe *ProjectionEngine) ExplainProjectedBalance(inputs *domain.UserInputs) (string, error) {
	p, err := pe.Project(inputs)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	heavy := strings.Repeat("=", explainRule)
	light := strings.Repeat("-", explainRule)
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("")
		line("%s", title)
		line("%s", light)
	}

	line("%s", heavy)
	line("PROJECTED BALANCE CALCULATION EXPLAINED")
	line("%s", heavy)

	section("FORMULA: Future Value with Annual Contributions")
	line("FV = P x (1 + r)^t + C x [((1 + r)^t - 1) / r]")
	line("")
	line("  P = current balance, r = annual growth rate, t = years until retirement")
	line("  C = annual contribution, made at the end of each year")
	line("  When r = 0 the contribution term is C x t")

	section("YOUR CALCULATION")
	line("Age %d -> retirement age %d: %d years to retirement", inputs.Age, inputs.RetirementAge, p.YearsToRetirement)
	if len(inputs.Assets) == 0 {
		line("No accounts listed; using a single pre-tax account built from")
		line("  income %s x contribution rate %s = %s per year",
			money.FormatUSD(inputs.AnnualIncome), money.FormatPercent(inputs.ContributionRatePct, 2), money.FormatUSD(inputs.LegacyAnnualContribution()))
	}
	if p.RetirementTaxRateProjected {
		line("Retirement tax rate %s projected from IRS brackets using %s / %d years as taxable income",
			money.FormatPercent(p.RetirementMarginalTaxRatePct, 0), money.FormatUSD(p.TotalFutureValue), p.YearsInRetirement)
	} else {
		line("Retirement tax rate: %s", money.FormatPercent(p.RetirementMarginalTaxRatePct, 2))
	}

	for i, a := range p.Assets {
		explainAsset(line, i, a, p.YearsToRetirement)
	}

	section("TOTALS")
	line("Total pre-tax future value:  %s", money.FormatUSD(p.TotalFutureValue))
	line("Total tax liability:         %s", money.FormatUSD(p.TotalTaxLiability))
	line("Total after-tax balance:     %s", money.FormatUSD(p.TotalAfterTax))
	line("Tax efficiency:              %s", money.FormatPercent(p.TaxEfficiencyPct, 2))
	if p.HasLifeExpense {
		line("One-time life expense:       %s", money.FormatUSD(p.OneTimeLifeExpense))
		line("Balance after expense:       %s", money.FormatUSD(p.PostExpenseBalance))
	}

	section("RETIREMENT INCOME")
	g, i, n := p.RetirementGrowthRatePct, p.InflationRatePct, p.YearsInRetirement
	line("B = %s, g = %s, i = %s, n = %d years", money.FormatUSD(p.DrawdownBalance()), money.FormatPercent(g, 2), money.FormatPercent(i, 2), n)
	if math.Abs(g-i)/100 < rateEpsilon {
		line("Growth equals inflation, so W = B / n")
	} else {
		line("W = B x (g - i) / [(1 + g) x (1 - ((1 + i) / (1 + g))^n)]")
	}
	line("First-year income W = %s (%s per month), rising %s per year",
		money.FormatUSD(p.AnnualRetirementIncome), money.FormatUSD(p.AnnualRetirementIncome/12), money.FormatPercent(i, 2))

	if p.Gap != nil {
		section("INCOME GOAL")
		for _, r := range p.Gap.Recommendations {
			line("  * %s", r)
		}
	}

	section("TAX TREATMENT BY ACCOUNT TYPE")
	line("Pre-tax (401k, Traditional IRA): full balance taxed at the retirement rate")
	line("Post-tax Roth: tax-free")
	line("Post-tax brokerage: only gains above balance plus contributions, at the capital gains rate")
	line("Tax-deferred HSA: 50%% tax-free for medical use, 50%% taxed at the retirement rate")
	line("Tax-deferred annuity: full balance taxed as ordinary income")
	line("Unrecognised post-tax or tax-deferred accounts: full balance taxed as ordinary income")
	line("%s", heavy)

	return b.String(), nil
}

func explainAsset(line func(string, ...any), i int, a domain.AssetProjection, years int) {
	line("")
	line("Asset %d: %s (%s)", i+1, a.Name, a.Type)
	line("  P = %s, C = %s, r = %s", money.FormatUSD(a.CurrentBalance), money.FormatUSD(a.AnnualContribution), money.FormatPercent(a.GrowthRatePct, 2))
	switch {
	case years == 0:
		line("  Already at retirement: FV = P = %s", money.FormatUSD(a.FutureValue))
	case a.GrowthRatePct == 0:
		line("  FV = %s + %s x %d = %s", money.FormatUSD(a.CurrentBalance), money.FormatUSD(a.AnnualContribution), years, money.FormatUSD(a.FutureValue))
	default:
		line("  Principal growth:    %s x %.6f = %s", money.FormatUSD(a.CurrentBalance), GrowthFactor(a.GrowthRatePct, years), money.FormatUSD(a.PrincipalGrowth))
		line("  Contribution growth: %s x %.6f = %s", money.FormatUSD(a.AnnualContribution), AnnuityFactor(a.GrowthRatePct, years), money.FormatUSD(a.ContributionGrowth))
		line("  Pre-tax FV:          %s", money.FormatUSD(a.FutureValue))
	}
	switch a.TaxRule {
	case domain.RuleTaxFree:
		line("  Tax-free: after-tax value = %s", money.FormatUSD(a.AfterTaxValue))
	case domain.RuleCapitalGains:
		gain := a.FutureValue - a.CurrentBalance - a.TotalContributions
		if gain < 0 {
			gain = 0
		}
		line("  Gain = %s - %s - %s = %s, taxed at %s",
			money.FormatUSD(a.FutureValue), money.FormatUSD(a.CurrentBalance), money.FormatUSD(a.TotalContributions), money.FormatUSD(gain), money.FormatPercent(a.TaxRatePct, 2))
	case domain.RuleHSASplit:
		line("  Half of %s taxed at %s", money.FormatUSD(a.FutureValue), money.FormatPercent(a.TaxRatePct, 2))
	case domain.RuleConservativeFallback:
		line("  Account kind unrecognised: full balance taxed at %s", money.FormatPercent(a.TaxRatePct, 2))
	default:
		line("  Full balance taxed at %s", money.FormatPercent(a.TaxRatePct, 2))
	}
	line("  Tax liability:   %s", money.FormatUSD(a.TaxLiability))
	line("  After-tax value: %s", money.FormatUSD(a.AfterTaxValue))
}
