package domain

import (
	"fmt"

	"github.com/finadvisor/retirement-forecast/pkg/money"
)

// Stable metric keys of the projection result mapping.
const (
	MetricTotalFutureValue       = "total_future_value_pre_tax"
	MetricTotalAfterTax          = "total_after_tax_balance"
	MetricTotalTaxLiability      = "total_tax_liability"
	MetricPostExpenseBalance     = "post_expense_balance"
	MetricAnnualRetirementIncome = "projected_annual_retirement_income"
)

// AssetFutureValueKey is the metric key for the i-th (zero based) asset's pre-tax future value.
func AssetFutureValueKey(i int) string { return fmt.Sprintf("asset_%d_future_value_pre_tax", i+1) }

// AssetAfterTaxKey is the metric key for the i-th (zero based) asset's after-tax value.
func AssetAfterTaxKey(i int) string { return fmt.Sprintf("asset_%d_after_tax_value", i+1) }

// TaxRule names the tax treatment branch applied to an asset.
type TaxRule string

const (
	RuleOrdinaryIncome       TaxRule = "ordinary_income"
	RuleTaxFree              TaxRule = "tax_free"
	RuleCapitalGains         TaxRule = "capital_gains"
	RuleHSASplit             TaxRule = "hsa_split"
	RuleConservativeFallback TaxRule = "conservative_fallback"
)

// AssetProjection is the per-asset breakdown of a projection.
type AssetProjection struct {
	Name               string      `json:"name"`
	Type               AssetType   `json:"asset_type"`
	Kind               AccountKind `json:"account_kind,omitempty"`
	CurrentBalance     float64     `json:"current_balance"`
	AnnualContribution float64     `json:"annual_contribution"`
	GrowthRatePct      float64     `json:"growth_rate_pct"`
	TotalContributions float64     `json:"total_contributions"`

	PrincipalGrowth    float64 `json:"principal_growth"`
	ContributionGrowth float64 `json:"contribution_growth"`
	FutureValue        float64 `json:"future_value_pre_tax"`

	TaxRule       TaxRule `json:"tax_rule"`
	TaxRatePct    float64 `json:"tax_rate_pct"`
	TaxLiability  float64 `json:"tax_liability"`
	AfterTaxValue float64 `json:"after_tax_value"`
}

// DrawdownYear is one year of the retirement withdrawal schedule. The
// withdrawal is taken at the start of the year; the remainder then grows.
type DrawdownYear struct {
	Year         int     `json:"year"`
	Age          int     `json:"age"`
	StartBalance float64 `json:"start_balance"`
	Withdrawal   float64 `json:"withdrawal"`
	Growth       float64 `json:"growth"`
	EndBalance   float64 `json:"end_balance"`
}

// GapAnalysis compares the projected income against the user's goal.
type GapAnalysis struct {
	Goal                         float64  `json:"goal"`
	ProjectedIncome              float64  `json:"projected_income"`
	AnnualShortfall              float64  `json:"annual_shortfall"`
	RequiredBalance              float64  `json:"required_balance"`
	BalanceShortfall             float64  `json:"balance_shortfall"`
	AdditionalAnnualContribution float64  `json:"additional_annual_contribution"`
	OnTrack                      bool     `json:"on_track"`
	Recommendations              []string `json:"recommendations"`
}

// Projection is the full result of a projection run.
type Projection struct {
	YearsToRetirement int `json:"years_to_retirement"`
	YearsInRetirement int `json:"years_in_retirement"`

	RetirementMarginalTaxRatePct float64 `json:"retirement_marginal_tax_rate_pct"`
	RetirementTaxRateProjected   bool    `json:"retirement_tax_rate_projected"`
	RetirementGrowthRatePct      float64 `json:"retirement_growth_rate_pct"`
	InflationRatePct             float64 `json:"inflation_rate_pct"`

	Assets []AssetProjection `json:"assets"`

	TotalFutureValue  float64 `json:"total_future_value_pre_tax"`
	TotalAfterTax     float64 `json:"total_after_tax_balance"`
	TotalTaxLiability float64 `json:"total_tax_liability"`
	TaxEfficiencyPct  float64 `json:"tax_efficiency_pct"`

	HasLifeExpense     bool    `json:"has_life_expense"`
	OneTimeLifeExpense float64 `json:"one_time_life_expense"`
	PostExpenseBalance float64 `json:"post_expense_balance"`

	AnnualRetirementIncome float64        `json:"projected_annual_retirement_income"`
	Drawdown               []DrawdownYear `json:"drawdown"`

	Gap *GapAnalysis `json:"gap,omitempty"`
}

// Metrics returns the stable key/value view of the projection. Values are
// currency amounts rounded to cents. The post-expense balance key is present
// only when a one-time life expense was given.
func (p *Projection) Metrics() map[string]float64 {
	m := map[string]float64{
		MetricTotalFutureValue:       money.RoundCents(p.TotalFutureValue),
		MetricTotalAfterTax:          money.RoundCents(p.TotalAfterTax),
		MetricTotalTaxLiability:      money.RoundCents(p.TotalTaxLiability),
		MetricAnnualRetirementIncome: money.RoundCents(p.AnnualRetirementIncome),
	}
	if p.HasLifeExpense {
		m[MetricPostExpenseBalance] = money.RoundCents(p.PostExpenseBalance)
	}
	for i, a := range p.Assets {
		m[AssetFutureValueKey(i)] = money.RoundCents(a.FutureValue)
		m[AssetAfterTaxKey(i)] = money.RoundCents(a.AfterTaxValue)
	}
	return m
}

// DrawdownBalance is the balance the retirement income is drawn from.
func (p *Projection) DrawdownBalance() float64 {
	if p.HasLifeExpense {
		return p.PostExpenseBalance
	}
	return p.TotalAfterTax
}
