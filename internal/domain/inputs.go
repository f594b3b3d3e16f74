package domain

import (
	"fmt"
	"math"
)

// Defaults applied when a parameter is not supplied.
const (
	DefaultLifeExpectancy          = 90
	DefaultExpectedGrowthRatePct   = 7.0
	DefaultInflationRatePct        = 3.0
	DefaultRetirementGrowthRatePct = 4.0
	DefaultCapitalGainsRatePct     = 15.0

	// LegacyAssetName labels the synthesized account used when no assets are given.
	LegacyAssetName = "401(k) / Traditional IRA (Pre-Tax)"
)

// UserInputs is the complete parameter set for one projection. It is built
// once per request and never mutated by the engine.
type UserInputs struct {
	Age            int `yaml:"age" json:"age"`
	RetirementAge  int `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy int `yaml:"life_expectancy" json:"life_expectancy"`

	// Legacy single-account fields, used only when Assets is empty.
	AnnualIncome          float64 `yaml:"annual_income" json:"annual_income"`
	ContributionRatePct   float64 `yaml:"contribution_rate_pct" json:"contribution_rate_pct"`
	CurrentBalance        float64 `yaml:"current_balance" json:"current_balance"`
	ExpectedGrowthRatePct float64 `yaml:"expected_growth_rate_pct" json:"expected_growth_rate_pct"`

	InflationRatePct float64 `yaml:"expected_inflation_rate_pct" json:"expected_inflation_rate_pct"`

	CurrentMarginalTaxRatePct float64 `yaml:"current_marginal_tax_rate_pct" json:"current_marginal_tax_rate_pct"`
	// Nil means "same as the current marginal rate".
	RetirementMarginalTaxRatePct *float64 `yaml:"retirement_marginal_tax_rate_pct,omitempty" json:"retirement_marginal_tax_rate_pct,omitempty"`
	// When set, the retirement rate is looked up from the IRS bracket table instead.
	ProjectRetirementTaxRate bool `yaml:"project_retirement_tax_rate" json:"project_retirement_tax_rate"`

	RetirementGrowthRatePct *float64 `yaml:"retirement_growth_rate_pct,omitempty" json:"retirement_growth_rate_pct,omitempty"`
	CapitalGainsRatePct     *float64 `yaml:"capital_gains_rate_pct,omitempty" json:"capital_gains_rate_pct,omitempty"`

	Assets []Asset `yaml:"assets" json:"assets"`

	OneTimeLifeExpense         *float64 `yaml:"one_time_life_expense,omitempty" json:"one_time_life_expense,omitempty"`
	AnnualRetirementIncomeGoal *float64 `yaml:"annual_retirement_income_goal,omitempty" json:"annual_retirement_income_goal,omitempty"`
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 { return &v }

// DefaultUserInputs returns inputs carrying the documented defaults. Config
// loaders decode on top of this value so omitted keys keep their defaults.
func DefaultUserInputs() UserInputs {
	return UserInputs{
		LifeExpectancy:        DefaultLifeExpectancy,
		ExpectedGrowthRatePct: DefaultExpectedGrowthRatePct,
		InflationRatePct:      DefaultInflationRatePct,
	}
}

// YearsInRetirement is life expectancy minus retirement age.
func (u *UserInputs) YearsInRetirement() int {
	return u.LifeExpectancy - u.RetirementAge
}

// RetirementTaxRatePct returns the user supplied retirement marginal rate,
// falling back to the current marginal rate.
func (u *UserInputs) RetirementTaxRatePct() float64 {
	if u.RetirementMarginalTaxRatePct != nil {
		return *u.RetirementMarginalTaxRatePct
	}
	return u.CurrentMarginalTaxRatePct
}

// RetirementGrowthPct is the portfolio growth assumed during drawdown.
func (u *UserInputs) RetirementGrowthPct() float64 {
	if u.RetirementGrowthRatePct != nil {
		return *u.RetirementGrowthRatePct
	}
	return DefaultRetirementGrowthRatePct
}

// CapitalGainsPctFor resolves the capital gains rate for an asset:
// asset override, then inputs-level rate, then the 15% default.
func (u *UserInputs) CapitalGainsPctFor(a Asset) float64 {
	if a.CapitalGainsRatePct != nil {
		return *a.CapitalGainsRatePct
	}
	if u.CapitalGainsRatePct != nil {
		return *u.CapitalGainsRatePct
	}
	return DefaultCapitalGainsRatePct
}

// LegacyAnnualContribution is contribution_rate_pct of annual_income.
func (u *UserInputs) LegacyAnnualContribution() float64 {
	return u.AnnualIncome * (u.ContributionRatePct / 100.0)
}

// EffectiveAssets returns the asset list, or a single synthesized pre-tax
// asset built from the legacy fields when no assets were supplied. The
// returned slice is a copy.
func (u *UserInputs) EffectiveAssets() []Asset {
	if len(u.Assets) > 0 {
		out := make([]Asset, len(u.Assets))
		copy(out, u.Assets)
		return out
	}
	return []Asset{{
		Name:               LegacyAssetName,
		Type:               AssetTypePreTax,
		Kind:               KindTraditional,
		CurrentBalance:     u.CurrentBalance,
		AnnualContribution: u.LegacyAnnualContribution(),
		GrowthRatePct:      u.ExpectedGrowthRatePct,
	}}
}

// AssetsFromTypeNames builds one asset per account name from the legacy
// fields. The current balance and the annual contribution are split evenly
// across the accounts, so totals match the single-account legacy run.
func (u *UserInputs) AssetsFromTypeNames(names []string) []Asset {
	if len(names) == 0 {
		return nil
	}
	share := 1 / float64(len(names))
	assets := make([]Asset, 0, len(names))
	for _, name := range names {
		assets = append(assets, Asset{
			Name:               name,
			Type:               InferAssetType(name),
			CurrentBalance:     u.CurrentBalance * share,
			AnnualContribution: u.LegacyAnnualContribution() * share,
			GrowthRatePct:      u.ExpectedGrowthRatePct,
		})
	}
	return assets
}

// Validate checks every invariant the engine relies on. It is called once at
// the top of each engine entry point, before any computation.
func (u *UserInputs) Validate() error {
	if u.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative (got %d)", ErrInvalidInput, u.Age)
	}
	if u.RetirementAge < u.Age {
		return fmt.Errorf("%w: retirement_age (%d) must be >= age (%d)", ErrInvalidInput, u.RetirementAge, u.Age)
	}
	if u.LifeExpectancy <= u.RetirementAge {
		return fmt.Errorf("%w: life_expectancy (%d) must be > retirement_age (%d)", ErrInvalidInput, u.LifeExpectancy, u.RetirementAge)
	}

	if err := nonNegative("annual_income", u.AnnualIncome); err != nil {
		return err
	}
	if err := percentInRange("contribution_rate_pct", u.ContributionRatePct); err != nil {
		return err
	}
	if err := nonNegative("current_balance", u.CurrentBalance); err != nil {
		return err
	}
	if err := aboveMinusHundred("expected_growth_rate_pct", u.ExpectedGrowthRatePct); err != nil {
		return err
	}
	if err := aboveMinusHundred("expected_inflation_rate_pct", u.InflationRatePct); err != nil {
		return err
	}
	if err := percentInRange("current_marginal_tax_rate_pct", u.CurrentMarginalTaxRatePct); err != nil {
		return err
	}
	if u.RetirementMarginalTaxRatePct != nil {
		if err := percentInRange("retirement_marginal_tax_rate_pct", *u.RetirementMarginalTaxRatePct); err != nil {
			return err
		}
	}
	if u.RetirementGrowthRatePct != nil {
		if err := aboveMinusHundred("retirement_growth_rate_pct", *u.RetirementGrowthRatePct); err != nil {
			return err
		}
	}
	if u.CapitalGainsRatePct != nil {
		if err := percentInRange("capital_gains_rate_pct", *u.CapitalGainsRatePct); err != nil {
			return err
		}
	}
	if u.OneTimeLifeExpense != nil {
		if err := nonNegative("one_time_life_expense", *u.OneTimeLifeExpense); err != nil {
			return err
		}
	}
	if u.AnnualRetirementIncomeGoal != nil {
		if err := nonNegative("annual_retirement_income_goal", *u.AnnualRetirementIncomeGoal); err != nil {
			return err
		}
	}

	for i, a := range u.Assets {
		if err := a.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, field)
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative (got %g)", ErrInvalidInput, field, v)
	}
	return nil
}

func percentInRange(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: %s must be between 0 and 100 (got %g)", ErrInvalidInput, field, v)
	}
	return nil
}

// Growth and inflation may be negative but must stay above -100%.
func aboveMinusHundred(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= -100 {
		return fmt.Errorf("%w: %s must be greater than -100 (got %g)", ErrInvalidInput, field, v)
	}
	return nil
}
