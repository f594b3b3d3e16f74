package calculation

import (
	"fmt"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// TAX TREATMENT ASSUMPTIONS:
//
// 1. Bracket projection uses the 2024 IRS single-filer table, held constant
//    for all future years (no inflation indexing).
//
// 2. Brokerage accounts: only the gain above basis (current balance plus
//    contributions) is taxed, at the capital gains rate (default 15%).
//    A loss produces zero tax, never a credit.
//
// 3. HSA: 50% of the balance is assumed spent on qualified medical expenses
//    (tax-free) and 50% withdrawn as ordinary income. This split is a
//    simplifying assumption, not an IRS rule.
//
// 4. A post-tax or tax-deferred account whose sub-kind is unknown is taxed
//    entirely as ordinary income.

// TaxBracket is one marginal bracket. Min is inclusive, Max exclusive; the
// top bracket has Max = +Inf.
type TaxBracket struct {
	Min     float64
	Max     float64
	RatePct float64
}

// IRSTaxBrackets returns the 2024 single-filer marginal brackets. A new slice
// is returned on every call.
func IRSTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{0, 11000, 10.0},
		{11000, 44725, 12.0},
		{44725, 95375, 22.0},
		{95375, 182050, 24.0},
		{182050, 231250, 32.0},
		{231250, 578125, 35.0},
		{578125, math.Inf(1), 37.0},
	}
}

// MarginalRateProjector looks up marginal rates from an ordered bracket table.
type MarginalRateProjector struct {
	Brackets []TaxBracket
}

// NewMarginalRateProjector creates a projector over the IRS table.
func NewMarginalRateProjector() *MarginalRateProjector {
	return &MarginalRateProjector{Brackets: IRSTaxBrackets()}
}

// ProjectMarginalRate returns the rate of the bracket containing
// taxableIncome, or the top rate above the last bound.
func (p *MarginalRateProjector) ProjectMarginalRate(taxableIncome float64) (float64, error) {
	if taxableIncome < 0 || math.IsNaN(taxableIncome) {
		return 0, fmt.Errorf("%w: taxable income cannot be negative (got %g)", domain.ErrInvalidInput, taxableIncome)
	}
	if len(p.Brackets) == 0 {
		return 0, fmt.Errorf("%w: empty tax bracket table", domain.ErrConfiguration)
	}
	for _, b := range p.Brackets {
		if taxableIncome >= b.Min && taxableIncome < b.Max {
			return b.RatePct, nil
		}
	}
	return p.Brackets[len(p.Brackets)-1].RatePct, nil
}

// ProjectMarginalRate looks up taxableIncome in the IRS table.
func ProjectMarginalRate(taxableIncome float64) (float64, error) {
	return NewMarginalRateProjector().ProjectMarginalRate(taxableIncome)
}

// AssetFutureValue projects an asset's balance over years using its own
// balance, contribution and growth rate.
func AssetFutureValue(asset domain.Asset, years int) (float64, error) {
	return FutureValueWithContrib(asset.CurrentBalance, asset.AnnualContribution, asset.GrowthRatePct, years)
}

// TaxOutcome is the result of applying an asset's tax treatment.
type TaxOutcome struct {
	AfterTax     float64
	TaxLiability float64
	Rule         domain.TaxRule
	RatePct      float64 // rate applied to the taxed portion
}

// ApplyTaxTreatment converts a pre-tax future value into its after-tax value
// according to the asset's type and sub-kind. totalContributions is the sum
// of contributions made over the projection (brokerage basis).
func ApplyTaxTreatment(asset domain.Asset, futureValue, totalContributions, retirementRatePct, capitalGainsRatePct float64) (TaxOutcome, error) {
	if futureValue < 0 || math.IsNaN(futureValue) || math.IsInf(futureValue, 0) {
		return TaxOutcome{}, fmt.Errorf("%w: future value must be a non-negative finite number (got %g)", domain.ErrInvalidInput, futureValue)
	}
	if retirementRatePct < 0 || retirementRatePct > 100 {
		return TaxOutcome{}, fmt.Errorf("%w: retirement tax rate must be between 0 and 100 (got %g)", domain.ErrInvalidInput, retirementRatePct)
	}
	if capitalGainsRatePct < 0 || capitalGainsRatePct > 100 {
		return TaxOutcome{}, fmt.Errorf("%w: capital gains rate must be between 0 and 100 (got %g)", domain.ErrInvalidInput, capitalGainsRatePct)
	}

	ordinary := func(rule domain.TaxRule) TaxOutcome {
		tax := futureValue * (retirementRatePct / 100.0)
		return TaxOutcome{AfterTax: futureValue - tax, TaxLiability: tax, Rule: rule, RatePct: retirementRatePct}
	}

	switch asset.Type {
	case domain.AssetTypePreTax:
		return ordinary(domain.RuleOrdinaryIncome), nil

	case domain.AssetTypePostTax:
		switch asset.ResolvedKind() {
		case domain.KindRoth:
			return TaxOutcome{AfterTax: futureValue, Rule: domain.RuleTaxFree}, nil
		case domain.KindBrokerage:
			gain := math.Max(0, futureValue-asset.CurrentBalance-totalContributions)
			tax := gain * (capitalGainsRatePct / 100.0)
			return TaxOutcome{AfterTax: futureValue - tax, TaxLiability: tax, Rule: domain.RuleCapitalGains, RatePct: capitalGainsRatePct}, nil
		}
		return ordinary(domain.RuleConservativeFallback), nil

	case domain.AssetTypeTaxDeferred:
		switch asset.ResolvedKind() {
		case domain.KindHSA:
			taxedPortion := futureValue * 0.5
			tax := taxedPortion * (retirementRatePct / 100.0)
			return TaxOutcome{AfterTax: futureValue - tax, TaxLiability: tax, Rule: domain.RuleHSASplit, RatePct: retirementRatePct}, nil
		case domain.KindAnnuity:
			return ordinary(domain.RuleOrdinaryIncome), nil
		}
		return ordinary(domain.RuleConservativeFallback), nil
	}

	return TaxOutcome{}, fmt.Errorf("%w: asset %q has unrecognized asset type %q", domain.ErrConfiguration, asset.Name, asset.Type)
}
