package calculation

import (
	"fmt"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// YearsToRetirement returns retirementAge - age.
func YearsToRetirement(age, retirementAge int) (int, error) {
	if retirementAge < age {
		return 0, fmt.Errorf("%w: retirement_age (%d) must be >= age (%d)", domain.ErrInvalidInput, retirementAge, age)
	}
	return retirementAge - age, nil
}

// FutureValueWithContrib compounds principal annually at ratePct for years and
// adds an end-of-year contribution each year:
//
//	FV = P*(1+r)^t + C*((1+r)^t - 1)/r
//
// At r == 0 the contribution term is its limit C*t.
func FutureValueWithContrib(principal, annualContribution, ratePct float64, years int) (float64, error) {
	principalGrowth, contributionGrowth, err := FutureValueComponents(principal, annualContribution, ratePct, years)
	if err != nil {
		return 0, err
	}
	return principalGrowth + contributionGrowth, nil
}

// FutureValueComponents returns the two terms of the future value formula
// separately: the grown principal and the grown contribution stream.
func FutureValueComponents(principal, annualContribution, ratePct float64, years int) (principalGrowth, contributionGrowth float64, err error) {
	if years < 0 {
		return 0, 0, fmt.Errorf("%w: years must be >= 0 (got %d)", domain.ErrInvalidInput, years)
	}
	if years == 0 {
		return principal, 0, nil
	}

	r := ratePct / 100.0
	if r == 0 {
		return principal, annualContribution * float64(years), nil
	}

	growth := math.Pow(1.0+r, float64(years))
	return principal * growth, annualContribution * ((growth - 1.0) / r), nil
}

// GrowthFactor is (1+r)^years for a percentage rate.
func GrowthFactor(ratePct float64, years int) float64 {
	return math.Pow(1.0+ratePct/100.0, float64(years))
}

// AnnuityFactor is the future value of a 1.0 end-of-year payment stream:
// ((1+r)^t - 1)/r, or t when r == 0.
func AnnuityFactor(ratePct float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	r := ratePct / 100.0
	if r == 0 {
		return float64(years)
	}
	return (GrowthFactor(ratePct, years) - 1.0) / r
}
