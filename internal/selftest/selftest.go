// Package selftest is the sanity suite behind `fin-advisor --run-tests`. It
// checks the engine against hand-computed values inside the shipped binary.
package selftest

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
)

const tolerance = 1e-6

// Check is a single named assertion over the engine.
type Check struct {
	Name string
	Run  func() error
}

// Result summarizes a suite run.
type Result struct {
	Passed int
	Failed []string
}

// OK reports whether every check passed.
func (r Result) OK() bool { return len(r.Failed) == 0 }

// Checks returns the built-in suite.
func Checks() []Check {
	return []Check{
		{"years_to_retirement_basic", checkYearsToRetirementBasic},
		{"years_to_retirement_invalid", checkYearsToRetirementInvalid},
		{"future_value_zero_rate", checkFutureValueZeroRate},
		{"future_value_positive_rate", checkFutureValuePositiveRate},
		{"pre_tax_bounds", checkPreTaxBounds},
		{"project_legacy_single_year", checkProjectLegacySingleYear},
		{"retirement_income_equal_rates", checkRetirementIncomeEqualRates},
		{"marginal_rate_brackets", checkMarginalRateBrackets},
	}
}

// Run executes checks in order, printing one line per check to w.
func Run(w io.Writer, checks []Check) Result {
	var res Result
	for _, c := range checks {
		if err := c.Run(); err != nil {
			res.Failed = append(res.Failed, c.Name)
			fmt.Fprintf(w, "FAIL  %s: %v\n", c.Name, err)
			continue
		}
		res.Passed++
		fmt.Fprintf(w, "ok    %s\n", c.Name)
	}
	fmt.Fprintf(w, "\n%d passed, %d failed\n", res.Passed, len(res.Failed))
	return res
}

func expectClose(what string, got, want float64) error {
	if math.Abs(got-want) > tolerance {
		return fmt.Errorf("%s = %.6f, want %.6f", what, got, want)
	}
	return nil
}

func checkYearsToRetirementBasic() error {
	n, err := calculation.YearsToRetirement(30, 65)
	if err != nil {
		return err
	}
	if n != 35 {
		return fmt.Errorf("years = %d, want 35", n)
	}
	return nil
}

func checkYearsToRetirementInvalid() error {
	_, err := calculation.YearsToRetirement(65, 60)
	if !errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("expected invalid input error, got %v", err)
	}
	return nil
}

func checkFutureValueZeroRate() error {
	fv, err := calculation.FutureValueWithContrib(10000, 1000, 0, 5)
	if err != nil {
		return err
	}
	return expectClose("future value", fv, 15000)
}

func checkFutureValuePositiveRate() error {
	fv, err := calculation.FutureValueWithContrib(0, 1000, 10, 2)
	if err != nil {
		return err
	}
	return expectClose("future value", fv, 2100)
}

func checkPreTaxBounds() error {
	asset := domain.Asset{Name: "401(k)", Type: domain.AssetTypePreTax}
	for _, tc := range []struct{ rate, want float64 }{{0, 1000}, {100, 0}, {25, 750}} {
		out, err := calculation.ApplyTaxTreatment(asset, 1000, 0, tc.rate, domain.DefaultCapitalGainsRatePct)
		if err != nil {
			return err
		}
		if err := expectClose(fmt.Sprintf("after tax at %g%%", tc.rate), out.AfterTax, tc.want); err != nil {
			return err
		}
	}
	return nil
}

// One year of contributions lands at the end of the year, so nothing grows.
func checkProjectLegacySingleYear() error {
	inputs := domain.DefaultUserInputs()
	inputs.Age = 30
	inputs.RetirementAge = 31
	inputs.AnnualIncome = 100000
	inputs.ContributionRatePct = 10
	inputs.ExpectedGrowthRatePct = 10
	inputs.InflationRatePct = 0
	inputs.CurrentMarginalTaxRatePct = 25

	p, err := calculation.NewProjectionEngine().Project(&inputs)
	if err != nil {
		return err
	}
	m := p.Metrics()
	if err := expectClose("future value", m[domain.MetricTotalFutureValue], 10000); err != nil {
		return err
	}
	return expectClose("after tax", m[domain.MetricTotalAfterTax], 7500)
}

func checkRetirementIncomeEqualRates() error {
	w, err := calculation.RetirementIncome(1000000, 3, 3, 25)
	if err != nil {
		return err
	}
	return expectClose("withdrawal", w, 40000)
}

func checkMarginalRateBrackets() error {
	for _, tc := range []struct{ income, want float64 }{{0, 10}, {11000, 12}, {50000, 22}, {1000000, 37}} {
		got, err := calculation.ProjectMarginalRate(tc.income)
		if err != nil {
			return err
		}
		if got != tc.want {
			return fmt.Errorf("rate for %g = %g, want %g", tc.income, got, tc.want)
		}
	}
	return nil
}
