package calculation

import (
	"fmt"
	"math"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// rateEpsilon treats growth and inflation rates closer than this as equal,
// where the level-withdrawal formula reaches its removable singularity.
const rateEpsilon = 1e-12

// RetirementIncome solves for the first-year withdrawal W that, growing with
// inflation each year and taken at the start of each year from a balance
// compounding at the growth rate, exhausts balance after years withdrawals:
//
//	W = B*(g-i) / ((1+g)*(1-((1+i)/(1+g))^n))
//
// When g == i the payments are level in real terms and W = B/n.
func RetirementIncome(balance, growthPct, inflationPct float64, years int) (float64, error) {
	g, i, err := drawdownRates(balance, growthPct, inflationPct, years)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, nil
	}
	n := float64(years)
	if math.Abs(g-i) < rateEpsilon {
		return balance / n, nil
	}
	q := (1 + i) / (1 + g)
	return balance * (g - i) / ((1 + g) * (1 - math.Pow(q, n))), nil
}

// RequiredBalance is the inverse of RetirementIncome: the balance needed at
// retirement to fund a first-year withdrawal of income for years.
func RequiredBalance(income, growthPct, inflationPct float64, years int) (float64, error) {
	g, i, err := drawdownRates(income, growthPct, inflationPct, years)
	if err != nil {
		return 0, err
	}
	n := float64(years)
	if math.Abs(g-i) < rateEpsilon {
		return income * n, nil
	}
	q := (1 + i) / (1 + g)
	return income * (1 + g) * (1 - math.Pow(q, n)) / (g - i), nil
}

func drawdownRates(amount, growthPct, inflationPct float64, years int) (g, i float64, err error) {
	if years < 1 {
		return 0, 0, fmt.Errorf("%w: retirement income simulation requires at least 1 year in retirement (got %d)", domain.ErrInvalidInput, years)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, 0, fmt.Errorf("%w: drawdown amount must be a non-negative finite number (got %g)", domain.ErrInvalidInput, amount)
	}
	if growthPct <= -100 || inflationPct <= -100 {
		return 0, 0, fmt.Errorf("%w: growth and inflation rates must be greater than -100%%", domain.ErrInvalidInput)
	}
	return growthPct / 100.0, inflationPct / 100.0, nil
}

// SimulateDrawdown walks the withdrawal schedule year by year: withdraw the
// inflation-adjusted amount at the start of the year, then grow the rest.
// A withdrawal never exceeds the remaining balance.
func SimulateDrawdown(balance, firstWithdrawal, growthPct, inflationPct float64, years, startAge int) []domain.DrawdownYear {
	if years < 1 {
		return nil
	}
	g := growthPct / 100.0
	i := inflationPct / 100.0

	schedule := make([]domain.DrawdownYear, 0, years)
	current := balance
	for y := 1; y <= years; y++ {
		withdrawal := firstWithdrawal * math.Pow(1+i, float64(y-1))
		if withdrawal > current {
			withdrawal = current
		}
		remaining := current - withdrawal
		growth := remaining * g
		end := remaining + growth

		schedule = append(schedule, domain.DrawdownYear{
			Year:         y,
			Age:          startAge + y - 1,
			StartBalance: current,
			Withdrawal:   withdrawal,
			Growth:       growth,
			EndBalance:   end,
		})
		current = end
	}
	return schedule
}
