package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
)

// FormatMonteCarloConsole renders a Monte Carlo result as a text summary.
func FormatMonteCarloConsole(r *calculation.MonteCarloResult) []byte {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 64)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "MONTE CARLO SIMULATION")
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Simulations: %d  Volatility: %s  Seed: %d\n", r.NumSimulations, FormatPercentage(r.VolatilityPct), r.Seed)
	if r.Baseline != nil {
		fmt.Fprintf(&buf, "Expected-rate after-tax balance: %s\n", FormatCurrency(r.Baseline.DrawdownBalance()))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "After-tax balance at retirement")
	writeDistribution(&buf, r.Balances)
	fmt.Fprintf(&buf, "  95%% interval: %s to %s\n", FormatCurrency(r.ConfidenceInterval.Lower), FormatCurrency(r.ConfidenceInterval.Upper))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "First-year retirement income")
	writeDistribution(&buf, r.Incomes)
	fmt.Fprintln(&buf)

	if r.IncomeGoal != nil {
		fmt.Fprintf(&buf, "Probability of meeting %s/year: %s\n", FormatCurrency(*r.IncomeGoal), FormatPercentage(r.SuccessRate*100))
	} else {
		fmt.Fprintln(&buf, "No income goal set; every simulation counts as a success")
	}
	return buf.Bytes()
}

func writeDistribution(buf *bytes.Buffer, d calculation.DistributionStats) {
	fmt.Fprintf(buf, "  Mean %s  Std dev %s\n", FormatCurrency(d.Mean), FormatCurrency(d.StdDev))
	fmt.Fprintf(buf, "  Min %s  Max %s\n", FormatCurrency(d.Min), FormatCurrency(d.Max))
	p := d.Percentiles
	fmt.Fprintf(buf, "  P10 %s  P25 %s  P50 %s  P75 %s  P90 %s\n",
		FormatCurrency(p.P10), FormatCurrency(p.P25), FormatCurrency(p.P50), FormatCurrency(p.P75), FormatCurrency(p.P90))
}
