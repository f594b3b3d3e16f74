package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// ConsoleFormatter renders a human readable projection summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(p *domain.Projection) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 64)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "RETIREMENT PROJECTION SUMMARY")
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Years until retirement:     %d\n", p.YearsToRetirement)
	fmt.Fprintf(&buf, "Years in retirement:        %d\n", p.YearsInRetirement)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ACCOUNTS")
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	for i, a := range p.Assets {
		fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, a.Name, a.Type)
		fmt.Fprintf(&buf, "   Pre-tax: %s  Tax: %s  After-tax: %s\n",
			FormatCurrency(a.FutureValue), FormatCurrency(a.TaxLiability), FormatCurrency(a.AfterTaxValue))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TOTALS")
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	fmt.Fprintf(&buf, "Total Future Value (Pre-Tax): %s\n", FormatCurrency(p.TotalFutureValue))
	fmt.Fprintf(&buf, "Total Tax Liability:          %s\n", FormatCurrency(p.TotalTaxLiability))
	fmt.Fprintf(&buf, "Total After-Tax Balance:      %s\n", FormatCurrency(p.TotalAfterTax))
	fmt.Fprintf(&buf, "Tax Efficiency:               %s\n", FormatPercentage(p.TaxEfficiencyPct))
	if p.HasLifeExpense {
		fmt.Fprintf(&buf, "One-Time Life Expense:        %s\n", FormatCurrency(p.OneTimeLifeExpense))
		fmt.Fprintf(&buf, "Balance After Expense:        %s\n", FormatCurrency(p.PostExpenseBalance))
	}
	fmt.Fprintf(&buf, "Annual Retirement Income:     %s (%s/month)\n",
		FormatCurrency(p.AnnualRetirementIncome), FormatCurrency(p.AnnualRetirementIncome/12))

	if drags := AnalyzeTaxDrag(p); len(drags) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Largest tax drag: %s (%s, %s of total tax)\n",
			drags[0].AssetName, FormatCurrency(drags[0].TaxLiability), FormatPercentage(drags[0].SharePct))
	}

	if p.Gap != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "INCOME GOAL")
		fmt.Fprintln(&buf, strings.Repeat("-", 64))
		status := "SHORTFALL"
		if p.Gap.OnTrack {
			status = "ON TRACK"
		}
		fmt.Fprintf(&buf, "Goal: %s  Projected: %s  Status: %s\n",
			FormatCurrency(p.Gap.Goal), FormatCurrency(p.Gap.ProjectedIncome), status)
		for _, r := range p.Gap.Recommendations {
			fmt.Fprintf(&buf, "  - %s\n", r)
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(p) {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	return buf.Bytes(), nil
}
