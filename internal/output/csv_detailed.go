package output

import (
	"bytes"
	"encoding/csv"

	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/pkg/money"
)

// CSVDetailedExporter writes one row per account with its growth and tax breakdown.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(p *domain.Projection) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Asset", "Type", "Kind", "CurrentBalance", "AnnualContribution", "GrowthRatePct", "TotalContributions", "PrincipalGrowth", "ContributionGrowth", "FutureValuePreTax", "TaxRule", "TaxRatePct", "TaxLiability", "AfterTaxValue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, a := range p.Assets {
		row := []string{
			a.Name,
			string(a.Type),
			string(a.Kind),
			plainAmount(a.CurrentBalance),
			plainAmount(a.AnnualContribution),
			money.NewMoney(a.GrowthRatePct).String(),
			plainAmount(a.TotalContributions),
			plainAmount(a.PrincipalGrowth),
			plainAmount(a.ContributionGrowth),
			plainAmount(a.FutureValue),
			string(a.TaxRule),
			money.NewMoney(a.TaxRatePct).String(),
			plainAmount(a.TaxLiability),
			plainAmount(a.AfterTaxValue),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DrawdownCSVExporter writes the year-by-year retirement withdrawal schedule.
type DrawdownCSVExporter struct{}

func (d DrawdownCSVExporter) Name() string { return "drawdown-csv" }

func (d DrawdownCSVExporter) Format(p *domain.Projection) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Year", "Age", "StartBalance", "Withdrawal", "Growth", "EndBalance", "Depleted"}); err != nil {
		return nil, err
	}
	for _, y := range p.Drawdown {
		row := []string{
			intToString(y.Year),
			intToString(y.Age),
			plainAmount(y.StartBalance),
			plainAmount(y.Withdrawal),
			plainAmount(y.Growth),
			plainAmount(y.EndBalance),
			boolToString(money.RoundCents(y.EndBalance) <= 0),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
