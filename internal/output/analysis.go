package output

import (
	"sort"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// TaxDrag describes how much of the total tax bill one account carries.
type TaxDrag struct {
	AssetName    string
	TaxLiability float64
	SharePct     float64 // share of the total tax liability
	EffectivePct float64 // tax as a share of the account's future value
}

// AnalyzeTaxDrag ranks accounts by tax liability, largest first. Accounts
// with no tax are omitted.
func AnalyzeTaxDrag(p *domain.Projection) []TaxDrag {
	var drags []TaxDrag
	for _, a := range p.Assets {
		if a.TaxLiability <= 0 {
			continue
		}
		d := TaxDrag{AssetName: a.Name, TaxLiability: a.TaxLiability}
		if p.TotalTaxLiability > 0 {
			d.SharePct = a.TaxLiability / p.TotalTaxLiability * 100
		}
		if a.FutureValue > 0 {
			d.EffectivePct = a.TaxLiability / a.FutureValue * 100
		}
		drags = append(drags, d)
	}
	sort.SliceStable(drags, func(i, j int) bool { return drags[i].TaxLiability > drags[j].TaxLiability })
	return drags
}
