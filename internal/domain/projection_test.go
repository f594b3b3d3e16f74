package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjection_Metrics(t *testing.T) {
	p := &Projection{
		Assets: []AssetProjection{
			{Name: "401(k)", FutureValue: 1000.004, AfterTaxValue: 750.006},
			{Name: "Roth IRA", FutureValue: 500, AfterTaxValue: 500},
		},
		TotalFutureValue:       1500.004,
		TotalAfterTax:          1250.006,
		TotalTaxLiability:      249.998,
		AnnualRetirementIncome: 61.234,
	}

	m := p.Metrics()
	assert.Len(t, m, 8)
	assert.Equal(t, 1500.0, m[MetricTotalFutureValue])
	assert.Equal(t, 1250.01, m[MetricTotalAfterTax])
	assert.Equal(t, 250.0, m[MetricTotalTaxLiability])
	assert.Equal(t, 61.23, m[MetricAnnualRetirementIncome])
	assert.Equal(t, 1000.0, m["asset_1_future_value_pre_tax"])
	assert.Equal(t, 750.01, m["asset_1_after_tax_value"])
	assert.Equal(t, 500.0, m[AssetAfterTaxKey(1)])
	assert.NotContains(t, m, MetricPostExpenseBalance)
}

func TestProjection_DrawdownBalance(t *testing.T) {
	p := &Projection{TotalAfterTax: 1000}
	assert.Equal(t, 1000.0, p.DrawdownBalance())

	p.HasLifeExpense = true
	p.OneTimeLifeExpense = 1000
	p.PostExpenseBalance = 0
	assert.Equal(t, 0.0, p.DrawdownBalance())
	assert.Contains(t, p.Metrics(), MetricPostExpenseBalance)
}

func TestMetricKeys(t *testing.T) {
	assert.Equal(t, "asset_1_future_value_pre_tax", AssetFutureValueKey(0))
	assert.Equal(t, "asset_12_after_tax_value", AssetAfterTaxKey(11))
}
