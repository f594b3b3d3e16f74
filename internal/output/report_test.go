package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"github.com/finadvisor/retirement-forecast/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyProjection(t *testing.T) *domain.Projection {
	t.Helper()
	in := domain.DefaultUserInputs()
	in.Age, in.RetirementAge = 30, 65
	in.AnnualIncome = 85000
	in.ContributionRatePct = 15
	in.CurrentBalance = 50000
	in.CurrentMarginalTaxRatePct = 25
	p, err := calculation.NewProjectionEngine().Project(&in)
	require.NoError(t, err)
	return p
}

func TestGenerateReport(t *testing.T) {
	p := legacyProjection(t)
	for _, format := range output.AvailableFormatterNames() {
		var buf bytes.Buffer
		require.NoError(t, output.GenerateReport(&buf, p, format), format)
		assert.NotEmpty(t, buf.String(), format)
	}
}

func TestGenerateReport_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := output.GenerateReport(&buf, legacyProjection(t), "pdf")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "console, csv")
	assert.Empty(t, buf.String())
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, output.WriteReportFile(legacyProjection(t), "csv", path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "projected_annual_retirement_income")
}
