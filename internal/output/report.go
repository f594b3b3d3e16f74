package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// GenerateReport renders p with the named formatter and writes it to w.
func GenerateReport(w io.Writer, p *domain.Projection, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(p)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteReportFile renders p with the named formatter into filename.
func WriteReportFile(p *domain.Projection, format, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := GenerateReport(file, p, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
