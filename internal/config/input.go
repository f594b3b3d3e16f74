package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
	"gopkg.in/yaml.v3"
)

// Configuration is the on-disk form of a projection request: the user inputs
// at the top level plus optional Monte Carlo settings.
type Configuration struct {
	domain.UserInputs `yaml:",inline"`

	MonteCarlo *calculation.MonteCarloConfig `yaml:"monte_carlo,omitempty"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// requiredKeys are the inputs that have no sensible default.
type requiredKeys struct {
	Age           *int `yaml:"age"`
	RetirementAge *int `yaml:"retirement_age"`
}

// Parse decodes a configuration document on top of the default inputs, so
// omitted keys keep their documented defaults. Unknown keys are rejected, as
// is a document without age or retirement_age.
func (ip *InputParser) Parse(data []byte) (*Configuration, error) {
	config := Configuration{UserInputs: domain.DefaultUserInputs()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: configuration document is empty", domain.ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrConfiguration, err)
	}

	var required requiredKeys
	if err := yaml.Unmarshal(data, &required); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrConfiguration, err)
	}
	if required.Age == nil {
		return nil, fmt.Errorf("%w: age is required", domain.ErrConfiguration)
	}
	if required.RetirementAge == nil {
		return nil, fmt.Errorf("%w: retirement_age is required", domain.ErrConfiguration)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if config == nil {
		return fmt.Errorf("%w: no configuration provided", domain.ErrConfiguration)
	}
	if err := config.UserInputs.Validate(); err != nil {
		return err
	}
	if config.MonteCarlo != nil {
		if err := config.MonteCarlo.Validate(); err != nil {
			return fmt.Errorf("monte_carlo: %w", err)
		}
	}
	return nil
}

// SaveConfiguration writes config as YAML.
func (ip *InputParser) SaveConfiguration(config *Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration returns a mixed-portfolio example covering every
// account type.
func (ip *InputParser) CreateExampleConfiguration() *Configuration {
	inputs := domain.DefaultUserInputs()
	inputs.Age = 35
	inputs.RetirementAge = 65
	inputs.LifeExpectancy = 90
	inputs.AnnualIncome = 95000
	inputs.CurrentMarginalTaxRatePct = 22
	inputs.RetirementMarginalTaxRatePct = domain.Float(22)
	inputs.OneTimeLifeExpense = domain.Float(50000)
	inputs.AnnualRetirementIncomeGoal = domain.Float(80000)
	inputs.Assets = []domain.Asset{
		{
			Name:               "401(k) / Traditional IRA",
			Type:               domain.AssetTypePreTax,
			Kind:               domain.KindTraditional,
			CurrentBalance:     120000,
			AnnualContribution: 19500,
			GrowthRatePct:      7,
		},
		{
			Name:               "Roth IRA",
			Type:               domain.AssetTypePostTax,
			Kind:               domain.KindRoth,
			CurrentBalance:     35000,
			AnnualContribution: 6500,
			GrowthRatePct:      7,
		},
		{
			Name:               "Brokerage Account",
			Type:               domain.AssetTypePostTax,
			Kind:               domain.KindBrokerage,
			CurrentBalance:     25000,
			AnnualContribution: 3000,
			GrowthRatePct:      6,
		},
		{
			Name:               "HSA (Health Savings Account)",
			Type:               domain.AssetTypeTaxDeferred,
			Kind:               domain.KindHSA,
			CurrentBalance:     8000,
			AnnualContribution: 3850,
			GrowthRatePct:      6,
		},
	}

	mc := calculation.DefaultMonteCarloConfig()
	mc.Seed = 42
	return &Configuration{UserInputs: inputs, MonteCarlo: &mc}
}
