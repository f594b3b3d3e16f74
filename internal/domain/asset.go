package domain

import (
	"fmt"
	"strings"
)

// AssetType is the tax classification of an account. It selects the tax rule
// family applied at withdrawal.
type AssetType string

const (
	AssetTypePreTax      AssetType = "pre_tax"      // 401(k), Traditional IRA
	AssetTypePostTax     AssetType = "post_tax"     // Roth IRA, Brokerage
	AssetTypeTaxDeferred AssetType = "tax_deferred" // HSA, Annuity
)

// IsValid reports whether t is one of the known asset types.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypePreTax, AssetTypePostTax, AssetTypeTaxDeferred:
		return true
	}
	return false
}

// UnmarshalText normalizes spellings such as "PRE_TAX" or "pre-tax".
// Unknown values are kept verbatim so that validation can report them.
func (t *AssetType) UnmarshalText(text []byte) error {
	*t = normalizeAssetType(string(text))
	return nil
}

// ParseAssetType converts a user supplied string into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	t := normalizeAssetType(s)
	if !t.IsValid() {
		return t, fmt.Errorf("%w: unrecognized asset type %q", ErrConfiguration, s)
	}
	return t, nil
}

func normalizeAssetType(s string) AssetType {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, " ", "_")
	return AssetType(n)
}

// AccountKind is the optional sub-classification that selects a rule within
// the post-tax and tax-deferred families.
type AccountKind string

const (
	KindTraditional AccountKind = "traditional"
	KindRoth        AccountKind = "roth"
	KindBrokerage   AccountKind = "brokerage"
	KindHSA         AccountKind = "hsa"
	KindAnnuity     AccountKind = "annuity"
)

// UnmarshalText lower-cases the kind.
func (k *AccountKind) UnmarshalText(text []byte) error {
	*k = AccountKind(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// Asset is a single account with its own tax treatment, growth rate and
// contribution schedule. Contributions are made once per year, at year end.
type Asset struct {
	Name               string      `yaml:"name" json:"name"`
	Type               AssetType   `yaml:"asset_type" json:"asset_type"`
	Kind               AccountKind `yaml:"account_kind,omitempty" json:"account_kind,omitempty"`
	CurrentBalance     float64     `yaml:"current_balance" json:"current_balance"`
	AnnualContribution float64     `yaml:"annual_contribution" json:"annual_contribution"`
	GrowthRatePct      float64     `yaml:"growth_rate_pct" json:"growth_rate_pct"`

	// Capital gains rate for brokerage accounts; falls back to the inputs-level rate.
	CapitalGainsRatePct *float64 `yaml:"capital_gains_rate_pct,omitempty" json:"capital_gains_rate_pct,omitempty"`
}

// ResolvedKind returns the explicit kind, or infers one from the account name
// ("Roth IRA", "Brokerage Account", "HSA (Health Savings Account)", ...).
// An empty result means no kind could be determined.
func (a Asset) ResolvedKind() AccountKind {
	if a.Kind != "" {
		return a.Kind
	}
	name := strings.ToLower(a.Name)
	switch {
	case strings.Contains(name, "roth"):
		return KindRoth
	case strings.Contains(name, "hsa"), strings.Contains(name, "health savings"):
		return KindHSA
	case strings.Contains(name, "annuity"):
		return KindAnnuity
	case strings.Contains(name, "brokerage"), strings.Contains(name, "taxable"):
		return KindBrokerage
	case strings.Contains(name, "401"), strings.Contains(name, "403(b)"),
		strings.Contains(name, "ira"), strings.Contains(name, "traditional"):
		return KindTraditional
	}
	return ""
}

// InferAssetType classifies an account by name. Names with no recognised
// kind are treated as post-tax.
func InferAssetType(name string) AssetType {
	switch (Asset{Name: name}).ResolvedKind() {
	case KindTraditional:
		return AssetTypePreTax
	case KindHSA, KindAnnuity:
		return AssetTypeTaxDeferred
	}
	return AssetTypePostTax
}

// TotalContributions is the sum of the contributions made over the given years.
func (a Asset) TotalContributions(years int) float64 {
	if years <= 0 {
		return 0
	}
	return a.AnnualContribution * float64(years)
}

// Validate checks a single asset. Index is only used in messages.
func (a Asset) Validate(index int) error {
	label := fmt.Sprintf("asset %d", index+1)
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidInput, label)
	}
	label = fmt.Sprintf("%s (%s)", label, a.Name)
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: %s: unrecognized asset type %q", ErrConfiguration, label, a.Type)
	}
	if err := nonNegative(label+": current_balance", a.CurrentBalance); err != nil {
		return err
	}
	if err := nonNegative(label+": annual_contribution", a.AnnualContribution); err != nil {
		return err
	}
	if err := aboveMinusHundred(label+": growth_rate_pct", a.GrowthRatePct); err != nil {
		return err
	}
	if a.CapitalGainsRatePct != nil {
		if err := percentInRange(label+": capital_gains_rate_pct", *a.CapitalGainsRatePct); err != nil {
			return err
		}
	}
	return nil
}
