package output

import (
	"strconv"

	"github.com/finadvisor/retirement-forecast/pkg/money"
)

// FormatCurrency formats an amount as USD with thousands separators and 2 decimals.
func FormatCurrency(amount float64) string { return money.FormatUSD(amount) }

// FormatPercentage formats a percentage with 2 decimals.
func FormatPercentage(pct float64) string { return money.FormatPercent(pct, 2) }

// plainAmount is the CSV form of a currency amount: cents, no symbol or separators.
func plainAmount(amount float64) string { return money.NewMoney(amount).Round().String() }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
