package model

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// Exponent bounds for amounts handed to the ledger. Comparing decimals
// rescales to the smaller exponent, so values outside stay unprocessed.
const (
	minAmountExponent = -18
	maxAmountExponent = 18
)

// amountPattern accepts up to 15 integer digits and at most two fractional ones.
var amountPattern = regexp.MustCompile(`^[0-9]{1,15}(\.[0-9]{1,2})?$`)

var (
	errEmptyAmount      = errors.New("amount is empty")
	errAmountNotPos     = errors.New("amount must be positive")
	errAmountTooPrecise = errors.New("amount has more than two decimal places")
	errAmountFormat     = errors.New("amount must be plain digits with an optional point")
)

// Payout rounds bet × multiplier half-up to cents.
func Payout(bet, multiplier decimal.Decimal) decimal.Decimal {
	return bet.Mul(multiplier).Round(MoneyPlaces)
}

// TruncateCents drops everything past the second decimal place.
func TruncateCents(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(MoneyPlaces)
}

// ValidCents reports whether d has a bounded exponent and no fraction past cents.
func ValidCents(d decimal.Decimal) bool {
	if e := d.Exponent(); e < minAmountExponent || e > maxAmountExponent {
		return false
	}
	return d.Equal(d.Truncate(MoneyPlaces))
}

// ParseAmount parses a user supplied amount such as "1,250.50".
// Thousands separators and surrounding spaces are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, errAmountNotPos
	}
	// Checked before parsing so exponent notation never reaches the decimal.
	if !amountPattern.MatchString(s) {
		if i := strings.IndexByte(s, '.'); i >= 0 && i+3 < len(s) && amountPattern.MatchString(s[:i+3]) {
			return decimal.Zero, errAmountTooPrecise
		}
		return decimal.Zero, errAmountFormat
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errAmountNotPos
	}
	return d, nil
}
