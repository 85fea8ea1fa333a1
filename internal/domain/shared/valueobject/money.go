package valueobject

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is a value object representing a monetary amount in integer minor
// units (cents). It is immutable - all operations return new Money values.
// Amounts are stored as cents end to end; display divides by 100.
type Money struct {
	cents int64
}

// NewMoney creates Money from an amount of cents
func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// NewMoneyFromString parses a decimal string like "49.99" into Money.
// At most two fractional digits are accepted; the value is exact, no
// floating-point arithmetic is involved.
func NewMoneyFromString(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, errors.New("amount cannot be empty")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		frac += "0"
		fallthrough
	case 2:
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	default:
		return Money{}, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Money{cents: total}, nil
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

// String returns the plain fixed two-decimal representation, e.g. "-3.05"
func (m Money) String() string {
	cents := m.cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// displayLocale is the locale used for currency display strings.
var displayLocale = language.AmericanEnglish

// FormatCurrency renders an amount of cents as a display currency string in
// the target locale, e.g. 4999 -> "$49.99". Defined for all integers;
// negative amounts carry a sign.
func FormatCurrency(cents int64) string {
	p := message.NewPrinter(displayLocale)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return p.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Format renders the Money as a display currency string
func (m Money) Format() string {
	return FormatCurrency(m.cents)
}

// ParseCents parses a display currency string produced by FormatCurrency
// back into cents. It is the left inverse of FormatCurrency.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	m, err := NewMoneyFromString(s)
	if err != nil {
		return 0, err
	}
	cents := m.Cents()
	if negative {
		cents = -cents
	}
	return cents, nil
}
