// Package money provides the decimal amount type used for every monetary value
// in the ledger. Amounts are arbitrary precision and never go through float64.
package money

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an opaque monetary value in major currency units.
// The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New returns value * 10^exp, e.g. New(12345, -2) is 123.45.
func New(value int64, exp int32) Amount {
	return Amount{d: decimal.New(value, exp)}
}

// FromInt returns a whole amount.
func FromInt(value int64) Amount {
	return Amount{d: decimal.NewFromInt(value)}
}

// Parse reads a decimal string such as "1234.5". A comma decimal separator is accepted.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return Zero, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is like Parse but panics on malformed input. Meant for tests and constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount { return Amount{d: a.d.Mul(b.d)} }

// Abs returns |a|.
func (a Amount) Abs() Amount { return Amount{d: a.d.Abs()} }

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Equal reports whether a and b have the same numeric value, regardless of scale.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsZero() bool     { return a.d.IsZero() }
func (a Amount) IsPositive() bool { return a.d.IsPositive() }
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// Fixed renders a with exactly places decimals using sep as the decimal separator.
// Rounding is half away from zero.
func (a Amount) Fixed(places int32, sep string) string {
	s := a.d.StringFixed(places)
	if sep == "." {
		return s
	}
	return strings.Replace(s, ".", sep, 1)
}

// String renders a with two decimals and a period, for logs and JSON.
func (a Amount) String() string { return a.d.StringFixed(2) }

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	a.d = d
	return nil
}

// Value stores the amount as decimal text so no precision is lost in the database.
func (a Amount) Value() (driver.Value, error) {
	return a.d.String(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("money: scan: %w", err)
	}
	a.d = d
	return nil
}
