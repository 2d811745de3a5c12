package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNegativeAmount = errors.New("money cannot be negative")
	ErrInvalidAmount  = errors.New("invalid money amount")
)

// Money is an amount in the smallest currency unit (centavos). All arithmetic
// is integer based so 2-decimal rounding is exact.
type Money struct {
	cents int64
}

func Zero() Money {
	return Money{}
}

func FromCents(cents int64) Money {
	return Money{cents: cents}
}

func NewFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

// Parse reads a decimal string such as "1000", "1000.5" or "1000.50".
// More than two fractional digits are rounded half-up.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return Money{}, ErrNegativeAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return Money{}, ErrInvalidAmount
		}
	}

	roundUp := false
	if len(frac) > 2 {
		roundUp = frac[2] >= '5'
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	fracCents, _ := strconv.ParseInt(frac, 10, 64)

	if units > (math.MaxInt64-fracCents-1)/100 {
		return Money{}, ErrInvalidAmount
	}
	cents := units*100 + fracCents
	if roundUp {
		cents++
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Mul(n int64) Money {
	return Money{cents: m.cents * n}
}

// MulRatio returns m * num / den rounded half-up to the cent.
func (m Money) MulRatio(num, den int64) Money {
	if den <= 0 {
		panic("money: non-positive denominator")
	}
	return Money{cents: (2*m.cents*num + den) / (2 * den)}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) String() string {
	sign := ""
	c := m.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
