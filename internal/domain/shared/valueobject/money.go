package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	EUR Currency = "EUR" // Euro (default)
	USD Currency = "USD" // US Dollar
	GBP Currency = "GBP" // British Pound
	CHF Currency = "CHF" // Swiss Franc
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = EUR

// Money is a value object representing monetary amounts in integer minor
// units (cents). All amount fields in the system are integer cents; floating
// point never touches money. Money is immutable - all operations return new
// Money instances.
type Money struct {
	cents    int64
	currency Currency
}

// NewMoney creates a new Money from integer cents and a currency
func NewMoney(cents int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{cents: cents, currency: currency}, nil
}

// NewCents creates Money in the default currency from integer cents
func NewCents(cents int64) Money {
	return Money{cents: cents, currency: DefaultCurrency}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{cents: 0, currency: currency}
}

// FromDecimal converts a decimal major-unit amount to Money, rounding half
// away from zero to the nearest cent. This is the single place where decimal
// arithmetic (percent escalation, metered quantity times unit price) is
// collapsed back into integer cents.
func FromDecimal(amount decimal.Decimal, currency Currency) Money {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return Money{cents: cents, currency: currency}
}

// Cents returns the amount in integer minor units
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the amount as a decimal in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{cents: m.cents - other.cents, currency: m.currency}, nil
}

// MultiplyByInt returns a new Money multiplied by an integer factor
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{cents: m.cents * factor, currency: m.currency}
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{cents: -m.cents, currency: m.currency}
}

// Equals returns true if both Money values are equal (same cents and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.cents == other.cents
}

// LessThan returns true if this Money is less than the other
// Returns error if currencies don't match
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.cents < other.cents, nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.currency)
}

// MarshalJSON implements json.Marshaler. Amounts travel as integer cents
// so that clients never see a floating point representation.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cents    int64    `json:"cents"`
		Currency Currency `json:"currency"`
	}{
		Cents:    m.cents,
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Cents    int64    `json:"cents"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.cents = v.Cents
	m.currency = v.Currency
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores the integer cents only; currency lives in configuration.
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.cents = 0
		m.currency = DefaultCurrency
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.cents = v
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("invalid money value: %w", err)
		}
		m.cents = d.IntPart()
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
