package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(12345, EUR)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), m.Cents())
	assert.Equal(t, EUR, m.Currency())

	_, err = NewMoney(100, "")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewCents(500)
	b := NewCents(250)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), sum.Cents())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(250), diff.Cents())

	assert.Equal(t, int64(1500), a.MultiplyByInt(3).Cents())
	assert.Equal(t, int64(-500), a.Negate().Cents())
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	eur := NewCents(100)
	usd, err := NewMoney(100, USD)
	require.NoError(t, err)

	_, err = eur.Add(usd)
	assert.Error(t, err)
	_, err = eur.Subtract(usd)
	assert.Error(t, err)
	_, err = eur.LessThan(usd)
	assert.Error(t, err)
}

func TestFromDecimal_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{
		{"exact", "123.45", 12345},
		{"half rounds up", "0.005", 1},
		{"below half rounds down", "0.0049", 0},
		{"negative half rounds away", "-0.005", -1},
		{"compound result", "5512.50", 551250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			m := FromDecimal(d, EUR)
			assert.Equal(t, tt.expected, m.Cents())
		})
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewCents(99999)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cents":99999,"currency":"EUR"}`, string(data))

	var got Money
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, m.Equals(got))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(4200)))
	assert.Equal(t, int64(4200), m.Cents())
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(3.14))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "1234.56 EUR", NewCents(123456).String())
	assert.Equal(t, "-0.01 EUR", NewCents(-1).String())
}
