package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Currency
		wantErr bool
	}{
		{"upper case", "USD", USD, false},
		{"lower case with spaces", " eur ", EUR, false},
		{"empty", "", "", true},
		{"unknown code", "XXQ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCurrency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestZero(t *testing.T) {
	m := Zero(GBP)
	assert.True(t, m.IsZero())
	assert.Equal(t, GBP, m.Currency())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		a, _ := NewMoneyFromString("0.10", USD)
		b, _ := NewMoneyFromString("0.20", USD)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "0.30 USD", sum.String())
	})

	t.Run("different currency", func(t *testing.T) {
		a, _ := NewMoneyFromString("1", USD)
		b, _ := NewMoneyFromString("1", EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
		assert.False(t, a.SameCurrency(b))
	})
}

func TestMoneyMultiplyByInt(t *testing.T) {
	m, _ := NewMoneyFromString("19.99", USD)
	assert.Equal(t, "59.97", m.MultiplyByInt(3).StringFixed(2))
}

func TestMoneyFormat(t *testing.T) {
	m, _ := NewMoneyFromString("12.5", USD)

	out := m.Format(language.AmericanEnglish)

	assert.Contains(t, out, "$")
	assert.Contains(t, out, "12.50")
}

func TestMoneyFormat_UnknownCurrencyFallsBack(t *testing.T) {
	m := Money{amount: decimal.NewFromInt(5), currency: "ZZZ"}
	assert.Equal(t, "5.00 ZZZ", m.Format(language.English))
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m, _ := NewMoneyFromString("12.5", EUR)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"12.5","currency":"EUR"}`, string(data))
	})

	t.Run("unmarshal platform price", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"29.0","currencyCode":"CAD"}`), &m))
		assert.Equal(t, CAD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(29)))
	})

	t.Run("unmarshal rejects bad amount", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc","currency":"USD"}`), &m))
	})
}
