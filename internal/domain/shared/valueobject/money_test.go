package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(10000), VND)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, VND, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		require.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyVNDFromInt(10000)
		b := NewMoneyVNDFromInt(25000)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Equals(NewMoneyVNDFromInt(35000)))
	})

	t.Run("fails on currency mismatch", func(t *testing.T) {
		a := NewMoneyVNDFromInt(10000)
		b, err := NewMoney(decimal.NewFromInt(5), USD)
		require.NoError(t, err)
		_, err = a.Add(b)
		require.Error(t, err)
	})
}

func TestMoney_MultiplyByInt(t *testing.T) {
	price := NewMoneyVNDFromInt(10000)
	total := price.MultiplyByInt(3)
	assert.True(t, total.Equals(NewMoneyVNDFromInt(30000)))
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyVNDFromInt(30000)
	b := NewMoneyVNDFromInt(12000)
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(NewMoneyVNDFromInt(18000)))
}

func TestMoney_ZeroAndSigns(t *testing.T) {
	assert.True(t, ZeroVND().IsZero())
	assert.True(t, NewMoneyVNDFromInt(1).IsPositive())
	assert.True(t, NewMoneyVNDFromInt(-1).IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyVNDFromInt(149000)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var parsed Money
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, m.Equals(parsed))
}

func TestMoney_UnmarshalDefaultsCurrency(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"5000"}`), &m))
	assert.Equal(t, DefaultCurrency, m.Currency())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "20000 VND", NewMoneyVNDFromInt(20000).String())
}
