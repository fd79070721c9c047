package bankaccount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escore/escore/example/bankaccount"
)

func TestMoney_AddSub(t *testing.T) {
	a, err := bankaccount.NewMoney("10.50", "USD")
	require.NoError(t, err)
	b, err := bankaccount.NewMoney("2.25", "USD")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.75 USD", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "8.25 USD", diff.String())
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	usd, err := bankaccount.NewMoney("10.00", "USD")
	require.NoError(t, err)
	jpy, err := bankaccount.NewMoney("1000", "JPY")
	require.NoError(t, err)

	_, err = usd.Add(jpy)
	assert.Error(t, err)
}

func TestMoney_InvalidAmount(t *testing.T) {
	_, err := bankaccount.NewMoney("not-a-number", "USD")
	assert.Error(t, err)
}
