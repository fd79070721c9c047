package bankaccount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escore/escore/example/bankaccount"
)

func mustMoney(t *testing.T, amount string) bankaccount.Money {
	t.Helper()
	m, err := bankaccount.NewMoney(amount, "USD")
	require.NoError(t, err)
	return m
}

func TestBankAccount_OpenDepositWithdraw(t *testing.T) {
	a := bankaccount.New("urn:bank-account:1")

	require.NoError(t, a.Handle(bankaccount.OpenCommand{
		AccountID: "urn:bank-account:1",
		Owner:     "Taro",
		Initial:   mustMoney(t, "100.00"),
	}, bankaccount.Services{}))
	assert.True(t, a.Opened())
	assert.Equal(t, "100.00 USD", a.Balance().String())

	require.NoError(t, a.Handle(bankaccount.DepositCommand{Amount: mustMoney(t, "50.00")}, bankaccount.Services{}))
	assert.Equal(t, "150.00 USD", a.Balance().String())

	require.NoError(t, a.Handle(bankaccount.WithdrawCommand{Amount: mustMoney(t, "30.00")}, bankaccount.Services{}))
	assert.Equal(t, "120.00 USD", a.Balance().String())
}

func TestBankAccount_CannotOpenTwice(t *testing.T) {
	a := bankaccount.New("urn:bank-account:2")
	require.NoError(t, a.Handle(bankaccount.OpenCommand{
		AccountID: "urn:bank-account:2",
		Owner:     "Taro",
		Initial:   mustMoney(t, "10.00"),
	}, bankaccount.Services{}))

	err := a.Handle(bankaccount.OpenCommand{AccountID: "urn:bank-account:2", Owner: "Taro", Initial: mustMoney(t, "0")}, bankaccount.Services{})
	var already *bankaccount.AlreadyOpenedError
	require.ErrorAs(t, err, &already)
}

func TestBankAccount_WithdrawInsufficientFunds(t *testing.T) {
	a := bankaccount.New("urn:bank-account:3")
	require.NoError(t, a.Handle(bankaccount.OpenCommand{
		AccountID: "urn:bank-account:3",
		Owner:     "Taro",
		Initial:   mustMoney(t, "10.00"),
	}, bankaccount.Services{}))

	err := a.Handle(bankaccount.WithdrawCommand{Amount: mustMoney(t, "20.00")}, bankaccount.Services{})
	var insufficient *bankaccount.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	// the failed command must not have mutated the balance.
	assert.Equal(t, "10.00 USD", a.Balance().String())
}

func TestBankAccount_DepositRequiresOpenAccount(t *testing.T) {
	a := bankaccount.New("urn:bank-account:4")
	err := a.Handle(bankaccount.DepositCommand{Amount: mustMoney(t, "10.00")}, bankaccount.Services{})
	var notOpened *bankaccount.NotOpenedError
	require.ErrorAs(t, err, &notOpened)
}

type denyAllFraudChecker struct{}

func (denyAllFraudChecker) Allow(string, bankaccount.Money) bool { return false }

func TestBankAccount_WithdrawBlockedByFraudCheck(t *testing.T) {
	a := bankaccount.New("urn:bank-account:5")
	require.NoError(t, a.Handle(bankaccount.OpenCommand{
		AccountID: "urn:bank-account:5",
		Owner:     "Taro",
		Initial:   mustMoney(t, "100.00"),
	}, bankaccount.Services{}))

	err := a.Handle(bankaccount.WithdrawCommand{Amount: mustMoney(t, "10.00")}, bankaccount.Services{Fraud: denyAllFraudChecker{}})
	var blocked *bankaccount.FraudBlockedError
	require.ErrorAs(t, err, &blocked)
}

func TestBankAccount_FlushReturnsExpectedVersion(t *testing.T) {
	a := bankaccount.New("urn:bank-account:6")
	require.NoError(t, a.Handle(bankaccount.OpenCommand{
		AccountID: "urn:bank-account:6",
		Owner:     "Taro",
		Initial:   mustMoney(t, "100.00"),
	}, bankaccount.Services{}))
	require.NoError(t, a.Handle(bankaccount.DepositCommand{Amount: mustMoney(t, "10.00")}, bankaccount.Services{}))

	events, expected := a.Flush()
	assert.Len(t, events, 2)
	assert.Equal(t, int64(0), expected)
	assert.Equal(t, int64(2), a.Version())
}
