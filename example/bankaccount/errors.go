package bankaccount

import "fmt"

// AlreadyOpenedError is returned when OpenCommand targets an account that
// has already recorded its opening event.
type AlreadyOpenedError struct {
	AccountID string
}

func (e *AlreadyOpenedError) Error() string {
	return fmt.Sprintf("bankaccount: account %s is already opened", e.AccountID)
}

// NotOpenedError is returned when a command other than OpenCommand targets
// an account with no Opened event yet.
type NotOpenedError struct {
	AccountID string
}

func (e *NotOpenedError) Error() string {
	return fmt.Sprintf("bankaccount: account %s is not opened", e.AccountID)
}

// InvalidAmountError is returned when an opening, deposit or withdrawal
// amount is negative. A zero amount is accepted.
type InvalidAmountError struct {
	Amount Money
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("bankaccount: invalid amount %s", e.Amount)
}

// InsufficientFundsError is returned when a withdrawal would take the
// balance negative.
type InsufficientFundsError struct {
	Balance Money
	Amount  Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("bankaccount: insufficient funds: balance %s, requested %s", e.Balance, e.Amount)
}

// FraudBlockedError is returned when the injected FraudChecker rejects a
// withdrawal.
type FraudBlockedError struct {
	AccountID string
	Amount    Money
}

func (e *FraudBlockedError) Error() string {
	return fmt.Sprintf("bankaccount: withdrawal of %s from %s blocked by fraud check", e.Amount, e.AccountID)
}
