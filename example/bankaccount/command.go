package bankaccount

// OpenCommand requests creation of a new account.
type OpenCommand struct {
	AccountID string
	Owner     string
	Initial   Money
}

// DepositCommand requests an increase in the account balance.
type DepositCommand struct {
	Amount Money
}

// WithdrawCommand requests a decrease in the account balance. It fails
// with InsufficientFundsError if Amount exceeds the current balance.
type WithdrawCommand struct {
	Amount Money
}
