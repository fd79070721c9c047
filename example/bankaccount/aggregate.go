// Package bankaccount is the end-to-end example aggregate: a single
// BankAccount family demonstrating the identifier, aggregate, command-apply
// loop, and store packages together.
package bankaccount

import (
	"fmt"

	"github.com/escore/escore"
)

// NS is the URN namespace for bank account streams: "urn:bank-account:<id>".
type NS struct{}

func (NS) Namespace() string { return "bank-account" }

// ID is a typed bank-account identifier.
type ID = escore.ID[NS]

// FraudChecker is an injected capability that may block a withdrawal for
// reasons outside the account's own state (spec.md §9 "Services as an
// injected capability bag"). A nil FraudChecker in Services disables the
// check entirely.
type FraudChecker interface {
	Allow(accountID string, amount Money) bool
}

// Services is the capability bag BankAccount.Handle accepts alongside each
// command. It is constructed once by the caller and passed by value; it is
// never stored on the aggregate.
type Services struct {
	Fraud FraudChecker
}

// BankAccount is the aggregate root enforcing bank-account domain rules.
type BankAccount struct {
	escore.Base

	owner   string
	balance Money
	opened  bool
}

// New constructs an empty BankAccount bound to streamID, ready to be folded
// from history or to handle an OpenCommand.
func New(streamID string) *BankAccount {
	a := &BankAccount{}
	a.Init(streamID, "BankAccount", a.apply)
	return a
}

func (a *BankAccount) Balance() Money { return a.balance }
func (a *BankAccount) Owner() string  { return a.owner }
func (a *BankAccount) Opened() bool   { return a.opened }

// apply folds a single event into the aggregate's state. Must stay pure
// and total: replaying the same history always yields the same state.
func (a *BankAccount) apply(e escore.Event) {
	switch ev := e.(type) {
	case Opened:
		a.owner = ev.Owner
		a.balance = ev.Initial
		a.opened = true
	case Deposited:
		if sum, err := a.balance.Add(ev.Amount); err == nil {
			a.balance = sum
		}
	case Withdrawn:
		if diff, err := a.balance.Sub(ev.Amount); err == nil {
			a.balance = diff
		}
	}
}

// Handle routes a command to domain logic, raising the resulting events via
// Base.Raise on success. It never returns events directly — Execute reads
// them back with Flush — and it never mutates state that isn't also
// recorded as an event, so a failed command leaves no trace.
func (a *BankAccount) Handle(cmd any, svc Services) error {
	switch c := cmd.(type) {
	case OpenCommand:
		if a.opened {
			return &AlreadyOpenedError{AccountID: c.AccountID}
		}
		if c.Initial.IsNegative() {
			return &InvalidAmountError{Amount: c.Initial}
		}
		a.Raise(Opened{AccountID: c.AccountID, Owner: c.Owner, Initial: c.Initial})
		return nil

	case DepositCommand:
		if !a.opened {
			return &NotOpenedError{AccountID: a.StreamID()}
		}
		if c.Amount.IsNegative() {
			return &InvalidAmountError{Amount: c.Amount}
		}
		a.Raise(Deposited{Amount: c.Amount})
		return nil

	case WithdrawCommand:
		if !a.opened {
			return &NotOpenedError{AccountID: a.StreamID()}
		}
		if c.Amount.IsNegative() {
			return &InvalidAmountError{Amount: c.Amount}
		}
		if a.balance.LessThan(c.Amount) {
			return &InsufficientFundsError{Balance: a.balance, Amount: c.Amount}
		}
		if svc.Fraud != nil && !svc.Fraud.Allow(a.StreamID(), c.Amount) {
			return &FraudBlockedError{AccountID: a.StreamID(), Amount: c.Amount}
		}
		a.Raise(Withdrawn{Amount: c.Amount})
		return nil
	}

	return fmt.Errorf("bankaccount: unknown command type %T", cmd)
}

var _ escore.Aggregate = (*BankAccount)(nil)
var _ escore.CommandHandler[any, Services] = (*BankAccount)(nil)
