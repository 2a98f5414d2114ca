package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used throughout the application.
// Callers match them with errors.Is; the CLI and HTTP layer translate them
// into user-facing messages.
var (
	ErrClientExists   = errors.New("client already exists in the bank")
	ErrInvalidClient  = errors.New("client must have a non-empty name and a valid gender")
	ErrInvalidEmail   = errors.New("email must have a non-empty sender and recipient")
	ErrServiceClosed  = errors.New("email service is closed")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidAccount = errors.New("account must have a positive id and a known type")
	ErrNotEnoughFunds = errors.New("not enough funds")
)

// NotEnoughFundsError is returned when a withdrawal exceeds the balance of
// an account without overdraft.
type NotEnoughFundsError struct {
	ID      int
	Balance float64
	Amount  float64
}

func (e *NotEnoughFundsError) Error() string {
	return fmt.Sprintf("not enough funds for account %d, balance: %.2f, tried to extract amount: %.2f",
		e.ID, e.Balance, e.Amount)
}

func (e *NotEnoughFundsError) Unwrap() error { return ErrNotEnoughFunds }

// OverdraftLimitExceededError is returned when a withdrawal from a checking
// account would exceed balance plus overdraft.
type OverdraftLimitExceededError struct {
	ID        int
	Balance   float64
	Overdraft float64
	Amount    float64
}

func (e *OverdraftLimitExceededError) Error() string {
	return fmt.Sprintf("not enough funds for account %d, balance: %.2f, overdraft: %.2f, tried to extract amount: %.2f",
		e.ID, e.Balance, e.Overdraft, e.Amount)
}

func (e *OverdraftLimitExceededError) Unwrap() error { return ErrNotEnoughFunds }
