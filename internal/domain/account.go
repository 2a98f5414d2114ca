package domain

import "sync"

// AccountType distinguishes the account variants in reports and JSON output.
type AccountType string

const (
	AccountSaving   AccountType = "saving"
	AccountChecking AccountType = "checking"
)

// Account is implemented by SavingAccount and CheckingAccount.
// All methods are safe for concurrent use.
type Account interface {
	ID() int
	Type() AccountType
	Balance() float64
	Deposit(amount float64) error
	Withdraw(amount float64) error
	MaximumAmountToWithdraw() float64
}

// SavingAccount never goes below zero.
type SavingAccount struct {
	id      int
	mu      sync.Mutex
	balance float64
}

func NewSavingAccount(id int, balance float64) *SavingAccount {
	return &SavingAccount{id: id, balance: balance}
}

func (a *SavingAccount) ID() int           { return a.id }
func (a *SavingAccount) Type() AccountType { return AccountSaving }

func (a *SavingAccount) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *SavingAccount) Deposit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance += amount
	return nil
}

func (a *SavingAccount) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > a.balance {
		return &NotEnoughFundsError{ID: a.id, Balance: a.balance, Amount: amount}
	}
	a.balance -= amount
	return nil
}

func (a *SavingAccount) MaximumAmountToWithdraw() float64 {
	return max(a.Balance(), 0)
}

// CheckingAccount may go negative down to -Overdraft.
type CheckingAccount struct {
	id        int
	overdraft float64
	mu        sync.Mutex
	balance   float64
}

// NewCheckingAccount creates a checking account. A negative overdraft is
// treated as zero.
func NewCheckingAccount(id int, balance, overdraft float64) *CheckingAccount {
	return &CheckingAccount{id: id, balance: balance, overdraft: max(overdraft, 0)}
}

func (a *CheckingAccount) ID() int            { return a.id }
func (a *CheckingAccount) Type() AccountType  { return AccountChecking }
func (a *CheckingAccount) Overdraft() float64 { return a.overdraft }

func (a *CheckingAccount) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *CheckingAccount) Deposit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance += amount
	return nil
}

func (a *CheckingAccount) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > a.balance+a.overdraft {
		return &OverdraftLimitExceededError{
			ID:        a.id,
			Balance:   a.balance,
			Overdraft: a.overdraft,
			Amount:    amount,
		}
	}
	a.balance -= amount
	return nil
}

func (a *CheckingAccount) MaximumAmountToWithdraw() float64 {
	return max(a.Balance()+a.overdraft, 0)
}

// compile-time checks
var (
	_ Account = (*SavingAccount)(nil)
	_ Account = (*CheckingAccount)(nil)
)
