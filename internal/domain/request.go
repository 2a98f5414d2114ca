package domain

import "fmt"

// CreateClientRequest is the payload accepted by POST /api/v1/clients.
type CreateClientRequest struct {
	Name     string           `json:"name"`
	Gender   Gender           `json:"gender"`
	City     string           `json:"city"`
	Accounts []AccountRequest `json:"accounts"`
}

type AccountRequest struct {
	ID        int         `json:"id"`
	Type      AccountType `json:"type"`
	Balance   float64     `json:"balance"`
	Overdraft float64     `json:"overdraft,omitempty"`
}

// ToClient validates the request and builds the client with its accounts.
func (r CreateClientRequest) ToClient() (*Client, error) {
	c := NewClient(r.Name, r.Gender)
	c.City = r.City
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(r.Accounts))
	for _, ar := range r.Accounts {
		if _, dup := seen[ar.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidAccount, ar.ID)
		}
		seen[ar.ID] = struct{}{}

		a, err := ar.toAccount()
		if err != nil {
			return nil, err
		}
		c.AddAccount(a)
	}
	return c, nil
}

func (r AccountRequest) toAccount() (Account, error) {
	if r.ID <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidAccount, r.ID)
	}
	switch r.Type {
	case AccountSaving:
		return NewSavingAccount(r.ID, r.Balance), nil
	case AccountChecking:
		return NewCheckingAccount(r.ID, r.Balance, r.Overdraft), nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrInvalidAccount, r.Type)
	}
}
