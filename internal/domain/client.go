package domain

import (
	"fmt"
	"sync"
)

// Gender is part of a client's identity.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// Salutation returns the greeting prefix used for the gender.
func (g Gender) Salutation() string {
	if g == GenderFemale {
		return "Ms."
	}
	return "Mr."
}

// ClientKey identifies a client inside a bank. Two clients with the same
// name and gender are the same client, whatever their accounts or city.
type ClientKey struct {
	Name   string
	Gender Gender
}

// Client is a bank customer owning zero or more accounts.
type Client struct {
	Name   string
	Gender Gender
	City   string

	mu       sync.RWMutex
	accounts []Account
}

func NewClient(name string, gender Gender) *Client {
	return &Client{Name: name, Gender: gender}
}

func (c *Client) Validate() error {
	if c == nil || c.Name == "" || !c.Gender.IsValid() {
		return ErrInvalidClient
	}
	return nil
}

func (c *Client) Key() ClientKey {
	return ClientKey{Name: c.Name, Gender: c.Gender}
}

// AddAccount attaches an account to the client. Accounts keep insertion order.
func (c *Client) AddAccount(a Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = append(c.accounts, a)
}

// Accounts returns a copy of the client's accounts.
func (c *Client) Accounts() []Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

func (c *Client) Greeting() string {
	return c.Gender.Salutation() + " " + c.Name
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(name=%s, gender=%s, city=%s, accounts=%d)",
		c.Name, c.Gender, c.City, len(c.Accounts()))
}
