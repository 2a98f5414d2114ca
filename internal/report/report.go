// Package report answers read-only questions about a bank's clients and
// accounts. Every function works on a snapshot taken from ClientSource, so
// reports never hold the bank lock while they compute.
package report

import (
	"cmp"
	"math"
	"slices"

	"github.com/notifyhub/bankapp/internal/domain"
)

// ClientSource is satisfied by *bank.Bank.
type ClientSource interface {
	Clients() []*domain.Client
}

func NumberOfClients(src ClientSource) int {
	return len(src.Clients())
}

func NumberOfAccounts(src ClientSource) int {
	n := 0
	for _, c := range src.Clients() {
		n += len(c.Accounts())
	}
	return n
}

// ClientsSorted orders clients by name, then gender.
func ClientsSorted(src ClientSource) []*domain.Client {
	clients := src.Clients()
	slices.SortFunc(clients, func(a, b *domain.Client) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Gender, b.Gender),
		)
	})
	return clients
}

func TotalSumInAccounts(src ClientSource) float64 {
	var sum float64
	for _, a := range allAccounts(src) {
		sum += a.Balance()
	}
	return sum
}

// AccountsSortedBySum orders every account by ascending balance. Accounts
// with equal balances keep their registration order.
func AccountsSortedBySum(src ClientSource) []domain.Account {
	accounts := allAccounts(src)
	balances := make(map[domain.Account]float64, len(accounts))
	for _, a := range accounts {
		balances[a] = a.Balance()
	}
	slices.SortStableFunc(accounts, func(a, b domain.Account) int {
		return cmp.Compare(balances[a], balances[b])
	})
	return accounts
}

// BankCreditSum is the overdraft currently used: the sum of the absolute
// balances of checking accounts below zero.
func BankCreditSum(src ClientSource) float64 {
	var sum float64
	for _, a := range allAccounts(src) {
		if a.Type() != domain.AccountChecking {
			continue
		}
		if b := a.Balance(); b < 0 {
			sum += math.Abs(b)
		}
	}
	return sum
}

func CustomerAccounts(src ClientSource) map[*domain.Client][]domain.Account {
	out := make(map[*domain.Client][]domain.Account)
	for _, c := range src.Clients() {
		out[c] = c.Accounts()
	}
	return out
}

// ClientsByCity groups clients by city. Use Cities for the keys in order.
func ClientsByCity(src ClientSource) map[string][]*domain.Client {
	out := make(map[string][]*domain.Client)
	for _, c := range src.Clients() {
		out[c.City] = append(out[c.City], c)
	}
	return out
}

// Cities returns the keys of a ClientsByCity result in ascending order.
func Cities(byCity map[string][]*domain.Client) []string {
	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	slices.Sort(cities)
	return cities
}

func allAccounts(src ClientSource) []domain.Account {
	var accounts []domain.Account
	for _, c := range src.Clients() {
		accounts = append(accounts, c.Accounts()...)
	}
	return accounts
}
