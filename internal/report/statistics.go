package report

import "github.com/notifyhub/bankapp/internal/domain"

// AccountBalance is one account line of a report.
type AccountBalance struct {
	ClientName string             `json:"client"`
	AccountID  int                `json:"account_id"`
	Type       domain.AccountType `json:"type"`
	Balance    float64            `json:"balance"`
	// MaxWithdraw is what the owner can take out right now, overdraft included.
	MaxWithdraw float64 `json:"max_withdraw"`
}

// Statistics is the bank summary shown by the CLI statistics mode and the
// admin API.
type Statistics struct {
	Clients        int                 `json:"clients"`
	Accounts       int                 `json:"accounts"`
	TotalSum       float64             `json:"total_sum"`
	CreditSum      float64             `json:"credit_sum"`
	ClientsSorted  []string            `json:"clients_sorted"`
	AccountsSorted []AccountBalance    `json:"accounts_sorted"`
	ClientsByCity  map[string][]string `json:"clients_by_city"`
}

// Build computes every figure from a single snapshot of the client list.
func Build(src ClientSource) Statistics {
	snap := snapshot(src.Clients())

	owners := make(map[domain.Account]string)
	for _, c := range snap {
		for _, a := range c.Accounts() {
			owners[a] = c.Name
		}
	}

	st := Statistics{
		Clients:        NumberOfClients(snap),
		Accounts:       NumberOfAccounts(snap),
		TotalSum:       TotalSumInAccounts(snap),
		CreditSum:      BankCreditSum(snap),
		ClientsSorted:  []string{},
		AccountsSorted: []AccountBalance{},
		ClientsByCity:  map[string][]string{},
	}

	for _, c := range ClientsSorted(snap) {
		st.ClientsSorted = append(st.ClientsSorted, c.Greeting())
	}
	for _, a := range AccountsSortedBySum(snap) {
		st.AccountsSorted = append(st.AccountsSorted, balanceOf(owners[a], a))
	}
	for city, clients := range ClientsByCity(snap) {
		for _, c := range clients {
			st.ClientsByCity[city] = append(st.ClientsByCity[city], c.Name)
		}
	}
	return st
}

// MaximumAmountsToWithdraw lists every account with the amount its owner
// may withdraw, grouped by client in registration order.
func MaximumAmountsToWithdraw(src ClientSource) []AccountBalance {
	var out []AccountBalance
	for _, c := range src.Clients() {
		for _, a := range c.Accounts() {
			out = append(out, balanceOf(c.Name, a))
		}
	}
	return out
}

func balanceOf(owner string, a domain.Account) AccountBalance {
	return AccountBalance{
		ClientName:  owner,
		AccountID:   a.ID(),
		Type:        a.Type(),
		Balance:     a.Balance(),
		MaxWithdraw: a.MaximumAmountToWithdraw(),
	}
}

// snapshot pins a client list so several queries see the same clients.
type snapshot []*domain.Client

func (s snapshot) Clients() []*domain.Client {
	out := make([]*domain.Client, len(s))
	copy(out, s)
	return out
}
