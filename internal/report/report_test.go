package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/bankapp/internal/bank"
	"github.com/notifyhub/bankapp/internal/domain"
	"github.com/notifyhub/bankapp/internal/report"
)

func client(name string, g domain.Gender, accounts ...domain.Account) *domain.Client {
	c := domain.NewClient(name, g)
	for _, a := range accounts {
		c.AddAccount(a)
	}
	return c
}

func newBank(t *testing.T, clients ...*domain.Client) *bank.Bank {
	t.Helper()
	b := bank.New()
	for _, c := range clients {
		require.NoError(t, b.AddClient(c))
	}
	return b
}

func TestNumberOfClients(t *testing.T) {
	b := newBank(t,
		client("John Doe", domain.GenderMale, domain.NewSavingAccount(1, 1000)),
		client("Jane Smith", domain.GenderFemale, domain.NewSavingAccount(2, 2000)),
		client("Bob Johnson", domain.GenderMale, domain.NewSavingAccount(3, 1500)),
	)
	assert.Equal(t, 3, report.NumberOfClients(b))
}

func TestNumberOfAccounts(t *testing.T) {
	b := newBank(t,
		client("John Doe", domain.GenderMale,
			domain.NewSavingAccount(1, 1000),
			domain.NewCheckingAccount(2, 2000, 100)),
		client("Jane Smith", domain.GenderFemale, domain.NewSavingAccount(3, 1500)),
	)
	assert.Equal(t, 3, report.NumberOfAccounts(b))
}

func TestClientsSorted(t *testing.T) {
	b := newBank(t,
		client("Charlie Brown", domain.GenderMale),
		client("Alice White", domain.GenderFemale),
		client("Bob Green", domain.GenderMale),
		client("Alice White", domain.GenderMale),
	)

	sorted := report.ClientsSorted(b)
	require.Len(t, sorted, 4)

	var got []string
	for _, c := range sorted {
		got = append(got, c.Greeting())
	}
	assert.Equal(t, []string{"Ms. Alice White", "Mr. Alice White", "Mr. Bob Green", "Mr. Charlie Brown"}, got)
}

func TestTotalSumInAccounts(t *testing.T) {
	b := newBank(t,
		client("John Doe", domain.GenderMale,
			domain.NewSavingAccount(1, 1000),
			domain.NewCheckingAccount(2, 2000, 100)),
		client("Jane Smith", domain.GenderFemale,
			domain.NewSavingAccount(3, 1500),
			domain.NewCheckingAccount(4, -500, 100)),
	)
	assert.InDelta(t, 1000.0+2000.0+1500.0-500.0, report.TotalSumInAccounts(b), 0.001)
}

func TestAccountsSortedBySum(t *testing.T) {
	b := newBank(t,
		client("John Doe", domain.GenderMale,
			domain.NewSavingAccount(1, 3000),
			domain.NewCheckingAccount(2, 1000, 100)),
		client("Jane Smith", domain.GenderFemale,
			domain.NewSavingAccount(3, 2000),
			domain.NewSavingAccount(4, 1000)),
	)

	sorted := report.AccountsSortedBySum(b)
	var ids []int
	for _, a := range sorted {
		ids = append(ids, a.ID())
	}
	// Equal balances keep registration order and are not merged.
	assert.Equal(t, []int{2, 4, 3, 1}, ids)
}

func TestBankCreditSum(t *testing.T) {
	a1 := domain.NewCheckingAccount(1, 1000, 200)
	require.NoError(t, a1.Withdraw(1200)) // -200
	a2 := domain.NewCheckingAccount(2, 500, 100)
	require.NoError(t, a2.Withdraw(550)) // -50

	b := newBank(t,
		client("John Doe", domain.GenderMale, a1, domain.NewSavingAccount(3, 10)),
		client("Jane Smith", domain.GenderFemale, a2),
	)
	assert.InDelta(t, 250.0, report.BankCreditSum(b), 0.001)
}

func TestCustomerAccounts(t *testing.T) {
	a1 := domain.NewSavingAccount(1, 1000)
	a2 := domain.NewCheckingAccount(2, 2000, 100)
	a3 := domain.NewSavingAccount(3, 1500)
	john := client("John Doe", domain.GenderMale, a1, a2)
	jane := client("Jane Smith", domain.GenderFemale, a3)
	b := newBank(t, john, jane)

	result := report.CustomerAccounts(b)

	require.Len(t, result, 2)
	assert.Equal(t, []domain.Account{a1, a2}, result[john])
	assert.Equal(t, []domain.Account{a3}, result[jane])
}

func TestClientsByCity(t *testing.T) {
	john := client("John Doe", domain.GenderMale)
	john.City = "New York"
	jane := client("Jane Smith", domain.GenderFemale)
	jane.City = "Los Angeles"
	bob := client("Bob Johnson", domain.GenderMale)
	bob.City = "New York"
	b := newBank(t, john, jane, bob)

	result := report.ClientsByCity(b)

	assert.Equal(t, []string{"Los Angeles", "New York"}, report.Cities(result))
	assert.Equal(t, []*domain.Client{jane}, result["Los Angeles"])
	assert.Equal(t, []*domain.Client{john, bob}, result["New York"])
}

func TestBuild(t *testing.T) {
	checking := domain.NewCheckingAccount(2, 100, 20)
	require.NoError(t, checking.Withdraw(110))

	john := client("John", domain.GenderMale, domain.NewSavingAccount(1, 190), checking)
	john.City = "Kyiv"
	b := newBank(t, john, client("Anna", domain.GenderFemale))

	st := report.Build(b)

	assert.Equal(t, 2, st.Clients)
	assert.Equal(t, 2, st.Accounts)
	assert.InDelta(t, 180.0, st.TotalSum, 0.001)
	assert.InDelta(t, 10.0, st.CreditSum, 0.001)
	assert.Equal(t, []string{"Ms. Anna", "Mr. John"}, st.ClientsSorted)
	require.Len(t, st.AccountsSorted, 2)
	assert.Equal(t, 2, st.AccountsSorted[0].AccountID)
	assert.Equal(t, "John", st.AccountsSorted[0].ClientName)
	assert.InDelta(t, 10.0, st.AccountsSorted[0].MaxWithdraw, 0.001)
	assert.Equal(t, map[string][]string{"Kyiv": {"John"}, "": {"Anna"}}, st.ClientsByCity)
}

func TestBuild_EmptyBank(t *testing.T) {
	st := report.Build(bank.New())

	assert.Zero(t, st.Clients)
	assert.NotNil(t, st.ClientsSorted)
	assert.NotNil(t, st.AccountsSorted)
	assert.NotNil(t, st.ClientsByCity)
}

func TestMaximumAmountsToWithdraw(t *testing.T) {
	b := newBank(t, client("John", domain.GenderMale,
		domain.NewSavingAccount(1, 190),
		domain.NewCheckingAccount(2, 10, 20)))

	got := report.MaximumAmountsToWithdraw(b)
	require.Len(t, got, 2)
	assert.InDelta(t, 190.0, got[0].MaxWithdraw, 0.001)
	assert.InDelta(t, 30.0, got[1].MaxWithdraw, 0.001)
	assert.Equal(t, domain.AccountChecking, got[1].Type)
}
