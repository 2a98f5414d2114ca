package app_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/app"
	"github.com/notifyhub/bankapp/internal/bank"
	"github.com/notifyhub/bankapp/internal/domain"
)

const johnString = "Client(name=John, gender=male, city=, accounts=2)"

func newApp(input string) (*app.App, *bank.Bank, *bytes.Buffer) {
	var out bytes.Buffer
	b := bank.New()
	return app.New(b, strings.NewReader(input), &out, zap.NewNop()), b, &out
}

func TestModifyBank(t *testing.T) {
	a, b, out := newApp("")

	a.ModifyBank()

	want := "Not enough funds for account 2, balance: 10.00, overdraft: 20.00, tried to extract amount: 100.00\n" +
		"Cannot add an already existing client: " + johnString + "\n"
	assert.Equal(t, want, out.String())

	clients := b.Clients()
	require.Len(t, clients, 1)
	accounts := clients[0].Accounts()
	require.Len(t, accounts, 2)
	assert.InDelta(t, 190.0, accounts[0].Balance(), 0.001)
	assert.InDelta(t, 10.0, accounts[1].Balance(), 0.001)
}

func TestRun_Default(t *testing.T) {
	a, _, out := newApp("")

	require.NoError(t, a.Run(false))

	assert.Contains(t, out.String(), "\nPrint balance for all clients\n"+
		"Client: "+johnString+"\n"+
		"Account 1 : 190.00\n"+
		"Account 2 : 10.00\n")
	assert.Contains(t, out.String(), "Client John, account 1 (saving): 190.00\n")
	assert.Contains(t, out.String(), "Client John, account 2 (checking): 30.00\n")
}

func TestRun_Statistics(t *testing.T) {
	a, _, out := newApp("Display Statistics\n")

	require.NoError(t, a.Run(true))

	s := out.String()
	assert.Contains(t, s, "Statistics mode. Type 'display statistics' to show current bank statistics.\n")
	assert.Contains(t, s, "\nBank statistics\n"+
		"Number of clients: 1\n"+
		"Number of accounts: 2\n"+
		"Total sum in accounts: 200.00\n"+
		"Total bank credit used: 0.00\n"+
		"\nClients sorted:\n"+
		"- Mr. John\n"+
		"\nAccounts sorted by balance:\n"+
		"- Account 2: 10.00\n"+
		"- Account 1: 190.00\n")
	assert.NotContains(t, s, "Print balance")
}

func TestRunStatistics_UnknownCommand(t *testing.T) {
	for _, input := range []string{"show me\n", ""} {
		a, _, out := newApp(input)
		require.NoError(t, a.RunStatistics())
		assert.True(t, strings.HasSuffix(out.String(), "Unknown command!\n"), "input %q", input)
		assert.NotContains(t, out.String(), "Bank statistics")
	}
}

func TestPrintStatistics_CreditUsed(t *testing.T) {
	a, b, out := newApp("")

	c := domain.NewClient("Anna", domain.GenderFemale)
	c.AddAccount(domain.NewCheckingAccount(7, 5, 50))
	require.NoError(t, b.AddClient(c))
	require.NoError(t, c.Accounts()[0].Withdraw(25))

	a.PrintStatistics()

	assert.Contains(t, out.String(), "Total sum in accounts: -20.00\n")
	assert.Contains(t, out.String(), "Total bank credit used: 20.00\n")
	assert.Contains(t, out.String(), "- Ms. Anna\n")
}
