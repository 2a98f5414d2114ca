// Package app drives the bank demo: it registers a sample client, moves
// money around, and prints balances or statistics to the console.
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/domain"
	"github.com/notifyhub/bankapp/internal/report"
)

// StatisticsCommand is the only command statistics mode understands.
const StatisticsCommand = "display statistics"

// Registry is the bank as seen by the demo.
type Registry interface {
	AddClient(c *domain.Client) error
	Clients() []*domain.Client
}

type App struct {
	bank   Registry
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

func New(bank Registry, in io.Reader, out io.Writer, logger *zap.Logger) *App {
	return &App{bank: bank, in: in, out: out, logger: logger}
}

// Run performs the demo. In statistics mode it reads one command from the
// input after modifying the bank; otherwise it prints balances and
// withdrawal limits.
func (a *App) Run(statistics bool) error {
	a.ModifyBank()
	if statistics {
		return a.RunStatistics()
	}
	a.PrintBalance()
	a.PrintMaximumAmountToWithdraw()
	return nil
}

// ModifyBank registers John with a saving and a checking account, runs a
// few transactions, and then tries to register him again.
func (a *App) ModifyBank() {
	client := domain.NewClient("John", domain.GenderMale)
	saving := domain.NewSavingAccount(1, 100)
	checking := domain.NewCheckingAccount(2, 100, 20)
	client.AddAccount(saving)
	client.AddAccount(checking)

	a.addClient(client, client.Name)

	if err := saving.Deposit(100); err != nil {
		a.logger.Warn("deposit failed", zap.Int("account", saving.ID()), zap.Error(err))
	}
	a.withdraw(saving, 10)
	a.withdraw(checking, 90)
	a.withdraw(checking, 100)

	a.addClient(client, client.String())
}

func (a *App) addClient(c *domain.Client, shown string) {
	err := a.bank.AddClient(c)
	if errors.Is(err, domain.ErrClientExists) {
		fmt.Fprintf(a.out, "Cannot add an already existing client: %s\n", shown)
		return
	}
	if err != nil {
		a.logger.Error("add client failed", zap.String("client", c.Name), zap.Error(err))
	}
}

func (a *App) withdraw(acc domain.Account, amount float64) {
	err := acc.Withdraw(amount)
	if err == nil {
		return
	}

	var overdraft *domain.OverdraftLimitExceededError
	var funds *domain.NotEnoughFundsError
	switch {
	case errors.As(err, &overdraft):
		fmt.Fprintf(a.out, "Not enough funds for account %d, balance: %.2f, overdraft: %.2f, tried to extract amount: %.2f\n",
			overdraft.ID, overdraft.Balance, overdraft.Overdraft, overdraft.Amount)
	case errors.As(err, &funds):
		fmt.Fprintf(a.out, "Not enough funds for account %d, balance: %.2f, tried to extract amount: %.2f\n",
			funds.ID, funds.Balance, funds.Amount)
	default:
		a.logger.Warn("withdraw failed", zap.Int("account", acc.ID()), zap.Error(err))
	}
}

func (a *App) PrintBalance() {
	fmt.Fprintf(a.out, "\nPrint balance for all clients\n")
	for _, c := range a.bank.Clients() {
		fmt.Fprintf(a.out, "Client: %s\n", c)
		for _, acc := range c.Accounts() {
			fmt.Fprintf(a.out, "Account %d : %.2f\n", acc.ID(), acc.Balance())
		}
	}
}

func (a *App) PrintMaximumAmountToWithdraw() {
	fmt.Fprintf(a.out, "\nMaximum amount to withdraw\n")
	for _, ab := range report.MaximumAmountsToWithdraw(a.bank) {
		fmt.Fprintf(a.out, "Client %s, account %d (%s): %.2f\n",
			ab.ClientName, ab.AccountID, ab.Type, ab.MaxWithdraw)
	}
}

// RunStatistics prompts for a single command and answers it. Anything but
// StatisticsCommand, compared case-insensitively, is rejected.
func (a *App) RunStatistics() error {
	fmt.Fprintf(a.out, "Statistics mode. Type '%s' to show current bank statistics.\n", StatisticsCommand)

	sc := bufio.NewScanner(a.in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		fmt.Fprintln(a.out, "Unknown command!")
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(sc.Text()), StatisticsCommand) {
		a.PrintStatistics()
		return nil
	}
	fmt.Fprintln(a.out, "Unknown command!")
	return nil
}

func (a *App) PrintStatistics() {
	st := report.Build(a.bank)

	fmt.Fprintf(a.out, "\nBank statistics\n")
	fmt.Fprintf(a.out, "Number of clients: %d\n", st.Clients)
	fmt.Fprintf(a.out, "Number of accounts: %d\n", st.Accounts)
	fmt.Fprintf(a.out, "Total sum in accounts: %.2f\n", st.TotalSum)
	fmt.Fprintf(a.out, "Total bank credit used: %.2f\n", st.CreditSum)

	fmt.Fprintf(a.out, "\nClients sorted:\n")
	for _, greeting := range st.ClientsSorted {
		fmt.Fprintf(a.out, "- %s\n", greeting)
	}

	fmt.Fprintf(a.out, "\nAccounts sorted by balance:\n")
	for _, ab := range st.AccountsSorted {
		fmt.Fprintf(a.out, "- Account %d: %.2f\n", ab.AccountID, ab.Balance)
	}
}
