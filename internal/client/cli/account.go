package cli

import (
	"context"

	"github.com/dmitrijs2005/upiwallet/internal/client/services"
)

func (a *App) Setup(ctx context.Context) error {
	amount, err := a.askAmount("Enter initial balance")
	if err != nil {
		return err
	}
	acc, err := a.svc.Accounts.Setup(ctx, services.SetupForm{InitialBalance: amount})
	if err != nil {
		return err
	}
	a.printf("Account %s created, UPI ID %s, balance %s\n", acc.AccountNumber, acc.UPIID, FormatRupees(acc.Balance))
	return nil
}

// Dashboard prints the account, the transaction count and the most recent
// transactions. Offline it shows the cached balance only.
func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.svc.Accounts.Dashboard(ctx)
	if err != nil {
		return err
	}

	a.printf("%s  %s\n", d.Account.UPIID, d.Account.AccountNumber)
	if d.Offline {
		a.printf("Balance: %s (cached, gateway unreachable)\n", FormatRupees(d.Account.Balance))
		return nil
	}
	a.printf("Balance: %s\n", FormatRupees(d.Account.Balance))
	a.printf("Transactions: %d\n", d.TransactionCount)
	if len(d.Recent) > 0 {
		a.println("Recent:")
		a.printTransactions(d.Recent)
	}
	return nil
}

func (a *App) Balance(ctx context.Context) error {
	acc, err := a.svc.Accounts.RefreshBalance(ctx)
	if err != nil {
		return err
	}
	a.printf("Balance: %s\n", FormatRupees(acc.Balance))
	return nil
}
