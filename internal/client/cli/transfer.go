package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/services"
)

// Transfer prompts for the receiver, checks it before asking for the
// amount, and sends the money.
func (a *App) Transfer(ctx context.Context) error {
	var form services.TransferForm
	var err error

	if form.Receiver, err = a.ask("Enter receiver UPI ID"); err != nil {
		return err
	}
	if err := a.svc.Transfers.ValidateReceiver(ctx, form.Receiver); err != nil {
		return err
	}
	if form.Amount, err = a.askAmount("Enter amount"); err != nil {
		return err
	}
	if form.ConfirmAmount, err = a.askAmount("Confirm amount"); err != nil {
		return err
	}
	if form.Description, err = a.ask("Description (optional)"); err != nil {
		return err
	}

	res, err := a.svc.Transfers.Transfer(ctx, form)
	if err != nil {
		return err
	}
	a.printf("Sent %s to %s, ref %s (%s)\n", FormatRupees(res.Transaction.Amount),
		res.Transaction.ReceiverUPIID, res.Transaction.TransactionRef, res.Transaction.Status)
	a.printBalance(res.Account, res.BalanceStale)
	return nil
}

func (a *App) printBalance(acc *models.Account, stale bool) {
	if acc == nil {
		return
	}
	if stale {
		a.printf("Balance: %s (may be out of date)\n", FormatRupees(acc.Balance))
		return
	}
	a.printf("Balance: %s\n", FormatRupees(acc.Balance))
}

const historyUsage = "Usage: history [sent|received] [status=SUCCESS|FAILED|PENDING] [from=YYYY-MM-DD] [to=YYYY-MM-DD] [limit=N] [search=text]"

// History lists transactions. args is an optional direction followed by
// key=value filters; search takes the rest of the line.
func (a *App) History(ctx context.Context, args string) error {
	q, err := parseHistoryArgs(args)
	if err != nil {
		a.printf("Invalid history filter: %v\n", err)
		a.println(historyUsage)
		return nil
	}

	page, err := a.svc.Transfers.History(ctx, q)
	if err != nil {
		return err
	}
	if page.Offline {
		a.println("Gateway unreachable, showing saved history")
	}
	if len(page.Items) == 0 {
		a.println("No transactions")
		return nil
	}
	a.printTransactions(page.Items)
	return nil
}

func parseHistoryArgs(args string) (services.HistoryQuery, error) {
	var q services.HistoryQuery
	fields := strings.Fields(args)
	if len(fields) > 0 && !strings.Contains(fields[0], "=") {
		switch fields[0] {
		case "sent":
			q.Kind = services.HistorySent
		case "received":
			q.Kind = services.HistoryReceived
		default:
			return q, fmt.Errorf("unknown history kind %q", fields[0])
		}
		fields = fields[1:]
	}

	for i, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || value == "" {
			return q, fmt.Errorf("bad filter %q", f)
		}
		switch key {
		case "status":
			st := models.TransactionStatus(strings.ToUpper(value))
			switch st {
			case models.StatusSuccess, models.StatusFailed, models.StatusPending:
				q.Status = st
			default:
				return q, fmt.Errorf("unknown status %q", value)
			}
		case "from", "to":
			if _, err := time.Parse(time.DateOnly, value); err != nil {
				return q, fmt.Errorf("bad date %q", value)
			}
			if key == "from" {
				q.StartDate = value
			} else {
				q.EndDate = value
			}
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return q, fmt.Errorf("bad limit %q", value)
			}
			q.Limit = n
		case "search":
			q.Search = strings.Join(append([]string{value}, fields[i+1:]...), " ")
			return q, checkRange(q)
		default:
			return q, fmt.Errorf("unknown filter %q", key)
		}
	}
	return q, checkRange(q)
}

func checkRange(q services.HistoryQuery) error {
	if q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		return errors.New("from is after to")
	}
	return nil
}

func (a *App) Tx(ctx context.Context, ref string) error {
	v, err := a.svc.Transfers.ByReference(ctx, ref)
	if err != nil {
		return err
	}
	a.printTransactions([]services.TransactionView{*v})
	if v.Description != "" {
		a.printf("  %s\n", v.Description)
	}
	return nil
}

func (a *App) printTransactions(items []services.TransactionView) {
	for _, v := range items {
		arrow, sign := "->", "-"
		if v.Direction == models.DirectionReceived {
			arrow, sign = "<-", "+"
		}
		when := ""
		if !v.CreatedAt.IsZero() {
			when = v.CreatedAt.Format("02 Jan 2006 15:04")
		}
		a.println(fmt.Sprintf("  %-17s %s %-24s %s%s  %-7s %s",
			when, arrow, v.Counterparty, sign, FormatRupees(v.Amount), v.Status, v.TransactionRef))
	}
}
