package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/upiwallet/internal/client/services"
)

func (a *App) Billers(ctx context.Context) error {
	list, err := a.svc.Billers.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No saved billers")
		return nil
	}
	for _, b := range list {
		a.printf("  %-4d %-20s %-16s %-20s %s\n", b.ID, b.Nickname, b.CategoryName, b.ProviderName, b.AccountIdentifier)
	}
	return nil
}

func (a *App) AddBiller(ctx context.Context) error {
	cats, err := a.svc.Utilities.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		a.printf("  %-4d %s\n", c.ID, c.DisplayName)
	}

	var form services.BillerForm
	if form.CategoryID, err = a.askID("Category id"); err != nil {
		return err
	}
	if form.ProviderID, err = a.askID("Provider id"); err != nil {
		return err
	}
	if form.AccountIdentifier, err = a.ask("Account identifier (consumer, subscriber or policy number)"); err != nil {
		return err
	}
	if form.Nickname, err = a.ask("Nickname"); err != nil {
		return err
	}
	if form.AccountHolderName, err = a.ask("Account holder name (optional)"); err != nil {
		return err
	}

	b, err := a.svc.Billers.Save(ctx, form)
	if err != nil {
		return err
	}
	a.printf("Saved biller %d (%s)\n", b.ID, b.Nickname)
	return nil
}

func (a *App) DelBiller(ctx context.Context, id string) error {
	billerID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := a.svc.Billers.Delete(ctx, billerID); err != nil {
		return err
	}
	a.printf("Deleted biller %d, %d left\n", billerID, len(a.svc.Billers.Cached()))
	return nil
}

// askID reads an optional number; a blank or malformed answer yields 0 so
// the form validator reports it.
func (a *App) askID(prompt string) (int64, error) {
	s, err := a.ask(prompt)
	if err != nil {
		return 0, err
	}
	id, _ := strconv.ParseInt(s, 10, 64)
	return id, nil
}
