package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/services"
)

func (a *App) printProviders(list []models.PaymentCategory) {
	for _, p := range list {
		if !p.IsActive {
			continue
		}
		a.printf("  %-12s %s\n", p.Name, p.DisplayName)
	}
}

func (a *App) printPlans(plans []models.RechargePlan) {
	for _, p := range plans {
		a.printf("  %-10s %-28s %10s  %3d days  %s\n", p.PlanCode, p.PlanName,
			FormatRupees(p.Amount), p.ValidityDays, p.Description)
	}
}

// choosePlan asks for a plan code and returns it with its amount. An empty
// answer means a custom amount.
func (a *App) choosePlan(plans []models.RechargePlan) (string, float64, error) {
	if len(plans) == 0 {
		amount, err := a.askAmount("Enter amount")
		return "", amount, err
	}
	a.printPlans(plans)
	code, err := a.ask("Plan code (empty for a custom amount)")
	if err != nil {
		return "", 0, err
	}
	for _, p := range plans {
		if strings.EqualFold(p.PlanCode, code) {
			return p.PlanCode, p.Amount, nil
		}
	}
	amount, err := a.askAmount("Enter amount")
	return "", amount, err
}

func (a *App) printPayment(res *services.PaymentResult) {
	r := res.Response
	a.printf("Paid %s, ref %s (%s)\n", FormatRupees(r.Amount), r.TransactionRef, r.Status)
	if r.Message != "" {
		a.println(r.Message)
	}
	a.printBalance(res.Account, res.BalanceStale)
}

func (a *App) Recharge(ctx context.Context) error {
	ops, err := a.svc.Utilities.MobileOperators(ctx)
	if err != nil {
		return err
	}
	a.printProviders(ops)

	var form services.MobileRechargeForm
	if form.MobileNumber, err = a.ask("Enter mobile number"); err != nil {
		return err
	}
	if form.OperatorCode, err = a.ask("Enter operator"); err != nil {
		return err
	}
	plans, err := a.svc.Utilities.MobilePlans(ctx, form.OperatorCode)
	if err != nil {
		return err
	}
	if form.PlanCode, form.Amount, err = a.choosePlan(plans); err != nil {
		return err
	}

	res, err := a.svc.Utilities.RechargeMobile(ctx, form)
	if err != nil {
		return err
	}
	a.printPayment(res)
	return nil
}

func (a *App) DTH(ctx context.Context) error {
	ops, err := a.svc.Utilities.DTHOperators(ctx)
	if err != nil {
		return err
	}
	a.printProviders(ops)

	var form services.DTHRechargeForm
	if form.OperatorCode, err = a.ask("Enter operator"); err != nil {
		return err
	}
	if form.SubscriberID, err = a.ask("Enter subscriber ID"); err != nil {
		return err
	}
	plans, err := a.svc.Utilities.DTHPlans(ctx, form.OperatorCode, form.SubscriberID)
	if err != nil {
		return err
	}
	if form.PlanCode, form.Amount, err = a.choosePlan(plans); err != nil {
		return err
	}

	res, err := a.svc.Utilities.RechargeDTH(ctx, form)
	if err != nil {
		return err
	}
	a.printPayment(res)
	return nil
}

// Electricity fetches the bill first and offers its amount due as the
// default.
func (a *App) Electricity(ctx context.Context) error {
	providers, err := a.svc.Utilities.ElectricityProviders(ctx)
	if err != nil {
		return err
	}
	a.printProviders(providers)

	var form services.ElectricityForm
	if form.ProviderCode, err = a.ask("Enter provider"); err != nil {
		return err
	}
	if form.ConsumerNumber, err = a.ask("Enter consumer number"); err != nil {
		return err
	}
	bill, err := a.svc.Utilities.FetchElectricityBill(ctx, form.ProviderCode, form.ConsumerNumber)
	if err != nil {
		return err
	}
	a.printf("%s, due %s on %s (%s)\n", bill.ConsumerName, FormatRupees(bill.AmountDue), bill.DueDate, bill.BillingPeriod)

	if form.Amount, err = a.askAmount("Amount (empty to pay the amount due)"); err != nil {
		return err
	}
	if form.Amount == 0 {
		form.Amount = bill.AmountDue
	}
	form.BillingCycle = bill.BillingPeriod

	res, err := a.svc.Utilities.PayElectricity(ctx, form)
	if err != nil {
		return err
	}
	a.printPayment(res)
	return nil
}

func (a *App) Card(ctx context.Context) error {
	issuers, err := a.svc.Utilities.CreditCardIssuers(ctx)
	if err != nil {
		return err
	}
	a.printProviders(issuers)

	var form services.CreditCardForm
	if form.IssuerCode, err = a.ask("Enter card issuer"); err != nil {
		return err
	}
	if form.CardLast4Digits, err = a.ask("Enter last 4 digits of the card"); err != nil {
		return err
	}
	if form.Amount, err = a.askAmount("Enter amount"); err != nil {
		return err
	}

	res, err := a.svc.Utilities.PayCreditCard(ctx, form)
	if err != nil {
		return err
	}
	a.printPayment(res)
	return nil
}

func (a *App) Insurance(ctx context.Context) error {
	var form services.InsuranceForm
	var err error
	if form.ProviderCode, err = a.ask("Enter insurer"); err != nil {
		return err
	}
	if form.PolicyNumber, err = a.ask("Enter policy number"); err != nil {
		return err
	}
	if form.Amount, err = a.askAmount("Enter premium amount"); err != nil {
		return err
	}

	res, err := a.svc.Utilities.PayInsurance(ctx, form)
	if err != nil {
		return err
	}
	a.printPayment(res)
	return nil
}

func (a *App) Payments(ctx context.Context, category string) error {
	list, err := a.svc.Utilities.Payments(ctx, category)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No payments")
		return nil
	}
	for _, p := range list {
		a.printf("  %-4d %-17s %-16s %-20s %12s  %-8s %s\n", p.ID, p.Timestamp.Format("02 Jan 2006 15:04"),
			p.CategoryName, p.ProviderName, FormatRupees(p.Amount), p.PaymentStatus, p.TransactionRef)
	}
	return nil
}

func (a *App) Receipt(ctx context.Context, id string) error {
	txID, err := parseID(id)
	if err != nil {
		return err
	}
	r, err := a.svc.Utilities.Receipt(ctx, txID)
	if err != nil {
		return err
	}
	a.printf("Receipt %s\n", r.TransactionRef)
	a.printf("  %s / %s\n", r.CategoryName, r.ProviderName)
	a.printf("  Account:  %s\n", r.AccountIdentifier)
	a.printf("  Amount:   %s\n", FormatRupees(r.Amount))
	a.printf("  Status:   %s\n", r.Status)
	if r.ProviderTransactionRef != "" {
		a.printf("  Provider: %s\n", r.ProviderTransactionRef)
	}
	return nil
}
