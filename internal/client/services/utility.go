package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

// RefreshPolicy says whether a utility payment refreshes the balance.
type RefreshPolicy int

const (
	// RefreshAlways refreshes the balance right after a successful payment.
	RefreshAlways RefreshPolicy = iota
	// RefreshDeferred leaves the cached balance until something else
	// refreshes it, usually the next dashboard.
	RefreshDeferred
)

func (p RefreshPolicy) String() string {
	if p == RefreshDeferred {
		return "deferred"
	}
	return "always"
}

type MobileRechargeForm struct {
	MobileNumber string  `label:"Mobile number" validate:"required,mobile"`
	OperatorCode string  `label:"Operator" validate:"required"`
	Amount       float64 `label:"Amount" validate:"gte=10"`
	PlanCode     string  `label:"Plan"`
}

type DTHRechargeForm struct {
	SubscriberID string  `label:"Subscriber ID" validate:"required"`
	OperatorCode string  `label:"Operator" validate:"required"`
	Amount       float64 `label:"Amount" validate:"gte=10"`
	PlanCode     string  `label:"Plan"`
}

type ElectricityForm struct {
	ProviderCode   string  `label:"Provider" validate:"required"`
	ConsumerNumber string  `label:"Consumer number" validate:"required"`
	Amount         float64 `label:"Amount" validate:"gt=0"`
	BillingCycle   string  `label:"Billing cycle"`
}

type CreditCardForm struct {
	IssuerCode      string  `label:"Card issuer" validate:"required"`
	CardLast4Digits string  `label:"Last 4 digits" validate:"required,digits4"`
	Amount          float64 `label:"Amount" validate:"gt=0"`
}

type InsuranceForm struct {
	ProviderCode string  `label:"Insurer" validate:"required"`
	PolicyNumber string  `label:"Policy number" validate:"required"`
	Amount       float64 `label:"Amount" validate:"gt=0"`
}

// PaymentResult is a finished utility payment. Account is the account
// after the refresh, or the cached one when the refresh was deferred or
// failed; BalanceStale reports the latter two.
type PaymentResult struct {
	Response     *models.UtilityPaymentResponse
	Account      *models.Account
	BalanceStale bool
}

// UtilityService covers recharges, bill payments and payment history.
//
// The paying UPI id is the current account's. Without one, the account is
// looked up from the logged-in user, and failing that from the legacy
// stored user id.
type UtilityService interface {
	Categories(ctx context.Context) ([]models.PaymentCategory, error)

	MobileOperators(ctx context.Context) ([]models.PaymentCategory, error)
	MobilePlans(ctx context.Context, operatorCode string) ([]models.RechargePlan, error)
	RechargeMobile(ctx context.Context, form MobileRechargeForm) (*PaymentResult, error)

	DTHOperators(ctx context.Context) ([]models.PaymentCategory, error)
	DTHPlans(ctx context.Context, operatorCode, subscriberID string) ([]models.RechargePlan, error)
	RechargeDTH(ctx context.Context, form DTHRechargeForm) (*PaymentResult, error)

	ElectricityProviders(ctx context.Context) ([]models.PaymentCategory, error)
	FetchElectricityBill(ctx context.Context, providerCode, consumerNumber string) (*models.BillDetails, error)
	PayElectricity(ctx context.Context, form ElectricityForm) (*PaymentResult, error)

	CreditCardIssuers(ctx context.Context) ([]models.PaymentCategory, error)
	PayCreditCard(ctx context.Context, form CreditCardForm) (*PaymentResult, error)
	PayInsurance(ctx context.Context, form InsuranceForm) (*PaymentResult, error)

	Payments(ctx context.Context, category string) ([]models.PaymentHistory, error)
	PaymentsBetween(ctx context.Context, start, end string) ([]models.PaymentHistory, error)
	Payment(ctx context.Context, transactionID int64) (*models.PaymentHistory, error)
	Receipt(ctx context.Context, transactionID int64) (*models.PaymentReceipt, error)
}

type utilityService struct {
	utilities client.UtilityAPI
	accounts  client.AccountAPI
	session   Session
	policy    RefreshPolicy
	v         *validation.Validator
	log       logging.Logger
}

func NewUtilityService(utilities client.UtilityAPI, accounts client.AccountAPI, s Session,
	policy RefreshPolicy, v *validation.Validator, log logging.Logger) UtilityService {
	return &utilityService{utilities: utilities, accounts: accounts, session: s, policy: policy, v: v, log: log}
}

// payer resolves the paying account.
func (u *utilityService) payer(ctx context.Context) (*models.Account, error) {
	acc, err := u.session.CurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	var userID int64
	if user := u.session.CurrentUser(); user != nil {
		userID = user.ID
	} else {
		id, ok, err := u.session.LegacyUserID(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, session.ErrNoCurrentUser
		}
		u.log.Warn(ctx, "no session user, using legacy stored user id", "user_id", id)
		userID = id
	}

	acc, err = u.accounts.AccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load paying account: %w", err)
	}
	if err := u.session.SetCurrentAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// pay validates form, resolves the payer, sends the payment and applies
// the refresh policy.
func (u *utilityService) pay(ctx context.Context, kind string, form any,
	send func(upiID string) (*models.UtilityPaymentResponse, error)) (*PaymentResult, error) {
	if err := u.v.Struct(form); err != nil {
		return nil, err
	}
	acc, err := u.payer(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := send(acc.UPIID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	u.log.Info(ctx, "utility payment sent", "kind", kind, "ref", resp.TransactionRef,
		"status", resp.Status, "amount", resp.Amount)

	res := &PaymentResult{Response: resp, Account: acc}
	if u.policy == RefreshDeferred {
		res.BalanceStale = true
		return res, nil
	}
	fresh, err := u.session.RefreshCurrentAccountBalance(ctx)
	if err != nil {
		u.log.Warn(ctx, "balance refresh after payment failed", "kind", kind, "ref", resp.TransactionRef, "error", err)
		res.BalanceStale = true
		return res, nil
	}
	res.Account = fresh
	return res, nil
}

func (u *utilityService) Categories(ctx context.Context) ([]models.PaymentCategory, error) {
	return u.utilities.Categories(ctx)
}

func (u *utilityService) MobileOperators(ctx context.Context) ([]models.PaymentCategory, error) {
	return u.utilities.MobileOperators(ctx)
}

func (u *utilityService) MobilePlans(ctx context.Context, operatorCode string) ([]models.RechargePlan, error) {
	if err := u.v.Var(operatorCode, "required", "Operator"); err != nil {
		return nil, err
	}
	return u.utilities.MobilePlans(ctx, operatorCode)
}

func (u *utilityService) RechargeMobile(ctx context.Context, form MobileRechargeForm) (*PaymentResult, error) {
	form.MobileNumber = strings.TrimSpace(form.MobileNumber)
	return u.pay(ctx, "mobile recharge", form, func(upiID string) (*models.UtilityPaymentResponse, error) {
		return u.utilities.RechargeMobile(ctx, models.MobileRechargeRequest{
			UPIID:        upiID,
			MobileNumber: form.MobileNumber,
			OperatorCode: form.OperatorCode,
			Amount:       form.Amount,
			PlanCode:     form.PlanCode,
		})
	})
}

func (u *utilityService) DTHOperators(ctx context.Context) ([]models.PaymentCategory, error) {
	return u.utilities.DTHOperators(ctx)
}

func (u *utilityService) DTHPlans(ctx context.Context, operatorCode, subscriberID string) ([]models.RechargePlan, error) {
	if err := u.v.Var(operatorCode, "required", "Operator"); err != nil {
		return nil, err
	}
	return u.utilities.DTHPlans(ctx, operatorCode, strings.TrimSpace(subscriberID))
}

func (u *utilityService) RechargeDTH(ctx context.Context, form DTHRechargeForm) (*PaymentResult, error) {
	form.SubscriberID = strings.TrimSpace(form.SubscriberID)
	return u.pay(ctx, "dth recharge", form, func(upiID string) (*models.UtilityPaymentResponse, error) {
		return u.utilities.RechargeDTH(ctx, models.DTHRechargeRequest{
			UPIID:        upiID,
			SubscriberID: form.SubscriberID,
			OperatorCode: form.OperatorCode,
			Amount:       form.Amount,
			PlanCode:     form.PlanCode,
		})
	})
}

func (u *utilityService) ElectricityProviders(ctx context.Context) ([]models.PaymentCategory, error) {
	return u.utilities.ElectricityProviders(ctx)
}

func (u *utilityService) FetchElectricityBill(ctx context.Context, providerCode, consumerNumber string) (*models.BillDetails, error) {
	if err := u.v.Var(providerCode, "required", "Provider"); err != nil {
		return nil, err
	}
	if err := u.v.Var(consumerNumber, "required", "Consumer number"); err != nil {
		return nil, err
	}
	return u.utilities.FetchElectricityBill(ctx, providerCode, consumerNumber)
}

func (u *utilityService) PayElectricity(ctx context.Context, form ElectricityForm) (*PaymentResult, error) {
	return u.pay(ctx, "electricity bill", form, func(upiID string) (*models.UtilityPaymentResponse, error) {
		return u.utilities.PayElectricity(ctx, models.ElectricityBillPaymentRequest{
			UPIID:          upiID,
			ProviderCode:   form.ProviderCode,
			ConsumerNumber: form.ConsumerNumber,
			Amount:         form.Amount,
			BillingCycle:   form.BillingCycle,
		})
	})
}

func (u *utilityService) CreditCardIssuers(ctx context.Context) ([]models.PaymentCategory, error) {
	return u.utilities.CreditCardIssuers(ctx)
}

func (u *utilityService) PayCreditCard(ctx context.Context, form CreditCardForm) (*PaymentResult, error) {
	return u.pay(ctx, "credit card bill", form, func(upiID string) (*models.UtilityPaymentResponse, error) {
		return u.utilities.PayCreditCard(ctx, models.CreditCardPaymentRequest{
			UPIID:           upiID,
			IssuerCode:      form.IssuerCode,
			CardLast4Digits: form.CardLast4Digits,
			Amount:          form.Amount,
		})
	})
}

func (u *utilityService) PayInsurance(ctx context.Context, form InsuranceForm) (*PaymentResult, error) {
	return u.pay(ctx, "insurance premium", form, func(upiID string) (*models.UtilityPaymentResponse, error) {
		return u.utilities.PayInsurance(ctx, models.InsurancePremiumRequest{
			UPIID:        upiID,
			ProviderCode: form.ProviderCode,
			PolicyNumber: form.PolicyNumber,
			Amount:       form.Amount,
		})
	})
}

// Payments lists the user's utility payments, all of them when category
// is empty.
func (u *utilityService) Payments(ctx context.Context, category string) ([]models.PaymentHistory, error) {
	user, err := u.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if category = strings.TrimSpace(category); category != "" {
		return u.utilities.PaymentsByCategory(ctx, user.ID, category)
	}
	return u.utilities.Payments(ctx, user.ID)
}

func (u *utilityService) PaymentsBetween(ctx context.Context, start, end string) ([]models.PaymentHistory, error) {
	user, err := u.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := u.v.Var(start, "required", "Start date"); err != nil {
		return nil, err
	}
	if err := u.v.Var(end, "required", "End date"); err != nil {
		return nil, err
	}
	return u.utilities.PaymentsByDateRange(ctx, user.ID, start, end)
}

func (u *utilityService) Payment(ctx context.Context, transactionID int64) (*models.PaymentHistory, error) {
	return u.utilities.Payment(ctx, transactionID)
}

func (u *utilityService) Receipt(ctx context.Context, transactionID int64) (*models.PaymentReceipt, error) {
	return u.utilities.Receipt(ctx, transactionID)
}
