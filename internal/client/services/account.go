package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

const dashboardRecent = 5

type SetupForm struct {
	InitialBalance float64 `label:"Initial balance" validate:"gte=0,lte=1000000"`
}

// Dashboard is the landing view. Offline is set when the gateway could
// not be reached; Account then carries the cached balance and Recent is
// empty.
type Dashboard struct {
	User             *models.User
	Account          *models.Account
	Recent           []TransactionView
	TransactionCount int64
	Offline          bool
}

// AccountService manages the current account.
type AccountService interface {
	Setup(ctx context.Context, form SetupForm) (*models.Account, error)
	Load(ctx context.Context) (*models.Account, error)
	Current(ctx context.Context) (*models.Account, error)
	RefreshBalance(ctx context.Context) (*models.Account, error)
	ValidateUPI(ctx context.Context, upiID string) (bool, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type accountService struct {
	accounts     client.AccountAPI
	transactions client.TransactionAPI
	session      Session
	v            *validation.Validator
	log          logging.Logger
}

func NewAccountService(accounts client.AccountAPI, transactions client.TransactionAPI, s Session,
	v *validation.Validator, log logging.Logger) AccountService {
	return &accountService{accounts: accounts, transactions: transactions, session: s, v: v, log: log}
}

// Setup opens the user's account with an initial balance.
func (a *accountService) Setup(ctx context.Context, form SetupForm) (*models.Account, error) {
	user, err := a.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := a.v.Struct(form); err != nil {
		return nil, err
	}

	acc, err := a.accounts.CreateAccount(ctx, models.CreateAccountRequest{
		UserID:         user.ID,
		InitialBalance: form.InitialBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if err := a.session.SetCurrentAccount(ctx, acc); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "account created", "upi_id", acc.UPIID, "user_id", user.ID)
	return acc, nil
}

// Load fetches the user's account from the backend and makes it current.
func (a *accountService) Load(ctx context.Context) (*models.Account, error) {
	user, err := a.session.RequireUser()
	if err != nil {
		return nil, err
	}
	acc, err := a.accounts.AccountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := a.session.SetCurrentAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Current returns the held account, loading it from the backend when the
// session has none but a user is logged in.
func (a *accountService) Current(ctx context.Context) (*models.Account, error) {
	acc, err := a.session.CurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}
	return a.Load(ctx)
}

func (a *accountService) RefreshBalance(ctx context.Context) (*models.Account, error) {
	return a.session.RefreshCurrentAccountBalance(ctx)
}

func (a *accountService) ValidateUPI(ctx context.Context, upiID string) (bool, error) {
	if err := a.v.Var(upiID, "required,upi", "UPI ID"); err != nil {
		return false, err
	}
	return a.accounts.ValidateUPI(ctx, upiID)
}

func (a *accountService) Dashboard(ctx context.Context) (*Dashboard, error) {
	user, err := a.session.RequireUser()
	if err != nil {
		return nil, err
	}
	acc, err := a.Current(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{User: user, Account: acc}

	fresh, err := a.session.RefreshCurrentAccountBalance(ctx)
	if errors.Is(err, client.ErrUnavailable) {
		a.log.Warn(ctx, "gateway unreachable, showing cached dashboard", "upi_id", acc.UPIID, "error", err)
		d.Offline = true
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	d.Account = fresh

	recent, err := a.transactions.Recent(ctx, acc.UPIID, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	d.Recent = views(recent, acc.UPIID)

	if d.TransactionCount, err = a.transactions.Count(ctx, acc.UPIID); err != nil {
		return nil, fmt.Errorf("transaction count: %w", err)
	}
	return d, nil
}
