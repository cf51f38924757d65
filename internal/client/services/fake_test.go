package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/history"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"

	_ "modernc.org/sqlite"
)

// fakeGateway answers from preset fields and records calls. Methods the
// tests never reach fall through to the nil embedded Gateway and panic.
type fakeGateway struct {
	client.Gateway

	mu    sync.Mutex
	calls map[string]int

	loginUser *models.User
	loginErr  error
	regErr    error
	lastReg   models.UserRegistrationRequest
	profile   *models.User
	lastUpd   models.UserUpdateRequest

	account    *models.Account
	accountErr error
	created    models.CreateAccountRequest

	balance    float64
	balanceErr error

	known       map[string]bool
	validateErr error

	transferErr  error
	lastTransfer models.TransferRequest

	history    []models.Transaction
	historyErr error
	count      int64

	payErr  error
	lastPay any

	billers    []models.SavedBiller
	billersErr error
	saved      []models.SavedBiller
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, known: map[string]bool{}}
}

func (f *fakeGateway) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeGateway) n(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) RegisterUser(_ context.Context, req models.UserRegistrationRequest) (*models.User, error) {
	f.hit("RegisterUser")
	f.lastReg = req
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: 10, Username: req.Username, Email: req.Email, Phone: req.Phone, FullName: req.FullName}, nil
}

func (f *fakeGateway) LoginUser(_ context.Context, _ models.UserLoginRequest) (*models.User, error) {
	f.hit("LoginUser")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginUser.Clone(), nil
}

func (f *fakeGateway) GetUser(_ context.Context, _ int64) (*models.User, error) {
	f.hit("GetUser")
	return f.profile.Clone(), nil
}

func (f *fakeGateway) UpdateUser(_ context.Context, id int64, req models.UserUpdateRequest) (*models.User, error) {
	f.hit("UpdateUser")
	f.lastUpd = req
	return &models.User{ID: id, Username: "alice", Email: req.Email, Phone: req.Phone, FullName: req.FullName}, nil
}

func (f *fakeGateway) CreateAccount(_ context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	f.hit("CreateAccount")
	f.created = req
	return &models.Account{ID: 1, UserID: req.UserID, UPIID: "alice@upi", AccountNumber: "ACC1", Balance: req.InitialBalance}, nil
}

func (f *fakeGateway) AccountByUserID(_ context.Context, _ int64) (*models.Account, error) {
	f.hit("AccountByUserID")
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account.Clone(), nil
}

func (f *fakeGateway) BalanceByUPI(_ context.Context, upiID string) (*models.BalanceResponse, error) {
	f.hit("BalanceByUPI")
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return &models.BalanceResponse{Balance: f.balance, UPIID: upiID}, nil
}

func (f *fakeGateway) ValidateUPI(_ context.Context, upiID string) (bool, error) {
	f.hit("ValidateUPI")
	return f.known[upiID], f.validateErr
}

func (f *fakeGateway) Transfer(_ context.Context, req models.TransferRequest) (*models.Transaction, error) {
	f.hit("Transfer")
	f.lastTransfer = req
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return &models.Transaction{ID: 99, SenderUPIID: req.SenderUPIID, ReceiverUPIID: req.ReceiverUPIID,
		Amount: req.Amount, Description: req.Description, Status: models.StatusSuccess, TransactionRef: "TXN99"}, nil
}

func (f *fakeGateway) txs(name string) ([]models.Transaction, error) {
	f.hit(name)
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return append([]models.Transaction(nil), f.history...), nil
}

func (f *fakeGateway) History(_ context.Context, _ string) ([]models.Transaction, error) {
	return f.txs("History")
}

func (f *fakeGateway) Sent(_ context.Context, upiID string) ([]models.Transaction, error) {
	all, err := f.txs("Sent")
	var out []models.Transaction
	for _, t := range all {
		if t.SenderUPIID == upiID {
			out = append(out, t)
		}
	}
	return out, err
}

func (f *fakeGateway) Received(_ context.Context, _ string) ([]models.Transaction, error) {
	return f.txs("Received")
}

func (f *fakeGateway) Filtered(_ context.Context, _ string, _ models.TransactionFilter) ([]models.Transaction, error) {
	return f.txs("Filtered")
}

func (f *fakeGateway) Recent(_ context.Context, _ string, limit int) ([]models.Transaction, error) {
	all, err := f.txs("Recent")
	if len(all) > limit {
		all = all[:limit]
	}
	return all, err
}

func (f *fakeGateway) Count(_ context.Context, _ string) (int64, error) {
	f.hit("Count")
	return f.count, nil
}

func (f *fakeGateway) TransactionByRef(_ context.Context, ref string) (*models.Transaction, error) {
	f.hit("TransactionByRef")
	for _, t := range f.history {
		if t.TransactionRef == ref {
			t := t
			return &t, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeGateway) payment(name string, req any, amount float64) (*models.UtilityPaymentResponse, error) {
	f.hit(name)
	f.lastPay = req
	if f.payErr != nil {
		return nil, f.payErr
	}
	return &models.UtilityPaymentResponse{TransactionRef: "UTL1", Status: "SUCCESS", Amount: amount}, nil
}

func (f *fakeGateway) RechargeMobile(_ context.Context, req models.MobileRechargeRequest) (*models.UtilityPaymentResponse, error) {
	return f.payment("RechargeMobile", req, req.Amount)
}

func (f *fakeGateway) RechargeDTH(_ context.Context, req models.DTHRechargeRequest) (*models.UtilityPaymentResponse, error) {
	return f.payment("RechargeDTH", req, req.Amount)
}

func (f *fakeGateway) PayElectricity(_ context.Context, req models.ElectricityBillPaymentRequest) (*models.UtilityPaymentResponse, error) {
	return f.payment("PayElectricity", req, req.Amount)
}

func (f *fakeGateway) PayCreditCard(_ context.Context, req models.CreditCardPaymentRequest) (*models.UtilityPaymentResponse, error) {
	return f.payment("PayCreditCard", req, req.Amount)
}

func (f *fakeGateway) PayInsurance(_ context.Context, req models.InsurancePremiumRequest) (*models.UtilityPaymentResponse, error) {
	return f.payment("PayInsurance", req, req.Amount)
}

func (f *fakeGateway) Payments(_ context.Context, userID int64) ([]models.PaymentHistory, error) {
	f.hit("Payments")
	return []models.PaymentHistory{{ID: 1, UserID: userID}}, nil
}

func (f *fakeGateway) PaymentsByCategory(_ context.Context, userID int64, category string) ([]models.PaymentHistory, error) {
	f.hit("PaymentsByCategory")
	return []models.PaymentHistory{{ID: 2, UserID: userID, CategoryName: category}}, nil
}

func (f *fakeGateway) SaveBiller(_ context.Context, b models.SavedBiller) (*models.SavedBiller, error) {
	f.hit("SaveBiller")
	b.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, b)
	f.billers = append(f.billers, b)
	return &b, nil
}

func (f *fakeGateway) Billers(_ context.Context, _ int64) ([]models.SavedBiller, error) {
	f.hit("Billers")
	if f.billersErr != nil {
		return nil, f.billersErr
	}
	return append([]models.SavedBiller(nil), f.billers...), nil
}

func (f *fakeGateway) DeleteBiller(_ context.Context, id int64) error {
	f.hit("DeleteBiller")
	kept := f.billers[:0]
	for _, b := range f.billers {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	f.billers = kept
	return nil
}

// env is a session store over a migrated in-memory database plus a fake
// gateway.
type env struct {
	gw      *fakeGateway
	kv      keyvalue.Repository
	history *history.SQLiteRepository
	store   *session.Store
	v       *validation.Validator
}

func newEnv(t *testing.T, opts ...session.Option) *env {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, client.RunMigrations(ctx, db))

	e := &env{
		gw:      newFakeGateway(),
		kv:      keyvalue.NewSQLiteRepository(db),
		history: history.NewSQLiteRepository(db),
		v:       validation.New(),
	}
	e.store, err = session.NewStore(ctx, e.kv, e.gw, opts...)
	require.NoError(t, err)
	t.Cleanup(e.store.Close)
	return e
}

func alice() *models.User {
	return &models.User{ID: 7, Username: "alice", Email: "alice@example.com", Phone: "9876543210", FullName: "Alice"}
}

func aliceAccount() *models.Account {
	return &models.Account{ID: 1, UserID: 7, UPIID: "alice@upi", AccountNumber: "ACC1", Balance: 1000}
}

// loggedIn puts alice and her account in the session.
func (e *env) loggedIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.SetCurrentUser(ctx, alice()))
	require.NoError(t, e.store.SetCurrentAccount(ctx, aliceAccount()))
}

func nop() logging.Logger { return logging.Nop() }
