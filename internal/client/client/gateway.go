package client

import (
	"context"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
)

type UserAPI interface {
	RegisterUser(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error)
	LoginUser(ctx context.Context, req models.UserLoginRequest) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) (*models.User, error)
}

type AccountAPI interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	AccountByUserID(ctx context.Context, userID int64) (*models.Account, error)
	AccountByUPI(ctx context.Context, upiID string) (*models.Account, error)
	BalanceByUPI(ctx context.Context, upiID string) (*models.BalanceResponse, error)
	UpdateBalance(ctx context.Context, upiID string, req models.BalanceUpdateRequest) (*models.BalanceResponse, error)
	ValidateUPI(ctx context.Context, upiID string) (bool, error)
}

type TransactionAPI interface {
	Transfer(ctx context.Context, req models.TransferRequest) (*models.Transaction, error)
	TransactionByID(ctx context.Context, id int64) (*models.Transaction, error)
	TransactionByRef(ctx context.Context, ref string) (*models.Transaction, error)
	History(ctx context.Context, upiID string) ([]models.Transaction, error)
	Sent(ctx context.Context, upiID string) ([]models.Transaction, error)
	Received(ctx context.Context, upiID string) ([]models.Transaction, error)
	Recent(ctx context.Context, upiID string, limit int) ([]models.Transaction, error)
	Filtered(ctx context.Context, upiID string, f models.TransactionFilter) ([]models.Transaction, error)
	Count(ctx context.Context, upiID string) (int64, error)
}

type UtilityAPI interface {
	Categories(ctx context.Context) ([]models.PaymentCategory, error)
	MobileOperators(ctx context.Context) ([]models.PaymentCategory, error)
	MobilePlans(ctx context.Context, operatorCode string) ([]models.RechargePlan, error)
	RechargeMobile(ctx context.Context, req models.MobileRechargeRequest) (*models.UtilityPaymentResponse, error)
	DTHOperators(ctx context.Context) ([]models.PaymentCategory, error)
	DTHPlans(ctx context.Context, operatorCode, subscriberID string) ([]models.RechargePlan, error)
	RechargeDTH(ctx context.Context, req models.DTHRechargeRequest) (*models.UtilityPaymentResponse, error)
	ElectricityProviders(ctx context.Context) ([]models.PaymentCategory, error)
	FetchElectricityBill(ctx context.Context, providerCode, consumerNumber string) (*models.BillDetails, error)
	PayElectricity(ctx context.Context, req models.ElectricityBillPaymentRequest) (*models.UtilityPaymentResponse, error)
	CreditCardIssuers(ctx context.Context) ([]models.PaymentCategory, error)
	PayCreditCard(ctx context.Context, req models.CreditCardPaymentRequest) (*models.UtilityPaymentResponse, error)
	PayInsurance(ctx context.Context, req models.InsurancePremiumRequest) (*models.UtilityPaymentResponse, error)
	Payments(ctx context.Context, userID int64) ([]models.PaymentHistory, error)
	PaymentsByCategory(ctx context.Context, userID int64, category string) ([]models.PaymentHistory, error)
	PaymentsByDateRange(ctx context.Context, userID int64, start, end string) ([]models.PaymentHistory, error)
	Payment(ctx context.Context, transactionID int64) (*models.PaymentHistory, error)
	Receipt(ctx context.Context, transactionID int64) (*models.PaymentReceipt, error)
}

type BillerAPI interface {
	SaveBiller(ctx context.Context, b models.SavedBiller) (*models.SavedBiller, error)
	Billers(ctx context.Context, userID int64) ([]models.SavedBiller, error)
	BillersByCategory(ctx context.Context, userID int64, category string) ([]models.SavedBiller, error)
	UpdateBiller(ctx context.Context, id int64, b models.SavedBiller) (*models.SavedBiller, error)
	DeleteBiller(ctx context.Context, id int64) error
}

// Gateway is the full backend surface used by the CLI.
type Gateway interface {
	UserAPI
	AccountAPI
	TransactionAPI
	UtilityAPI
	BillerAPI

	Ping(ctx context.Context) error
	Close() error
}
