package models

import "github.com/dmitrijs2005/upiwallet/internal/timex"

// Account is a customer's bank account as addressed by its UPI id.
// Balance is a snapshot; it goes stale as soon as the backend debits or
// credits the account.
type Account struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	UPIID         string          `json:"upiId"`
	AccountNumber string          `json:"accountNumber"`
	Balance       float64         `json:"balance"`
	CreatedAt     timex.Timestamp `json:"createdAt"`
	UpdatedAt     timex.Timestamp `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with a. A nil receiver yields nil.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// WithBalance returns a copy of a with Balance replaced and every identity
// field kept.
func (a *Account) WithBalance(balance float64) *Account {
	c := a.Clone()
	c.Balance = balance
	return c
}

type CreateAccountRequest struct {
	UserID         int64   `json:"userId"`
	InitialBalance float64 `json:"initialBalance"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
	UPIID   string  `json:"upiId"`
}

type BalanceOperation string

const (
	OperationCredit BalanceOperation = "CREDIT"
	OperationDebit  BalanceOperation = "DEBIT"
)

type BalanceUpdateRequest struct {
	Amount    float64          `json:"amount"`
	Operation BalanceOperation `json:"operation"`
}
