package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/upiwallet/internal/timex"
)

// PaymentCategory is a biller category (mobile, DTH, electricity, ...) or,
// for the operator and provider listings, one provider inside a category.
type PaymentCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IconURL     string `json:"iconUrl"`
	IsActive    bool   `json:"isActive"`
}

type RechargePlan struct {
	ID           int64   `json:"id"`
	ProviderID   int64   `json:"providerId"`
	PlanCode     string  `json:"planCode"`
	PlanName     string  `json:"planName"`
	Amount       float64 `json:"amount"`
	ValidityDays int     `json:"validityDays"`
	Description  string  `json:"description"`
	IsActive     bool    `json:"isActive"`
}

type MobileRechargeRequest struct {
	UPIID        string  `json:"upiId"`
	MobileNumber string  `json:"mobileNumber"`
	OperatorCode string  `json:"operatorCode"`
	Amount       float64 `json:"amount"`
	PlanCode     string  `json:"planCode,omitempty"`
}

type DTHRechargeRequest struct {
	UPIID        string  `json:"upiId"`
	SubscriberID string  `json:"subscriberId"`
	OperatorCode string  `json:"operatorCode"`
	Amount       float64 `json:"amount"`
	PlanCode     string  `json:"planCode,omitempty"`
}

type ElectricityBillPaymentRequest struct {
	UPIID          string  `json:"upiId"`
	ProviderCode   string  `json:"providerCode"`
	ConsumerNumber string  `json:"consumerNumber"`
	Amount         float64 `json:"amount"`
	BillingCycle   string  `json:"billingCycle,omitempty"`
}

type CreditCardPaymentRequest struct {
	UPIID           string  `json:"upiId"`
	IssuerCode      string  `json:"issuerCode"`
	CardLast4Digits string  `json:"cardLast4Digits"`
	Amount          float64 `json:"amount"`
}

type InsurancePremiumRequest struct {
	UPIID        string  `json:"upiId"`
	ProviderCode string  `json:"providerCode"`
	PolicyNumber string  `json:"policyNumber"`
	Amount       float64 `json:"amount"`
}

// UtilityPaymentResponse is returned by every recharge and bill payment.
// ReceiptDetails is provider specific and kept raw.
type UtilityPaymentResponse struct {
	TransactionRef         string          `json:"transactionRef"`
	ProviderTransactionRef string          `json:"providerTransactionRef"`
	Status                 string          `json:"status"`
	Amount                 float64         `json:"amount"`
	Message                string          `json:"message"`
	Timestamp              timex.Timestamp `json:"timestamp"`
	ReceiptDetails         json.RawMessage `json:"receiptDetails,omitempty"`
}

type BillDetails struct {
	ConsumerNumber    string          `json:"consumerNumber"`
	ConsumerName      string          `json:"consumerName"`
	AmountDue         float64         `json:"amountDue"`
	DueDate           string          `json:"dueDate"`
	BillingPeriod     string          `json:"billingPeriod"`
	AdditionalDetails json.RawMessage `json:"additionalDetails,omitempty"`
}

type SavedBiller struct {
	ID                int64  `json:"id,omitempty"`
	UserID            int64  `json:"userId"`
	CategoryID        int64  `json:"categoryId"`
	CategoryName      string `json:"categoryName,omitempty"`
	ProviderID        int64  `json:"providerId"`
	ProviderName      string `json:"providerName,omitempty"`
	AccountIdentifier string `json:"accountIdentifier"`
	Nickname          string `json:"nickname"`
	AccountHolderName string `json:"accountHolderName"`
}

type PaymentHistory struct {
	ID                     int64           `json:"id"`
	UserID                 int64           `json:"userId"`
	UPIID                  string          `json:"upiId"`
	CategoryName           string          `json:"categoryName"`
	ProviderName           string          `json:"providerName"`
	AccountIdentifier      string          `json:"accountIdentifier"`
	Amount                 float64         `json:"amount"`
	PaymentStatus          string          `json:"paymentStatus"`
	TransactionRef         string          `json:"transactionRef"`
	ProviderTransactionRef string          `json:"providerTransactionRef"`
	Timestamp              timex.Timestamp `json:"timestamp"`
}

type PaymentReceipt struct {
	TransactionRef         string          `json:"transactionRef"`
	ProviderTransactionRef string          `json:"providerTransactionRef"`
	CategoryName           string          `json:"categoryName"`
	ProviderName           string          `json:"providerName"`
	AccountIdentifier      string          `json:"accountIdentifier"`
	Amount                 float64         `json:"amount"`
	Status                 string          `json:"status"`
	Timestamp              timex.Timestamp `json:"timestamp"`
	ReceiptDetails         json.RawMessage `json:"receiptDetails,omitempty"`
}
