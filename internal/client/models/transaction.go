package models

import "github.com/dmitrijs2005/upiwallet/internal/timex"

type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction is a peer-to-peer transfer between two UPI ids.
type Transaction struct {
	ID             int64             `json:"id"`
	SenderUPIID    string            `json:"senderUpiId"`
	ReceiverUPIID  string            `json:"receiverUpiId"`
	Amount         float64           `json:"amount"`
	Description    string            `json:"description"`
	Status         TransactionStatus `json:"status"`
	TransactionRef string            `json:"transactionRef"`
	CreatedAt      timex.Timestamp   `json:"createdAt"`
}

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// DirectionFor reports whether t was sent or received from upiID's point of
// view.
func (t Transaction) DirectionFor(upiID string) Direction {
	if t.SenderUPIID == upiID {
		return DirectionSent
	}
	return DirectionReceived
}

// CounterpartyFor returns the other side of t as seen by upiID.
func (t Transaction) CounterpartyFor(upiID string) string {
	if t.SenderUPIID == upiID {
		return t.ReceiverUPIID
	}
	return t.SenderUPIID
}

type TransferRequest struct {
	SenderUPIID   string  `json:"senderUpiId"`
	ReceiverUPIID string  `json:"receiverUpiId"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
}

// TransactionFilter narrows a history query. Zero fields are not sent.
// Dates use the backend's ISO date-time layout.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	Status    TransactionStatus
	Limit     int
}
