package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/history"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

const DefaultTransferDescription = "Money transfer"

type TransferForm struct {
	Receiver      string  `label:"Receiver UPI ID" validate:"required,upi"`
	Amount        float64 `label:"Amount" validate:"gte=1,lte=100000"`
	ConfirmAmount float64 `label:"Confirm amount" validate:"eqfield=Amount"`
	Description   string  `label:"Description" validate:"max=255"`
}

// TransactionView is a transaction as seen from one UPI id.
type TransactionView struct {
	models.Transaction
	Direction    models.Direction
	Counterparty string
}

func view(t models.Transaction, upiID string) TransactionView {
	return TransactionView{Transaction: t, Direction: t.DirectionFor(upiID), Counterparty: t.CounterpartyFor(upiID)}
}

func views(txs []models.Transaction, upiID string) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, view(t, upiID))
	}
	return out
}

// TransferResult carries the new transaction and the account after the
// balance refresh. BalanceStale is set when that refresh failed and Account
// is the pre-transfer snapshot.
type TransferResult struct {
	Transaction  *models.Transaction
	Account      *models.Account
	BalanceStale bool
}

type HistoryKind string

const (
	HistoryAll      HistoryKind = ""
	HistorySent     HistoryKind = "sent"
	HistoryReceived HistoryKind = "received"
)

type HistoryQuery struct {
	Kind      HistoryKind
	Status    models.TransactionStatus
	StartDate string
	EndDate   string
	Limit     int
	// Search matches either UPI id, the description or the reference,
	// ignoring case. It is applied locally.
	Search string
}

// filtered reports whether q needs the gateway's filter endpoint.
func (q HistoryQuery) filtered() bool {
	return q.Status != "" || q.StartDate != "" || q.EndDate != "" || q.Limit > 0
}

// HistoryPage is a history listing. Offline is set when Items came from the
// local cache because the gateway was unreachable.
type HistoryPage struct {
	Items   []TransactionView
	Offline bool
}

// TransferService sends money and lists transactions for the current
// account.
//
// Contract:
//   - ValidateReceiver rejects malformed ids, the sender's own id and ids
//     the backend does not know.
//   - Transfer refreshes the balance afterwards. A failed refresh does not
//     fail the transfer.
//   - History keeps a local copy of the full listing and serves it when the
//     gateway is unavailable.
type TransferService interface {
	ValidateReceiver(ctx context.Context, upiID string) error
	Transfer(ctx context.Context, form TransferForm) (*TransferResult, error)
	History(ctx context.Context, q HistoryQuery) (*HistoryPage, error)
	Recent(ctx context.Context, limit int) ([]TransactionView, error)
	Count(ctx context.Context) (int64, error)
	ByReference(ctx context.Context, ref string) (*TransactionView, error)
}

type transferService struct {
	accounts     client.AccountAPI
	transactions client.TransactionAPI
	session      Session
	cache        history.Repository
	v            *validation.Validator
	log          logging.Logger
}

func NewTransferService(accounts client.AccountAPI, transactions client.TransactionAPI, s Session,
	cache history.Repository, v *validation.Validator, log logging.Logger) TransferService {
	return &transferService{accounts: accounts, transactions: transactions, session: s, cache: cache, v: v, log: log}
}

func (t *transferService) ValidateReceiver(ctx context.Context, upiID string) error {
	acc, err := requireAccount(ctx, t.session)
	if err != nil {
		return err
	}
	return t.validateReceiver(ctx, acc, strings.TrimSpace(upiID))
}

func (t *transferService) validateReceiver(ctx context.Context, sender *models.Account, upiID string) error {
	if err := t.v.Var(upiID, "required,upi", "Receiver UPI ID"); err != nil {
		return err
	}
	if strings.EqualFold(upiID, sender.UPIID) {
		return ErrSameAccount
	}
	ok, err := t.accounts.ValidateUPI(ctx, upiID)
	if err != nil {
		return fmt.Errorf("validate receiver: %w", err)
	}
	if !ok {
		return ErrUnknownReceiver
	}
	return nil
}

func (t *transferService) Transfer(ctx context.Context, form TransferForm) (*TransferResult, error) {
	form.Receiver = strings.TrimSpace(form.Receiver)
	form.Description = strings.TrimSpace(form.Description)
	if err := t.v.Struct(form); err != nil {
		return nil, err
	}
	sender, err := requireAccount(ctx, t.session)
	if err != nil {
		return nil, err
	}
	if err := t.validateReceiver(ctx, sender, form.Receiver); err != nil {
		return nil, err
	}
	if form.Description == "" {
		form.Description = DefaultTransferDescription
	}

	tx, err := t.transactions.Transfer(ctx, models.TransferRequest{
		SenderUPIID:   sender.UPIID,
		ReceiverUPIID: form.Receiver,
		Amount:        form.Amount,
		Description:   form.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	t.log.Info(ctx, "transfer sent", "ref", tx.TransactionRef, "status", tx.Status,
		"from", sender.UPIID, "to", form.Receiver, "amount", form.Amount)

	res := &TransferResult{Transaction: tx, Account: sender}
	acc, err := t.session.RefreshCurrentAccountBalance(ctx)
	if err != nil {
		t.log.Warn(ctx, "balance refresh after transfer failed", "ref", tx.TransactionRef, "error", err)
		res.BalanceStale = true
		return res, nil
	}
	res.Account = acc
	return res, nil
}

func (t *transferService) History(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	acc, err := requireAccount(ctx, t.session)
	if err != nil {
		return nil, err
	}

	txs, err := t.fetch(ctx, acc.UPIID, q)
	if errors.Is(err, client.ErrUnavailable) {
		cached, cerr := t.cache.List(ctx, acc.UPIID, 0)
		if cerr != nil || len(cached) == 0 {
			return nil, err
		}
		t.log.Warn(ctx, "gateway unreachable, serving cached history", "upi_id", acc.UPIID, "rows", len(cached))
		return &HistoryPage{Items: views(applyQuery(cached, acc.UPIID, q), acc.UPIID), Offline: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	if q.Kind == HistoryAll && !q.filtered() {
		if err := t.cache.Replace(ctx, acc.UPIID, txs); err != nil {
			t.log.Warn(ctx, "history cache update failed", "upi_id", acc.UPIID, "error", err)
		}
	}
	if q.filtered() || q.Search != "" {
		txs = applyQuery(txs, acc.UPIID, HistoryQuery{Kind: q.Kind, Search: q.Search})
	}
	return &HistoryPage{Items: views(txs, acc.UPIID)}, nil
}

func (t *transferService) fetch(ctx context.Context, upiID string, q HistoryQuery) ([]models.Transaction, error) {
	if q.filtered() {
		return t.transactions.Filtered(ctx, upiID, models.TransactionFilter{
			StartDate: q.StartDate,
			EndDate:   q.EndDate,
			Status:    q.Status,
			Limit:     q.Limit,
		})
	}
	switch q.Kind {
	case HistorySent:
		return t.transactions.Sent(ctx, upiID)
	case HistoryReceived:
		return t.transactions.Received(ctx, upiID)
	default:
		return t.transactions.History(ctx, upiID)
	}
}

// applyQuery filters txs locally. StartDate and EndDate are inclusive
// YYYY-MM-DD days and compare against the day of CreatedAt.
func applyQuery(txs []models.Transaction, upiID string, q HistoryQuery) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		switch q.Kind {
		case HistorySent:
			if tx.SenderUPIID != upiID {
				continue
			}
		case HistoryReceived:
			if tx.ReceiverUPIID != upiID {
				continue
			}
		}
		if q.Status != "" && tx.Status != q.Status {
			continue
		}
		day := ""
		if !tx.CreatedAt.IsZero() {
			day = tx.CreatedAt.Format(time.DateOnly)
		}
		if q.StartDate != "" && day < dateOnly(q.StartDate) {
			continue
		}
		if q.EndDate != "" && day > dateOnly(q.EndDate) {
			continue
		}
		if q.Search != "" && !matches(tx, q.Search) {
			continue
		}
		out = append(out, tx)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func dateOnly(s string) string {
	if len(s) > len(time.DateOnly) {
		return s[:len(time.DateOnly)]
	}
	return s
}

func matches(tx models.Transaction, term string) bool {
	term = strings.ToLower(term)
	for _, f := range []string{tx.SenderUPIID, tx.ReceiverUPIID, tx.Description, tx.TransactionRef} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (t *transferService) Recent(ctx context.Context, limit int) ([]TransactionView, error) {
	acc, err := requireAccount(ctx, t.session)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	txs, err := t.transactions.Recent(ctx, acc.UPIID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return views(txs, acc.UPIID), nil
}

func (t *transferService) Count(ctx context.Context) (int64, error) {
	acc, err := requireAccount(ctx, t.session)
	if err != nil {
		return 0, err
	}
	return t.transactions.Count(ctx, acc.UPIID)
}

func (t *transferService) ByReference(ctx context.Context, ref string) (*TransactionView, error) {
	acc, err := requireAccount(ctx, t.session)
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if err := t.v.Var(ref, "required", "Transaction reference"); err != nil {
		return nil, err
	}
	tx, err := t.transactions.TransactionByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", ref, err)
	}
	v := view(*tx, acc.UPIID)
	return &v, nil
}
