package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/timex"
)

func newTransferSvc(e *env) TransferService {
	return NewTransferService(e.gw, e.gw, e.store, e.history, e.v, nop())
}

func sendTo(receiver string, amount float64) TransferForm {
	return TransferForm{Receiver: receiver, Amount: amount, ConfirmAmount: amount}
}

func TestValidateReceiver(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.known["bob@upi"] = true
	svc := newTransferSvc(e)
	ctx := context.Background()

	assert.NoError(t, svc.ValidateReceiver(ctx, " bob@upi "))
	assert.ErrorIs(t, svc.ValidateReceiver(ctx, "ALICE@upi"), ErrSameAccount)
	assert.ErrorIs(t, svc.ValidateReceiver(ctx, "carol@upi"), ErrUnknownReceiver)
	assert.ErrorIs(t, svc.ValidateReceiver(ctx, "carol"), validation.ErrInvalid)

	e.gw.validateErr = client.ErrUnavailable
	assert.ErrorIs(t, svc.ValidateReceiver(ctx, "bob@upi"), client.ErrUnavailable)
}

func TestValidateReceiver_NoAccount(t *testing.T) {
	e := newEnv(t)
	err := newTransferSvc(e).ValidateReceiver(context.Background(), "bob@upi")
	assert.ErrorIs(t, err, session.ErrNoCurrentAccount)
}

func TestTransfer_RejectsBeforeSending(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.known["bob@upi"] = true
	svc := newTransferSvc(e)
	ctx := context.Background()

	tests := []struct {
		name string
		form TransferForm
		want error
	}{
		{"below minimum", sendTo("bob@upi", 0.5), validation.ErrInvalid},
		{"above maximum", sendTo("bob@upi", 100001), validation.ErrInvalid},
		{"confirmation mismatch", TransferForm{Receiver: "bob@upi", Amount: 10, ConfirmAmount: 11}, validation.ErrInvalid},
		{"own account", sendTo("alice@upi", 10), ErrSameAccount},
		{"unknown receiver", sendTo("dave@upi", 10), ErrUnknownReceiver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transfer(ctx, tt.form)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, e.gw.n("Transfer"))
}

func TestTransfer_RefreshesBalance(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.known["bob@upi"] = true
	e.gw.balance = 900
	ctx := context.Background()

	res, err := newTransferSvc(e).Transfer(ctx, sendTo("bob@upi", 100))
	require.NoError(t, err)
	assert.Equal(t, DefaultTransferDescription, e.gw.lastTransfer.Description)
	assert.Equal(t, "alice@upi", e.gw.lastTransfer.SenderUPIID)
	assert.Equal(t, "TXN99", res.Transaction.TransactionRef)
	assert.False(t, res.BalanceStale)
	assert.Equal(t, 900.0, res.Account.Balance)

	held, err := e.store.CurrentAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 900.0, held.Balance)
	assert.Equal(t, "ACC1", held.AccountNumber)
}

func TestTransfer_RefreshFailureKeepsTransfer(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.known["bob@upi"] = true
	e.gw.balanceErr = client.ErrUnavailable

	res, err := newTransferSvc(e).Transfer(context.Background(), TransferForm{
		Receiver: "bob@upi", Amount: 100, ConfirmAmount: 100, Description: "  rent  ",
	})
	require.NoError(t, err)
	assert.True(t, res.BalanceStale)
	assert.Equal(t, 1000.0, res.Account.Balance)
	assert.Equal(t, "rent", e.gw.lastTransfer.Description)
}

func TestTransfer_BackendRejects(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.known["bob@upi"] = true
	e.gw.transferErr = &client.APIError{Status: 400, Message: "Insufficient balance"}

	_, err := newTransferSvc(e).Transfer(context.Background(), sendTo("bob@upi", 5000))
	assert.ErrorIs(t, err, client.ErrBadRequest)
	assert.Zero(t, e.gw.n("BalanceByUPI"))
}

func sampleHistory() []models.Transaction {
	return []models.Transaction{
		{ID: 3, SenderUPIID: "alice@upi", ReceiverUPIID: "bob@upi", Amount: 30, Status: models.StatusSuccess, TransactionRef: "T3"},
		{ID: 2, SenderUPIID: "carol@upi", ReceiverUPIID: "alice@upi", Amount: 20, Status: models.StatusFailed, TransactionRef: "T2"},
		{ID: 1, SenderUPIID: "alice@upi", ReceiverUPIID: "carol@upi", Amount: 10, Status: models.StatusSuccess, TransactionRef: "T1"},
	}
}

func TestHistory_CachesAndServesOffline(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.history = sampleHistory()
	svc := newTransferSvc(e)
	ctx := context.Background()

	page, err := svc.History(ctx, HistoryQuery{})
	require.NoError(t, err)
	assert.False(t, page.Offline)
	require.Len(t, page.Items, 3)

	e.gw.historyErr = client.ErrUnavailable
	page, err = svc.History(ctx, HistoryQuery{})
	require.NoError(t, err)
	assert.True(t, page.Offline)
	require.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.Items[0].ID)

	page, err = svc.History(ctx, HistoryQuery{Kind: HistoryReceived})
	require.NoError(t, err)
	assert.True(t, page.Offline)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carol@upi", page.Items[0].Counterparty)
}

func TestHistory_OfflineWithoutCacheFails(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.historyErr = client.ErrUnavailable

	_, err := newTransferSvc(e).History(context.Background(), HistoryQuery{})
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestHistory_FilteredDoesNotTouchCache(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.history = sampleHistory()
	ctx := context.Background()

	page, err := newTransferSvc(e).History(ctx, HistoryQuery{Kind: HistorySent, Status: models.StatusSuccess})
	require.NoError(t, err)
	assert.Equal(t, 1, e.gw.n("Filtered"))
	require.Len(t, page.Items, 2)
	for _, it := range page.Items {
		assert.Equal(t, models.DirectionSent, it.Direction)
	}

	cached, err := e.history.List(ctx, "alice@upi", 0)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestHistory_OtherErrorsWrap(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	boom := errors.New("bad json")
	e.gw.historyErr = boom

	_, err := newTransferSvc(e).History(context.Background(), HistoryQuery{Kind: HistorySent})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, e.gw.n("Sent"))
}

func TestApplyQuery(t *testing.T) {
	txs := sampleHistory()
	got := applyQuery(txs, "alice@upi", HistoryQuery{Status: models.StatusSuccess, Limit: 1})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	got = applyQuery(txs, "alice@upi", HistoryQuery{Kind: HistorySent})
	assert.Len(t, got, 2)
}

func at(day string, hour int) timex.Timestamp {
	d, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return timex.Timestamp{Time: d.Add(time.Duration(hour) * time.Hour)}
}

func TestApplyQuery_DateBoundsAreInclusive(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, CreatedAt: at("2023-12-31", 23)},
		{ID: 2, CreatedAt: at("2024-01-01", 0)},
		{ID: 3, CreatedAt: at("2024-01-15", 12)},
		{ID: 4, CreatedAt: at("2024-01-31", 10)},
		{ID: 5, CreatedAt: at("2024-01-31", 23)},
		{ID: 6, CreatedAt: at("2024-02-01", 0)},
	}

	tests := []struct {
		name string
		q    HistoryQuery
		want []int64
	}{
		{"both bounds", HistoryQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"}, []int64{2, 3, 4, 5}},
		{"single day", HistoryQuery{StartDate: "2024-01-31", EndDate: "2024-01-31"}, []int64{4, 5}},
		{"start only", HistoryQuery{StartDate: "2024-01-31"}, []int64{4, 5, 6}},
		{"end only", HistoryQuery{EndDate: "2024-01-01"}, []int64{1, 2}},
		{"bound with time", HistoryQuery{StartDate: "2024-01-31T15:00:00", EndDate: "2024-01-31T00:00:00"}, []int64{4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for _, tx := range applyQuery(txs, "alice@upi", tt.q) {
				got = append(got, tx.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyQuery_Search(t *testing.T) {
	txs := sampleHistory()
	txs[1].Description = "Dinner split"

	tests := []struct {
		term string
		want []int64
	}{
		{"BOB", []int64{3}},
		{"carol@", []int64{2, 1}},
		{"dinner", []int64{2}},
		{"t1", []int64{1}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []int64
			for _, tx := range applyQuery(txs, "alice@upi", HistoryQuery{Search: tt.term}) {
				got = append(got, tx.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistory_SearchKeepsFullCache(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.history = sampleHistory()
	ctx := context.Background()
	svc := newTransferSvc(e)

	page, err := svc.History(ctx, HistoryQuery{Search: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, e.gw.n("History"))
	assert.Zero(t, e.gw.n("Filtered"))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "T3", page.Items[0].TransactionRef)

	cached, err := e.history.List(ctx, "alice@upi", 0)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	e.gw.historyErr = client.ErrUnavailable
	page, err = svc.History(ctx, HistoryQuery{Search: "carol"})
	require.NoError(t, err)
	assert.True(t, page.Offline)
	assert.Len(t, page.Items, 2)
}

func TestHistory_OfflineDateFilterIncludesEndDay(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	txs := sampleHistory()
	txs[0].CreatedAt = at("2024-01-31", 10)
	txs[1].CreatedAt = at("2024-01-10", 9)
	txs[2].CreatedAt = at("2023-12-20", 9)
	ctx := context.Background()
	require.NoError(t, e.history.Replace(ctx, "alice@upi", txs))
	e.gw.historyErr = client.ErrUnavailable

	page, err := newTransferSvc(e).History(ctx, HistoryQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.True(t, page.Offline)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "T3", page.Items[0].TransactionRef)
}

func TestRecentCountByReference(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.gw.history = sampleHistory()
	e.gw.count = 3
	svc := newTransferSvc(e)
	ctx := context.Background()

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	v, err := svc.ByReference(ctx, " T2 ")
	require.NoError(t, err)
	assert.Equal(t, models.DirectionReceived, v.Direction)

	_, err = svc.ByReference(ctx, "T9")
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, err = svc.ByReference(ctx, "")
	assert.ErrorIs(t, err, validation.ErrInvalid)
}
