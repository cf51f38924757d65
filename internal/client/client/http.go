package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/common"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

const maxBodyBytes = 4 << 20

// HTTPGateway talks JSON over HTTP to the API gateway. It is safe for
// concurrent use.
type HTTPGateway struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	retries    uint64
	retryDelay time.Duration
	log        logging.Logger
}

type Option func(*HTTPGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.http = c }
}

// WithTimeout bounds every single attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) { g.timeout = d }
}

// WithRetries sets how many extra attempts an idempotent call gets after a
// transient failure, and the constant pause between them.
func WithRetries(n int, delay time.Duration) Option {
	return func(g *HTTPGateway) {
		if n < 0 {
			n = 0
		}
		g.retries = uint64(n)
		g.retryDelay = delay
	}
}

// WithRateLimit gates every attempt through a token bucket. rps <= 0 means
// unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *HTTPGateway) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *HTTPGateway) { g.log = l }
}

func NewHTTPGateway(baseURL string, opts ...Option) (*HTTPGateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %q: want http(s)://host[:port]", baseURL)
	}

	g := &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		timeout:    10 * time.Second,
		retries:    2,
		retryDelay: 300 * time.Millisecond,
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(g)
	}
	if g.retryDelay <= 0 {
		g.retryDelay = time.Millisecond
	}
	return g, nil
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// idempotent calls are retried on transient failures.
	idempotent bool
}

func get(path string) call { return call{method: http.MethodGet, path: path, idempotent: true} }

func (g *HTTPGateway) do(ctx context.Context, c call, out any) error {
	var payload []byte
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", c.method, c.path, err)
		}
		payload = b
	}

	if !c.idempotent || g.retries == 0 {
		return g.attempt(ctx, c, payload, out)
	}

	attempt := 0
	b := retry.WithMaxRetries(g.retries, retry.NewConstant(g.retryDelay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := g.attempt(ctx, c, payload, out)
		if err != nil && transient(err) {
			g.log.Warn(ctx, "gateway call failed, retrying", "method", c.method, "path", c.path,
				"attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// transient reports whether a failed attempt may succeed when repeated.
func transient(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

func (g *HTTPGateway) attempt(ctx context.Context, c call, payload []byte, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	actx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	target := g.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, c.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", c.method, c.path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, c.method, c.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, c.method, c.path, err)
	}

	g.log.Debug(ctx, "gateway call", "method", c.method, "path", c.path,
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", c.method, c.path, err)
	}
	return nil
}

func seg(s string) string { return url.PathEscape(s) }

func id(n int64) string { return strconv.FormatInt(n, 10) }

// Ping probes the health endpoint and fails with ErrUnavailable unless the
// gateway reports UP.
func (g *HTTPGateway) Ping(ctx context.Context) error {
	var raw json.RawMessage
	if err := g.attempt(ctx, call{method: http.MethodGet, path: common.HealthPath}, nil, &raw); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if s := gjson.GetBytes(raw, "status").String(); s != common.HealthStatusUp {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, s)
	}
	return nil
}

func (g *HTTPGateway) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// Users

func (g *HTTPGateway) RegisterUser(ctx context.Context, req models.UserRegistrationRequest) (*models.User, error) {
	return one[models.User](ctx, g, call{method: http.MethodPost, path: "/api/users/register", body: req})
}

func (g *HTTPGateway) LoginUser(ctx context.Context, req models.UserLoginRequest) (*models.User, error) {
	return one[models.User](ctx, g, call{method: http.MethodPost, path: "/api/users/login", body: req})
}

func (g *HTTPGateway) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return one[models.User](ctx, g, get("/api/users/"+id(userID)))
}

func (g *HTTPGateway) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return one[models.User](ctx, g, get("/api/users/username/"+seg(username)))
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, userID int64, req models.UserUpdateRequest) (*models.User, error) {
	return one[models.User](ctx, g, call{method: http.MethodPut, path: "/api/users/" + id(userID), body: req})
}

// Accounts

func (g *HTTPGateway) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	return one[models.Account](ctx, g, call{method: http.MethodPost, path: "/api/accounts", body: req})
}

func (g *HTTPGateway) AccountByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	return one[models.Account](ctx, g, get("/api/accounts/"+id(userID)))
}

func (g *HTTPGateway) AccountByUPI(ctx context.Context, upiID string) (*models.Account, error) {
	return one[models.Account](ctx, g, get("/api/accounts/upi/"+seg(upiID)))
}

func (g *HTTPGateway) BalanceByUPI(ctx context.Context, upiID string) (*models.BalanceResponse, error) {
	return one[models.BalanceResponse](ctx, g, get("/api/accounts/upi/"+seg(upiID)+"/balance"))
}

func (g *HTTPGateway) UpdateBalance(ctx context.Context, upiID string, req models.BalanceUpdateRequest) (*models.BalanceResponse, error) {
	return one[models.BalanceResponse](ctx, g,
		call{method: http.MethodPut, path: "/api/accounts/upi/" + seg(upiID) + "/balance", body: req})
}

func (g *HTTPGateway) ValidateUPI(ctx context.Context, upiID string) (bool, error) {
	var ok bool
	if err := g.do(ctx, get("/api/accounts/validate/"+seg(upiID)), &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Transactions

func (g *HTTPGateway) Transfer(ctx context.Context, req models.TransferRequest) (*models.Transaction, error) {
	return one[models.Transaction](ctx, g, call{method: http.MethodPost, path: "/api/transactions/transfer", body: req})
}

func (g *HTTPGateway) TransactionByID(ctx context.Context, txID int64) (*models.Transaction, error) {
	return one[models.Transaction](ctx, g, get("/api/transactions/"+id(txID)))
}

func (g *HTTPGateway) TransactionByRef(ctx context.Context, ref string) (*models.Transaction, error) {
	return one[models.Transaction](ctx, g, get("/api/transactions/reference/"+seg(ref)))
}

func (g *HTTPGateway) History(ctx context.Context, upiID string) ([]models.Transaction, error) {
	return many[models.Transaction](ctx, g, get("/api/transactions/user/"+seg(upiID)))
}

func (g *HTTPGateway) Sent(ctx context.Context, upiID string) ([]models.Transaction, error) {
	return many[models.Transaction](ctx, g, get("/api/transactions/user/"+seg(upiID)+"/sent"))
}

func (g *HTTPGateway) Received(ctx context.Context, upiID string) ([]models.Transaction, error) {
	return many[models.Transaction](ctx, g, get("/api/transactions/user/"+seg(upiID)+"/received"))
}

func (g *HTTPGateway) Recent(ctx context.Context, upiID string, limit int) ([]models.Transaction, error) {
	c := get("/api/transactions/user/" + seg(upiID) + "/recent")
	c.query = url.Values{"limit": {strconv.Itoa(limit)}}
	return many[models.Transaction](ctx, g, c)
}

func (g *HTTPGateway) Filtered(ctx context.Context, upiID string, f models.TransactionFilter) ([]models.Transaction, error) {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	c := get("/api/transactions/user/" + seg(upiID) + "/filter")
	c.query = q
	return many[models.Transaction](ctx, g, c)
}

func (g *HTTPGateway) Count(ctx context.Context, upiID string) (int64, error) {
	var n int64
	if err := g.do(ctx, get("/api/transactions/user/"+seg(upiID)+"/count"), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Utilities

const utilities = "/api/utilities"

func (g *HTTPGateway) Categories(ctx context.Context) ([]models.PaymentCategory, error) {
	return many[models.PaymentCategory](ctx, g, get(utilities+"/categories"))
}

func (g *HTTPGateway) MobileOperators(ctx context.Context) ([]models.PaymentCategory, error) {
	return many[models.PaymentCategory](ctx, g, get(utilities+"/recharge/mobile/operators"))
}

func (g *HTTPGateway) MobilePlans(ctx context.Context, operatorCode string) ([]models.RechargePlan, error) {
	return many[models.RechargePlan](ctx, g, get(utilities+"/recharge/mobile/plans/"+seg(operatorCode)))
}

func (g *HTTPGateway) RechargeMobile(ctx context.Context, req models.MobileRechargeRequest) (*models.UtilityPaymentResponse, error) {
	return one[models.UtilityPaymentResponse](ctx, g, call{method: http.MethodPost, path: utilities + "/recharge/mobile", body: req})
}

func (g *HTTPGateway) DTHOperators(ctx context.Context) ([]models.PaymentCategory, error) {
	return many[models.PaymentCategory](ctx, g, get(utilities+"/recharge/dth/operators"))
}

// DTHPlans lists plans for a subscriber, or the operator defaults when
// subscriberID is empty.
func (g *HTTPGateway) DTHPlans(ctx context.Context, operatorCode, subscriberID string) ([]models.RechargePlan, error) {
	if subscriberID == "" {
		subscriberID = "default"
	}
	return many[models.RechargePlan](ctx, g,
		get(utilities+"/recharge/dth/plans/"+seg(operatorCode)+"/"+seg(subscriberID)))
}

func (g *HTTPGateway) RechargeDTH(ctx context.Context, req models.DTHRechargeRequest) (*models.UtilityPaymentResponse, error) {
	return one[models.UtilityPaymentResponse](ctx, g, call{method: http.MethodPost, path: utilities + "/recharge/dth", body: req})
}

func (g *HTTPGateway) ElectricityProviders(ctx context.Context) ([]models.PaymentCategory, error) {
	return many[models.PaymentCategory](ctx, g, get(utilities+"/bills/electricity/providers"))
}

func (g *HTTPGateway) FetchElectricityBill(ctx context.Context, providerCode, consumerNumber string) (*models.BillDetails, error) {
	c := get(utilities + "/bills/electricity/fetch")
	c.query = url.Values{"providerCode": {providerCode}, "consumerNumber": {consumerNumber}}
	return one[models.BillDetails](ctx, g, c)
}

func (g *HTTPGateway) PayElectricity(ctx context.Context, req models.ElectricityBillPaymentRequest) (*models.UtilityPaymentResponse, error) {
	return one[models.UtilityPaymentResponse](ctx, g, call{method: http.MethodPost, path: utilities + "/bills/electricity", body: req})
}

func (g *HTTPGateway) CreditCardIssuers(ctx context.Context) ([]models.PaymentCategory, error) {
	return many[models.PaymentCategory](ctx, g, get(utilities+"/bills/credit-card/issuers"))
}

func (g *HTTPGateway) PayCreditCard(ctx context.Context, req models.CreditCardPaymentRequest) (*models.UtilityPaymentResponse, error) {
	return one[models.UtilityPaymentResponse](ctx, g, call{method: http.MethodPost, path: utilities + "/bills/credit-card", body: req})
}

func (g *HTTPGateway) PayInsurance(ctx context.Context, req models.InsurancePremiumRequest) (*models.UtilityPaymentResponse, error) {
	return one[models.UtilityPaymentResponse](ctx, g, call{method: http.MethodPost, path: utilities + "/bills/insurance", body: req})
}

func (g *HTTPGateway) Payments(ctx context.Context, userID int64) ([]models.PaymentHistory, error) {
	return many[models.PaymentHistory](ctx, g, get(utilities+"/payments/"+id(userID)))
}

func (g *HTTPGateway) PaymentsByCategory(ctx context.Context, userID int64, category string) ([]models.PaymentHistory, error) {
	return many[models.PaymentHistory](ctx, g, get(utilities+"/payments/"+id(userID)+"/"+seg(category)))
}

func (g *HTTPGateway) PaymentsByDateRange(ctx context.Context, userID int64, start, end string) ([]models.PaymentHistory, error) {
	c := get(utilities + "/payments/" + id(userID) + "/daterange")
	c.query = url.Values{"startDate": {start}, "endDate": {end}}
	return many[models.PaymentHistory](ctx, g, c)
}

func (g *HTTPGateway) Payment(ctx context.Context, transactionID int64) (*models.PaymentHistory, error) {
	return one[models.PaymentHistory](ctx, g, get(utilities+"/payments/transaction/"+id(transactionID)))
}

// Receipt is a POST on the wire but produces no side effect the backend
// cannot repeat, so it is retried like a read.
func (g *HTTPGateway) Receipt(ctx context.Context, transactionID int64) (*models.PaymentReceipt, error) {
	return one[models.PaymentReceipt](ctx, g, call{
		method:     http.MethodPost,
		path:       utilities + "/payments/" + id(transactionID) + "/receipt",
		body:       struct{}{},
		idempotent: true,
	})
}

// Billers

const billers = utilities + "/billers"

func (g *HTTPGateway) SaveBiller(ctx context.Context, b models.SavedBiller) (*models.SavedBiller, error) {
	return one[models.SavedBiller](ctx, g, call{method: http.MethodPost, path: billers, body: b})
}

func (g *HTTPGateway) Billers(ctx context.Context, userID int64) ([]models.SavedBiller, error) {
	return many[models.SavedBiller](ctx, g, get(billers+"/"+id(userID)))
}

func (g *HTTPGateway) BillersByCategory(ctx context.Context, userID int64, category string) ([]models.SavedBiller, error) {
	return many[models.SavedBiller](ctx, g, get(billers+"/"+id(userID)+"/category/"+seg(category)))
}

func (g *HTTPGateway) UpdateBiller(ctx context.Context, billerID int64, b models.SavedBiller) (*models.SavedBiller, error) {
	return one[models.SavedBiller](ctx, g, call{method: http.MethodPut, path: billers + "/" + id(billerID), body: b})
}

func (g *HTTPGateway) DeleteBiller(ctx context.Context, billerID int64) error {
	return g.do(ctx, call{method: http.MethodDelete, path: billers + "/" + id(billerID)}, nil)
}

func one[T any](ctx context.Context, g *HTTPGateway, c call) (*T, error) {
	var v T
	if err := g.do(ctx, c, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func many[T any](ctx context.Context, g *HTTPGateway, c call) ([]T, error) {
	var v []T
	if err := g.do(ctx, c, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var _ Gateway = (*HTTPGateway)(nil)
