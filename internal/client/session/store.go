package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

// Durable storage keys.
const (
	KeyCurrentUser    = "currentUser"
	KeyCurrentAccount = "currentAccount"
	// KeyLegacyUserID is never written by the store. Older installs seeded
	// it directly; LegacyUserID reads it.
	KeyLegacyUserID = "userId"
)

var (
	ErrNoCurrentUser    = errors.New("no current user")
	ErrNoCurrentAccount = errors.New("no current account found")
)

// BalanceSource fetches the authoritative balance for a UPI id.
type BalanceSource interface {
	BalanceByUPI(ctx context.Context, upiID string) (*models.BalanceResponse, error)
}

type Option func(*Store)

// WithOrderedRefresh makes the store drop balance refresh results that
// were issued before the last applied mutation.
func WithOrderedRefresh() Option {
	return func(s *Store) { s.ordered = true }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store is safe for concurrent use.
type Store struct {
	repo     keyvalue.Repository
	balances BalanceSource
	log      logging.Logger
	ordered  bool

	mu       sync.Mutex
	user     *models.User
	account  *models.Account
	hydrated bool
	// seq is the last ticket handed out; applied is the ticket of the
	// mutation currently reflected in account.
	seq     uint64
	applied uint64

	users    *broadcaster[*models.User]
	accounts *broadcaster[*models.Account]
}

// NewStore builds a Store over repo and loads the persisted user.
func NewStore(ctx context.Context, repo keyvalue.Repository, balances BalanceSource, opts ...Option) (*Store, error) {
	s := &Store{
		repo:     repo,
		balances: balances,
		log:      logging.Nop(),
		users:    newBroadcaster((*models.User).Clone),
		accounts: newBroadcaster((*models.Account).Clone),
	}
	for _, o := range opts {
		o(s)
	}

	var u models.User
	found, err := s.load(ctx, KeyCurrentUser, &u)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	if found {
		s.user = &u
	}
	return s, nil
}

// load decodes key into v. A missing or undecodable value reports false.
func (s *Store) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.log.Warn(ctx, "discarding unreadable session value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.repo.Set(ctx, key, raw)
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// RequireUser is CurrentUser that fails with ErrNoCurrentUser instead of
// returning nil.
func (s *Store) RequireUser() (*models.User, error) {
	if u := s.CurrentUser(); u != nil {
		return u, nil
	}
	return nil, ErrNoCurrentUser
}

// SetCurrentUser persists u and publishes it. A nil u is a Logout.
func (s *Store) SetCurrentUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.Logout(ctx)
	}
	u = u.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, KeyCurrentUser, u); err != nil {
		return fmt.Errorf("persist current user: %w", err)
	}
	s.user = u
	s.users.publish(u)
	return nil
}

// Logout forgets the user in both tiers. The account is left alone.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	s.user = nil
	s.users.publish(nil)
	return nil
}

// CurrentAccount returns a copy of the current account, or nil.
func (s *Store) CurrentAccount(ctx context.Context) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.currentAccountLocked(ctx)
	if err != nil {
		return nil, err
	}
	return acc.Clone(), nil
}

func (s *Store) currentAccountLocked(ctx context.Context) (*models.Account, error) {
	if s.account != nil || s.hydrated {
		return s.account, nil
	}

	var acc models.Account
	found, err := s.load(ctx, KeyCurrentAccount, &acc)
	if err != nil {
		return nil, fmt.Errorf("load current account: %w", err)
	}
	s.hydrated = true
	if found {
		s.account = &acc
		s.accounts.publish(s.account)
	}
	return s.account, nil
}

// SetCurrentAccount persists a and publishes it. A nil a is a
// ClearCurrentAccount.
func (s *Store) SetCurrentAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return s.ClearCurrentAccount(ctx)
	}
	a = a.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, KeyCurrentAccount, a); err != nil {
		return fmt.Errorf("persist current account: %w", err)
	}
	s.seq++
	s.applied = s.seq
	s.account = a
	s.hydrated = true
	s.accounts.publish(a)
	return nil
}

// ClearCurrentAccount forgets the account in both tiers.
func (s *Store) ClearCurrentAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, KeyCurrentAccount); err != nil {
		return fmt.Errorf("clear current account: %w", err)
	}
	s.seq++
	s.applied = s.seq
	s.account = nil
	s.hydrated = false
	s.accounts.publish(nil)
	return nil
}

// RefreshCurrentAccountBalance fetches the balance of the current account
// and stores a copy of the account with that balance. It fails with
// ErrNoCurrentAccount before contacting the gateway when no account is
// held, and returns gateway errors as is.
//
// The lock is not held during the gateway call. In ordered mode a result
// that lost the race to a newer mutation is dropped and the account now
// held is returned.
func (s *Store) RefreshCurrentAccountBalance(ctx context.Context) (*models.Account, error) {
	s.mu.Lock()
	acc, err := s.currentAccountLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if acc == nil {
		s.mu.Unlock()
		return nil, ErrNoCurrentAccount
	}
	snapshot := acc.Clone()
	s.seq++
	ticket := s.seq
	s.mu.Unlock()

	resp, err := s.balances.BalanceByUPI(ctx, snapshot.UPIID)
	if err != nil {
		return nil, err
	}
	updated := snapshot.WithBalance(resp.Balance)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ordered && ticket < s.applied {
		s.log.Debug(ctx, "dropping stale balance", "upi_id", snapshot.UPIID,
			"ticket", ticket, "applied", s.applied)
		if s.account == nil {
			return nil, ErrNoCurrentAccount
		}
		return s.account.Clone(), nil
	}

	if err := s.save(ctx, KeyCurrentAccount, updated); err != nil {
		return nil, fmt.Errorf("persist refreshed account: %w", err)
	}
	s.account = updated
	s.hydrated = true
	if ticket > s.applied {
		s.applied = ticket
	}
	s.accounts.publish(updated)
	return updated.Clone(), nil
}

// LegacyUserID reads the user id that older installs kept under
// KeyLegacyUserID. ok is false when the key is absent or not a number.
func (s *Store) LegacyUserID(ctx context.Context) (id int64, ok bool, err error) {
	raw, err := s.repo.Get(ctx, KeyLegacyUserID)
	if err != nil {
		return 0, false, fmt.Errorf("load legacy user id: %w", err)
	}
	if raw == nil {
		return 0, false, nil
	}
	id, perr := strconv.ParseInt(strings.Trim(string(raw), "\" \n"), 10, 64)
	if perr != nil {
		s.log.Warn(ctx, "ignoring malformed legacy user id", "value", string(raw))
		return 0, false, nil
	}
	return id, true, nil
}

// WatchUser subscribes to user changes. The channel starts with the
// current user; call cancel to unsubscribe.
func (s *Store) WatchUser() (<-chan *models.User, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.subscribe(s.user)
}

// WatchAccount subscribes to account changes. The channel starts with the
// account held in memory, which is nil until the first CurrentAccount call
// if nothing was set yet.
func (s *Store) WatchAccount() (<-chan *models.Account, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.subscribe(s.account)
}

// Close ends every watch subscription.
func (s *Store) Close() {
	s.users.closeAll()
	s.accounts.closeAll()
}
