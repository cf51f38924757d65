package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/upiwallet/internal/client/config"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/services"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// Pinger reports whether the gateway answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AccountWatcher streams current-account changes; *session.Store is one.
type AccountWatcher interface {
	WatchAccount() (<-chan *models.Account, func())
}

// Deps are the services the App drives.
type Deps struct {
	Users     services.UserService
	Accounts  services.AccountService
	Transfers services.TransferService
	Utilities services.UtilityService
	Billers   services.BillerService
	Watcher   AccountWatcher
	Pinger    Pinger
	Log       logging.Logger
}

type App struct {
	config *config.Config
	svc    Deps

	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	mode    Mode
	account *models.Account
}

func NewApp(c *config.Config, d Deps, in io.Reader, out io.Writer) *App {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	return &App{config: c, svc: d, reader: bufio.NewReader(in), out: out}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Mode returns the last connectivity state seen by the watcher.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.svc.Log.Info(context.Background(), "connectivity changed", "mode", string(mode))
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.svc.Users.Current() != nil
}

// checkOnline pings once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.svc.Pinger.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the gateway every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// StartAccountWatcher keeps the prompt's cached account in step with the
// session store until ctx is done or the store closes.
func (a *App) StartAccountWatcher(ctx context.Context) {
	ch, cancel := a.svc.Watcher.WatchAccount()
	defer cancel()

	for {
		select {
		case acc, ok := <-ch:
			if !ok {
				return
			}
			a.mu.Lock()
			a.account = acc
			a.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// getStatus renders "(user ₹balance mode)" for the prompt, leaving out the
// parts that are unknown.
func (a *App) getStatus() string {
	a.mu.Lock()
	acc, mode := a.account, a.mode
	a.mu.Unlock()

	s := ""
	if u := a.svc.Users.Current(); u != nil {
		s = u.Username + " "
	}
	if acc != nil {
		s += FormatRupees(acc.Balance) + " "
	}
	s += string(mode)
	if s == "" {
		return ""
	}
	return "(" + strings.TrimSpace(s) + ")"
}
