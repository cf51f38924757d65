package cli

import (
	"context"
)

// Run greets the user, starts the connectivity and account watchers and
// blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to UPI Wallet CLI (type 'help' for commands)")
	a.checkOnline(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.StartAccountWatcher(ctx)

	if u := a.svc.Users.Current(); u != nil {
		a.printf("Logged in as %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out, interactive())
}
