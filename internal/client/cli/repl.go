package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error

	Setup(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Balance(ctx context.Context) error

	Transfer(ctx context.Context) error
	History(ctx context.Context, args string) error
	Tx(ctx context.Context, ref string) error

	Recharge(ctx context.Context) error
	DTH(ctx context.Context) error
	Electricity(ctx context.Context) error
	Card(ctx context.Context) error
	Insurance(ctx context.Context) error
	Payments(ctx context.Context, category string) error
	Receipt(ctx context.Context, id string) error

	Billers(ctx context.Context) error
	AddBiller(ctx context.Context) error
	DelBiller(ctx context.Context, id string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: dashboard, balance, setup, transfer, history [sent|received] [key=value ...], tx <ref>,\n" +
		"  recharge, dth, electricity, card, insurance, payments [category], receipt <id>,\n" +
		"  billers, addbiller, delbiller <id>, profile, editprofile, logout, exit"
)

// runREPL reads commands from r and dispatches them to a until EOF,
// "exit" or "quit". The prompt, drawn only when showPrompt is set, carries
// statusFn's output.
//
// Commands that need a logged-in user answer "Please login first" without
// reaching a. Handler errors go to a.report and never end the loop.
//
// r is shared with the command prompts, so it must be the reader the
// handlers read their answers from.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader,
	w io.Writer, showPrompt bool) {
	for {
		if showPrompt {
			fmt.Fprintf(w, "upi %s> ", statusFn())
		}
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
			continue

		case "register", "login":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Already logged in, run 'logout' first")
				continue
			}
			if cmd == "register" {
				err = a.Register(ctx)
			} else {
				err = a.Login(ctx)
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			if !known(cmd) {
				fmt.Fprintln(w, "Unknown command:", cmd)
				continue
			}
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			err = dispatch(ctx, a, cmd, arg, w)
		}

		if err != nil {
			a.report(err)
		}
	}
}

var sessionCommands = map[string]bool{
	"logout": true, "profile": true, "editprofile": true,
	"setup": true, "dashboard": true, "balance": true,
	"transfer": true, "history": true, "tx": true,
	"recharge": true, "dth": true, "electricity": true, "card": true, "insurance": true,
	"payments": true, "receipt": true,
	"billers": true, "addbiller": true, "delbiller": true,
}

func known(cmd string) bool { return sessionCommands[cmd] }

func dispatch(ctx context.Context, a execIface, cmd, arg string, w io.Writer) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "editprofile":
		return a.EditProfile(ctx)
	case "setup":
		return a.Setup(ctx)
	case "dashboard":
		return a.Dashboard(ctx)
	case "balance":
		return a.Balance(ctx)
	case "transfer":
		return a.Transfer(ctx)
	case "history":
		return a.History(ctx, arg)
	case "tx":
		if arg == "" {
			fmt.Fprintln(w, "Usage: tx <ref>")
			return nil
		}
		return a.Tx(ctx, arg)
	case "recharge":
		return a.Recharge(ctx)
	case "dth":
		return a.DTH(ctx)
	case "electricity":
		return a.Electricity(ctx)
	case "card":
		return a.Card(ctx)
	case "insurance":
		return a.Insurance(ctx)
	case "payments":
		return a.Payments(ctx, arg)
	case "receipt":
		if arg == "" {
			fmt.Fprintln(w, "Usage: receipt <id>")
			return nil
		}
		return a.Receipt(ctx, arg)
	case "billers":
		return a.Billers(ctx)
	case "addbiller":
		return a.AddBiller(ctx)
	case "delbiller":
		if arg == "" {
			fmt.Fprintln(w, "Usage: delbiller <id>")
			return nil
		}
		return a.DelBiller(ctx, arg)
	}
	return nil
}
