package cli

import (
	"errors"
	"sort"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
)

// report prints err the way a user should see it: one line per invalid
// field, the backend's message for API errors, a hint for the rest.
func (a *App) report(err error) {
	var verr *validation.Error
	var aerr *client.APIError

	switch {
	case errors.As(err, &verr):
		a.printFields(verr.Fields, false)
	case errors.As(err, &aerr):
		a.println("Error:", aerr.Error())
		a.printFields(aerr.FieldErrors, true)
	case errors.Is(err, client.ErrUnavailable):
		a.println("Gateway unavailable, try again later")
	case errors.Is(err, session.ErrNoCurrentUser):
		a.println("Please login first")
	case errors.Is(err, session.ErrNoCurrentAccount):
		a.println("No account yet, run 'setup' first")
	default:
		a.println("Error:", err.Error())
	}
}

// printFields lists messages sorted by field. Backend messages do not name
// their field, so withKey prefixes it.
func (a *App) printFields(fields map[string]string, withKey bool) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if withKey {
			a.printf("  - %s: %s\n", k, fields[k])
			continue
		}
		a.println("  -", fields[k])
	}
}
