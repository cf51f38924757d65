package cli

import (
	"context"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/services"
)

// getSimpleText and getAmount are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getAmount     = GetAmount
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) askAmount(prompt string) (float64, error) {
	return getAmount(a.reader, prompt, a.out)
}

// Register prompts for the registration fields and creates the user. It
// does not log in.
func (a *App) Register(ctx context.Context) error {
	var form services.RegisterForm
	var err error
	if form.Username, err = a.ask("Enter username"); err != nil {
		return err
	}
	if form.Email, err = a.ask("Enter email"); err != nil {
		return err
	}
	if form.Phone, err = a.ask("Enter phone"); err != nil {
		return err
	}
	if form.FullName, err = a.ask("Enter full name"); err != nil {
		return err
	}

	u, err := a.svc.Users.Register(ctx, form)
	if err != nil {
		return err
	}
	a.printf("Registered %s, now run 'login'\n", u.Username)
	return nil
}

// Login logs in by username, email or phone. A user without an account is
// sent to setup.
func (a *App) Login(ctx context.Context) error {
	id, err := a.ask("Enter username, email or phone")
	if err != nil {
		return err
	}

	res, err := a.svc.Users.Login(ctx, services.LoginForm{Identifier: id})
	if err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", res.User.FullName)

	if res.NeedsSetup {
		a.println("You have no account yet, let's create one.")
		return a.Setup(ctx)
	}
	return a.Dashboard(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.svc.Users.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u, err := a.svc.Users.Profile(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

// EditProfile asks for each mutable field, keeping the current value on an
// empty answer.
func (a *App) EditProfile(ctx context.Context) error {
	cur := a.svc.Users.Current()
	if cur == nil {
		return nil
	}
	form := services.ProfileForm{Email: cur.Email, Phone: cur.Phone, FullName: cur.FullName}

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Email [" + cur.Email + "]", &form.Email},
		{"Phone [" + cur.Phone + "]", &form.Phone},
		{"Full name [" + cur.FullName + "]", &form.FullName},
	} {
		v, err := a.ask(f.prompt)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	u, err := a.svc.Users.UpdateProfile(ctx, form)
	if err != nil {
		return err
	}
	a.println("Profile updated")
	a.printUser(u)
	return nil
}

func (a *App) printUser(u *models.User) {
	a.printf("Username:  %s\n", u.Username)
	a.printf("Full name: %s\n", u.FullName)
	a.printf("Email:     %s\n", u.Email)
	a.printf("Phone:     %s\n", u.Phone)
}
