package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/repositories/history"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

type RegisterForm struct {
	Username string `label:"Username" validate:"required,min=3,max=50,username"`
	Email    string `label:"Email" validate:"required,email"`
	Phone    string `label:"Phone" validate:"required,phone"`
	FullName string `label:"Full name" validate:"required,min=2,max=100"`
}

type LoginForm struct {
	Identifier string `label:"Username, email or phone" validate:"required"`
}

type ProfileForm struct {
	Email    string `label:"Email" validate:"required,email"`
	Phone    string `label:"Phone" validate:"required,phone"`
	FullName string `label:"Full name" validate:"required,min=2,max=100"`
}

// LoginResult is the session after login. NeedsSetup is set when the
// backend holds no account for the user yet.
type LoginResult struct {
	User       *models.User
	Account    *models.Account
	NeedsSetup bool
}

// UserService covers registration, login, profile and logout.
//
// Contract:
//   - Login stores the user, then looks up the account. A missing account
//     clears any stale one and reports NeedsSetup.
//   - UpdateProfile and Profile write the returned user back to the session.
//   - Logout clears the account, the user and the cached history.
type UserService interface {
	Register(ctx context.Context, form RegisterForm) (*models.User, error)
	Login(ctx context.Context, form LoginForm) (*LoginResult, error)
	Current() *models.User
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, form ProfileForm) (*models.User, error)
	Logout(ctx context.Context) error
}

type userService struct {
	users    client.UserAPI
	accounts client.AccountAPI
	session  Session
	history  history.Repository
	v        *validation.Validator
	log      logging.Logger
}

func NewUserService(users client.UserAPI, accounts client.AccountAPI, s Session,
	h history.Repository, v *validation.Validator, log logging.Logger) UserService {
	return &userService{users: users, accounts: accounts, session: s, history: h, v: v, log: log}
}

func (u *userService) Register(ctx context.Context, form RegisterForm) (*models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := u.v.Struct(form); err != nil {
		return nil, err
	}

	user, err := u.users.RegisterUser(ctx, models.UserRegistrationRequest(form))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	u.log.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (u *userService) Login(ctx context.Context, form LoginForm) (*LoginResult, error) {
	form.Identifier = strings.TrimSpace(form.Identifier)
	if err := u.v.Struct(form); err != nil {
		return nil, err
	}

	user, err := u.users.LoginUser(ctx, models.UserLoginRequest{Identifier: form.Identifier})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := u.session.SetCurrentUser(ctx, user); err != nil {
		return nil, err
	}
	res := &LoginResult{User: user}

	acc, err := u.accounts.AccountByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, client.ErrNotFound):
		if err := u.session.ClearCurrentAccount(ctx); err != nil {
			return nil, err
		}
		res.NeedsSetup = true
	case err != nil:
		// Any held account may belong to a previous user. The dashboard
		// loads it again, so login still succeeds.
		if err := u.session.ClearCurrentAccount(ctx); err != nil {
			return nil, err
		}
		u.log.Warn(ctx, "account lookup after login failed", "user_id", user.ID, "error", err)
	default:
		if err := u.session.SetCurrentAccount(ctx, acc); err != nil {
			return nil, err
		}
		res.Account = acc
	}
	return res, nil
}

func (u *userService) Current() *models.User {
	return u.session.CurrentUser()
}

func (u *userService) Profile(ctx context.Context) (*models.User, error) {
	cur, err := u.session.RequireUser()
	if err != nil {
		return nil, err
	}
	fresh, err := u.users.GetUser(ctx, cur.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := u.session.SetCurrentUser(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (u *userService) UpdateProfile(ctx context.Context, form ProfileForm) (*models.User, error) {
	cur, err := u.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := u.v.Struct(form); err != nil {
		return nil, err
	}

	updated, err := u.users.UpdateUser(ctx, cur.ID, models.UserUpdateRequest(form))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := u.session.SetCurrentUser(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *userService) Logout(ctx context.Context) error {
	return errors.Join(
		u.session.ClearCurrentAccount(ctx),
		u.session.Logout(ctx),
		u.history.Clear(ctx),
	)
}
