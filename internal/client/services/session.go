package services

import (
	"context"

	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/session"
)

// Session is the part of *session.Store the services rely on.
type Session interface {
	CurrentUser() *models.User
	RequireUser() (*models.User, error)
	SetCurrentUser(ctx context.Context, u *models.User) error
	Logout(ctx context.Context) error

	CurrentAccount(ctx context.Context) (*models.Account, error)
	SetCurrentAccount(ctx context.Context, a *models.Account) error
	ClearCurrentAccount(ctx context.Context) error
	RefreshCurrentAccountBalance(ctx context.Context) (*models.Account, error)

	LegacyUserID(ctx context.Context) (int64, bool, error)
}

func requireAccount(ctx context.Context, s Session) (*models.Account, error) {
	acc, err := s.CurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, session.ErrNoCurrentAccount
	}
	return acc, nil
}

var _ Session = (*session.Store)(nil)
