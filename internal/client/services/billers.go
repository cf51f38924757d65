package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/upiwallet/internal/client/client"
	"github.com/dmitrijs2005/upiwallet/internal/client/models"
	"github.com/dmitrijs2005/upiwallet/internal/client/validation"
	"github.com/dmitrijs2005/upiwallet/internal/logging"
)

type BillerForm struct {
	CategoryID        int64  `label:"Category" validate:"required"`
	ProviderID        int64  `label:"Provider" validate:"required"`
	AccountIdentifier string `label:"Account identifier" validate:"required,max=100"`
	Nickname          string `label:"Nickname" validate:"required,max=50"`
	AccountHolderName string `label:"Account holder" validate:"max=100"`
}

// BillerService manages saved billers. The last listing is cached and
// refetched after every mutation.
type BillerService interface {
	Save(ctx context.Context, form BillerForm) (*models.SavedBiller, error)
	List(ctx context.Context) ([]models.SavedBiller, error)
	ByCategory(ctx context.Context, category string) ([]models.SavedBiller, error)
	Update(ctx context.Context, id int64, form BillerForm) (*models.SavedBiller, error)
	Delete(ctx context.Context, id int64) error
	Cached() []models.SavedBiller
}

type billerService struct {
	billers client.BillerAPI
	session Session
	v       *validation.Validator
	log     logging.Logger

	mu    sync.Mutex
	cache []models.SavedBiller
}

func NewBillerService(billers client.BillerAPI, s Session, v *validation.Validator, log logging.Logger) BillerService {
	return &billerService{billers: billers, session: s, v: v, log: log}
}

func (b *billerService) biller(userID int64, form BillerForm) models.SavedBiller {
	return models.SavedBiller{
		UserID:            userID,
		CategoryID:        form.CategoryID,
		ProviderID:        form.ProviderID,
		AccountIdentifier: form.AccountIdentifier,
		Nickname:          form.Nickname,
		AccountHolderName: form.AccountHolderName,
	}
}

func (b *billerService) Save(ctx context.Context, form BillerForm) (*models.SavedBiller, error) {
	user, err := b.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := b.v.Struct(form); err != nil {
		return nil, err
	}
	saved, err := b.billers.SaveBiller(ctx, b.biller(user.ID, form))
	if err != nil {
		return nil, fmt.Errorf("save biller: %w", err)
	}
	b.refresh(ctx, user.ID)
	return saved, nil
}

func (b *billerService) List(ctx context.Context) ([]models.SavedBiller, error) {
	user, err := b.session.RequireUser()
	if err != nil {
		return nil, err
	}
	list, err := b.billers.Billers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list billers: %w", err)
	}
	b.store(list)
	return list, nil
}

func (b *billerService) ByCategory(ctx context.Context, category string) ([]models.SavedBiller, error) {
	user, err := b.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := b.v.Var(category, "required", "Category"); err != nil {
		return nil, err
	}
	return b.billers.BillersByCategory(ctx, user.ID, category)
}

func (b *billerService) Update(ctx context.Context, id int64, form BillerForm) (*models.SavedBiller, error) {
	user, err := b.session.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := b.v.Struct(form); err != nil {
		return nil, err
	}
	updated, err := b.billers.UpdateBiller(ctx, id, b.biller(user.ID, form))
	if err != nil {
		return nil, fmt.Errorf("update biller %d: %w", id, err)
	}
	b.refresh(ctx, user.ID)
	return updated, nil
}

func (b *billerService) Delete(ctx context.Context, id int64) error {
	user, err := b.session.RequireUser()
	if err != nil {
		return err
	}
	if err := b.billers.DeleteBiller(ctx, id); err != nil {
		return fmt.Errorf("delete biller %d: %w", id, err)
	}
	b.refresh(ctx, user.ID)
	return nil
}

// Cached returns a copy of the last fetched listing.
func (b *billerService) Cached() []models.SavedBiller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SavedBiller(nil), b.cache...)
}

func (b *billerService) store(list []models.SavedBiller) {
	b.mu.Lock()
	b.cache = append([]models.SavedBiller(nil), list...)
	b.mu.Unlock()
}

// refresh refetches the listing after a mutation. The mutation already
// succeeded, so a failure only logs.
func (b *billerService) refresh(ctx context.Context, userID int64) {
	list, err := b.billers.Billers(ctx, userID)
	if err != nil {
		b.log.Warn(ctx, "biller cache refresh failed", "user_id", userID, "error", err)
		return
	}
	b.store(list)
}
