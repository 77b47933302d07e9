package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glowify-backend/internal/domain"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"
)

const (
	maxProfileNameLength = 100
	maxAddressLength     = 500
)

type ProfileUsecase struct {
	profileRepo domain.ProfileRepository
	orderRepo   domain.OrderRepository
	cartRepo    domain.CartRepository
	catalog     *CatalogUsecase
	txManager   domain.TransactionManager
	now         func() time.Time
}

func NewProfileUsecase(profileRepo domain.ProfileRepository, orderRepo domain.OrderRepository, cartRepo domain.CartRepository, catalog *CatalogUsecase, txManager domain.TransactionManager) *ProfileUsecase {
	return &ProfileUsecase{
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		catalog:     catalog,
		txManager:   txManager,
		now:         time.Now,
	}
}

// Me is the account summary shown in the storefront header.
type Me struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	IsAdmin     bool            `json:"isAdmin"`
	DisplayName string          `json:"displayName"`
	Profile     *domain.Profile `json:"profile"`
}

func (u *ProfileUsecase) GetMe(ctx context.Context, user *domain.User) (*Me, error) {
	profile, err := u.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	me := &Me{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		IsAdmin:     user.IsAdmin(),
		DisplayName: user.DisplayName(),
		Profile:     profile,
	}
	if profile != nil && profile.Name != "" {
		me.DisplayName = profile.Name
	}
	return me, nil
}

// GetProfile returns nil when the user has not saved anything yet.
func (u *ProfileUsecase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := u.profileRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// UpdateProfileRequest leaves fields that are omitted unchanged. An empty
// string clears the field.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Birthdate *string `json:"birthdate"`
}

func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	var name, birthdate string
	if req.Name != nil {
		name = utils.NormalizeSpace(*req.Name)
		if len(name) > maxProfileNameLength {
			return nil, domain.InvalidInput("name cannot exceed %d characters", maxProfileNameLength)
		}
	}
	if req.Birthdate != nil {
		birthdate = strings.TrimSpace(*req.Birthdate)
		if birthdate != "" {
			t, err := time.Parse(time.DateOnly, birthdate)
			if err != nil {
				return nil, domain.InvalidInput("birthdate must use the format YYYY-MM-DD")
			}
			if t.After(u.now()) {
				return nil, domain.InvalidInput("birthdate cannot be in the future")
			}
		}
	}

	return u.upsert(ctx, userID, func(p *domain.Profile) {
		if req.Name != nil {
			p.Name = name
		}
		if req.Birthdate != nil {
			p.Birthdate = birthdate
		}
	})
}

func (u *ProfileUsecase) UpdateDefaultAddress(ctx context.Context, userID string, req domain.DefaultAddress) (*domain.Profile, error) {
	if !req.Type.Valid() {
		return nil, domain.InvalidInput("address type must be Home, Office or Other")
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, domain.InvalidInput("address is required")
	}
	if len(address) > maxAddressLength {
		return nil, domain.InvalidInput("address cannot exceed %d characters", maxAddressLength)
	}

	return u.upsert(ctx, userID, func(p *domain.Profile) {
		p.DefaultAddress = &domain.DefaultAddress{Type: req.Type, Address: address}
	})
}

func (u *ProfileUsecase) upsert(ctx context.Context, userID string, apply func(p *domain.Profile)) (*domain.Profile, error) {
	var profile *domain.Profile
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		p, err := u.profileRepo.Get(txCtx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			p = &domain.Profile{UserID: userID}
		case err != nil:
			return err
		}
		apply(p)
		if err := u.profileRepo.Upsert(txCtx, p); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// CanDeleteAccount is false while any order is pending or confirmed.
func (u *ProfileUsecase) CanDeleteAccount(ctx context.Context, userID string) (bool, error) {
	n, err := u.orderRepo.CountLiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// DeleteAccount removes the user's profile, cart and reviews. Their orders are
// unlinked rather than deleted. Fails with ErrConflict while an order is live.
func (u *ProfileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	var touched []string
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		live, err := u.orderRepo.CountLiveByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if live > 0 {
			return fmt.Errorf("%w: cannot delete account with %d active orders", domain.ErrConflict, live)
		}
		if err := u.profileRepo.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := u.cartRepo.Clear(txCtx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if touched, err = u.catalog.RemoveUserReviews(txCtx, userID); err != nil {
			return err
		}
		return u.orderRepo.DetachUser(txCtx, userID)
	})
	if err != nil {
		return err
	}

	u.catalog.InvalidateProducts(touched...)
	logger.WithContext(ctx).Info().Str("user_id", userID).Int("products_rerated", len(touched)).Msg("Account deleted")
	return nil
}
