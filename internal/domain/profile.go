package domain

import (
	"context"
	"time"
)

type AddressType string

const (
	AddressHome   AddressType = "Home"
	AddressOffice AddressType = "Office"
	AddressOther  AddressType = "Other"
)

func (t AddressType) Valid() bool {
	switch t {
	case AddressHome, AddressOffice, AddressOther:
		return true
	}
	return false
}

type DefaultAddress struct {
	Type    AddressType `json:"type"`
	Address string      `json:"address"`
}

// Profile holds what a signed-in customer saves between checkouts. Identity
// itself comes from the access token.
type Profile struct {
	UserID         string          `json:"userId"`
	Name           string          `json:"name,omitempty"`
	Birthdate      string          `json:"birthdate,omitempty"` // YYYY-MM-DD
	DefaultAddress *DefaultAddress `json:"defaultAddress,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type ProfileRepository interface {
	// Get fails with ErrNotFound when the user never saved a profile.
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, userID string) error
}
