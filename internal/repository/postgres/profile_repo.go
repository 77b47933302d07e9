package postgres

import (
	"context"

	"glowify-backend/internal/domain"
)

type profileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p           domain.Profile
		addressType *string
		address     *string
	)
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT user_id, name, birthdate, address_type, address, updated_at
		FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Name, &p.Birthdate, &addressType, &address, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if addressType != nil && address != nil {
		p.DefaultAddress = &domain.DefaultAddress{Type: domain.AddressType(*addressType), Address: *address}
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	var addressType, address *string
	if p.DefaultAddress != nil {
		t := string(p.DefaultAddress.Type)
		addressType, address = &t, &p.DefaultAddress.Address
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, name, birthdate, address_type, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, birthdate = EXCLUDED.birthdate,
		    address_type = EXCLUDED.address_type, address = EXCLUDED.address, updated_at = now()
		RETURNING updated_at`,
		p.UserID, p.Name, p.Birthdate, addressType, address,
	)
	return mapErr(row.Scan(&p.UpdatedAt))
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	return mapErr(err)
}
