package postgres

import (
	"errors"
	"fmt"

	"glowify-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapErr translates driver errors into domain errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: still referenced by %s", domain.ErrConflict, pgErr.TableName)
		case pgCheckViolation:
			return domain.InvalidInput("constraint %s violated", pgErr.ConstraintName)
		}
	}
	return err
}

// money formats an amount as a NUMERIC(12,2) parameter.
func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}
