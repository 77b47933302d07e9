package postgres

import (
	"errors"
	"fmt"
	"testing"

	"glowify-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestOperationType(t *testing.T) {
	cases := map[string]string{
		"\n\t\tSELECT id FROM products": "select",
		"UPDATE coupons SET x = 1":      "update",
		"   ":                           "unknown",
	}
	for sql, want := range cases {
		if got := operationType(sql); got != want {
			t.Fatalf("operationType(%q) = %q, want %q", sql, got, want)
		}
	}
}

func TestMapErr(t *testing.T) {
	if !errors.Is(mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), domain.ErrNotFound) {
		t.Fatal("no rows should map to ErrNotFound")
	}
	dup := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "coupons_code_key"}
	if !errors.Is(mapErr(dup), domain.ErrConflict) {
		t.Fatal("unique violation should map to ErrConflict")
	}
	check := &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "products_stock_non_negative"}
	if !errors.Is(mapErr(check), domain.ErrInvalidInput) {
		t.Fatal("check violation should map to ErrInvalidInput")
	}
	other := errors.New("boom")
	if mapErr(other) != other {
		t.Fatal("unknown errors should pass through")
	}
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"naruto":   `%naruto%`,
		"100%":     `%100\%%`,
		"one_shot": `%one\_shot%`,
		`a\b`:      `%a\\b%`,
	}
	for in, want := range cases {
		if got := containsPattern(in); got != want {
			t.Fatalf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
