// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a content item or language does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownLanguage is returned when a write references a language code
	// missing from supported_languages.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrConstraintViolation wraps a unique violation. Translation writes go
	// through an upsert, so seeing this from one indicates a schema bug.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidFilter is returned by the projector for malformed filters.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Postgres SQLSTATE codes the store maps to sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError wraps err with op and translates known Postgres error codes
// into the package sentinels.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			if languageConstraint(pgErr.ConstraintName) {
				return fmt.Errorf("%s: %w: %s", op, ErrUnknownLanguage, pgErr.ConstraintName)
			}
			return fmt.Errorf("%s: %w: %s", op, ErrNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// languageConstraint reports whether a foreign key constraint points at
// supported_languages. Postgres names them <table>_<column>_fkey, so the
// language_code and original_language columns identify them.
func languageConstraint(name string) bool {
	return strings.HasSuffix(name, "_language_code_fkey") ||
		strings.HasSuffix(name, "_original_language_fkey")
}
