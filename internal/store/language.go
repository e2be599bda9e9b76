// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lancasterhub/internal/models"
)

// LanguageStore handles the supported_languages table.
type LanguageStore struct {
	db *sql.DB
}

// NewLanguageStore creates a new LanguageStore with the given database connection.
func NewLanguageStore(db *sql.DB) *LanguageStore {
	return &LanguageStore{db: db}
}

const languageColumns = `code, name, native_name, is_rtl, text_direction, enabled`

func (s *LanguageStore) query(ctx context.Context, op, query string, args ...any) ([]models.Language, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	langs := []models.Language{}
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.Code, &l.Name, &l.NativeName, &l.IsRTL, &l.TextDirection, &l.Enabled); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// ListEnabled returns the fan-out target languages ordered by code, which
// gives every run the same processing order.
func (s *LanguageStore) ListEnabled(ctx context.Context) ([]models.Language, error) {
	return s.query(ctx, "list enabled languages",
		`SELECT `+languageColumns+` FROM supported_languages WHERE enabled = $1 ORDER BY code`, true)
}

// ListEnabledByName returns enabled languages in display order for the
// public language picker.
func (s *LanguageStore) ListEnabledByName(ctx context.Context) ([]models.Language, error) {
	return s.query(ctx, "list enabled languages",
		`SELECT `+languageColumns+` FROM supported_languages WHERE enabled = $1 ORDER BY name`, true)
}

// List returns every language, enabled or not, ordered by name.
func (s *LanguageStore) List(ctx context.Context) ([]models.Language, error) {
	return s.query(ctx, "list languages",
		`SELECT `+languageColumns+` FROM supported_languages ORDER BY name`)
}

// FindByCode retrieves a language by its code. Returns nil if not found.
func (s *LanguageStore) FindByCode(ctx context.Context, code string) (*models.Language, error) {
	l := &models.Language{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM supported_languages WHERE code = $1`, code,
	).Scan(&l.Code, &l.Name, &l.NativeName, &l.IsRTL, &l.TextDirection, &l.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find language: %w", err)
	}
	return l, nil
}

// Upsert inserts a language or refreshes its names and direction. The
// enabled flag of an existing row is left alone so operator changes
// survive a reseed.
func (s *LanguageStore) Upsert(ctx context.Context, l models.Language) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supported_languages (code, name, native_name, is_rtl, text_direction, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			native_name = EXCLUDED.native_name,
			is_rtl = EXCLUDED.is_rtl,
			text_direction = EXCLUDED.text_direction
	`, l.Code, l.Name, l.NativeName, l.IsRTL, l.Direction(), l.Enabled)
	if err != nil {
		return mapError("upsert language", err)
	}
	return nil
}

// SetEnabled toggles whether a language is a fan-out target.
func (s *LanguageStore) SetEnabled(ctx context.Context, code string, enabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE supported_languages SET enabled = $1 WHERE code = $2`, enabled, code)
	if err != nil {
		return mapError("set language enabled", err)
	}
	return expectRow(res, "set language enabled")
}
