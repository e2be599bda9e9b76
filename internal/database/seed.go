package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lancasterhub/internal/models"
	"lancasterhub/internal/textdir"
)

//go:embed languages.yaml
var defaultLanguages []byte

type languageFile struct {
	Languages []models.Language `yaml:"languages"`
}

// DefaultLanguages returns the language set bundled with the binary.
func DefaultLanguages() ([]models.Language, error) {
	return ParseLanguages(defaultLanguages)
}

// LoadLanguages reads a language seed file from disk.
func LoadLanguages(path string) ([]models.Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language file: %w", err)
	}
	return ParseLanguages(data)
}

// ParseLanguages decodes a YAML language list. Codes are normalised to
// their base subtag and the canonical direction is derived from is_rtl.
func ParseLanguages(data []byte) ([]models.Language, error) {
	var f languageFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse language file: %w", err)
	}

	seen := make(map[string]bool, len(f.Languages))
	langs := make([]models.Language, 0, len(f.Languages))
	for i, l := range f.Languages {
		l.Code = textdir.BaseCode(l.Code)
		l.Name = strings.TrimSpace(l.Name)
		if l.Code == "" || l.Name == "" {
			return nil, fmt.Errorf("language %d: code and name are required", i+1)
		}
		if seen[l.Code] {
			return nil, fmt.Errorf("language %q listed twice", l.Code)
		}
		seen[l.Code] = true
		if l.NativeName == "" {
			l.NativeName = l.Name
		}
		l.TextDirection = l.Direction()
		langs = append(langs, l)
	}
	return langs, nil
}

// SeedLanguages inserts the given languages, leaving rows that already
// exist untouched. It is safe to run on every start.
func SeedLanguages(ctx context.Context, db *sql.DB, langs []models.Language) (int, error) {
	inserted := 0
	for _, l := range langs {
		res, err := db.ExecContext(ctx, `
			INSERT INTO supported_languages (code, name, native_name, is_rtl, text_direction, enabled)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING
		`, l.Code, l.Name, l.NativeName, l.IsRTL, l.Direction(), l.Enabled)
		if err != nil {
			return inserted, fmt.Errorf("seed language %s: %w", l.Code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if inserted > 0 {
		slog.Info("languages seeded", "inserted", inserted, "total", len(langs))
	} else {
		slog.Info("languages already configured, skipping", "total", len(langs))
	}
	return inserted, nil
}
