// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/models"
)

// kindSchema names the tables and columns that differ between posts and
// events. Everything else about the two kinds is stored the same way.
type kindSchema struct {
	table        string // content table
	translations string // translation table
	foreignKey   string // translation column referencing the content row
	body         string // body column name, in both tables
}

var schemas = map[models.Kind]kindSchema{
	models.KindPost:  {table: "posts", translations: "post_translations", foreignKey: "post_id", body: "content"},
	models.KindEvent: {table: "events", translations: "event_translations", foreignKey: "event_id", body: "description"},
}

func schemaFor(kind models.Kind) (kindSchema, error) {
	s, ok := schemas[kind]
	if !ok {
		return kindSchema{}, fmt.Errorf("unknown content kind %q", kind)
	}
	return s, nil
}

// ContentStore handles posts, events, and their translations.
type ContentStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db, now: time.Now}
}

const postColumns = `id, author_name, author_email, title, content, link_url, image_url,
	post_type, original_language, text_direction, published, created_at, updated_at`

const eventColumns = `id, organizer_name, organizer_email, title, description, event_date,
	CAST(event_time AS TEXT), location, category, is_free, ticket_price, ticket_url,
	original_language, text_direction, published, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.AuthorName, &p.AuthorEmail, &p.Title, &p.Content, &p.LinkURL, &p.ImageURL,
		&p.PostType, &p.OriginalLanguage, &p.TextDirection, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanEvent(row scanner) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(
		&e.ID, &e.OrganizerName, &e.OrganizerEmail, &e.Title, &e.Description, &e.EventDate,
		&e.EventTime, &e.Location, &e.Category, &e.IsFree, &e.TicketPrice, &e.TicketURL,
		&e.OriginalLanguage, &e.TextDirection, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// CreatePost inserts an unpublished post. ID and timestamps are assigned here.
func (s *ContentStore) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	now := s.now().UTC()
	p.ID = uuid.New()
	p.Published = false
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_name, author_email, title, content, link_url, image_url,
		                   post_type, original_language, text_direction, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.AuthorName, p.AuthorEmail, p.Title, p.Content, p.LinkURL, p.ImageURL,
		p.PostType, p.OriginalLanguage, p.TextDirection, p.Published, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError("create post", err)
	}
	return p, nil
}

// CreateEvent inserts an unpublished event.
func (s *ContentStore) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	now := s.now().UTC()
	e.ID = uuid.New()
	e.Published = false
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, organizer_name, organizer_email, title, description, event_date,
		                    event_time, location, category, is_free, ticket_price, ticket_url,
		                    original_language, text_direction, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, e.ID, e.OrganizerName, e.OrganizerEmail, e.Title, e.Description, e.EventDate.String(),
		e.EventTime, e.Location, e.Category, e.IsFree, e.TicketPrice, e.TicketURL,
		e.OriginalLanguage, e.TextDirection, e.Published, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, mapError("create event", err)
	}
	return e, nil
}

// FindPost retrieves a post by ID regardless of its published state.
// Returns nil if not found.
func (s *ContentStore) FindPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// FindEvent retrieves an event by ID regardless of its published state.
// Returns nil if not found.
func (s *ContentStore) FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return e, nil
}

// GetContent loads a post or event as a ContentItem. Unlike FindPost and
// FindEvent it reports a missing row as ErrNotFound.
func (s *ContentStore) GetContent(ctx context.Context, kind models.Kind, id uuid.UUID) (models.ContentItem, error) {
	switch kind {
	case models.KindPost:
		p, err := s.FindPost(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("get post %s: %w", id, ErrNotFound)
		}
		return p, nil
	case models.KindEvent:
		e, err := s.FindEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, fmt.Errorf("get event %s: %w", id, ErrNotFound)
		}
		return e, nil
	}
	return nil, fmt.Errorf("unknown content kind %q", kind)
}

// SetPublished flips the published flag. Setting the current value again
// succeeds; a missing row is ErrNotFound.
func (s *ContentStore) SetPublished(ctx context.Context, kind models.Kind, id uuid.UUID, published bool) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+schema.table+` SET published = $1, updated_at = $2 WHERE id = $3`,
		published, s.now().UTC(), id,
	)
	if err != nil {
		return mapError("set published", err)
	}
	return expectRow(res, "set published")
}

// DeleteContent removes a content item. Its translations go with it.
func (s *ContentStore) DeleteContent(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+schema.table+` WHERE id = $1`, id)
	if err != nil {
		return mapError("delete content", err)
	}
	return expectRow(res, "delete content")
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListAllPosts returns every post, published or not, newest first.
func (s *ContentStore) ListAllPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListAllEvents returns every event, published or not, newest first.
func (s *ContentStore) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpsertTranslation writes the translation for (t.ContentID, t.LanguageCode)
// in one statement: inserted when absent, otherwise title, body, direction
// and translated_at are overwritten. Concurrent writers converge to one row.
// A zero TranslatedAt is set to the current time.
func (s *ContentStore) UpsertTranslation(ctx context.Context, kind models.Kind, t models.Translation) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}
	if t.TranslatedAt.IsZero() {
		t.TranslatedAt = s.now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, language_code, title, %[3]s, text_direction, translated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%[2]s, language_code) DO UPDATE SET
			title = EXCLUDED.title,
			%[3]s = EXCLUDED.%[3]s,
			text_direction = EXCLUDED.text_direction,
			translated_at = EXCLUDED.translated_at
	`, schema.translations, schema.foreignKey, schema.body)

	_, err = s.db.ExecContext(ctx, query,
		t.ContentID, t.LanguageCode, t.Title, t.Body, t.TextDirection, t.TranslatedAt,
	)
	if err != nil {
		return mapError("upsert translation", err)
	}
	return nil
}

// ListTranslations returns all stored translations of one item, ordered
// by language code.
func (s *ContentStore) ListTranslations(ctx context.Context, kind models.Kind, id uuid.UUID) ([]models.Translation, error) {
	schema, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %[2]s, language_code, title, %[3]s, text_direction, translated_at
		FROM %[1]s WHERE %[2]s = $1
		ORDER BY language_code
	`, schema.translations, schema.foreignKey, schema.body)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	out := []models.Translation{}
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.ContentID, &t.LanguageCode, &t.Title, &t.Body, &t.TextDirection, &t.TranslatedAt); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
