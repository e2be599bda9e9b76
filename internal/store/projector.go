// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"lancasterhub/internal/models"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is a 1-indexed page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page to at least 1 and the limit to 1..MaxPageLimit,
// substituting DefaultPageLimit for a missing limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of rows skipped before this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo describes where a page sits in the full result set.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of projected items.
type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

func newPage[T any](items []T, p Pagination, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Pagination: PageInfo{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: (total + p.Limit - 1) / p.Limit,
		},
	}
}

// PostFilter narrows a post listing. Zero fields are not applied.
type PostFilter struct {
	PostType string
}

// EventFilter narrows an event listing. Month is "YYYY-MM".
type EventFilter struct {
	Month    string
	Category string
}

// monthRange converts "YYYY-MM" into the first day of that month and the
// first day of the next, both as "YYYY-MM-DD".
func monthRange(month string) (string, string, error) {
	start, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return "", "", fmt.Errorf("%w: month %q must be YYYY-MM", ErrInvalidFilter, month)
	}
	return start.Format(models.DateLayout), start.AddDate(0, 1, 0).Format(models.DateLayout), nil
}

// Projector builds the language-specific reader views of published
// content. A translation is used only when a row exists for the requested
// language and that language is not the item's original one.
type Projector struct {
	db *bun.DB
}

// NewProjector creates a Projector over db.
func NewProjector(db *bun.DB) *Projector {
	return &Projector{db: db}
}

// projection holds the column expressions shared by the count and list
// queries for one content kind.
type projection struct {
	alias      string // content table alias
	tAlias     string // translation table alias
	body       string
	translated string // SQL boolean: a usable translation was joined
}

var (
	postProjection  = projection{alias: "p", tAlias: "pt", body: "content", translated: "(pt.post_id IS NOT NULL AND p.original_language <> ?)"}
	eventProjection = projection{alias: "e", tAlias: "et", body: "description", translated: "(et.event_id IS NOT NULL AND e.original_language <> ?)"}
)

func (pr projection) title() string {
	return fmt.Sprintf("CASE WHEN %s THEN %s.title ELSE %s.title END", pr.translated, pr.tAlias, pr.alias)
}

func (pr projection) bodyExpr() string {
	return fmt.Sprintf("CASE WHEN %s THEN COALESCE(%s.%s, %s.%s) ELSE %s.%s END",
		pr.translated, pr.tAlias, pr.body, pr.alias, pr.body, pr.alias, pr.body)
}

func (pr projection) direction() string {
	return fmt.Sprintf("CASE WHEN %s THEN %s.text_direction ELSE %s.text_direction END", pr.translated, pr.tAlias, pr.alias)
}

func (p *Projector) newPostQuery(lang string, filter PostFilter) *bun.SelectQuery {
	q := p.db.NewSelect().
		TableExpr("posts AS p").
		Join("LEFT JOIN post_translations AS pt ON pt.post_id = p.id AND pt.language_code = ?", lang).
		Where("p.published = ?", true)
	if filter.PostType != "" {
		q.Where("p.post_type = ?", filter.PostType)
	}
	return q
}

func (p *Projector) newEventQuery(lang string, filter EventFilter) (*bun.SelectQuery, error) {
	q := p.db.NewSelect().
		TableExpr("events AS e").
		Join("LEFT JOIN event_translations AS et ON et.event_id = e.id AND et.language_code = ?", lang).
		Where("e.published = ?", true)
	if filter.Month != "" {
		from, to, err := monthRange(filter.Month)
		if err != nil {
			return nil, err
		}
		q.Where("e.event_date >= ?", from).Where("e.event_date < ?", to)
	}
	if filter.Category != "" {
		q.Where("e.category = ?", filter.Category)
	}
	return q, nil
}

func postColumnsFor(q *bun.SelectQuery, lang string) *bun.SelectQuery {
	pr := postProjection
	return q.
		ColumnExpr("p.id AS id").
		ColumnExpr("p.author_name AS author_name").
		ColumnExpr(pr.title()+" AS title", lang).
		ColumnExpr(pr.bodyExpr()+" AS content", lang).
		ColumnExpr("p.title AS original_title").
		ColumnExpr("p.content AS original_content").
		ColumnExpr("p.link_url AS link_url").
		ColumnExpr("p.image_url AS image_url").
		ColumnExpr("p.post_type AS post_type").
		ColumnExpr("p.original_language AS original_language").
		ColumnExpr("p.text_direction AS original_text_direction").
		ColumnExpr(pr.direction()+" AS text_direction", lang).
		ColumnExpr(pr.translated+" AS is_translated", lang).
		ColumnExpr("p.created_at AS created_at")
}

func eventColumnsFor(q *bun.SelectQuery, lang string) *bun.SelectQuery {
	pr := eventProjection
	return q.
		ColumnExpr("e.id AS id").
		ColumnExpr("e.organizer_name AS organizer_name").
		ColumnExpr(pr.title()+" AS title", lang).
		ColumnExpr(pr.bodyExpr()+" AS description", lang).
		ColumnExpr("e.title AS original_title").
		ColumnExpr("e.description AS original_description").
		ColumnExpr("e.event_date AS event_date").
		ColumnExpr("CAST(e.event_time AS TEXT) AS event_time").
		ColumnExpr("e.location AS location").
		ColumnExpr("e.category AS category").
		ColumnExpr("e.is_free AS is_free").
		ColumnExpr("CAST(e.ticket_price AS DOUBLE PRECISION) AS ticket_price").
		ColumnExpr("e.ticket_url AS ticket_url").
		ColumnExpr("e.original_language AS original_language").
		ColumnExpr("e.text_direction AS original_text_direction").
		ColumnExpr(pr.direction()+" AS text_direction", lang).
		ColumnExpr(pr.translated+" AS is_translated", lang).
		ColumnExpr("e.created_at AS created_at")
}

// ListPosts returns one page of published posts projected into lang,
// newest first.
func (p *Projector) ListPosts(ctx context.Context, lang string, filter PostFilter, page Pagination) (*Page[models.ProjectedPost], error) {
	page = page.Normalize()

	total, err := p.newPostQuery(lang, filter).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	var items []models.ProjectedPost
	if total > 0 {
		q := postColumnsFor(p.newPostQuery(lang, filter), lang).
			OrderExpr("p.created_at DESC").
			OrderExpr("p.id DESC").
			Limit(page.Limit).
			Offset(page.Offset())
		if err := q.Scan(ctx, &items); err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
	}
	return newPage(items, page, total), nil
}

// ListEvents returns one page of published events projected into lang,
// in calendar order.
func (p *Projector) ListEvents(ctx context.Context, lang string, filter EventFilter, page Pagination) (*Page[models.ProjectedEvent], error) {
	page = page.Normalize()

	countQuery, err := p.newEventQuery(lang, filter)
	if err != nil {
		return nil, err
	}
	total, err := countQuery.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	var items []models.ProjectedEvent
	if total > 0 {
		listQuery, err := p.newEventQuery(lang, filter)
		if err != nil {
			return nil, err
		}
		q := eventColumnsFor(listQuery, lang).
			OrderExpr("e.event_date ASC").
			OrderExpr("e.event_time ASC").
			OrderExpr("e.id ASC").
			Limit(page.Limit).
			Offset(page.Offset())
		if err := q.Scan(ctx, &items); err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
	}
	return newPage(items, page, total), nil
}

// GetPost returns one published post projected into lang. Returns nil if
// the post does not exist or is unpublished.
func (p *Projector) GetPost(ctx context.Context, lang string, id uuid.UUID) (*models.ProjectedPost, error) {
	var items []models.ProjectedPost
	q := postColumnsFor(p.newPostQuery(lang, PostFilter{}), lang).
		Where("p.id = ?", id).
		Limit(1)
	if err := q.Scan(ctx, &items); err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// GetEvent returns one published event projected into lang. Returns nil
// if the event does not exist or is unpublished.
func (p *Projector) GetEvent(ctx context.Context, lang string, id uuid.UUID) (*models.ProjectedEvent, error) {
	q, err := p.newEventQuery(lang, EventFilter{})
	if err != nil {
		return nil, err
	}
	var items []models.ProjectedEvent
	q = eventColumnsFor(q, lang).
		Where("e.id = ?", id).
		Limit(1)
	if err := q.Scan(ctx, &items); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}
