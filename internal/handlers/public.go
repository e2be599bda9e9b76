// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"lancasterhub/internal/cache"
	"lancasterhub/internal/models"
	"lancasterhub/internal/store"
	"lancasterhub/internal/textdir"
)

// ReadModel serves published content projected into a reader's language.
type ReadModel interface {
	ListPosts(ctx context.Context, lang string, filter store.PostFilter, page store.Pagination) (*store.Page[models.ProjectedPost], error)
	ListEvents(ctx context.Context, lang string, filter store.EventFilter, page store.Pagination) (*store.Page[models.ProjectedEvent], error)
	GetPost(ctx context.Context, lang string, id uuid.UUID) (*models.ProjectedPost, error)
	GetEvent(ctx context.Context, lang string, id uuid.UUID) (*models.ProjectedEvent, error)
}

// Submissions stores new, unpublished content.
type Submissions interface {
	CreatePost(ctx context.Context, p *models.Post) (*models.Post, error)
	CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error)
}

// Languages exposes the configured language set.
type Languages interface {
	ListEnabledByName(ctx context.Context) ([]models.Language, error)
	FindByCode(ctx context.Context, code string) (*models.Language, error)
}

// ViewCache holds rendered list pages. *cache.ProjectionCache satisfies it,
// including as a nil pointer when Valkey is not configured.
type ViewCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
}

// Public groups the unauthenticated API: reading published content in any
// language and submitting new content for moderation.
type Public struct {
	reads       ReadModel
	submissions Submissions
	languages   Languages
	views       ViewCache
}

// NewPublic creates a new Public handler group. views may be nil.
func NewPublic(reads ReadModel, submissions Submissions, languages Languages, views ViewCache) *Public {
	if views == nil {
		views = (*cache.ProjectionCache)(nil)
	}
	return &Public{
		reads:       reads,
		submissions: submissions,
		languages:   languages,
		views:       views,
	}
}

// Languages lists the enabled languages in display order.
func (p *Public) Languages(w http.ResponseWriter, r *http.Request) {
	langs, err := p.languages.ListEnabledByName(r.Context())
	if err != nil {
		writeStoreError(w, "list languages", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": langs})
}

// ListPosts returns one page of published posts in the requested language.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lang parameter")
		return
	}
	filter := store.PostFilter{PostType: strings.TrimSpace(r.URL.Query().Get("type"))}
	page := pageParams(r)

	ctx := r.Context()
	key := cache.Key(models.KindPost, lang, filter.PostType, page.Page, page.Limit)

	var result store.Page[models.ProjectedPost]
	if !p.views.Get(ctx, key, &result) {
		fresh, err := p.reads.ListPosts(ctx, lang, filter, page)
		if err != nil {
			writeStoreError(w, "list posts", err)
			return
		}
		p.views.Set(ctx, key, fresh)
		result = *fresh
	}
	if result.Items == nil {
		result.Items = []models.ProjectedPost{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":      result.Items,
		"pagination": result.Pagination,
	})
}

// GetPost returns one published post in the requested language.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	lang, ok := langParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lang parameter")
		return
	}

	post, err := p.reads.GetPost(r.Context(), lang, id)
	if err != nil {
		writeStoreError(w, "get post", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// ListEvents returns one page of published events in calendar order,
// optionally narrowed to a month (YYYY-MM) and a category.
func (p *Public) ListEvents(w http.ResponseWriter, r *http.Request) {
	lang, ok := langParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lang parameter")
		return
	}
	q := r.URL.Query()
	filter := store.EventFilter{
		Month:    strings.TrimSpace(q.Get("month")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	page := pageParams(r)

	ctx := r.Context()
	key := cache.Key(models.KindEvent, lang, filter.Month, filter.Category, page.Page, page.Limit)

	var result store.Page[models.ProjectedEvent]
	if !p.views.Get(ctx, key, &result) {
		fresh, err := p.reads.ListEvents(ctx, lang, filter, page)
		if err != nil {
			writeStoreError(w, "list events", err)
			return
		}
		p.views.Set(ctx, key, fresh)
		result = *fresh
	}
	if result.Items == nil {
		result.Items = []models.ProjectedEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":     result.Items,
		"pagination": result.Pagination,
	})
}

// GetEvent returns one published event in the requested language.
func (p *Public) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	lang, ok := langParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lang parameter")
		return
	}

	event, err := p.reads.GetEvent(r.Context(), lang, id)
	if err != nil {
		writeStoreError(w, "get event", err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// CreatePost accepts a post submission. The post is stored unpublished and
// waits for moderation.
func (p *Public) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	lang, ok := p.resolveLanguage(w, r, req.Language)
	if !ok {
		return
	}

	post, err := p.submissions.CreatePost(r.Context(), &models.Post{
		AuthorName:       req.AuthorName,
		AuthorEmail:      req.AuthorEmail,
		Title:            req.Title,
		Content:          req.Content,
		LinkURL:          req.LinkURL,
		ImageURL:         req.ImageURL,
		PostType:         req.PostType,
		OriginalLanguage: lang,
		TextDirection:    direction(req.TextDirection, req.Title, lang),
	})
	if err != nil {
		writeStoreError(w, "create post", err)
		return
	}

	slog.Info("post submitted", "content_id", post.ID.String(), "language", lang)
	writeJSON(w, http.StatusCreated, map[string]any{
		"post":    post,
		"message": "Post submitted successfully and is awaiting moderation",
	})
}

// CreateEvent accepts an event submission.
func (p *Public) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	lang, ok := p.resolveLanguage(w, r, req.Language)
	if !ok {
		return
	}

	// Validate already checked the layout.
	date, _ := models.ParseDate(req.EventDate)
	isFree := req.IsFree == nil || *req.IsFree
	price := req.TicketPrice
	if isFree {
		price = nil
	}

	event, err := p.submissions.CreateEvent(r.Context(), &models.Event{
		OrganizerName:    req.OrganizerName,
		OrganizerEmail:   req.OrganizerEmail,
		Title:            req.Title,
		Description:      req.Description,
		EventDate:        date,
		EventTime:        normalizeTime(req.EventTime),
		Location:         req.Location,
		Category:         req.Category,
		IsFree:           isFree,
		TicketPrice:      price,
		TicketURL:        req.TicketURL,
		OriginalLanguage: lang,
		TextDirection:    direction(req.TextDirection, req.Title, lang),
	})
	if err != nil {
		writeStoreError(w, "create event", err)
		return
	}

	slog.Info("event submitted", "content_id", event.ID.String(), "language", lang)
	writeJSON(w, http.StatusCreated, map[string]any{
		"event":   event,
		"message": "Event submitted successfully and is awaiting moderation",
	})
}

// resolveLanguage normalises a submitted language code and checks that it
// is a configured language. It writes the error response itself.
func (p *Public) resolveLanguage(w http.ResponseWriter, r *http.Request, raw string) (string, bool) {
	code := textdir.BaseCode(raw)
	if code == "" {
		code = defaultLanguage
	}
	lang, err := p.languages.FindByCode(r.Context(), code)
	if err != nil {
		writeStoreError(w, "find language", err)
		return "", false
	}
	if lang == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{"language": "unsupported language"},
		})
		return "", false
	}
	return lang.Code, true
}

// direction returns the submitted direction or, when none was given,
// classifies the title.
func direction(submitted, title, lang string) textdir.Direction {
	if d := textdir.Direction(submitted); d.Valid() {
		return d
	}
	return textdir.Classify(title, lang)
}
