// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared fakes for the handler tests. The handlers
// depend on small interfaces, so these tests need neither PostgreSQL nor
// Valkey.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lancasterhub/internal/models"
	"lancasterhub/internal/store"
	"lancasterhub/internal/textdir"
	"lancasterhub/internal/translation"
)

// serve routes a single request through a chi router so URL parameters
// resolve the same way they do in production.
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func strPtr(s string) *string { return &s }

// fakeReads is an in-memory ReadModel.
type fakeReads struct {
	posts  []models.ProjectedPost
	events []models.ProjectedEvent
	err    error

	mu        sync.Mutex
	listCalls int
	lastLang  string
	lastPost  store.PostFilter
	lastEvent store.EventFilter
	lastPage  store.Pagination
}

func (f *fakeReads) record(lang string, page store.Pagination) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastLang = lang
	f.lastPage = page
}

func (f *fakeReads) ListPosts(_ context.Context, lang string, filter store.PostFilter, page store.Pagination) (*store.Page[models.ProjectedPost], error) {
	f.record(lang, page)
	f.lastPost = filter
	if f.err != nil {
		return nil, f.err
	}
	return &store.Page[models.ProjectedPost]{
		Items:      f.posts,
		Pagination: pageInfo(page, len(f.posts)),
	}, nil
}

func (f *fakeReads) ListEvents(_ context.Context, lang string, filter store.EventFilter, page store.Pagination) (*store.Page[models.ProjectedEvent], error) {
	f.record(lang, page)
	f.lastEvent = filter
	if f.err != nil {
		return nil, f.err
	}
	return &store.Page[models.ProjectedEvent]{
		Items:      f.events,
		Pagination: pageInfo(page, len(f.events)),
	}, nil
}

// pageInfo mirrors the projector's page math. Items stay as stored, so a
// nil slice reaches the handler the way a third-party read model could
// return one.
func pageInfo(p store.Pagination, total int) store.PageInfo {
	limit := p.Limit
	if limit <= 0 {
		limit = store.DefaultPageLimit
	}
	return store.PageInfo{Page: p.Page, Limit: limit, Total: total, TotalPages: (total + limit - 1) / limit}
}

func (f *fakeReads) GetPost(_ context.Context, lang string, id uuid.UUID) (*models.ProjectedPost, error) {
	f.lastLang = lang
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeReads) GetEvent(_ context.Context, lang string, id uuid.UUID) (*models.ProjectedEvent, error) {
	f.lastLang = lang
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, nil
}

// fakeSubmissions records what the handlers store.
type fakeSubmissions struct {
	post  *models.Post
	event *models.Event
	err   error
}

func (f *fakeSubmissions) CreatePost(_ context.Context, p *models.Post) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.post = p
	return p, nil
}

func (f *fakeSubmissions) CreateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	f.event = e
	return e, nil
}

// fakeLanguages serves a fixed language set.
type fakeLanguages struct {
	langs []models.Language
	err   error
}

func newFakeLanguages() *fakeLanguages {
	return &fakeLanguages{langs: []models.Language{
		{Code: "ar", Name: "Arabic", NativeName: "العربية", IsRTL: true, TextDirection: textdir.RTL, Enabled: true},
		{Code: "en", Name: "English", NativeName: "English", TextDirection: textdir.LTR, Enabled: true},
		{Code: "es", Name: "Spanish", NativeName: "Español", TextDirection: textdir.LTR, Enabled: true},
	}}
}

func (f *fakeLanguages) ListEnabledByName(context.Context) ([]models.Language, error) {
	return f.langs, f.err
}

func (f *fakeLanguages) FindByCode(_ context.Context, code string) (*models.Language, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.langs {
		if f.langs[i].Code == code {
			return &f.langs[i], nil
		}
	}
	return nil, nil
}

// memoryViews is a ViewCache and Invalidator backed by a map.
type memoryViews struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []models.Kind
}

func newMemoryViews() *memoryViews {
	return &memoryViews{entries: make(map[string][]byte)}
}

func (m *memoryViews) Get(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (m *memoryViews) Set(_ context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = b
}

func (m *memoryViews) InvalidateKind(_ context.Context, kind models.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, kind)
	for k := range m.entries {
		if strings.Contains(k, ":"+string(kind)+":") {
			delete(m.entries, k)
		}
	}
}

// fakeModeration is an in-memory Moderation.
type fakeModeration struct {
	posts        []models.Post
	events       []models.Event
	translations []models.Translation
	deleted      []uuid.UUID
	err          error
}

func (f *fakeModeration) ListAllPosts(context.Context) ([]models.Post, error) {
	return f.posts, f.err
}

func (f *fakeModeration) ListAllEvents(context.Context) ([]models.Event, error) {
	return f.events, f.err
}

func (f *fakeModeration) GetContent(_ context.Context, kind models.Kind, id uuid.UUID) (models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch kind {
	case models.KindPost:
		for i := range f.posts {
			if f.posts[i].ID == id {
				return &f.posts[i], nil
			}
		}
	case models.KindEvent:
		for i := range f.events {
			if f.events[i].ID == id {
				return &f.events[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeModeration) DeleteContent(_ context.Context, kind models.Kind, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	item, _ := f.GetContent(context.Background(), kind, id)
	if item == nil {
		return store.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeModeration) ListTranslations(_ context.Context, _ models.Kind, id uuid.UUID) ([]models.Translation, error) {
	var out []models.Translation
	for _, tr := range f.translations {
		if tr.ContentID == id {
			out = append(out, tr)
		}
	}
	return out, f.err
}

// fakePublisher records publish calls.
type fakePublisher struct {
	calls []string
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, kind models.Kind, id uuid.UUID) error {
	f.calls = append(f.calls, "publish "+string(kind)+" "+id.String())
	return f.err
}

func (f *fakePublisher) Unpublish(_ context.Context, kind models.Kind, id uuid.UUID) error {
	f.calls = append(f.calls, "unpublish "+string(kind)+" "+id.String())
	return f.err
}

func (f *fakePublisher) Retranslate(_ context.Context, kind models.Kind, id uuid.UUID) error {
	f.calls = append(f.calls, "retranslate "+string(kind)+" "+id.String())
	return f.err
}

// fakeDetector returns a fixed detection.
type fakeDetector struct {
	det translation.Detection
	err error
}

func (f fakeDetector) DetectLanguage(context.Context, string) (translation.Detection, error) {
	return f.det, f.err
}
