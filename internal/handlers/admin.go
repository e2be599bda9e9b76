// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the community hub JSON API.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"lancasterhub/internal/models"
	"lancasterhub/internal/translation"
)

// Moderation is the slice of the content store the admin surface reads and
// deletes through.
type Moderation interface {
	ListAllPosts(ctx context.Context) ([]models.Post, error)
	ListAllEvents(ctx context.Context) ([]models.Event, error)
	GetContent(ctx context.Context, kind models.Kind, id uuid.UUID) (models.ContentItem, error)
	DeleteContent(ctx context.Context, kind models.Kind, id uuid.UUID) error
	ListTranslations(ctx context.Context, kind models.Kind, id uuid.UUID) ([]models.Translation, error)
}

// Publisher changes the visibility of content and schedules translation.
type Publisher interface {
	Publish(ctx context.Context, kind models.Kind, id uuid.UUID) error
	Unpublish(ctx context.Context, kind models.Kind, id uuid.UUID) error
	Retranslate(ctx context.Context, kind models.Kind, id uuid.UUID) error
}

// Detector identifies the language of free text.
type Detector interface {
	DetectLanguage(ctx context.Context, text string) (translation.Detection, error)
}

// Invalidator drops cached reader views of one content kind.
type Invalidator interface {
	InvalidateKind(ctx context.Context, kind models.Kind)
}

// Admin groups all moderation HTTP handlers and their dependencies.
// Every route it serves sits behind middleware.RequireAdmin.
type Admin struct {
	content   Moderation
	publisher Publisher
	detector  Detector
	views     Invalidator
}

// NewAdmin creates a new Admin handler group. views may be nil.
func NewAdmin(content Moderation, publisher Publisher, detector Detector, views Invalidator) *Admin {
	return &Admin{
		content:   content,
		publisher: publisher,
		detector:  detector,
		views:     views,
	}
}

// ListPosts returns every post, published or not, newest first.
func (a *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.content.ListAllPosts(r.Context())
	if err != nil {
		writeStoreError(w, "list all posts", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// ListEvents returns every event, published or not.
func (a *Admin) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.content.ListAllEvents(r.Context())
	if err != nil {
		writeStoreError(w, "list all events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Publish returns a handler that publishes one item of kind and schedules
// its translation fan-out. The response does not wait for translations.
func (a *Admin) Publish(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err := a.publisher.Publish(r.Context(), kind, id); err != nil {
			writeStoreError(w, "publish "+string(kind), err)
			return
		}
		slog.Info("content published", "kind", string(kind), "content_id", id.String())
		writeJSON(w, http.StatusOK, map[string]string{"message": publishedMessage(kind)})
	}
}

// Unpublish returns a handler that hides one item from readers. Its
// translations are kept.
func (a *Admin) Unpublish(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err := a.publisher.Unpublish(r.Context(), kind, id); err != nil {
			writeStoreError(w, "unpublish "+string(kind), err)
			return
		}
		slog.Info("content unpublished", "kind", string(kind), "content_id", id.String())
		writeJSON(w, http.StatusOK, map[string]string{"message": "Content unpublished"})
	}
}

// Retranslate returns a handler that schedules a fresh fan-out for an
// already published item.
func (a *Admin) Retranslate(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err := a.publisher.Retranslate(r.Context(), kind, id); err != nil {
			writeStoreError(w, "retranslate "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Translation scheduled"})
	}
}

// Delete returns a handler that removes one item and its translations.
func (a *Admin) Delete(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err := a.content.DeleteContent(r.Context(), kind, id); err != nil {
			writeStoreError(w, "delete "+string(kind), err)
			return
		}
		if a.views != nil {
			a.views.InvalidateKind(r.Context(), kind)
		}
		slog.Info("content deleted", "kind", string(kind), "content_id", id.String())
		writeJSON(w, http.StatusOK, map[string]string{"message": "Content deleted"})
	}
}

// Translations returns a handler listing the stored translations of one
// item, for reviewing a fan-out.
func (a *Admin) Translations(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		ctx := r.Context()

		item, err := a.content.GetContent(ctx, kind, id)
		if err != nil {
			writeStoreError(w, "get "+string(kind), err)
			return
		}
		if item == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		list, err := a.content.ListTranslations(ctx, kind, id)
		if err != nil {
			writeStoreError(w, "list translations", err)
			return
		}
		if list == nil {
			list = []models.Translation{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"original_language": item.ItemLanguage(),
			"translations":      list,
		})
	}
}

// DetectLanguage identifies the language of a text snippet so moderators
// can correct a submission's declared language.
func (a *Admin) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	det, err := a.detector.DetectLanguage(r.Context(), req.Text)
	if err != nil {
		writeStoreError(w, "detect language", err)
		return
	}
	writeJSON(w, http.StatusOK, det)
}

func publishedMessage(kind models.Kind) string {
	if kind == models.KindEvent {
		return "Event published successfully"
	}
	return "Post published successfully"
}
