// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"lancasterhub/internal/publish"
	"lancasterhub/internal/store"
	"lancasterhub/internal/textdir"
	"lancasterhub/internal/translation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// defaultLanguage is used when a request names no language.
const defaultLanguage = "en"

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response", "error", err)
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidationError sends a 400 listing each invalid field.
func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// writeStoreError maps store and pipeline errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var gwErr *translation.GatewayError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUnknownLanguage):
		writeError(w, http.StatusBadRequest, "unsupported language")
	case errors.Is(err, store.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConstraintViolation):
		writeError(w, http.StatusConflict, "conflicts with existing data")
	case errors.Is(err, publish.ErrTranslationDisabled), errors.Is(err, translation.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "translation is not configured")
	case errors.As(err, &gwErr):
		slog.Warn(op+" failed", "error_kind", string(gwErr.Kind), "error", err)
		writeError(w, http.StatusBadGateway, "translation service error: "+string(gwErr.Kind))
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body too large")
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty")
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// langParam returns the normalised ?lang= query value, defaulting to
// English. ok is false for values that cannot be a language code.
func langParam(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("lang"))
	if raw == "" {
		return defaultLanguage, true
	}
	if len(raw) > 35 {
		return "", false
	}
	code := textdir.BaseCode(raw)
	if code == "" || len(code) > 10 {
		return "", false
	}
	return code, true
}

// pageParams reads ?page= and ?limit=. Missing or malformed values fall
// back to the defaults applied by store.Pagination.Normalize.
func pageParams(r *http.Request) store.Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return store.Pagination{Page: page, Limit: limit}.Normalize()
}
