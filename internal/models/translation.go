// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/textdir"
)

// Translation is one machine-translated rendition of a post or event.
// At most one exists per (content item, language code).
type Translation struct {
	ContentID     uuid.UUID         `json:"content_id"`
	LanguageCode  string            `json:"language_code"`
	Title         string            `json:"title"`
	Body          *string           `json:"body,omitempty"`
	TextDirection textdir.Direction `json:"text_direction"`
	TranslatedAt  time.Time         `json:"translated_at"`
}
