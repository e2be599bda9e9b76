// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/textdir"
)

// ProjectedPost is a published post as seen by a reader of one language:
// Title, Content and TextDirection come from the translation when one
// exists for that language, otherwise from the original.
type ProjectedPost struct {
	ID                    uuid.UUID         `json:"id" bun:"id"`
	AuthorName            string            `json:"author_name" bun:"author_name"`
	Title                 string            `json:"title" bun:"title"`
	Content               *string           `json:"content" bun:"content"`
	OriginalTitle         string            `json:"original_title" bun:"original_title"`
	OriginalContent       *string           `json:"original_content" bun:"original_content"`
	LinkURL               *string           `json:"link_url" bun:"link_url"`
	ImageURL              *string           `json:"image_url" bun:"image_url"`
	PostType              string            `json:"post_type" bun:"post_type"`
	OriginalLanguage      string            `json:"original_language" bun:"original_language"`
	OriginalTextDirection textdir.Direction `json:"original_text_direction" bun:"original_text_direction"`
	TextDirection         textdir.Direction `json:"text_direction" bun:"text_direction"`
	IsTranslated          bool              `json:"is_translated" bun:"is_translated"`
	CreatedAt             time.Time         `json:"created_at" bun:"created_at"`
}

// ProjectedEvent is the reader view of a published event.
type ProjectedEvent struct {
	ID                    uuid.UUID         `json:"id" bun:"id"`
	OrganizerName         string            `json:"organizer_name" bun:"organizer_name"`
	Title                 string            `json:"title" bun:"title"`
	Description           *string           `json:"description" bun:"description"`
	OriginalTitle         string            `json:"original_title" bun:"original_title"`
	OriginalDescription   *string           `json:"original_description" bun:"original_description"`
	EventDate             Date              `json:"event_date" bun:"event_date"`
	EventTime             *string           `json:"event_time" bun:"event_time"`
	Location              *string           `json:"location" bun:"location"`
	Category              *string           `json:"category" bun:"category"`
	IsFree                bool              `json:"is_free" bun:"is_free"`
	TicketPrice           *float64          `json:"ticket_price" bun:"ticket_price"`
	TicketURL             *string           `json:"ticket_url" bun:"ticket_url"`
	OriginalLanguage      string            `json:"original_language" bun:"original_language"`
	OriginalTextDirection textdir.Direction `json:"original_text_direction" bun:"original_text_direction"`
	TextDirection         textdir.Direction `json:"text_direction" bun:"text_direction"`
	IsTranslated          bool              `json:"is_translated" bun:"is_translated"`
	CreatedAt             time.Time         `json:"created_at" bun:"created_at"`
}
