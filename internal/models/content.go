// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/textdir"
)

// Kind distinguishes the two content variants that flow through the
// publishing and translation pipeline.
type Kind string

const (
	KindPost  Kind = "post"
	KindEvent Kind = "event"
)

// Valid reports whether k is a known content kind.
func (k Kind) Valid() bool {
	return k == KindPost || k == KindEvent
}

// ParseKind converts a route segment or CLI argument ("post", "posts",
// "event", "events") into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "post", "posts":
		return KindPost, nil
	case "event", "events":
		return KindEvent, nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// ContentItem is the capability set the translation fan-out needs from a
// post or an event.
type ContentItem interface {
	ItemID() uuid.UUID
	ItemKind() Kind
	ItemTitle() string
	// ItemBody returns the post content or event description, nil when absent.
	ItemBody() *string
	ItemLanguage() string
}

// Post is a community news item submitted by an author.
type Post struct {
	ID               uuid.UUID         `json:"id"`
	AuthorName       string            `json:"author_name"`
	AuthorEmail      *string           `json:"author_email,omitempty"`
	Title            string            `json:"title"`
	Content          *string           `json:"content,omitempty"`
	LinkURL          *string           `json:"link_url,omitempty"`
	ImageURL         *string           `json:"image_url,omitempty"`
	PostType         string            `json:"post_type"`
	OriginalLanguage string            `json:"original_language"`
	TextDirection    textdir.Direction `json:"text_direction"`
	Published        bool              `json:"published"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (p *Post) ItemID() uuid.UUID    { return p.ID }
func (p *Post) ItemKind() Kind       { return KindPost }
func (p *Post) ItemTitle() string    { return p.Title }
func (p *Post) ItemBody() *string    { return p.Content }
func (p *Post) ItemLanguage() string { return p.OriginalLanguage }

// Event is a community calendar entry submitted by an organizer.
type Event struct {
	ID               uuid.UUID         `json:"id"`
	OrganizerName    string            `json:"organizer_name"`
	OrganizerEmail   *string           `json:"organizer_email,omitempty"`
	Title            string            `json:"title"`
	Description      *string           `json:"description,omitempty"`
	EventDate        Date              `json:"event_date"`
	EventTime        *string           `json:"event_time,omitempty"` // HH:MM:SS
	Location         *string           `json:"location,omitempty"`
	Category         *string           `json:"category,omitempty"`
	IsFree           bool              `json:"is_free"`
	TicketPrice      *float64          `json:"ticket_price,omitempty"`
	TicketURL        *string           `json:"ticket_url,omitempty"`
	OriginalLanguage string            `json:"original_language"`
	TextDirection    textdir.Direction `json:"text_direction"`
	Published        bool              `json:"published"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (e *Event) ItemID() uuid.UUID    { return e.ID }
func (e *Event) ItemKind() Kind       { return KindEvent }
func (e *Event) ItemTitle() string    { return e.Title }
func (e *Event) ItemBody() *string    { return e.Description }
func (e *Event) ItemLanguage() string { return e.OriginalLanguage }
