package models

import (
	"testing"

	"github.com/google/uuid"

	"lancasterhub/internal/textdir"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "post", want: KindPost},
		{in: "posts", want: KindPost},
		{in: "event", want: KindEvent},
		{in: "events", want: KindEvent},
		{in: "page", wantErr: true},
		{in: "", wantErr: true},
		{in: "Post", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	if !KindPost.Valid() || !KindEvent.Valid() {
		t.Error("post and event must be valid kinds")
	}
	if Kind("page").Valid() || Kind("").Valid() {
		t.Error("unknown kinds must not be valid")
	}
}

// TestContentItems verifies that posts and events expose the fields the
// translation fan-out reads through ContentItem.
func TestContentItems(t *testing.T) {
	body := "Bring a friend."
	postID, eventID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		item     ContentItem
		id       uuid.UUID
		kind     Kind
		title    string
		body     *string
		language string
	}{
		{
			name:     "post",
			item:     &Post{ID: postID, Title: "Clean-up day", Content: &body, OriginalLanguage: "en"},
			id:       postID,
			kind:     KindPost,
			title:    "Clean-up day",
			body:     &body,
			language: "en",
		},
		{
			name:     "event without description",
			item:     &Event{ID: eventID, Title: "سوق", OriginalLanguage: "ar", TextDirection: textdir.RTL},
			id:       eventID,
			kind:     KindEvent,
			title:    "سوق",
			language: "ar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.ItemID(); got != tt.id {
				t.Errorf("ItemID() = %v, want %v", got, tt.id)
			}
			if got := tt.item.ItemKind(); got != tt.kind {
				t.Errorf("ItemKind() = %q, want %q", got, tt.kind)
			}
			if got := tt.item.ItemTitle(); got != tt.title {
				t.Errorf("ItemTitle() = %q, want %q", got, tt.title)
			}
			if got := tt.item.ItemBody(); got != tt.body {
				t.Errorf("ItemBody() = %v, want %v", got, tt.body)
			}
			if got := tt.item.ItemLanguage(); got != tt.language {
				t.Errorf("ItemLanguage() = %q, want %q", got, tt.language)
			}
		})
	}
}

func TestLanguageDirection(t *testing.T) {
	if d := (&Language{Code: "he", IsRTL: true}).Direction(); d != textdir.RTL {
		t.Errorf("he: got %q, want rtl", d)
	}
	if d := (&Language{Code: "fr"}).Direction(); d != textdir.LTR {
		t.Errorf("fr: got %q, want ltr", d)
	}
}
