// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"lancasterhub/internal/models"
	"lancasterhub/internal/textdir"
)

//go:embed demo.yaml
var demoContent []byte

// DemoLanguage is the language every demo item is written in.
const DemoLanguage = "en"

// ContentCreator stores new, unpublished posts and events.
type ContentCreator interface {
	CreatePost(ctx context.Context, p *models.Post) (*models.Post, error)
	CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error)
}

type demoPost struct {
	AuthorName  string  `yaml:"author_name"`
	AuthorEmail *string `yaml:"author_email"`
	Title       string  `yaml:"title"`
	Content     *string `yaml:"content"`
	LinkURL     *string `yaml:"link_url"`
	ImageURL    *string `yaml:"image_url"`
	PostType    string  `yaml:"post_type"`
}

type demoEvent struct {
	OrganizerName  string   `yaml:"organizer_name"`
	OrganizerEmail *string  `yaml:"organizer_email"`
	Title          string   `yaml:"title"`
	Description    *string  `yaml:"description"`
	DaysFromNow    int      `yaml:"days_from_now"`
	Time           *string  `yaml:"time"`
	Location       *string  `yaml:"location"`
	Category       *string  `yaml:"category"`
	IsFree         *bool    `yaml:"is_free"`
	TicketPrice    *float64 `yaml:"ticket_price"`
	TicketURL      *string  `yaml:"ticket_url"`
}

type demoFile struct {
	Posts  []demoPost  `yaml:"posts"`
	Events []demoEvent `yaml:"events"`
}

// DemoContent returns the bundled sample posts and events. Event dates are
// placed relative to today.
func DemoContent(today time.Time) ([]*models.Post, []*models.Event, error) {
	var f demoFile
	if err := yaml.Unmarshal(demoContent, &f); err != nil {
		return nil, nil, fmt.Errorf("parse demo content: %w", err)
	}

	posts := make([]*models.Post, 0, len(f.Posts))
	for _, p := range f.Posts {
		postType := p.PostType
		if postType == "" {
			postType = "news"
		}
		posts = append(posts, &models.Post{
			AuthorName:       p.AuthorName,
			AuthorEmail:      p.AuthorEmail,
			Title:            p.Title,
			Content:          p.Content,
			LinkURL:          p.LinkURL,
			ImageURL:         p.ImageURL,
			PostType:         postType,
			OriginalLanguage: DemoLanguage,
			TextDirection:    textdir.Classify(p.Title, DemoLanguage),
		})
	}

	events := make([]*models.Event, 0, len(f.Events))
	for _, e := range f.Events {
		isFree := e.IsFree == nil || *e.IsFree
		price := e.TicketPrice
		if isFree {
			price = nil
		}
		events = append(events, &models.Event{
			OrganizerName:    e.OrganizerName,
			OrganizerEmail:   e.OrganizerEmail,
			Title:            e.Title,
			Description:      e.Description,
			EventDate:        models.NewDate(today.AddDate(0, 0, e.DaysFromNow)),
			EventTime:        withSeconds(e.Time),
			Location:         e.Location,
			Category:         e.Category,
			IsFree:           isFree,
			TicketPrice:      price,
			TicketURL:        e.TicketURL,
			OriginalLanguage: DemoLanguage,
			TextDirection:    textdir.Classify(e.Title, DemoLanguage),
		})
	}
	return posts, events, nil
}

// withSeconds turns HH:MM into HH:MM:SS.
func withSeconds(t *string) *string {
	if t == nil || len(*t) != len("15:04") {
		return t
	}
	v := *t + ":00"
	return &v
}

// SeedDemo inserts the bundled sample content through content and returns how
// many posts and events were created. Items stay unpublished.
func SeedDemo(ctx context.Context, content ContentCreator, today time.Time) (posts, events int, err error) {
	demoPosts, demoEvents, err := DemoContent(today)
	if err != nil {
		return 0, 0, err
	}

	for _, p := range demoPosts {
		if _, err := content.CreatePost(ctx, p); err != nil {
			return posts, events, fmt.Errorf("seed demo post %q: %w", p.Title, err)
		}
		posts++
	}
	for _, e := range demoEvents {
		if _, err := content.CreateEvent(ctx, e); err != nil {
			return posts, events, fmt.Errorf("seed demo event %q: %w", e.Title, err)
		}
		events++
	}

	slog.Info("seeded demo content", "posts", posts, "events", events)
	return posts, events, nil
}
