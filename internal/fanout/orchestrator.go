// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package fanout translates a published post or event into every enabled
// language. A run is best effort: each language succeeds or fails on its
// own, failures are logged and never returned, and a failed language is
// simply absent until the next run.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/models"
	"lancasterhub/internal/store"
	"lancasterhub/internal/translation"
)

// DefaultDelay is the pause before each language's translation calls.
const DefaultDelay = 100 * time.Millisecond

// DirectionPolicy selects how the stored direction of a translation is
// decided.
type DirectionPolicy string

const (
	// DirectionFromLanguage stores the target language's configured direction.
	DirectionFromLanguage DirectionPolicy = "language"
	// DirectionFromText stores the direction classified from the translated title.
	DirectionFromText DirectionPolicy = "text"
)

// ParseDirectionPolicy accepts "language" or "text"; empty means language.
func ParseDirectionPolicy(s string) (DirectionPolicy, error) {
	switch DirectionPolicy(s) {
	case "", DirectionFromLanguage:
		return DirectionFromLanguage, nil
	case DirectionFromText:
		return DirectionFromText, nil
	}
	return "", fmt.Errorf("unknown direction policy %q", s)
}

// ContentSource loads content and stores its translations.
type ContentSource interface {
	GetContent(ctx context.Context, kind models.Kind, id uuid.UUID) (models.ContentItem, error)
	UpsertTranslation(ctx context.Context, kind models.Kind, t models.Translation) error
}

// LanguageSource lists the fan-out target languages in a stable order.
type LanguageSource interface {
	ListEnabled(ctx context.Context) ([]models.Language, error)
}

// Config tunes an Orchestrator.
type Config struct {
	Delay           time.Duration
	DirectionPolicy DirectionPolicy

	// OnComplete, when set, is called after every run that loaded its item.
	OnComplete func(ctx context.Context, report Report)
}

// Report summarizes one run. Partial lists languages stored with a title
// but no body.
type Report struct {
	Kind       models.Kind
	ContentID  uuid.UUID
	Translated []string
	Partial    []string
	Failed     []string
	Skipped    []string
}

// Orchestrator runs the per-language translation loop for one item.
type Orchestrator struct {
	content   ContentSource
	languages LanguageSource
	gateway   translation.Gateway
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates an Orchestrator. A nil logger uses slog.Default.
func NewOrchestrator(content ContentSource, languages LanguageSource, gateway translation.Gateway, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.DirectionPolicy == "" {
		cfg.DirectionPolicy = DirectionFromLanguage
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		content:   content,
		languages: languages,
		gateway:   gateway,
		cfg:       cfg,
		logger:    logger.With("component", "fanout"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run translates the item identified by kind and id into every enabled
// language other than its original one. It never returns an error; the
// Report says what happened.
func (o *Orchestrator) Run(ctx context.Context, kind models.Kind, id uuid.UUID) Report {
	report := Report{Kind: kind, ContentID: id}
	log := o.logger.With("kind", string(kind), "content_id", id.String())

	item, err := o.content.GetContent(ctx, kind, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("fan-out skipped: content not found")
		} else {
			log.Error("fan-out aborted: load content", "error", err)
		}
		return report
	}

	langs, err := o.languages.ListEnabled(ctx)
	if err != nil {
		log.Error("fan-out aborted: list languages", "error", err)
		return report
	}

	started := o.now()
	source := item.ItemLanguage()

	for _, lang := range langs {
		if lang.Code == source {
			report.Skipped = append(report.Skipped, lang.Code)
			continue
		}

		if err := o.sleep(ctx, o.cfg.Delay); err != nil {
			log.Warn("fan-out interrupted", "language", lang.Code, "error", err)
			break
		}

		outcome, stop := o.translateOne(ctx, log, item, lang)
		switch outcome {
		case outcomeTranslated:
			report.Translated = append(report.Translated, lang.Code)
		case outcomePartial:
			report.Partial = append(report.Partial, lang.Code)
		case outcomeFailed:
			report.Failed = append(report.Failed, lang.Code)
		}
		if stop {
			break
		}
	}

	log.Info("fan-out complete",
		"translated", len(report.Translated),
		"partial", len(report.Partial),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
		"duration", o.now().Sub(started),
	)

	if o.cfg.OnComplete != nil {
		o.cfg.OnComplete(ctx, report)
	}
	return report
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomePartial
	outcomeTranslated
)

// translateOne handles a single target language. stop is true when the
// remaining languages cannot succeed either.
func (o *Orchestrator) translateOne(ctx context.Context, log *slog.Logger, item models.ContentItem, lang models.Language) (outcome, bool) {
	source := item.ItemLanguage()

	title, err := o.gateway.TranslateText(ctx, item.ItemTitle(), lang.Code, source)
	if err != nil {
		log.Warn("translation failed",
			"language", lang.Code,
			"field", "title",
			"error_kind", string(translation.KindOf(err)),
			"error", err,
		)
		return outcomeFailed, false
	}

	result := outcomeTranslated
	var body *string
	if b := item.ItemBody(); b != nil && *b != "" {
		translated, err := o.gateway.TranslateText(ctx, *b, lang.Code, source)
		if err != nil {
			log.Warn("translation failed",
				"language", lang.Code,
				"field", "body",
				"error_kind", string(translation.KindOf(err)),
				"error", err,
			)
			result = outcomePartial
		} else {
			body = &translated.TranslatedText
		}
	}

	direction := lang.Direction()
	if o.cfg.DirectionPolicy == DirectionFromText {
		direction = title.TextDirection
	}

	err = o.content.UpsertTranslation(ctx, item.ItemKind(), models.Translation{
		ContentID:     item.ItemID(),
		LanguageCode:  lang.Code,
		Title:         title.TranslatedText,
		Body:          body,
		TextDirection: direction,
		TranslatedAt:  o.now().UTC(),
	})
	switch {
	case err == nil:
		return result, false
	case errors.Is(err, store.ErrNotFound):
		log.Warn("fan-out stopped: content deleted mid-run", "language", lang.Code, "error", err)
		return outcomeFailed, true
	case errors.Is(err, store.ErrUnknownLanguage):
		log.Warn("translation dropped: language removed mid-run", "language", lang.Code, "error", err)
		return outcomeFailed, false
	case errors.Is(err, store.ErrConstraintViolation):
		log.Error("translation upsert violated a constraint", "language", lang.Code, "error", err)
		return outcomeFailed, false
	default:
		log.Error("store translation", "language", lang.Code, "error", err)
		return outcomeFailed, false
	}
}
