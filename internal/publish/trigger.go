// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// Package publish flips content into the public feed and schedules the
// translation fan-out without waiting for it.
package publish

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"lancasterhub/internal/fanout"
	"lancasterhub/internal/models"
)

// ErrTranslationDisabled is returned by Retranslate when no translation
// backend is configured.
var ErrTranslationDisabled = errors.New("translation is not configured")

// Store is the slice of the content store the trigger needs.
type Store interface {
	SetPublished(ctx context.Context, kind models.Kind, id uuid.UUID, published bool) error
	GetContent(ctx context.Context, kind models.Kind, id uuid.UUID) (models.ContentItem, error)
}

// Runner executes one fan-out run.
type Runner interface {
	Run(ctx context.Context, kind models.Kind, id uuid.UUID) fanout.Report
}

// Scheduler starts detached background work.
type Scheduler interface {
	Go(name string, fn func(ctx context.Context)) error
}

// Invalidator drops cached reader views of one content kind.
type Invalidator interface {
	InvalidateKind(ctx context.Context, kind models.Kind)
}

// Trigger is the entry point the admin surface calls after authorization.
type Trigger struct {
	store       Store
	runner      Runner
	scheduler   Scheduler
	invalidator Invalidator
	enabled     bool
	logger      *slog.Logger
}

// NewTrigger creates a Trigger. When translationEnabled is false publishing
// still works but no fan-out is scheduled. invalidator may be nil.
func NewTrigger(store Store, runner Runner, scheduler Scheduler, invalidator Invalidator, translationEnabled bool, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{
		store:       store,
		runner:      runner,
		scheduler:   scheduler,
		invalidator: invalidator,
		enabled:     translationEnabled,
		logger:      logger,
	}
}

// Publish marks the item published and schedules its fan-out. Publishing
// an already published item schedules a new fan-out. The returned error
// only ever concerns the state change.
func (t *Trigger) Publish(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	if err := t.store.SetPublished(ctx, kind, id, true); err != nil {
		return err
	}
	t.invalidate(ctx, kind)

	if !t.enabled {
		t.logger.Info("translation disabled, fan-out not scheduled", "kind", string(kind), "content_id", id.String())
		return nil
	}
	t.schedule(kind, id)
	return nil
}

// Unpublish hides the item from readers. Existing translations are kept
// and refreshed on the next Publish.
func (t *Trigger) Unpublish(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	if err := t.store.SetPublished(ctx, kind, id, false); err != nil {
		return err
	}
	t.invalidate(ctx, kind)
	return nil
}

// Retranslate schedules a fan-out for an existing item without touching
// its published state.
func (t *Trigger) Retranslate(ctx context.Context, kind models.Kind, id uuid.UUID) error {
	if !t.enabled {
		return ErrTranslationDisabled
	}
	if _, err := t.store.GetContent(ctx, kind, id); err != nil {
		return err
	}
	t.schedule(kind, id)
	return nil
}

func (t *Trigger) schedule(kind models.Kind, id uuid.UUID) {
	err := t.scheduler.Go("fanout:"+string(kind)+":"+id.String(), func(ctx context.Context) {
		t.runner.Run(ctx, kind, id)
	})
	if err != nil {
		t.logger.Warn("fan-out not scheduled", "kind", string(kind), "content_id", id.String(), "error", err)
		return
	}
	t.logger.Info("fan-out scheduled", "kind", string(kind), "content_id", id.String())
}

func (t *Trigger) invalidate(ctx context.Context, kind models.Kind) {
	if t.invalidator != nil {
		t.invalidator.InvalidateKind(ctx, kind)
	}
}
