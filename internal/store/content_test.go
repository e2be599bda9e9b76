package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lancasterhub/internal/models"
	"lancasterhub/internal/textdir"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newContentStore(t *testing.T) *ContentStore {
	t.Helper()
	db, _ := testSQLite(t)
	seedLanguages(t, db)
	cs := NewContentStore(db)
	cs.now = fixedClock(base)
	return cs
}

func TestContentStoreCreateAndFindPost(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	created, err := cs.CreatePost(ctx, newTestPost("Street party"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.Published)

	found, err := cs.FindPost(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Street party", found.Title)
	assert.Equal(t, "Body of Street party", *found.Content)
	assert.Equal(t, "en", found.OriginalLanguage)
	assert.Equal(t, textdir.LTR, found.TextDirection)
	assert.Nil(t, found.LinkURL)
	assert.True(t, found.CreatedAt.Equal(created.CreatedAt))

	missing, err := cs.FindPost(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContentStoreCreateAndFindEvent(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	date, err := models.ParseDate("2026-04-18")
	require.NoError(t, err)

	created, err := cs.CreateEvent(ctx, &models.Event{
		OrganizerName:    "Library",
		Title:            "Story time",
		Description:      ptr("Stories for children"),
		EventDate:        date,
		EventTime:        ptr("10:30:00"),
		Category:         ptr("family"),
		IsFree:           false,
		TicketPrice:      ptr(2.5),
		OriginalLanguage: "en",
		TextDirection:    textdir.LTR,
	})
	require.NoError(t, err)

	found, err := cs.FindEvent(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2026-04-18", found.EventDate.String())
	require.NotNil(t, found.EventTime)
	assert.Equal(t, "10:30:00", *found.EventTime)
	require.NotNil(t, found.TicketPrice)
	assert.InDelta(t, 2.5, *found.TicketPrice, 0.001)
	assert.False(t, found.IsFree)
	assert.Equal(t, "family", *found.Category)
}

func TestContentStoreGetContent(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)

	item, err := cs.GetContent(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, item.ItemID())
	assert.Equal(t, models.KindPost, item.ItemKind())
	assert.Equal(t, "Hello", item.ItemTitle())
	assert.Equal(t, "en", item.ItemLanguage())

	_, err = cs.GetContent(ctx, models.KindEvent, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cs.GetContent(ctx, models.Kind("page"), p.ID)
	assert.Error(t, err)
}

func TestContentStoreSetPublished(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)

	require.NoError(t, cs.SetPublished(ctx, models.KindPost, p.ID, true))
	// Publishing an already published item is not an error.
	require.NoError(t, cs.SetPublished(ctx, models.KindPost, p.ID, true))

	found, err := cs.FindPost(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found.Published)

	require.NoError(t, cs.SetPublished(ctx, models.KindPost, p.ID, false))
	found, err = cs.FindPost(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, found.Published)

	err = cs.SetPublished(ctx, models.KindPost, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentStoreUpsertTranslationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)

	first := models.Translation{
		ContentID:     p.ID,
		LanguageCode:  "es",
		Title:         "Hola",
		Body:          ptr("Cuerpo"),
		TextDirection: textdir.LTR,
		TranslatedAt:  base.Add(time.Hour),
	}
	require.NoError(t, cs.UpsertTranslation(ctx, models.KindPost, first))

	second := first
	second.Title = "Hola de nuevo"
	second.Body = nil
	second.TranslatedAt = base.Add(2 * time.Hour)
	require.NoError(t, cs.UpsertTranslation(ctx, models.KindPost, second))

	got, err := cs.ListTranslations(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hola de nuevo", got[0].Title)
	assert.Nil(t, got[0].Body)
	assert.True(t, got[0].TranslatedAt.Equal(second.TranslatedAt))
}

func TestContentStoreUpsertTranslationDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)

	require.NoError(t, cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
		ContentID: p.ID, LanguageCode: "ar", Title: "مرحبا", TextDirection: textdir.RTL,
	}))

	got, err := cs.ListTranslations(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].TranslatedAt.IsZero())
	assert.Equal(t, textdir.RTL, got[0].TextDirection)
}

func TestContentStoreEventTranslations(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	e, err := cs.CreateEvent(ctx, &models.Event{
		OrganizerName: "Club", Title: "Match", EventDate: models.NewDate(base),
		IsFree: true, OriginalLanguage: "en", TextDirection: textdir.LTR,
	})
	require.NoError(t, err)

	for _, lang := range []string{"es", "ar"} {
		require.NoError(t, cs.UpsertTranslation(ctx, models.KindEvent, models.Translation{
			ContentID: e.ID, LanguageCode: lang, Title: "T-" + lang, Body: ptr("D-" + lang),
			TextDirection: textdir.LTR,
		}))
	}

	got, err := cs.ListTranslations(ctx, models.KindEvent, e.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ar", got[0].LanguageCode)
	assert.Equal(t, "D-ar", *got[0].Body)
	assert.Equal(t, "es", got[1].LanguageCode)
}

func TestContentStoreConcurrentUpsertsConverge(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
				ContentID: p.ID, LanguageCode: "es", Title: "Hola",
				TextDirection: textdir.LTR, TranslatedAt: base.Add(time.Duration(i) * time.Minute),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := cs.ListTranslations(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestContentStoreDeleteCascades(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	p, err := cs.CreatePost(ctx, newTestPost("Hello"))
	require.NoError(t, err)
	require.NoError(t, cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
		ContentID: p.ID, LanguageCode: "es", Title: "Hola", TextDirection: textdir.LTR,
	}))

	require.NoError(t, cs.DeleteContent(ctx, models.KindPost, p.ID))

	found, err := cs.FindPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	got, err := cs.ListTranslations(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	err = cs.DeleteContent(ctx, models.KindPost, p.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContentStoreListAll(t *testing.T) {
	ctx := context.Background()
	cs := newContentStore(t)

	first, err := cs.CreatePost(ctx, newTestPost("First"))
	require.NoError(t, err)
	second := createPublishedPost(t, cs, "Second")

	posts, err := cs.ListAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID, "newest first")
	assert.Equal(t, first.ID, posts[1].ID)
	assert.False(t, posts[1].Published, "unpublished posts are included")

	events, err := cs.ListAllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

// TestContentStorePostgresUpsert checks the upsert against the real
// Postgres schema, including overlapping writers.
func TestContentStorePostgresUpsert(t *testing.T) {
	db := testPostgres(t)
	ctx := context.Background()

	ls := NewLanguageStore(db)
	for _, l := range testLanguages[:3] {
		require.NoError(t, ls.Upsert(ctx, l))
	}

	cs := NewContentStore(db)
	p, err := cs.CreatePost(ctx, newTestPost("Integration "+uuid.NewString()[:8]))
	require.NoError(t, err)
	t.Cleanup(func() { cs.DeleteContent(ctx, models.KindPost, p.ID) })

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
				ContentID: p.ID, LanguageCode: "es", Title: "Hola", TextDirection: textdir.LTR,
			}))
		}()
	}
	wg.Wait()

	got, err := cs.ListTranslations(ctx, models.KindPost, p.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// A translation for a deleted item surfaces as ErrNotFound.
	err = cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
		ContentID: uuid.New(), LanguageCode: "es", Title: "x", TextDirection: textdir.LTR,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// An unknown language is reported separately from a missing item.
	err = cs.UpsertTranslation(ctx, models.KindPost, models.Translation{
		ContentID: p.ID, LanguageCode: "zz", Title: "x", TextDirection: textdir.LTR,
	})
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.NotErrorIs(t, err, ErrNotFound)
}
