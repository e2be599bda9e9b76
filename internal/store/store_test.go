// store_test.go provides the shared database helpers for store tests.
// Most tests run against an in-memory SQLite schema equivalent to the
// Postgres migrations; the Postgres integration tests are skipped if
// PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"lancasterhub/internal/database"
	"lancasterhub/internal/models"
	"lancasterhub/internal/textdir"
)

const sqliteSchema = `
CREATE TABLE supported_languages (
	code           TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	native_name    TEXT NOT NULL,
	is_rtl         BOOLEAN NOT NULL DEFAULT 0,
	text_direction TEXT NOT NULL DEFAULT 'ltr',
	enabled        BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE posts (
	id                TEXT PRIMARY KEY,
	author_name       TEXT NOT NULL,
	author_email      TEXT,
	title             TEXT NOT NULL,
	content           TEXT,
	link_url          TEXT,
	image_url         TEXT,
	post_type         TEXT NOT NULL DEFAULT 'news',
	original_language TEXT NOT NULL REFERENCES supported_languages(code),
	text_direction    TEXT NOT NULL DEFAULT 'ltr',
	published         BOOLEAN NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL
);

CREATE TABLE events (
	id                TEXT PRIMARY KEY,
	organizer_name    TEXT NOT NULL,
	organizer_email   TEXT,
	title             TEXT NOT NULL,
	description       TEXT,
	event_date        DATE NOT NULL,
	event_time        TEXT,
	location          TEXT,
	category          TEXT,
	is_free           BOOLEAN NOT NULL DEFAULT 1,
	ticket_price      REAL,
	ticket_url        TEXT,
	original_language TEXT NOT NULL REFERENCES supported_languages(code),
	text_direction    TEXT NOT NULL DEFAULT 'ltr',
	published         BOOLEAN NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL
);

CREATE TABLE post_translations (
	post_id        TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	language_code  TEXT NOT NULL REFERENCES supported_languages(code),
	title          TEXT NOT NULL,
	content        TEXT,
	text_direction TEXT NOT NULL,
	translated_at  TIMESTAMP NOT NULL,
	UNIQUE (post_id, language_code)
);

CREATE TABLE event_translations (
	event_id       TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	language_code  TEXT NOT NULL REFERENCES supported_languages(code),
	title          TEXT NOT NULL,
	description    TEXT,
	text_direction TEXT NOT NULL,
	translated_at  TIMESTAMP NOT NULL,
	UNIQUE (event_id, language_code)
);
`

// testSQLite opens a private in-memory SQLite database with the schema
// applied and returns it both as *sql.DB and wrapped in bun.
func testSQLite(t *testing.T) (*sql.DB, *bun.DB) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_fk=1"
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.Exec(sqliteSchema); err != nil {
		sqldb.Close()
		t.Fatalf("create schema: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })
	return sqldb, bunDB
}

// testLanguages is the language set most tests run with.
var testLanguages = []models.Language{
	{Code: "en", Name: "English", NativeName: "English", Enabled: true},
	{Code: "es", Name: "Spanish", NativeName: "Español", Enabled: true},
	{Code: "ar", Name: "Arabic", NativeName: "العربية", IsRTL: true, Enabled: true},
	{Code: "fr", Name: "French", NativeName: "Français", Enabled: false},
}

func seedLanguages(t *testing.T, db *sql.DB) *LanguageStore {
	t.Helper()
	ls := NewLanguageStore(db)
	for _, l := range testLanguages {
		if err := ls.Upsert(context.Background(), l); err != nil {
			t.Fatalf("seed language %s: %v", l.Code, err)
		}
	}
	return ls
}

// fixedClock returns a now func starting at base and advancing one second
// per call, so rows created in sequence have distinct timestamps.
func fixedClock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func ptr[T any](v T) *T { return &v }

func newTestPost(title string) *models.Post {
	return &models.Post{
		AuthorName:       "Ada",
		Title:            title,
		Content:          ptr("Body of " + title),
		PostType:         "news",
		OriginalLanguage: "en",
		TextDirection:    textdir.LTR,
	}
}

// createPublishedPost inserts a post and publishes it.
func createPublishedPost(t *testing.T, cs *ContentStore, title string) *models.Post {
	t.Helper()
	ctx := context.Background()
	p, err := cs.CreatePost(ctx, newTestPost(title))
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := cs.SetPublished(ctx, models.KindPost, p.ID, true); err != nil {
		t.Fatalf("SetPublished: %v", err)
	}
	p.Published = true
	return p
}

// --- Postgres integration helpers ---

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "lancasterhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "lancasterhub")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testPostgres opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testPostgres(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}
