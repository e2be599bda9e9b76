package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"

	"lancasterhub/internal/auth"
	"lancasterhub/internal/config"
	"lancasterhub/internal/database"
	"lancasterhub/internal/fanout"
	"lancasterhub/internal/models"
	"lancasterhub/internal/store"
	"lancasterhub/internal/textdir"
	"lancasterhub/internal/translation"
)

// connect loads the environment configuration and opens the database.
func connect(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newGateway(cfg *config.Config) translation.Gateway {
	return translation.New(translation.Config{
		APIKey:            cfg.TranslateAPIKey,
		BaseURL:           cfg.TranslateBaseURL,
		Timeout:           cfg.TranslateTimeout,
		RequestsPerSecond: cfg.TranslateRPS,
	})
}

type migrateCommand struct {
	Down   bool `long:"down" description:"Roll back the most recent migration"`
	Status bool `long:"status" description:"Print the current schema version and exit"`
}

func (c *migrateCommand) Execute([]string) error {
	_, db, err := connect(context.Background())
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case c.Status:
	case c.Down:
		if err := database.Rollback(db); err != nil {
			return err
		}
	default:
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	version, err := database.Version(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema version %d\n", version)
	return nil
}

type seedCommand struct {
	File      string `long:"file" short:"f" description:"YAML language list to load instead of the built-in one"`
	Overwrite bool   `long:"overwrite" description:"Update names, direction and enabled flags of existing languages"`
	Demo      bool   `long:"demo" description:"Also insert unpublished sample posts and events"`
}

func (c *seedCommand) languages() ([]models.Language, error) {
	if c.File == "" {
		return database.DefaultLanguages()
	}
	return database.LoadLanguages(c.File)
}

func (c *seedCommand) Execute([]string) error {
	langs, err := c.languages()
	if err != nil {
		return err
	}

	ctx := context.Background()
	_, db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Overwrite {
		languages := store.NewLanguageStore(db)
		for _, l := range langs {
			if err := languages.Upsert(ctx, l); err != nil {
				return err
			}
		}
		fmt.Fprintf(stdout, "upserted %d languages\n", len(langs))
	} else {
		n, err := database.SeedLanguages(ctx, db, langs)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "inserted %d of %d languages\n", n, len(langs))
	}

	if !c.Demo {
		return nil
	}
	posts, events, err := database.SeedDemo(ctx, store.NewContentStore(db), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "inserted %d demo posts and %d demo events (unpublished)\n", posts, events)
	return nil
}

type retranslateCommand struct {
	Args struct {
		Kind string `positional-arg-name:"kind" description:"post or event"`
		ID   string `positional-arg-name:"id" description:"content UUID"`
	} `positional-args:"yes" required:"yes"`
}

func (c *retranslateCommand) target() (models.Kind, uuid.UUID, error) {
	kind, err := models.ParseKind(c.Args.Kind)
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(c.Args.ID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid id %q: %w", c.Args.ID, err)
	}
	return kind, id, nil
}

func (c *retranslateCommand) Execute([]string) error {
	kind, id, err := c.target()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	gateway := newGateway(cfg)
	if !gateway.Enabled() {
		return errors.New("GOOGLE_TRANSLATE_API_KEY is not set")
	}
	policy, err := fanout.ParseDirectionPolicy(cfg.FanoutDirectionPolicy)
	if err != nil {
		return err
	}

	content := store.NewContentStore(db)
	item, err := content.GetContent(ctx, kind, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%s %s not found", kind, id)
	}

	orchestrator := fanout.NewOrchestrator(content, store.NewLanguageStore(db), gateway, fanout.Config{
		Delay:           cfg.FanoutDelay,
		DirectionPolicy: policy,
	}, slog.Default())

	printReport(orchestrator.Run(ctx, kind, id))
	return nil
}

func printReport(r fanout.Report) {
	fmt.Fprintf(stdout, "%s %s\n", r.Kind, r.ContentID)
	for _, row := range []struct {
		label string
		codes []string
	}{
		{"translated", r.Translated},
		{"partial", r.Partial},
		{"failed", r.Failed},
		{"skipped", r.Skipped},
	} {
		fmt.Fprintf(stdout, "  %-10s %d %s\n", row.label, len(row.codes), strings.Join(row.codes, ","))
	}
}

type detectCommand struct {
	Lang   string `long:"lang" short:"l" description:"Language code used for direction classification"`
	Remote bool   `long:"remote" description:"Also ask the translation service to detect the language"`
	Args   struct {
		Text []string `positional-arg-name:"text" required:"1"`
	} `positional-args:"yes"`
}

func (c *detectCommand) Execute([]string) error {
	text := strings.Join(c.Args.Text, " ")
	fmt.Fprintf(stdout, "direction %s\n", textdir.Classify(text, c.Lang))

	if !c.Remote {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	det, err := newGateway(cfg).DetectLanguage(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "language %s (confidence %.2f, %s)\n", det.Language, det.Confidence, det.TextDirection)
	return nil
}

type hashPasswordCommand struct {
	Password string `long:"password" description:"Password to hash; read from stdin when omitted"`
}

func (c *hashPasswordCommand) Execute([]string) error {
	password := c.Password
	if password == "" {
		var err error
		if password, err = readPassword(); err != nil {
			return err
		}
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, hash)
	return nil
}

// readPassword reads the first line of stdin.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type totpSecretCommand struct {
	QR string `long:"qr" description:"Also write the enrollment QR code PNG to this path"`
}

func (c *totpSecretCommand) Execute([]string) error {
	secret, err := auth.GenerateSecret()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ADMIN_TOTP_SECRET=%s\n", secret)

	if c.QR == "" {
		return nil
	}
	a, err := auth.New("unused", "", secret)
	if err != nil {
		return err
	}
	png, err := a.ProvisioningQR()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.QR, png, 0o600); err != nil {
		return fmt.Errorf("write qr: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", c.QR)
	return nil
}
