// Command lancasterctl performs maintenance tasks against a community hub
// deployment: migrations, language seeding, manual re-translation and
// admin credential setup. Connection settings come from the same
// environment variables as the server.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

// Replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func newParser() *flags.Parser {
	parser := flags.NewNamedParser("lancasterctl", flags.Default)
	parser.ShortDescription = "community hub maintenance tool"

	mustAdd(parser, "migrate", "Apply or roll back database migrations", &migrateCommand{})
	mustAdd(parser, "seed", "Seed the supported language table", &seedCommand{})
	mustAdd(parser, "retranslate", "Run a translation fan-out for one item and wait for it", &retranslateCommand{})
	mustAdd(parser, "detect", "Classify the direction of a text and detect its language", &detectCommand{})
	mustAdd(parser, "hash-password", "Print a bcrypt hash for ADMIN_PASSWORD_HASH", &hashPasswordCommand{})
	mustAdd(parser, "totp-secret", "Generate a TOTP secret for ADMIN_TOTP_SECRET", &totpSecretCommand{})
	return parser
}

func mustAdd(p *flags.Parser, name, short string, data any) {
	if _, err := p.AddCommand(name, short, short, data); err != nil {
		panic(fmt.Sprintf("register %s command: %v", name, err))
	}
}

func main() {
	if _, err := newParser().Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		// flags.Default already printed parse errors.
		if !errors.As(err, &flagsErr) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
