// Package cmd implements the pantherctl commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pantherexchange/internal/logging"
	"pantherexchange/pkg/catalogclient"
	apperrors "pantherexchange/pkg/errors"
)

// Exit codes.
const (
	ExitOK              = 0
	ExitError           = 1
	ExitInvalidInput    = 2
	ExitRequestFailed   = 3
	ExitPayloadTooLarge = 4
)

// options are the settings shared by every subcommand.
type options struct {
	v *viper.Viper
}

func (o *options) client() (*catalogclient.Client, error) {
	return catalogclient.New(o.v.GetString("url"),
		catalogclient.WithTimeout(o.v.GetDuration("timeout")),
		catalogclient.WithPath(o.v.GetString("path")),
		catalogclient.WithEnvelope(o.v.GetString("envelope")),
	)
}

func (o *options) format() (Format, error) {
	return ParseFormat(o.v.GetString("output"))
}

// NewRootCommand builds the pantherctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "pantherctl",
		Short: "Browse and post listings on a PantherExchange catalog",
		Long: `pantherctl talks to a PantherExchange catalog server.

The server address is taken from --url or CATALOG_URL. Every request is
sent once and bounded by --timeout (CATALOG_TIMEOUT).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logging.Config{
				Level:  opts.v.GetString("log-level"),
				Output: cmd.ErrOrStderr(),
			})
			cmd.SetContext(logging.WithLogger(cmd.Context(), &logger))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("url", "http://localhost:8080", "catalog server base URL")
	flags.Duration("timeout", catalogclient.DefaultTimeout, "per-request timeout")
	flags.String("path", catalogclient.DefaultPath, "listing collection path on the server")
	flags.String("envelope", "", `response envelope: "" or "data"`)
	flags.StringP("output", "o", "", "output format: table, json or yaml (default: table on a terminal, json otherwise)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")

	_ = opts.v.BindPFlags(flags)
	_ = opts.v.BindEnv("url", "CATALOG_URL")
	_ = opts.v.BindEnv("timeout", "CATALOG_TIMEOUT")
	_ = opts.v.BindEnv("path", "LISTINGS_PATH")
	_ = opts.v.BindEnv("envelope", "RESPONSE_ENVELOPE")

	root.AddCommand(
		newListCommand(opts),
		newGetCommand(opts),
		newCreateCommand(opts),
		newCategoriesCommand(opts),
	)
	return root
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apperrors.Is(err, apperrors.ErrPayloadTooLarge):
		return ExitPayloadTooLarge
	case apperrors.Is(err, apperrors.ErrValidation), errors.Is(err, errUsage):
		return ExitInvalidInput
	case apperrors.Is(err, apperrors.ErrRequestFailed):
		return ExitRequestFailed
	default:
		return ExitError
	}
}

var errUsage = errors.New("invalid usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}
