// Package cli implements charterctl, a command-line client that runs charter
// searches in-process without starting the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/charter-search/charter-availability/internal/app"
	"github.com/charter-search/charter-availability/internal/config"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/usecase"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// Runtime is what a command needs to run a search.
type Runtime struct {
	UseCase usecase.CharterSearchUseCase
	Close   func(ctx context.Context) error
}

// Opener builds a Runtime. Commands call it only after their flags validate,
// so a bad invocation never launches a browser.
type Opener func(ctx context.Context) (*Runtime, error)

// OpenApp loads configuration from the environment and assembles the service.
// Logs go to stderr so stdout carries only JSON.
func OpenApp(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithOutput(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "charterctl",
	}, os.Stderr)

	a, err := app.New(ctx, cfg, app.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &Runtime{UseCase: a.UseCase, Close: a.Close}, nil
}

// NewRootCmd builds the charterctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "charterctl",
		Short:         "Search charter operator portals for seat availability",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCmd(open))
	root.AddCommand(newOperatorsCmd(open))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs charterctl against the real service components.
func Execute() {
	if err := NewRootCmd(OpenApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "charterctl %s (%s)\n", Version, CommitSHA)
		},
	}
}

// withRuntime opens a Runtime, runs fn and always closes it.
func withRuntime(ctx context.Context, open Opener, fn func(rt *Runtime) error) (err error) {
	rt, err := open(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		if rt.Close == nil {
			return
		}
		if cerr := rt.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("shutdown: %w", cerr)
		}
	}()
	return fn(rt)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
