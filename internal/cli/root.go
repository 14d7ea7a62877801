// Package cli holds the cobra command tree: the desktop launcher plus the
// terminal commands sharing its engine.
package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-calendar/internal/assist"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/seed"
)

// Options are the flags shared by every command.
type Options struct {
	Debug bool
	Seed  string
}

// App wires the commands to the rest of the program.
// Only Launch is required; the other fields default to production values.
type App struct {
	// Setup runs once flags are parsed, before any command but version.
	Setup func(opts Options)

	// Launch opens the desktop UI and blocks until it exits.
	Launch func(ctx context.Context, opts Options) error

	Clock   engine.Clock
	Fetcher seed.Fetcher

	// NewParser builds the natural-language parser for a model.
	NewParser func(ctx context.Context, model string) *assist.Parser
}

func (a *App) defaults() {
	if a.Clock == nil {
		a.Clock = engine.RealClock{}
	}
	if a.Fetcher == nil {
		a.Fetcher = seed.NewHTTPFetcher()
	}
	if a.NewParser == nil {
		a.NewParser = func(ctx context.Context, model string) *assist.Parser {
			return assist.New(ctx, model, engine.DefaultLocale())
		}
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(app App) *cobra.Command {
	app.defaults()
	opts := &Options{}

	root := &cobra.Command{
		Use:           config.CmdUse,
		Short:         config.CmdShort,
		Long:          config.CmdLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if cmd.Name() == config.CmdVerUse || app.Setup == nil {
				return
			}
			app.Setup(*opts)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Launch == nil {
				return cmd.Help()
			}
			return app.Launch(cmd.Context(), *opts)
		},
	}
	root.SetVersionTemplate(versionLine())

	root.PersistentFlags().BoolVar(&opts.Debug, config.FlagDebug, false, config.FlagDescDebug)
	root.PersistentFlags().StringVar(&opts.Seed, config.FlagSeed, "", config.FlagDescSeed)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newGridCmd(&app, opts))
	root.AddCommand(newParseCmd(&app))
	return root
}

// Execute runs the command tree bound to ctx.
func Execute(ctx context.Context, app App) error {
	return NewRootCmd(app).ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVerUse,
		Short: config.CmdVerShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionLine())
		},
	}
}

func versionLine() string {
	return fmt.Sprintf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}
