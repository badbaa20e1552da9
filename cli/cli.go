package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soakci/soakci/cli/profile"
	"github.com/urfave/cli/v2"
)

const AppName = "soakci"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	runFlags := []cli.Flag{
		profile.RepeatFlag(),
		profile.ToolchainFlag(),
		profile.CheckedTestFlag(),
		profile.DisableIsolationFlag(),
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML profile ladder (default: .soakci.yaml at the project root)",
		},
	}

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Repeat a project's test suite under instrumentation profiles",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Execute the profile ladder against the test suite",
		Action: app.soak,
		Flags:  runFlags,
		Description: `Execute the profile ladder against the project's test suite.

Profiles run strictly in order and the run aborts at the first failing
invocation:

  plain      Repeated runs of the full test suite, single-threaded, to
             surface races and non-deterministic ordering bugs.
  sanitized  Repeated runs of an address-sanitized build on the
             secondary toolchain channel, to surface memory-safety
             violations.
  checked    One run of a named test target under the interpreted
             memory-model checker. This is the terminal step: its exit
             status is the run's exit status.

The process exit code equals the exit code of the first failing
invocation, or the terminal invocation's if everything before passed.`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Filter by relative path",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "View a recorded run",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Description: `View a recorded run from history.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  -2          View 3rd last run
  <hex-id>    View run matching the hex ID prefix

Examples:
  soakci view           # View last run
  soakci view -1        # View 2nd last run
  soakci view abc123    # View run with ID starting with abc123`,
	})

	// Default action when no subcommand is specified: a plain "soakci"
	// runs the whole ladder
	app.cli.Action = app.soak
	app.cli.Flags = append(app.cli.Flags, runFlags...)

	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
