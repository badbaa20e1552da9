package profile

// profile.go contains the instrumentation profile type and the builders
// for the default profile ladder.

import (
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/urfave/cli/v2"
)

// Default values reproducing the observed configuration.
const (
	DefaultRepeat      = 10
	DefaultToolchain   = "nightly"
	DefaultCheckedTest = "main"
)

// Profile is one named instrumentation configuration: the command to
// invoke, the environment overrides layered onto the run when the
// profile begins, and how often the command is repeated. A Profile is
// built once at run start and never modified afterwards.
type Profile struct {
	Name string `yaml:"name"`
	// Argv is the full command line, program first.
	Argv []string `yaml:"command"`
	// Env entries are layered onto the run's cumulative overlay when
	// the profile begins and stay in effect for the rest of the run.
	Env map[string]string `yaml:"env,omitempty"`
	// Repeat is the invocation count. Zero means the profile is
	// skipped entirely.
	Repeat int `yaml:"repeat"`
	// Terminal marks the profile whose single invocation ends the run:
	// its exit status is the run's exit status and nothing executes
	// after it.
	Terminal bool `yaml:"terminal,omitempty"`
}

// LadderOptions parameterizes the default three-profile ladder.
type LadderOptions struct {
	// Repetitions for the non-terminal profiles
	Repeat int
	// Toolchain channel for the instrumented profiles (e.g. "nightly")
	Toolchain string
	// Test target the model checker is restricted to
	CheckedTest string
	// Let the model-checked interpreter reach real system resources
	DisableIsolation bool
}

// SerialOverlay returns the run-level environment override forcing
// single-threaded test execution, applied before any profile runs.
func SerialOverlay() map[string]string {
	return map[string]string{"RUST_TEST_THREADS": "1"}
}

// Ladder builds the default profile sequence: repeated plain runs,
// repeated address-sanitized runs on the secondary toolchain, then a
// single terminal run under the memory-model checker.
func Ladder(opts LadderOptions) []Profile {
	if opts.Repeat < 0 {
		opts.Repeat = 0
	}
	if opts.Toolchain == "" {
		opts.Toolchain = DefaultToolchain
	}
	if opts.CheckedTest == "" {
		opts.CheckedTest = DefaultCheckedTest
	}

	sanitizerFlags := "-Z sanitizer=address"

	checked := Profile{
		Name: "checked",
		Argv: []string{
			"cargo", "+" + opts.Toolchain, "miri", "test",
			"--test", opts.CheckedTest,
		},
		Repeat:   1,
		Terminal: true,
	}
	if opts.DisableIsolation {
		checked.Env = map[string]string{
			"MIRIFLAGS": "-Zmiri-disable-isolation",
		}
	}

	return []Profile{
		{
			Name:   "plain",
			Argv:   []string{"cargo", "test", "--all-features", "--", "--nocapture"},
			Repeat: opts.Repeat,
		},
		{
			Name: "sanitized",
			Argv: []string{
				"cargo", "+" + opts.Toolchain, "test",
				"--all-features", "--", "--nocapture",
			},
			Env: map[string]string{
				"RUSTFLAGS":    sanitizerFlags,
				"RUSTDOCFLAGS": sanitizerFlags,
			},
			Repeat: opts.Repeat,
		},
		checked,
	}
}

// Command renders the profile's command line with proper shell escaping,
// for logging and history display.
func (p Profile) Command() string {
	parts := make([]string, 0, len(p.Argv))
	for _, arg := range p.Argv {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// EnvPairs returns the profile's environment overrides as KEY=VALUE
// pairs in deterministic (sorted) order.
func (p Profile) EnvPairs() []string {
	return Pairs(p.Env)
}

// Pairs converts environment overrides to KEY=VALUE pairs in sorted
// key order.
func Pairs(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

// RepeatFlag returns the repetition count flag.
func RepeatFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "repeat",
		Aliases: []string{"n"},
		Usage:   "Invocations per non-terminal profile",
		Value:   DefaultRepeat,
	}
}

// ToolchainFlag returns the secondary toolchain channel flag.
func ToolchainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "toolchain",
		Usage: "Toolchain channel for the sanitized and checked profiles",
		Value: DefaultToolchain,
	}
}

// CheckedTestFlag returns the flag naming the test target the
// model-checked profile is restricted to.
func CheckedTestFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "checked-test",
		Usage: "Test target to run under the memory-model checker",
		Value: DefaultCheckedTest,
	}
}

// DisableIsolationFlag returns the flag controlling whether the
// model-checked interpreter may access real system resources. Both
// settings are in active use; the default keeps isolation disabled.
func DisableIsolationFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "disable-isolation",
		Usage: "Allow the memory-model checker to access host resources",
		Value: true,
	}
}
