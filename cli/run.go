package cli

// This file contains the soak run orchestration: sequencing the profile
// ladder, repeating invocations, aborting at the first failure, and
// delegating the terminal profile's exit status.

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/soakci/soakci/cli/profile"
	"github.com/soakci/soakci/model"
	"github.com/urfave/cli/v2"
)

// runConfig is the fully resolved configuration for one run: working
// directory, base environment, run-level overrides, and the ordered
// profile ladder.
type runConfig struct {
	Dir      string
	BaseEnv  []string
	Env      map[string]string
	Profiles []profile.Profile
}

func (a *App) soak(ctx *cli.Context) error {
	startTime := time.Now()

	// Generate random 16-byte ID
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}
	runID := hex.EncodeToString(idBytes)

	history := &model.History{
		ID:        runID,
		Timestamp: startTime,
		Args:      os.Args,
	}

	// Establish a stable working directory regardless of where the
	// caller invoked us from
	dir, err := a.projectRoot()
	if err != nil {
		return err
	}
	history.WorkDir = dir

	// Capture git info (non-fatal if it fails)
	if commit, branch, err := a.getGitInfo(); err == nil {
		history.Git = &model.Git{
			Commit: commit,
			Branch: branch,
		}
	}

	cfg, err := a.buildRunConfig(ctx, dir)
	if err != nil {
		return err
	}

	// Capture all invocation output for history
	var stdoutBuf, stderrBuf bytes.Buffer
	invoker := newExecInvoker(&stdoutBuf, &stderrBuf)

	exitCode, runErr := a.orchestrate(cfg, invoker, history)

	history.Duration = time.Since(startTime)
	history.ExitCode = exitCode

	// Record the run (non-fatal if it fails)
	if err := a.recordRun(history, stdoutBuf.String(), stderrBuf.String()); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record history")
	}

	if runErr != nil {
		// A failure to launch the test command presents exactly like a
		// failing test: the run aborts with a non-zero status
		a.logger.Error().Err(runErr).Msg("Run aborted")
		return cli.Exit("", exitCode)
	}
	if exitCode != 0 {
		return cli.Exit("", exitCode)
	}

	a.logger.Info().Msg("All profiles completed successfully")
	return nil
}

// orchestrate executes the profile ladder in declared order. Profiles
// repeat strictly in sequence and the run stops at the first non-zero
// invocation. The terminal profile runs exactly once and its exit
// status becomes the run's exit status, success or failure.
func (a *App) orchestrate(cfg runConfig, invoker Invoker, hist *model.History) (int, error) {
	overlay := newEnvOverlay()

	// Run-level overrides come first (single-threaded test execution)
	overlay.apply(profile.Pairs(cfg.Env))

	for _, p := range cfg.Profiles {
		overlay.apply(p.EnvPairs())

		repeat := p.Repeat
		if p.Terminal {
			repeat = 1
		}

		result := model.ProfileResult{
			Name:    p.Name,
			Repeat:  repeat,
			Command: p.Command(),
		}

		for attempt := 1; attempt <= repeat; attempt++ {
			a.logger.Info().
				Str("profile", p.Name).
				Int("attempt", attempt).
				Int("of", repeat).
				Str("command", p.Command()).
				Msg("Starting invocation")

			res, err := invoker.Invoke(Invocation{
				Profile: p.Name,
				Attempt: attempt,
				Argv:    p.Argv,
				Env:     overlay.merged(cfg.BaseEnv),
				Dir:     cfg.Dir,
			})
			result.Invocations = attempt

			if err != nil {
				result.ExitCode = 1
				hist.Profiles = append(hist.Profiles, result)
				return 1, err
			}
			result.ExitCode = res.ExitCode

			if res.ExitCode != 0 {
				hist.Profiles = append(hist.Profiles, result)
				a.logger.Info().
					Str("profile", p.Name).
					Int("attempt", attempt).
					Int("exit_code", res.ExitCode).
					Msg("Invocation failed, aborting run")
				return res.ExitCode, nil
			}

			a.logger.Debug().
				Str("profile", p.Name).
				Int("attempt", attempt).
				Dur("duration", res.Duration).
				Msg("Invocation succeeded")
		}

		hist.Profiles = append(hist.Profiles, result)

		if p.Terminal {
			// Terminal state: the run ends here with the last
			// invocation's status, nothing executes after it
			return result.ExitCode, nil
		}
	}

	return 0, nil
}

// projectRoot resolves the enclosing git repository root so relative
// paths are reproducible no matter where the orchestrator was invoked
// from. Outside a repository it falls back to the caller's directory.
func (a *App) projectRoot() (string, error) {
	root, err := gitTopLevel()
	if err != nil {
		cwd, wderr := os.Getwd()
		if wderr != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", wderr)
		}
		a.logger.Warn().Str("dir", cwd).Msg("Not in a git repository, using current directory")
		return cwd, nil
	}
	return root, nil
}
