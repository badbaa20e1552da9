package cli

// This file contains invocation execution: running one test-suite
// invocation to completion and reporting its exit status.

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Invocation is one execution of the test suite under a profile's
// effective environment.
type Invocation struct {
	// Profile name this invocation belongs to
	Profile string
	// Attempt ordinal within the profile (1-based)
	Attempt int
	// Full command line, program first
	Argv []string
	// Effective environment (base process environment plus the run's
	// cumulative overlay), computed by the orchestrator per invocation
	Env []string
	// Working directory
	Dir string
}

// Result is the terminal outcome of an invocation.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Invoker runs a single invocation synchronously. The orchestrator
// blocks until the invocation terminates; there is deliberately no
// timeout, an invocation runs to natural completion.
type Invoker interface {
	Invoke(inv Invocation) (Result, error)
}

// execInvoker spawns real subprocesses. Output is streamed to the
// console unbuffered and mirrored into capture writers for history.
type execInvoker struct {
	stdout io.Writer
	stderr io.Writer
}

func newExecInvoker(stdout, stderr io.Writer) *execInvoker {
	return &execInvoker{stdout: stdout, stderr: stderr}
}

func (e *execInvoker) Invoke(inv Invocation) (Result, error) {
	start := time.Now()

	cmd := exec.Command(inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env

	// Mirror output to both the console and the capture sinks
	cmd.Stdout = io.MultiWriter(os.Stdout, e.stdout)
	cmd.Stderr = io.MultiWriter(os.Stderr, e.stderr)

	err := cmd.Run()
	res := Result{Duration: time.Since(start)}

	if err != nil {
		// Test failures surface as non-zero exit codes; that is a
		// well-defined outcome, not an invoker error
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("failed to execute %s: %w", inv.Argv[0], err)
	}

	return res, nil
}
