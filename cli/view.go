package cli

// This file contains the view command for displaying recorded runs.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/soakci/soakci/history"
	"github.com/soakci/soakci/model"
	"github.com/urfave/cli/v2"
)

// parseViewArg interprets the view argument: empty means the last run,
// 0 or a negative integer counts back from the end, anything else is a
// hex ID prefix.
func parseViewArg(in []string) string {
	if len(in) == 0 {
		return "0"
	}
	return in[0]
}

func (a *App) view(ctx *cli.Context) error {
	arg := parseViewArg(ctx.Args().Slice())

	// Get soakci root directory
	soakciRoot, err := history.GetSoakciRoot()
	if err != nil {
		return err
	}

	// Load all history entries
	historyEntries, err := history.LoadEntries(a.logger, soakciRoot)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(historyEntries) == 0 {
		return fmt.Errorf("no history entries found")
	}

	// Sort by timestamp (newest first)
	sort.Slice(historyEntries, func(i, j int) bool {
		return historyEntries[i].History.Timestamp.After(historyEntries[j].History.Timestamp)
	})

	// Parse argument to find the target entry
	var targetEntry *history.Entry
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		// It's a number
		if parsed > 0 {
			// Positive integers are not allowed
			return fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		// 0 or negative integer: count from the end
		index := int(-parsed)
		if index >= len(historyEntries) {
			return fmt.Errorf("index %s out of range (only %d history entries)", arg, len(historyEntries))
		}
		targetEntry = &historyEntries[index]
	} else {
		// Treat as hex ID prefix
		hexID := strings.ToLower(arg)
		found := false
		for i := range historyEntries {
			if strings.HasPrefix(strings.ToLower(historyEntries[i].History.ID), hexID) {
				targetEntry = &historyEntries[i]
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no history entry found matching ID: %s", arg)
		}
	}

	return a.displayHistoryEntry(targetEntry)
}

func (a *App) displayHistoryEntry(entry *history.Entry) error {
	h := entry.History

	// Print header
	fmt.Printf("=== Run: %s ===\n", h.ID[:8])
	fmt.Printf("Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", h.Duration)
	fmt.Printf("Exit Code: %d\n", h.ExitCode)
	if h.WorkDir != "" {
		fmt.Printf("Working Dir: %s\n", h.WorkDir)
	}
	if h.Git != nil && h.Git.Commit != "" {
		fmt.Printf("Git Commit: %s", h.Git.Commit[:8])
		if h.Git.Branch != "" {
			fmt.Printf(" (%s)", h.Git.Branch)
		}
		fmt.Println()
	}
	for _, p := range h.Profiles {
		fmt.Printf("Profile %s: %d/%d invocations, exit=%d", p.Name, p.Invocations, p.Repeat, p.ExitCode)
		if p.Command != "" {
			fmt.Printf("  (%s)", p.Command)
		}
		fmt.Println()
	}
	fmt.Println()

	var stdoutArtifact *model.Artifact
	var stderrArtifact *model.Artifact
	for i := range h.Artifacts {
		artifact := &h.Artifacts[i]
		switch artifact.Type {
		case model.ArtifactTypeStdout:
			stdoutArtifact = artifact
		case model.ArtifactTypeStderr:
			stderrArtifact = artifact
		}
	}

	if stdoutArtifact != nil {
		if err := a.displayArtifact(entry.FullPath, "stdout", stdoutArtifact); err != nil {
			return err
		}
	}
	if stderrArtifact != nil {
		if err := a.displayArtifact(entry.FullPath, "stderr", stderrArtifact); err != nil {
			return err
		}
	}
	if stdoutArtifact == nil && stderrArtifact == nil {
		fmt.Println("No captured output for this run")
		fmt.Printf("History directory: %s\n", entry.FullPath)
	}
	return nil
}

func (a *App) displayArtifact(runDir, label string, artifact *model.Artifact) error {
	path := filepath.Join(runDir, artifact.File)
	fmt.Printf("Captured %s: %s\n", label, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", label, err)
	}
	fmt.Println(string(data))
	return nil
}
