package cli

// This file contains the list command for displaying previous runs.

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/soakci/soakci/history"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	filterPath := ctx.String("path")
	limit := ctx.Int("limit")

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

	// Apply path filter if specified
	var filteredEntries []history.Entry
	for _, entry := range historyEntries {
		if filterPath == "" || strings.Contains(entry.History.WorkDir, filterPath) {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	if len(filteredEntries) == 0 {
		if filterPath != "" {
			fmt.Printf("No history entries found matching path: %s\n", filterPath)
		} else {
			fmt.Println("No history entries found")
		}
		return nil
	}

	// Sort by timestamp (newest first)
	sort.Slice(filteredEntries, func(i, j int) bool {
		return filteredEntries[i].History.Timestamp.After(filteredEntries[j].History.Timestamp)
	})

	// Apply limit
	displayRuns := filteredEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== History (%d total) ===\n\n", len(filteredEntries))

	for _, entry := range displayRuns {
		h := entry.History
		timestamp := h.Timestamp.Format("2006-01-02 15:04:05")

		// Format duration
		duration := h.Duration.Round(time.Millisecond)

		// Determine status indicator
		status := "✓"
		if h.ExitCode != 0 {
			status = "✗"
		}

		// Show short ID (first 8 chars)
		shortID := h.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		fmt.Printf("%s  %s  [%s]  exit=%d  id=%s\n", status, timestamp, duration, h.ExitCode, shortID)
		for _, p := range h.Profiles {
			fmt.Printf("   %s: %d/%d invocations, exit=%d\n", p.Name, p.Invocations, p.Repeat, p.ExitCode)
		}
		if h.WorkDir != "" {
			fmt.Printf("   Path: %s\n", h.WorkDir)
		}
		if h.Git != nil && h.Git.Commit != "" {
			shortCommit := h.Git.Commit
			if len(shortCommit) > 8 {
				shortCommit = shortCommit[:8]
			}
			fmt.Printf("   Commit: %s", shortCommit)
			if h.Git.Branch != "" {
				fmt.Printf(" (%s)", h.Git.Branch)
			}
			fmt.Println()
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	fmt.Println("\nView run output: soakci view <ID>")

	return nil
}
