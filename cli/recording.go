package cli

// This file contains run recording functionality for saving run
// metadata and captured output to the history directory.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soakci/soakci/model"
)

// recordRun writes the run's metadata and captured output under
// .soakci/history/<timestamp>-<commit>-<id>. Recording never changes
// the run's outcome; callers treat errors as warnings.
func (a *App) recordRun(history *model.History, stdout, stderr string) error {
	repoRoot, err := gitTopLevel()
	if err != nil {
		return fmt.Errorf("not in a git repository: %w", err)
	}
	repoName := filepath.Base(repoRoot)

	if history.Git != nil {
		history.Git.Repo = repoName
	}

	// Get relative path from repo root
	relPath := "."
	if history.WorkDir != "" {
		if rel, err := filepath.Rel(repoRoot, history.WorkDir); err == nil {
			relPath = rel
		}
	}
	history.WorkDir = relPath

	// Create directory in .soakci/history/<timestamp>-<commit>-<id>
	timestamp := history.Timestamp.Format("20060102-150405")
	shortCommit := "nocommit"
	if history.Git != nil && history.Git.Commit != "" {
		shortCommit = history.Git.Commit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
	}
	shortID := history.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	runName := fmt.Sprintf("%s-%s-%s", timestamp, shortCommit, shortID)
	runDir := filepath.Join(repoRoot, ".soakci", "history", runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	// Write captured output
	if stdout != "" {
		stdoutPath := filepath.Join(runDir, "stdout.txt")
		if err := os.WriteFile(stdoutPath, []byte(stdout), 0644); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		history.Artifacts = append(history.Artifacts, model.Artifact{
			Type: model.ArtifactTypeStdout,
			Size: uint64(len(stdout)),
			File: "stdout.txt",
		})
	}
	if stderr != "" {
		stderrPath := filepath.Join(runDir, "stderr.txt")
		if err := os.WriteFile(stderrPath, []byte(stderr), 0644); err != nil {
			return fmt.Errorf("failed to write stderr: %w", err)
		}
		history.Artifacts = append(history.Artifacts, model.Artifact{
			Type: model.ArtifactTypeStderr,
			Size: uint64(len(stderr)),
			File: "stderr.txt",
		})
	}

	// Write run metadata
	metadataPath := filepath.Join(runDir, "history.json")
	metadataJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run metadata: %w", err)
	}

	if err := os.WriteFile(metadataPath, metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write run metadata: %w", err)
	}

	a.logger.Debug().Str("dir", runDir).Str("id", history.ID).Msg("Recorded run")
	return nil
}
