package model

import "time"

// History represents a single soakci run: one pass over the profile
// ladder, recorded whether it passed or aborted early.
type History struct {
	// Unique ID for this run (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory the run executed in (relative to repo root)
	WorkDir string `json:"workdir"`
	// Exit code of the run (first failure, or the terminal profile's)
	ExitCode int `json:"exit_code"`
	// Duration of the whole run
	Duration time.Duration `json:"duration"`
	// Git information
	Git *Git `json:"git,omitempty"`
	// Per-profile outcomes, in execution order
	Profiles []ProfileResult `json:"profiles,omitempty"`
	// Artifacts generated during this run
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
	// Repository name
	Repo string `json:"repo,omitempty"`
}

// ProfileResult records how far one profile got within a run.
type ProfileResult struct {
	// Profile name (e.g. "plain", "sanitized", "checked")
	Name string `json:"name"`
	// Requested repetition count
	Repeat int `json:"repeat"`
	// Invocations actually performed (equals Repeat unless aborted)
	Invocations int `json:"invocations"`
	// Exit code of the last invocation of this profile
	ExitCode int `json:"exit_code"`
	// Rendered command line, for display
	Command string `json:"command,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypeStdout ArtifactType = iota
	ArtifactTypeStderr
)

// Artifact represents a file generated during a run
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to run dir
}
