package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soakci/soakci/cli/profile"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
env:
  RUST_TEST_THREADS: "1"
profiles:
  - name: plain
    command: [cargo, test, --all-features, --, --nocapture]
    repeat: 5
  - name: checked
    command: [cargo, +nightly, miri, test, --test, main]
    env:
      MIRIFLAGS: -Zmiri-disable-isolation
    repeat: 1
    terminal: true
`)

	fc, err := loadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"RUST_TEST_THREADS": "1"}, fc.Env)
	require.Len(t, fc.Profiles, 2)

	require.Equal(t, "plain", fc.Profiles[0].Name)
	require.Equal(t, 5, fc.Profiles[0].Repeat)
	require.False(t, fc.Profiles[0].Terminal)

	require.Equal(t, "checked", fc.Profiles[1].Name)
	require.True(t, fc.Profiles[1].Terminal)
	require.Equal(t, "-Zmiri-disable-isolation", fc.Profiles[1].Env["MIRIFLAGS"])
	require.NoError(t, validateProfiles(fc.Profiles))
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, "profiles: [unclosed")
	_, err := loadConfigFile(path)
	require.Error(t, err)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateProfiles(t *testing.T) {
	tests := []struct {
		name     string
		profiles []profile.Profile
		wantErr  string
	}{
		{
			name: "valid ladder",
			profiles: []profile.Profile{
				{Name: "plain", Argv: []string{"cargo", "test"}, Repeat: 10},
				{Name: "checked", Argv: []string{"cargo", "miri"}, Repeat: 1, Terminal: true},
			},
		},
		{
			name:     "missing name",
			profiles: []profile.Profile{{Argv: []string{"cargo"}}},
			wantErr:  "has no name",
		},
		{
			name:     "missing command",
			profiles: []profile.Profile{{Name: "plain"}},
			wantErr:  "has no command",
		},
		{
			name:     "negative repeat",
			profiles: []profile.Profile{{Name: "plain", Argv: []string{"cargo"}, Repeat: -1}},
			wantErr:  "negative repeat",
		},
		{
			name: "terminal not last",
			profiles: []profile.Profile{
				{Name: "checked", Argv: []string{"cargo"}, Terminal: true},
				{Name: "plain", Argv: []string{"cargo"}},
			},
			wantErr: "terminal but not last",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProfiles(tt.profiles)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
