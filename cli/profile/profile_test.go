package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLadderDefaults(t *testing.T) {
	ladder := Ladder(LadderOptions{
		Repeat:           DefaultRepeat,
		DisableIsolation: true,
	})
	require.Len(t, ladder, 3)

	plain := ladder[0]
	require.Equal(t, "plain", plain.Name)
	require.Equal(t, []string{"cargo", "test", "--all-features", "--", "--nocapture"}, plain.Argv)
	require.Equal(t, 10, plain.Repeat)
	require.False(t, plain.Terminal)
	require.Empty(t, plain.Env)

	sanitized := ladder[1]
	require.Equal(t, "sanitized", sanitized.Name)
	require.Equal(t, []string{"cargo", "+nightly", "test", "--all-features", "--", "--nocapture"}, sanitized.Argv)
	require.Equal(t, 10, sanitized.Repeat)
	require.Equal(t, "-Z sanitizer=address", sanitized.Env["RUSTFLAGS"])
	// doc builds compile embedded code too, so the flags are mirrored
	require.Equal(t, "-Z sanitizer=address", sanitized.Env["RUSTDOCFLAGS"])

	checked := ladder[2]
	require.Equal(t, "checked", checked.Name)
	require.Equal(t, []string{"cargo", "+nightly", "miri", "test", "--test", "main"}, checked.Argv)
	require.Equal(t, 1, checked.Repeat)
	require.True(t, checked.Terminal)
	require.Equal(t, "-Zmiri-disable-isolation", checked.Env["MIRIFLAGS"])
}

func TestLadderIsolationKept(t *testing.T) {
	ladder := Ladder(LadderOptions{Repeat: 1})
	checked := ladder[2]
	require.NotContains(t, checked.Env, "MIRIFLAGS")
}

func TestLadderOptions(t *testing.T) {
	ladder := Ladder(LadderOptions{
		Repeat:      3,
		Toolchain:   "beta",
		CheckedTest: "integration",
	})
	require.Equal(t, 3, ladder[0].Repeat)
	require.Equal(t, "cargo", ladder[1].Argv[0])
	require.Equal(t, "+beta", ladder[1].Argv[1])
	require.Equal(t, "integration", ladder[2].Argv[len(ladder[2].Argv)-1])
}

func TestLadderNegativeRepeatClamped(t *testing.T) {
	ladder := Ladder(LadderOptions{Repeat: -1})
	require.Equal(t, 0, ladder[0].Repeat)
	require.Equal(t, 0, ladder[1].Repeat)
	// the terminal profile always runs once
	require.Equal(t, 1, ladder[2].Repeat)
}

func TestProfileCommand(t *testing.T) {
	p := Profile{Argv: []string{"cargo", "test", "--", "--nocapture"}}
	require.Equal(t, "cargo test -- --nocapture", p.Command())

	p = Profile{Argv: []string{"sh", "-c", "echo hello world"}}
	require.Equal(t, "sh -c 'echo hello world'", p.Command())
}

func TestPairs(t *testing.T) {
	require.Nil(t, Pairs(nil))
	require.Equal(t,
		[]string{"A=1", "B=2", "C=3"},
		Pairs(map[string]string{"C": "3", "A": "1", "B": "2"}))
}
