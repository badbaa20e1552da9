package cli

// This file contains the cumulative environment overlay applied across
// the profile ladder.

import "strings"

// envOverlay is the ordered set of environment overrides accumulated
// over a run. Overrides are never removed: each profile's entries are
// layered on top of whatever earlier profiles set, and stay in effect
// for every subsequent invocation.
type envOverlay struct {
	pairs []string
	index map[string]int
}

func newEnvOverlay() *envOverlay {
	return &envOverlay{index: make(map[string]int)}
}

// apply layers KEY=VALUE pairs onto the overlay. A repeated key keeps
// its original position but takes the new value.
func (o *envOverlay) apply(pairs []string) {
	for _, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if i, seen := o.index[key]; seen {
			o.pairs[i] = pair
			continue
		}
		o.index[key] = len(o.pairs)
		o.pairs = append(o.pairs, pair)
	}
}

// merged computes the effective environment for one invocation: the
// base environment with overlaid keys shadowed, followed by the overlay
// in insertion order.
func (o *envOverlay) merged(base []string) []string {
	env := make([]string, 0, len(base)+len(o.pairs))
	for _, pair := range base {
		key, _, ok := strings.Cut(pair, "=")
		if ok {
			if _, shadowed := o.index[key]; shadowed {
				continue
			}
		}
		env = append(env, pair)
	}
	return append(env, o.pairs...)
}
