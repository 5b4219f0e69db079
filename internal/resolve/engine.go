package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hvkleist/rosdep-arch-audit/internal/rosdep"
)

// targetOS is the distribution identifier audited in the mapping
// database.
const targetOS = "arch"

// Stats counts how each processed key was resolved. The four counters
// are mutually exclusive; keys that were already valid count nowhere.
type Stats struct {
	Official int
	AUR      int
	Repology int
	NotFound int
}

// Outcome is the result of one engine run. Corrections holds the
// output entries (key to Arch package list, empty list meaning not
// found); already-valid keys are deliberately absent so the artifact
// stays a patch of corrections rather than a full republish.
// Suggestions carries fuzzy near-matches for unresolved keys, for the
// operator only.
type Outcome struct {
	Corrections map[string][]string
	Suggestions map[string][]string
	Stats       Stats
}

// CrossReferencer is the last resolution tier: find an Arch equivalent
// for a key via its mappings on other distributions.
type CrossReferencer interface {
	Resolve(ctx context.Context, key string, mapping rosdep.Mapping) ([]string, error)
}

// Engine validates every key against the two name sets and runs the
// fallback tiers for the rest. It holds no mutable state; per-run
// results are threaded through Outcome.
type Engine struct {
	Official NameSet
	AUR      NameSet
	XRef     CrossReferencer

	// Logf receives progress lines. Nil silences them.
	Logf func(format string, args ...any)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

// Process walks the database in sorted key order and resolves every
// invalid or missing entry. It stops early only when the context is
// done.
func (e *Engine) Process(ctx context.Context, db rosdep.Database) (Outcome, error) {
	out := Outcome{
		Corrections: make(map[string][]string),
		Suggestions: make(map[string][]string),
	}

	keys := make([]string, 0, len(db))
	for key := range db {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if e.isValid(key, db[key]) {
			continue
		}
		if err := e.resolveKey(ctx, key, db[key], &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// isValid reports whether the key's existing entry already resolves:
// non-empty and entirely within one of the two sets, never a mix.
func (e *Engine) isValid(key string, m rosdep.Mapping) bool {
	entries, ok := m.Flat(targetOS)
	if !ok || len(entries) == 0 {
		return false
	}
	if allIn(entries, e.Official) || allIn(entries, e.AUR) {
		return true
	}
	e.logf("Invalid rosdep key: %s: [%s]\n", key, strings.Join(entries, ", "))
	return false
}

func allIn(names []string, set NameSet) bool {
	for _, n := range names {
		if !set.Has(n) {
			return false
		}
	}
	return true
}

// resolveKey runs the fallback tiers in order, stopping at the first
// success. Exactly one counter is incremented and exactly one output
// entry written per key.
func (e *Engine) resolveKey(ctx context.Context, key string, m rosdep.Mapping, out *Outcome) error {
	e.logf("Looking for key %s ...\n", key)

	guess := GuessName(key)
	if e.Official.Has(guess) {
		out.Corrections[key] = []string{guess}
		out.Stats.Official++
		return nil
	}
	if e.AUR.Has(guess) {
		out.Corrections[key] = []string{guess}
		out.Stats.AUR++
		return nil
	}

	pkgs, err := e.XRef.Resolve(ctx, key, m)
	if err != nil {
		return fmt.Errorf("cross-reference %s: %w", key, err)
	}
	if len(pkgs) > 0 {
		out.Corrections[key] = pkgs
		out.Stats.Repology++
		return nil
	}

	out.Corrections[key] = []string{}
	out.Stats.NotFound++
	if sugg := Suggest(key, e.Official, 3); len(sugg) > 0 {
		out.Suggestions[key] = sugg
	}
	return nil
}

// GuessName applies the naming-convention substitution: rosdep's
// python- keys are Python 2, which Arch names python2-, and python3-
// keys match Arch's plain python- prefix.
func GuessName(key string) string {
	switch {
	case strings.HasPrefix(key, "python-"):
		return "python2-" + strings.TrimPrefix(key, "python-")
	case strings.HasPrefix(key, "python3-"):
		return "python-" + strings.TrimPrefix(key, "python3-")
	}
	return key
}
