package repology

import (
	"context"
	"sort"
	"strings"

	"github.com/hvkleist/rosdep-arch-audit/internal/rosdep"
)

// osTable translates rosdep OS/version pairs into repology repository
// identifiers. The wildcard entry covers flat (un-versioned) mappings.
var osTable = map[string]map[string]string{
	"debian": {
		rosdep.VersionAny: "debian_stable",
		"stretch":         "debian_oldstable",
		"buster":          "debian_stable",
	},
	"ubuntu": {
		rosdep.VersionAny: "ubuntu_20_04",
		"bionic":          "ubuntu_18_04",
		"focal":           "ubuntu_20_04",
		"trusty":          "ubuntu_14_04",
		"xenial":          "ubuntu_16_04",
	},
}

// archSubrepos is the tie-break order across official subchannels.
var archSubrepos = []string{"core", "extra", "community"}

var skipSuffixes = []string{"-doc", "-docs", "-demos", "-git", "-svn", "-hg"}

type target struct {
	osID  string
	names []string
}

// translateMapping flattens a key's other-distro mapping into ordered
// (repology repo id, candidate names) pairs. OS names and version keys
// are walked in sorted order so a run is deterministic; when several
// versions map to the same repology id, the last one walked wins.
func translateMapping(m rosdep.Mapping) []target {
	byID := make(map[string][]string)
	for _, osName := range m.OSNames() {
		versions, ok := osTable[osName]
		if !ok {
			continue
		}
		cands := m.Candidates(osName)
		vers := make([]string, 0, len(cands))
		for ver := range cands {
			vers = append(vers, ver)
		}
		sort.Strings(vers)
		for _, ver := range vers {
			id, ok := versions[ver]
			if !ok {
				continue
			}
			byID[id] = cands[ver]
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]target, 0, len(ids))
	for _, id := range ids {
		out = append(out, target{osID: id, names: byID[id]})
	}
	return out
}

// Resolve looks for an Arch package equivalent to key using the
// mappings recorded for other distributions. Per-query failures are
// contained: a failed query contributes zero hits and the search moves
// on. The returned error is non-nil only when the context is done.
//
// The first target OS whose hits reach a non-empty subchannel ends the
// search: official subchannels are tried in fixed priority order, then
// the AUR. Filtering may still empty the winning set.
func (c *Client) Resolve(ctx context.Context, key string, mapping rosdep.Mapping) ([]string, error) {
	for _, t := range translateMapping(mapping) {
		var archHits []Hit
		aurHits := make(map[string]struct{})

		for _, name := range t.names {
			hits, err := c.projectBy(ctx, t.osID, name)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			for _, h := range hits {
				switch h.Repo {
				case "arch":
					archHits = append(archHits, h)
				case "aur":
					aurHits[h.Binname] = struct{}{}
				}
			}
		}

		for _, sub := range archSubrepos {
			subHits := make(map[string]struct{})
			for _, h := range archHits {
				if h.Subrepo == sub {
					subHits[h.Binname] = struct{}{}
				}
			}
			if len(subHits) > 0 {
				return filterHits(key, subHits), nil
			}
		}
		if len(aurHits) > 0 {
			return filterHits(key, aurHits), nil
		}
	}
	return nil, nil
}

// filterHits drops non-runtime variants and names that would conflate
// the key's Python generation with Arch's naming convention. A rosdep
// key starting with python- targets Python 2, while python- on Arch
// means Python 3.
func filterHits(key string, hits map[string]struct{}) []string {
	out := make([]string, 0, len(hits))
	for h := range hits {
		if hasSkipSuffix(h) {
			continue
		}
		if strings.HasPrefix(key, "python-") && strings.HasPrefix(h, "python-") {
			continue
		}
		if strings.HasPrefix(key, "python3-") && strings.HasPrefix(h, "python2-") {
			continue
		}
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func hasSkipSuffix(name string) bool {
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
