package resolve

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameSet holds the package namespace of one repository for O(1)
// membership checks. Canonical names and provided aliases land in the
// same set; the distinction is not kept.
type NameSet map[string]struct{}

func NewNameSet() NameSet {
	return make(NameSet)
}

// normalizeName folds compatibility forms so that names from remote
// lists and names from local archives compare equal.
func normalizeName(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Add inserts a name after normalization. Empty names are ignored.
func (s NameSet) Add(name string) {
	name = normalizeName(name)
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

func (s NameSet) Has(name string) bool {
	_, ok := s[normalizeName(name)]
	return ok
}

func (s NameSet) Len() int {
	return len(s)
}

// Names returns the members in sorted order.
func (s NameSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
