package rosdep

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"gopkg.in/yaml.v3"
)

// VersionAny is the version key under which a flat (un-versioned)
// candidate list is filed after normalization.
const VersionAny = "*"

// Database maps rosdep keys to their per-OS package mappings.
type Database map[string]Mapping

// Mapping is one key's entry as loaded from YAML: OS name to either a
// flat candidate list, a version-keyed map of candidate lists, or null.
// Callers go through Candidates and Flat so the three source shapes
// never leak downstream.
type Mapping map[string]any

// Fetch loads one mapping document. Any transport or parse failure is
// fatal for the run.
func Fetch(ctx context.Context, rawURL string) (Database, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var db Database
	if err := yaml.Unmarshal(body, &db); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return db, nil
}

// OSNames returns the OS identifiers present in the mapping, sorted.
func (m Mapping) OSNames() []string {
	out := make([]string, 0, len(m))
	for os := range m {
		out = append(out, os)
	}
	sort.Strings(out)
	return out
}

// Candidates normalizes one OS entry into version -> candidate names.
// A flat list is returned under VersionAny. Null entries and non-string
// items are dropped; an absent or empty entry yields nil.
func (m Mapping) Candidates(osName string) map[string][]string {
	raw, ok := m[osName]
	if !ok || raw == nil {
		return nil
	}

	// yaml.v3 decodes nested string-keyed maps using the enclosing named
	// map type, so a version-keyed entry arrives as Mapping, not
	// map[string]any; unwrap it so the switch below sees one shape.
	if mm, ok := raw.(Mapping); ok {
		raw = map[string]any(mm)
	}

	out := make(map[string][]string)
	switch v := raw.(type) {
	case []any:
		if names := stringItems(v); len(names) > 0 {
			out[VersionAny] = names
		}
	case map[string]any:
		for ver, item := range v {
			list, ok := item.([]any)
			if !ok {
				continue
			}
			if names := stringItems(list); len(names) > 0 {
				out[ver] = names
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Flat returns the OS entry only when it is a plain candidate list.
func (m Mapping) Flat(osName string) ([]string, bool) {
	raw, ok := m[osName]
	if !ok || raw == nil {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	return stringItems(list), true
}

func stringItems(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
