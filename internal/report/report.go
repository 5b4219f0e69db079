package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/hvkleist/rosdep-arch-audit/internal/resolve"
)

// Write serializes the correction patch to path. Each entry is
// key -> {arch: [packages]}, with an unresolved key keeping an empty
// list. The document is written to a uniquely named temp file in the
// destination directory and renamed into place, so an interrupted run
// never leaves a half-written artifact under the final name.
func Write(path string, corrections map[string][]string) error {
	doc := make(map[string]map[string][]string, len(corrections))
	for key, pkgs := range corrections {
		if pkgs == nil {
			pkgs = []string{}
		}
		doc[key] = map[string][]string{"arch": pkgs}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// PrintSummary prints the per-tier counters.
func PrintSummary(w io.Writer, s resolve.Stats) {
	fmt.Fprintf(w, "Stats: %d in official repositories, %d in AUR, %d found via repology, %d not found.\n",
		s.Official, s.AUR, s.Repology, s.NotFound)
}
