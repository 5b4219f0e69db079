package aur

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hvkleist/rosdep-arch-audit/internal/resolve"
)

// Fetch downloads the AUR package-name snapshot (a gzip-compressed
// newline-delimited list) and returns it as a name set. Any transport
// or decode failure is fatal; resolution cannot run without this set.
func Fetch(ctx context.Context, rawURL string) (resolve.NameSet, error) {
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

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	set := resolve.NewNameSet()
	sc := bufio.NewScanner(gz)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			set.Add(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read package list: %w", err)
	}
	return set, nil
}
