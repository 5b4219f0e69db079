package pacman

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hvkleist/rosdep-arch-audit/internal/resolve"
)

// Per-record parser state. A marker line switches into a field and
// value lines follow until the first blank line.
type parseState int

const (
	seekingField parseState = iota
	inFieldName
	inFieldProvides
)

const (
	markerName     = "%NAME%"
	markerProvides = "%PROVIDES%"
)

// Load reads the sync databases for the given repository sections from
// dir and returns the combined name set: every canonical package name
// plus everything a package provides. A missing or malformed archive
// is fatal; there is no partial-index tolerance.
func Load(dir string, sections []string) (resolve.NameSet, error) {
	set := resolve.NewNameSet()
	for _, section := range sections {
		path := filepath.Join(dir, section+".db")
		if err := loadArchive(path, set); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return set, nil
}

func loadArchive(path string, set resolve.NameSet) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := scanRecord(tr, set); err != nil {
			return fmt.Errorf("record %s: %w", hdr.Name, err)
		}
	}
}

// scanRecord walks one package metadata record line by line. %NAME%
// and %PROVIDES% both feed the same set.
func scanRecord(r io.Reader, set resolve.NameSet) error {
	sc := bufio.NewScanner(r)
	state := seekingField
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch state {
		case seekingField:
			switch line {
			case markerName:
				state = inFieldName
			case markerProvides:
				state = inFieldProvides
			}
		case inFieldName, inFieldProvides:
			if line == "" {
				state = seekingField
				continue
			}
			set.Add(line)
		}
	}
	return sc.Err()
}
