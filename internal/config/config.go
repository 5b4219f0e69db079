package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config holds every run setting. All fields have working defaults so
// the tool runs without a config file.
type Config struct {
	SyncDir      string
	Sections     []string
	AURURL       string
	RosdistroURL string
	MappingFiles []string
	OutputPath   string
	RepologyURL  string
}

func Default() Config {
	return Config{
		SyncDir:      "/var/lib/pacman/sync",
		Sections:     []string{"core", "extra", "community"},
		AURURL:       "https://aur.archlinux.org/packages.gz",
		RosdistroURL: "https://raw.githubusercontent.com/ros/rosdistro/master/rosdep",
		MappingFiles: []string{"base.yaml", "python.yaml"},
		OutputPath:   "arch-with-aur.yaml",
		RepologyURL:  "https://repology.org",
	}
}

// Load reads settings from an ini file, keeping defaults for anything
// left unset.
func Load(path string) (Config, error) {
	c := Default()
	cfg, err := ini.Load(path)
	if err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}

	sec := cfg.Section("audit")
	if v := sec.Key("sync_dir").String(); v != "" {
		c.SyncDir = v
	}
	if v := sec.Key("sections").Strings(","); len(v) > 0 {
		c.Sections = v
	}
	if v := sec.Key("aur_url").String(); v != "" {
		c.AURURL = v
	}
	if v := sec.Key("rosdistro_url").String(); v != "" {
		c.RosdistroURL = v
	}
	if v := sec.Key("mapping_files").Strings(","); len(v) > 0 {
		c.MappingFiles = v
	}
	if v := sec.Key("output").String(); v != "" {
		c.OutputPath = v
	}

	if v := cfg.Section("repology").Key("base_url").String(); v != "" {
		c.RepologyURL = v
	}
	return c, nil
}
