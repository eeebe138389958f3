package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/padasch/french-nfi-dashboard/internal/lists"
	"github.com/padasch/french-nfi-dashboard/internal/model"
)

// Config holds all user-facing configuration for nfi-dash.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Assets   AssetsConfig   `toml:"assets"`
	Lists    ListsConfig    `toml:"lists"`
	Dataset  DatasetConfig  `toml:"dataset"`
	Server   ServerConfig   `toml:"server"`
	Download DownloadConfig `toml:"download"`
	Log      LogConfig      `toml:"log"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

// AssetsConfig points at the pre-rendered figure tree.
type AssetsConfig struct {
	Dir string `toml:"dir"`
}

// ListsConfig names the line-delimited group value files.
type ListsConfig struct {
	Species    string `toml:"species"`
	Heights    string `toml:"heights"`
	Ecoregions string `toml:"ecoregions"`
	Regions    string `toml:"regions"`
}

type DatasetConfig struct {
	CSV string `toml:"csv"`
}

type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// DownloadConfig limits dataset downloads per second across all clients.
type DownloadConfig struct {
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data:   DataConfig{Dir: "data"},
		Assets: AssetsConfig{Dir: "figs"},
		Lists: ListsConfig{
			Species:    "species.txt",
			Heights:    "treesizes.txt",
			Ecoregions: "ecoregions.txt",
			Regions:    "regions.txt",
		},
		Dataset:  DatasetConfig{CSV: "data/nfi_trees.csv"},
		Server:   ServerConfig{Host: "localhost", Port: 8501, ShutdownTimeout: Duration{10 * time.Second}},
		Download: DownloadConfig{RateLimit: 1.0, Burst: 3},
		Log:      LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ListFiles maps each group kind to its configured list file.
func (c *Config) ListFiles() lists.Files {
	return lists.Files{
		model.GroupSpecies:          c.Lists.Species,
		model.GroupTreeHeight:       c.Lists.Heights,
		model.GroupGreaterEcoregion: c.Lists.Ecoregions,
		model.GroupRegion:           c.Lists.Regions,
	}
}
