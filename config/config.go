package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jsphweid/genomedex/constants"
	"github.com/jsphweid/genomedex/model"
)

// Config is everything the serve command needs. Sources, in order of
// precedence: CLI flags, GENOMEDEX_* environment variables, an optional YAML
// config file, defaults.
type Config struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" validate:"required"`

	// Tracks are the files exposed to the viewer.
	Tracks []TrackConfig `mapstructure:"tracks" validate:"required,min=1,dive"`

	// Loci are the regions of interest, e.g. "chr7:55019017-55211628".
	Loci []string `mapstructure:"loci"`

	// LociPerPage controls viewer pagination. 0 means the default.
	LociPerPage int `mapstructure:"loci_per_page" validate:"gte=0"`

	// PermittedIPs is the client allowlist. Empty means any client.
	PermittedIPs []string `mapstructure:"permitted_ips"`

	// Reference is the path to a .fasta whose .fai index sits next to it.
	// Both get exposed when set.
	Reference string `mapstructure:"reference"`

	// MetadataTable names a DynamoDB table with per-file display metadata.
	// Empty disables the lookup.
	MetadataTable string `mapstructure:"metadata_table"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// TrackConfig is one exposed file as written in the config file or derived
// from a CLI argument.
type TrackConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	Name string `mapstructure:"name"`
	// HasIndex defaults to true for .bam paths when unset.
	HasIndex *bool `mapstructure:"has_index"`
}

// Load reads the config file at path (optional when path is empty) and
// layers environment variables on top. Callers merge CLI overrides and then
// call Finalize.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", constants.DefaultAddr)
	v.SetDefault("loci_per_page", constants.DefaultLociPerPage)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("GENOMEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about, so bind every
	// scalar key explicitly or env-only configs would silently lose values.
	for _, key := range []string{
		"addr", "loci", "loci_per_page", "permitted_ips",
		"reference", "metadata_table", "log_level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults and validates. Call it after any CLI overrides
// have been merged in.
func (cfg *Config) Finalize() error {
	if err := ApplyDefaults(cfg); err != nil {
		return err
	}
	return Validate(cfg)
}

// ApplyDefaults normalizes the config in place: track and reference paths
// become absolute and clean, display names fall back to basenames, and
// HasIndex defaults to true for .bam files.
func ApplyDefaults(cfg *Config) error {
	for i := range cfg.Tracks {
		t := &cfg.Tracks[i]
		abs, err := filepath.Abs(t.Path)
		if err != nil {
			return fmt.Errorf("track %q: %w", t.Path, err)
		}
		t.Path = filepath.Clean(abs)
		if t.Name == "" {
			t.Name = filepath.Base(t.Path)
		}
		if t.HasIndex == nil {
			hasIndex := strings.HasSuffix(t.Path, ".bam")
			t.HasIndex = &hasIndex
		}
	}
	if cfg.Reference != "" {
		abs, err := filepath.Abs(cfg.Reference)
		if err != nil {
			return fmt.Errorf("reference %q: %w", cfg.Reference, err)
		}
		cfg.Reference = filepath.Clean(abs)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return nil
}

// ModelTracks converts the validated track configs into the model type the
// registry and viewer consume.
func (cfg *Config) ModelTracks() []model.Track {
	tracks := make([]model.Track, 0, len(cfg.Tracks))
	for _, t := range cfg.Tracks {
		tracks = append(tracks, model.Track{
			Path:     t.Path,
			HasIndex: t.HasIndex != nil && *t.HasIndex,
			Name:     t.Name,
		})
	}
	return tracks
}

// CheckFilesExist stats every configured file so the serve command can fail
// fast on typos instead of 404ing later.
func (cfg *Config) CheckFilesExist() error {
	for _, t := range cfg.Tracks {
		if _, err := os.Stat(t.Path); err != nil {
			return fmt.Errorf("track %s: %w", t.Path, err)
		}
	}
	if cfg.Reference != "" {
		if _, err := os.Stat(cfg.Reference); err != nil {
			return fmt.Errorf("reference %s: %w", cfg.Reference, err)
		}
	}
	return nil
}

func validPermittedIPs(ips []string) error {
	for _, ip := range ips {
		if net.ParseIP(strings.TrimSpace(ip)) == nil {
			return fmt.Errorf("permitted_ips: %q is not a valid IP address", ip)
		}
	}
	return nil
}
