package inventory

import (
	"strings"
	"time"
)

// Config holds the inventory rules handed to every ingest and evaluation.
type Config struct {
	// Thresholds are the classification cut points.
	Thresholds Thresholds `mapstructure:"thresholds"`
	// Exclusions is a comma separated list of literal patterns.
	Exclusions []string `mapstructure:"exclusions" default:""`
	// DefaultUnit is applied to imported items without a unit.
	DefaultUnit string `mapstructure:"default_unit" default:"units"`
	// StrictImport rejects a whole feed when any row is invalid.
	StrictImport bool `mapstructure:"strict_import" default:"false"`
}

// ExclusionList returns the trimmed, non-blank exclusion patterns.
func (c Config) ExclusionList() []string {
	out := make([]string, 0, len(c.Exclusions))
	for _, p := range c.Exclusions {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SnapshotConfig controls automatic snapshots and diffing.
type SnapshotConfig struct {
	// AutoEnabled takes a daily automatic snapshot.
	AutoEnabled bool `mapstructure:"auto_enabled" default:"true"`
	// AutoSchedule is the cron expression for the automatic snapshot.
	AutoSchedule string `mapstructure:"auto_schedule" default:"5 0 * * *"`
	// Archive copies every new snapshot to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// DiffLimit caps diff rows returned to clients.
	DiffLimit int `mapstructure:"diff_limit" default:"1000"`
	// CacheTTL is how long diff results are cached. Zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"5m"`
}
