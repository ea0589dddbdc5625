// Package config defines service configuration and builds the domain tables
// (tag catalog, formats, team names) from it.
package config

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/okian/cancha/internal/adapters/repository"
	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/model"
)

// Team naming strategies.
const (
	NamingFixed  = "fixed"
	NamingRandom = "random"
)

// TagConfig describes one catalog tag. Points are keyed by attribute short
// name (pac, sho, pas, dri, def, phy).
type TagConfig struct {
	Label       string         `koanf:"label"`
	Description string         `koanf:"description"`
	Points      map[string]int `koanf:"points"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Store selects the persistence backend: memory or sqlite.
	Store      string `koanf:"store"`
	SQLitePath string `koanf:"sqlite_path"`

	// EvaluationMode is the default mode when a request does not name one.
	EvaluationMode string `koanf:"evaluation_mode"`

	// DedupeSize bounds the in-flight evaluation guard.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// BalanceStrategy is draft or positional.
	BalanceStrategy string `koanf:"balance_strategy"`

	// TeamNaming is fixed or random; NameSeed seeds random naming.
	TeamNaming string   `koanf:"team_naming"`
	NameSeed   uint64   `koanf:"name_seed"`
	TeamNames  []string `koanf:"team_names"`

	// Formats maps a format name to players per side.
	Formats map[string]int `koanf:"formats"`

	// Tags add to or override the built-in catalog. With ReplaceTags the
	// built-in catalog is dropped.
	Tags        map[string]TagConfig `koanf:"tags"`
	ReplaceTags bool                 `koanf:"replace_tags"`
}

// New returns a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		Store:           repository.KindMemory,
		SQLitePath:      "cancha.db",
		EvaluationMode:  string(evaluation.ModeTags),
		DedupeSize:      10_000,
		MaxRankingLimit: 100,
		BalanceStrategy: string(balance.StrategyDraft),
		TeamNaming:      NamingFixed,
		TeamNames:       []string{"Team A", "Team B"},
		Formats:         map[string]int(balance.DefaultFormats()),
	}
}

// Validate checks values that Load cannot coerce.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store {
	case repository.KindMemory:
	case repository.KindSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxRankingLimit < 1 {
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	switch c.TeamNaming {
	case NamingFixed:
		if len(c.TeamNames) < 2 {
			return fmt.Errorf("%w: fixed naming needs two team_names", ErrInvalidConfig)
		}
	case NamingRandom:
	default:
		return fmt.Errorf("%w: unknown team_naming %q", ErrInvalidConfig, c.TeamNaming)
	}
	if _, err := c.FormatTable(); err != nil {
		return err
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	return nil
}

// Mode parses EvaluationMode.
func (c *Config) Mode() (evaluation.Mode, error) {
	return evaluation.ParseMode(c.EvaluationMode)
}

// Strategy parses BalanceStrategy.
func (c *Config) Strategy() (balance.Strategy, error) {
	return balance.ParseStrategy(c.BalanceStrategy)
}

// FormatTable builds the named format table.
func (c *Config) FormatTable() (balance.Formats, error) {
	f := balance.Formats(maps.Clone(c.Formats))
	if len(f) == 0 {
		f = balance.DefaultFormats()
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return f, nil
}

// Catalog builds the tag catalog: the built-in tags unless ReplaceTags is
// set, then every configured tag on top.
func (c *Config) Catalog() (evaluation.Catalog, error) {
	catalog := evaluation.Catalog{}
	if !c.ReplaceTags {
		catalog = evaluation.DefaultCatalog()
	}
	for id, tc := range c.Tags {
		tag := evaluation.Tag{
			ID:          id,
			Label:       tc.Label,
			Description: tc.Description,
			Points:      make(map[model.Attribute]int, len(tc.Points)),
		}
		if tag.Label == "" {
			tag.Label = id
		}
		for key, n := range tc.Points {
			a, ok := model.ParseAttribute(key)
			if !ok {
				return nil, fmt.Errorf("%w: tag %q has unknown attribute %q", ErrInvalidConfig, id, key)
			}
			tag.Points[a] = n
		}
		catalog[id] = tag
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: tag catalog is empty", ErrInvalidConfig)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return catalog, nil
}

// NameProvider builds the team naming strategy.
func (c *Config) NameProvider() balance.NameProvider {
	if c.TeamNaming == NamingRandom {
		return balance.NewRandomNames(c.NameSeed, c.TeamNames)
	}
	names := balance.FixedNames{"Team A", "Team B"}
	if len(c.TeamNames) >= 2 {
		names = balance.FixedNames{c.TeamNames[0], c.TeamNames[1]}
	}
	return names
}
