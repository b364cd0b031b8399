package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MINDSET_"
	envConfigFile = "MINDSET_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MINDSET_CONFIG is set
//  3. env (prefix MINDSET_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// MINDSET_TABLE_AUDIT_LOG -> table_audit_log (flat keys matching koanf tags).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot default away.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreDynamoDB, StoreMongo:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.ImportBatchSize < 1 || c.ImportBatchSize > MaxImportBatchSize {
		return fmt.Errorf("%w: import_batch_size must be between 1 and %d", ErrInvalidConfig, MaxImportBatchSize)
	}
	if c.RenameWorkers < 1 {
		return fmt.Errorf("%w: rename_workers must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]string{
		"table_participants": c.TableParticipants,
		"table_assessments":  c.TableAssessments,
		"table_audit_log":    c.TableAuditLog,
		"table_notes":        c.TableNotes,
		"table_org_units":    c.TableOrgUnits,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, name)
		}
	}
	return nil
}
