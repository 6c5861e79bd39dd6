package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/phoneshop/core/config"
	coredatabase "github.com/m3rciful/phoneshop/core/database"
)

// ShopConfig holds storefront identities and contact texts.
type ShopConfig struct {
	// AdminIDs may enter the broadcast composer and manage the catalog.
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	// ManagerIDs receive sales-lead notifications.
	ManagerIDs []int64 `yaml:"manager_ids" envconfig:"MANAGER_IDS"`
	// ManagerContact is the Markdown signature appended to buyer-facing texts.
	ManagerContact string `yaml:"manager_contact" envconfig:"MANAGER_CONTACT"`
}

// BroadcastConfig tunes outbound fan-out pacing.
type BroadcastConfig struct {
	// NotifyDelayMS paces staff notifications (~25 msg/sec at 40ms).
	NotifyDelayMS int `yaml:"notify_delay_ms" envconfig:"NOTIFY_DELAY_MS"`
	// BroadcastDelayMS paces mass broadcasts (~14 msg/sec at 70ms).
	BroadcastDelayMS int `yaml:"broadcast_delay_ms" envconfig:"BROADCAST_DELAY_MS"`
}

// Config aggregates core and storefront configuration.
type Config struct {
	Core      coreconfig.Config   `yaml:",inline"`
	Database  coredatabase.Config `yaml:"database"`
	Shop      ShopConfig          `yaml:"shop"`
	Broadcast BroadcastConfig     `yaml:"broadcast"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}

	if len(cfg.Shop.AdminIDs) == 0 {
		return fmt.Errorf("shop.admin_ids is required")
	}
	if len(cfg.Shop.ManagerIDs) == 0 {
		return fmt.Errorf("shop.manager_ids is required")
	}
	if strings.TrimSpace(cfg.Shop.ManagerContact) == "" {
		return fmt.Errorf("shop.manager_contact is required")
	}

	if cfg.Broadcast.NotifyDelayMS <= 0 {
		cfg.Broadcast.NotifyDelayMS = 40
	}
	if cfg.Broadcast.BroadcastDelayMS <= 0 {
		cfg.Broadcast.BroadcastDelayMS = 70
	}
	return nil
}
