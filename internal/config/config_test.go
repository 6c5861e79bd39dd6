package config

import (
	"strings"
	"testing"

	coreconfig "github.com/m3rciful/phoneshop/core/config"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Core.Telegram.Token = "123:abc"
	cfg.Core.Telegram.RunMode = coreconfig.RunModeLongpoll
	cfg.Shop.AdminIDs = []int64{1}
	cfg.Shop.ManagerIDs = []int64{2, 3}
	cfg.Shop.ManagerContact = "📞 *Менеджер*: +7 900 000-00-00"
	return cfg
}

func TestNormalizeDefaultsPacing(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Broadcast.NotifyDelayMS != 40 {
		t.Fatalf("notify delay = %d", cfg.Broadcast.NotifyDelayMS)
	}
	if cfg.Broadcast.BroadcastDelayMS != 70 {
		t.Fatalf("broadcast delay = %d", cfg.Broadcast.BroadcastDelayMS)
	}
}

func TestNormalizeKeepsExplicitPacing(t *testing.T) {
	cfg := validConfig()
	cfg.Broadcast.NotifyDelayMS = 25
	cfg.Broadcast.BroadcastDelayMS = 100
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Broadcast.NotifyDelayMS != 25 || cfg.Broadcast.BroadcastDelayMS != 100 {
		t.Fatalf("explicit pacing overwritten: %+v", cfg.Broadcast)
	}
}

func TestNormalizeRequiresIdentities(t *testing.T) {
	cfg := validConfig()
	cfg.Shop.AdminIDs = nil
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "admin_ids") {
		t.Fatalf("expected admin_ids error, got %v", err)
	}

	cfg = validConfig()
	cfg.Shop.ManagerIDs = nil
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "manager_ids") {
		t.Fatalf("expected manager_ids error, got %v", err)
	}

	cfg = validConfig()
	cfg.Shop.ManagerContact = "  "
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "manager_contact") {
		t.Fatalf("expected manager_contact error, got %v", err)
	}
}
