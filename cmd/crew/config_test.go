package main

import (
	"testing"

	"github.com/castorlabs/crew/internal/config"
)

func TestSetConfigValueRoundTrip(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		key, value, want string
	}{
		{"anthropic.model", "claude-opus-4-1", "claude-opus-4-1"},
		{"defaults.investment", "42.5", "42.5"},
		{"defaults.rounds", "9", "9"},
		{"defaults.executor", "claude", "claude"},
		{"state.path", "/tmp/x.db", "/tmp/x.db"},
	}
	for _, tc := range cases {
		if err := setConfigValue(cfg, tc.key, tc.value); err != nil {
			t.Fatalf("set %s: %v", tc.key, err)
		}
		got, err := getConfigValue(cfg, tc.key)
		if err != nil {
			t.Fatalf("get %s: %v", tc.key, err)
		}
		if got != tc.want {
			t.Errorf("%s = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	cfg := config.Default()
	if err := setConfigValue(cfg, "defaults.rounds", "lots"); err == nil {
		t.Error("expected error for non-numeric rounds")
	}
	if err := setConfigValue(cfg, "defaults.executor", "carrier-pigeon"); err == nil {
		t.Error("expected error for unknown executor")
	}
	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetConfigValueMasksAPIKey(t *testing.T) {
	cfg := config.Default()
	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil || got != "(not set)" {
		t.Fatalf("unset key: got %q, %v", got, err)
	}
	cfg.Anthropic.APIKey = "secret"
	got, _ = getConfigValue(cfg, "anthropic.api_key")
	if got != "****" {
		t.Fatalf("expected masked key, got %q", got)
	}
}
