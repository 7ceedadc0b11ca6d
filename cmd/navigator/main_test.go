package main

import (
	"log/slog"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("NAV_IMPERIAL", "true")
	t.Setenv("NAV_DELAY", "2")
	t.Setenv("NAV_TELL_STREET_NAME", "not a bool")

	cfg := configFromEnv()
	if !cfg.Imperial || cfg.Delay != 2 || !cfg.TellStreetName {
		t.Fatalf("got imperial %v delay %d street names %v", cfg.Imperial, cfg.Delay, cfg.TellStreetName)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("NAV_TEST_ADDR", ":9090")
	t.Setenv("NAV_TEST_SIZE", "x")
	if got := getEnv("NAV_TEST_ADDR", ":8080"); got != ":9090" {
		t.Fatalf("got %q", got)
	}
	if got := getEnv("NAV_TEST_UNSET", ":8080"); got != ":8080" {
		t.Fatalf("got %q", got)
	}
	if got := getEnvInt("NAV_TEST_SIZE", 1024); got != 1024 {
		t.Fatalf("got %d", got)
	}
}
