package tmplcore

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRecursionDepth <= 0 {
		t.Errorf("expected positive MaxRecursionDepth, got %d", cfg.MaxRecursionDepth)
	}
	if cfg.Locale != "" {
		t.Errorf("expected empty default locale, got %q", cfg.Locale)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("maxRecursionDepth: 50\nlocale: en-US\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxRecursionDepth != 50 {
		t.Errorf("expected 50, got %d", cfg.MaxRecursionDepth)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("expected en-US, got %q", cfg.Locale)
	}
}

func TestLoadConfigRejectsInvalidRecursionDepth(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("maxRecursionDepth: 0\n"))
	if err == nil {
		t.Fatal("expected validation error for zero MaxRecursionDepth")
	}
}

func TestLoadConfigRejectsBadLocale(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("maxRecursionDepth: 10\nlocale: \"not a tag!!\"\n"))
	if err == nil {
		t.Fatal("expected validation error for malformed locale tag")
	}
}

func TestLoadConfigEmptyInputKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxRecursionDepth != DefaultConfig().MaxRecursionDepth {
		t.Errorf("expected default depth preserved, got %d", cfg.MaxRecursionDepth)
	}
}
