package chord

import (
	"errors"
	"math"
	"testing"

	"chorda/domain/core"
)

func TestConfig_NormalizeFillsGeometryDefaults(t *testing.T) {
	cfg, err := Config{Threshold: 0.2}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Scale != ScaleLinear {
		t.Fatalf("scale default: %v", cfg.Scale)
	}
	if cfg.BaseRadius != 0.8 || cfg.BowFactor != 0.1 || cfg.LabelRadius != 1.35 {
		t.Fatalf("geometry defaults: %+v", cfg)
	}
	if cfg.Threshold != 0.2 {
		t.Fatalf("threshold changed: %v", cfg.Threshold)
	}
}

func TestConfig_NormalizeRejectsBadInput(t *testing.T) {
	if _, err := (Config{Scale: "cubic"}).Normalize(); !errors.Is(err, core.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if _, err := (Config{Threshold: -0.1}).Normalize(); !errors.Is(err, core.ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
	if _, err := (Config{Threshold: math.NaN()}).Normalize(); !errors.Is(err, core.ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold for NaN, got %v", err)
	}
}
