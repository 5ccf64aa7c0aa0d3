package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Connector != "splitwise" {
		t.Errorf("connector = %q, want splitwise", cfg.Connector)
	}
	if cfg.Embedder != "onnx" {
		t.Errorf("embedder = %q, want onnx", cfg.Embedder)
	}
	if cfg.Strategy != "flat" {
		t.Errorf("strategy = %q, want flat", cfg.Strategy)
	}
	if cfg.HighThreshold != 0.75 || cfg.LowThreshold != 0.45 {
		t.Errorf("thresholds = %v/%v, want 0.75/0.45", cfg.HighThreshold, cfg.LowThreshold)
	}
	if cfg.Output != "stdout" {
		t.Errorf("output = %q, want stdout", cfg.Output)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPENDSORT_STRATEGY", "centroid")
	t.Setenv("SPENDSORT_HIGH_THRESHOLD", "0.8")
	t.Setenv("SPENDSORT_LOW_THRESHOLD", "0.3")
	t.Setenv("SPENDSORT_MODEL_PATH", "custom/model.onnx")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Strategy != "centroid" {
		t.Errorf("strategy = %q, want centroid", cfg.Strategy)
	}
	if cfg.HighThreshold != 0.8 || cfg.LowThreshold != 0.3 {
		t.Errorf("thresholds = %v/%v", cfg.HighThreshold, cfg.LowThreshold)
	}
	if cfg.ModelPath != "custom/model.onnx" {
		t.Errorf("model path = %q", cfg.ModelPath)
	}
}

func TestLoadRejectsBadStrategy(t *testing.T) {
	t.Setenv("SPENDSORT_STRATEGY", "knn")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("SPENDSORT_HIGH_THRESHOLD", "0.3")
	t.Setenv("SPENDSORT_LOW_THRESHOLD", "0.6")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when high <= low")
	}
}

func TestLoadVoyageRequiresKey(t *testing.T) {
	t.Setenv("SPENDSORT_EMBEDDER", "voyage")
	t.Setenv("VOYAGE_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for voyage embedder without API key")
	}
}

func TestLoadFileOutputRequiresPath(t *testing.T) {
	t.Setenv("SPENDSORT_OUTPUT", "file")
	t.Setenv("SPENDSORT_OUTPUT_PATH", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for file output without path")
	}
}
