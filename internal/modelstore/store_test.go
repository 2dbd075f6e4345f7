package modelstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorefract/internal/errors"
	"gorefract/internal/estimator"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	artifact := &estimator.ModelArtifact{
		Eye:         "RE",
		Intercept:   1.25,
		Slope:       -3.5,
		SampleCount: 42,
		Diagnostics: estimator.Diagnostics{RMSE: 0.4, MAE: 0.3, RSquared: 0.81},
		TrainedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.Save(ctx, "RE", artifact); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "RE")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *artifact {
		t.Errorf("loaded artifact differs: %+v vs %+v", loaded, artifact)
	}
}

func TestLoadMissingIsModelUnavailable(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = store.Load(context.Background(), "LE")
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if errors.GetCode(err) != errors.CodeModelUnavailable {
		t.Errorf("error code = %s, expected %s", errors.GetCode(err), errors.CodeModelUnavailable)
	}
}

func TestLoadCorruptIsModelUnavailable(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "model_RE.json"), []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt artifact: %v", err)
	}

	_, err = store.Load(context.Background(), "RE")
	if err == nil {
		t.Fatal("expected error for corrupt artifact")
	}
	if errors.GetCode(err) != errors.CodeModelUnavailable {
		t.Errorf("error code = %s, expected %s", errors.GetCode(err), errors.CodeModelUnavailable)
	}
}

func TestLoadPair(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	re := &estimator.ModelArtifact{Eye: "RE", Intercept: 1, Slope: -2, SampleCount: 10}
	if err := store.Save(ctx, "RE", re); err != nil {
		t.Fatalf("Save RE failed: %v", err)
	}

	// One missing eye means no usable pair
	if _, err := store.LoadPair(ctx); err == nil {
		t.Fatal("expected LoadPair to fail with only one artifact")
	}

	le := &estimator.ModelArtifact{Eye: "LE", Intercept: 2, Slope: -3, SampleCount: 10}
	if err := store.Save(ctx, "LE", le); err != nil {
		t.Fatalf("Save LE failed: %v", err)
	}

	pair, err := store.LoadPair(ctx)
	if err != nil {
		t.Fatalf("LoadPair failed: %v", err)
	}
	prediction, err := pair.RightEye.Predict(0.5)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if prediction != 0.0 {
		t.Errorf("right prediction = %v, expected 0.0", prediction)
	}
}
