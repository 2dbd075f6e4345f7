package modelstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorefract/internal/estimator"
	"gorefract/internal/errors"
)

// FileStore persists fitted model artifacts as JSON files on the local
// filesystem, one per eye, under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates a file-backed model store, creating the base
// directory if needed.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes the artifact for an eye, replacing any previous one. The write
// goes through a temp file and rename so a crash never leaves a torn artifact.
func (s *FileStore) Save(ctx context.Context, eye string, artifact *estimator.ModelArtifact) error {
	if artifact == nil {
		return errors.InternalError("cannot save nil model artifact")
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model artifact: %w", err)
	}

	path := s.artifactPath(eye)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize model artifact: %w", err)
	}
	return nil
}

// Load reads the artifact for an eye. Missing or unreadable artifacts are
// MODEL_UNAVAILABLE: the caller must not fall back to a default model.
func (s *FileStore) Load(ctx context.Context, eye string) (*estimator.ModelArtifact, error) {
	path := s.artifactPath(eye)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ModelUnavailable(fmt.Sprintf("no fitted model for eye %s at %s: train the models first", eye, path))
		}
		return nil, errors.Wrapf(err, "failed to read model artifact for eye %s", eye)
	}

	var artifact estimator.ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.ModelUnavailable(fmt.Sprintf("model artifact for eye %s is corrupt: %v", eye, err))
	}
	return &artifact, nil
}

// LoadPair loads both eyes and wraps them as a swappable model pair.
func (s *FileStore) LoadPair(ctx context.Context) (*estimator.ModelPair, error) {
	right, err := s.Load(ctx, "RE")
	if err != nil {
		return nil, err
	}
	left, err := s.Load(ctx, "LE")
	if err != nil {
		return nil, err
	}
	return &estimator.ModelPair{
		RightEye: estimator.NewLinearModel(*right),
		LeftEye:  estimator.NewLinearModel(*left),
	}, nil
}

func (s *FileStore) artifactPath(eye string) string {
	name := fmt.Sprintf("model_%s.json", strings.ToUpper(eye))
	return filepath.Join(s.basePath, name)
}
