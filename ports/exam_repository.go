package ports

import (
	"context"

	"gorefract/domain/core"
	"gorefract/models"
)

// ExamRepository defines the interface for eye exam storage operations
type ExamRepository interface {
	// Core operations
	Save(ctx context.Context, exam *models.ExamRecord) error
	GetByID(ctx context.Context, id core.ExamID) (*models.ExamRecord, error)
	ListBySubject(ctx context.Context, subjectRef string, limit, offset int) ([]*models.ExamRecord, error)

	// ListAll streams every stored exam, newest first. Used by the trainer
	// to assemble the fitting sample.
	ListAll(ctx context.Context) ([]*models.ExamRecord, error)
}
