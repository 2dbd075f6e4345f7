package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gorefract/domain/core"
	"gorefract/domain/prescription"
	"gorefract/models"
	"gorefract/ports"

	"github.com/jmoiron/sqlx"
)

// examRepository implements the ExamRepository interface
type examRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new exam repository
func NewExamRepository(db *sqlx.DB) ports.ExamRepository {
	return &examRepository{db: db}
}

// Save inserts a new exam record
func (r *examRepository) Save(ctx context.Context, exam *models.ExamRecord) error {
	duoRE, err := json.Marshal(exam.DuochromeRE)
	if err != nil {
		return fmt.Errorf("failed to marshal right-eye duochrome: %w", err)
	}
	duoLE, err := json.Marshal(exam.DuochromeLE)
	if err != nil {
		return fmt.Errorf("failed to marshal left-eye duochrome: %w", err)
	}
	resultRE, err := marshalNullable(exam.ResultRE)
	if err != nil {
		return fmt.Errorf("failed to marshal right-eye result: %w", err)
	}
	resultLE, err := marshalNullable(exam.ResultLE)
	if err != nil {
		return fmt.Errorf("failed to marshal left-eye result: %w", err)
	}

	query := `INSERT INTO eye_exams (
		id, subject_ref, snellen_re, snellen_le, duochrome_re, duochrome_le,
		result_re, result_le, measured_re, measured_le, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

	_, err = r.db.ExecContext(ctx, query,
		exam.ID, exam.SubjectRef, exam.SnellenRE, exam.SnellenLE, duoRE, duoLE,
		resultRE, resultLE, exam.MeasuredRE, exam.MeasuredLE, exam.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exam: %w", err)
	}
	return nil
}

// GetByID retrieves an exam by its ID
func (r *examRepository) GetByID(ctx context.Context, id core.ExamID) (*models.ExamRecord, error) {
	query := selectColumns + ` FROM eye_exams WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	exam, err := scanExam(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("exam not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

// ListBySubject retrieves a subject's exams newest first, with pagination
func (r *examRepository) ListBySubject(ctx context.Context, subjectRef string, limit, offset int) ([]*models.ExamRecord, error) {
	query := selectColumns + ` FROM eye_exams
		WHERE subject_ref = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, subjectRef, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams for subject: %w", err)
	}
	defer rows.Close()

	return collectExams(rows)
}

// ListAll retrieves every stored exam newest first
func (r *examRepository) ListAll(ctx context.Context) ([]*models.ExamRecord, error) {
	query := selectColumns + ` FROM eye_exams ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	defer rows.Close()

	return collectExams(rows)
}

const selectColumns = `SELECT
	id, subject_ref, snellen_re, snellen_le, duochrome_re, duochrome_le,
	result_re, result_le, measured_re, measured_le, created_at`

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExam(row rowScanner) (*models.ExamRecord, error) {
	var exam models.ExamRecord
	var duoRE, duoLE, resultRE, resultLE []byte

	err := row.Scan(
		&exam.ID, &exam.SubjectRef, &exam.SnellenRE, &exam.SnellenLE, &duoRE, &duoLE,
		&resultRE, &resultLE, &exam.MeasuredRE, &exam.MeasuredLE, &exam.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(duoRE, &exam.DuochromeRE); err != nil {
		return nil, fmt.Errorf("failed to unmarshal right-eye duochrome: %w", err)
	}
	if err := json.Unmarshal(duoLE, &exam.DuochromeLE); err != nil {
		return nil, fmt.Errorf("failed to unmarshal left-eye duochrome: %w", err)
	}
	exam.ResultRE, err = unmarshalNullable(resultRE)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal right-eye result: %w", err)
	}
	exam.ResultLE, err = unmarshalNullable(resultLE)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal left-eye result: %w", err)
	}

	return &exam, nil
}

func collectExams(rows *sql.Rows) ([]*models.ExamRecord, error) {
	var exams []*models.ExamRecord
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating exams: %w", err)
	}
	return exams, nil
}

func marshalNullable(result *prescription.EyeResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}

func unmarshalNullable(data []byte) (*prescription.EyeResult, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result prescription.EyeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
