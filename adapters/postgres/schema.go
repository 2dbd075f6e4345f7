package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates the eye_exams table if it does not exist. Mirrors the
// layout the exam repository reads and writes.
func CreateSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS eye_exams (
		id UUID PRIMARY KEY,
		subject_ref TEXT NOT NULL,
		snellen_re VARCHAR(16) NOT NULL,
		snellen_le VARCHAR(16) NOT NULL,
		duochrome_re JSONB NOT NULL,
		duochrome_le JSONB NOT NULL,
		result_re JSONB,
		result_le JSONB,
		measured_re DOUBLE PRECISION,
		measured_le DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_eye_exams_subject ON eye_exams (subject_ref, created_at DESC);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create eye_exams schema: %w", err)
	}
	return nil
}
