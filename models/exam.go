package models

import (
	"time"

	"gorefract/domain/core"
	"gorefract/domain/duochrome"
	"gorefract/domain/prescription"
)

// ExamRecord is one persisted eye exam: the raw clinical inputs for both
// eyes plus the engine's combined result at the time of the exam.
type ExamRecord struct {
	ID         core.ExamID `json:"id" db:"id"`
	SubjectRef string      `json:"subject_ref" db:"subject_ref"`

	SnellenRE string `json:"snellen_re" db:"snellen_re"`
	SnellenLE string `json:"snellen_le" db:"snellen_le"`

	DuochromeRE duochrome.Response `json:"duochrome_re"`
	DuochromeLE duochrome.Response `json:"duochrome_le"`

	ResultRE *prescription.EyeResult `json:"result_re,omitempty"`
	ResultLE *prescription.EyeResult `json:"result_le,omitempty"`

	// Ground truth from a full refraction, when available. These rows are
	// what the trainer fits against; prediction-only exams leave them nil.
	MeasuredRE *float64 `json:"measured_re,omitempty" db:"measured_re"`
	MeasuredLE *float64 `json:"measured_le,omitempty" db:"measured_le"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewExamRecord builds an exam record with a fresh ID and timestamp.
func NewExamRecord(subjectRef, snellenRE, snellenLE string, duoRE, duoLE duochrome.Response) *ExamRecord {
	return &ExamRecord{
		ID:          core.NewExamID(),
		SubjectRef:  subjectRef,
		SnellenRE:   snellenRE,
		SnellenLE:   snellenLE,
		DuochromeRE: duoRE,
		DuochromeLE: duoLE,
		CreatedAt:   time.Now().UTC(),
	}
}

// HasGroundTruth reports whether the record carries measured prescriptions
// for both eyes, making it usable as a training sample.
func (e *ExamRecord) HasGroundTruth() bool {
	return e.MeasuredRE != nil && e.MeasuredLE != nil
}
