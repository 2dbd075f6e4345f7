package training

import (
	"context"

	"gorefract/domain/acuity"
	"gorefract/internal/errors"
	"gorefract/internal/estimator"
	"gorefract/ports"
)

// MinSamples is the smallest usable training set per eye.
const MinSamples = 2

// Trainer fits the per-eye baseline models from stored exam records that
// carry measured prescriptions, and persists the fitted artifacts.
type Trainer struct {
	examRepo ports.ExamRepository
	store    ports.ModelStore
}

// NewTrainer creates a trainer
func NewTrainer(examRepo ports.ExamRepository, store ports.ModelStore) *Trainer {
	return &Trainer{
		examRepo: examRepo,
		store:    store,
	}
}

// Result reports one training run.
type Result struct {
	RightEye    *estimator.ModelArtifact `json:"right_eye"`
	LeftEye     *estimator.ModelArtifact `json:"left_eye"`
	SampleCount int                      `json:"sample_count"`
	Skipped     int                      `json:"skipped"`
}

// Train assembles (decimal acuity, measured prescription) samples from the
// exam repository, fits OLS models for both eyes and saves the artifacts.
// Exams without ground truth or with unparseable acuity are skipped, not
// fatal; an empty or degenerate sample is.
func (t *Trainer) Train(ctx context.Context) (*Result, error) {
	exams, err := t.examRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load exams for training")
	}

	var acuitiesRE, prescriptionsRE []float64
	var acuitiesLE, prescriptionsLE []float64
	skipped := 0

	for _, exam := range exams {
		if !exam.HasGroundTruth() {
			skipped++
			continue
		}
		decimalRE, errRE := acuity.ToDecimal(exam.SnellenRE)
		decimalLE, errLE := acuity.ToDecimal(exam.SnellenLE)
		if errRE != nil || errLE != nil {
			skipped++
			continue
		}
		acuitiesRE = append(acuitiesRE, decimalRE)
		prescriptionsRE = append(prescriptionsRE, *exam.MeasuredRE)
		acuitiesLE = append(acuitiesLE, decimalLE)
		prescriptionsLE = append(prescriptionsLE, *exam.MeasuredLE)
	}

	if len(acuitiesRE) < MinSamples {
		return nil, errors.New(errors.CodeInternalError, "not enough exams with measured prescriptions to train")
	}

	modelRE, err := estimator.FitOLS("RE", acuitiesRE, prescriptionsRE)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fit right-eye model")
	}
	modelLE, err := estimator.FitOLS("LE", acuitiesLE, prescriptionsLE)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fit left-eye model")
	}

	artifactRE := modelRE.Artifact()
	artifactLE := modelLE.Artifact()

	if err := t.store.Save(ctx, "RE", &artifactRE); err != nil {
		return nil, errors.Wrap(err, "failed to save right-eye model")
	}
	if err := t.store.Save(ctx, "LE", &artifactLE); err != nil {
		return nil, errors.Wrap(err, "failed to save left-eye model")
	}

	return &Result{
		RightEye:    &artifactRE,
		LeftEye:     &artifactLE,
		SampleCount: len(acuitiesRE),
		Skipped:     skipped,
	}, nil
}

// FitFromSamples fits both eyes directly from in-memory samples, bypassing
// the repository. Used by tests and ad-hoc calibration.
func FitFromSamples(samples []Sample) (*estimator.ModelPair, error) {
	var acuitiesRE, prescriptionsRE, acuitiesLE, prescriptionsLE []float64
	for _, s := range samples {
		acuitiesRE = append(acuitiesRE, s.DecimalRE)
		prescriptionsRE = append(prescriptionsRE, s.PrescriptionRE)
		acuitiesLE = append(acuitiesLE, s.DecimalLE)
		prescriptionsLE = append(prescriptionsLE, s.PrescriptionLE)
	}

	modelRE, err := estimator.FitOLS("RE", acuitiesRE, prescriptionsRE)
	if err != nil {
		return nil, err
	}
	modelLE, err := estimator.FitOLS("LE", acuitiesLE, prescriptionsLE)
	if err != nil {
		return nil, err
	}
	return &estimator.ModelPair{RightEye: modelRE, LeftEye: modelLE}, nil
}

// Sample is one paired training observation.
type Sample struct {
	DecimalRE      float64
	PrescriptionRE float64
	DecimalLE      float64
	PrescriptionLE float64
}
