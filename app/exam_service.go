package app

import (
	"context"

	"gorefract/domain/duochrome"
	"gorefract/internal/errors"
	"gorefract/models"
	"gorefract/ports"
)

// ExamService runs the predict-and-record flow: validate raw clinical input,
// compute the combined prediction, and persist the exam. Persistence lives
// here, outside the prediction core, which stays pure.
type ExamService struct {
	predictor *CombinedPredictor
	examRepo  ports.ExamRepository
}

// NewExamService creates an exam service
func NewExamService(predictor *CombinedPredictor, examRepo ports.ExamRepository) *ExamService {
	return &ExamService{
		predictor: predictor,
		examRepo:  examRepo,
	}
}

// RecordExam validates the input, predicts both eyes and stores the exam
// record. Validation failures abort before any model call or write.
func (s *ExamService) RecordExam(ctx context.Context, subjectRef, snellenRE, snellenLE string, duoRE, duoLE duochrome.Response) (*models.ExamRecord, error) {
	input, err := s.predictor.PrepareInput(snellenRE, snellenLE, duoRE, duoLE)
	if err != nil {
		return nil, err
	}

	result, err := s.predictor.Predict(input)
	if err != nil {
		return nil, err
	}

	exam := models.NewExamRecord(subjectRef, snellenRE, snellenLE, duoRE, duoLE)
	exam.ResultRE = &result.RightEye
	exam.ResultLE = &result.LeftEye

	if err := s.examRepo.Save(ctx, exam); err != nil {
		return nil, errors.Wrap(err, "failed to save exam record")
	}
	return exam, nil
}

// History returns a subject's stored exams, newest first.
func (s *ExamService) History(ctx context.Context, subjectRef string, limit, offset int) ([]*models.ExamRecord, error) {
	return s.examRepo.ListBySubject(ctx, subjectRef, limit, offset)
}
