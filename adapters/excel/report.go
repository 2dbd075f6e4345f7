package excel

import (
	"fmt"

	"gorefract/internal/estimator"
	"gorefract/models"

	"github.com/xuri/excelize/v2"
)

// ReportWriter exports exam history and model information to an Excel
// workbook for clinicians who want the data outside the system.
type ReportWriter struct {
	filePath string
}

// NewReportWriter creates a report writer targeting the given .xlsx path.
func NewReportWriter(filePath string) *ReportWriter {
	return &ReportWriter{filePath: filePath}
}

var historyHeaders = []string{
	"Exam ID", "Subject", "Date",
	"Snellen RE", "Snellen LE",
	"Prescription RE", "Prescription LE",
	"Baseline RE", "Baseline LE",
	"Adjustment RE", "Adjustment LE",
	"Confidence RE", "Confidence LE",
}

// WriteReport writes the exam history sheet and, when artifacts are given,
// a model info sheet with the fitted coefficients and diagnostics.
func (w *ReportWriter) WriteReport(exams []*models.ExamRecord, artifacts []*estimator.ModelArtifact) error {
	f := excelize.NewFile()
	defer f.Close()

	const historySheet = "Exam History"
	f.SetSheetName("Sheet1", historySheet)

	for col, header := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(historySheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, exam := range exams {
		row := i + 2
		values := examRow(exam)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(historySheet, cell, value); err != nil {
				return fmt.Errorf("failed to write exam row %d: %w", row, err)
			}
		}
	}

	if len(artifacts) > 0 {
		if err := writeModelSheet(f, artifacts); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save report to %s: %w", w.filePath, err)
	}
	return nil
}

func examRow(exam *models.ExamRecord) []interface{} {
	values := []interface{}{
		exam.ID.String(),
		exam.SubjectRef,
		exam.CreatedAt.Format("2006-01-02 15:04"),
		exam.SnellenRE,
		exam.SnellenLE,
	}

	if exam.ResultRE != nil && exam.ResultLE != nil {
		values = append(values,
			exam.ResultRE.Prescription, exam.ResultLE.Prescription,
			exam.ResultRE.BaselinePrediction, exam.ResultLE.BaselinePrediction,
			exam.ResultRE.DuochromeAdjustment, exam.ResultLE.DuochromeAdjustment,
			string(exam.ResultRE.Confidence), string(exam.ResultLE.Confidence),
		)
	} else {
		values = append(values, "", "", "", "", "", "", "", "")
	}
	return values
}

func writeModelSheet(f *excelize.File, artifacts []*estimator.ModelArtifact) error {
	const sheet = "Models"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create model sheet: %w", err)
	}

	headers := []string{"Eye", "Intercept", "Slope", "Samples", "RMSE", "MAE", "R Squared", "Trained At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write model header: %w", err)
		}
	}

	for i, artifact := range artifacts {
		row := i + 2
		values := []interface{}{
			artifact.Eye,
			artifact.Intercept,
			artifact.Slope,
			artifact.SampleCount,
			artifact.Diagnostics.RMSE,
			artifact.Diagnostics.MAE,
			artifact.Diagnostics.RSquared,
			artifact.TrainedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write model row %d: %w", row, err)
			}
		}
	}
	return nil
}
