// Package export writes the processing history to spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"voice-analysis-toolkit/internal/app/model"
)

const (
	TranscriptionsSheet = "Transcriptions"
	AnalysesSheet       = "Analyses"
)

// ToExcel saves transcriptions and analyses to outputFilePath, one sheet each
func ToExcel(transcriptions []model.TranscriptionRecord, analyses []model.AnalysisRecord, outputFilePath string) error {
	file, err := workbook(transcriptions, analyses)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}

// WriteExcel streams the same workbook as ToExcel to w
func WriteExcel(transcriptions []model.TranscriptionRecord, analyses []model.AnalysisRecord, w io.Writer) error {
	file, err := workbook(transcriptions, analyses)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func workbook(transcriptions []model.TranscriptionRecord, analyses []model.AnalysisRecord) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(TranscriptionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet %s: %w", TranscriptionsSheet, err)
	}
	addRow(sheet, "ID", "Session", "Created At", "File Name", "File Size", "Audio Duration",
		"Provider", "Model", "Transcript", "Error Message")
	for _, t := range transcriptions {
		addRow(sheet,
			fmt.Sprint(t.ID),
			t.SessionID,
			t.CreatedAt.Format(time.RFC3339),
			t.FileName,
			fmt.Sprint(t.FileSize),
			fmt.Sprintf("%.2f", t.AudioDuration),
			t.Provider,
			t.Model,
			t.Transcript,
			t.ErrorMessage,
		)
	}

	sheet, err = file.AddSheet(AnalysesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet %s: %w", AnalysesSheet, err)
	}
	addRow(sheet, "ID", "Session", "Created At", "Task", "Backend", "Question", "Response")
	for _, a := range analyses {
		addRow(sheet,
			fmt.Sprint(a.ID),
			a.SessionID,
			a.CreatedAt.Format(time.RFC3339),
			a.Task,
			a.Backend,
			a.Question,
			a.Response,
		)
	}
	return file, nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}
