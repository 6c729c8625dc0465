package dto

import (
	"time"

	"voice-analysis-toolkit/internal/app/model"
)

type ListTranscriptionsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

type TranscriptionResponse struct {
	ID            int64     `json:"id"`
	FileName      string    `json:"file_name"`
	FileSize      int64     `json:"file_size"`
	AudioDuration float64   `json:"audio_duration_sec"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model,omitempty"`
	Transcript    string    `json:"transcript"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type AnalysisResponse struct {
	ID        int64     `json:"id"`
	Task      string    `json:"task"`
	Question  string    `json:"question,omitempty"`
	Response  string    `json:"response"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Transcriptions []TranscriptionResponse `json:"transcriptions"`
	Analyses       []AnalysisResponse      `json:"analyses"`
}

func ToTranscriptionResponses(records []model.TranscriptionRecord) []TranscriptionResponse {
	out := make([]TranscriptionResponse, len(records))
	for i, r := range records {
		out[i] = TranscriptionResponse{
			ID:            r.ID,
			FileName:      r.FileName,
			FileSize:      r.FileSize,
			AudioDuration: r.AudioDuration,
			Provider:      r.Provider,
			Model:         r.Model,
			Transcript:    r.Transcript,
			ErrorMessage:  r.ErrorMessage,
			CreatedAt:     r.CreatedAt,
		}
	}
	return out
}

func ToAnalysisResponses(records []model.AnalysisRecord) []AnalysisResponse {
	out := make([]AnalysisResponse, len(records))
	for i, r := range records {
		out[i] = AnalysisResponse{
			ID:        r.ID,
			Task:      r.Task,
			Question:  r.Question,
			Response:  r.Response,
			Backend:   r.Backend,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
