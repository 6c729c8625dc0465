package model

import "time"

// Analysis task names
const (
	TaskSummary   = "summary"
	TaskSentiment = "sentiment"
	TaskQuestion  = "question"
)

// TranscriptionRecord is one processed upload in the history database
type TranscriptionRecord struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"session_id"`
	FileName      string    `json:"file_name"`
	FileSize      int64     `json:"file_size"`
	AudioDuration float64   `json:"audio_duration"` // seconds
	Provider      string    `json:"provider"`
	Model         string    `json:"model,omitempty"`
	Transcript    string    `json:"transcript"`
	HasError      bool      `json:"has_error"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AnalysisRecord is one summary, sentiment or question result
type AnalysisRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Task      string    `json:"task"`
	Question  string    `json:"question,omitempty"`
	Response  string    `json:"response"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"created_at"`
}
