package model

import "time"

// Turn is one answered question in a session's chat history
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the per-browser processing state. Transcript is empty until an
// audio file has been processed successfully.
type Session struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name,omitempty"`
	Transcript  string    `json:"transcript,omitempty"`
	ChatHistory []Turn    `json:"chat_history"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSession creates an empty session
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		ChatHistory: []Turn{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasTranscript reports whether analysis can run on this session
func (s *Session) HasTranscript() bool {
	return s.Transcript != ""
}

// Reset clears the transcript and chat history before a new file is processed
func (s *Session) Reset() {
	s.FileName = ""
	s.Transcript = ""
	s.ChatHistory = []Turn{}
	s.UpdatedAt = time.Now()
}

// AppendTurn records a successful question and answer
func (s *Session) AppendTurn(question, answer string) {
	s.ChatHistory = append(s.ChatHistory, Turn{Question: question, Answer: answer})
	s.UpdatedAt = time.Now()
}

// HistoryCopy returns a copy of the chat history safe to hand to callers
func (s *Session) HistoryCopy() []Turn {
	history := make([]Turn, len(s.ChatHistory))
	copy(history, s.ChatHistory)
	return history
}
