package dto

import "voice-analysis-toolkit/internal/app/model"

// Status values of an upload response
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ChatTurn is one question and its answer in the chat panel
type ChatTurn struct {
	Question string `json:"question" example:"Who owns the launch plan?"`
	Answer   string `json:"answer" example:"Maria owns the launch plan."`
}

// ProcessResponse is returned after an upload. The chat history is always
// empty because a new file starts a new conversation.
type ProcessResponse struct {
	Status      string     `json:"status" example:"success"`
	Message     string     `json:"message" example:"File processed successfully. Ready for analysis."`
	ChatHistory []ChatTurn `json:"chat_history"`
}

// ContentResponse carries a transcript, summary or sentiment analysis
type ContentResponse struct {
	Content string `json:"content"`
}

type QuestionRequest struct {
	Question string `json:"question" binding:"max=4000" example:"When does the app ship?"`
}

// QuestionResponse echoes the question back when it should stay in the input
// box, and clears it after a successful answer
type QuestionResponse struct {
	Question    string     `json:"question"`
	ChatHistory []ChatTurn `json:"chat_history"`
}

type ChatHistoryResponse struct {
	ChatHistory []ChatTurn `json:"chat_history"`
}

// ToChatTurns converts session history for the API
func ToChatTurns(history []model.Turn) []ChatTurn {
	turns := make([]ChatTurn, len(history))
	for i, t := range history {
		turns[i] = ChatTurn{Question: t.Question, Answer: t.Answer}
	}
	return turns
}
