package types

import "prism/prism/sources/psql/models"

type SendMessageRequest struct {
	Message string `json:"message"`
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

type SendMessageResponse struct {
	Success       bool                `json:"success"`
	UserMessage   *models.ChatMessage `json:"userMessage"`
	AIMessage     *models.ChatMessage `json:"aiMessage"`
	AIResponse    string              `json:"aiResponse"`
	GeminiSuccess bool                `json:"geminiSuccess"`
	GeminiError   string              `json:"geminiError,omitempty"`
}

type GenerateImageResponse struct {
	Success     bool                `json:"success"`
	ImageURL    string              `json:"imageUrl"`
	UserMessage *models.ChatMessage `json:"userMessage"`
	AIMessage   *models.ChatMessage `json:"aiMessage"`
	Prompt      string              `json:"prompt"`
}

type HistoryResponse struct {
	Success  bool                 `json:"success"`
	Messages []models.ChatMessage `json:"messages"`
	Count    int                  `json:"count"`
}

type ClearHistoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StreamEvent is one frame of the websocket send-message stream.
// Type is one of: userMessageSaved, chunk, complete, error.
type StreamEvent struct {
	Type     string              `json:"type"`
	Message  *models.ChatMessage `json:"message,omitempty"`
	Chunk    string              `json:"chunk,omitempty"`
	Response string              `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

const (
	StreamEventUserMessageSaved = "userMessageSaved"
	StreamEventChunk            = "chunk"
	StreamEventComplete         = "complete"
	StreamEventError            = "error"
)
