package controllers

import (
	"context"
	"strings"
	"unicode/utf8"

	"prism/prism/services/imagegen"
	"prism/prism/services/llm"
	"prism/prism/sources/psql/dao"
	"prism/prism/sources/psql/models"
	"prism/prism/utils/logging"
	"prism/prism/utils/sanitize"
	"prism/prism/utils/types"

	"go.uber.org/zap"
)

const MaxMessageLength = 2000

const persistenceApologyText = "Sorry, something went wrong while saving this conversation. Please try again."

// TextGenerator is the text adapter contract. Generate never errors at the
// Go level: failures are folded into the Result together with renderable
// fallback prose.
type TextGenerator interface {
	Generate(ctx context.Context, message string) llm.Result
	GenerateStream(ctx context.Context, message string) (<-chan string, error)
}

// ImageGenerator is the fallback-chain contract. The error path is reachable
// only through prompt re-validation; provider outages resolve to a
// placeholder result instead.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (imagegen.Result, error)
}

type ChatController struct {
	chatDAO *dao.ChatMessageDAO
	text    TextGenerator
	images  ImageGenerator
}

func NewChatController(chatDAO *dao.ChatMessageDAO, text TextGenerator, images ImageGenerator) *ChatController {
	return &ChatController{chatDAO: chatDAO, text: text, images: images}
}

// SendMessage persists the user's turn, asks the text adapter for a reply and
// persists that too. An adapter failure still completes the pair: the
// adapter's apology prose is stored as a normal model reply, and only the
// GeminiSuccess flag records that anything went wrong.
func (c *ChatController) SendMessage(ctx context.Context, userID, message string) (*types.SendMessageResponse, error) {
	content, err := c.validateInput(userID, message, MaxMessageLength)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleUser, models.ContentTypeText, content)
	if err != nil {
		c.storeApology(ctx, userID)
		logging.ErrorLogger.Error("failed to save user message", zap.Error(err))
		return nil, types.NewInternalError("failed to save message")
	}

	result := c.text.Generate(ctx, content)

	aiMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleModel, models.ContentTypeText, result.Text)
	if err != nil {
		c.storeApology(ctx, userID)
		logging.ErrorLogger.Error("failed to save model message", zap.Error(err))
		return nil, types.NewInternalError("failed to save response")
	}

	return &types.SendMessageResponse{
		Success:       true,
		UserMessage:   userMsg,
		AIMessage:     aiMsg,
		AIResponse:    result.Text,
		GeminiSuccess: result.Success,
		GeminiError:   string(result.ErrKind),
	}, nil
}

// GenerateImage persists the prompt, runs the fallback chain and persists the
// resulting URL. If the chain errors the prompt row is left behind with no
// model turn; unlike SendMessage, no apology reply is written. That
// asymmetry is deliberate and covered by tests.
func (c *ChatController) GenerateImage(ctx context.Context, userID, prompt string) (*types.GenerateImageResponse, error) {
	content, err := c.validateInput(userID, prompt, imagegen.MaxPromptLength)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleUser, models.ContentTypeText, content)
	if err != nil {
		logging.ErrorLogger.Error("failed to save image prompt", zap.Error(err))
		return nil, types.NewInternalError("failed to save prompt")
	}

	result, err := c.images.Generate(ctx, content)
	if err != nil {
		logging.ErrorLogger.Error("image generation failed", zap.Error(err))
		return nil, types.NewInternalError("image generation failed")
	}

	aiMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleModel, models.ContentTypeImage, result.URL)
	if err != nil {
		logging.ErrorLogger.Error("failed to save image message", zap.Error(err))
		return nil, types.NewInternalError("failed to save image")
	}

	return &types.GenerateImageResponse{
		Success:     true,
		ImageURL:    result.URL,
		UserMessage: userMsg,
		AIMessage:   aiMsg,
		Prompt:      content,
	}, nil
}

// GetHistory returns the user's entire log oldest-first. No pagination.
func (c *ChatController) GetHistory(ctx context.Context, userID string) (*types.HistoryResponse, error) {
	if userID == "" {
		return nil, types.NewUnauthorizedError("missing user identity")
	}
	messages, err := c.chatDAO.GetHistoryByUser(ctx, userID)
	if err != nil {
		logging.ErrorLogger.Error("failed to load history", zap.Error(err))
		return nil, types.NewInternalError("failed to load history")
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return &types.HistoryResponse{Success: true, Messages: messages, Count: len(messages)}, nil
}

// ClearHistory deletes every message the user owns. No confirmation and no
// soft delete at this layer.
func (c *ChatController) ClearHistory(ctx context.Context, userID string) (*types.ClearHistoryResponse, error) {
	if userID == "" {
		return nil, types.NewUnauthorizedError("missing user identity")
	}
	deleted, err := c.chatDAO.DeleteAllByUser(ctx, userID)
	if err != nil {
		logging.ErrorLogger.Error("failed to clear history", zap.Error(err))
		return nil, types.NewInternalError("failed to clear history")
	}
	logging.AppLogger.Info("history cleared",
		zap.String("user_id", userID), zap.Int64("deleted", deleted))
	return &types.ClearHistoryResponse{Success: true, Message: "chat history cleared"}, nil
}

// SendMessageStream is the streaming variant of SendMessage. Validation and
// the user-turn insert happen synchronously; the returned channel then emits
// userMessageSaved, any number of chunk events, and a terminal complete or
// error. The accumulated text is persisted exactly once, after the upstream
// stream ends. Cancelling ctx stops the stream without persisting a model
// turn.
func (c *ChatController) SendMessageStream(ctx context.Context, userID, message string) (<-chan types.StreamEvent, error) {
	content, err := c.validateInput(userID, message, MaxMessageLength)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleUser, models.ContentTypeText, content)
	if err != nil {
		c.storeApology(ctx, userID)
		logging.ErrorLogger.Error("failed to save user message", zap.Error(err))
		return nil, types.NewInternalError("failed to save message")
	}

	events := make(chan types.StreamEvent)

	go func() {
		defer close(events)

		if !emit(ctx, events, types.StreamEvent{Type: types.StreamEventUserMessageSaved, Message: userMsg}) {
			return
		}

		stream, err := c.text.GenerateStream(ctx, content)
		if err != nil {
			logging.ErrorLogger.Error("stream start failed", zap.Error(err))
			emit(ctx, events, types.StreamEvent{Type: types.StreamEventError, Error: "text generation failed"})
			return
		}

		var full strings.Builder
		for chunk := range stream {
			full.WriteString(chunk)
			if !emit(ctx, events, types.StreamEvent{Type: types.StreamEventChunk, Chunk: chunk}) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		if full.Len() == 0 {
			emit(ctx, events, types.StreamEvent{Type: types.StreamEventError, Error: "empty response"})
			return
		}

		aiMsg, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleModel, models.ContentTypeText, full.String())
		if err != nil {
			logging.ErrorLogger.Error("failed to save streamed response", zap.Error(err))
			emit(ctx, events, types.StreamEvent{Type: types.StreamEventError, Error: "failed to save response"})
			return
		}
		emit(ctx, events, types.StreamEvent{Type: types.StreamEventComplete, Message: aiMsg, Response: full.String()})
	}()

	return events, nil
}

func (c *ChatController) validateInput(userID, input string, max int) (string, error) {
	if userID == "" {
		return "", types.NewUnauthorizedError("missing user identity")
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", types.NewValidationError("message is empty")
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", types.NewValidationError("message is too long")
	}
	content := sanitize.Clean(trimmed, max)
	if content == "" {
		return "", types.NewValidationError("message is empty")
	}
	return content, nil
}

// storeApology is fire-and-forget: a failed apology insert is logged and
// swallowed so the original persistence error still propagates.
func (c *ChatController) storeApology(ctx context.Context, userID string) {
	if _, err := c.chatDAO.SaveMessage(ctx, userID, models.RoleModel, models.ContentTypeText, persistenceApologyText); err != nil {
		logging.ErrorLogger.Error("failed to save apology message", zap.Error(err))
	}
}

func emit(ctx context.Context, ch chan<- types.StreamEvent, ev types.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
