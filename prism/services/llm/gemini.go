package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"prism/prism/utils/httpclient"
	"prism/prism/utils/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type ErrKind string

const (
	ErrKindNone              ErrKind = ""
	ErrKindMissingConfig     ErrKind = "missing_configuration"
	ErrKindInvalidCredential ErrKind = "invalid_credential"
	ErrKindQuota             ErrKind = "quota"
	ErrKindUnknown           ErrKind = "unknown"
)

// Result is what the text adapter hands back. Text is always renderable prose:
// on failure it holds the user-facing apology that gets stored as a normal
// assistant reply.
type Result struct {
	Text    string
	Success bool
	ErrKind ErrKind
}

const promptTemplate = "You are a helpful assistant. Keep answers clear, friendly and reasonably short.\n\nUser: %s"

const quotaFallbackText = `I'm getting a lot of requests right now and can't answer this one.

While I catch up, you can still generate images. Try:

/image a watercolor fox in a snowy forest`

const genericFallbackText = "Sorry, I couldn't process that message right now. Please try again in a moment."

type GeminiClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	model   string
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		client:  httpclient.New(),
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		apiKey:  apiKey,
		model:   model,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

// Generate makes a single attempt against the generateContent endpoint.
// No retry, no backoff: failures are classified and folded into the Result.
func (c *GeminiClient) Generate(ctx context.Context, userMessage string) Result {
	defer logging.LogDuration(ctx, "gemini_generate")()

	if c.apiKey == "" {
		return Result{Text: genericFallbackText, Success: false, ErrKind: ErrKindMissingConfig}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: fmt.Sprintf(promptTemplate, userMessage)}},
		}},
	}

	var resp geminiResponse
	err := httpclient.PostJSON(ctx, c.client, url, map[string]string{"x-goog-api-key": c.apiKey}, req, &resp)
	if err != nil {
		kind := classify(err.Error())
		logging.ErrorLogger.Error("gemini generate failed",
			zap.String("kind", string(kind)), zap.Error(err))
		return Result{Text: fallbackText(kind), Success: false, ErrKind: kind}
	}

	text := joinParts(resp)
	if text == "" {
		return Result{Text: genericFallbackText, Success: false, ErrKind: ErrKindUnknown}
	}
	return Result{Text: text, Success: true}
}

// GenerateStream yields response fragments over a channel and closes it when
// the upstream stream ends. Sends are guarded by ctx, so an abandoned
// consumer cancels cleanly instead of leaking the goroutine.
func (c *GeminiClient) GenerateStream(ctx context.Context, userMessage string) (<-chan string, error) {
	// Stopped in the reader goroutine so timer.log covers the full stream,
	// not just the setup.
	stop := logging.LogDuration(ctx, "gemini_generate_stream")

	if c.apiKey == "" {
		stop()
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, c.model)
	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: fmt.Sprintf(promptTemplate, userMessage)}},
		}},
	}

	body, err := httpclient.PostStream(ctx, c.client, url, map[string]string{"x-goog-api-key": c.apiKey}, req)
	if err != nil {
		stop()
		return nil, err
	}

	ch := make(chan string)

	go func() {
		defer func() {
			close(ch)
			body.Close()
			stop()
		}()

		reader := bufio.NewReader(body)
		for {
			select {
			case <-ctx.Done():
				logging.AppLogger.Info("gemini stream context cancelled")
				return
			default:
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					logging.ErrorLogger.Error("gemini stream read error", zap.Error(err))
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "data:") {
				line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
			if line == "[DONE]" {
				return
			}

			var chunk geminiResponse
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				logging.ErrorLogger.Error("gemini stream parse error",
					zap.Error(err), zap.String("raw_line", line))
				continue
			}

			delta := joinParts(chunk)
			if delta != "" {
				select {
				case ch <- delta:
				case <-ctx.Done():
					return
				}
			}
			if len(chunk.Candidates) > 0 && chunk.Candidates[0].FinishReason != "" {
				return
			}
		}
	}()

	return ch, nil
}

func joinParts(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// classify buckets an upstream failure by substring, mirroring how the
// provider reports quota pressure in its error body.
func classify(errText string) ErrKind {
	lower := strings.ToLower(errText)
	switch {
	case strings.Contains(lower, "quota"),
		strings.Contains(lower, "limit"),
		strings.Contains(lower, "overloaded"),
		strings.Contains(lower, "503"):
		return ErrKindQuota
	case strings.Contains(lower, "api key"),
		strings.Contains(lower, "401"),
		strings.Contains(lower, "403"):
		return ErrKindInvalidCredential
	default:
		return ErrKindUnknown
	}
}

func fallbackText(kind ErrKind) string {
	if kind == ErrKindQuota {
		return quotaFallbackText
	}
	return genericFallbackText
}
