package imagegen

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"prism/prism/utils/logging"

	"go.uber.org/zap"
)

const MaxPromptLength = 1000

const placeholderText = "Image generation is unavailable right now"

// Result is a chain outcome. Provider names the backend that served it, so a
// caller that cares can tell a real image from the placeholder.
type Result struct {
	URL      string
	Provider string
	Warning  string
}

// Chain tries each provider once, in order, and short-circuits on the first
// accepted result. Exhausting every provider yields the placeholder, reported
// as success: the only error path left is prompt validation.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Generate(ctx context.Context, prompt string) (Result, error) {
	defer logging.LogDuration(ctx, "imagegen_chain")()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, fmt.Errorf("prompt is empty")
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return Result{}, fmt.Errorf("prompt exceeds %d characters", MaxPromptLength)
	}

	for _, provider := range c.providers {
		if !provider.Configured() {
			logging.AppLogger.Info("image provider skipped, not configured",
				zap.String("provider", provider.Name()))
			continue
		}
		res, err := provider.Generate(ctx, prompt)
		if err != nil {
			logging.AppLogger.Warn("image provider failed, falling through",
				zap.String("provider", provider.Name()), zap.Error(err))
			continue
		}
		logging.AppLogger.Info("image generated",
			zap.String("provider", provider.Name()))
		return Result{URL: res.URL, Provider: provider.Name(), Warning: res.Warning}, nil
	}

	return Result{
		URL:      placeholderURL(),
		Provider: "placeholder",
		Warning:  "All image providers were unavailable; showing a placeholder.",
	}, nil
}

func placeholderURL() string {
	return fmt.Sprintf("https://via.placeholder.com/1024x1024/6366f1/ffffff.png?text=%s",
		url.QueryEscape(placeholderText))
}
