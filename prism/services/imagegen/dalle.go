package imagegen

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const dalleCostWarning = "Generated with DALL·E 3 — this request incurred a paid API charge."

// DalleProvider is the paid last-resort backend before the placeholder.
type DalleProvider struct {
	client *openai.Client
	apiKey string
}

func NewDalleProvider(apiKey string) *DalleProvider {
	p := &DalleProvider{apiKey: apiKey}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	return p
}

func (p *DalleProvider) Name() string { return "dalle" }

func (p *DalleProvider) Configured() bool { return p.apiKey != "" }

func (p *DalleProvider) Generate(ctx context.Context, prompt string) (ProviderResult, error) {
	if p.client == nil {
		return ProviderResult{}, fmt.Errorf("openai api key is not configured")
	}
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return ProviderResult{}, err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return ProviderResult{}, fmt.Errorf("no image url in response")
	}
	return ProviderResult{URL: resp.Data[0].URL, Warning: dalleCostWarning}, nil
}
