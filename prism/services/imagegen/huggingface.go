package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"prism/prism/utils/httpclient"
	"prism/prism/utils/logging"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const hfModel = "stabilityai/stable-diffusion-xl-base-1.0"

// BinaryStore is where decoded image bytes can be archived in exchange for a
// short URL. Optional; a nil store means the bytes are inlined as a data URL.
type BinaryStore interface {
	Store(ctx context.Context, prompt string, data []byte, contentType string) (string, error)
}

// HuggingFaceProvider runs a hosted diffusion model through the free
// inference API. The response is the raw image, so the result is either a
// data URL or an archive object URL.
type HuggingFaceProvider struct {
	client  *resty.Client
	baseURL string
	token   string
	archive BinaryStore
}

func NewHuggingFaceProvider(token string, archive BinaryStore) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		client:  httpclient.New(),
		baseURL: "https://api-inference.huggingface.co",
		token:   token,
		archive: archive,
	}
}

func (p *HuggingFaceProvider) Name() string { return "huggingface" }

func (p *HuggingFaceProvider) Configured() bool { return p.token != "" }

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string) (ProviderResult, error) {
	url := fmt.Sprintf("%s/models/%s", p.baseURL, hfModel)
	body := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"negative_prompt":     "blurry, distorted, low quality, watermark",
			"num_inference_steps": 30,
			"guidance_scale":      7.5,
		},
	}

	data, contentType, err := httpclient.PostBytes(ctx, p.client, url,
		map[string]string{"Authorization": "Bearer " + p.token}, body)
	if err != nil {
		return ProviderResult{}, err
	}
	if len(data) == 0 {
		return ProviderResult{}, fmt.Errorf("empty image response")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if p.archive != nil {
		objectURL, err := p.archive.Store(ctx, prompt, data, contentType)
		if err == nil {
			return ProviderResult{URL: objectURL}, nil
		}
		// Archive trouble is not worth failing the attempt over.
		logging.ErrorLogger.Error("image archive store failed", zap.Error(err))
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return ProviderResult{URL: fmt.Sprintf("data:%s;base64,%s", contentType, encoded)}, nil
}
