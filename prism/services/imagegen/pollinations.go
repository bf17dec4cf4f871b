package imagegen

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"prism/prism/utils/httpclient"

	"github.com/go-resty/resty/v2"
)

// PollinationsProvider builds an on-demand image URL and validates it with a
// header-only probe. The URL itself is returned; the image is never fetched.
type PollinationsProvider struct {
	client  *resty.Client
	baseURL string
}

func NewPollinationsProvider() *PollinationsProvider {
	return &PollinationsProvider{
		client:  httpclient.New(),
		baseURL: "https://image.pollinations.ai",
	}
}

func (p *PollinationsProvider) Name() string { return "pollinations" }

// Configured is always true: this provider needs no credential.
func (p *PollinationsProvider) Configured() bool { return true }

func (p *PollinationsProvider) Generate(ctx context.Context, prompt string) (ProviderResult, error) {
	seed := rand.Intn(1_000_000)
	imageURL := fmt.Sprintf("%s/prompt/%s?width=1024&height=1024&seed=%d&model=flux&nologo=true",
		p.baseURL, url.PathEscape(prompt), seed)

	status, contentType, err := httpclient.Head(ctx, p.client, imageURL)
	if err != nil {
		return ProviderResult{}, err
	}
	if status != http.StatusOK {
		return ProviderResult{}, fmt.Errorf("probe returned status %d", status)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ProviderResult{}, fmt.Errorf("probe returned content type %q", contentType)
	}
	return ProviderResult{URL: imageURL}, nil
}
