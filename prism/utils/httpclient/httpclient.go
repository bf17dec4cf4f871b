// Outbound HTTP helpers shared by the provider adapters. Built on resty so
// every adapter gets the same retry-free, context-aware call shape.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

func New() *resty.Client {
	return resty.New()
}

// PostJSON posts body as JSON and decodes the response into out (out may be nil).
func PostJSON(ctx context.Context, client *resty.Client, url string, headers map[string]string, body, out interface{}) error {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers).
		SetBody(body).
		Post(url)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("bad status %d: %s", resp.StatusCode(), resp.String())
	}
	if out != nil {
		return json.Unmarshal(resp.Body(), out)
	}
	return nil
}

// PostBytes posts body as JSON and returns the raw response body, for
// endpoints that answer with binary payloads.
func PostBytes(ctx context.Context, client *resty.Client, url string, headers map[string]string, body interface{}) ([]byte, string, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers).
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("bad status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// PostStream posts body as JSON and hands the caller the unparsed response
// body. The caller owns closing it.
func PostStream(ctx context.Context, client *resty.Client, url string, headers map[string]string, body interface{}) (io.ReadCloser, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(headers).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(url)
	if err != nil {
		return nil, err
	}
	raw := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		defer raw.Close()
		data, _ := io.ReadAll(raw)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode(), string(data))
	}
	return raw, nil
}

// Head issues a header-only probe and returns status code and content type.
func Head(ctx context.Context, client *resty.Client, url string) (int, string, error) {
	resp, err := client.R().SetContext(ctx).Head(url)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode(), resp.Header().Get("Content-Type"), nil
}
