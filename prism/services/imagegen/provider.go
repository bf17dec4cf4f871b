package imagegen

import "context"

// Provider is one image backend in the fallback chain. Generate makes a
// single best-effort attempt; there is no retry inside a provider.
type Provider interface {
	Name() string
	// Configured reports whether the provider has the credentials it needs.
	// Unconfigured providers are skipped without an attempt.
	Configured() bool
	Generate(ctx context.Context, prompt string) (ProviderResult, error)
}

// ProviderResult is a single accepted image. Warning carries anything the
// user should see alongside the URL (e.g. that a paid provider was used).
type ProviderResult struct {
	URL     string
	Warning string
}
