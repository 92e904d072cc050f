package problemgen

import (
	"context"
	"time"

	"github.com/fol2/mathsquiz/internal/llm"
)

// ProviderFactory builds a provider for an API key.
type ProviderFactory func(ctx context.Context, apiKey string) (llm.Provider, error)

// credentialTimeout bounds a credential probe.
const credentialTimeout = 15 * time.Second

// ValidateCredential sends a minimal request with candidate and reports
// whether it round-tripped. Any failure, including a panic inside the
// provider, yields false.
func ValidateCredential(ctx context.Context, factory ProviderFactory, candidate string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if candidate == "" || factory == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, PurposeCredential), credentialTimeout)
	defer cancel()

	provider, err := factory(ctx, candidate)
	if err != nil || provider == nil {
		return false
	}

	_, err = provider.Generate(ctx, llm.Request{
		Prompt:    `Reply with {"ok": true}.`,
		Format:    llm.FormatSchema,
		Schema:    credentialProbeSchema,
		MaxTokens: 32,
	})
	return err == nil
}
