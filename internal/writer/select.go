package writer

import (
	"fmt"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/config"
)

// Keys are the API keys for the optional providers.
type Keys struct {
	Anthropic string
	OpenAI    string
}

// Select returns the backend named by provider. Gemini reuses the analysis
// client so no second key is needed.
func Select(provider string, gemini analysis.TextGenerator, keys Keys) (analysis.TextGenerator, error) {
	switch provider {
	case "", config.ProviderGemini:
		if gemini == nil {
			return nil, fmt.Errorf("provider %q: no gemini client", provider)
		}
		return gemini, nil
	case config.ProviderAnthropic:
		return NewAnthropic(keys.Anthropic), nil
	case config.ProviderOpenAI:
		return NewOpenAI(keys.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown regeneration provider %q", provider)
	}
}
