package pricing

import (
	"fmt"

	"github.com/sdpower/cchistory/internal/types"
)

const perMillion = 1_000_000

// Rates are USD prices per single token for each token category.
type Rates struct {
	Input      float64 `json:"input" yaml:"input"`
	Output     float64 `json:"output" yaml:"output"`
	CacheWrite float64 `json:"cache_write" yaml:"cache_write"`
	CacheRead  float64 `json:"cache_read" yaml:"cache_read"`
}

// DefaultRates are the Sonnet list prices: $3 input, $15 output,
// $3.75 cache write and $0.30 cache read per million tokens.
var DefaultRates = PerMillion(3.00, 15.00, 3.75, 0.30)

// PerMillion builds Rates from prices quoted per million tokens.
func PerMillion(input, output, cacheWrite, cacheRead float64) Rates {
	return Rates{
		Input:      input / perMillion,
		Output:     output / perMillion,
		CacheWrite: cacheWrite / perMillion,
		CacheRead:  cacheRead / perMillion,
	}
}

// Cost returns the weighted sum of tokens at r. The result is not rounded.
func (r Rates) Cost(tokens types.TokenCounts) float64 {
	return float64(tokens.InputTokens)*r.Input +
		float64(tokens.OutputTokens)*r.Output +
		float64(tokens.CacheCreationInputTokens)*r.CacheWrite +
		float64(tokens.CacheReadInputTokens)*r.CacheRead
}

func (r Rates) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"input", r.Input},
		{"output", r.Output},
		{"cache_write", r.CacheWrite},
		{"cache_read", r.CacheRead},
	}
	for _, f := range fields {
		if f.value < 0 {
			return types.ValidationError{Field: "pricing." + f.name, Message: fmt.Sprintf("rate must not be negative, got %g", f.value)}
		}
	}
	return nil
}

// EstimateCost prices tokens at DefaultRates.
func EstimateCost(tokens types.TokenCounts) float64 {
	return DefaultRates.Cost(tokens)
}
