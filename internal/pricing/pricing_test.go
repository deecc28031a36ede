package pricing

import (
	"testing"

	"github.com/sdpower/cchistory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCostWeightedSum(t *testing.T) {
	tokens := types.TokenCounts{
		InputTokens:              300,
		OutputTokens:             50,
		CacheCreationInputTokens: 10,
		CacheReadInputTokens:     5,
	}

	assert.InDelta(t, 0.001689, EstimateCost(tokens), 1e-12)
}

func TestEstimateCostZero(t *testing.T) {
	assert.Equal(t, 0.0, EstimateCost(types.TokenCounts{}))
}

func TestDefaultRatesPerToken(t *testing.T) {
	assert.InDelta(t, 3e-6, DefaultRates.Input, 1e-15)
	assert.InDelta(t, 15e-6, DefaultRates.Output, 1e-15)
	assert.InDelta(t, 3.75e-6, DefaultRates.CacheWrite, 1e-15)
	assert.InDelta(t, 0.30e-6, DefaultRates.CacheRead, 1e-15)
}

func TestCostKeepsSubCentPrecision(t *testing.T) {
	cost := DefaultRates.Cost(types.TokenCounts{CacheReadInputTokens: 1})

	assert.InDelta(t, 0.0000003, cost, 1e-13)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultRates.Validate())

	err := Rates{Input: 1, Output: -1}.Validate()
	require.Error(t, err)
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pricing.output", verr.Field)
}
