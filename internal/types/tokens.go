package types

// TokenCounts represents aggregated token counts for different token types
type TokenCounts struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// Add returns the counter-wise sum of tc and other.
func (tc TokenCounts) Add(other TokenCounts) TokenCounts {
	return TokenCounts{
		InputTokens:              tc.InputTokens + other.InputTokens,
		OutputTokens:             tc.OutputTokens + other.OutputTokens,
		CacheCreationInputTokens: tc.CacheCreationInputTokens + other.CacheCreationInputTokens,
		CacheReadInputTokens:     tc.CacheReadInputTokens + other.CacheReadInputTokens,
	}
}

// GetTotal calculates the total number of tokens from TokenCounts
func (tc TokenCounts) GetTotal() int {
	return tc.InputTokens + tc.OutputTokens + tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}

// CacheTotal is the combined cache write and cache read count.
func (tc TokenCounts) CacheTotal() int {
	return tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}
