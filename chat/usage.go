package chat

// CacheCreationDetails splits cache-creation tokens by TTL tier, populated
// only by adapters that distinguish them (Anthropic's 5-minute vs 1-hour
// ephemeral cache).
type CacheCreationDetails struct {
	Ephemeral5m int
	Ephemeral1h int
}

// PromptTokensDetails refines PromptTokens with additive sub-counts. A zero
// counter read off the wire counts as absent: CompactDetails drops a
// details object whose counters are all zero.
type PromptTokensDetails struct {
	CacheCreation        int
	Cached               int
	Audio                int
	CacheCreationDetails *CacheCreationDetails
}

// CompletionTokensDetails refines CompletionTokens with additive sub-counts.
type CompletionTokensDetails struct {
	Reasoning          int
	Audio              int
	AcceptedPrediction int
	RejectedPrediction int
}

// Usage reports token consumption normalized to OpenAI's convention:
// PromptTokens includes cache-hit and cache-creation tokens, and
// CompletionTokens includes reasoning tokens. Detail sub-counters are
// additive refinements of their parent total, never subtracted from it.
//
// All counters are non-negative. A counter the provider reported as 0 is
// treated the same as an absent counter by CompactDetails, so a response
// with no cache activity doesn't carry a zeroed PromptTokensDetails.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	PromptTokensDetails     *PromptTokensDetails
	CompletionTokensDetails *CompletionTokensDetails
}

// IsZero reports whether u carries no token counts at all (the "absent
// usage" case, e.g. an Ollama stream that never reported a usage event).
func (u Usage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0 &&
		u.PromptTokensDetails == nil && u.CompletionTokensDetails == nil
}

// CompactDetails drops detail sub-objects that carry no non-zero counters,
// mirroring the wire behavior described in spec invariant 6: a detail
// object is either fully meaningful or entirely absent.
func (u Usage) CompactDetails() Usage {
	out := u
	if out.PromptTokensDetails != nil {
		d := *out.PromptTokensDetails
		if d.CacheCreationDetails != nil && d.CacheCreationDetails.Ephemeral5m == 0 && d.CacheCreationDetails.Ephemeral1h == 0 {
			d.CacheCreationDetails = nil
		}
		if d.CacheCreation == 0 && d.Cached == 0 && d.Audio == 0 && d.CacheCreationDetails == nil {
			out.PromptTokensDetails = nil
		} else {
			out.PromptTokensDetails = &d
		}
	}
	if out.CompletionTokensDetails != nil {
		d := *out.CompletionTokensDetails
		if d.Reasoning == 0 && d.Audio == 0 && d.AcceptedPrediction == 0 && d.RejectedPrediction == 0 {
			out.CompletionTokensDetails = nil
		} else {
			out.CompletionTokensDetails = &d
		}
	}
	return out
}

// AddAnthropicCacheUsage folds Anthropic's cache_creation_input_tokens and
// cache_read_input_tokens into PromptTokens per the OpenAI-convention
// normalization rule, recording the split in PromptTokensDetails.
func AddAnthropicCacheUsage(inputTokens, cacheCreationInputTokens, cacheReadInputTokens, outputTokens int) Usage {
	u := Usage{
		PromptTokens:     inputTokens + cacheCreationInputTokens + cacheReadInputTokens,
		CompletionTokens: outputTokens,
	}
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	if cacheCreationInputTokens != 0 || cacheReadInputTokens != 0 {
		u.PromptTokensDetails = &PromptTokensDetails{
			CacheCreation: cacheCreationInputTokens,
			Cached:        cacheReadInputTokens,
		}
	}
	return u.CompactDetails()
}

// AddGeminiUsage folds Gemini's promptTokenCount/candidatesTokenCount/
// totalTokenCount/thoughtsTokenCount into the normalized Usage shape.
// cachedContentTokenCount is already included in promptTokenCount on the
// wire and must not be added again.
func AddGeminiUsage(promptTokenCount, cachedContentTokenCount, candidatesTokenCount, totalTokenCount, thoughtsTokenCount int) Usage {
	u := Usage{
		PromptTokens:     promptTokenCount,
		CompletionTokens: candidatesTokenCount,
		TotalTokens:      totalTokenCount,
	}
	if cachedContentTokenCount != 0 {
		u.PromptTokensDetails = &PromptTokensDetails{Cached: cachedContentTokenCount}
	}
	if thoughtsTokenCount != 0 {
		u.CompletionTokensDetails = &CompletionTokensDetails{Reasoning: thoughtsTokenCount}
	}
	return u.CompactDetails()
}
