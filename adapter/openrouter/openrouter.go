// Package openrouter implements the OpenRouter adapter as a thin
// instantiation of adapter/compat. OpenRouter multiplexes many upstream
// providers behind one OpenAI-compatible endpoint; model names are always
// namespaced ("openrouter::anthropic/claude-3.5-sonnet") since they don't
// follow any one provider's naming convention.
package openrouter

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://openrouter.ai/api/v1"
const defaultEnvVar = "OPENROUTER_API_KEY"

var staticModels = []chat.ModelName{
	"anthropic/claude-3.5-sonnet",
	"openai/gpt-4o",
	"meta-llama/llama-3.1-70b-instruct",
}

// New returns the OpenRouter adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterOpenRouter, defaultEndpoint, defaultEnvVar, staticModels, false)
}
