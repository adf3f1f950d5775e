// Package deepseek implements the DeepSeek adapter as a thin instantiation
// of adapter/compat. DeepSeek's API is OpenAI-wire-compatible; its
// reasoning model echoes a standalone reasoning_content field that
// adapter/compat already extracts into ChatResponse.ReasoningContent.
package deepseek

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.deepseek.com"
const defaultEnvVar = "DEEPSEEK_API_KEY"

// StaticModels lists the model names that route to DeepSeek during
// resolution by static-list membership.
var StaticModels = []chat.ModelName{
	"deepseek-chat",
	"deepseek-reasoner",
}

// New returns the DeepSeek adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterDeepSeek, defaultEndpoint, defaultEnvVar, StaticModels, false)
}
