// Package together implements the Together AI adapter as a thin
// instantiation of adapter/compat.
package together

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.together.xyz/v1"
const defaultEnvVar = "TOGETHER_API_KEY"

var staticModels = []chat.ModelName{
	"meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo",
	"meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
	"Qwen/Qwen2.5-72B-Instruct-Turbo",
	"mistralai/Mixtral-8x22B-Instruct-v0.1",
}

// New returns the Together adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterTogether, defaultEndpoint, defaultEnvVar, staticModels, true)
}
