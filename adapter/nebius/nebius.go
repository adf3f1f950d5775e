// Package nebius implements the Nebius AI Studio adapter as a thin
// instantiation of adapter/compat.
package nebius

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.studio.nebius.ai/v1"
const defaultEnvVar = "NEBIUS_API_KEY"

var staticModels = []chat.ModelName{
	"meta-llama/Meta-Llama-3.1-70B-Instruct",
	"Qwen/Qwen2.5-Coder-32B-Instruct",
}

// New returns the Nebius adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterNebius, defaultEndpoint, defaultEnvVar, staticModels, true)
}
