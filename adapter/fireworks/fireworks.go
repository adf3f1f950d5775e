// Package fireworks implements the Fireworks AI adapter as a thin
// instantiation of adapter/compat. Fireworks models route by the
// "fireworks" substring during name-heuristic resolution rather than a
// static list or namespace.
package fireworks

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.fireworks.ai/inference/v1"
const defaultEnvVar = "FIREWORKS_API_KEY"

var staticModels = []chat.ModelName{
	"accounts/fireworks/models/llama-v3p1-70b-instruct",
	"accounts/fireworks/models/llama-v3p1-8b-instruct",
	"accounts/fireworks/models/mixtral-8x22b-instruct",
}

// New returns the Fireworks adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterFireworks, defaultEndpoint, defaultEnvVar, staticModels, true)
}
