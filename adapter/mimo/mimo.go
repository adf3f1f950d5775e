// Package mimo implements the Xiaomi Mimo adapter as a thin instantiation
// of adapter/compat. Mimo models route by static-list membership; they
// carry no distinguishing name prefix of their own.
package mimo

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.mimo.xiaomi.com/v1"
const defaultEnvVar = "MIMO_API_KEY"

// StaticModels lists the model names that route to Mimo during resolution
// by static-list membership.
var StaticModels = []chat.ModelName{
	"mimo-7b-rl",
	"mimo-vl-7b-rl",
}

// New returns the Mimo adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterMimo, defaultEndpoint, defaultEnvVar, StaticModels, false)
}
